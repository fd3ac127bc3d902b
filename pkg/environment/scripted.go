package environment

import (
	"fmt"
)

// Scripted is a playback adapter: it returns a fixed initial observation and
// then replays a predetermined sequence of step results regardless of the
// actions it receives. It exists for demos and tests, not as a simulation.
type Scripted struct {
	description string
	initial     any
	script      []StepResult
	cursor      int
	started     bool
	closed      bool
}

// NewScripted creates a scripted environment. The last entry of the script
// should set Terminated or Truncated, otherwise stepping past the end fails.
func NewScripted(description string, initial any, script []StepResult) *Scripted {
	return &Scripted{
		description: description,
		initial:     initial,
		script:      script,
	}
}

func (s *Scripted) Describe() string {
	return s.description
}

func (s *Scripted) Reset() (any, map[string]any, error) {
	if s.closed {
		return nil, nil, fmt.Errorf("environment is closed")
	}
	s.cursor = 0
	s.started = true
	return s.initial, map[string]any{}, nil
}

func (s *Scripted) Step(action int) (StepResult, error) {
	if !s.started {
		return StepResult{}, fmt.Errorf("step before reset")
	}
	if s.cursor >= len(s.script) {
		return StepResult{}, fmt.Errorf("script exhausted after %d steps", len(s.script))
	}
	result := s.script[s.cursor]
	s.cursor++
	return result, nil
}

func (s *Scripted) Close() error {
	s.closed = true
	return nil
}
