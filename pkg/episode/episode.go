package episode

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/boristopalov/rollout/pkg/agent"
	"github.com/boristopalov/rollout/pkg/environment"
)

// Phase tracks where the driver is in an episode's lifecycle.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseRunning
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseRunning:
		return "running"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Result summarizes a finished episode.
type Result struct {
	EpisodeID string
	Steps     int
	Return    float64
}

// Loop drives one episode: act, step, observe, until the environment
// signals termination or truncation. It imposes no step ceiling of its
// own; a runaway environment is stopped through the context.
type Loop struct {
	id    string
	env   environment.Adapter
	agent *agent.EpisodeAgent
	phase Phase
}

// NewLoop creates a driver for a single episode.
func NewLoop(env environment.Adapter, a *agent.EpisodeAgent) *Loop {
	return &Loop{
		id:    "episode-" + uuid.New().String(),
		env:   env,
		agent: a,
		phase: PhaseNotStarted,
	}
}

func (l *Loop) GetID() string {
	return l.id
}

func (l *Loop) GetPhase() Phase {
	return l.phase
}

// Run executes the episode to completion. Environment and model errors
// abort the run and propagate; the environment is torn down on every exit
// path once the episode has started.
func (l *Loop) Run(ctx context.Context) (Result, error) {
	if l.phase != PhaseNotStarted {
		return Result{}, fmt.Errorf("episode %s already %s", l.id, l.phase)
	}

	observation, _, err := l.env.Reset()
	if err != nil {
		return Result{}, fmt.Errorf("failed to reset environment: %v", err)
	}

	text := l.agent.Reset(observation)
	log.Printf("%s started:\n%s", l.id, text)
	l.phase = PhaseRunning

	steps := 0
	defer func() {
		l.phase = PhaseDone
		if err := l.env.Close(); err != nil {
			log.Printf("%s: error closing environment: %v", l.id, err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		default:
		}

		action, err := l.agent.Act(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("agent failed to act: %v", err)
		}

		result, err := l.env.Step(action)
		if err != nil {
			return Result{}, fmt.Errorf("environment step failed: %v", err)
		}
		steps++

		text := l.agent.Observe(result.Observation, result.Reward, result.Terminated, result.Truncated)
		log.Printf("%s step %d (action %d):\n%s", l.id, steps, action, text)

		if result.Terminated || result.Truncated {
			break
		}
	}

	return Result{
		EpisodeID: l.id,
		Steps:     steps,
		Return:    l.agent.Return(),
	}, nil
}
