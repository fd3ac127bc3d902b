package episode

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/boristopalov/rollout/pkg/agent"
	"github.com/boristopalov/rollout/pkg/conversation"
	"github.com/boristopalov/rollout/pkg/environment"
)

// scriptedClient replays a fixed sequence of model replies.
type scriptedClient struct {
	replies []string
	calls   int
}

func (c *scriptedClient) Invoke(ctx context.Context, messages []conversation.Message) (string, error) {
	i := c.calls
	c.calls++
	if i >= len(c.replies) {
		i = len(c.replies) - 1
	}
	return c.replies[i], nil
}

// failingEnv fails on Step and records whether Close was called.
type failingEnv struct {
	closed bool
}

func (e *failingEnv) Describe() string { return "broken env" }

func (e *failingEnv) Reset() (any, map[string]any, error) {
	return "start", map[string]any{}, nil
}

func (e *failingEnv) Step(action int) (environment.StepResult, error) {
	return environment.StepResult{}, errors.New("hardware on fire")
}

func (e *failingEnv) Close() error {
	e.closed = true
	return nil
}

func newBlackjackFixture(t *testing.T, replies []string) (*environment.Scripted, *agent.EpisodeAgent) {
	t.Helper()
	env := environment.NewScripted("blackjack", "(10, 3, 0)", []environment.StepResult{
		{Observation: "(14, 3, 0)", Reward: 0.0},
		{Observation: "(14, 3, 0)", Reward: 1.0, Terminated: true},
	})
	a, err := agent.NewEpisodeAgent(
		agent.WithAgentId("test-agent"),
		agent.WithClient(&scriptedClient{replies: replies}),
		agent.WithEnvDescription(env.Describe()),
	)
	if err != nil {
		t.Fatalf("Failed to create agent: %v", err)
	}
	return env, a
}

func TestRun(t *testing.T) {
	env, a := newBlackjackFixture(t, []string{"I should hit.\nAction: 1", "I stand.\nAction: 0"})
	loop := NewLoop(env, a)

	if got := loop.GetPhase(); got != PhaseNotStarted {
		t.Errorf("initial phase = %v, want %v", got, PhaseNotStarted)
	}

	result, err := loop.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if result.Steps != 2 {
		t.Errorf("result.Steps = %d, want 2", result.Steps)
	}
	if result.Return != 1.0 {
		t.Errorf("result.Return = %v, want 1.0", result.Return)
	}
	if result.EpisodeID != loop.GetID() {
		t.Errorf("result.EpisodeID = %q, want %q", result.EpisodeID, loop.GetID())
	}
	if got := loop.GetPhase(); got != PhaseDone {
		t.Errorf("phase after run = %v, want %v", got, PhaseDone)
	}

	// reset + (reply + observation) per step
	if got := a.Conversation().Len(); got != 7 {
		t.Errorf("conversation length = %d, want 7", got)
	}

	messages := a.Conversation().Messages()
	last := messages[len(messages)-1]
	if !strings.Contains(last.Content, "Return: 1") {
		t.Errorf("final observation missing %q: %q", "Return: 1", last.Content)
	}
	if !strings.Contains(last.Content, "Termination: true") {
		t.Errorf("final observation missing %q: %q", "Termination: true", last.Content)
	}
}

func TestRunTwiceFails(t *testing.T) {
	env, a := newBlackjackFixture(t, []string{"Action: 1", "Action: 0"})
	loop := NewLoop(env, a)

	if _, err := loop.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if _, err := loop.Run(context.Background()); err == nil {
		t.Error("expected error running a finished episode again")
	}
}

func TestRunStopsOnTruncation(t *testing.T) {
	env := environment.NewScripted("timed env", "start", []environment.StepResult{
		{Observation: "cut off", Reward: 0.5, Truncated: true},
	})
	a, err := agent.NewEpisodeAgent(
		agent.WithClient(&scriptedClient{replies: []string{"Action: 1"}}),
		agent.WithEnvDescription(env.Describe()),
	)
	if err != nil {
		t.Fatalf("Failed to create agent: %v", err)
	}

	result, err := NewLoop(env, a).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if result.Steps != 1 {
		t.Errorf("result.Steps = %d, want 1", result.Steps)
	}
	if result.Return != 0.5 {
		t.Errorf("result.Return = %v, want 0.5", result.Return)
	}
}

func TestRunEnvironmentErrorPropagates(t *testing.T) {
	env := &failingEnv{}
	a, err := agent.NewEpisodeAgent(
		agent.WithClient(&scriptedClient{replies: []string{"Action: 0"}}),
		agent.WithEnvDescription(env.Describe()),
	)
	if err != nil {
		t.Fatalf("Failed to create agent: %v", err)
	}

	loop := NewLoop(env, a)
	if _, err := loop.Run(context.Background()); err == nil {
		t.Fatal("expected environment error to propagate")
	}
	if !env.closed {
		t.Error("environment should be closed after a failed run")
	}
	if got := loop.GetPhase(); got != PhaseDone {
		t.Errorf("phase after failed run = %v, want %v", got, PhaseDone)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	env, a := newBlackjackFixture(t, []string{"Action: 1", "Action: 0"})
	loop := NewLoop(env, a)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := loop.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want %v", err, context.Canceled)
	}
}

// End-to-end scenario: the full reset → act → step → observe cycle.
func TestEndToEnd(t *testing.T) {
	env, a := newBlackjackFixture(t, []string{"Action: 1", "Action: 0"})

	obs, _, err := env.Reset()
	if err != nil {
		t.Fatalf("Reset() error: %v", err)
	}

	text := a.Reset(obs)
	for _, want := range []string{"Observation: (10, 3, 0)", "Reward: 0", "Return: 0"} {
		if !strings.Contains(text, want) {
			t.Errorf("reset text missing %q: %q", want, text)
		}
	}

	action, err := a.Act(context.Background())
	if err != nil {
		t.Fatalf("Act() error: %v", err)
	}
	if action != 1 {
		t.Errorf("first Act() = %d, want 1", action)
	}

	step, err := env.Step(action)
	if err != nil {
		t.Fatalf("Step() error: %v", err)
	}
	text = a.Observe(step.Observation, step.Reward, step.Terminated, step.Truncated)
	if !strings.Contains(text, "Return: 0") {
		t.Errorf("observe text missing %q: %q", "Return: 0", text)
	}
	if step.Terminated || step.Truncated {
		t.Fatal("episode ended early")
	}

	action, err = a.Act(context.Background())
	if err != nil {
		t.Fatalf("Act() error: %v", err)
	}
	if action != 0 {
		t.Errorf("second Act() = %d, want 0", action)
	}

	step, err = env.Step(action)
	if err != nil {
		t.Fatalf("Step() error: %v", err)
	}
	a.Observe(step.Observation, step.Reward, step.Terminated, step.Truncated)
	if !step.Terminated {
		t.Error("episode should terminate after the second step")
	}
	if got := a.Return(); got != 1.0 {
		t.Errorf("Return() = %v, want 1.0", got)
	}
}
