package environment

import (
	"testing"
)

func TestScripted(t *testing.T) {
	script := []StepResult{
		{Observation: "mid", Reward: 0.5},
		{Observation: "end", Reward: 1.0, Terminated: true},
	}
	env := NewScripted("test env", "start", script)

	if got := env.Describe(); got != "test env" {
		t.Errorf("Describe() = %q, want %q", got, "test env")
	}

	t.Run("step before reset fails", func(t *testing.T) {
		fresh := NewScripted("env", "start", script)
		if _, err := fresh.Step(0); err == nil {
			t.Error("expected error stepping before reset")
		}
	})

	t.Run("replays script in order", func(t *testing.T) {
		obs, _, err := env.Reset()
		if err != nil {
			t.Fatalf("Reset() error: %v", err)
		}
		if obs != "start" {
			t.Errorf("initial observation = %v, want %q", obs, "start")
		}

		first, err := env.Step(1)
		if err != nil {
			t.Fatalf("Step() error: %v", err)
		}
		if first.Observation != "mid" || first.Reward != 0.5 {
			t.Errorf("first step = %+v", first)
		}

		second, err := env.Step(0)
		if err != nil {
			t.Fatalf("Step() error: %v", err)
		}
		if !second.Terminated {
			t.Error("second step should terminate")
		}

		if _, err := env.Step(0); err == nil {
			t.Error("expected error stepping past the script")
		}
	})

	t.Run("reset rewinds the script", func(t *testing.T) {
		if _, _, err := env.Reset(); err != nil {
			t.Fatalf("Reset() error: %v", err)
		}
		first, err := env.Step(0)
		if err != nil {
			t.Fatalf("Step() error: %v", err)
		}
		if first.Observation != "mid" {
			t.Errorf("first step after reset = %+v, want the script start", first)
		}
	})

	t.Run("closed environment rejects reset", func(t *testing.T) {
		if err := env.Close(); err != nil {
			t.Fatalf("Close() error: %v", err)
		}
		if _, _, err := env.Reset(); err == nil {
			t.Error("expected error resetting a closed environment")
		}
	})
}
