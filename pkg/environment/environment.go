package environment

// StepResult carries everything the environment reports after one action.
type StepResult struct {
	Observation any
	Reward      float64
	Terminated  bool
	Truncated   bool
	Info        map[string]any
}

// Adapter is the narrow contract an environment must expose to drive an
// episode. The environment's internal simulation is its own business; the
// loop only consumes this surface.
type Adapter interface {
	// Describe returns a fixed textual description of the environment's
	// semantics, used as the first system message of every episode.
	Describe() string
	// Reset starts a new episode and returns the initial observation.
	Reset() (observation any, info map[string]any, err error)
	// Step applies one action. The adapter owns its action-space
	// constraints; an out-of-range action is the adapter's to reject.
	Step(action int) (StepResult, error)
	// Close tears the environment down after the episode ends.
	Close() error
}
