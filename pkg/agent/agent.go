package agent

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"

	"github.com/google/uuid"

	"github.com/boristopalov/rollout/pkg/conversation"
)

const (
	INSTRUCTION_PROMPT = `You are an agent playing the environment described above. After every observation you will decide on your next move. Briefly think step by step if you need to, then finish your reply with a single line of the form "Action: <n>", where <n> is the integer index of the action you choose.`

	// One retry on an unusable reply, then fall back to the default action.
	MAX_ACT_ATTEMPTS = 2

	// DEFAULT_ACTION keeps the episode alive when the model never produces
	// a parseable action. The environment must always receive something.
	DEFAULT_ACTION = 0
)

var actionPattern = regexp.MustCompile(`Action:\s*(-?\d+)`)

// Client is the narrow language-model collaborator: it takes the full
// dialogue history and returns the reply text. Any error it returns is
// treated as fatal by the agent.
type Client interface {
	Invoke(ctx context.Context, messages []conversation.Message) (string, error)
}

// EpisodeAgent bridges the conversation log and the language model for a
// single episode at a time: it renders environment feedback into the
// dialogue, asks the model for a move, and decodes the reply into an action.
type EpisodeAgent struct {
	id             string
	client         Client
	conv           *conversation.Log
	envDescription string
	instructions   string
	episodeReturn  float64
}

type AgentParams struct {
	AgentID        string
	Client         Client
	EnvDescription string
	Instructions   string
}

type AgentOption func(*AgentParams)

func WithAgentId(id string) AgentOption {
	return func(p *AgentParams) {
		p.AgentID = id
	}
}

func WithClient(c Client) AgentOption {
	return func(p *AgentParams) {
		p.Client = c
	}
}

func WithEnvDescription(description string) AgentOption {
	return func(p *AgentParams) {
		p.EnvDescription = description
	}
}

func WithInstructions(instructions string) AgentOption {
	return func(p *AgentParams) {
		p.Instructions = instructions
	}
}

func defaultAgentParams() *AgentParams {
	return &AgentParams{
		AgentID:      "agent-" + uuid.New().String(),
		Instructions: INSTRUCTION_PROMPT,
	}
}

// NewEpisodeAgent creates a new episode agent.
func NewEpisodeAgent(opts ...AgentOption) (*EpisodeAgent, error) {
	params := defaultAgentParams()
	for _, opt := range opts {
		opt(params)
	}

	if params.Client == nil {
		return nil, fmt.Errorf("agent requires a model client")
	}

	return &EpisodeAgent{
		id:             params.AgentID,
		client:         params.Client,
		conv:           conversation.NewLog(),
		envDescription: params.EnvDescription,
		instructions:   params.Instructions,
	}, nil
}

func (a *EpisodeAgent) GetID() string {
	return a.id
}

// Return is the cumulative reward received since the last Reset.
func (a *EpisodeAgent) Return() float64 {
	return a.episodeReturn
}

// Conversation returns the agent's dialogue log.
func (a *EpisodeAgent) Conversation() *conversation.Log {
	return a.conv
}

// Reset starts a new episode: zeroes the return, reseeds the conversation
// with the environment description and task instructions, and records the
// initial observation. Returns the rendered feedback text.
func (a *EpisodeAgent) Reset(initialObservation any) string {
	a.episodeReturn = 0
	a.conv.Initialize(a.envDescription, a.instructions)
	return a.conv.RecordObservation(initialObservation, 0, false, false, 0)
}

// Observe folds one step's feedback into the episode: the reward is added
// to the running return and the observation is appended to the dialogue.
// Returns the rendered feedback text.
func (a *EpisodeAgent) Observe(observation any, reward float64, terminated bool, truncated bool) string {
	a.episodeReturn += reward
	return a.conv.RecordObservation(observation, reward, terminated, truncated, a.episodeReturn)
}

// Act asks the model for the next move. The full conversation is sent on
// every attempt and every reply is recorded verbatim. A reply without a
// parseable "Action: <n>" line gets one retry; if that fails too, the
// default action is returned instead of an error so the episode keeps
// moving. Model-invocation errors are not retried and propagate as-is.
func (a *EpisodeAgent) Act(ctx context.Context) (int, error) {
	for attempt := 1; attempt <= MAX_ACT_ATTEMPTS; attempt++ {
		reply, err := a.client.Invoke(ctx, a.conv.Messages())
		if err != nil {
			return 0, err
		}
		a.conv.RecordReply(reply)

		action, err := parseAction(reply)
		if err == nil {
			return action, nil
		}
		log.Printf("agent %s: attempt %d/%d: %v", a.id, attempt, MAX_ACT_ATTEMPTS, err)
	}

	log.Printf("agent %s: no parseable action after %d attempts, falling back to action %d", a.id, MAX_ACT_ATTEMPTS, DEFAULT_ACTION)
	return DEFAULT_ACTION, nil
}

// Helper function to extract the chosen action from the model's reply
func parseAction(reply string) (int, error) {
	matches := actionPattern.FindStringSubmatch(reply)
	if len(matches) < 2 {
		return 0, fmt.Errorf("could not find action in reply: %s", reply)
	}

	action, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("could not parse action value: %v", err)
	}

	return action, nil
}
