package conversation

import (
	"fmt"
	"strconv"
	"strings"
)

// Role identifies the author of a message in the dialogue.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single entry in the dialogue sent to the model.
// Messages are never mutated after they are appended to a Log.
type Message struct {
	Role    Role
	Content string
}

// Log is the ordered, append-only dialogue history for one episode.
// Insertion order defines the history the model sees on every call.
type Log struct {
	messages []Message
}

func NewLog() *Log {
	return &Log{
		messages: make([]Message, 0),
	}
}

// Initialize clears the history and seeds it with two system messages:
// the environment's description and the fixed task instructions.
func (l *Log) Initialize(envDescription string, instructions string) {
	l.messages = l.messages[:0]
	l.messages = append(l.messages,
		Message{Role: RoleSystem, Content: envDescription},
		Message{Role: RoleSystem, Content: instructions},
	)
}

// RecordObservation renders the environment's feedback into the fixed
// block format, appends it as a user message, and returns the rendered text.
func (l *Log) RecordObservation(observation any, reward float64, terminated bool, truncated bool, episodeReturn float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Observation: %v\n", observation)
	fmt.Fprintf(&b, "Reward: %s\n", formatNumber(reward))
	fmt.Fprintf(&b, "Termination: %t\n", terminated)
	fmt.Fprintf(&b, "Truncation: %t\n", truncated)
	fmt.Fprintf(&b, "Return: %s", formatNumber(episodeReturn))

	text := b.String()
	l.messages = append(l.messages, Message{Role: RoleUser, Content: text})
	return text
}

// RecordReply appends the model's reply verbatim as an assistant message.
func (l *Log) RecordReply(text string) {
	l.messages = append(l.messages, Message{Role: RoleAssistant, Content: text})
}

// Messages returns a copy of the history to prevent external modifications.
func (l *Log) Messages() []Message {
	messages := make([]Message, len(l.messages))
	copy(messages, l.messages)
	return messages
}

func (l *Log) Len() int {
	return len(l.messages)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
