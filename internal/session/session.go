package session

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Greeting is the first message of every session.
const Greeting = "How can I help you today?"

// Message represents a single chat message
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Log is the ordered message history of one session. It is owned by the
// caller and only grows: a turn appends the user message and its reply
// together, never one without the other.
type Log struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"start_time"`

	mu       sync.RWMutex
	messages []Message
}

// New starts a session log holding only the greeting.
func New() *Log {
	now := time.Now()
	return &Log{
		ID:        uuid.NewString(),
		StartTime: now,
		messages: []Message{{
			Role:      RoleAssistant,
			Content:   Greeting,
			Timestamp: now,
		}},
	}
}

// Messages returns a copy of the history in insertion order.
func (l *Log) Messages() []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len returns the number of messages in the log.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}

// AppendTurn records a user message followed by the assistant reply.
func (l *Log) AppendTurn(userText, reply string) {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages,
		Message{Role: RoleUser, Content: userText, Timestamp: now},
		Message{Role: RoleAssistant, Content: reply, Timestamp: now},
	)
}

// BuildContext renders history as one "Role: content" line per message and
// appends the new user turn with an open assistant marker.
func BuildContext(history []Message, userText string) string {
	var b strings.Builder
	for _, msg := range history {
		b.WriteString(msg.Role.Label())
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteByte('\n')
	}
	b.WriteString("User: ")
	b.WriteString(userText)
	b.WriteString("\nAssistant:")
	return b.String()
}

// Label returns the role with its first letter capitalised.
func (r Role) Label() string {
	if r == "" {
		return ""
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}
