// Package transcript holds the in-memory chat transcript: an ordered,
// append-only log of typed messages. The transcript lives for one session
// and is reset only by an explicit clear.
package transcript

import (
	"sync"
	"time"
)

// Role identifies the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Type identifies how a message's content is rendered.
type Type string

const (
	TypeText  Type = "text"
	TypeCode  Type = "code"
	TypeImage Type = "image"
)

// Message represents a single transcript entry. Content holds the code body
// for code messages and the image URL for image messages. Messages are
// immutable once appended.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Type      Type      `json:"type"`
	Language  string    `json:"language,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Store is the ordered message log. Insertion order is display order.
// The only mutations are Append and Clear.
type Store struct {
	mu       sync.Mutex
	messages []Message
}

// NewStore creates an empty transcript.
func NewStore() *Store {
	return &Store{}
}

// Append adds one message to the end of the transcript. The language tag is
// meaningful only for code messages and is discarded for any other type.
func (s *Store) Append(role Role, content string, typ Type, language string) {
	if typ != TypeCode {
		language = ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, Message{
		Role:      role,
		Content:   content,
		Type:      typ,
		Language:  language,
		Timestamp: time.Now(),
	})
}

// All returns a snapshot of the full transcript in insertion order.
func (s *Store) All() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Recent returns the last n messages in original order. If the transcript
// holds fewer than n messages, all of them are returned.
func (s *Store) Recent(n int) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > len(s.messages) {
		n = len(s.messages)
	}
	if n <= 0 {
		return nil
	}
	out := make([]Message, n)
	copy(out, s.messages[len(s.messages)-n:])
	return out
}

// Clear resets the transcript to empty.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

// Len returns the number of messages in the transcript.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}
