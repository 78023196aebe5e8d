// Package memory holds per-session conversation history in process memory.
// Sessions are keyed by the exact bearer token string and bounded by an LRU
// eviction policy so a long-running server does not grow without limit.
package memory

import (
	"container/list"
	"sync"
)

type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// Message is one turn of a conversation.
type Message struct {
	Role    Role
	Content string
}

const (
	defaultMaxSessions = 256
	defaultMaxMessages = 200
)

type session struct {
	token    string
	messages []Message
}

// Store is a concurrency-safe, LRU-bounded conversation store.
type Store struct {
	mu          sync.Mutex
	sessions    map[string]*list.Element // token -> element whose Value is *session
	order       *list.List               // front = most recently used
	maxSessions int
	maxMessages int
}

// NewStore creates a Store. Non-positive limits fall back to defaults.
func NewStore(maxSessions, maxMessages int) *Store {
	if maxSessions <= 0 {
		maxSessions = defaultMaxSessions
	}
	if maxMessages <= 0 {
		maxMessages = defaultMaxMessages
	}
	return &Store{
		sessions:    make(map[string]*list.Element),
		order:       list.New(),
		maxSessions: maxSessions,
		maxMessages: maxMessages,
	}
}

// Add appends a message to the token's session, creating the session lazily.
// The oldest session is evicted when the session cap is exceeded; the oldest
// messages are dropped when a single session exceeds the message cap.
func (s *Store) Add(token string, role Role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.sessions[token]
	if !ok {
		el = s.order.PushFront(&session{token: token})
		s.sessions[token] = el
		if s.order.Len() > s.maxSessions {
			oldest := s.order.Back()
			s.order.Remove(oldest)
			delete(s.sessions, oldest.Value.(*session).token)
		}
	} else {
		s.order.MoveToFront(el)
	}

	sess := el.Value.(*session)
	sess.messages = append(sess.messages, Message{Role: role, Content: content})
	if n := len(sess.messages); n > s.maxMessages {
		sess.messages = append(sess.messages[:0:0], sess.messages[n-s.maxMessages:]...)
	}
}

// History returns a copy of the token's message sequence in insertion order,
// or an empty slice if the session does not exist. Reading counts as use for
// eviction purposes.
func (s *Store) History(token string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.sessions[token]
	if !ok {
		return nil
	}
	s.order.MoveToFront(el)

	sess := el.Value.(*session)
	out := make([]Message, len(sess.messages))
	copy(out, sess.messages)
	return out
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}
