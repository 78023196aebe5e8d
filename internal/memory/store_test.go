package memory

import (
	"fmt"
	"sync"
	"testing"
)

func TestAddAndHistoryOrder(t *testing.T) {
	s := NewStore(0, 0)
	s.Add("tok", RoleUser, "hi")
	s.Add("tok", RoleAI, "hello")

	h := s.History("tok")
	if len(h) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(h))
	}
	if h[0].Role != RoleUser || h[0].Content != "hi" {
		t.Errorf("unexpected first message: %+v", h[0])
	}
	if h[1].Role != RoleAI || h[1].Content != "hello" {
		t.Errorf("unexpected second message: %+v", h[1])
	}
}

func TestHistoryUnknownToken(t *testing.T) {
	s := NewStore(0, 0)
	if h := s.History("nobody"); len(h) != 0 {
		t.Errorf("expected empty history for unknown token, got %d messages", len(h))
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	s := NewStore(0, 0)
	s.Add("a", RoleUser, "from a")
	s.Add("b", RoleUser, "from b")

	if h := s.History("a"); len(h) != 1 || h[0].Content != "from a" {
		t.Errorf("session a polluted: %+v", h)
	}
	if h := s.History("b"); len(h) != 1 || h[0].Content != "from b" {
		t.Errorf("session b polluted: %+v", h)
	}
}

func TestHistoryReturnsCopy(t *testing.T) {
	s := NewStore(0, 0)
	s.Add("tok", RoleUser, "hi")

	h := s.History("tok")
	h[0].Content = "mutated"

	if got := s.History("tok")[0].Content; got != "hi" {
		t.Errorf("store history mutated through returned slice: %q", got)
	}
}

func TestSessionLRUEviction(t *testing.T) {
	s := NewStore(2, 0)
	s.Add("a", RoleUser, "1")
	s.Add("b", RoleUser, "2")

	// Touch "a" so "b" becomes least recently used.
	s.History("a")

	s.Add("c", RoleUser, "3")

	if s.Len() != 2 {
		t.Fatalf("expected 2 sessions after eviction, got %d", s.Len())
	}
	if h := s.History("b"); len(h) != 0 {
		t.Error("expected LRU session 'b' to be evicted")
	}
	if h := s.History("a"); len(h) != 1 {
		t.Error("expected recently used session 'a' to survive")
	}
	if h := s.History("c"); len(h) != 1 {
		t.Error("expected new session 'c' to exist")
	}
}

func TestMessageCap(t *testing.T) {
	s := NewStore(0, 3)
	for i := 0; i < 5; i++ {
		s.Add("tok", RoleUser, fmt.Sprintf("m%d", i))
	}

	h := s.History("tok")
	if len(h) != 3 {
		t.Fatalf("expected 3 retained messages, got %d", len(h))
	}
	if h[0].Content != "m2" || h[2].Content != "m4" {
		t.Errorf("expected oldest messages dropped, got %+v", h)
	}
}

func TestConcurrentSessions(t *testing.T) {
	s := NewStore(0, 0)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			tok := fmt.Sprintf("tok-%d", n)
			for j := 0; j < 50; j++ {
				s.Add(tok, RoleUser, "msg")
				s.History(tok)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 8; i++ {
		tok := fmt.Sprintf("tok-%d", i)
		if got := len(s.History(tok)); got != 50 {
			t.Errorf("session %s: expected 50 messages, got %d", tok, got)
		}
	}
}
