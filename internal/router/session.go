package router

import (
	"context"
	"sync"

	"wellness-chatter/internal/history"
)

// Session binds a Router to one conversation and serialises its messages.
type Session struct {
	mu     sync.Mutex
	router *Router
	memory *history.Window
	count  int
}

func NewSession(r *Router, memory *history.Window) *Session {
	return &Session{router: r, memory: memory}
}

func (s *Session) Process(ctx context.Context, input string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count++
	return s.router.Process(ctx, s.memory, input)
}

func (s *Session) Memory() *history.Window { return s.memory }

// Messages is the number of user messages processed, crisis ones included.
func (s *Session) Messages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Reset clears the conversation for a fresh start.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memory.Clear()
	s.count = 0
}
