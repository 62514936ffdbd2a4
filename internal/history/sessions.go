package history

import "sync"

// Sessions hands out one Window per chat.
type Sessions struct {
	mu      sync.RWMutex
	size    int
	windows map[int64]*Window
}

func NewSessions(size int) *Sessions {
	return &Sessions{size: size, windows: make(map[int64]*Window)}
}

// Get returns the window for chatID, creating it on first use.
func (s *Sessions) Get(chatID int64) *Window {
	s.mu.RLock()
	w, ok := s.windows[chatID]
	s.mu.RUnlock()
	if ok {
		return w
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok = s.windows[chatID]; ok {
		return w
	}
	w = NewWindow(s.size)
	s.windows[chatID] = w
	return w
}

func (s *Sessions) Reset(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.windows, chatID)
}

func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.windows)
}
