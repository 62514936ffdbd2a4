package consent

import (
	"sync"
	"time"
)

// Record marks that a user accepted the wellness disclaimer.
type Record struct {
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username,omitempty"`
	AcceptedAt time.Time `json:"accepted_at"`
}

type Repository interface {
	LoadAll() ([]Record, error)
	Upsert(rec Record) error
	Remove(userID int64) error
}

// Service tracks which users accepted the disclaimer. Safe for concurrent use.
type Service struct {
	mu      sync.RWMutex
	repo    Repository
	records map[int64]Record
	now     func() time.Time
}

// NewWithRepo preloads accepted users from repo. A nil repo keeps consent in memory.
func NewWithRepo(repo Repository) (*Service, error) {
	s := &Service{repo: repo, records: make(map[int64]Record), now: time.Now}
	if repo != nil {
		records, err := repo.LoadAll()
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			s.records[r.UserID] = r
		}
	}
	return s, nil
}

func (s *Service) Accepted(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[userID]
	return ok
}

// Accept stores consent for the user. Accepting twice keeps the first timestamp.
func (s *Service) Accept(userID int64, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[userID]; ok {
		return nil
	}
	rec := Record{UserID: userID, Username: username, AcceptedAt: s.now().UTC()}
	s.records[userID] = rec
	if s.repo != nil {
		return s.repo.Upsert(rec)
	}
	return nil
}

func (s *Service) Revoke(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, userID)
	if s.repo != nil {
		return s.repo.Remove(userID)
	}
	return nil
}

func (s *Service) List() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	return out
}
