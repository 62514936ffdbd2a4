package consent

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileRepository keeps consent records as a JSON array on disk.
type FileRepository struct {
	path string
	mu   sync.Mutex
}

func NewFileRepository(path string) (*FileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("touch file: %w", err)
	}
	_ = f.Close()
	return &FileRepository{path: path}, nil
}

func (r *FileRepository) LoadAll() ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadUnlocked()
}

func (r *FileRepository) Upsert(rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	records, err := r.loadUnlocked()
	if err != nil {
		return err
	}
	updated := false
	for i, existing := range records {
		if existing.UserID == rec.UserID {
			records[i] = rec
			updated = true
			break
		}
	}
	if !updated {
		records = append(records, rec)
	}
	return r.saveUnlocked(records)
}

func (r *FileRepository) Remove(userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	records, err := r.loadUnlocked()
	if err != nil {
		return err
	}
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec.UserID != userID {
			out = append(out, rec)
		}
	}
	return r.saveUnlocked(out)
}

// loadUnlocked treats an empty or malformed file as no records.
func (r *FileRepository) loadUnlocked() ([]Record, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read consent file: %w", err)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return []Record{}, nil
	}
	return records, nil
}

func (r *FileRepository) saveUnlocked(records []Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode consent: %w", err)
	}
	return os.WriteFile(r.path, append(data, '\n'), 0o644)
}
