package storage

import "time"

type Kind string

const (
	KindMessage    Kind = "message"
	KindReflection Kind = "reflection"
	KindSummary    Kind = "summary"
)

// Event is one line of the interaction log. Message text is only present when
// transcript storage is enabled; the scores and flags are always kept.
type Event struct {
	ID                string    `json:"id"`
	Timestamp         time.Time `json:"timestamp"`
	Kind              Kind      `json:"kind"`
	ChatID            int64     `json:"chat_id"`
	UserID            int64     `json:"user_id"`
	UserMessage       string    `json:"user_message,omitempty"`
	AssistantResponse string    `json:"assistant_response,omitempty"`
	Polarity          float64   `json:"polarity"`
	Label             string    `json:"label,omitempty"`
	Emotions          []string  `json:"emotions,omitempty"`
	CrisisDetected    bool      `json:"crisis_detected"`
	Severity          int       `json:"severity"`
	UsedRetrieval     bool      `json:"used_retrieval"`
	Degraded          bool      `json:"degraded"`
}

// Recorder abstracts persistence of interaction events.
// LoadInteractions returns events in append order.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendInteraction(event Event) error
	LoadInteractions() ([]Event, error)
}
