package history

import (
	"sync"
	"time"

	"wellness-chatter/internal/llm"
	"wellness-chatter/internal/sentiment"
)

const (
	DefaultSize = 10
	// NoContext is returned by EmotionalSummary before any sentiment was recorded.
	NoContext = "No emotional context yet"

	summaryWindow = 5
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one side of an exchange.
type Turn struct {
	Role          Role
	Content       string
	Sentiment     *sentiment.Result
	CrisisFlag    bool
	UsedRetrieval bool
}

// Exchange is a user message together with the reply it received.
type Exchange struct {
	Input         string
	Response      string
	Sentiment     *sentiment.Result
	CrisisFlag    bool
	UsedRetrieval bool
	At            time.Time
}

type EmotionalEntry struct {
	Input     string
	Sentiment sentiment.Result
	Response  string
}

// Window keeps the most recent exchanges of one conversation and, separately,
// the sentiment of recent user messages. Both logs are bounded to the same
// size and evict oldest first.
type Window struct {
	mu        sync.RWMutex
	size      int
	exchanges []Exchange
	emotions  []EmotionalEntry
}

func NewWindow(size int) *Window {
	if size <= 0 {
		size = DefaultSize
	}
	return &Window{size: size}
}

func (w *Window) Size() int { return w.size }

// Record appends an exchange. The emotional log only grows when s is non-nil.
func (w *Window) Record(input, response string, s *sentiment.Result) {
	w.RecordExchange(Exchange{Input: input, Response: response, Sentiment: s})
}

func (w *Window) RecordExchange(ex Exchange) {
	if ex.At.IsZero() {
		ex.At = time.Now()
	}
	ex.Sentiment = cloneResult(ex.Sentiment)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.exchanges = append(w.exchanges, ex)
	if over := len(w.exchanges) - w.size; over > 0 {
		w.exchanges = append([]Exchange(nil), w.exchanges[over:]...)
	}
	if ex.Sentiment != nil {
		w.emotions = append(w.emotions, EmotionalEntry{
			Input:     ex.Input,
			Sentiment: *cloneResult(ex.Sentiment),
			Response:  ex.Response,
		})
		if over := len(w.emotions) - w.size; over > 0 {
			w.emotions = append([]EmotionalEntry(nil), w.emotions[over:]...)
		}
	}
}

// History returns the window oldest-first, two turns per exchange.
func (w *Window) History() []Turn {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Turn, 0, 2*len(w.exchanges))
	for _, ex := range w.exchanges {
		out = append(out,
			Turn{Role: RoleUser, Content: ex.Input, Sentiment: cloneResult(ex.Sentiment)},
			Turn{Role: RoleAssistant, Content: ex.Response, CrisisFlag: ex.CrisisFlag, UsedRetrieval: ex.UsedRetrieval},
		)
	}
	return out
}

func (w *Window) Exchanges() []Exchange {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Exchange, len(w.exchanges))
	for i, ex := range w.exchanges {
		ex.Sentiment = cloneResult(ex.Sentiment)
		out[i] = ex
	}
	return out
}

func (w *Window) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.exchanges)
}

// Messages renders the window as model context.
func (w *Window) Messages() []llm.Message {
	turns := w.History()
	out := make([]llm.Message, len(turns))
	for i, t := range turns {
		out[i] = llm.Message{Role: string(t.Role), Content: t.Content}
	}
	return out
}

func (w *Window) EmotionalLog() []EmotionalEntry {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]EmotionalEntry, len(w.emotions))
	for i, e := range w.emotions {
		e.Sentiment = *cloneResult(&e.Sentiment)
		out[i] = e
	}
	return out
}

// AveragePolarity averages the last five logged polarities. ok is false when
// nothing has been logged.
func (w *Window) AveragePolarity() (avg float64, ok bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if len(w.emotions) == 0 {
		return 0, false
	}
	recent := w.emotions
	if len(recent) > summaryWindow {
		recent = recent[len(recent)-summaryWindow:]
	}
	var sum float64
	for _, e := range recent {
		sum += e.Sentiment.Polarity
	}
	return sum / float64(len(recent)), true
}

func (w *Window) EmotionalSummary() string {
	avg, ok := w.AveragePolarity()
	switch {
	case !ok:
		return NoContext
	case avg > 0.3:
		return "predominantly positive"
	case avg < -0.3:
		return "predominantly negative"
	default:
		return "mixed"
	}
}

func (w *Window) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.exchanges = nil
	w.emotions = nil
}

func cloneResult(r *sentiment.Result) *sentiment.Result {
	if r == nil {
		return nil
	}
	c := *r
	if r.Emotions != nil {
		c.Emotions = append([]sentiment.Emotion{}, r.Emotions...)
	}
	return &c
}
