package router

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellness-chatter/internal/crisis"
	"wellness-chatter/internal/generation"
	"wellness-chatter/internal/history"
	"wellness-chatter/internal/knowledge"
	"wellness-chatter/internal/llm"
	"wellness-chatter/internal/logging"
	"wellness-chatter/internal/sentiment"
)

type fakeGen struct {
	mu      sync.Mutex
	out     generation.Outcome
	calls   int
	panics  bool
	blocks  bool
	history [][]llm.Message
}

func (f *fakeGen) Generate(ctx context.Context, _ string, past []llm.Message) generation.Outcome {
	f.mu.Lock()
	f.calls++
	f.history = append(f.history, past)
	f.mu.Unlock()
	if f.panics {
		panic("nil pointer somewhere")
	}
	if f.blocks {
		<-ctx.Done()
		return generation.Failed(ctx.Err())
	}
	return f.out
}

func (f *fakeGen) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeAnalyzer struct{ result sentiment.Result }

func (f fakeAnalyzer) Analyze(string) sentiment.Result { return f.result }

var calm = sentiment.Result{Polarity: -0.2, Label: sentiment.LabelSomewhatNegative, Emotions: []sentiment.Emotion{sentiment.EmotionAnxiety}}

func newRouter(plain, augmented generation.Generator, available bool) *Router {
	return New(Deps{
		Screen:             crisis.NewScreen(crisis.DefaultConfig()),
		Sentiment:          fakeAnalyzer{result: calm},
		Plain:              plain,
		Augmented:          augmented,
		RetrievalAvailable: available,
		Logger:             logging.Discard(),
	})
}

func TestProcessCrisisShortCircuits(t *testing.T) {
	plain := &fakeGen{out: generation.Outcome{Text: "plain"}}
	aug := &fakeGen{out: generation.Outcome{Text: "aug"}}
	r := newRouter(plain, aug, true)
	mem := history.NewWindow(10)

	res := r.Process(context.Background(), mem, "I want to kill myself, tips please")

	assert.True(t, res.CrisisDetected)
	assert.False(t, res.UsedRetrieval)
	assert.GreaterOrEqual(t, res.Severity, 10)
	assert.Contains(t, res.Response, "13 113")
	assert.Equal(t, calm, res.Sentiment)
	assert.Zero(t, plain.Calls())
	assert.Zero(t, aug.Calls())
	assert.Zero(t, mem.Len())
}

func TestProcessRoutesToRetrieval(t *testing.T) {
	passages := []knowledge.Passage{{Content: "Name five things you can see.", Source: "grounding.pdf", Rank: 1}}
	plain := &fakeGen{out: generation.Outcome{Text: "plain"}}
	aug := &fakeGen{out: generation.Outcome{Text: "Try the 5-4-3-2-1 exercise.", Passages: passages}}
	r := newRouter(plain, aug, true)
	mem := history.NewWindow(10)

	res := r.Process(context.Background(), mem, "Any tips for anxiety?")

	assert.True(t, res.UsedRetrieval)
	assert.False(t, res.CrisisDetected)
	assert.Equal(t, "Try the 5-4-3-2-1 exercise.", res.Response)
	assert.Equal(t, passages, res.Passages)
	assert.Equal(t, 1, aug.Calls())
	assert.Zero(t, plain.Calls())

	ex := mem.Exchanges()
	require.Len(t, ex, 1)
	assert.True(t, ex[0].UsedRetrieval)
	assert.Equal(t, "Any tips for anxiety?", ex[0].Input)
	assert.Equal(t, calm, *ex[0].Sentiment)
}

func TestProcessRetrievalUnavailable(t *testing.T) {
	plain := &fakeGen{out: generation.Outcome{Text: "Let's talk about it."}}
	aug := &fakeGen{out: generation.Outcome{Text: "aug"}}
	r := newRouter(plain, aug, false)

	res := r.Process(context.Background(), history.NewWindow(10), "Any tips for anxiety?")

	assert.False(t, res.UsedRetrieval)
	assert.Equal(t, "Let's talk about it.", res.Response)
	assert.Equal(t, 1, plain.Calls())
	assert.Zero(t, aug.Calls())
}

func TestProcessFallsBackToPlain(t *testing.T) {
	tests := []struct {
		name string
		aug  *fakeGen
	}{
		{"absent", &fakeGen{out: generation.Failed(generation.ErrNoPassages)}},
		{"error", &fakeGen{out: generation.Failed(errors.New("429"))}},
		{"blank", &fakeGen{out: generation.Outcome{Text: "  "}}},
		{"panic", &fakeGen{panics: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plain := &fakeGen{out: generation.Outcome{Text: "I'm here with you."}}
			r := newRouter(plain, tt.aug, true)
			mem := history.NewWindow(10)

			res := r.Process(context.Background(), mem, "how to manage stress at work")

			assert.False(t, res.UsedRetrieval)
			assert.False(t, res.Degraded)
			assert.Equal(t, "I'm here with you.", res.Response)
			assert.Nil(t, res.Passages)
			assert.Equal(t, 1, tt.aug.Calls())
			assert.Equal(t, 1, plain.Calls())
			assert.False(t, mem.Exchanges()[0].UsedRetrieval)
		})
	}
}

func TestProcessPlainOnlyForChitChat(t *testing.T) {
	plain := &fakeGen{out: generation.Outcome{Text: "That sounds lovely."}}
	aug := &fakeGen{out: generation.Outcome{Text: "aug"}}
	r := newRouter(plain, aug, true)

	res := r.Process(context.Background(), history.NewWindow(10), "I had lunch with my sister today")

	assert.False(t, res.UsedRetrieval)
	assert.Zero(t, aug.Calls())
	assert.Equal(t, "That sounds lovely.", res.Response)
}

func TestProcessDegradedIsRecorded(t *testing.T) {
	plain := &fakeGen{out: generation.Failed(errors.New("provider down"))}
	r := newRouter(plain, nil, true)
	mem := history.NewWindow(10)

	res := r.Process(context.Background(), mem, "I feel a bit lost")

	assert.True(t, res.Degraded)
	assert.Equal(t, DegradedResponse, res.Response)
	require.Equal(t, 1, mem.Len())
	assert.Equal(t, DegradedResponse, mem.Exchanges()[0].Response)
	assert.False(t, r.RetrievalAvailable())
}

func TestProcessTimesOut(t *testing.T) {
	plain := &fakeGen{blocks: true}
	r := New(Deps{
		Screen:    crisis.NewScreen(crisis.DefaultConfig()),
		Sentiment: fakeAnalyzer{result: calm},
		Plain:     plain,
		Config:    Config{Timeout: 20 * time.Millisecond},
		Logger:    logging.Discard(),
	})

	start := time.Now()
	res := r.Process(context.Background(), history.NewWindow(10), "hello there")
	assert.True(t, res.Degraded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestProcessPassesHistory(t *testing.T) {
	plain := &fakeGen{out: generation.Outcome{Text: "ok"}}
	r := newRouter(plain, nil, false)
	mem := history.NewWindow(10)
	mem.Record("earlier", "reply", nil)

	r.Process(context.Background(), mem, "and now?")

	require.Len(t, plain.history, 1)
	assert.Equal(t, []llm.Message{
		{Role: llm.RoleUser, Content: "earlier"},
		{Role: llm.RoleAssistant, Content: "reply"},
	}, plain.history[0])
	assert.Equal(t, 2, mem.Len())
}

func TestWantsRetrieval(t *testing.T) {
	r := newRouter(&fakeGen{}, &fakeGen{}, true)
	tests := []struct {
		input string
		want  bool
	}{
		{"Tips for ANXIETY", true},
		{"I can't sleep", true},
		{"how to say no to my boss", true},
		{"strategies for grief", true},
		{"my cat is cute", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, r.WantsRetrieval(tt.input))
			assert.Equal(t, tt.want, r.ShouldUseRetrieval(tt.input))
		})
	}

	off := newRouter(&fakeGen{}, &fakeGen{}, false)
	assert.True(t, off.WantsRetrieval("tips for anxiety"))
	assert.False(t, off.ShouldUseRetrieval("tips for anxiety"))
}

func TestCustomTopicsAndTriggers(t *testing.T) {
	r := New(Deps{
		Screen:             crisis.NewScreen(crisis.DefaultConfig()),
		Sentiment:          fakeAnalyzer{},
		Plain:              &fakeGen{},
		Augmented:          &fakeGen{},
		RetrievalAvailable: true,
		Config:             Config{Topics: []string{"Grief"}, Triggers: []string{}},
		Logger:             logging.Discard(),
	})
	assert.True(t, r.WantsRetrieval("coping with grief"))
	assert.False(t, r.WantsRetrieval("tips for anxiety"))
}

// Breathing-technique questions go through the real augmented generator.
func TestBreathingTechniquesEndToEnd(t *testing.T) {
	client := &recordingLLM{reply: "Try breathing in for four counts, holding for four, and out for six."}
	retr := &staticRetriever{passages: []knowledge.Passage{
		{Content: "4-7-8 breathing: inhale 4, hold 7, exhale 8.", Source: "breathing.pdf", Page: 1, Rank: 1},
	}}
	r := New(Deps{
		Screen:             crisis.NewScreen(crisis.DefaultConfig()),
		Sentiment:          sentiment.New(sentiment.DefaultConfig()),
		Plain:              generation.NewConversation(client, "", nil, 0),
		Augmented:          generation.NewAugmented(client, retr, nil, 0),
		RetrievalAvailable: true,
		Logger:             logging.Discard(),
	})
	s := NewSession(r, history.NewWindow(10))

	res := s.Process(context.Background(), "Can you teach me some breathing techniques?")

	assert.True(t, res.UsedRetrieval)
	assert.False(t, res.CrisisDetected)
	assert.Contains(t, res.Response, "four counts")
	require.Len(t, res.Passages, 1)
	assert.Contains(t, client.lastSystem, "4-7-8 breathing")
	assert.Equal(t, 1, s.Memory().Len())
	assert.Equal(t, 1, s.Messages())
}

func TestSessionSerialisesMessages(t *testing.T) {
	plain := &fakeGen{out: generation.Outcome{Text: "ok"}}
	s := NewSession(newRouter(plain, nil, false), history.NewWindow(5))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Process(context.Background(), fmt.Sprintf("message %d", i))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, plain.Calls())
	assert.Equal(t, 20, s.Messages())
	assert.Equal(t, 5, s.Memory().Len())

	s.Reset()
	assert.Zero(t, s.Messages())
	assert.Zero(t, s.Memory().Len())
}

type recordingLLM struct {
	reply      string
	lastSystem string
}

func (f *recordingLLM) Generate(_ context.Context, msgs []llm.Message) (llm.Response, error) {
	if len(msgs) > 0 && msgs[0].Role == llm.RoleSystem {
		f.lastSystem = msgs[0].Content
	}
	return llm.Response{Content: f.reply}, nil
}

type staticRetriever struct{ passages []knowledge.Passage }

func (s *staticRetriever) Available() bool { return true }

func (s *staticRetriever) Retrieve(context.Context, string) ([]knowledge.Passage, error) {
	return s.passages, nil
}
