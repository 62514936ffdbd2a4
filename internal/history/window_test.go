package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellness-chatter/internal/llm"
	"wellness-chatter/internal/sentiment"
)

func polarity(p float64) *sentiment.Result {
	return &sentiment.Result{
		Polarity:   p,
		Label:      sentiment.LabelNeutral,
		Emotions:   []sentiment.Emotion{sentiment.EmotionSadness},
		Confidence: sentiment.ConfidenceLow,
		Breakdown:  sentiment.Breakdown{Neutral: 1},
	}
}

func TestWindowEvictsOldestExchanges(t *testing.T) {
	const n = 4
	w := NewWindow(n)
	for i := 0; i < n+3; i++ {
		w.Record(fmt.Sprintf("in-%d", i), fmt.Sprintf("out-%d", i), polarity(0))
	}

	ex := w.Exchanges()
	require.Len(t, ex, n)
	for i, e := range ex {
		assert.Equal(t, fmt.Sprintf("in-%d", i+3), e.Input)
		assert.Equal(t, fmt.Sprintf("out-%d", i+3), e.Response)
	}
	assert.Len(t, w.History(), 2*n)
	assert.Len(t, w.EmotionalLog(), n)
	assert.Equal(t, "in-3", w.EmotionalLog()[0].Input)
}

func TestWindowHistoryRoundTrip(t *testing.T) {
	w := NewWindow(0)
	assert.Equal(t, DefaultSize, w.Size())

	s := polarity(-0.42)
	w.RecordExchange(Exchange{Input: "I can't sleep", Response: "That sounds exhausting.", Sentiment: s, UsedRetrieval: true})

	turns := w.History()
	require.Len(t, turns, 2)
	assert.Equal(t, Turn{Role: RoleUser, Content: "I can't sleep", Sentiment: s}, turns[0])
	assert.Equal(t, Turn{Role: RoleAssistant, Content: "That sounds exhausting.", UsedRetrieval: true}, turns[1])

	assert.Equal(t, []llm.Message{
		{Role: "user", Content: "I can't sleep"},
		{Role: "assistant", Content: "That sounds exhausting."},
	}, w.Messages())
}

func TestWindowReturnsCopies(t *testing.T) {
	w := NewWindow(3)
	s := polarity(0.5)
	w.Record("hello", "hi", s)

	s.Polarity = -1
	s.Emotions[0] = sentiment.EmotionAnger

	turns := w.History()
	turns[0].Content = "mutated"
	turns[0].Sentiment.Emotions[0] = sentiment.EmotionFear

	again := w.History()
	assert.Equal(t, "hello", again[0].Content)
	assert.Equal(t, 0.5, again[0].Sentiment.Polarity)
	assert.Equal(t, []sentiment.Emotion{sentiment.EmotionSadness}, again[0].Sentiment.Emotions)
}

func TestWindowRecordWithoutSentiment(t *testing.T) {
	w := NewWindow(3)
	w.Record("hello", "hi", nil)

	assert.Equal(t, 1, w.Len())
	assert.Empty(t, w.EmotionalLog())
	assert.Equal(t, NoContext, w.EmotionalSummary())
	assert.Nil(t, w.History()[0].Sentiment)
}

func TestEmotionalSummary(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   string
	}{
		{"empty", nil, NoContext},
		{"positive", []float64{0.5, 0.4}, "predominantly positive"},
		{"negative", []float64{-0.6, -0.2}, "predominantly negative"},
		{"mixed", []float64{0.8, -0.8, 0.1}, "mixed"},
		{"boundary is mixed", []float64{0.3}, "mixed"},
		{"only last five count", []float64{-1, -1, -1, 0.5, 0.5, 0.5, 0.5, 0.5}, "predominantly positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWindow(10)
			for _, v := range tt.values {
				w.Record("in", "out", polarity(v))
			}
			assert.Equal(t, tt.want, w.EmotionalSummary())
		})
	}
}

func TestAveragePolarityUsesFewerThanFive(t *testing.T) {
	w := NewWindow(10)
	_, ok := w.AveragePolarity()
	assert.False(t, ok)

	w.Record("a", "b", polarity(0.2))
	w.Record("a", "b", polarity(0.4))
	avg, ok := w.AveragePolarity()
	require.True(t, ok)
	assert.InDelta(t, 0.3, avg, 1e-9)
}

func TestWindowClear(t *testing.T) {
	w := NewWindow(5)
	w.Record("a", "b", polarity(0.9))
	w.Clear()

	assert.Empty(t, w.History())
	assert.Empty(t, w.Exchanges())
	assert.Equal(t, NoContext, w.EmotionalSummary())
}

func TestSessionsIsolatesChats(t *testing.T) {
	s := NewSessions(2)
	s.Get(1).Record("hello", "hi", nil)
	s.Get(2).Record("foo", "bar", nil)
	s.Get(2).Record("baz", "qux", nil)

	assert.Equal(t, 1, s.Get(1).Len())
	assert.Equal(t, 2, s.Get(2).Len())
	assert.Same(t, s.Get(1), s.Get(1))

	s.Reset(1)
	assert.Equal(t, 0, s.Get(1).Len())
	assert.Equal(t, 2, s.Get(2).Len())
	assert.Equal(t, 2, s.Len())
}
