package analytics

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellness-chatter/internal/storage"
)

func testEvents(day time.Time) []storage.Event {
	return []storage.Event{
		{Timestamp: day.Add(2 * time.Hour), ChatID: 1, Kind: storage.KindMessage, Polarity: 0.6, Label: "positive", Emotions: []string{"joy", "hope"}},
		{Timestamp: day.Add(3 * time.Hour), ChatID: 1, Kind: storage.KindMessage, Polarity: -0.4, Label: "negative", Emotions: []string{"anxiety"}, UsedRetrieval: true},
		{Timestamp: day.Add(4 * time.Hour), ChatID: 2, Kind: storage.KindMessage, Polarity: -0.8, Label: "negative", CrisisDetected: true, Severity: 12},
		{Timestamp: day.Add(5 * time.Hour), ChatID: 3, Polarity: 0, Label: "neutral", Degraded: true},
		{Timestamp: day.Add(6 * time.Hour), ChatID: 1, Kind: storage.KindReflection},
		{Timestamp: day.Add(7 * time.Hour), ChatID: 1, Kind: storage.KindSummary},
		// next day
		{Timestamp: day.AddDate(0, 0, 1), ChatID: 9, Kind: storage.KindMessage, Polarity: 1},
		// previous day
		{Timestamp: day.Add(-time.Second), ChatID: 8, Kind: storage.KindMessage, Polarity: 1},
	}
}

func TestAnalyzeDailyLogs(t *testing.T) {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	stats := AnalyzeDailyLogs(testEvents(day), day.Add(13*time.Hour))

	assert.Equal(t, "2024-01-15", stats.Date)
	assert.Equal(t, 4, stats.TotalMessages)
	assert.Equal(t, 3, stats.UniqueChats)
	assert.Equal(t, 1, stats.CrisisCount)
	assert.Equal(t, 1, stats.RetrievalCount)
	assert.Equal(t, 1, stats.DegradedCount)
	assert.Equal(t, 1, stats.Reflections)
	assert.InDelta(t, -0.15, stats.AveragePolarity, 1e-9)
	assert.Equal(t, map[string]int{"positive": 1, "negative": 2, "neutral": 1}, stats.Labels)
	assert.Equal(t, map[string]int{"joy": 1, "hope": 1, "anxiety": 1}, stats.Emotions)
	assert.InDelta(t, 0.25, stats.RetrievalShare(), 1e-9)
}

func TestAnalyzeDailyLogs_Empty(t *testing.T) {
	stats := AnalyzeDailyLogs(nil, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	assert.Zero(t, stats.TotalMessages)
	assert.Zero(t, stats.AveragePolarity)
	assert.Zero(t, stats.RetrievalShare())
	assert.NotContains(t, stats.GenerateReportSummary(), "Mood labels")
}

func TestGenerateReportSummary(t *testing.T) {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	summary := AnalyzeDailyLogs(testEvents(day), day).GenerateReportSummary()

	for _, want := range []string{
		"Wellbeing report for 2024-01-15",
		"Messages: 4",
		"Conversations: 3",
		"Crisis responses: 1",
		"Guide-enhanced replies: 1 (25%)",
		"Average polarity: -0.15",
	} {
		assert.Contains(t, summary, want)
	}
	// higher counts first
	assert.Less(t, strings.Index(summary, "- negative: 2"), strings.Index(summary, "- neutral: 1"))
	assert.Less(t, strings.Index(summary, "- neutral: 1"), strings.Index(summary, "- positive: 1"))
}

func TestToJSON(t *testing.T) {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	raw, err := AnalyzeDailyLogs(testEvents(day), day).ToJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	assert.Equal(t, "2024-01-15", decoded["date"])
	assert.Equal(t, float64(1), decoded["crisis_count"])
}
