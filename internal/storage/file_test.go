package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRecorder_AppendAndLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "logs", "log.jsonl")
	rec, err := NewFileRecorder(p)
	require.NoError(t, err)

	ev1 := Event{Timestamp: time.Unix(1, 0).UTC(), ChatID: 1, UserID: 1, Polarity: -0.4, Label: "negative", Emotions: []string{"sadness"}}
	ev2 := Event{ChatID: 2, UserID: 2, CrisisDetected: true, Severity: 12}
	require.NoError(t, rec.AppendInteraction(ev1))
	require.NoError(t, rec.AppendInteraction(ev2))

	events, err := rec.LoadInteractions()
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, int64(1), events[0].ChatID)
	assert.Equal(t, []string{"sadness"}, events[0].Emotions)
	assert.Equal(t, time.Unix(1, 0).UTC(), events[0].Timestamp)
	assert.Equal(t, KindMessage, events[0].Kind)
	assert.NotEmpty(t, events[0].ID)
	assert.NotEqual(t, events[0].ID, events[1].ID)

	assert.True(t, events[1].CrisisDetected)
	assert.Equal(t, 12, events[1].Severity)
	assert.False(t, events[1].Timestamp.IsZero())
}

func TestFileRecorder_SkipsCorruptLines(t *testing.T) {
	p := filepath.Join(t.TempDir(), "log.jsonl")
	rec, err := NewFileRecorder(p)
	require.NoError(t, err)
	require.NoError(t, rec.AppendInteraction(Event{ChatID: 7}))

	f, err := os.OpenFile(p, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("{not json\n\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	events, err := rec.LoadInteractions()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, int64(7), events[0].ChatID)
}

func TestFileRecorder_OmitsEmptyText(t *testing.T) {
	p := filepath.Join(t.TempDir(), "log.jsonl")
	rec, err := NewFileRecorder(p)
	require.NoError(t, err)
	require.NoError(t, rec.AppendInteraction(Event{ChatID: 1, Label: "neutral"}))

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "user_message")
	assert.Contains(t, string(data), `"label":"neutral"`)
}
