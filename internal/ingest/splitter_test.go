package ingest

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTextMergesParagraphs(t *testing.T) {
	s := NewSplitter(50, 10)
	text := "First paragraph is here.\n\nSecond paragraph follows now.\n\nThird one ends it."

	assert.Equal(t, []string{
		"First paragraph is here.",
		"Second paragraph follows now.\n\nThird one ends it.",
	}, s.SplitText(text))
}

func TestSplitTextShortTextIsOneChunk(t *testing.T) {
	s := NewSplitter(1000, 200)
	assert.Equal(t, []string{"Take a slow breath."}, s.SplitText("  Take a slow breath.  "))
	assert.Empty(t, s.SplitText("   "))
}

func TestSplitTextKeepsPieceOfExactlyChunkSize(t *testing.T) {
	s := NewSplitter(10, 0)
	assert.Equal(t, []string{"breathe in", "hold it"}, s.SplitText("breathe in\n\nhold it"))
}

func TestSplitTextFallsBackToCharacters(t *testing.T) {
	s := NewSplitter(100, 20)
	chunks := s.SplitText(strings.Repeat("a", 250))

	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 100)
	assert.Len(t, chunks[1], 100)
	assert.Len(t, chunks[2], 90)
}

func TestSplitTextRespectsChunkSize(t *testing.T) {
	s := NewSplitter(100, 20)
	text := strings.Repeat("Breathe in slowly and hold. ", 40) + "\n" + strings.Repeat("Ground yourself with five senses. ", 30)

	chunks := s.SplitText(text)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.NotEmpty(t, c)
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 100)
	}
	assert.True(t, strings.HasPrefix(chunks[0], "Breathe in slowly"))
}

func TestSplitTextOverlapsNeighbours(t *testing.T) {
	s := NewSplitter(40, 15)
	chunks := s.SplitText("one two three four five six seven eight nine ten eleven twelve")

	require.Len(t, chunks, 2)
	assert.Equal(t, "six seven eight nine ten eleven twelve", chunks[1])
	for i := 1; i < len(chunks); i++ {
		prevWords := strings.Fields(chunks[i-1])
		assert.Contains(t, chunks[i], prevWords[len(prevWords)-1])
	}
}

func TestSplitAssignsProvenance(t *testing.T) {
	s := NewSplitter(30, 0)
	chunks := s.Split([]Document{
		{Source: "sleep.pdf", Page: 3, Content: "Keep a regular schedule.\n\nAvoid screens before bed."},
		{Source: "notes.md", Content: "Short note."},
	})

	require.Len(t, chunks, 3)
	ids := map[string]bool{}
	for _, c := range chunks {
		assert.NotEmpty(t, c.ID)
		ids[c.ID] = true
	}
	assert.Len(t, ids, 3)

	assert.Equal(t, "sleep.pdf", chunks[0].Source)
	assert.Equal(t, 3, chunks[0].Page)
	assert.Equal(t, 0, chunks[0].Index)
	assert.Equal(t, 1, chunks[1].Index)
	assert.Equal(t, "notes.md", chunks[2].Source)
	assert.Equal(t, "Short note.", chunks[2].Content)
}
