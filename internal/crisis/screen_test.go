package crisis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_TrivialInputIsNotCrisis(t *testing.T) {
	s := NewScreen(DefaultConfig())
	for _, in := range []string{"", "hi", "  ", " ok "} {
		v := s.Evaluate(in)
		assert.False(t, v.IsCrisis, "input %q", in)
		assert.Empty(t, v.Response, "input %q", in)
		assert.Zero(t, v.Severity, "input %q", in)
	}
}

func TestEvaluate_HighSeverityIntent(t *testing.T) {
	s := NewScreen(DefaultConfig())
	v := s.Evaluate("I really want to end my life")

	require.True(t, v.IsCrisis)
	assert.GreaterOrEqual(t, v.Severity, 10)
	assert.Contains(t, v.Signals, SignalHighPattern)
	for _, r := range DefaultResources() {
		assert.Contains(t, v.Response, r.Contact)
	}
	assert.NotContains(t, v.Response, urgentNote)
}

func TestEvaluate_Scoring(t *testing.T) {
	s := NewScreen(DefaultConfig())
	tests := []struct {
		name     string
		message  string
		severity int
		crisis   bool
	}{
		{"medium only", "I can't take this anymore", 5, false},
		{"medium plus negative future reaches threshold", "I feel like I can't go on", 8, true},
		{"typographic apostrophe", "I feel like I can\u2019t go on", 8, true},
		{"typographic apostrophe in keyword", "I don\u2019t want to live anymore", 2, false},
		{"keywords only", "reading about suicide and overdose statistics", 4, false},
		{"keywords with intensity", "seriously reading about suicide and overdose statistics", 5, false},
		{"intensity without keyword", "I am really very extremely tired", 0, false},
		{"first person without negative future", "my day was long", 0, false},
		{"negative future without first person", "they say there is no hope for the team", 0, false},
		{"farewell", "goodbye cruel world, this is it", 10, true},
		{"high plus keyword", "I am going to kill myself", 12, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := s.Evaluate(tt.message)
			assert.Equal(t, tt.severity, v.Severity)
			assert.Equal(t, tt.crisis, v.IsCrisis)
			if !tt.crisis {
				assert.Empty(t, v.Response)
			}
		})
	}
}

func TestEvaluate_PatternTiersCountOnce(t *testing.T) {
	s := NewScreen(Config{Keywords: []string{}})
	v := s.Evaluate("suicidal thoughts, no point in living, I will take my own life")
	assert.Equal(t, 10, v.Severity)

	v = s.Evaluate("better off dead, everyone would be better, cutting myself")
	assert.Equal(t, 5, v.Severity)
}

func TestEvaluate_UrgentNoteAboveFifteen(t *testing.T) {
	s := NewScreen(DefaultConfig())
	v := s.Evaluate("I want to kill myself, I can't go on, I really want to give up")

	require.True(t, v.IsCrisis)
	assert.Equal(t, 10+5+2+1+3, v.Severity)
	assert.Contains(t, v.Response, urgentNote)
}

func TestEvaluate_OrderIndependent(t *testing.T) {
	s := NewScreen(DefaultConfig())
	a := s.Evaluate("I can't go on and I hurt myself")
	b := s.Evaluate("I hurt myself and I can't go on")

	assert.Equal(t, 10, a.Severity)
	assert.Equal(t, a.Severity, b.Severity)
	assert.ElementsMatch(t, a.Signals, b.Signals)
}

func TestEvaluate_ConfiguredKeywordsAndThreshold(t *testing.T) {
	s := NewScreen(Config{
		Keywords:  []string{"Numb Inside", "disappear"},
		Threshold: 4,
		Resources: []Resource{{Region: "Testland", Contact: "000"}},
	})
	v := s.Evaluate("I feel numb inside and want to disappear")

	require.True(t, v.IsCrisis)
	assert.Equal(t, 4, v.Severity)
	assert.Contains(t, v.Response, "Testland: 000")
}

func TestIsFollowUp(t *testing.T) {
	s := NewScreen(DefaultConfig())
	assert.True(t, s.IsFollowUp("Thank you for listening, I called the hotline"))
	assert.True(t, s.IsFollowUp("I'm feeling a little better now"))
	assert.True(t, s.IsFollowUp("I\u2019m feeling a little better now"))
	assert.True(t, s.IsFollowUp("still struggling honestly"))
	assert.False(t, s.IsFollowUp("what's a good breathing exercise?"))
}

func TestResources_ReturnsCopy(t *testing.T) {
	s := NewScreen(DefaultConfig())
	res := s.Resources()
	res[0].Contact = "changed"
	assert.Equal(t, DefaultResources()[0], s.Resources()[0])
	assert.Contains(t, FormatResources(res[:1]), "changed")
}
