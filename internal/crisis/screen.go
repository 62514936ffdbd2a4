package crisis

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Signal names one scoring rule that fired.
type Signal string

const (
	SignalHighPattern    Signal = "high_pattern"
	SignalMediumPattern  Signal = "medium_pattern"
	SignalKeyword        Signal = "keyword"
	SignalIntensity      Signal = "intensity"
	SignalNegativeFuture Signal = "first_person_negative_future"
)

const (
	highPatternScore    = 10
	mediumPatternScore  = 5
	keywordScore        = 2
	negativeFutureScore = 3
)

// Verdict is the immutable screening outcome for one message.
type Verdict struct {
	IsCrisis bool
	Severity int
	Response string
	Signals  []Signal
}

// Screen scores messages for self-harm and suicide risk. It performs no I/O
// and is safe for concurrent use.
type Screen struct {
	cfg Config
}

// Phone keyboards send typographic apostrophes; patterns use the ASCII one.
var apostrophes = strings.NewReplacer("\u2019", "'", "\u2018", "'")

func normalize(text string) string {
	return apostrophes.Replace(strings.ToLower(text))
}

func NewScreen(cfg Config) *Screen {
	cfg = cfg.withDefaults()
	lowered := make([]string, len(cfg.Keywords))
	for i, kw := range cfg.Keywords {
		lowered[i] = normalize(kw)
	}
	cfg.Keywords = lowered
	return &Screen{cfg: cfg}
}

func (s *Screen) Evaluate(message string) Verdict {
	if utf8.RuneCountInString(strings.TrimSpace(message)) < s.cfg.MinLength {
		return Verdict{}
	}
	lower := normalize(message)

	var v Verdict
	if anyMatch(highSeverityPatterns, lower) {
		v.add(SignalHighPattern, highPatternScore)
	}
	if anyMatch(mediumSeverityPatterns, lower) {
		v.add(SignalMediumPattern, mediumPatternScore)
	}

	keywords := countContained(s.cfg.Keywords, lower)
	for i := 0; i < keywords; i++ {
		v.add(SignalKeyword, keywordScore)
	}
	if keywords > 0 {
		if n := countContained(s.cfg.IntensityWords, lower); n > 0 {
			v.add(SignalIntensity, n)
		}
	}

	if firstPerson.MatchString(lower) && countContained(negativeFuturePhrases, lower) > 0 {
		v.add(SignalNegativeFuture, negativeFutureScore)
	}

	if v.Severity >= s.cfg.Threshold {
		v.IsCrisis = true
		v.Response = s.response(v.Severity)
	}
	return v
}

// IsFollowUp reports whether a message continues a crisis conversation, so
// callers can keep supportive framing active. It does not affect scoring.
func (s *Screen) IsFollowUp(message string) bool {
	return anyMatch(followUpPatterns, normalize(message))
}

func (s *Screen) Resources() []Resource {
	out := make([]Resource, len(s.cfg.Resources))
	copy(out, s.cfg.Resources)
	return out
}

// FormatResources renders the directory one contact per line.
func FormatResources(resources []Resource) string {
	lines := make([]string, len(resources))
	for i, r := range resources {
		lines[i] = fmt.Sprintf("• %s: %s", r.Region, r.Contact)
	}
	return strings.Join(lines, "\n")
}

func (s *Screen) response(severity int) string {
	out := fmt.Sprintf(responseTemplate, FormatResources(s.cfg.Resources))
	if severity >= s.cfg.UrgentThreshold {
		out += urgentNote
	}
	return out
}

func (v *Verdict) add(sig Signal, score int) {
	v.Severity += score
	v.Signals = append(v.Signals, sig)
}

func anyMatch(patterns []*regexp.Regexp, s string) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

func countContained(needles []string, s string) int {
	n := 0
	for _, needle := range needles {
		if needle != "" && strings.Contains(s, needle) {
			n++
		}
	}
	return n
}
