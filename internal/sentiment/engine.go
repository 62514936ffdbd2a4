package sentiment

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Engine blends a lexical and an informal-text estimator into one Result.
// It holds no per-message state and is safe to share between sessions.
type Engine struct {
	cfg      Config
	lexical  LexicalEstimator
	informal InformalEstimator
}

// New returns an Engine backed by the built-in lexicon and informal scorer.
func New(cfg Config) *Engine {
	return NewEngine(cfg, NewLexicon(), NewInformal())
}

func NewEngine(cfg Config, lexical LexicalEstimator, informal InformalEstimator) *Engine {
	return &Engine{cfg: cfg.withDefaults(), lexical: lexical, informal: informal}
}

// Neutral is the fixed result for empty or near-empty input.
func Neutral() Result {
	return Result{
		Label:      LabelNeutral,
		Emotions:   []Emotion{},
		Confidence: ConfidenceLow,
		Breakdown:  Breakdown{Neutral: 1},
	}
}

func (e *Engine) Analyze(text string) Result {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < 2 {
		return Neutral()
	}

	lex := e.lexical.Estimate(text)
	inf := e.informal.Score(text)

	combined := clean(e.cfg.LexicalWeight*lex.Polarity + e.cfg.InformalWeight*inf.Compound)
	subjectivity := clean(lex.Subjectivity)

	return Result{
		Polarity:     combined,
		Subjectivity: subjectivity,
		Label:        e.Label(combined),
		Emotions:     e.detectEmotions(strings.ToLower(apostrophes.Replace(text))),
		Confidence:   e.confidence(lex.Polarity, inf.Compound, subjectivity),
		Breakdown:    normalize(inf),
	}
}

// Label maps a combined polarity onto the five-bucket ladder. The strict
// ±StrongThreshold tiers are checked before the looser ±MildThreshold ones.
func (e *Engine) Label(polarity float64) Label {
	switch {
	case polarity >= e.cfg.StrongThreshold:
		return LabelPositive
	case polarity <= -e.cfg.StrongThreshold:
		return LabelNegative
	case polarity <= -e.cfg.MildThreshold:
		return LabelSomewhatNegative
	case polarity >= e.cfg.MildThreshold:
		return LabelSomewhatPositive
	default:
		return LabelNeutral
	}
}

func (e *Engine) detectEmotions(lower string) []Emotion {
	out := make([]Emotion, 0, 2)
	seen := make(map[Emotion]bool)
	for _, ek := range e.cfg.Emotions {
		if seen[ek.Emotion] {
			continue
		}
		for _, kw := range ek.Keywords {
			if strings.Contains(lower, kw) {
				out = append(out, ek.Emotion)
				seen[ek.Emotion] = true
				break
			}
		}
	}
	return out
}

func (e *Engine) confidence(lexical, compound, subjectivity float64) Confidence {
	agree := math.Abs(lexical-compound) < e.cfg.AgreementMargin
	strong := math.Abs(compound) > e.cfg.StrongCompound
	subjective := subjectivity > e.cfg.SubjectiveCutoff

	switch {
	case agree && strong && subjective:
		return ConfidenceHigh
	case agree && (strong || subjective):
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// IsHighDistress gates supportive UI treatment. It does not affect routing.
func IsHighDistress(r Result) bool {
	if r.Polarity >= -0.5 {
		return false
	}
	for _, e := range []Emotion{EmotionSadness, EmotionAnxiety, EmotionFear, EmotionAnger} {
		if r.HasEmotion(e) {
			return true
		}
	}
	return false
}

// Emoji is a one-glyph badge for the polarity.
func Emoji(r Result) string {
	switch {
	case r.Polarity >= 0.5:
		return "😊"
	case r.Polarity >= 0.2:
		return "🙂"
	case r.Polarity >= -0.2:
		return "😐"
	case r.Polarity >= -0.5:
		return "😔"
	default:
		return "😢"
	}
}

func normalize(s InformalScore) Breakdown {
	pos, neg, neu := math.Max(s.Positive, 0), math.Max(s.Negative, 0), math.Max(s.Neutral, 0)
	total := pos + neg + neu
	if total == 0 {
		return Breakdown{Neutral: 1}
	}
	return Breakdown{Positive: pos / total, Negative: neg / total, Neutral: neu / total}
}

// clean drops float noise below 1e-9 so that blends landing on a threshold
// compare equal to it.
func clean(v float64) float64 {
	return math.Round(v*1e9) / 1e9
}
