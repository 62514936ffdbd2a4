package sentiment

import (
	"math"
	"strings"
	"unicode"
)

const (
	boosterIncrement  = 0.293
	capsIncrement     = 0.733
	negationScalar    = -0.74
	exclaimIncrement  = 0.292
	questionIncrement = 0.18
	maxExclaims       = 4
	maxQuestionBoost  = 0.96
	compoundAlpha     = 15
	negationLookback  = 3
)

// Informal is a rule-based valence scorer for short, colloquial messages.
// Words carry a valence on a -4..4 scale; boosters, ALL-CAPS emphasis,
// negation, a contrastive "but" and trailing punctuation adjust it, and the
// sum is squashed into a compound score in [-1, 1].
type Informal struct {
	valence   map[string]float64
	boosters  map[string]float64
	negations map[string]bool
}

func NewInformal() *Informal {
	return &Informal{
		valence:   defaultValence,
		boosters:  defaultBoosters,
		negations: defaultNegations,
	}
}

func (v *Informal) Score(text string) InformalScore {
	tokens := informalTokens(text)
	if len(tokens) == 0 {
		return InformalScore{}
	}
	shouting := mixedCase(tokens)

	scores := make([]float64, len(tokens))
	butAt := -1
	for i, tok := range tokens {
		lower := strings.ToLower(tok)
		if lower == "but" && butAt < 0 {
			butAt = i
		}
		val, ok := v.valence[lower]
		if !ok {
			continue
		}
		if shouting && isUpper(tok) {
			val += math.Copysign(capsIncrement, val)
		}
		for j := i - 1; j >= 0 && j >= i-negationLookback; j-- {
			b, ok := v.boosters[strings.ToLower(tokens[j])]
			if !ok {
				continue
			}
			// farther boosters count less
			scale := 1.0 - 0.1*float64(i-1-j)
			if val > 0 {
				val += b * scale
			} else {
				val -= b * scale
			}
		}
		if v.negatedAt(tokens, i) {
			val *= negationScalar
		}
		scores[i] = val
	}

	if butAt >= 0 {
		for i := range scores {
			switch {
			case i < butAt:
				scores[i] *= 0.5
			case i > butAt:
				scores[i] *= 1.5
			}
		}
	}

	var sum, pos, neg float64
	var neu int
	for _, s := range scores {
		sum += s
		switch {
		case s > 0:
			pos += s + 1
		case s < 0:
			neg += s - 1
		default:
			neu++
		}
	}

	emphasis := punctuationEmphasis(text)
	switch {
	case sum > 0:
		sum += emphasis
		pos += emphasis
	case sum < 0:
		sum -= emphasis
		neg -= emphasis
	}

	total := pos + math.Abs(neg) + float64(neu)
	if total == 0 {
		return InformalScore{}
	}
	return InformalScore{
		Compound: clamp(sum/math.Sqrt(sum*sum+compoundAlpha), -1, 1),
		Positive: pos / total,
		Negative: math.Abs(neg) / total,
		Neutral:  float64(neu) / total,
	}
}

func (v *Informal) negatedAt(tokens []string, i int) bool {
	for j := i - 1; j >= 0 && j >= i-negationLookback; j-- {
		lower := strings.ToLower(tokens[j])
		if v.negations[lower] || strings.HasSuffix(lower, "n't") {
			return true
		}
	}
	return false
}

func punctuationEmphasis(text string) float64 {
	exclaims := math.Min(float64(strings.Count(text, "!")), maxExclaims)
	emphasis := exclaims * exclaimIncrement
	if q := strings.Count(text, "?"); q > 1 {
		emphasis += math.Min(float64(q)*questionIncrement, maxQuestionBoost)
	}
	return emphasis
}

// informalTokens splits on whitespace and trims surrounding punctuation,
// keeping emoticons such as ":(" intact.
func informalTokens(text string) []string {
	fields := strings.Fields(apostrophes.Replace(text))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := defaultValence[strings.ToLower(f)]; ok {
			out = append(out, f)
			continue
		}
		trimmed := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
		})
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// mixedCase reports whether some, but not all, words are written in capitals.
func mixedCase(tokens []string) bool {
	var upper, words int
	for _, t := range tokens {
		if !hasLetter(t) {
			continue
		}
		words++
		if isUpper(t) {
			upper++
		}
	}
	return upper > 0 && upper < words
}

func isUpper(s string) bool {
	return hasLetter(s) && strings.ToUpper(s) == s
}

func hasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}

var defaultBoosters = map[string]float64{
	"very": boosterIncrement, "really": boosterIncrement, "so": boosterIncrement,
	"extremely": boosterIncrement, "super": boosterIncrement, "totally": boosterIncrement,
	"completely": boosterIncrement, "incredibly": boosterIncrement, "absolutely": boosterIncrement,
	"too": boosterIncrement, "utterly": boosterIncrement, "deeply": boosterIncrement,
	"kinda": -boosterIncrement, "slightly": -boosterIncrement, "somewhat": -boosterIncrement,
	"barely": -boosterIncrement, "hardly": -boosterIncrement, "little": -boosterIncrement,
}

var defaultValence = map[string]float64{
	// positive
	"good": 1.9, "great": 3.1, "happy": 2.7, "glad": 2.0, "wonderful": 2.7,
	"amazing": 2.8, "awesome": 3.1, "excellent": 2.7, "fantastic": 2.6, "nice": 1.8,
	"love": 3.2, "lovely": 2.8, "grateful": 2.0, "thankful": 2.0, "thanks": 1.9,
	"thank": 1.5, "calm": 1.3, "peaceful": 2.2, "relaxed": 2.2, "better": 1.9,
	"best": 3.2, "hope": 1.9, "hopeful": 2.3, "optimistic": 1.3, "excited": 1.4,
	"proud": 2.1, "confident": 2.2, "safe": 1.9, "fine": 0.8, "okay": 0.9,
	"ok": 0.9, "helpful": 1.8, "enjoy": 2.2, "enjoyed": 2.3, "fun": 2.3,
	"beautiful": 2.9, "joy": 2.8, "strong": 2.3, "supported": 1.3, "improving": 1.8,
	"yay": 2.4, "lol": 1.8, "haha": 2.0, "cool": 1.3, "blessed": 2.9,
	":)": 2.0, ":-)": 2.0, ":d": 2.3, "<3": 1.9, "😊": 2.0, "🙂": 1.5, "❤️": 2.5,
	// negative
	"bad": -2.5, "sad": -2.1, "unhappy": -1.8, "terrible": -2.5, "awful": -2.0,
	"horrible": -2.5, "worst": -3.1, "worse": -2.1, "hate": -2.7, "miserable": -2.2,
	"depressed": -2.3, "lonely": -2.0, "alone": -1.0, "anxious": -1.0, "worried": -1.2,
	"nervous": -1.1, "scared": -1.9, "afraid": -2.0, "terrified": -3.0, "frightened": -1.9,
	"panic": -2.3, "stressed": -1.4, "overwhelmed": -1.5, "tired": -1.9, "exhausted": -1.5,
	"angry": -2.3, "mad": -2.2, "furious": -2.7, "frustrated": -1.5, "annoyed": -1.6,
	"irritated": -1.8, "upset": -1.6, "hurt": -2.4, "pain": -2.3, "painful": -2.4,
	"broken": -2.1, "heartbroken": -3.3, "hopeless": -2.0, "worthless": -1.9, "empty": -0.8,
	"numb": -1.0, "lost": -1.3, "confused": -1.3, "difficult": -1.5, "struggling": -1.6,
	"cry": -2.1, "crying": -2.1, "guilty": -1.8, "ashamed": -2.1, "sick": -1.7,
	"ugh": -1.8, "meh": -0.3, "sucks": -1.5, "fail": -2.5, "failed": -2.3,
	":(": -1.9, ":-(": -1.9, ":'(": -2.2, "😢": -2.0, "😔": -1.5, "😞": -1.8,
}
