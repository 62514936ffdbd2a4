package sentiment

import (
	"math"
	"strings"
	"unicode"
)

type lexEntry struct {
	polarity     float64
	subjectivity float64
}

// Lexicon is a word-level polarity/subjectivity estimator. Scores of
// sentiment-bearing words are averaged; a preceding intensifier scales the
// next word and a negation within the two previous tokens flips it at half
// strength.
type Lexicon struct {
	words        map[string]lexEntry
	intensifiers map[string]float64
	negations    map[string]bool
}

func NewLexicon() *Lexicon {
	return &Lexicon{
		words:        defaultLexicon,
		intensifiers: defaultIntensifiers,
		negations:    defaultNegations,
	}
}

func (l *Lexicon) Estimate(text string) LexicalScore {
	tokens := tokenize(text)

	var polSum, subjSum float64
	var n int
	for i, tok := range tokens {
		entry, ok := l.words[tok]
		if !ok {
			continue
		}
		pol, subj := entry.polarity, entry.subjectivity
		if i > 0 {
			if m, ok := l.intensifiers[tokens[i-1]]; ok {
				pol *= m
				subj *= m
			}
		}
		if l.negated(tokens, i) {
			pol *= -0.5
		}
		polSum += clamp(pol, -1, 1)
		subjSum += clamp(subj, 0, 1)
		n++
	}
	if n == 0 {
		return LexicalScore{}
	}
	return LexicalScore{
		Polarity:     clamp(polSum/float64(n), -1, 1),
		Subjectivity: clamp(subjSum/float64(n), 0, 1),
	}
}

func (l *Lexicon) negated(tokens []string, i int) bool {
	for j := i - 1; j >= 0 && j >= i-2; j-- {
		if l.negations[tokens[j]] {
			return true
		}
	}
	return false
}

// apostrophes folds typographic apostrophes so contractions match the tables.
var apostrophes = strings.NewReplacer("\u2019", "'", "\u2018", "'")

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(apostrophes.Replace(text)), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

var defaultIntensifiers = map[string]float64{
	"very": 1.3, "really": 1.3, "extremely": 1.5, "so": 1.2, "super": 1.3,
	"totally": 1.3, "completely": 1.4, "incredibly": 1.5, "quite": 1.1,
	"slightly": 0.5, "somewhat": 0.7, "little": 0.6, "kinda": 0.7,
}

var defaultNegations = map[string]bool{
	"not": true, "no": true, "never": true, "don't": true, "dont": true,
	"isn't": true, "wasn't": true, "can't": true, "cannot": true, "won't": true,
	"didn't": true, "doesn't": true, "nothing": true, "hardly": true,
}

var defaultLexicon = map[string]lexEntry{
	// positive
	"good": {0.7, 0.6}, "great": {0.8, 0.75}, "happy": {0.8, 1.0}, "glad": {0.5, 1.0},
	"wonderful": {1.0, 1.0}, "amazing": {0.6, 0.9}, "awesome": {1.0, 1.0},
	"excellent": {1.0, 1.0}, "fantastic": {0.4, 0.9}, "nice": {0.6, 1.0},
	"love": {0.5, 0.6}, "lovely": {0.5, 0.75}, "grateful": {0.6, 0.8},
	"thankful": {0.5, 0.7}, "calm": {0.3, 0.75}, "peaceful": {0.5, 0.7},
	"relaxed": {0.4, 0.6}, "better": {0.5, 0.5}, "best": {1.0, 0.3},
	"hopeful": {0.5, 0.8}, "optimistic": {0.5, 0.7}, "excited": {0.4, 0.75},
	"proud": {0.8, 1.0}, "confident": {0.5, 0.6}, "safe": {0.5, 0.5},
	"fine": {0.4, 0.5}, "okay": {0.5, 0.5}, "ok": {0.5, 0.5}, "helpful": {0.5, 0.5},
	"enjoy": {0.4, 0.5}, "enjoyed": {0.4, 0.5}, "fun": {0.3, 0.2},
	"beautiful": {0.85, 1.0}, "joy": {0.8, 0.9}, "strong": {0.43, 0.73},
	"supported": {0.4, 0.5}, "rested": {0.3, 0.4}, "improving": {0.4, 0.5},
	// negative
	"bad": {-0.7, 0.67}, "sad": {-0.5, 1.0}, "unhappy": {-0.6, 0.9},
	"terrible": {-1.0, 1.0}, "awful": {-1.0, 1.0}, "horrible": {-1.0, 1.0},
	"worst": {-1.0, 1.0}, "worse": {-0.4, 0.6}, "hate": {-0.8, 0.9},
	"miserable": {-1.0, 1.0}, "depressed": {-0.6, 0.8}, "lonely": {-0.5, 0.9},
	"alone": {-0.3, 0.6}, "anxious": {-0.4, 0.8}, "worried": {-0.4, 0.8},
	"nervous": {-0.3, 0.8}, "scared": {-0.5, 0.9}, "afraid": {-0.6, 0.9},
	"terrified": {-0.9, 1.0}, "frightened": {-0.6, 0.9}, "panic": {-0.6, 0.8},
	"stressed": {-0.5, 0.8}, "overwhelmed": {-0.5, 0.8}, "tired": {-0.4, 0.7},
	"exhausted": {-0.6, 0.8}, "angry": {-0.5, 1.0}, "mad": {-0.6, 1.0},
	"furious": {-0.9, 1.0}, "frustrated": {-0.5, 0.8}, "annoyed": {-0.4, 0.8},
	"irritated": {-0.4, 0.8}, "upset": {-0.5, 0.8}, "hurt": {-0.5, 0.7},
	"pain": {-0.6, 0.7}, "painful": {-0.7, 0.8}, "broken": {-0.4, 0.6},
	"heartbroken": {-0.9, 1.0}, "hopeless": {-0.9, 1.0}, "worthless": {-0.8, 1.0},
	"empty": {-0.4, 0.6}, "numb": {-0.4, 0.6}, "lost": {-0.3, 0.5},
	"confused": {-0.4, 0.7}, "unsure": {-0.2, 0.6}, "difficult": {-0.5, 1.0},
	"hard": {-0.3, 0.5}, "struggling": {-0.5, 0.7}, "cry": {-0.5, 0.7},
	"crying": {-0.5, 0.7}, "guilty": {-0.5, 0.8}, "ashamed": {-0.6, 0.9},
	"sick": {-0.7, 0.9}, "wrong": {-0.5, 0.9}, "fail": {-0.5, 0.5}, "failed": {-0.5, 0.5},
}
