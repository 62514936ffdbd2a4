package sentiment

// Label buckets the combined polarity of a message.
type Label string

const (
	LabelPositive         Label = "positive"
	LabelSomewhatPositive Label = "somewhat positive"
	LabelNeutral          Label = "neutral"
	LabelSomewhatNegative Label = "somewhat negative"
	LabelNegative         Label = "negative"
)

// Emotion is a discrete emotion tag from the fixed taxonomy.
type Emotion string

const (
	EmotionJoy       Emotion = "joy"
	EmotionSadness   Emotion = "sadness"
	EmotionAnxiety   Emotion = "anxiety"
	EmotionAnger     Emotion = "anger"
	EmotionFear      Emotion = "fear"
	EmotionHope      Emotion = "hope"
	EmotionConfusion Emotion = "confusion"
)

// Confidence is how much the two estimators can be trusted for a message.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Breakdown holds positive/negative/neutral proportions. They sum to 1.
type Breakdown struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
}

// Result is the per-message sentiment record. It is never mutated after Analyze returns it.
type Result struct {
	Polarity     float64    `json:"polarity"`
	Subjectivity float64    `json:"subjectivity"`
	Label        Label      `json:"label"`
	Emotions     []Emotion  `json:"emotions"`
	Confidence   Confidence `json:"confidence"`
	Breakdown    Breakdown  `json:"breakdown"`
}

// HasEmotion reports whether e was detected.
func (r Result) HasEmotion(e Emotion) bool {
	for _, got := range r.Emotions {
		if got == e {
			return true
		}
	}
	return false
}

// LexicalScore is the general-purpose polarity/subjectivity estimate.
type LexicalScore struct {
	Polarity     float64
	Subjectivity float64
}

// InformalScore is the estimate tuned for short, colloquial text.
type InformalScore struct {
	Compound float64
	Positive float64
	Negative float64
	Neutral  float64
}

type LexicalEstimator interface {
	Estimate(text string) LexicalScore
}

type InformalEstimator interface {
	Score(text string) InformalScore
}

// EmotionKeywords maps one emotion to the keywords that signal it.
type EmotionKeywords struct {
	Emotion  Emotion
	Keywords []string
}

// Config tunes the blend and label ladder. Zero values are replaced by defaults.
type Config struct {
	LexicalWeight    float64
	InformalWeight   float64
	StrongThreshold  float64
	MildThreshold    float64
	AgreementMargin  float64
	StrongCompound   float64
	SubjectiveCutoff float64
	Emotions         []EmotionKeywords
}

// DefaultConfig returns the 0.4/0.6 blend with the ±0.3/±0.1 label ladder.
func DefaultConfig() Config {
	return Config{
		LexicalWeight:    0.4,
		InformalWeight:   0.6,
		StrongThreshold:  0.3,
		MildThreshold:    0.1,
		AgreementMargin:  0.3,
		StrongCompound:   0.5,
		SubjectiveCutoff: 0.5,
		Emotions:         DefaultEmotions(),
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.LexicalWeight == 0 && c.InformalWeight == 0 {
		c.LexicalWeight, c.InformalWeight = d.LexicalWeight, d.InformalWeight
	}
	if c.StrongThreshold == 0 {
		c.StrongThreshold = d.StrongThreshold
	}
	if c.MildThreshold == 0 {
		c.MildThreshold = d.MildThreshold
	}
	if c.AgreementMargin == 0 {
		c.AgreementMargin = d.AgreementMargin
	}
	if c.StrongCompound == 0 {
		c.StrongCompound = d.StrongCompound
	}
	if c.SubjectiveCutoff == 0 {
		c.SubjectiveCutoff = d.SubjectiveCutoff
	}
	if len(c.Emotions) == 0 {
		c.Emotions = d.Emotions
	}
	return c
}

// DefaultEmotions is the seven-category keyword taxonomy.
func DefaultEmotions() []EmotionKeywords {
	return []EmotionKeywords{
		{EmotionJoy, []string{"happy", "joy", "excited", "great", "wonderful", "amazing", "love", "grateful"}},
		{EmotionSadness, []string{"sad", "depressed", "down", "unhappy", "miserable", "heartbroken", "lonely"}},
		{EmotionAnxiety, []string{"anxious", "worried", "nervous", "scared", "afraid", "panic", "overwhelmed", "stressed"}},
		{EmotionAnger, []string{"angry", "mad", "furious", "frustrated", "irritated", "annoyed", "rage"}},
		{EmotionFear, []string{"fear", "terrified", "frightened", "afraid", "scared", "worried"}},
		{EmotionHope, []string{"hope", "hopeful", "optimistic", "better", "improve", "forward", "try"}},
		{EmotionConfusion, []string{"confused", "lost", "don't know", "uncertain", "unsure", "mixed"}},
	}
}
