package crisis

// Resource is one region→contact line of the crisis directory.
type Resource struct {
	Region  string `json:"region"`
	Contact string `json:"contact"`
}

// Config carries everything that is configuration rather than scoring logic.
type Config struct {
	Keywords        []string
	IntensityWords  []string
	Resources       []Resource
	Threshold       int
	UrgentThreshold int
	MinLength       int
}

func DefaultKeywords() []string {
	return []string{
		"suicide", "kill myself", "end it all", "don't want to live",
		"self-harm", "hurt myself", "overdose", "goodbye world",
	}
}

func DefaultIntensityWords() []string {
	return []string{
		"really", "very", "extremely", "seriously", "desperately",
		"truly", "absolutely", "completely", "totally",
	}
}

func DefaultResources() []Resource {
	return []Resource{
		{Region: "Sri Lanka - Lifeline Foundation", Contact: "13 113"},
		{Region: "Sri Lanka - Suicide Prevention Hotline", Contact: "011 269 9999"},
		{Region: "Sri Lanka - National Institute of Mental Health", Contact: "011 269 8000"},
		{Region: "International", Contact: "https://findahelpline.com"},
	}
}

func DefaultConfig() Config {
	return Config{
		Keywords:        DefaultKeywords(),
		IntensityWords:  DefaultIntensityWords(),
		Resources:       DefaultResources(),
		Threshold:       8,
		UrgentThreshold: 15,
		MinLength:       3,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Keywords == nil {
		c.Keywords = d.Keywords
	}
	if c.IntensityWords == nil {
		c.IntensityWords = d.IntensityWords
	}
	if len(c.Resources) == 0 {
		c.Resources = d.Resources
	}
	if c.Threshold <= 0 {
		c.Threshold = d.Threshold
	}
	if c.UrgentThreshold <= 0 {
		c.UrgentThreshold = d.UrgentThreshold
	}
	if c.MinLength <= 0 {
		c.MinLength = d.MinLength
	}
	return c
}
