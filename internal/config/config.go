package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"

	"wellness-chatter/internal/crisis"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	TelegramBotToken string  `env:"TELEGRAM_BOT_TOKEN"`
	AllowedUsers     []int64 `env:"ALLOWED_USERS" envSeparator:":"`
	AdminUserID      int64   `env:"ADMIN_USER"`

	// LLM settings
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	Temperature      float32     `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	MaxTokens        int         `env:"LLM_MAX_TOKENS" envDefault:"500"`
	EmbeddingModel   string      `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Prompts
	SystemPromptPath string `env:"SYSTEM_PROMPT_PATH"`

	// Knowledge base
	GuidesDir    string `env:"GUIDES_DIR" envDefault:"data/guides"`
	IndexPath    string `env:"INDEX_PATH" envDefault:"data/knowledge.db"`
	RetrievalK   int    `env:"RETRIEVAL_K" envDefault:"3"`
	ChunkSize    int    `env:"CHUNK_SIZE" envDefault:"1000"`
	ChunkOverlap int    `env:"CHUNK_OVERLAP" envDefault:"200"`

	// Conversation
	MemorySize         int           `env:"MAX_MEMORY_LENGTH" envDefault:"10"`
	HistoryTokenBudget int           `env:"HISTORY_TOKEN_BUDGET" envDefault:"2000"`
	ReflectionInterval int           `env:"REFLECTION_INTERVAL" envDefault:"6"`
	GenerationTimeout  time.Duration `env:"GENERATION_TIMEOUT" envDefault:"45s"`
	WellnessTopics     []string      `env:"WELLNESS_TOPICS" envSeparator:"," envDefault:"anxiety,depression,stress,sleep,meditation,breathing,mindfulness"`
	RetrievalTriggers  []string      `env:"RETRIEVAL_TRIGGERS" envSeparator:"," envDefault:"how to,what is,help with,strategies for,tips,advice,techniques,exercises,cope,manage,deal with,overcome"`

	// Crisis screening
	CrisisKeywords        []string `env:"CRISIS_KEYWORDS" envSeparator:","`
	CrisisThreshold       int      `env:"CRISIS_THRESHOLD" envDefault:"8"`
	CrisisUrgentThreshold int      `env:"CRISIS_URGENT_THRESHOLD" envDefault:"15"`
	CrisisResourcesPath   string   `env:"CRISIS_RESOURCES_PATH"`

	// Sentiment blend
	LexicalWeight  float64 `env:"SENTIMENT_LEXICAL_WEIGHT" envDefault:"0.4"`
	InformalWeight float64 `env:"SENTIMENT_INFORMAL_WEIGHT" envDefault:"0.6"`

	// Storage
	LogFilePath      string `env:"LOG_FILE_PATH" envDefault:"logs/log.jsonl"`
	ConsentFilePath  string `env:"CONSENT_FILE_PATH" envDefault:"data/consent.json"`
	StoreTranscripts bool   `env:"STORE_TRANSCRIPTS" envDefault:"false"`

	// Reports
	ReportSchedule string `env:"REPORT_SCHEDULE" envDefault:"0 21 * * *"`

	// Logging
	LogLevel           string            `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat          string            `env:"LOG_FORMAT" envDefault:"text"`
	ComponentLogLevels map[string]string `env:"COMPONENT_LOG_LEVELS" envSeparator:"," envKeyValSeparator:":"`
}

var (
	ErrMissingCredential = errors.New("missing llm credential")
	ErrMissingBotToken   = errors.New("TELEGRAM_BOT_TOKEN is required")
)

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks that the selected provider can be reached.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY not set", ErrMissingCredential)
		}
	case ProviderYandex:
		if c.YandexOAuthToken == "" || c.YandexFolderID == "" {
			return fmt.Errorf("%w: YANDEX_OAUTH_TOKEN and YANDEX_FOLDER_ID are required", ErrMissingCredential)
		}
	default:
		return fmt.Errorf("unknown llm provider: %s", c.LLMProvider)
	}
	if c.MemorySize <= 0 {
		return fmt.Errorf("MAX_MEMORY_LENGTH must be positive, got %d", c.MemorySize)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP (%d) must be smaller than CHUNK_SIZE (%d)", c.ChunkOverlap, c.ChunkSize)
	}
	return nil
}

func (c *Config) ValidateBot() error {
	if c.TelegramBotToken == "" {
		return ErrMissingBotToken
	}
	return c.Validate()
}

// Embeddings always go through the OpenAI-compatible endpoint.
func (c *Config) ValidateEmbeddings() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("%w: OPENAI_API_KEY is needed for embeddings", ErrMissingCredential)
	}
	return nil
}

// CrisisConfig builds the screen configuration. An empty CrisisResourcesPath
// keeps the built-in directory.
func (c *Config) CrisisConfig() (crisis.Config, error) {
	cc := crisis.DefaultConfig()
	if len(c.CrisisKeywords) > 0 {
		cc.Keywords = c.CrisisKeywords
	}
	cc.Threshold = c.CrisisThreshold
	cc.UrgentThreshold = c.CrisisUrgentThreshold
	if c.CrisisResourcesPath != "" {
		res, err := LoadResources(c.CrisisResourcesPath)
		if err != nil {
			return crisis.Config{}, err
		}
		cc.Resources = res
	}
	return cc, nil
}

// LoadResources reads a JSON array of {"region", "contact"} objects.
func LoadResources(path string) ([]crisis.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read crisis resources: %w", err)
	}
	var res []crisis.Resource
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode crisis resources: %w", err)
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("crisis resources file %s is empty", path)
	}
	return res, nil
}
