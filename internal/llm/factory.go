package llm

import (
	"fmt"
	"strings"

	"wellness-chatter/internal/config"
)

const (
	ProviderOpenAI = "openai"
	ProviderYandex = "yandex"
)

// Factory creates LLM clients with consistent logic
type Factory struct {
	OpenaiAPIKey       string
	OpenaiBaseURL      string
	OpenRouterReferrer string
	OpenRouterTitle    string
	YandexOAuthToken   string
	YandexFolderID     string
	EmbeddingModel     string
	Temperature        float32
	MaxTokens          int
}

func NewFactory(cfg *config.Config) *Factory {
	return &Factory{
		OpenaiAPIKey:       cfg.OpenAIAPIKey,
		OpenaiBaseURL:      cfg.OpenAIBaseURL,
		OpenRouterReferrer: cfg.OpenRouterReferrer,
		OpenRouterTitle:    cfg.OpenRouterTitle,
		YandexOAuthToken:   cfg.YandexOAuthToken,
		YandexFolderID:     cfg.YandexFolderID,
		EmbeddingModel:     cfg.EmbeddingModel,
		Temperature:        cfg.Temperature,
		MaxTokens:          cfg.MaxTokens,
	}
}

func (f *Factory) CreateClient(provider, model string) (Client, error) {
	switch strings.ToLower(provider) {
	case ProviderOpenAI:
		return NewOpenAI(OpenAIOptions{
			APIKey:      f.OpenaiAPIKey,
			BaseURL:     f.OpenaiBaseURL,
			Model:       model,
			Referrer:    f.OpenRouterReferrer,
			Title:       f.OpenRouterTitle,
			Temperature: f.Temperature,
			MaxTokens:   f.MaxTokens,
		}), nil
	case ProviderYandex:
		return NewYandex(f.YandexOAuthToken, f.YandexFolderID)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", provider)
	}
}

func (f *Factory) CreateEmbedder() *OpenAIEmbedder {
	return NewOpenAIEmbedder(f.OpenaiAPIKey, f.OpenaiBaseURL, f.EmbeddingModel, f.OpenRouterReferrer, f.OpenRouterTitle)
}
