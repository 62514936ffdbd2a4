package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"wellness-chatter/internal/config"
	"wellness-chatter/internal/crisis"
	"wellness-chatter/internal/generation"
	"wellness-chatter/internal/history"
	"wellness-chatter/internal/knowledge"
	"wellness-chatter/internal/llm"
	"wellness-chatter/internal/logging"
	"wellness-chatter/internal/router"
	"wellness-chatter/internal/sentiment"
)

// App is the message-processing core shared by every binary.
type App struct {
	Config     *config.Config
	Logs       *logging.Factory
	Screen     *crisis.Screen
	Sentiment  *sentiment.Engine
	Client     llm.Client
	Index      *knowledge.Index
	Retriever  *knowledge.Retriever
	Router     *router.Router
	Reflection *generation.Reflection
}

// NewLogging builds the component logger factory from cfg.
func NewLogging(cfg *config.Config) *logging.Factory {
	base := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	return logging.NewFactory(base, cfg.ComponentLogLevels)
}

// New wires the core. A missing or empty guide index is not an error: the
// retriever reports itself unavailable and the router answers without it.
func New(ctx context.Context, cfg *config.Config, logs *logging.Factory) (*App, error) {
	logger := logs.ForComponent("app")

	crisisCfg, err := cfg.CrisisConfig()
	if err != nil {
		return nil, fmt.Errorf("crisis config: %w", err)
	}
	screen := crisis.NewScreen(crisisCfg)
	engine := sentiment.New(sentiment.Config{
		LexicalWeight:  cfg.LexicalWeight,
		InformalWeight: cfg.InformalWeight,
	})

	factory := llm.NewFactory(cfg)
	client, err := factory.CreateClient(string(cfg.LLMProvider), cfg.OpenAIModel)
	if err != nil {
		return nil, fmt.Errorf("llm client: %w", err)
	}
	logger.Info("llm client ready", "provider", cfg.LLMProvider, "model", cfg.OpenAIModel)

	index, err := OpenIndex(cfg, factory, logs.ForComponent("knowledge"))
	if err != nil {
		logger.Warn("guide index not opened", "path", cfg.IndexPath, "err", err)
	}
	var searcher knowledge.Searcher
	if index != nil {
		searcher = index
	}
	retriever := knowledge.NewRetriever(ctx, searcher, cfg.RetrievalK, logs.ForComponent("knowledge"))

	counter := tokenCounter(logger)
	systemPrompt := readSystemPrompt(cfg.SystemPromptPath, logger)

	r := router.New(router.Deps{
		Screen:             screen,
		Sentiment:          engine,
		Plain:              generation.NewConversation(client, systemPrompt, counter, cfg.HistoryTokenBudget),
		Augmented:          generation.NewAugmented(client, retriever, counter, cfg.HistoryTokenBudget),
		RetrievalAvailable: retriever.Available(),
		Config: router.Config{
			Topics:   cfg.WellnessTopics,
			Triggers: cfg.RetrievalTriggers,
			Timeout:  cfg.GenerationTimeout,
		},
		Logger: logs.ForComponent("router"),
	})

	return &App{
		Config:     cfg,
		Logs:       logs,
		Screen:     screen,
		Sentiment:  engine,
		Client:     client,
		Index:      index,
		Retriever:  retriever,
		Router:     r,
		Reflection: generation.NewReflection(client, cfg.ReflectionInterval).WithTimeout(cfg.GenerationTimeout),
	}, nil
}

// NewSession starts a conversation with a fresh memory window.
func (a *App) NewSession() *router.Session {
	return router.NewSession(a.Router, history.NewWindow(a.Config.MemorySize))
}

func (a *App) Close() error {
	if a.Index != nil {
		return a.Index.Close()
	}
	return nil
}

var errNoIndex = errors.New("index file does not exist")

// OpenIndex opens an existing guide index. Embeddings need an OpenAI-compatible key.
func OpenIndex(cfg *config.Config, factory *llm.Factory, logger *log.Logger) (*knowledge.Index, error) {
	if _, err := os.Stat(cfg.IndexPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errNoIndex
		}
		return nil, err
	}
	if err := cfg.ValidateEmbeddings(); err != nil {
		return nil, err
	}
	return knowledge.OpenIndex(cfg.IndexPath, factory.CreateEmbedder(), logger)
}

func tokenCounter(logger *log.Logger) generation.TokenCounter {
	tc, err := generation.NewTiktokenCounter()
	if err != nil {
		logger.Warn("tiktoken unavailable, approximating token counts", "err", err)
		return generation.ApproxCounter{}
	}
	return tc
}

func readSystemPrompt(path string, logger *log.Logger) string {
	if path == "" {
		return generation.SystemPrompt
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("system prompt unreadable, using built-in", "path", path, "err", err)
		return generation.SystemPrompt
	}
	if s := strings.TrimSpace(string(data)); s != "" {
		return s
	}
	return generation.SystemPrompt
}
