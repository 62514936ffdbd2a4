package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"wellness-chatter/internal/app"
	"wellness-chatter/internal/config"
	"wellness-chatter/internal/crisis"
	"wellness-chatter/internal/knowledge"
	"wellness-chatter/internal/llm"
	"wellness-chatter/internal/mcpserver"
	"wellness-chatter/internal/sentiment"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Warn(".env file not found", "err", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}

	// stdout carries the protocol; logs go to stderr
	logs := app.NewLogging(cfg)
	logger := logs.ForComponent("mcp")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	crisisCfg, err := cfg.CrisisConfig()
	if err != nil {
		logger.Fatal("invalid crisis config", "err", err)
	}

	index, err := app.OpenIndex(cfg, llm.NewFactory(cfg), logs.ForComponent("knowledge"))
	if err != nil {
		logger.Warn("guide search disabled", "err", err)
	}
	var searcher knowledge.Searcher
	if index != nil {
		defer index.Close()
		searcher = index
	}
	retriever := knowledge.NewRetriever(ctx, searcher, cfg.RetrievalK, logs.ForComponent("knowledge"))

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "wellness-guides-mcp",
		Version: "1.0.0",
	}, nil)

	wellness := mcpserver.New(
		retriever,
		crisis.NewScreen(crisisCfg),
		sentiment.New(sentiment.Config{LexicalWeight: cfg.LexicalWeight, InformalWeight: cfg.InformalWeight}),
		logger,
	)
	wellness.Register(server)

	logger.Info("serving on stdin/stdout", "tools", "search_wellness_guides, screen_message, analyze_sentiment", "guides", retriever.Available())
	if err := server.Run(ctx, mcp.NewStdioTransport()); err != nil {
		logger.Fatal("server failed", "err", err)
	}
}
