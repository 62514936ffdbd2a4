package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"wellness-chatter/internal/app"
	"wellness-chatter/internal/config"
	"wellness-chatter/internal/ingest"
	"wellness-chatter/internal/knowledge"
	"wellness-chatter/internal/llm"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Warn(".env file not found", "err", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}

	dir := flag.String("dir", cfg.GuidesDir, "directory with .pdf, .txt and .md wellness guides")
	path := flag.String("index", cfg.IndexPath, "SQLite index file to write")
	reset := flag.Bool("reset", false, "drop existing chunks before indexing")
	flag.Parse()

	if err := cfg.ValidateEmbeddings(); err != nil {
		log.Fatal("embeddings unavailable", "err", err)
	}
	if cfg.ChunkOverlap >= cfg.ChunkSize {
		log.Fatal("CHUNK_OVERLAP must be smaller than CHUNK_SIZE", "size", cfg.ChunkSize, "overlap", cfg.ChunkOverlap)
	}

	logs := app.NewLogging(cfg)
	logger := logs.ForComponent("build-index")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	docs, err := ingest.LoadDirectory(*dir, logs.ForComponent("ingest"))
	if err != nil {
		logger.Fatal("failed to load guides", "dir", *dir, "err", err)
	}
	if len(docs) == 0 {
		logger.Warn("no guides found, add .pdf/.txt/.md files and rerun", "dir", *dir)
		return
	}
	chunks := ingest.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap).Split(docs)
	logger.Info("split guides", "documents", len(docs), "chunks", len(chunks))

	factory := llm.NewFactory(cfg)
	index, err := knowledge.OpenIndex(*path, factory.CreateEmbedder(), logs.ForComponent("knowledge"))
	if err != nil {
		logger.Fatal("failed to open index", "path", *path, "err", err)
	}
	defer index.Close()

	if *reset {
		if err := index.Reset(ctx); err != nil {
			logger.Fatal("failed to reset index", "err", err)
		}
	}
	if err := index.Add(ctx, chunks); err != nil {
		logger.Fatal("failed to index chunks", "err", err)
	}

	total, err := index.Count(ctx)
	if err != nil {
		logger.Fatal("failed to count chunks", "err", err)
	}
	sources, err := index.Sources(ctx)
	if err != nil {
		logger.Warn("failed to list indexed sources", "err", err)
	}
	logger.Info("index built", "path", *path, "chunks", total, "sources", len(sources), "took", time.Since(start).Round(time.Millisecond))
}
