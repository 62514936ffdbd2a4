package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"wellness-chatter/internal/app"
	"wellness-chatter/internal/config"
	"wellness-chatter/internal/crisis"
	"wellness-chatter/internal/router"
	"wellness-chatter/internal/sentiment"
)

const banner = `Wellness companion (terminal)
Commands: /new  /mood  /resources  quit`

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Warn(".env file not found", "err", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", "err", err)
	}

	logs := app.NewLogging(cfg)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	core, err := app.New(ctx, cfg, logs)
	if err != nil {
		log.Fatal("failed to wire core", "err", err)
	}
	defer core.Close()

	sessionID := uuid.NewString()
	logger := logs.ForComponent("chat").With("session", sessionID)
	logger.Info("session started", "guides", core.Router.RetrievalAvailable())

	fmt.Println(banner)
	session := core.NewSession()
	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nYou: ")
		if !in.Scan() {
			return
		}
		line := strings.TrimSpace(in.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit", "bye":
			fmt.Println("\n" + closing(ctx, core, session))
			return
		case "/new":
			fmt.Println("\n" + closing(ctx, core, session))
			session.Reset()
			logger.Info("session reset")
			continue
		case "/mood":
			fmt.Println("\nRecent mood: " + session.Memory().EmotionalSummary())
			continue
		case "/resources":
			fmt.Println("\n" + crisis.FormatResources(core.Screen.Resources()))
			continue
		}

		res := session.Process(ctx, line)
		fmt.Println("\nAssistant: " + render(res))

		if !res.CrisisDetected && core.Reflection.ShouldReflect(session.Messages()) {
			if text, err := core.Reflection.Reflect(ctx, session.Memory().Messages()); err == nil {
				fmt.Println("\n💭 " + text)
			} else {
				logger.Debug("reflection skipped", "err", err)
			}
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func render(res router.Result) string {
	if res.CrisisDetected {
		return res.Response
	}
	out := res.Response
	if res.UsedRetrieval {
		out += "\n\n📚 Response enhanced with wellness guides"
	}
	return out + fmt.Sprintf("\n[%s %s]", sentiment.Emoji(res.Sentiment), res.Sentiment.Label)
}

func closing(ctx context.Context, core *app.App, session *router.Session) string {
	mem := session.Memory()
	return core.Reflection.SessionSummary(ctx, mem.Messages(), mem.EmotionalSummary())
}
