package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/auekha/al/internal/config"
	"github.com/auekha/al/internal/discord"
	"github.com/auekha/al/internal/journal"
	"github.com/auekha/al/internal/llm"
	"github.com/auekha/al/internal/logging"
	"github.com/auekha/al/internal/metrics"
	"github.com/auekha/al/internal/prompt"
	"github.com/auekha/al/internal/scheduler"
	"github.com/auekha/al/internal/shortid"
)

func main() {
	log.Println("al - persona channel bot")

	// Load .env file (optional - won't error if missing)
	if err := godotenv.Load(); err != nil {
		logging.Info("config", "no .env file found, using environment variables")
	} else {
		logging.Info("config", "loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	registry := shortid.New()

	completer := llm.New(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.PersonaName)
	completer.SetModel(os.Getenv("OPENAI_MODEL"))

	gw, err := discord.New(discord.Config{
		Token:    cfg.DiscordToken,
		GuildID:  cfg.GuildID,
		Lifespan: cfg.Lifespan,
	}, registry)
	if err != nil {
		log.Fatalf("failed to create gateway: %v", err)
	}
	if err := gw.Open(); err != nil {
		log.Fatalf("failed to connect to Discord: %v", err)
	}

	var trace *journal.Journal
	if cfg.JournalPath != "" {
		trace = journal.New(cfg.JournalPath)
		logging.Info("journal", "tracing reply cycles to %s", cfg.JournalPath)
	}

	composer := prompt.New(cfg.PersonaName, gw.BotTag(), cfg.CreatorTag)
	sched := scheduler.New(scheduler.Config{
		Lifespan:        cfg.Lifespan,
		Debounce:        cfg.Debounce,
		Window:          cfg.Window,
		ImpatienceLimit: cfg.ImpatienceLimit(),
		BotID:           gw.BotID(),
	}, composer, completer, registry, trace)

	gw.Bind(sched)
	if err := gw.RegisterCommands(); err != nil {
		log.Fatalf("failed to register commands: %v", err)
	}

	if cfg.MetricsAddr != "" {
		go metrics.Serve(cfg.MetricsAddr)
		logging.Info("metrics", "serving /metrics on %s", cfg.MetricsAddr)
	}

	logging.Info("main", "ready")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logging.Info("main", "shutting down...")
	sched.Stop()
	if err := gw.Close(); err != nil {
		logging.Warn("main", "gateway close: %v", err)
	}
}
