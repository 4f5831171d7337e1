package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/ripperlabs/griller/internal/config"
	"github.com/ripperlabs/griller/internal/ghfetch"
	"github.com/ripperlabs/griller/internal/insight"
	"github.com/ripperlabs/griller/internal/llm"
	"github.com/ripperlabs/griller/internal/roast"
	"github.com/ripperlabs/griller/internal/server"
)

func main() {
	var cfg config.Config
	var provider string
	flag.StringVar(&cfg.Addr, "addr", ":8080", "Listen address")
	flag.StringVar(&provider, "provider", "gemini", "LLM provider: gemini, openai, anthropic")
	flag.StringVar(&cfg.Model, "model", "", "LLM model (default: per-provider)")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "Enable verbose logging")
	flag.Parse()

	cfg.Provider = llm.ProviderName(provider)
	cfg.LoadFromEnv()
	if cfg.Model == "" {
		cfg.Model = config.DefaultModel(cfg.Provider)
	}
	if err := cfg.ValidateServer(); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, &cfg); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	gen, err := llm.NewGenerator(ctx, llm.Config{
		Name:   cfg.Provider,
		APIKey: cfg.APIKey,
		Model:  cfg.Model,
	})
	if err != nil {
		return fmt.Errorf("creating LLM generator: %w", err)
	}

	orchestrator := roast.New(ghfetch.NewClient(cfg.GitHubToken), gen)
	analyzer := insight.NewService(gen, cfg.GitHubToken)
	app := server.New(orchestrator, analyzer)

	go func() {
		<-ctx.Done()
		slog.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("listening", "addr", cfg.Addr, "provider", cfg.Provider, "model", cfg.Model)
	if err := app.Listen(cfg.Addr); err != nil {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}
