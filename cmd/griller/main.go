package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/ripperlabs/griller/internal/config"
	"github.com/ripperlabs/griller/internal/ghfetch"
	"github.com/ripperlabs/griller/internal/llm"
	"github.com/ripperlabs/griller/internal/personality"
	"github.com/ripperlabs/griller/internal/roast"
)

func main() {
	var cfg config.Config
	var provider string
	flag.StringVar(&provider, "provider", "gemini", "LLM provider: gemini, openai, anthropic")
	flag.StringVar(&cfg.Model, "model", "", "LLM model (default: per-provider)")
	flag.StringVar(&cfg.Personality, "personality", config.DefaultPersonality,
		"Roast voice: "+strings.Join(personality.Keys(), ", "))
	flag.IntVar(&cfg.Intensity, "intensity", config.DefaultIntensity, "Roast severity 1-5")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "Enable verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: griller [flags] <username>\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg.Provider = llm.ProviderName(provider)

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	cfg.Username = flag.Arg(0)

	cfg.LoadFromEnv()
	if cfg.Model == "" {
		cfg.Model = config.DefaultModel(cfg.Provider)
	}
	if err := cfg.Validate(); err != nil {
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

	slog.Info("starting griller",
		"username", cfg.Username,
		"personality", cfg.Personality,
		"intensity", cfg.Intensity,
		"provider", cfg.Provider,
		"model", cfg.Model,
	)

	gen, err := llm.NewGenerator(ctx, llm.Config{
		Name:   cfg.Provider,
		APIKey: cfg.APIKey,
		Model:  cfg.Model,
	})
	if err != nil {
		return fmt.Errorf("creating LLM generator: %w", err)
	}

	orchestrator := roast.New(ghfetch.NewClient(cfg.GitHubToken), gen)
	_, err = orchestrator.Roast(ctx, roast.Request{
		Username:    cfg.Username,
		Personality: cfg.Personality,
		Intensity:   cfg.Intensity,
	}, func(chunk string) error {
		_, err := fmt.Print(chunk)
		return err
	})
	if err != nil {
		return fmt.Errorf("roasting %s: %w", cfg.Username, err)
	}
	fmt.Println()
	return nil
}
