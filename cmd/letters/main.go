// Package main provides the entry point for the one-shot advocacy-letters
// run.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/tidelabs/oceanvoice/internal/genai"
	"github.com/tidelabs/oceanvoice/internal/letters"
	"github.com/tidelabs/oceanvoice/pkg/config"
	"github.com/tidelabs/oceanvoice/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	output := flag.String("output", cfg.Letters.OutputDir, "directory for generated letters")
	flag.Parse()

	log := logger.New(logger.ParseLevel(cfg.LogLevel), cfg.LogFormat == "json")

	if err := cfg.Letters.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	profiles, err := letters.LoadProfiles(cfg.Letters.ProfilesPath)
	if err != nil {
		log.Error("failed to load organization profiles", "error", err)
		os.Exit(1)
	}

	gen := genai.NewOpenRouterClient(cfg.Letters.APIKey,
		genai.WithOpenRouterModel(cfg.Letters.Model),
		genai.WithOpenRouterBaseURL(cfg.Letters.BaseURL),
		genai.WithSystemPrompt(letters.SystemPrompt),
	)

	g, err := letters.NewGenerator(gen, profiles, *output, log.Logger,
		letters.WithPace(cfg.Letters.Pace))
	if err != nil {
		log.Error("failed to build letters generator", "error", err)
		os.Exit(1)
	}

	report, err := g.Run(context.Background())
	if err != nil {
		log.Error("letters run failed", "error", err)
		os.Exit(1)
	}

	log.Info("letters run finished",
		"letters", len(report.Letters),
		"index", fmt.Sprintf("%.1f", report.Snapshot.Index),
		"severity", report.Snapshot.Severity,
		"output", *output,
	)
}
