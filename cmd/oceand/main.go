// Package main provides the entry point for the scheduler daemon. It runs
// the advocacy-letters job daily and the weekly summary job on their cron
// schedules and serves health/status endpoints.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tidelabs/oceanvoice/internal/daemon"
	"github.com/tidelabs/oceanvoice/internal/genai"
	"github.com/tidelabs/oceanvoice/internal/letters"
	"github.com/tidelabs/oceanvoice/internal/publisher"
	"github.com/tidelabs/oceanvoice/internal/shutdown"
	"github.com/tidelabs/oceanvoice/internal/store"
	"github.com/tidelabs/oceanvoice/internal/store/memory"
	"github.com/tidelabs/oceanvoice/internal/store/postgres"
	"github.com/tidelabs/oceanvoice/internal/workflow"
	"github.com/tidelabs/oceanvoice/pkg/config"
	"github.com/tidelabs/oceanvoice/pkg/logger"
)

const version = "0.3.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.ParseLevel(cfg.LogLevel), cfg.LogFormat == "json")

	if err := cfg.GenAI.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Letters.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Summary.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	var st store.Store
	if cfg.DatabaseDSN == "" {
		log.Warn("DATABASE_URL not set, using in-memory store; records will not survive restarts")
		st = memory.New()
	} else {
		st, err = postgres.NewStore(postgres.DefaultConfig(cfg.DatabaseDSN), log.WithComponent("store").Logger)
		if err != nil {
			log.Error("failed to open store", "error", err)
			os.Exit(1)
		}
	}

	gemini := genai.NewGeminiClient(cfg.GenAI.APIKey,
		genai.WithGeminiModel(cfg.GenAI.Model),
		genai.WithGeminiBaseURL(cfg.GenAI.BaseURL),
		genai.WithGeminiTimeout(cfg.GenAI.Timeout),
	)

	xPub := publisher.NewXPublisher(publisher.XCredentials{
		APIKey:            cfg.X.APIKey,
		APIKeySecret:      cfg.X.APIKeySecret,
		AccessToken:       cfg.X.AccessToken,
		AccessTokenSecret: cfg.X.AccessTokenSecret,
	}, log.Logger)

	summary, err := workflow.NewSummaryWorkflow(gemini, xPub, st, log.Logger)
	if err != nil {
		log.Error("failed to build summary workflow", "error", err)
		os.Exit(1)
	}

	profiles, err := letters.LoadProfiles(cfg.Letters.ProfilesPath)
	if err != nil {
		log.Error("failed to load organization profiles", "error", err)
		os.Exit(1)
	}

	openRouter := genai.NewOpenRouterClient(cfg.Letters.APIKey,
		genai.WithOpenRouterModel(cfg.Letters.Model),
		genai.WithOpenRouterBaseURL(cfg.Letters.BaseURL),
		genai.WithSystemPrompt(letters.SystemPrompt),
	)

	lettersGen, err := letters.NewGenerator(openRouter, profiles, cfg.Letters.OutputDir, log.Logger,
		letters.WithPace(cfg.Letters.Pace))
	if err != nil {
		log.Error("failed to build letters generator", "error", err)
		os.Exit(1)
	}

	d := daemon.New(cfg.Daemon.Addr, st, version, log.Logger)

	err = d.AddJob("letters", cfg.Daemon.LettersSchedule, func(ctx context.Context) (string, error) {
		report, err := lettersGen.Run(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d letters generated, index %.1f (%s)",
			len(report.Letters), report.Snapshot.Index, report.Snapshot.Severity), nil
	})
	if err != nil {
		log.Error("failed to schedule letters job", "error", err)
		os.Exit(1)
	}

	err = d.AddJob("summary", cfg.Daemon.SummarySchedule, func(ctx context.Context) (string, error) {
		result := summary.Summarize(ctx, cfg.Summary.WindowDays)
		return fmt.Sprintf("publish %s, %d tweets in window",
			result.Publish.Status, len(result.Payload)), nil
	})
	if err != nil {
		log.Error("failed to schedule summary job", "error", err)
		os.Exit(1)
	}

	coordinator := shutdown.NewCoordinator(
		shutdown.WithTimeout(cfg.Daemon.ShutdownTimeout),
		shutdown.WithLogger(log.Logger),
	)
	// LIFO: the scheduler stops first so no new job starts, then the HTTP
	// server drains, then the store closes.
	coordinator.Register(shutdown.NewCloserComponent("store", st))
	coordinator.Register(shutdown.NewHTTPServerComponent("http", d.Server()))
	coordinator.Register(d)

	startErr := make(chan error, 1)
	go func() {
		if err := d.Start(); err != nil {
			log.Error("daemon stopped with error", "error", err)
			startErr <- err
			coordinator.Shutdown()
		}
	}()

	if cfg.Daemon.RunOnStart {
		go func() {
			if err := d.RunNow("letters"); err != nil {
				log.Error("startup letters run failed", "error", err)
			}
		}()
	}

	coordinator.WaitForSignal()

	code := coordinator.ExitCode()
	select {
	case <-startErr:
		code = 1
	default:
	}
	os.Exit(code)
}
