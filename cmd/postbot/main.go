// Package main provides the entry point for the one-shot Facebook post
// pipeline.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/tidelabs/oceanvoice/internal/genai"
	"github.com/tidelabs/oceanvoice/internal/publisher"
	"github.com/tidelabs/oceanvoice/internal/store"
	"github.com/tidelabs/oceanvoice/internal/store/memory"
	"github.com/tidelabs/oceanvoice/internal/store/postgres"
	"github.com/tidelabs/oceanvoice/internal/workflow"
	"github.com/tidelabs/oceanvoice/pkg/config"
	"github.com/tidelabs/oceanvoice/pkg/logger"
)

func main() {
	event := flag.String("event", "", "event to post about")
	coordinates := flag.String("coordinates", "", "coordinates of the event")
	flag.Parse()

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

	st, err := openStore(cfg, log)
	if err != nil {
		log.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	gen := genai.NewGeminiClient(cfg.GenAI.APIKey,
		genai.WithGeminiModel(cfg.GenAI.Model),
		genai.WithGeminiBaseURL(cfg.GenAI.BaseURL),
		genai.WithGeminiTimeout(cfg.GenAI.Timeout),
	)

	pub := publisher.NewFacebookPublisher(cfg.Facebook.PageID, cfg.Facebook.AccessToken, log.Logger,
		publisher.WithGraphBaseURL(cfg.Facebook.GraphURL))

	w, err := workflow.NewPostWorkflow(gen, pub, st, log.Logger)
	if err != nil {
		log.Error("failed to build post workflow", "error", err)
		os.Exit(1)
	}

	result := w.Run(context.Background(), workflow.PostPayload{
		Event:       *event,
		Coordinates: *coordinates,
	})

	log.Info("post run finished",
		"run_id", result.RunID,
		"stage", result.Stage,
		"publish_status", result.Publish.Status,
		"logged", result.Logged,
		"content", result.Content,
	)
	for _, notice := range result.Notices {
		log.Warn("run notice", "run_id", result.RunID, "notice", notice)
	}
}

// openStore selects PostgreSQL when DATABASE_URL is set and the in-memory
// store otherwise.
func openStore(cfg *config.Config, log *logger.Logger) (store.Store, error) {
	if cfg.DatabaseDSN == "" {
		log.Warn("DATABASE_URL not set, using in-memory store; records will not survive this process")
		return memory.New(), nil
	}
	return postgres.NewStore(postgres.DefaultConfig(cfg.DatabaseDSN), log.WithComponent("store").Logger)
}
