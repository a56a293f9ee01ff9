// Package main provides the entry point for the one-shot tweet pipeline.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

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
	data := flag.String("data", "", "observation data to tweet about (reads stdin when omitted)")
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

	payload := *data
	if payload == "" {
		stdin, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Error("failed to read stdin", "error", err)
			os.Exit(1)
		}
		payload = strings.TrimSpace(string(stdin))
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

	pub := publisher.NewXPublisher(publisher.XCredentials{
		APIKey:            cfg.X.APIKey,
		APIKeySecret:      cfg.X.APIKeySecret,
		AccessToken:       cfg.X.AccessToken,
		AccessTokenSecret: cfg.X.AccessTokenSecret,
	}, log.Logger)

	w, err := workflow.NewTweetWorkflow(gen, pub, st, log.Logger)
	if err != nil {
		log.Error("failed to build tweet workflow", "error", err)
		os.Exit(1)
	}

	result := w.Run(context.Background(), payload)

	log.Info("tweet run finished",
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
