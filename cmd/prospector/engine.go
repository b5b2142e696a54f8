package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"prospector/internal/discover"
	"prospector/internal/logging"
	"prospector/internal/reddit"
	"prospector/internal/taxonomy"
)

// newEngine wires credentials, taxonomy, the Reddit client, and the engine.
// Credentials come from the environment (optionally seeded from a .env
// file); the taxonomy is loaded once here and immutable afterwards.
func newEngine() (*discover.Engine, error) {
	loadDotenv()

	cfg, err := loadTaxonomy()
	if err != nil {
		return nil, err
	}

	client := reddit.NewClient(reddit.Config{
		ClientID:     os.Getenv("REDDIT_CLIENT_ID"),
		ClientSecret: os.Getenv("REDDIT_CLIENT_SECRET"),
		UserAgent:    os.Getenv("REDDIT_USER_AGENT"),
	})

	return discover.NewEngine(client, cfg)
}

func loadDotenv() {
	if flagEnvFile != "" {
		if err := godotenv.Load(flagEnvFile); err != nil {
			logging.New("cli").Warn("could not load env file", "path", flagEnvFile, "error", err)
		}
		return
	}
	// Best effort: a missing ./.env is normal when credentials are exported.
	_ = godotenv.Load()
}

func loadTaxonomy() (*taxonomy.Config, error) {
	path := flagTaxonomy
	if path == "" {
		path = os.Getenv("PROSPECTOR_TAXONOMY")
	}
	if path == "" {
		return taxonomy.Default()
	}
	return taxonomy.LoadFromPath(path)
}

// printJSON writes a report to stdout, indented.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
