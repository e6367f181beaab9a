// Package main is the entry point for Scavenger.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/samdwyer/scavenger/internal/game"
	"github.com/samdwyer/scavenger/internal/records"
	"github.com/samdwyer/scavenger/internal/telemetry"
)

func main() {
	// Load .env file for local development
	// This makes HONEYCOMB_SCAVENGER_API_KEY available
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	// Set up OTEL environment variables from our .env variables
	setupOTelEnv()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		log.Fatal("scavenger needs an interactive terminal")
	}

	cfg, err := game.LoadConfig(os.Getenv)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// The terminal belongs to the game from here on, so logs go to a file or nowhere.
	logOut, closeLog := openLog(os.Getenv("SCAVENGER_LOG_FILE"))
	defer closeLog()
	logger := log.New(logOut, "otel: ", log.LstdFlags)

	// Initialize telemetry
	shutdown, err := telemetry.Setup(ctx, logger)
	if err != nil {
		log.Printf("Warning: telemetry setup failed: %v", err)
		log.Printf("Game will run without observability")
		// Continue without telemetry - game still works
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Printf("Error shutting down telemetry: %v", err)
			}
		}()
	}

	log.SetOutput(logOut)
	defer log.SetOutput(os.Stderr)

	g, err := game.New(cfg)
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("Failed to initialize game: %v", err)
	}

	if cfg.RecordsApp != "" {
		store, err := records.Open(cfg.RecordsApp)
		if err != nil {
			log.Printf("Warning: records unavailable: %v", err)
		}
		g.SetRecords(store)
	}

	if err := g.Run(ctx); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("Game error: %v", err)
	}
}

// openLog opens path for appending, or discards output if path is empty.
func openLog(path string) (io.Writer, func()) {
	if path == "" {
		return io.Discard, func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("Warning: cannot open log file: %v", err)
		return io.Discard, func() {}
	}
	return f, func() { f.Close() }
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
func setupOTelEnv() {
	// Always set endpoint to Honeycomb
	os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")

	apiKey := os.Getenv("HONEYCOMB_SCAVENGER_API_KEY")
	dataset := os.Getenv("HONEYCOMB_SCAVENGER_DATASET")
	if dataset == "" {
		dataset = "scavenger" // default dataset name
	}
	if apiKey != "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	}
}
