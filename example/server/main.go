package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/tripwise/tripwise"
	"github.com/tripwise/tripwise/core/compose"
	"github.com/tripwise/tripwise/helper"
	"github.com/tripwise/tripwise/metrics"
	"github.com/tripwise/tripwise/model"
	"github.com/tripwise/tripwise/server"
)

// Runs the full HTTP API against a real database and an OpenAI-compatible
// model endpoint. Configure via env:
//
//	TRIPWISE_DB_HOST, TRIPWISE_DB_PORT, TRIPWISE_DB_DATABASE,
//	TRIPWISE_DB_USERNAME, TRIPWISE_DB_PASSWORD
//	OPENAI_API_KEY, OPENAI_BASE_URL (optional), OPENAI_MODEL (optional)
//	TRIPWISE_ADDR (default :8080)
//	METRICS_PROMETHEUS, METRICS_ADDR (optional)
func main() {
	metrics.InitFromEnv()

	dbConfig, err := helper.NewDatabaseConfiguration()
	if err != nil {
		log.Fatalf("Failed to load database configuration: %v", err)
	}

	generator := compose.NewOpenAIGenerator(
		os.Getenv("OPENAI_BASE_URL"),
		os.Getenv("OPENAI_API_KEY"),
		os.Getenv("OPENAI_MODEL"),
	)

	tw, err := tripwise.NewTripwise(dbConfig, model.DefaultChatConfig(), generator)
	if err != nil {
		log.Fatalf("Failed to create tripwise: %v", err)
	}
	defer tw.Close()

	addr := os.Getenv("TRIPWISE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := tw.Logger()
	srv := server.NewServer(tw, addr, logger)
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
