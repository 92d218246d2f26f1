package server

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/tripwise/tripwise"
	"github.com/tripwise/tripwise/core/compose"
	"github.com/tripwise/tripwise/helper"
	"github.com/tripwise/tripwise/model"
)

var dbPort string

func TestMain(m *testing.M) {
	var teardown func(ctx context.Context, opts ...testcontainers.TerminateOption) error
	var err error
	teardown, dbPort, err = helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("error starting postgres container: %v", err)
	}

	m.Run()

	if teardown != nil && teardown(context.Background()) != nil {
		log.Fatalf("error tearing down postgres container: %v", err)
	}
}

const testReply = "You can book a trip in the app by picking a destination and your travel dates."

// testGenerator answers composition prompts with a fixed reply and echoes
// translation prompts back.
func testGenerator() compose.GenerateFunc {
	return func(ctx context.Context, system string, prompt string) (string, error) {
		if strings.HasPrefix(prompt, "Translate the following text") {
			parts := strings.SplitN(prompt, "\n\n", 2)
			return parts[len(parts)-1], nil
		}
		return testReply, nil
	}
}

func initServer(t *testing.T) *Server {
	helper.SetTestDatabaseConfigEnvs(t, dbPort)
	dbConfig, err := helper.NewDatabaseConfiguration()
	require.NoError(t, err, "failed to create database configuration")

	tw, err := tripwise.NewTripwise(dbConfig, model.DefaultChatConfig(), testGenerator())
	require.NoError(t, err, "failed to create tripwise")

	t.Cleanup(func() {
		tw.Close()
	})

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return NewServer(tw, ":0", logger)
}
