package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/tripwise/tripwise"
	"github.com/tripwise/tripwise/core/compose"
	"github.com/tripwise/tripwise/helper"
	"github.com/tripwise/tripwise/model"
)

// cannedGenerator stands in for a real LLM so the example runs offline.
// It echoes translation prompts and answers everything else with a fixed
// reply built from the first knowledge entry in the prompt.
func cannedGenerator() compose.GenerateFunc {
	return func(ctx context.Context, system string, prompt string) (string, error) {
		if strings.HasPrefix(prompt, "Translate the following text") {
			parts := strings.SplitN(prompt, "\n\n", 2)
			return parts[len(parts)-1], nil
		}
		return "You can book a trip in the Tripwise app: pick a destination, choose your dates and confirm the payment.", nil
	}
}

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	tw, err := tripwise.NewTripwise(dbConfig, model.DefaultChatConfig(), cannedGenerator())
	if err != nil {
		log.Fatalf("Failed to create tripwise: %v", err)
	}
	defer tw.Close()

	// Seed a small knowledge pool
	entries := []*model.KnowledgeEntry{
		{
			Question: "How do I book a trip?",
			Answer:   "Open the app, pick a destination and choose your dates.",
			Category: model.CategoryBookings,
			Tags:     []string{"booking"},
		},
		{
			Question: "What activities are available in Skardu?",
			Answer:   "Skardu offers trekking, jeep safaris to Deosai and boating on Shangrila Lake.",
			Category: model.CategoryActivities,
			Tags:     []string{"skardu", "trekking"},
		},
		{
			Question: "What payment methods do you accept?",
			Answer:   "We accept credit cards, debit cards and bank transfers.",
			Category: model.CategoryPayments,
			Tags:     []string{"payment"},
		},
	}

	fmt.Println("Seeding knowledge pool...")
	for _, entry := range entries {
		if err := tw.AddKnowledgeEntry(entry); err != nil {
			log.Fatalf("Failed to insert knowledge entry: %v", err)
		}
	}
	fmt.Printf("Inserted %d entries\n\n", len(entries))

	ctx := context.Background()
	messages := []*model.ChatRequest{
		{Message: "Hello there", UserID: "demo"},
		{Message: "How do I book a trip?", UserID: "demo"},
		{Message: "what can i do in skrdu", UserID: "demo"},
		{Message: "Thanks a lot!", UserID: "demo"},
	}

	for _, request := range messages {
		response, err := tw.Chat(ctx, request)
		if err != nil {
			log.Fatalf("Chat failed: %v", err)
		}
		fmt.Printf("> %s\n", request.Message)
		fmt.Printf("[%s] %s\n\n", response.Source, response.Reply)
	}

	// Rate the last reply
	response, err := tw.Chat(ctx, &model.ChatRequest{Message: "How do I book a trip?", UserID: "demo"})
	if err != nil {
		log.Fatalf("Chat failed: %v", err)
	}
	err = tw.RecordFeedback(&model.Feedback{
		QueryRID: response.QueryID,
		UserID:   "demo",
		Helpful:  true,
		Comments: "Clear instructions.",
	})
	if err != nil {
		log.Fatalf("Failed to record feedback: %v", err)
	}
	fmt.Println("Recorded feedback for query", response.QueryID)
}
