package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"prepmate/internal/model"
	"prepmate/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Seeds sample candidate background documents so the coaching pipeline
// has retrieval context to work with on a fresh database.
func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database("prepmate")
	profiles := repository.NewProfileRepo(db)

	docs := []*model.ProfileDocument{
		{
			Kind: model.ProfileKindCV,
			Text: "Software engineer with 5 years of experience building backend services in Go and Python. " +
				"Led migration of a monolithic billing system to microservices, cutting deploy time from hours to minutes. " +
				"Comfortable with Redis, MongoDB, and Kubernetes.",
			Metadata: map[string]string{"source": "seed"},
			AddedAt:  time.Now(),
		},
		{
			Kind: model.ProfileKindExperience,
			Text: "At my previous company I owned the payments reconciliation pipeline. When a third-party outage caused " +
				"duplicate charges, I designed an idempotency layer and coordinated the refund process across three teams, " +
				"recovering customer trust within a week.",
			Metadata: map[string]string{"source": "seed"},
			AddedAt:  time.Now(),
		},
		{
			Kind: model.ProfileKindPersonality,
			Text: "Collaborative and direct communicator. Prefers structured problem solving and is energized by mentoring " +
				"junior engineers. Values teams that balance shipping speed with operational care.",
			Metadata: map[string]string{"source": "seed"},
			AddedAt:  time.Now(),
		},
	}

	for _, doc := range docs {
		if err := profiles.Add(ctx, doc); err != nil {
			log.Fatalf("Failed to insert %s document: %v", doc.Kind, err)
		}
	}

	fmt.Printf("Successfully seeded %d profile documents\n", len(docs))
}
