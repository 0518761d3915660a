package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"reserva/internal/database"
	"reserva/internal/repository"
)

// Prunes data that only has short-term value: intentions whose interval is
// long past, and push subscriptions of accounts deactivated a while ago.
// Meant to run from cron.
func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		log.Fatal("DATABASE_DSN is required")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	ctx := context.Background()
	now := time.Now()

	intentions := repository.NewIntentionRepository(db)
	prunedIntentions, err := intentions.DeleteOlderThan(ctx, now.AddDate(0, 0, -90))
	if err != nil {
		log.Fatalf("cleanup intentions failed: %v", err)
	}

	subscriptions := repository.NewPushSubscriptionRepository(db)
	prunedSubs, err := subscriptions.DeleteStale(ctx, now.AddDate(0, 0, -30))
	if err != nil {
		log.Fatalf("cleanup push subscriptions failed: %v", err)
	}

	log.Printf("cleanup completed: intentions=%d push_subscriptions=%d", prunedIntentions, prunedSubs)
}
