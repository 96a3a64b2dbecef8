package main

import (
	"context"
	"fmt"
	"log"

	"github.com/dimitrije/taskhub-api/internal/config"
	"github.com/dimitrije/taskhub-api/internal/database"
	"github.com/dimitrije/taskhub-api/internal/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	result, err := db.Pool.Exec(ctx, `
		UPDATE invitations SET status = $1
		WHERE status = $2 AND expires_at <= NOW()
	`, models.InviteStatusExpired, models.InviteStatusPending)
	if err != nil {
		log.Fatalf("Failed to expire invitations: %v", err)
	}

	fmt.Printf("Expired %d lapsed invitations\n", result.RowsAffected())
}
