package main

import (
	"context"
	"database/sql"
	"fmt"
	"storefront-delivery-service/internal/adapters/repositories"
	"storefront-delivery-service/internal/config"
	"storefront-delivery-service/internal/platform/db"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found (using environment variables)")
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	database, err := db.Open(ctx, databaseURL, db.DefaultPoolConfig())
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	seedPath := config.Get("STORE_HOURS_SEED", "data/seeds/store_hours.json")
	if err := initAndSeed(ctx, database, seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, database *sql.DB, seedPath string) error {
	log.Info("Initializing database schema...")
	if err := repositories.InitSchema(ctx, database); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	log.Info("Schema ready.")

	log.WithField("path", seedPath).Info("Seeding store hours...")
	n, err := repositories.SeedStoreHoursFromJSON(ctx, database, seedPath)
	if err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	log.WithField("days", n).Info("Seeding complete.")

	return nil
}
