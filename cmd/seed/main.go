// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev client (dev-client) already exists.
package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/google/uuid"

	"provider-onboarding/backend/internal/config"
	"provider-onboarding/backend/internal/db"
)

const devClientName = "dev-client"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("seed: DATABASE_URL is required")
	}

	pool, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var existing uuid.UUID
	err = pool.QueryRowContext(ctx, `SELECT id FROM clients WHERE name = $1`, devClientName).Scan(&existing)
	if err == nil {
		log.Printf("seed: %s already exists (%s), nothing to do", devClientName, existing)
		return
	}
	if err != sql.ErrNoRows {
		log.Fatalf("seed: check existing: %v", err)
	}

	groupID := uuid.New()
	clientID := uuid.New()
	client2ID := uuid.New()
	redirectID := uuid.New()

	tx, err := pool.BeginTx(ctx, nil)
	if err != nil {
		log.Fatalf("seed: begin: %v", err)
	}
	defer tx.Rollback()

	steps := []struct {
		query string
		args  []any
	}{
		{`INSERT INTO client_groups (id, name) VALUES ($1, 'dev-group')`, []any{groupID}},
		{`INSERT INTO clients (id, name) VALUES ($1, $2)`, []any{clientID, devClientName}},
		{`INSERT INTO clients (id, name) VALUES ($1, 'dev-client-2')`, []any{client2ID}},
		{`INSERT INTO client_redirect_urls (id, client_id, url) VALUES ($1, $2, 'http://localhost:3000/callback')`,
			[]any{redirectID, clientID}},

		{`INSERT INTO group_onboarded_providers (group_id, provider, service_type) VALUES ($1, 'nordbank', 'AIS')`,
			[]any{groupID}},
		{`INSERT INTO client_onboarded_providers (client_id, redirect_url_id, provider, service_type)
			VALUES ($1, $2, 'nordbank', 'PIS')`, []any{clientID, redirectID}},
		{`INSERT INTO client_onboarded_scraping_providers (client_id, provider, service_type)
			VALUES ($1, 'scrapebank', 'AIS')`, []any{client2ID}},
	}
	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step.query, step.args...); err != nil {
			log.Fatalf("seed: %v\n  query: %s", err, step.query)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("seed: commit: %v", err)
	}

	log.Printf("seed: created group %s, clients %s/%s, redirect %s with sample onboardings",
		groupID, clientID, client2ID, redirectID)
}
