package view

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"

	"provider-onboarding/backend/internal/db"
)

// Requires DATABASE_URL pointing at a migrated database; skipped otherwise.
func TestPostgresView_UnionSemantics(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}
	pool, err := db.Open(dsn)
	if err != nil {
		t.Skipf("Database connection failed: %v", err)
	}
	defer pool.Close()

	ctx := context.Background()
	clientID := uuid.New()
	redirectID := uuid.New()

	if _, err := pool.ExecContext(ctx,
		`INSERT INTO clients (id, name) VALUES ($1, 'view-test-client')`, clientID); err != nil {
		t.Fatalf("insert client: %v", err)
	}
	if _, err := pool.ExecContext(ctx,
		`INSERT INTO client_redirect_urls (id, client_id, url) VALUES ($1, $2, 'https://example.test/cb')`,
		redirectID, clientID); err != nil {
		t.Fatalf("insert redirect: %v", err)
	}
	if _, err := pool.ExecContext(ctx, `
		INSERT INTO client_onboarded_providers (client_id, redirect_url_id, provider, service_type)
		VALUES ($1, $2, 'nordbank', 'AIS')`, clientID, redirectID); err != nil {
		t.Fatalf("insert client onboarding: %v", err)
	}
	if _, err := pool.ExecContext(ctx, `
		INSERT INTO client_onboarded_scraping_providers (client_id, provider, service_type)
		VALUES ($1, 'scrapebank', 'AIS')`, clientID); err != nil {
		t.Fatalf("insert scraping onboarding: %v", err)
	}
	t.Cleanup(func() {
		pool.ExecContext(ctx, `DELETE FROM client_onboarded_providers WHERE client_id = $1`, clientID)
		pool.ExecContext(ctx, `DELETE FROM client_onboarded_scraping_providers WHERE client_id = $1`, clientID)
		pool.ExecContext(ctx, `DELETE FROM client_redirect_urls WHERE id = $1`, redirectID)
		pool.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, clientID)
	})

	facts, err := NewPostgresView(pool).ForClient(ctx, clientID)
	if err != nil {
		t.Fatalf("ForClient: %v", err)
	}
	if len(facts) != 2 {
		t.Fatalf("ForClient returned %d facts, want 2", len(facts))
	}

	var withRedirect, withoutRedirect int
	for _, f := range facts {
		if f.ClientID != clientID {
			t.Errorf("fact clientId = %s, want %s", f.ClientID, clientID)
		}
		if f.RedirectURLID != nil {
			withRedirect++
			if *f.RedirectURLID != redirectID {
				t.Errorf("redirectUrlId = %s, want %s", *f.RedirectURLID, redirectID)
			}
		} else {
			withoutRedirect++
		}
	}
	if withRedirect != 1 || withoutRedirect != 1 {
		t.Errorf("facts = %d redirect-scoped / %d scraping, want 1/1", withRedirect, withoutRedirect)
	}

	narrowed, err := NewPostgresView(pool).ForClientAndProvider(ctx, clientID, "scrapebank")
	if err != nil {
		t.Fatalf("ForClientAndProvider: %v", err)
	}
	if len(narrowed) != 1 || narrowed[0].Provider != "scrapebank" {
		t.Errorf("ForClientAndProvider = %v, want only scrapebank", narrowed)
	}
}
