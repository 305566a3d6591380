package repository

import (
	"context"
	"database/sql"
	"fmt"

	"provider-onboarding/backend/internal/onboarding/domain"
)

// PostgresStore implements Store over database/sql.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore returns an onboarding store that uses the given db for persistence.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// UpsertGroup inserts the group onboarding if absent. Re-inserting an existing
// key is a no-op and keeps the original created_at.
func (s *PostgresStore) UpsertGroup(ctx context.Context, key domain.GroupKey) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO group_onboarded_providers (group_id, provider, service_type)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING`,
		key.GroupID, key.Provider, key.ServiceType)
	return err
}

// DeleteGroup removes the group onboarding. Deleting a missing key is a no-op.
func (s *PostgresStore) DeleteGroup(ctx context.Context, key domain.GroupKey) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM group_onboarded_providers
		WHERE group_id = $1 AND provider = $2 AND service_type = $3`,
		key.GroupID, key.Provider, key.ServiceType)
	return err
}

// UpsertClient inserts the redirect-scoped client onboarding if absent.
func (s *PostgresStore) UpsertClient(ctx context.Context, key domain.ClientKey) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO client_onboarded_providers (client_id, redirect_url_id, provider, service_type)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING`,
		key.ClientID, key.RedirectURLID, key.Provider, key.ServiceType)
	return err
}

// DeleteClient removes the redirect-scoped client onboarding. Missing key is a no-op.
func (s *PostgresStore) DeleteClient(ctx context.Context, key domain.ClientKey) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM client_onboarded_providers
		WHERE client_id = $1 AND redirect_url_id = $2 AND provider = $3 AND service_type = $4`,
		key.ClientID, key.RedirectURLID, key.Provider, key.ServiceType)
	return err
}

// UpsertScraping inserts the scraping client onboarding if absent.
func (s *PostgresStore) UpsertScraping(ctx context.Context, key domain.ScrapingKey) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO client_onboarded_scraping_providers (client_id, provider, service_type)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING`,
		key.ClientID, key.Provider, key.ServiceType)
	return err
}

// DeleteScraping removes the scraping client onboarding. Missing key is a no-op.
func (s *PostgresStore) DeleteScraping(ctx context.Context, key domain.ScrapingKey) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM client_onboarded_scraping_providers
		WHERE client_id = $1 AND provider = $2 AND service_type = $3`,
		key.ClientID, key.Provider, key.ServiceType)
	return err
}

// InTx runs fn inside one transaction and commits or rolls back at a single
// exit point: rollback when commit is false or fn fails, commit otherwise.
func (s *PostgresStore) InTx(ctx context.Context, commit bool, fn func(tx Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(&pgTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if !commit {
		if err := tx.Rollback(); err != nil {
			return fmt.Errorf("rollback tx: %w", err)
		}
		return nil
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// pgTx implements Tx over one *sql.Tx.
type pgTx struct {
	tx *sql.Tx
}

func (t *pgTx) ListGroupKeys(ctx context.Context) ([]domain.GroupKey, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT group_id, provider, service_type FROM group_onboarded_providers`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []domain.GroupKey
	for rows.Next() {
		var k domain.GroupKey
		if err := rows.Scan(&k.GroupID, &k.Provider, &k.ServiceType); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (t *pgTx) ListClientKeys(ctx context.Context) ([]domain.ClientKey, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT client_id, redirect_url_id, provider, service_type FROM client_onboarded_providers`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []domain.ClientKey
	for rows.Next() {
		var k domain.ClientKey
		if err := rows.Scan(&k.ClientID, &k.RedirectURLID, &k.Provider, &k.ServiceType); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (t *pgTx) ListScrapingKeys(ctx context.Context) ([]domain.ScrapingKey, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT client_id, provider, service_type FROM client_onboarded_scraping_providers`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []domain.ScrapingKey
	for rows.Next() {
		var k domain.ScrapingKey
		if err := rows.Scan(&k.ClientID, &k.Provider, &k.ServiceType); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// DeleteAll removes every row of all three variants.
func (t *pgTx) DeleteAll(ctx context.Context) error {
	for _, table := range []string{
		"group_onboarded_providers",
		"client_onboarded_providers",
		"client_onboarded_scraping_providers",
	} {
		if _, err := t.tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	return nil
}

func (t *pgTx) InsertGroups(ctx context.Context, keys []domain.GroupKey) error {
	for _, k := range keys {
		_, err := t.tx.ExecContext(ctx, `
			INSERT INTO group_onboarded_providers (group_id, provider, service_type)
			VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING`,
			k.GroupID, k.Provider, k.ServiceType)
		if err != nil {
			return fmt.Errorf("insert group onboarding %s: %w", k, err)
		}
	}
	return nil
}

func (t *pgTx) InsertClients(ctx context.Context, keys []domain.ClientKey) error {
	for _, k := range keys {
		_, err := t.tx.ExecContext(ctx, `
			INSERT INTO client_onboarded_providers (client_id, redirect_url_id, provider, service_type)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT DO NOTHING`,
			k.ClientID, k.RedirectURLID, k.Provider, k.ServiceType)
		if err != nil {
			return fmt.Errorf("insert client onboarding %s: %w", k, err)
		}
	}
	return nil
}

func (t *pgTx) InsertScraping(ctx context.Context, keys []domain.ScrapingKey) error {
	for _, k := range keys {
		_, err := t.tx.ExecContext(ctx, `
			INSERT INTO client_onboarded_scraping_providers (client_id, provider, service_type)
			VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING`,
			k.ClientID, k.Provider, k.ServiceType)
		if err != nil {
			return fmt.Errorf("insert scraping onboarding %s: %w", k, err)
		}
	}
	return nil
}

var _ Store = (*PostgresStore)(nil)
var _ Tx = (*pgTx)(nil)
