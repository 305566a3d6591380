package view

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"provider-onboarding/backend/internal/onboarding/domain"
)

// factUnionQuery unions the redirect-scoped and scraping variants into the
// fact shape. One statement, so the read is a single consistent snapshot at
// the engine's isolation level.
const factUnionQuery = `
	SELECT client_id, provider, service_type, redirect_url_id
	FROM client_onboarded_providers
	UNION ALL
	SELECT client_id, provider, service_type, NULL
	FROM client_onboarded_scraping_providers`

// PostgresView implements View over database/sql.
type PostgresView struct {
	db *sql.DB
}

// NewPostgresView returns a view reading from the given db.
func NewPostgresView(db *sql.DB) *PostgresView {
	return &PostgresView{db: db}
}

func (v *PostgresView) All(ctx context.Context) ([]domain.Fact, error) {
	return v.queryFacts(ctx, factUnionQuery)
}

func (v *PostgresView) ForClient(ctx context.Context, clientID uuid.UUID) ([]domain.Fact, error) {
	return v.queryFacts(ctx, `
		SELECT client_id, provider, service_type, redirect_url_id
		FROM client_onboarded_providers
		WHERE client_id = $1
		UNION ALL
		SELECT client_id, provider, service_type, NULL
		FROM client_onboarded_scraping_providers
		WHERE client_id = $1`, clientID)
}

func (v *PostgresView) ForClientAndProvider(ctx context.Context, clientID uuid.UUID, provider string) ([]domain.Fact, error) {
	return v.queryFacts(ctx, `
		SELECT client_id, provider, service_type, redirect_url_id
		FROM client_onboarded_providers
		WHERE client_id = $1 AND provider = $2
		UNION ALL
		SELECT client_id, provider, service_type, NULL
		FROM client_onboarded_scraping_providers
		WHERE client_id = $1 AND provider = $2`, clientID, provider)
}

func (v *PostgresView) Groups(ctx context.Context) ([]domain.GroupOnboarding, error) {
	rows, err := v.db.QueryContext(ctx, `
		SELECT group_id, provider, service_type, created_at
		FROM group_onboarded_providers`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.GroupOnboarding
	for rows.Next() {
		var g domain.GroupOnboarding
		if err := rows.Scan(&g.GroupID, &g.Provider, &g.ServiceType, &g.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (v *PostgresView) queryFacts(ctx context.Context, query string, args ...any) ([]domain.Fact, error) {
	rows, err := v.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var facts []domain.Fact
	for rows.Next() {
		var (
			clientID    uuid.UUID
			provider    string
			serviceType domain.ServiceType
			redirect    uuid.NullUUID
		)
		if err := rows.Scan(&clientID, &provider, &serviceType, &redirect); err != nil {
			return nil, err
		}
		facts = append(facts, factFromRow(clientID, provider, serviceType, redirect))
	}
	return facts, rows.Err()
}

// factFromRow maps one scanned row to the fact shape. A NULL redirect_url_id
// (every scraping row) means the onboarding is not endpoint-restricted.
func factFromRow(clientID uuid.UUID, provider string, serviceType domain.ServiceType, redirect uuid.NullUUID) domain.Fact {
	f := domain.Fact{ClientID: clientID, Provider: provider, ServiceType: serviceType}
	if redirect.Valid {
		id := redirect.UUID
		f.RedirectURLID = &id
	}
	return f
}

var _ View = (*PostgresView)(nil)
