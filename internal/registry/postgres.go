package registry

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// PostgresReader implements Reader over the mirrored registry tables.
type PostgresReader struct {
	db *sql.DB
}

// NewPostgresReader returns a registry reader backed by the given db.
func NewPostgresReader(db *sql.DB) *PostgresReader {
	return &PostgresReader{db: db}
}

// Snapshot loads the current group ids, non-deleted client ids, and redirect
// ownership map in one read transaction.
func (r *PostgresReader) Snapshot(ctx context.Context) (*RefSets, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	sets := &RefSets{
		Groups:         make(map[uuid.UUID]struct{}),
		Clients:        make(map[uuid.UUID]struct{}),
		RedirectOwners: make(map[uuid.UUID]uuid.UUID),
	}

	rows, err := tx.QueryContext(ctx, `SELECT id FROM client_groups`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		sets.Groups[id] = struct{}{}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = tx.QueryContext(ctx, `SELECT id FROM clients WHERE NOT deleted`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		sets.Clients[id] = struct{}{}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = tx.QueryContext(ctx, `SELECT id, client_id FROM client_redirect_urls`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var redirectID, clientID uuid.UUID
		if err := rows.Scan(&redirectID, &clientID); err != nil {
			rows.Close()
			return nil, err
		}
		sets.RedirectOwners[redirectID] = clientID
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sets, nil
}

var _ Reader = (*PostgresReader)(nil)
