package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rentmap/internal/models"
)

// sessionKey is the fixed key the single record lives under.
const sessionKey = "device-session"

// PostgresStore keeps the session record as one JSONB row keyed by
// sessionKey.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed store on the given pool.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the sessions table if it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	sql := `
		CREATE TABLE IF NOT EXISTS sessions (
			key TEXT PRIMARY KEY,
			record JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	if _, err := s.db.Exec(ctx, sql); err != nil {
		return fmt.Errorf("repository: create sessions table: %w", err)
	}
	return nil
}

// Load reads the record. No row is (nil, nil); a row that fails to decode is
// an error, which callers treat as logged-out.
func (s *PostgresStore) Load(ctx context.Context) (*models.SessionRecord, error) {
	var data []byte
	err := s.db.QueryRow(ctx, `SELECT record FROM sessions WHERE key = $1`, sessionKey).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repository: load session record: %w", err)
	}

	var rec models.SessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("repository: decode session record: %w", err)
	}
	return &rec, nil
}

// Save upserts the record under the fixed key.
func (s *PostgresStore) Save(ctx context.Context, rec models.SessionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("repository: encode session record: %w", err)
	}

	sql := `
		INSERT INTO sessions (key, record, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET record = EXCLUDED.record, updated_at = now()
	`
	if _, err := s.db.Exec(ctx, sql, sessionKey, data); err != nil {
		return fmt.Errorf("repository: save session record: %w", err)
	}
	return nil
}

// Delete removes the record. Deleting an absent record is not an error.
func (s *PostgresStore) Delete(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE key = $1`, sessionKey); err != nil {
		return fmt.Errorf("repository: delete session record: %w", err)
	}
	return nil
}
