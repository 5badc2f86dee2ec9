package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps documents in a single JSONB table keyed by
// (collection, key).
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresStore creates a PostgresStore on an open pool.
func NewPostgresStore(log *slog.Logger, pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		pool:   pool,
		logger: log.With(slog.String("service", "docstore")),
	}
}

func (s *PostgresStore) Get(ctx context.Context, collection, key string) (Document, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM documents WHERE collection = $1 AND key = $2`,
		collection, key,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, key, err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", collection, key, err)
	}
	return doc, nil
}

func (s *PostgresStore) Set(ctx context.Context, collection, key string, doc Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, key, err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO documents (collection, key, doc, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (collection, key) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`,
		collection, key, raw,
	)
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, key, err)
	}
	s.logger.Debug("document written", slog.String("collection", collection), slog.String("key", key))
	return nil
}
