package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/amoghlakshman/cafe-insights/internal/core/domain"
)

// PredictionRepository is the audit log of served predictions.
type PredictionRepository struct {
	db *sql.DB
}

func NewPredictionRepository(db *sql.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *PredictionRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026052801)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS predictions (
	id TEXT PRIMARY KEY,
	probability DOUBLE PRECISION NOT NULL,
	tier TEXT NOT NULL,
	persona TEXT NOT NULL,
	source TEXT NOT NULL,
	record JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_predictions_tier ON predictions(tier);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *PredictionRepository) Insert(ctx context.Context, event domain.PredictionEvent) error {
	recordJSON, err := json.Marshal(event.Record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO predictions (id, probability, tier, persona, source, record, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO NOTHING
`,
		event.ID, event.Probability, string(event.Tier), event.Persona, string(event.Source), recordJSON, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert prediction: %w", err)
	}
	return nil
}

func (r *PredictionRepository) ListRecent(ctx context.Context, limit int) ([]domain.PredictionEvent, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT id, probability, tier, persona, source, record, created_at
FROM predictions
ORDER BY created_at DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query predictions: %w", err)
	}
	defer rows.Close()

	events := make([]domain.PredictionEvent, 0, limit)
	for rows.Next() {
		var (
			event     domain.PredictionEvent
			tier      string
			source    string
			recordRaw []byte
		)
		if err := rows.Scan(&event.ID, &event.Probability, &tier, &event.Persona, &source, &recordRaw, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		if err := json.Unmarshal(recordRaw, &event.Record); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		event.Tier = domain.Tier(tier)
		event.Source = domain.PredictionSource(source)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate predictions: %w", err)
	}
	return events, nil
}
