package history

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// PostgresStore implements Store using PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

var _ Store = (*PostgresStore)(nil)

// OpenPostgres connects to url, checks the connection and applies pending
// migrations.
func OpenPostgres(ctx context.Context, url string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	store := NewPostgresStore(db)
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// NewMigrationProvider returns a goose provider over the embedded migrations.
func NewMigrationProvider(db *sql.DB, opts ...goose.ProviderOption) (*goose.Provider, error) {
	fsys, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return nil, err
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys, opts...)
	if err != nil {
		return nil, fmt.Errorf("migration provider: %w", err)
	}
	return provider, nil
}

// Migrate applies pending migrations.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	provider, err := NewMigrationProvider(p.db)
	if err != nil {
		return err
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (p *PostgresStore) Close() error {
	return p.db.Close()
}

// Insert writes records in a single transaction.
func (p *PostgresStore) Insert(ctx context.Context, records []Record) (err error) {
	if len(records) == 0 {
		return nil
	}
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO predictions (id, request_id, features, prediction, probability, model_tag, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err = stmt.ExecContext(ctx,
			r.ID, r.RequestID, pq.Array(r.Features), r.Prediction, r.Probability, r.ModelTag, r.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert prediction %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// List returns the newest records first.
func (p *PostgresStore) List(ctx context.Context, limit int) ([]Record, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, request_id, features, prediction, probability, model_tag, created_at
		FROM predictions
		ORDER BY created_at DESC
		LIMIT $1
	`, ClampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var r Record
		if err := rows.Scan(
			&r.ID, &r.RequestID, pq.Array(&r.Features), &r.Prediction, &r.Probability, &r.ModelTag, &r.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (p *PostgresStore) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := p.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE prediction = 1),
		       COUNT(*) FILTER (WHERE prediction = 0),
		       COALESCE(AVG(probability), 0)
		FROM predictions
	`).Scan(&s.Total, &s.FraudDetected, &s.Legitimate, &s.MeanProbability)
	return s, err
}
