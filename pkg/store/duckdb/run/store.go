package run

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/de-tools/purchase-atlas/pkg/models/store"
	"github.com/de-tools/purchase-atlas/pkg/store/duckdb"
)

var ErrNotFound = errors.New("run not found")

type Store interface {
	Create(ctx context.Context, run store.Run) error
	Get(ctx context.Context, id string) (*store.Run, error)
	List(ctx context.Context, limit int) ([]store.Run, error)
}

type runStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &runStore{db: db}, nil
}

func (s *runStore) Create(ctx context.Context, run store.Run) error {
	if run.ID == "" {
		return fmt.Errorf("run id is required")
	}
	_, err := duckdb.Conn(ctx, s.db).ExecContext(ctx,
		`INSERT INTO purchase_runs (id, seed, sample_seed, records, output, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Seed, run.SampleSeed, run.Records, run.Output, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (s *runStore) Get(ctx context.Context, id string) (*store.Run, error) {
	row := duckdb.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT id, seed, sample_seed, records, output, created_at FROM purchase_runs WHERE id = ?`, id)

	var run store.Run
	if err := row.Scan(&run.ID, &run.Seed, &run.SampleSeed, &run.Records, &run.Output, &run.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get run: %w", err)
	}
	return &run, nil
}

func (s *runStore) List(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx,
		`SELECT id, seed, sample_seed, records, output, created_at FROM purchase_runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]store.Run, 0)
	for rows.Next() {
		var run store.Run
		if err := rows.Scan(&run.ID, &run.Seed, &run.SampleSeed, &run.Records, &run.Output, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
