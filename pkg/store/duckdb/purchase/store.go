package purchase

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/purchase-atlas/pkg/models/store"
	"github.com/de-tools/purchase-atlas/pkg/store/duckdb"
)

// Store persists generated purchases, keyed by run.
type Store interface {
	Add(ctx context.Context, runID string, records []store.Purchase) error
	List(ctx context.Context, runID string) ([]store.Purchase, error)
	SegmentMedians(ctx context.Context, runID string) (map[string]float64, error)
}

type purchaseStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &purchaseStore{db: db}, nil
}

func (s *purchaseStore) Add(ctx context.Context, runID string, records []store.Purchase) error {
	if runID == "" {
		return fmt.Errorf("run id is required")
	}
	if len(records) == 0 {
		return nil
	}

	query := `
		INSERT INTO purchases (run_id, position, segment, amount, heavy_tail)
		VALUES (?, ?, ?, ?, ?)`

	stmt, err := duckdb.Conn(ctx, s.db).PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		_, err = stmt.ExecContext(ctx,
			runID,
			record.Position,
			record.Segment,
			record.Amount,
			record.HeavyTail,
		)
		if err != nil {
			return fmt.Errorf("insert purchase %d: %w", record.Position, err)
		}
	}

	return nil
}

func (s *purchaseStore) List(ctx context.Context, runID string) ([]store.Purchase, error) {
	query := `
		SELECT position, segment, amount, heavy_tail
		FROM purchases
		WHERE run_id = ?
		ORDER BY position
	`
	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query purchases: %w", err)
	}
	defer rows.Close()

	records := make([]store.Purchase, 0)
	for rows.Next() {
		p := store.Purchase{RunID: runID}
		if err := rows.Scan(&p.Position, &p.Segment, &p.Amount, &p.HeavyTail); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		records = append(records, p)
	}
	return records, rows.Err()
}

func (s *purchaseStore) SegmentMedians(ctx context.Context, runID string) (map[string]float64, error) {
	query := `
		SELECT segment, median(amount)
		FROM purchases
		WHERE run_id = ?
		GROUP BY segment
	`
	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query segment medians: %w", err)
	}
	defer rows.Close()

	medians := make(map[string]float64)
	for rows.Next() {
		var (
			segment string
			median  float64
		)
		if err := rows.Scan(&segment, &median); err != nil {
			return nil, fmt.Errorf("scan segment median: %w", err)
		}
		medians[segment] = median
	}
	return medians, rows.Err()
}
