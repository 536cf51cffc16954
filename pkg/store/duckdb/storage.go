package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const RunsTableSchema = `
	CREATE TABLE IF NOT EXISTS purchase_runs (
		id VARCHAR PRIMARY KEY,
		seed UBIGINT NOT NULL,
		sample_seed UBIGINT NOT NULL,
		records INTEGER NOT NULL,
		output VARCHAR,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`
const PurchasesTableSchema = `
	CREATE TABLE IF NOT EXISTS purchases (
		run_id VARCHAR NOT NULL,
		position INTEGER NOT NULL,
		segment VARCHAR NOT NULL,
		amount DOUBLE NOT NULL CHECK (amount > 0),
		heavy_tail BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (run_id, position)
	);
`

var bootQueries = []string{
	RunsTableSchema,
	PurchasesTableSchema,
}

type Settings struct {
	DbPath  string
	Threads int
}

func NewDB(settings Settings) (*sql.DB, error) {
	if settings.Threads <= 0 {
		settings.Threads = 4
	}
	dsn := fmt.Sprintf("%s?threads=%d", settings.DbPath, settings.Threads)

	c, err := duckdb.NewConnector(dsn, func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			if _, err := exec.ExecContext(context.Background(), query, nil); err != nil {
				return fmt.Errorf("boot query: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sql.OpenDB(c), nil
}
