package run

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/purchase-atlas/pkg/models/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store Store
	mock  sqlmock.Sqlmock
}

func setupFixture(t *testing.T) *fixture {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s, err := NewStore(db)
	require.NoError(t, err)
	return &fixture{store: s, mock: mock}
}

var columns = []string{"id", "seed", "sample_seed", "records", "output", "created_at"}

func TestNewStore(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := setupFixture(t)
		assert.NotNil(t, f.store)
	})

	t.Run("nil db", func(t *testing.T) {
		s, err := NewStore(nil)
		assert.Error(t, err)
		assert.Nil(t, s)
	})
}

func TestStore_Create(t *testing.T) {
	f := setupFixture(t)
	created := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	run := store.Run{ID: "run-1", Seed: 42, SampleSeed: 1, Records: 1200, Output: "chart.png", CreatedAt: created}

	f.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO purchase_runs")).
		WithArgs("run-1", uint64(42), uint64(1), 1200, "chart.png", created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, f.store.Create(context.Background(), run))
	assert.NoError(t, f.mock.ExpectationsWereMet())

	assert.Error(t, f.store.Create(context.Background(), store.Run{}))
}

func TestStore_Get(t *testing.T) {
	created := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		f := setupFixture(t)
		f.mock.ExpectQuery(regexp.QuoteMeta("FROM purchase_runs WHERE id = ?")).
			WithArgs("run-1").
			WillReturnRows(sqlmock.NewRows(columns).AddRow("run-1", 42, 1, 1200, "chart.png", created))

		got, err := f.store.Get(context.Background(), "run-1")

		require.NoError(t, err)
		assert.Equal(t, &store.Run{ID: "run-1", Seed: 42, SampleSeed: 1, Records: 1200, Output: "chart.png", CreatedAt: created}, got)
	})

	t.Run("missing", func(t *testing.T) {
		f := setupFixture(t)
		f.mock.ExpectQuery(regexp.QuoteMeta("FROM purchase_runs WHERE id = ?")).
			WithArgs("nope").
			WillReturnError(sql.ErrNoRows)

		_, err := f.store.Get(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_List(t *testing.T) {
	f := setupFixture(t)
	created := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	f.mock.ExpectQuery(regexp.QuoteMeta("FROM purchase_runs ORDER BY created_at DESC LIMIT ?")).
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("run-2", 7, 1, 10, "b.png", created.Add(time.Hour)).
			AddRow("run-1", 42, 1, 1200, "a.png", created))

	runs, err := f.store.List(context.Background(), 0)

	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, uint64(42), runs[1].Seed)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}
