package purchase

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/purchase-atlas/pkg/models/store"
	"github.com/de-tools/purchase-atlas/pkg/store/duckdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s, err := NewStore(db)
	require.NoError(t, err)
	return s, mock
}

func TestNewStore_NilDB(t *testing.T) {
	s, err := NewStore(nil)
	assert.Error(t, err)
	assert.Nil(t, s)
}

func TestStore_Add(t *testing.T) {
	// Given
	s, mock := setup(t)
	records := []store.Purchase{
		{Position: 0, Segment: "Low value", Amount: 20.09},
		{Position: 1, Segment: "Low value", Amount: 310.5, HeavyTail: true},
	}

	prep := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO purchases"))
	prep.ExpectExec().WithArgs("run-1", 0, "Low value", 20.09, false).WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WithArgs("run-1", 1, "Low value", 310.5, true).WillReturnResult(sqlmock.NewResult(0, 1))

	// When
	err := s.Add(context.Background(), "run-1", records)

	// Then
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Add_UsesTransactionFromContext(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s, err := NewStore(db)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO purchases")).
		ExpectExec().WithArgs("run-1", 0, "Mid value", 66.7, false).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = duckdb.InTx(context.Background(), db, func(ctx context.Context) error {
		return s.Add(ctx, "run-1", []store.Purchase{{Position: 0, Segment: "Mid value", Amount: 66.7}})
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Add_EmptyAndInvalid(t *testing.T) {
	s, mock := setup(t)

	assert.NoError(t, s.Add(context.Background(), "run-1", nil))
	assert.Error(t, s.Add(context.Background(), "", []store.Purchase{{}}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_List(t *testing.T) {
	s, mock := setup(t)

	rows := sqlmock.NewRows([]string{"position", "segment", "amount", "heavy_tail"}).
		AddRow(0, "Low value", 20.09, false).
		AddRow(1, "High value", 1520.33, true)
	mock.ExpectQuery(regexp.QuoteMeta("FROM purchases")).WithArgs("run-1").WillReturnRows(rows)

	got, err := s.List(context.Background(), "run-1")

	require.NoError(t, err)
	assert.Equal(t, []store.Purchase{
		{RunID: "run-1", Position: 0, Segment: "Low value", Amount: 20.09},
		{RunID: "run-1", Position: 1, Segment: "High value", Amount: 1520.33, HeavyTail: true},
	}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SegmentMedians(t *testing.T) {
	s, mock := setup(t)

	rows := sqlmock.NewRows([]string{"segment", "median"}).
		AddRow("Low value", 20.1).
		AddRow("High value", 148.4)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT segment, median(amount)")).WithArgs("run-1").WillReturnRows(rows)

	got, err := s.SegmentMedians(context.Background(), "run-1")

	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Low value": 20.1, "High value": 148.4}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
