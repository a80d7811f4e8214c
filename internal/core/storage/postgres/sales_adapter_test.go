package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	v1 "github.com/aevon-lab/slsrpt-ingest/internal/api/v1"
	"github.com/stretchr/testify/require"
)

var testPeriod = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func TestAdapter_PeriodExists(t *testing.T) {
	tests := []struct {
		name       string
		period     time.Time
		mockResult func(mock sqlmock.Sqlmock)
		want       bool
		wantErr    string
	}{
		{
			name:   "existing period",
			period: testPeriod,
			mockResult: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(queryPeriodExists)).
					WithArgs(testPeriod).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			},
			want: true,
		},
		{
			name:   "clock part is stripped before the lookup",
			period: testPeriod.Add(13*time.Hour + 5*time.Minute),
			mockResult: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(queryPeriodExists)).
					WithArgs(testPeriod).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
			},
			want: false,
		},
		{
			name:   "query error is wrapped",
			period: testPeriod,
			mockResult: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(queryPeriodExists)).
					WithArgs(testPeriod).
					WillReturnError(errors.New("connection reset"))
			},
			wantErr: "failed to check period",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			adapter, mock, db := newMockAdapter(t)
			defer db.Close()

			tc.mockResult(mock)

			got, err := adapter.PeriodExists(context.Background(), tc.period)
			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
				require.Equal(t, tc.want, got)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAdapter_SaveBatch(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	records := []v1.SalesRecord{
		{Branch: 45, Period: testPeriod, ProductCode: 7501234567890, UnitsSold: 20, UnitsReturned: 3, Net: 17},
		{Branch: 45, Period: testPeriod, ProductCode: 7501234567891, UnitsSold: 1, UnitsReturned: 4, Net: -3},
	}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta(queryInsertSale))
	for _, rec := range records {
		prep.ExpectExec().
			WithArgs(rec.Branch, testPeriod, rec.ProductCode, rec.UnitsSold, rec.UnitsReturned, rec.Net, "run-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	n, err := adapter.SaveBatch(context.Background(), "run-1", records)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_SaveBatchRollsBackOnInsertError(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	records := []v1.SalesRecord{
		{Branch: 45, Period: testPeriod, ProductCode: 1, UnitsSold: 2, Net: 2},
		{Branch: 45, Period: testPeriod, ProductCode: 2, UnitsSold: 3, Net: 3},
	}
	insertErr := errors.New("value too long")

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta(queryInsertSale))
	prep.ExpectExec().
		WithArgs(int64(45), testPeriod, int64(1), int64(2), int64(0), int64(2), "run-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().
		WithArgs(int64(45), testPeriod, int64(2), int64(3), int64(0), int64(3), "run-2").
		WillReturnError(insertErr)
	mock.ExpectRollback()

	n, err := adapter.SaveBatch(context.Background(), "run-2", records)
	require.ErrorIs(t, err, insertErr)
	require.ErrorContains(t, err, "product=2")
	require.Equal(t, int64(0), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_SaveBatchEmptyIsNoop(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	n, err := adapter.SaveBatch(context.Background(), "run-3", nil)
	require.NoError(t, err)
	require.Zero(t, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_SaveBatchRejectsInvalidRecordBeforeWriting(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	records := []v1.SalesRecord{
		{Branch: 45, Period: testPeriod, ProductCode: 1, UnitsSold: 2, Net: 2},
		{Branch: 45, Period: testPeriod, ProductCode: 2, UnitsSold: 3, Net: 1},
	}

	n, err := adapter.SaveBatch(context.Background(), "run-4", records)
	require.ErrorContains(t, err, "record 1")
	require.Zero(t, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_ListByPeriod(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	// The driver may return DATE values in a non-UTC location.
	driverDate := time.Date(2024, 1, 15, 0, 0, 0, 0, time.FixedZone("CET", 3600))

	mock.ExpectQuery(regexp.QuoteMeta(queryListByPeriod)).
		WithArgs(testPeriod).
		WillReturnRows(sqlmock.NewRows(salesRowColumns()).
			AddRow(int64(45), driverDate, int64(100), int64(5), int64(1), int64(4)).
			AddRow(int64(46), driverDate, int64(100), int64(2), int64(0), int64(2)),
		).RowsWillBeClosed()

	records, err := adapter.ListByPeriod(context.Background(), testPeriod, nil)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, int64(45), records[0].Branch)
	require.Equal(t, testPeriod, records[0].Period)
	require.Equal(t, int64(4), records[0].Net)
	require.Equal(t, int64(46), records[1].Branch)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_ListByPeriodAndBranch(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	branch := int64(46)
	mock.ExpectQuery(regexp.QuoteMeta(queryListByPeriodAndBranch)).
		WithArgs(testPeriod, branch).
		WillReturnRows(sqlmock.NewRows(salesRowColumns()).
			AddRow(int64(46), testPeriod, int64(100), int64(2), int64(0), int64(2)),
		).RowsWillBeClosed()

	records, err := adapter.ListByPeriod(context.Background(), testPeriod, &branch)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, int64(46), records[0].Branch)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_CloseReturnsDBCloseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	dbCloseErr := errors.New("db close failed")

	mock.ExpectPrepare(regexp.QuoteMeta(queryPeriodExists)).WillBeClosed()
	stmtExists, err := db.Prepare(queryPeriodExists)
	require.NoError(t, err)

	mock.ExpectPrepare(regexp.QuoteMeta(queryListByPeriod)).WillBeClosed()
	stmtList, err := db.Prepare(queryListByPeriod)
	require.NoError(t, err)

	mock.ExpectPrepare(regexp.QuoteMeta(queryListByPeriodAndBranch)).WillBeClosed()
	stmtListBranch, err := db.Prepare(queryListByPeriodAndBranch)
	require.NoError(t, err)

	mock.ExpectClose().WillReturnError(dbCloseErr)

	adapter := &Adapter{
		db:               db,
		stmtPeriodExists: stmtExists,
		stmtListByPeriod: stmtList,
		stmtListByBranch: stmtListBranch,
	}

	err = adapter.Close()
	require.Error(t, err)
	require.ErrorContains(t, err, "failed to close database")
	require.ErrorIs(t, err, dbCloseErr)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateSchema_MissingTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(queryTableExists)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	err = validateSchema(db)
	require.ErrorContains(t, err, "fact_sales table does not exist")
	require.NoError(t, mock.ExpectationsWereMet())
}

func newMockAdapter(t *testing.T) (*Adapter, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	adapter := &Adapter{
		db:               db,
		stmtPeriodExists: mustPrepareStmt(t, db, mock, queryPeriodExists),
		stmtListByPeriod: mustPrepareStmt(t, db, mock, queryListByPeriod),
		stmtListByBranch: mustPrepareStmt(t, db, mock, queryListByPeriodAndBranch),
	}

	return adapter, mock, db
}

func mustPrepareStmt(t *testing.T, db *sql.DB, mock sqlmock.Sqlmock, query string) *sql.Stmt {
	t.Helper()

	mock.ExpectPrepare(regexp.QuoteMeta(query))
	stmt, err := db.Prepare(query)
	require.NoError(t, err)

	return stmt
}

func salesRowColumns() []string {
	return []string{
		"branch",
		"period",
		"product_code",
		"units_sold",
		"units_returned",
		"net",
	}
}
