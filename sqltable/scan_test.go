package sqltable

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domonda/go-datagrid"
)

func TestQueryRecords(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, uf, active FROM sales").
		WithArgs("SP").
		WillReturnRows(sqlmock.NewRows([]string{"id", "uf", "active"}).
			AddRow(int64(1), []byte("SP"), true).
			AddRow(int64(2), "SP", nil))

	columns, records, err := QueryRecords(context.Background(), db, "SELECT id, uf, active FROM sales WHERE uf = $1", "SP")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "uf", "active"}, columns)
	assert.Equal(t, []datagrid.Record{
		{"id": int64(1), "uf": "SP", "active": true},
		{"id": int64(2), "uf": "SP", "active": nil},
	}, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScanRecords(t *testing.T) {
	tests := []struct {
		name        string
		rows        *sqlmock.Rows
		wantRecords []datagrid.Record
		wantErr     bool
	}{
		{
			name:        "no rows",
			rows:        sqlmock.NewRows([]string{"a"}),
			wantRecords: []datagrid.Record{},
		},
		{
			name: "row error keeps scanned records",
			rows: sqlmock.NewRows([]string{"a"}).
				AddRow("x").
				AddRow("y").
				RowError(1, errors.New("broken row")),
			wantRecords: []datagrid.Record{{"a": "x"}},
			wantErr:     true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			mock.ExpectQuery("SELECT").WillReturnRows(tt.rows)

			rows, err := db.Query("SELECT a FROM t")
			require.NoError(t, err)
			_, records, err := ScanRecords(context.Background(), rows)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantRecords, records)
		})
	}
}

func TestScanRecordsCanceled(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"a"}).AddRow("x"))

	rows, err := db.Query("SELECT a FROM t")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, records, err := ScanRecords(ctx, rows)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, records)
}

func TestQueryRecordsError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectQuery("SELECT").WillReturnError(errors.New("no such table"))

	_, _, err = QueryRecords(context.Background(), db, "SELECT * FROM missing")
	assert.EqualError(t, err, "no such table")
}
