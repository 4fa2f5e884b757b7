package sqltable

import (
	"context"
	"database/sql"
	"errors"

	"github.com/domonda/go-datagrid"
)

// ScanRecords reads all rows into records with the column names
// of the result set as fields and closes rows.
//
// []byte values are converted to strings because records hold
// strings, numbers, booleans, times or nil.
// Already scanned records are returned together with a scan error.
func ScanRecords(ctx context.Context, rows Rows) (columns []string, records []datagrid.Record, err error) {
	defer func() {
		err = errors.Join(err, rows.Close())
	}()

	columns, err = rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	records = []datagrid.Record{}
	scannedValues := make([]any, len(columns))
	valueScanners := make([]any, len(columns))
	for i := range valueScanners {
		valueScanners[i] = valueScanner{&scannedValues[i]}
	}
	for rows.Next() {
		if ctx.Err() != nil {
			return columns, records, ctx.Err()
		}
		err = rows.Scan(valueScanners...)
		if err != nil {
			return columns, records, err
		}
		rec := make(datagrid.Record, len(columns))
		for i, col := range columns {
			rec[col] = scannedValues[i]
		}
		records = append(records, rec)
	}
	return columns, records, rows.Err()
}

// QueryRecords executes query with args on db and scans
// the result with ScanRecords.
func QueryRecords(ctx context.Context, db *sql.DB, query string, args ...any) (columns []string, records []datagrid.Record, err error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	return ScanRecords(ctx, rows)
}

var _ sql.Scanner = new(valueScanner)

type valueScanner struct {
	dest *any
}

// Scan implements the database/sql.Scanner interface.
func (s valueScanner) Scan(src any) error {
	if b, ok := src.([]byte); ok {
		// Bytes won't be valid after this method call
		src = string(b)
	}
	*s.dest = src
	return nil
}
