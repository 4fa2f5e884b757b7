// Package sqltable scans database/sql query results into datagrid records.
package sqltable

import "database/sql"

var _ Rows = &sql.Rows{}

// Rows is the subset of the methods of *sql.Rows
// needed to read a result set.
//
// Usage follows *sql.Rows:
//  1. Call Next() to advance to each row
//  2. Call Scan() to read column values into variables
//  3. Call Close() when done to release resources
//  4. Call Err() to check for iteration errors
type Rows interface {
	// Columns returns the names of the columns in the result set.
	Columns() ([]string, error)

	// Scan copies the column values from the current row into the variables
	// pointed to by dest.
	Scan(dest ...any) error

	// Close closes the Rows, preventing further enumeration.
	Close() error

	// Next prepares the next result row for reading with Scan.
	Next() bool

	// Err returns the error, if any, that was encountered during iteration.
	Err() error
}
