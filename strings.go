package datagrid

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// StringRecords converts a string table into records.
//
// If no header is passed, then the first row is used as header
// and removed from the data rows. The fields of the records
// are the header names as returned by StringFields.
// Rows may be shorter than the header,
// missing cells are set to empty strings.
// Cells beyond the header are ignored.
func StringRecords(rows [][]string, header ...string) []Record {
	if len(header) == 0 && len(rows) > 0 {
		header = rows[0]
		rows = rows[1:]
	}
	fields := StringFields(header)
	records := make([]Record, len(rows))
	for r, row := range rows {
		rec := make(Record, len(fields))
		for i, field := range fields {
			if i < len(row) {
				rec[field] = row[i]
			} else {
				rec[field] = ""
			}
		}
		records[r] = rec
	}
	return records
}

// StringFields returns unique field names for header.
// Names are trimmed, empty names are replaced with "Column N"
// and repeated names get the suffix " (N)".
func StringFields(header []string) []string {
	fields := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = "Column " + strconv.Itoa(i+1)
		}
		seen[name]++
		if n := seen[name]; n > 1 {
			name += " (" + strconv.Itoa(n) + ")"
		}
		fields[i] = name
	}
	return fields
}

// IsEmptyStringRow returns true if all cells of row are empty or whitespace.
func IsEmptyStringRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// RemoveEmptyStringRows returns rows without the rows
// that have only empty or whitespace cells.
func RemoveEmptyStringRows(rows [][]string) [][]string {
	result := rows[:0:0]
	for _, row := range rows {
		if !IsEmptyStringRow(row) {
			result = append(result, row)
		}
	}
	return result
}

// RemoveEmptyStringColumns removes the columns at the left and
// right edge of rows that have only empty or whitespace cells
// and returns the number of remaining columns.
// The rows are modified in place.
func RemoveEmptyStringColumns(rows [][]string) (numCols int) {
	left, right := -1, -1
	for _, row := range rows {
		for col, cell := range row {
			if strings.TrimSpace(cell) == "" {
				continue
			}
			if left == -1 || col < left {
				left = col
			}
			if col > right {
				right = col
			}
		}
	}
	if left == -1 {
		for i := range rows {
			rows[i] = rows[i][:0]
		}
		return 0
	}
	for i, row := range rows {
		end := min(right+1, len(row))
		if left >= end {
			rows[i] = row[:0]
			continue
		}
		rows[i] = row[left:end]
	}
	return right + 1 - left
}

// StringColumnWidths returns the display widths of the
// columns of rows as monospace cells.
// If numCols is negative, the longest row determines
// the number of columns.
func StringColumnWidths(rows [][]string, numCols int) []int {
	if numCols < 0 {
		for _, row := range rows {
			numCols = max(numCols, len(row))
		}
		if numCols <= 0 {
			return nil
		}
	}
	colWidths := make([]int, numCols)
	for _, row := range rows {
		for col := 0; col < numCols && col < len(row); col++ {
			colWidths[col] = max(colWidths[col], runewidth.StringWidth(row[col]))
		}
	}
	return colWidths
}

// RecordStrings formats records for the columns as string table
// using the FormatCell cascade with typeFormatters.
// Raw formatter results are used unchanged.
// If headerRow is true, then the column titles are the first row.
func RecordStrings(ctx context.Context, columns []*Column, records []Record, headerRow bool, typeFormatters CellFormatter, logger *slog.Logger) ([][]string, error) {
	rows := make([][]string, 0, len(records)+1)
	if headerRow {
		header := make([]string, len(columns))
		for i, col := range columns {
			header[i] = col.TitleOrField()
		}
		rows = append(rows, header)
	}
	for r, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i], _ = FormatCell(ctx, NewCell(rec, col, r), typeFormatters, logger)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
