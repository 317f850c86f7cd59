package utils

import (
	"database/sql"
	"fmt"
)

// ScanRowsToMaps scans SQL rows into a slice of maps keyed by column name.
// []byte values are converted to strings.
func ScanRowsToMaps(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	var results []map[string]any

	values := make([]any, len(columns))
	valuePtrs := make([]any, len(columns))
	for i := range values {
		valuePtrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		rowMap := make(map[string]any, len(columns))
		for i, col := range columns {
			rowMap[col] = normalizeValue(values[i])
		}
		results = append(results, rowMap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}

// RowsToMaps zips column names with row values as returned by drivers
// that expose values directly (pgx).
func RowsToMaps(columns []string, rows [][]any) []map[string]any {
	results := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		rowMap := make(map[string]any, len(columns))
		for i, col := range columns {
			if i < len(row) {
				rowMap[col] = normalizeValue(row[i])
			}
		}
		results = append(results, rowMap)
	}
	return results
}

func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
