package utils

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanRowsToMaps(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE settings (
		id INTEGER PRIMARY KEY,
		name TEXT,
		value BLOB
	)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO settings (id, name, value) VALUES
		(1, 'sslmode', 'require'),
		(2, 'connect_timeout', '10')`)
	require.NoError(t, err)

	rows, err := db.Query("SELECT id, name, value FROM settings ORDER BY id")
	require.NoError(t, err)
	defer rows.Close()

	results, err := ScanRowsToMaps(rows)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, int64(1), results[0]["id"])
	assert.Equal(t, "sslmode", results[0]["name"])
	assert.Equal(t, "require", results[0]["value"], "BLOB values come back as strings")
	assert.Equal(t, "connect_timeout", results[1]["name"])
}

func TestScanRowsToMaps_Empty(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query("SELECT 1 AS one WHERE 1 = 0")
	require.NoError(t, err)
	defer rows.Close()

	results, err := ScanRowsToMaps(rows)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRowsToMaps(t *testing.T) {
	got := RowsToMaps([]string{"a", "b"}, [][]any{{1, []byte("x")}, {2}})
	assert.Equal(t, []map[string]any{
		{"a": 1, "b": "x"},
		{"a": 2},
	}, got)
	assert.Empty(t, RowsToMaps([]string{"a"}, nil))
}
