package types

import (
	"context"

	"github.com/rediwo/redi-pgconf/connstr"
)

// Result reports the outcome of a statement executed with Exec
type Result struct {
	LastInsertID int64
	RowsAffected int64
}

// Connection is an open database connection created from a parsed
// connection string. It is owned by its creator until Close.
type Connection interface {
	// Exec runs a statement. Arguments use ? placeholders.
	Exec(ctx context.Context, query string, args ...any) (Result, error)

	// Query runs a statement and returns every row as a column -> value map.
	Query(ctx context.Context, query string, args ...any) ([]map[string]any, error)

	Ping(ctx context.Context) error
	Close() error

	// Driver returns the name the connector was registered under
	Driver() string
}

// Connector opens a Connection using the parameters in d.
type Connector func(ctx context.Context, d *connstr.Descriptor) (Connection, error)
