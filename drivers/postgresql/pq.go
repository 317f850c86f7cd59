package postgresql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/rediwo/redi-pgconf/connstr"
	"github.com/rediwo/redi-pgconf/logger"
	"github.com/rediwo/redi-pgconf/types"
	"github.com/rediwo/redi-pgconf/utils"
)

// PQConnection is a database/sql pool using the lib/pq driver
type PQConnection struct {
	db *sql.DB
}

// OpenPQ opens a lib/pq pool for d and verifies it with a ping.
func OpenPQ(ctx context.Context, d *connstr.Descriptor) (types.Connection, error) {
	connector, err := pq.NewConnector(d.String())
	if err != nil {
		return nil, fmt.Errorf("invalid connection parameters: %w", err)
	}

	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", d.Redacted(), err)
	}

	logger.Debug("pq: connected to %s", d.Redacted())
	return &PQConnection{db: db}, nil
}

// DB exposes the underlying pool
func (c *PQConnection) DB() *sql.DB {
	return c.db
}

func (c *PQConnection) Driver() string {
	return DriverPQ
}

// Exec executes the statement and returns the result
func (c *PQConnection) Exec(ctx context.Context, query string, args ...any) (types.Result, error) {
	result, err := c.db.ExecContext(ctx, utils.ConvertPlaceholders(query), args...)
	if err != nil {
		return types.Result{}, fmt.Errorf("failed to execute query: %w", err)
	}

	// lib/pq has no LastInsertId; use RETURNING instead.
	rowsAffected, _ := result.RowsAffected()
	return types.Result{RowsAffected: rowsAffected}, nil
}

// Query executes the statement and returns all rows
func (c *PQConnection) Query(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	rows, err := c.db.QueryContext(ctx, utils.ConvertPlaceholders(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	return utils.ScanRowsToMaps(rows)
}

func (c *PQConnection) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *PQConnection) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
