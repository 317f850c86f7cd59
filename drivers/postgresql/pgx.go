package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rediwo/redi-pgconf/connstr"
	"github.com/rediwo/redi-pgconf/logger"
	"github.com/rediwo/redi-pgconf/types"
	"github.com/rediwo/redi-pgconf/utils"
)

// PGXConnection is a single native pgx connection
type PGXConnection struct {
	conn *pgx.Conn
}

// ConfigFor builds a pgx config from d. pgx fills in anything d leaves
// out from PG* environment variables and libpq defaults.
func ConfigFor(d *connstr.Descriptor) (*pgx.ConnConfig, error) {
	cfg, err := pgx.ParseConfig(d.String())
	if err != nil {
		return nil, fmt.Errorf("invalid connection parameters: %w", err)
	}
	return cfg, nil
}

// OpenPGX connects with pgx using the parameters in d.
func OpenPGX(ctx context.Context, d *connstr.Descriptor) (types.Connection, error) {
	cfg, err := ConfigFor(d)
	if err != nil {
		return nil, err
	}

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", d.Redacted(), err)
	}

	logger.Debug("pgx: connected to %s", d.Redacted())
	return &PGXConnection{conn: conn}, nil
}

// Conn exposes the underlying pgx connection
func (c *PGXConnection) Conn() *pgx.Conn {
	return c.conn
}

func (c *PGXConnection) Driver() string {
	return DriverPGX
}

// Exec executes the statement and returns the result
func (c *PGXConnection) Exec(ctx context.Context, query string, args ...any) (types.Result, error) {
	tag, err := c.conn.Exec(ctx, utils.ConvertPlaceholders(query), args...)
	if err != nil {
		return types.Result{}, fmt.Errorf("failed to execute query: %w", err)
	}
	return types.Result{RowsAffected: tag.RowsAffected()}, nil
}

// Query executes the statement and returns all rows
func (c *PGXConnection) Query(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	rows, err := c.conn.Query(ctx, utils.ConvertPlaceholders(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	var values [][]any
	for rows.Next() {
		row, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		values = append(values, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return utils.RowsToMaps(columns, values), nil
}

func (c *PGXConnection) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

func (c *PGXConnection) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close(context.Background())
}
