// Package database opens PostgreSQL connections from raw connection
// strings in either URI or keyword/value form.
package database

import (
	"context"
	"fmt"

	"github.com/rediwo/redi-pgconf/connstr"
	"github.com/rediwo/redi-pgconf/drivers/postgresql"
	"github.com/rediwo/redi-pgconf/registry"
	"github.com/rediwo/redi-pgconf/types"
)

// Re-export types for callers that only import database
type Connection = types.Connection
type Result = types.Result

// Open parses raw and connects with the named driver. An empty driver
// selects postgresql.DefaultDriver.
func Open(ctx context.Context, raw, driver string) (Connection, error) {
	return OpenWith(ctx, &connstr.Parser{}, raw, driver)
}

// OpenWith is Open with a caller-supplied parser, e.g. one in strict mode.
func OpenWith(ctx context.Context, parser *connstr.Parser, raw, driver string) (Connection, error) {
	d, err := parser.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	return OpenDescriptor(ctx, d, driver)
}

// OpenDescriptor connects using already parsed parameters.
func OpenDescriptor(ctx context.Context, d *connstr.Descriptor, driver string) (Connection, error) {
	if driver == "" {
		driver = postgresql.DefaultDriver
	}

	connect, err := registry.Get(driver)
	if err != nil {
		return nil, err
	}

	return connect(ctx, d)
}
