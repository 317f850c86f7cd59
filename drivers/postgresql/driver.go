// Package postgresql registers connectors that open PostgreSQL
// connections straight from a parsed connection descriptor.
//
//	import _ "github.com/rediwo/redi-pgconf/drivers/postgresql"
//
// Two connectors are available: "pq" (lib/pq through database/sql) and
// "pgx" (a native pgx connection).
package postgresql

import (
	"github.com/rediwo/redi-pgconf/registry"
)

const (
	// DriverPQ is the lib/pq connector name
	DriverPQ = "pq"
	// DriverPGX is the pgx connector name
	DriverPGX = "pgx"
	// DefaultDriver is used when no driver is configured
	DefaultDriver = DriverPQ
)

func init() {
	registry.Register(DriverPQ, OpenPQ)
	registry.Register(DriverPGX, OpenPGX)
}
