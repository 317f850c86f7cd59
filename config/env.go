package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variables consulted by ResolveDSN, in order.
const (
	EnvDSN         = "PGCONF_DSN"
	EnvDatabaseURL = "DATABASE_URL"
)

// Config keys used by the CLI.
const (
	KeyDSN      = "database.dsn"
	KeyDriver   = "database.driver"
	KeyLogLevel = "log.level"
	KeyLogFile  = "log.file"
)

// LoadEnv loads .env files into the process environment. Missing files
// are skipped and variables that are already set are left alone.
func LoadEnv(paths ...string) error {
	for _, p := range paths {
		if !Exists(p) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return err
		}
	}
	return nil
}

// ResolveDSN picks the connection string to use: the explicit flag value,
// then $PGCONF_DSN, then $DATABASE_URL, then database.dsn from store. The
// second result names the source, or is empty if nothing was found.
func ResolveDSN(flagValue string, store Store) (string, string) {
	if flagValue != "" {
		return flagValue, "flag"
	}
	for _, env := range []string{EnvDSN, EnvDatabaseURL} {
		if v := os.Getenv(env); v != "" {
			return v, "$" + env
		}
	}
	if store != nil {
		if v, ok := store.Get(KeyDSN); ok && v != "" {
			return v, KeyDSN
		}
	}
	return "", ""
}
