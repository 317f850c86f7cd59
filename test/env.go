// Package test holds helpers shared by the integration tests.
package test

import (
	"fmt"
	"net/url"
	"os"
	"testing"
)

// EnvPostgresHost enables the PostgreSQL integration tests when set
const EnvPostgresHost = "POSTGRES_TEST_HOST"

// GetEnvOrDefault returns environment variable value or default
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// PostgresDSN builds a postgresql:// URI from the POSTGRES_TEST_* variables.
func PostgresDSN() string {
	host := GetEnvOrDefault(EnvPostgresHost, "localhost")
	port := GetEnvOrDefault("POSTGRES_TEST_PORT", "5432")
	user := GetEnvOrDefault("POSTGRES_TEST_USER", "testuser")
	password := GetEnvOrDefault("POSTGRES_TEST_PASSWORD", "testpass")
	database := GetEnvOrDefault("POSTGRES_TEST_DATABASE", "testdb")

	return fmt.Sprintf("postgresql://%s@%s:%s/%s?sslmode=disable",
		url.UserPassword(user, password).String(), host, port, url.PathEscape(database))
}

// RequirePostgres skips t unless a PostgreSQL server is configured.
func RequirePostgres(t testing.TB) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PostgreSQL integration test in short mode")
	}
	if os.Getenv(EnvPostgresHost) == "" {
		t.Skipf("%s not set", EnvPostgresHost)
	}
}
