package connstr

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// percentEncode escapes every byte outside the unreserved set.
func percentEncode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') ||
			c == '-' || c == '_' || c == '.' || c == '~' {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}

func mustParseURI(t *testing.T, uri string) *Descriptor {
	t.Helper()
	normalized, err := ValidateURI(uri)
	require.NoError(t, err)
	d, err := parseURI(normalized)
	require.NoError(t, err)
	return d
}

func TestParseURI_ExactKeys(t *testing.T) {
	d := mustParseURI(t, "postgresql://u:p@h:5432/d")
	assert.Equal(t, []string{"user", "password", "host", "port", "dbname"}, d.Keys())
	assert.Equal(t, map[string]string{
		"user": "u", "password": "p", "host": "h", "port": "5432", "dbname": "d",
	}, d.Map())
}

func TestParseURI_Authority(t *testing.T) {
	testCases := []struct {
		name     string
		uri      string
		expected map[string]string
	}{
		{
			name:     "host only",
			uri:      "postgresql://localhost/app",
			expected: map[string]string{"host": "localhost", "dbname": "app"},
		},
		{
			name:     "user without password",
			uri:      "postgresql://bob@localhost/app",
			expected: map[string]string{"user": "bob", "host": "localhost", "dbname": "app"},
		},
		{
			name:     "password containing colons",
			uri:      "postgresql://bob:a:b:c@localhost/app",
			expected: map[string]string{"user": "bob", "password": "a:b:c", "host": "localhost", "dbname": "app"},
		},
		{
			name:     "password containing a raw @",
			uri:      "postgresql://bob:p@ss@localhost:6432/app",
			expected: map[string]string{"user": "bob", "password": "p@ss", "host": "localhost", "port": "6432", "dbname": "app"},
		},
		{
			name:     "empty password is absent",
			uri:      "postgresql://bob:@localhost/app",
			expected: map[string]string{"user": "bob", "host": "localhost", "dbname": "app"},
		},
		{
			name:     "trailing colon has no port",
			uri:      "postgresql://localhost:/app",
			expected: map[string]string{"host": "localhost", "dbname": "app"},
		},
		{
			name:     "IPv6 without port",
			uri:      "postgresql://[::1]/app",
			expected: map[string]string{"host": "::1", "dbname": "app"},
		},
		{
			name:     "IPv6 with zone is not decoded",
			uri:      "postgresql://[fe80::1%25eth0]:5433/app",
			expected: map[string]string{"host": "fe80::1%25eth0", "port": "5433", "dbname": "app"},
		},
		{
			name:     "database keeps slashes",
			uri:      "postgresql://localhost/a/b%2Fc",
			expected: map[string]string{"host": "localhost", "dbname": "a/b/c"},
		},
		{
			name:     "unix socket directory in host",
			uri:      "postgresql://%2Fvar%2Frun%2Fpostgresql/app",
			expected: map[string]string{"host": "/var/run/postgresql", "dbname": "app"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := mustParseURI(t, tc.uri)
			assert.Equal(t, tc.expected, d.Map())
		})
	}
}

func TestParseURI_IPv6Errors(t *testing.T) {
	testCases := []struct {
		uri         string
		kind        ErrorKind
		errContains string
	}{
		{"postgresql://u@[2001:db8::1/db", MalformedStructure, "closing ']'"},
		{"postgresql://u@[2001:db8::1]x/db", MalformedStructure, "after IPv6 host"},
		{"postgresql://u@[]:5432/db", MalformedStructure, "empty"},
		{"postgresql://u@[::1]:port/db", InvalidPort, "not a valid integer"},
	}

	for _, tc := range testCases {
		t.Run(tc.uri, func(t *testing.T) {
			_, err := Parse(tc.uri)
			require.Error(t, err)
			assert.ErrorIs(t, err, &Error{Kind: tc.kind})
			assert.Contains(t, err.Error(), tc.errContains)
		})
	}
}

func TestParseURI_Query(t *testing.T) {
	d := mustParseURI(t, "postgresql://u@h/d?options=-c%20search_path%3Dapp&application_name=a?b&=skipped&empty=&x=1=2")
	assert.Equal(t, "-c search_path=app", d.Get("options"))
	assert.Equal(t, "a?b", d.Get("application_name"))
	assert.Equal(t, "1=2", d.Get("x"))
	_, hasEmpty := d.Lookup("empty")
	assert.False(t, hasEmpty)
	_, hasBlank := d.Lookup("")
	assert.False(t, hasBlank)
}

func TestParseURI_QueryOverridesCoreFields(t *testing.T) {
	d := mustParseURI(t, "postgresql://u:p@h:5432/d?host=other&dbname=x&user=v&sslmode=a&sslmode=b")
	assert.Equal(t, "other", d.Get("host"))
	assert.Equal(t, "x", d.Get("dbname"))
	assert.Equal(t, "v", d.Get("user"))
	assert.Equal(t, "p", d.Get("password"))
	assert.Equal(t, "b", d.Get("sslmode"))
	assert.Equal(t, []string{"user", "password", "host", "port", "dbname", "sslmode"}, d.Keys())
}

func TestParseURI_PercentRoundTrip(t *testing.T) {
	values := []string{
		"p@ss:w/rd",
		"with space",
		"ümlaut?&=#%",
		"@:/ ",
	}

	for _, v := range values {
		t.Run(v, func(t *testing.T) {
			enc := percentEncode(v)
			uri := fmt.Sprintf("postgresql://%s:%s@%s/%s?%s=%s", enc, enc, "localhost", enc, "application_name", enc)
			d, err := Parse(uri)
			require.NoError(t, err)
			assert.Equal(t, v, d.Get("user"))
			assert.Equal(t, v, d.Get("password"))
			assert.Equal(t, v, d.Get("dbname"))
			assert.Equal(t, v, d.Get("application_name"))
		})
	}
}

func TestUnescape(t *testing.T) {
	assert.Equal(t, "plain", unescape("plain"))
	assert.Equal(t, "a b", unescape("a%20b"))
	assert.Equal(t, "A", unescape("%41"))
	assert.Equal(t, "a+b", unescape("a+b"))
	assert.Equal(t, "100%", unescape("100%"))
	assert.Equal(t, "%zz", unescape("%zz"))
	assert.Equal(t, "%4", unescape("%4"))
	assert.Equal(t, "é", unescape("%C3%A9"))
}
