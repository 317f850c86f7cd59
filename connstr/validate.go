package connstr

import (
	"strings"
	"unicode"
)

const (
	schemePostgres   = "postgres://"
	schemePostgreSQL = "postgresql://"
)

// IsURI reports whether raw uses the postgres:// or postgresql:// scheme.
// The match is case-insensitive.
func IsURI(raw string) bool {
	_, ok := stripScheme(strings.TrimSpace(raw))
	return ok
}

// HasScheme reports whether raw starts with any scheme:// prefix, such as
// mysql://. Keyword/value strings whose values hold URLs do not count.
func HasScheme(raw string) bool {
	s := strings.TrimSpace(raw)
	if end := strings.IndexFunc(s, func(r rune) bool {
		return r == '=' || unicode.IsSpace(r)
	}); end >= 0 {
		s = s[:end]
	}
	return strings.Index(s, "://") > 0
}

// stripScheme returns s without its scheme prefix.
func stripScheme(s string) (string, bool) {
	for _, scheme := range []string{schemePostgreSQL, schemePostgres} {
		if len(s) >= len(scheme) && strings.EqualFold(s[:len(scheme)], scheme) {
			return s[len(scheme):], true
		}
	}
	return "", false
}

// ValidateURI checks the structure of a connection URI and returns it with
// the scheme normalized to postgresql://. Checks run in a fixed order and
// the first violation is returned.
func ValidateURI(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", newError(EmptyInput, raw, "connection string is empty")
	}

	rest, ok := stripScheme(s)
	if !ok {
		return "", newError(UnsupportedScheme, s,
			"connection URI must start with %q or %q", schemePostgreSQL, schemePostgres)
	}
	normalized := schemePostgreSQL + rest

	if strings.IndexFunc(normalized, unicode.IsSpace) >= 0 {
		return "", newError(EmbeddedWhitespace, normalized,
			"connection URI must not contain whitespace; percent-encode it as %%20")
	}

	// The query string never contributes to the path.
	main, _, _ := strings.Cut(rest, "?")

	authority, database, found := strings.Cut(main, "/")
	if !found {
		return "", newError(MalformedStructure, normalized,
			"connection URI must include a '/{database}' segment")
	}
	if database == "" {
		return "", newError(MalformedStructure, normalized,
			"connection URI must include a database name after '/'")
	}
	if authority == "" {
		return "", newError(MalformedStructure, normalized,
			"connection URI must include a host before '/{database}'")
	}

	if at := strings.LastIndexByte(authority, '@'); at >= 0 {
		if authority[:at] == "" {
			return "", newError(MalformedStructure, normalized,
				"connection URI must include a user name before '@'")
		}
		if authority[at+1:] == "" {
			return "", newError(MalformedStructure, normalized,
				"connection URI must include a host after '@'")
		}
	}

	return normalized, nil
}
