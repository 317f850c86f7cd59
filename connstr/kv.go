package connstr

import (
	"strings"
	"unicode"

	"github.com/rediwo/redi-pgconf/logger"
)

// tokenize splits a whitespace-delimited keyword/value string into
// key=value tokens. Quoted spans keep their whitespace and their quote
// characters. An unterminated quote runs to the end of the input.
func tokenize(s string) []string {
	var (
		tokens  []string
		current strings.Builder
		quote   rune
		quoted  bool
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range s {
		switch {
		case quoted:
			current.WriteRune(r)
			if r == quote {
				quoted = false
			}
		case r == '\'' || r == '"':
			quoted = true
			quote = r
			current.WriteRune(r)
		case unicode.IsSpace(r):
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return tokens
}

// parseKeywordValue parses "k=v;k=v" (legacy) or "k=v k='v w'" strings.
// Values are taken literally apart from one pair of surrounding quotes.
func parseKeywordValue(s string, log logger.Logger) *Descriptor {
	var tokens []string
	if strings.Contains(s, ";") {
		tokens = strings.Split(s, ";")
	} else {
		tokens = tokenize(s)
	}

	d := NewDescriptor()
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		key, value, ok := strings.Cut(token, "=")
		if !ok {
			log.Warn("connstr: skipping %q, expected key=value", preview(token))
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			log.Warn("connstr: skipping %q, missing key before '='", preview(token))
			continue
		}

		d.Set(key, stripQuotes(strings.TrimSpace(value)))
	}
	return d
}

// stripQuotes removes one matching pair of ' or " around v.
func stripQuotes(v string) string {
	if len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if first == last && (first == '\'' || first == '"') {
			return v[1 : len(v)-1]
		}
	}
	return v
}
