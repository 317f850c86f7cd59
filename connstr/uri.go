package connstr

import (
	"errors"
	"strconv"
	"strings"
)

// authority holds the pieces of user:password@host:port.
type authority struct {
	user     string
	password string
	host     string
	port     string
}

// parseURI extracts a Descriptor from a URI already accepted by
// ValidateURI.
func parseURI(normalized string) (*Descriptor, error) {
	rest, ok := stripScheme(normalized)
	if !ok {
		return nil, newError(UnsupportedScheme, normalized,
			"connection URI must start with %q or %q", schemePostgreSQL, schemePostgres)
	}

	main, query, _ := strings.Cut(rest, "?")
	authText, dbText, _ := strings.Cut(main, "/")

	auth, err := parseAuthority(authText, normalized)
	if err != nil {
		return nil, err
	}

	d := NewDescriptor()
	d.Set(KeyUser, auth.user)
	d.Set(KeyPassword, auth.password)
	d.Set(KeyHost, auth.host)
	d.Set(KeyPort, auth.port)
	d.Set(KeyDBName, unescape(dbText))

	parseQuery(query, d)
	return d, nil
}

// parseAuthority splits at the last '@' so that passwords may contain
// '@', then splits the user info at the first ':' so that passwords may
// contain ':'.
func parseAuthority(s, input string) (authority, error) {
	var a authority

	hostport := s
	if at := strings.LastIndexByte(s, '@'); at >= 0 {
		user, password, _ := strings.Cut(s[:at], ":")
		a.user = unescape(user)
		a.password = unescape(password)
		hostport = s[at+1:]
	}

	host, port, err := splitHostPort(hostport, input)
	if err != nil {
		return a, err
	}
	a.host = host
	a.port = port
	return a, nil
}

func splitHostPort(s, input string) (host, port string, err error) {
	if strings.HasPrefix(s, "[") {
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return "", "", newError(MalformedStructure, input,
				"IPv6 host is missing its closing ']'")
		}
		host = s[1:end]
		if host == "" {
			return "", "", newError(MalformedStructure, input,
				"IPv6 host between '[' and ']' is empty")
		}
		trailing := s[end+1:]
		switch {
		case trailing == "":
		case trailing[0] == ':':
			port = trailing[1:]
		default:
			return "", "", newError(MalformedStructure, input,
				"unexpected characters %q after IPv6 host; only ':port' may follow ']'", trailing)
		}
	} else {
		host = s
		if i := strings.LastIndexByte(s, ':'); i >= 0 {
			host, port = s[:i], s[i+1:]
		}
		host = unescape(host)
	}

	if port != "" {
		if port, err = normalizePort(port, input); err != nil {
			return "", "", err
		}
	}
	return host, port, nil
}

// normalizePort checks that p is a base-10 port number and returns its
// canonical decimal form.
func normalizePort(p, input string) (string, error) {
	n, err := strconv.ParseUint(p, 10, 16)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return "", newError(InvalidPort, input, "port %q is out of range 0-65535", p)
		}
		return "", newError(InvalidPort, input, "port %q is not a valid integer", p)
	}
	return strconv.FormatUint(n, 10), nil
}

// parseQuery layers key=value pairs onto d. Later keys win, including
// over host, port, user, password and dbname.
func parseQuery(query string, d *Descriptor) {
	if query == "" {
		return
	}
	for _, pair := range strings.Split(query, "&") {
		k, v, _ := strings.Cut(pair, "=")
		k = unescape(k)
		if k == "" {
			continue
		}
		d.Set(k, unescape(v))
	}
}

// unescape decodes %XX sequences. Malformed escapes are kept as they are
// and '+' is not treated as a space.
func unescape(s string) string {
	if strings.IndexByte(s, '%') < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && ishex(s[i+1]) && ishex(s[i+2]) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func ishex(c byte) bool {
	switch {
	case '0' <= c && c <= '9':
		return true
	case 'a' <= c && c <= 'f':
		return true
	case 'A' <= c && c <= 'F':
		return true
	}
	return false
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
