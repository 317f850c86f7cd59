package connstr

// Core descriptor keys.
const (
	KeyHost     = "host"
	KeyPort     = "port"
	KeyDBName   = "dbname"
	KeyUser     = "user"
	KeyPassword = "password"
)

// KnownParameters is the set of libpq connection keywords. Keys outside
// this set are passed through unchanged; a Parser only warns about them.
var KnownParameters = map[string]struct{}{
	"host":                      {},
	"hostaddr":                  {},
	"port":                      {},
	"dbname":                    {},
	"user":                      {},
	"password":                  {},
	"passfile":                  {},
	"require_auth":              {},
	"channel_binding":           {},
	"connect_timeout":           {},
	"client_encoding":           {},
	"options":                   {},
	"application_name":          {},
	"fallback_application_name": {},
	"keepalives":                {},
	"keepalives_idle":           {},
	"keepalives_interval":       {},
	"keepalives_count":          {},
	"tcp_user_timeout":          {},
	"replication":               {},
	"gssencmode":                {},
	"sslmode":                   {},
	"requiressl":                {},
	"sslnegotiation":            {},
	"sslcompression":            {},
	"sslcert":                   {},
	"sslkey":                    {},
	"sslpassword":               {},
	"sslcertmode":               {},
	"sslrootcert":               {},
	"sslcrl":                    {},
	"sslcrldir":                 {},
	"sslsni":                    {},
	"requirepeer":               {},
	"ssl_min_protocol_version":  {},
	"ssl_max_protocol_version":  {},
	"krbsrvname":                {},
	"gsslib":                    {},
	"gssdelegation":             {},
	"service":                   {},
	"target_session_attrs":      {},
	"load_balance_hosts":        {},
}

// IsKnownParameter reports whether key is a libpq connection keyword.
func IsKnownParameter(key string) bool {
	_, ok := KnownParameters[key]
	return ok
}
