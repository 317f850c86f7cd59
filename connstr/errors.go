package connstr

import (
	"fmt"
)

// ErrorKind classifies a parse failure
type ErrorKind int

const (
	// EmptyInput: the string is empty or whitespace only.
	EmptyInput ErrorKind = iota + 1
	// UnsupportedScheme: no postgres:// or postgresql:// prefix on the URI path.
	UnsupportedScheme
	// MalformedStructure: a required URI segment is missing or malformed.
	MalformedStructure
	// EmbeddedWhitespace: whitespace inside a URI.
	EmbeddedWhitespace
	// InvalidPort: the port is not a base-10 integer in 0-65535.
	InvalidPort
	// SyntaxError is reserved for the keyword/value path. Tokens without
	// '=' are currently skipped with a warning instead.
	SyntaxError
	// UnknownParameter is only returned by a strict Parser.
	UnknownParameter
)

var kindNames = map[ErrorKind]string{
	EmptyInput:         "empty input",
	UnsupportedScheme:  "unsupported scheme",
	MalformedStructure: "malformed structure",
	EmbeddedWhitespace: "embedded whitespace",
	InvalidPort:        "invalid port",
	SyntaxError:        "syntax error",
	UnknownParameter:   "unknown parameter",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Sentinel errors, one per kind. They match any *Error of the same kind
// through errors.Is.
var (
	ErrEmptyInput         = &Error{Kind: EmptyInput}
	ErrUnsupportedScheme  = &Error{Kind: UnsupportedScheme}
	ErrMalformedStructure = &Error{Kind: MalformedStructure}
	ErrEmbeddedWhitespace = &Error{Kind: EmbeddedWhitespace}
	ErrInvalidPort        = &Error{Kind: InvalidPort}
	ErrSyntax             = &Error{Kind: SyntaxError}
	ErrUnknownParameter   = &Error{Kind: UnknownParameter}
)

// Error is returned for every rejected connection string. Input holds a
// shortened, password-masked excerpt of the offending string.
type Error struct {
	Kind  ErrorKind
	Msg   string
	Input string
}

func newError(kind ErrorKind, input string, format string, args ...any) *Error {
	return &Error{
		Kind:  kind,
		Msg:   fmt.Sprintf(format, args...),
		Input: preview(input),
	}
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Input == "" {
		return "connstr: " + msg
	}
	return fmt.Sprintf("connstr: %s (input: %q)", msg, e.Input)
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Msg == "" && t.Kind == e.Kind
}

const previewLen = 32

// preview masks passwords and truncates s to previewLen runes.
func preview(s string) string {
	s = MaskSecrets(s)
	r := []rune(s)
	if len(r) <= previewLen {
		return s
	}
	return string(r[:previewLen]) + "..."
}
