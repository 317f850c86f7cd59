package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rediwo/redi-pgconf/connstr"
	"github.com/rediwo/redi-pgconf/logger"
	"github.com/rediwo/redi-pgconf/registry"
	"github.com/rediwo/redi-pgconf/types"
)

const fakeDriver = "mcp-fake"

type fakeConnection struct{}

func (fakeConnection) Exec(ctx context.Context, query string, args ...any) (types.Result, error) {
	return types.Result{}, nil
}

func (fakeConnection) Query(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	return nil, nil
}

func (fakeConnection) Ping(ctx context.Context) error { return nil }
func (fakeConnection) Close() error                   { return nil }
func (fakeConnection) Driver() string                 { return fakeDriver }

func init() {
	registry.Register(fakeDriver, func(ctx context.Context, d *connstr.Descriptor) (types.Connection, error) {
		return fakeConnection{}, nil
	})
}

func newTestServer(t *testing.T, config ServerConfig) (*SDKServer, *bytes.Buffer) {
	t.Helper()
	s, err := NewSDKServer(config)
	require.NoError(t, err)

	var buf bytes.Buffer
	s.GetLogger().SetOutput(&buf)
	return s, &buf
}

func resultJSON(t *testing.T, result *mcp.CallToolResultFor[any], v any) {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	require.NoError(t, json.Unmarshal([]byte(text.Text), v))
}

func TestNewSDKServer_Defaults(t *testing.T) {
	s, _ := newTestServer(t, ServerConfig{LogLevel: "warn"})
	assert.Equal(t, "stdio", s.config.Transport)
	assert.Equal(t, logger.LogLevelWarn, s.GetLogger().GetLevel())
}

func TestStart_UnsupportedTransport(t *testing.T) {
	s, _ := newTestServer(t, ServerConfig{Transport: "carrier-pigeon"})
	err := s.Start(context.Background())
	assert.EqualError(t, err, "unsupported transport: carrier-pigeon")
}

func TestHandleParse(t *testing.T) {
	s, _ := newTestServer(t, ServerConfig{})

	result, err := s.handleParse(context.Background(), nil, &mcp.CallToolParamsFor[ParseParams]{
		Arguments: ParseParams{DSN: "postgres://bob:secret@db:6543/app?sslmode=require"},
	})
	require.NoError(t, err)

	var body struct {
		Format     string            `json:"format"`
		Parameters map[string]string `json:"parameters"`
		Conninfo   string            `json:"conninfo"`
	}
	resultJSON(t, result, &body)

	assert.Equal(t, "uri", body.Format)
	assert.Equal(t, "****", body.Parameters["password"])
	assert.Equal(t, "6543", body.Parameters["port"])
	assert.Equal(t, "require", body.Parameters["sslmode"])
	assert.Equal(t, "user=bob password=**** host=db port=6543 dbname=app sslmode=require", body.Conninfo)
}

func TestHandleParse_ShowPassword(t *testing.T) {
	s, _ := newTestServer(t, ServerConfig{})

	result, err := s.handleParse(context.Background(), nil, &mcp.CallToolParamsFor[ParseParams]{
		Arguments: ParseParams{DSN: "host=localhost password=secret", ShowPassword: true},
	})
	require.NoError(t, err)

	var body struct {
		Format     string            `json:"format"`
		Parameters map[string]string `json:"parameters"`
	}
	resultJSON(t, result, &body)
	assert.Equal(t, "keyword/value", body.Format)
	assert.Equal(t, "secret", body.Parameters["password"])
}

func TestHandleParse_Error(t *testing.T) {
	s, _ := newTestServer(t, ServerConfig{})

	_, err := s.handleParse(context.Background(), nil, &mcp.CallToolParamsFor[ParseParams]{
		Arguments: ParseParams{DSN: "   "},
	})
	assert.ErrorIs(t, err, connstr.ErrEmptyInput)
}

func TestHandleParse_Strict(t *testing.T) {
	s, _ := newTestServer(t, ServerConfig{Strict: true})

	_, err := s.handleParse(context.Background(), nil, &mcp.CallToolParamsFor[ParseParams]{
		Arguments: ParseParams{DSN: "postgresql://localhost/app?bogus=1"},
	})
	assert.ErrorIs(t, err, connstr.ErrUnknownParameter)
}

func TestHandleValidate(t *testing.T) {
	s, _ := newTestServer(t, ServerConfig{})

	tests := []struct {
		name       string
		dsn        string
		valid      bool
		normalized string
		kind       string
	}{
		{"postgres scheme", "postgres://localhost/app", true, "postgresql://localhost/app", ""},
		{"keyword value", "host=localhost dbname=app", true, "", ""},
		{"empty", "  ", false, "", "empty input"},
		{"url in value", "host=h dbname=d application_name=http://x", true, "", ""},
		{"wrong scheme", "mysql://localhost/app", false, "", "unsupported scheme"},
		{"missing database", "postgresql://localhost", false, "", "malformed structure"},
		{"bad port", "postgresql://localhost:99999/app", false, "", "invalid port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.handleValidate(context.Background(), nil, &mcp.CallToolParamsFor[ValidateParams]{
				Arguments: ValidateParams{DSN: tt.dsn},
			})
			require.NoError(t, err)

			var body ValidateResult
			resultJSON(t, result, &body)
			assert.Equal(t, tt.valid, body.Valid)
			assert.Equal(t, tt.normalized, body.Normalized)
			assert.Equal(t, tt.kind, body.Kind)
			if !tt.valid {
				assert.NotEmpty(t, body.Error)
			}
		})
	}
}

func TestHandlePing(t *testing.T) {
	s, _ := newTestServer(t, ServerConfig{DSN: "postgresql://localhost/app", Driver: fakeDriver})

	result, err := s.handlePing(context.Background(), nil, &mcp.CallToolParamsFor[PingParams]{})
	require.NoError(t, err)

	var body map[string]any
	resultJSON(t, result, &body)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, fakeDriver, body["driver"])
}

func TestHandlePing_NoDSN(t *testing.T) {
	s, _ := newTestServer(t, ServerConfig{Driver: fakeDriver})

	_, err := s.handlePing(context.Background(), nil, &mcp.CallToolParamsFor[PingParams]{})
	assert.Error(t, err)

	_, err = s.handlePing(context.Background(), nil, &mcp.CallToolParamsFor[PingParams]{
		Arguments: PingParams{DSN: "postgresql://localhost/app", Driver: "nope"},
	})
	assert.ErrorContains(t, err, `"nope"`)
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewDefaultLogger("Test")
	l.SetOutput(&buf)
	l.SetLevel(logger.LogLevelDebug)

	called := false
	handler := loggingMiddleware(l)(func(ctx context.Context, session *mcp.ServerSession, method string, params mcp.Params) (mcp.Result, error) {
		called = true
		return nil, assert.AnError
	})

	_, err := handler(context.Background(), nil, "tools/call", nil)
	assert.ErrorIs(t, err, assert.AnError)
	assert.True(t, called)
	assert.Contains(t, buf.String(), "Received method 'tools/call'")
	assert.Contains(t, buf.String(), "Method 'tools/call' failed")
}
