package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rediwo/redi-pgconf/connstr"
	"github.com/rediwo/redi-pgconf/database"
	"github.com/rediwo/redi-pgconf/logger"
)

// addToolWithLogging wraps mcp.AddTool to add logging for registration and invocation
func addToolWithLogging[In, Out any](s *SDKServer, tool *mcp.Tool, handler func(context.Context, *mcp.ServerSession, *mcp.CallToolParamsFor[In]) (*mcp.CallToolResultFor[Out], error)) {
	s.logger.Debug("Registering tool: %s - %s", tool.Name, tool.Description)

	wrappedHandler := func(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[In]) (*mcp.CallToolResultFor[Out], error) {
		startTime := time.Now()
		s.logger.Info("Tool invoked: %s", tool.Name)

		result, err := handler(ctx, session, params)

		duration := time.Since(startTime)
		if err != nil {
			s.logger.Error("Tool %s failed after %v: %v", tool.Name, duration, err)
		} else {
			s.logger.Info("Tool %s completed in %v", tool.Name, duration)
		}
		return result, err
	}

	mcp.AddTool[In, Out](s.mcpServer, tool, wrappedHandler)
}

// Tool parameter structs
type ParseParams struct {
	DSN          string `json:"dsn" jsonschema:"Connection string in postgresql:// URI or key=value form"`
	ShowPassword bool   `json:"show_password,omitempty" jsonschema:"Include the password in the result instead of masking it"`
}

type ValidateParams struct {
	DSN string `json:"dsn" jsonschema:"Connection string to check"`
}

type PingParams struct {
	DSN    string `json:"dsn,omitempty" jsonschema:"Connection string; defaults to the server's configured DSN"`
	Driver string `json:"driver,omitempty" jsonschema:"Driver to connect with (pq or pgx)"`
}

// ParseResult is the JSON body returned by connection.parse
type ParseResult struct {
	Format     string              `json:"format"`
	Parameters *connstr.Descriptor `json:"parameters"`
	Conninfo   string              `json:"conninfo"`
}

// ValidateResult is the JSON body returned by connection.validate
type ValidateResult struct {
	Valid      bool   `json:"valid"`
	Format     string `json:"format,omitempty"`
	Normalized string `json:"normalized,omitempty"`
	Kind       string `json:"kind,omitempty"`
	Error      string `json:"error,omitempty"`
}

func (s *SDKServer) registerTools() {
	parseSchema, _ := jsonschema.For[ParseParams]()
	addToolWithLogging[ParseParams, any](s, &mcp.Tool{
		Name:        "connection.parse",
		Description: "Parse a PostgreSQL connection string into its parameters",
		InputSchema: parseSchema,
	}, s.handleParse)

	validateSchema, _ := jsonschema.For[ValidateParams]()
	addToolWithLogging[ValidateParams, any](s, &mcp.Tool{
		Name:        "connection.validate",
		Description: "Check a PostgreSQL connection string without connecting",
		InputSchema: validateSchema,
	}, s.handleValidate)

	pingSchema, _ := jsonschema.For[PingParams]()
	addToolWithLogging[PingParams, any](s, &mcp.Tool{
		Name:        "connection.ping",
		Description: "Connect to the database and verify it responds",
		InputSchema: pingSchema,
	}, s.handlePing)
}

func formatOf(raw string) string {
	if connstr.HasScheme(raw) {
		return "uri"
	}
	return "keyword/value"
}

func textResult(v any) (*mcp.CallToolResultFor[any], error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil
}

func (s *SDKServer) handleParse(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[ParseParams]) (*mcp.CallToolResultFor[any], error) {
	d, err := s.parser.Parse(params.Arguments.DSN)
	if err != nil {
		return nil, err
	}

	result := ParseResult{Format: formatOf(params.Arguments.DSN)}
	if params.Arguments.ShowPassword {
		result.Parameters = d
		result.Conninfo = d.String()
	} else {
		result.Parameters = d.Masked()
		result.Conninfo = d.Redacted()
	}
	return textResult(result)
}

// handleValidate reports problems in the result body rather than as a
// tool error, since an invalid string is an expected answer here.
func (s *SDKServer) handleValidate(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[ValidateParams]) (*mcp.CallToolResultFor[any], error) {
	raw := params.Arguments.DSN
	result := ValidateResult{Format: formatOf(raw)}

	var err error
	if connstr.HasScheme(raw) {
		result.Normalized, err = connstr.ValidateURI(raw)
	}
	if err == nil {
		_, err = s.parser.Parse(raw)
	}

	if err != nil {
		result.Error = err.Error()
		var perr *connstr.Error
		if errors.As(err, &perr) {
			result.Kind = perr.Kind.String()
		}
		result.Normalized = ""
	} else {
		result.Valid = true
	}
	return textResult(result)
}

func (s *SDKServer) handlePing(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[PingParams]) (*mcp.CallToolResultFor[any], error) {
	dsn := params.Arguments.DSN
	if dsn == "" {
		dsn = s.config.DSN
	}
	if dsn == "" {
		return nil, fmt.Errorf("no connection string given and none configured")
	}
	driver := params.Arguments.Driver
	if driver == "" {
		driver = s.config.Driver
	}

	startTime := time.Now()
	conn, err := database.OpenWith(ctx, s.parser, dsn, driver)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping failed: %w", err)
	}

	if s.logger.GetLevel() >= logger.LogLevelDebug {
		s.logger.Debug("Ping via %s succeeded", conn.Driver())
	}
	return textResult(map[string]any{
		"ok":      true,
		"driver":  conn.Driver(),
		"latency": time.Since(startTime).String(),
	})
}
