// Package mcp exposes connection-string tooling as a Model Context
// Protocol server.
package mcp

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rediwo/redi-pgconf/connstr"
	"github.com/rediwo/redi-pgconf/logger"
)

// ServerConfig holds the configuration for the MCP server
type ServerConfig struct {
	DSN       string // default target for connection.ping
	Driver    string
	Transport string // "stdio" or "http"
	Port      int
	LogLevel  string
	Strict    bool
	Version   string
}

// SDKServer wraps the MCP SDK server
type SDKServer struct {
	mcpServer *mcp.Server
	config    ServerConfig
	parser    *connstr.Parser
	logger    logger.Logger
}

// NewSDKServer creates a new MCP server using the official SDK
func NewSDKServer(config ServerConfig) (*SDKServer, error) {
	if config.Transport == "" {
		config.Transport = "stdio"
	}

	l := logger.NewDefaultLogger("MCP")
	l.SetLevel(logger.ParseLogLevel(config.LogLevel))

	// stdout carries the JSON-RPC stream
	if config.Transport == "stdio" {
		l.SetOutput(os.Stderr)
	}

	server := &SDKServer{
		config: config,
		parser: &connstr.Parser{Logger: l, Strict: config.Strict},
		logger: l,
	}

	server.mcpServer = mcp.NewServer(&mcp.Implementation{
		Name:    "redi-pgconf",
		Version: config.Version,
	}, &mcp.ServerOptions{
		Instructions: "Parses, validates and tests PostgreSQL connection strings in URI or keyword/value form",
		InitializedHandler: func(ctx context.Context, session *mcp.ServerSession, params *mcp.InitializedParams) {
			if id := session.ID(); id != "" {
				l.Info("Client initialized session: %s", id)
			} else {
				l.Info("Client initialized")
			}
		},
	})

	server.registerTools()
	server.mcpServer.AddReceivingMiddleware(loggingMiddleware(l))

	return server, nil
}

// loggingMiddleware logs every incoming method call and its failure, if any
func loggingMiddleware(l logger.Logger) func(mcp.MethodHandler[*mcp.ServerSession]) mcp.MethodHandler[*mcp.ServerSession] {
	return func(next mcp.MethodHandler[*mcp.ServerSession]) mcp.MethodHandler[*mcp.ServerSession] {
		return func(ctx context.Context, session *mcp.ServerSession, method string, params mcp.Params) (mcp.Result, error) {
			if session != nil && session.ID() != "" {
				l.Debug("Received method '%s' from session %s", method, session.ID())
			} else {
				l.Debug("Received method '%s'", method)
			}

			result, err := next(ctx, session, method, params)
			if err != nil {
				l.Error("Method '%s' failed: %v", method, err)
			}
			return result, err
		}
	}
}

// GetLogger returns the server's logger
func (s *SDKServer) GetLogger() logger.Logger {
	return s.logger
}

// Start runs the server on the configured transport until ctx is done
func (s *SDKServer) Start(ctx context.Context) error {
	s.logger.Info("Starting MCP server with transport: %s", s.config.Transport)

	switch s.config.Transport {
	case "stdio":
		return s.startStdioServer(ctx)
	case "http":
		return s.startHTTPServer(ctx)
	default:
		return fmt.Errorf("unsupported transport: %s", s.config.Transport)
	}
}

func (s *SDKServer) startStdioServer(ctx context.Context) error {
	var transport mcp.Transport = mcp.NewStdioTransport()

	if s.logger.GetLevel() >= logger.LogLevelDebug {
		transport = mcp.NewLoggingTransport(transport, NewLoggerWriter(s.logger, "MCP"))
	}

	err := s.mcpServer.Run(ctx, transport)
	if err != nil {
		s.logger.Error("MCP stdio server stopped with error: %v", err)
	} else {
		s.logger.Info("MCP stdio server stopped gracefully")
	}
	return err
}

func (s *SDKServer) startHTTPServer(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/", mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		s.logger.Info("New streamable connection from %s", r.RemoteAddr)
		return s.mcpServer
	}, nil))
	mux.Handle("/sse", mcp.NewSSEHandler(func(r *http.Request) *mcp.Server {
		s.logger.Info("New SSE connection from %s", r.RemoteAddr)
		return s.mcpServer
	}))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.config.Port),
		Handler: corsMiddleware(mux),
	}

	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	s.logger.Info("Listening on http://localhost%s/ (SSE at /sse)", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Mcp-Session-Id")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
