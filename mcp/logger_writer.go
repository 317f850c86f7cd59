package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rediwo/redi-pgconf/connstr"
	"github.com/rediwo/redi-pgconf/logger"
)

const maxLoggedLen = 200

// LoggerWriter is an io.Writer that turns the SDK's JSON-RPC trace into
// debug log lines. Passwords are masked in requests, responses and errors.
type LoggerWriter struct {
	logger logger.Logger
	prefix string
}

// NewLoggerWriter creates a new logger writer
func NewLoggerWriter(l logger.Logger, prefix string) *LoggerWriter {
	return &LoggerWriter{logger: l, prefix: prefix}
}

// Write implements io.Writer
func (w *LoggerWriter) Write(p []byte) (int, error) {
	msg := strings.TrimSpace(string(p))
	if msg == "" {
		return len(p), nil
	}

	var jsonMsg map[string]any
	if err := json.Unmarshal([]byte(msg), &jsonMsg); err == nil {
		w.logJSONRPC(redact(jsonMsg).(map[string]any))
	} else {
		w.logger.Debug("%s%s", w.tag(), truncate(connstr.MaskSecrets(msg), maxLoggedLen))
	}
	return len(p), nil
}

func (w *LoggerWriter) tag() string {
	if w.prefix == "" {
		return ""
	}
	return "[" + w.prefix + "] "
}

func (w *LoggerWriter) logJSONRPC(msg map[string]any) {
	id := formatID(msg["id"])

	if method, ok := msg["method"].(string); ok {
		w.logger.Debug("%s→ Request #%s: %s %s", w.tag(), id, method, formatJSON(msg["params"]))
		return
	}
	if result, ok := msg["result"]; ok {
		w.logger.Debug("%s← Response #%s: %s", w.tag(), id, formatJSON(result))
		return
	}
	if errVal, ok := msg["error"]; ok {
		w.logger.Error("%s← Error #%s: %s", w.tag(), id, formatError(errVal))
		return
	}
	w.logger.Debug("%s%s", w.tag(), truncate(fmt.Sprintf("%v", msg), maxLoggedLen))
}

// redact returns a copy of v with every "password" member and every
// password inside a string masked. Strings holding JSON, such as tool
// result text, are redacted as JSON.
func redact(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			if _, ok := val.(string); ok && strings.EqualFold(k, connstr.KeyPassword) {
				out[k] = "****"
				continue
			}
			out[k] = redact(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = redact(val)
		}
		return out
	case string:
		trimmed := strings.TrimSpace(v)
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			var inner any
			if err := json.Unmarshal([]byte(trimmed), &inner); err == nil {
				if data, err := json.Marshal(redact(inner)); err == nil {
					return string(data)
				}
			}
		}
		return connstr.MaskSecrets(v)
	default:
		return v
	}
}

func formatID(id any) string {
	if id == nil {
		return "null"
	}
	return fmt.Sprintf("%v", id)
}

func formatJSON(v any) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return truncate(string(data), maxLoggedLen)
}

func formatError(err any) string {
	errMap, ok := err.(map[string]any)
	if !ok {
		return fmt.Sprintf("%v", err)
	}

	var parts []string
	for _, key := range []string{"code", "message", "data"} {
		if v, ok := errMap[key]; ok && v != nil {
			parts = append(parts, fmt.Sprintf("%s=%v", key, v))
		}
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return s[:maxLen-3] + "..."
}
