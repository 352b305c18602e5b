// Package logx provides the structured logger used at connection and
// request lifecycle boundaries, built on go.uber.org/zap.
package logx

import "go.uber.org/zap"

// New builds a production zap.Logger. Callers that want silence (tests,
// library consumers that haven't opted into logging) should use zap.NewNop
// instead of calling this.
func New() (*zap.Logger, error) {
	return zap.NewProduction()
}

// Fallback returns a logger for call sites that can't propagate a
// construction error (e.g. top-level main before flag parsing has decided
// anything). It never returns nil.
func Fallback() *zap.Logger {
	logger, err := New()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// ConnFields returns the base fields attached to every log line for one
// accepted connection, so handlers and the read loop share an identifying
// prefix without threading a child logger through every call.
func ConnFields(remoteAddr string, connID uint64) []zap.Field {
	return []zap.Field{
		zap.String("remote_addr", remoteAddr),
		zap.Uint64("conn_id", connID),
	}
}
