// Package logging provides the shared structured logger for the analysis core.
//
// Soong has no logging library of its own — it is a one-shot CLI that reports
// through ui/status and log.Fatal — so this server-shaped ambient concern is
// grounded on the logging dependency carried by the rest of the retrieval pack
// (theRebelliousNerd-codenerd's internal/logging, go.uber.org/zap) rather than on
// the teacher.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger writing to the editor-visible server log channel (spec §6.1,
// §7). development selects zap's development config (console encoder, debug
// level) instead of the production JSON config; the trace.level key is not read.
func New(development bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		// Fall back to a no-op logger; logging must never be fatal to the server.
		return zap.NewNop()
	}
	return logger
}

// Nop returns a logger that discards everything, used by tests that don't want
// log noise.
func Nop() *zap.Logger { return zap.NewNop() }
