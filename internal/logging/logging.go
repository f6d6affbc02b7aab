// Package logging builds the zap loggers used across seqsearch.
//
// Components take a *zap.SugaredLogger by injection; use Component to derive a
// named child so every line carries where it came from.
package logging

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"seqsearch/internal/errors"
)

// Standard field names. Use these instead of raw strings.
const (
	FieldRunID     = "run_id"
	FieldStage     = "stage"
	FieldQueue     = "queue"
	FieldWorker    = "worker"
	FieldAlphabet  = "alphabet"
	FieldPath      = "path"
	FieldCount     = "count"
	FieldTotal     = "total"
	FieldPoolSize  = "pool_size"
	FieldCapacity  = "capacity"
	FieldDuration  = "duration"
	FieldError     = "error"
	FieldQueryID   = "query_id"
	FieldHits      = "hits"
	FieldBatchSize = "batch_size"
)

// Options control logger construction.
type Options struct {
	Level  string    // debug | info | warn | error
	JSON   bool      // JSON lines instead of console text
	Output io.Writer // defaults to os.Stderr
}

// New builds a sugared logger. Output goes to stderr by default so that
// stdout stays reserved for hit output ("-o -").
func New(o Options) (*zap.SugaredLogger, error) {
	level, err := ParseLevel(o.Level)
	if err != nil {
		return nil, err
	}
	out := o.Output
	if out == nil {
		out = os.Stderr
	}

	var enc zapcore.Encoder
	if o.JSON {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		cfg.CallerKey = ""
		enc = zapcore.NewConsoleEncoder(cfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(out), level)
	return zap.New(core).Sugar(), nil
}

// ParseLevel maps a level name to a zap level. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, errors.InvalidConfigf("unknown log level %q", s)
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger { return zap.NewNop().Sugar() }

// Component returns a named child of base. A nil base yields a no-op logger.
func Component(base *zap.SugaredLogger, name string) *zap.SugaredLogger {
	if base == nil {
		return Nop()
	}
	return base.Named(name)
}
