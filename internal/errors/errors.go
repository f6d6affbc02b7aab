// Package errors re-exports github.com/cockroachdb/errors and defines the
// sentinel errors seqsearch uses to classify failures.
//
// Wrap sentinels with Mark (or the helpers below) so callers can test with
// Is while still seeing the original message and stack:
//
//	if errors.Is(err, errors.ErrInvalidConfig) {
//	    // usage problem, exit 2
//	}
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

var (
	WithHint      = crdb.WithHint
	WithHintf     = crdb.WithHintf
	WithDetail    = crdb.WithDetail
	WithDetailf   = crdb.WithDetailf
	GetAllHints   = crdb.GetAllHints
	FlattenHints  = crdb.FlattenHints
	GetAllDetails = crdb.GetAllDetails
)

var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Sentinels. Check with Is; attach with Mark or the constructors below.
var (
	// ErrInvalidConfig marks a problem with run parameters detected before any I/O.
	ErrInvalidConfig = New("invalid configuration")

	// ErrIO marks an unreadable or unwritable file.
	ErrIO = New("i/o failure")

	// ErrFormat marks input that could not be parsed.
	ErrFormat = New("malformed input")

	// ErrClosed is returned by a work queue that no longer accepts items.
	ErrClosed = New("queue closed")

	// ErrProcessing marks a fault raised by a stage handler.
	ErrProcessing = New("processing fault")
)

// InvalidConfigf builds a configuration error.
func InvalidConfigf(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrInvalidConfig)
}

// IOf wraps err as an I/O failure with context.
func IOf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Mark(Wrapf(err, format, args...), ErrIO)
}

// Formatf builds a parse error.
func Formatf(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrFormat)
}
