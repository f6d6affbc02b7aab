// Package app wires the seqsearch command line: cobra commands, layered
// configuration, progress rendering and exit codes.
package app

import (
	"context"
	"fmt"
	"io"

	"seqsearch/internal/errors"
	"seqsearch/internal/writers"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitUsage     = 2
	ExitFailure   = 3
	ExitCancelled = 130
)

// runner carries per-invocation state between cobra and the exit-code
// mapping.
type runner struct {
	stdout, stderr io.Writer

	started     bool // a search command got past flag parsing
	noHits      bool
	noMatchCode int
}

// RunContext executes argv and returns the process exit code.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	r := &runner{stdout: stdout, stderr: stderr}
	root := r.rootCmd()
	root.SetArgs(argv)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return r.exitCode(root.ExecuteContext(ctx))
}

// Run is RunContext with a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func (r *runner) exitCode(err error) int {
	switch {
	case err == nil:
		if r.noHits {
			return r.noMatchCode
		}
		return ExitOK
	case writers.IsBrokenPipe(err):
		return ExitOK
	case errors.Is(err, context.Canceled):
		_, _ = fmt.Fprintln(r.stderr, "seqsearch: cancelled")
		return ExitCancelled
	}

	_, _ = fmt.Fprintf(r.stderr, "seqsearch: %v\n", err)
	if hint := errors.FlattenHints(err); hint != "" {
		_, _ = fmt.Fprintf(r.stderr, "hint: %s\n", hint)
	}
	if !r.started || errors.Is(err, errors.ErrInvalidConfig) {
		return ExitUsage
	}
	return ExitFailure
}
