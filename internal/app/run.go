package app

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"seqsearch/core/alphabet"
	"seqsearch/internal/config"
	"seqsearch/internal/jsonutil"
	"seqsearch/internal/logging"
	"seqsearch/internal/metrics"
	"seqsearch/internal/pipeline"
	"seqsearch/internal/progress"
)

// logEvery throttles progress lines when no terminal is attached.
const logEvery = 2 * time.Second

func (r *runner) search(ctx context.Context, a alphabet.Alphabet, cfg config.Config) (pipeline.Summary, error) {
	log, err := logging.New(logging.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON, Output: r.stderr})
	if err != nil {
		return pipeline.Summary{}, err
	}
	defer func() { _ = log.Sync() }()

	pc, err := cfg.ToPipeline(a)
	if err != nil {
		return pipeline.Summary{}, err
	}
	pc.Logger = log

	sink, closeSink := progressSink(cfg.Progress, r.stderr, log)
	defer closeSink()
	pc.Progress = sink

	if cfg.MetricsFile != "" {
		pc.Metrics = metrics.New()
	}

	sum, err := pipeline.Run(ctx, pc)
	if cfg.MetricsFile != "" {
		if werr := pc.Metrics.WriteTextfile(cfg.MetricsFile); werr != nil {
			log.Warnw("metrics textfile not written", logging.FieldPath, cfg.MetricsFile, logging.FieldError, werr)
		}
	}
	if err == nil && cfg.SummaryFile != "" {
		if werr := jsonutil.WriteFile(cfg.SummaryFile, sum.API()); werr != nil {
			return sum, werr
		}
	}
	return sum, err
}

// progressSink picks a renderer. auto draws bars on a terminal and logs
// otherwise.
func progressSink(mode string, stderr io.Writer, log *zap.SugaredLogger) (progress.Sink, func()) {
	if mode == "auto" {
		mode = "log"
		if isTerminal(stderr) {
			mode = "bar"
		}
	}
	switch mode {
	case "bar":
		t := progress.NewTerminalSink(stderr)
		return t, t.Close
	case "log":
		return progress.NewLogSink(logging.Component(log, "progress"), logEvery), func() {}
	}
	return progress.Nop{}, func() {}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
