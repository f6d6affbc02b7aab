// Package config merges defaults, an optional YAML file, SEQSEARCH_*
// environment variables and command-line flags into one validated Config.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"seqsearch/internal/errors"
)

var validate = validator.New()

// flag name -> config key
var flagKeys = map[string]string{
	"query":              "query",
	"db":                 "db",
	"out":                "out",
	"max-accepts":        "search.max_accepts",
	"max-rejects":        "search.max_rejects",
	"min-identity":       "search.min_identity",
	"strand":             "search.strand",
	"word-size":          "search.word_size",
	"threads":            "pipeline.threads",
	"writers":            "pipeline.writers",
	"batch-size":         "pipeline.batch_size",
	"queue-capacity":     "pipeline.queue_capacity",
	"ordered":            "pipeline.ordered",
	"format":             "output.format",
	"header":             "output.header",
	"log-level":          "log.level",
	"log-json":           "log.json",
	"progress":           "progress",
	"metrics-file":       "metrics_file",
	"summary-file":       "summary_file",
	"no-match-exit-code": "no_match_exit_code",
}

// RegisterFlags defines the run flags on fs. strand is false for alphabets
// without strands.
func RegisterFlags(fs *pflag.FlagSet, strand bool) {
	def := Default()
	fs.StringP("query", "q", "", "query FASTA/FASTQ file (\"-\" for stdin, gzip ok)")
	fs.StringP("db", "d", "", "database FASTA/FASTQ file (gzip ok)")
	fs.StringP("out", "o", "", "output file: .csv, .jsonl, .sqlite (hits table replaced), anything else alnout (\"-\" for stdout)")
	fs.String("config", "", "YAML config file")

	fs.Int("max-accepts", def.Search.MaxAccepts, "stop after this many hits per query")
	fs.Int("max-rejects", def.Search.MaxRejects, "stop after this many consecutive rejected candidates (0 = no limit)")
	fs.Float64("min-identity", def.Search.MinIdentity, "minimum identity (0..1) to accept a hit")
	if strand {
		fs.String("strand", def.Search.Strand, "query strand to search: plus, minus or both")
	}
	fs.Int("word-size", def.Search.WordSize, "index word size (0 = alphabet default)")

	fs.IntP("threads", "t", def.Pipeline.Threads, "searcher goroutines (0 = all CPUs)")
	fs.Int("writers", def.Pipeline.Writers, "writer goroutines")
	fs.Int("batch-size", def.Pipeline.BatchSize, "queries per work item")
	fs.Int("queue-capacity", def.Pipeline.QueueCapacity, "items buffered per stage (0 = twice the pool size)")
	fs.Bool("ordered", def.Pipeline.Ordered, "write hits in query order (single searcher)")

	fs.String("format", def.Output.Format, "output format override: alnout, csv, jsonl, sqlite")
	fs.Bool("header", def.Output.Header, "write a CSV header line")
	fs.String("progress", def.Progress, "progress display: auto, bar, log, none")
	fs.String("metrics-file", def.MetricsFile, "write Prometheus metrics to this file at the end of the run")
	fs.String("summary-file", def.SummaryFile, "write the run summary as JSON to this file")
	fs.String("log-level", def.Log.Level, "log level: debug, info, warn, error")
	fs.Bool("log-json", def.Log.JSON, "log JSON lines instead of text")
	fs.Int("no-match-exit-code", def.NoMatchExitCode, "exit code when no query has a hit")
}

// Load merges the standard sources. The config file path is taken from the
// --config flag when fs defines it.
func Load(fs *pflag.FlagSet) (Config, error) {
	path := ""
	if fs != nil {
		if f := fs.Lookup("config"); f != nil {
			path = f.Value.String()
		}
	}
	return LoadSources(Sources(path, fs)...)
}

// LoadSources applies sources in order and validates the result.
func LoadSources(sources ...Source) (Config, error) {
	k := koanf.New(".")
	for _, s := range sources {
		if err := s.Load(k); err != nil {
			return Config{}, errors.Mark(errors.Wrapf(err, "load config (%s)", s.Name()), errors.ErrInvalidConfig)
		}
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, errors.Mark(errors.Wrap(err, "decode config"), errors.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Mark(errors.Wrap(err, "config"), errors.ErrInvalidConfig)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (%v)", keyOf(fe.Namespace()), fe.ActualTag(), fe.Value()))
	}
	return errors.WithHint(
		errors.InvalidConfigf("config: %s", strings.Join(msgs, "; ")),
		"see 'seqsearch <command> --help' for accepted values",
	)
}

// keyOf turns a validator namespace such as Config.Search.MaxAccepts into
// the user-facing flag name when there is one.
func keyOf(ns string) string {
	field := ns[strings.LastIndex(ns, ".")+1:]
	for name, key := range flagKeys {
		if strings.EqualFold(strings.ReplaceAll(key[strings.LastIndex(key, ".")+1:], "_", ""), field) {
			return "--" + name
		}
	}
	return ns
}
