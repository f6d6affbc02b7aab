package writers

import (
	"path/filepath"
	"sort"
	"strings"

	"seqsearch/internal/errors"
)

// Format names an output encoding.
type Format string

const (
	FormatAlnOut Format = "alnout"
	FormatCSV    Format = "csv"
	FormatJSONL  Format = "jsonl"
	FormatSQLite Format = "sqlite"
)

// Factory opens a writer for path ("-" is stdout where the format allows it).
type Factory func(path string, o Options) (HitWriter, error)

// Writer registry (format → factory). Formats register themselves in init().
var factories = map[Format]Factory{}

// Register installs fn for format (idempotent last-wins).
func Register(format Format, fn Factory) { factories[format] = fn }

// Formats lists registered formats, sorted.
func Formats() []string {
	out := make([]string, 0, len(factories))
	for f := range factories {
		out = append(out, string(f))
	}
	sort.Strings(out)
	return out
}

var extFormats = map[string]Format{
	".csv":    FormatCSV,
	".jsonl":  FormatJSONL,
	".ndjson": FormatJSONL,
	".sqlite": FormatSQLite,
	".db":     FormatSQLite,
}

// DetectFormat picks a format from the path's extension. Unknown extensions
// and "-" yield fallback.
func DetectFormat(path string, fallback Format) Format {
	if f, ok := extFormats[strings.ToLower(filepath.Ext(path))]; ok {
		return f
	}
	return fallback
}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := factories[f]; ok {
		return f, nil
	}
	return "", errors.WithHintf(
		errors.InvalidConfigf("unknown output format %q", s),
		"supported formats: %s", strings.Join(Formats(), ", "),
	)
}

// Open creates the writer for path. An empty o.Format is detected from the
// extension, falling back to alnout.
func Open(path string, o Options) (HitWriter, error) {
	if path == "" {
		return nil, errors.InvalidConfigf("output path is empty")
	}
	format := o.Format
	if format == "" {
		format = DetectFormat(path, FormatAlnOut)
	}
	fn, ok := factories[format]
	if !ok {
		return nil, errors.InvalidConfigf("unknown output format %q (no writer registered)", format)
	}
	w, err := fn(path, o)
	if err != nil {
		return nil, errors.Wrapf(err, "open output %s", path)
	}
	return w, nil
}
