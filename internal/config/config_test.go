package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seqsearch/core/alphabet"
	"seqsearch/internal/errors"
	"seqsearch/internal/pipeline"
	"seqsearch/internal/writers"
)

func newFlags(t *testing.T, strand bool, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs, strand)
	require.NoError(t, fs.Parse(args))
	return fs
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seqsearch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_DefaultsAndFlags(t *testing.T) {
	fs := newFlags(t, true, "-q", "q.fa", "-d", "db.fa", "-o", "-")
	cfg, err := Load(fs)
	require.NoError(t, err)

	want := Default()
	want.Query, want.Database, want.Out = "q.fa", "db.fa", "-"
	assert.Equal(t, want, cfg)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeYAML(t, `
query: file.fa
db: file-db.fa
out: file.csv
search:
  max_accepts: 3
  max_rejects: 8
  strand: plus
pipeline:
  writers: 2
log:
  level: debug
`)
	t.Setenv("SEQSEARCH_SEARCH__MAX_REJECTS", "20")
	t.Setenv("SEQSEARCH_PIPELINE__WRITERS", "4")

	fs := newFlags(t, true, "--config", path, "--writers", "5", "--min-identity", "0.9")
	cfg, err := Load(fs)
	require.NoError(t, err)

	assert.Equal(t, "file.fa", cfg.Query)
	assert.Equal(t, "file.csv", cfg.Out)
	assert.Equal(t, 3, cfg.Search.MaxAccepts, "file beats defaults")
	assert.Equal(t, 20, cfg.Search.MaxRejects, "env beats file")
	assert.Equal(t, 5, cfg.Pipeline.Writers, "flag beats env")
	assert.Equal(t, 0.9, cfg.Search.MinIdentity)
	assert.Equal(t, "plus", cfg.Search.Strand)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 64, cfg.Pipeline.BatchSize, "unset keys keep defaults")
}

func TestLoad_UnchangedFlagsDoNotOverrideFile(t *testing.T) {
	path := writeYAML(t, "query: a\ndb: b\nout: c\nsearch:\n  max_accepts: 7\n")
	fs := newFlags(t, true, "--config", path)
	cfg, err := Load(fs)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Search.MaxAccepts)
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want string
	}{
		{"missing query", []string{"-d", "d", "-o", "o"}, "--query"},
		{"zero accepts", []string{"-q", "q", "-d", "d", "-o", "o", "--max-accepts", "0"}, "--max-accepts"},
		{"identity above one", []string{"-q", "q", "-d", "d", "-o", "o", "--min-identity", "1.5"}, "--min-identity"},
		{"bad format", []string{"-q", "q", "-d", "d", "-o", "o", "--format", "xml"}, "--format"},
		{"bad progress", []string{"-q", "q", "-d", "d", "-o", "o", "--progress", "fancy"}, "--progress"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(newFlags(t, true, tc.args...))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	fs := newFlags(t, true, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "-q", "q", "-d", "d", "-o", "o")
	_, err := Load(fs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrIO))
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestRegisterFlags_ProteinHasNoStrand(t *testing.T) {
	fs := pflag.NewFlagSet("protein", pflag.ContinueOnError)
	RegisterFlags(fs, false)
	assert.Nil(t, fs.Lookup("strand"))

	cfg, err := Load(newFlags(t, false, "-q", "q", "-d", "d", "-o", "o"))
	require.NoError(t, err)
	assert.Equal(t, "both", cfg.Search.Strand)
}

func TestFlagKeysCoverRegisteredFlags(t *testing.T) {
	fs := pflag.NewFlagSet("all", pflag.ContinueOnError)
	RegisterFlags(fs, true)
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		_, ok := flagKeys[f.Name]
		assert.True(t, ok, "flag %s has no config key", f.Name)
	})
}

func TestToPipeline(t *testing.T) {
	cfg := Default()
	cfg.Query, cfg.Database, cfg.Out = "q.fa", "db.fa", "hits.out"
	cfg.Output.Format = "CSV"
	cfg.Output.Header = true
	cfg.Pipeline.Threads = 3
	cfg.Pipeline.Ordered = true

	pc, err := cfg.ToPipeline(alphabet.Nucleotide)
	require.NoError(t, err)
	assert.Equal(t, alphabet.Nucleotide.Name, pc.Alphabet.Name)
	assert.Equal(t, "hits.out", pc.OutputPath)
	assert.Equal(t, writers.FormatCSV, pc.Output.Format)
	assert.True(t, pc.Output.Header)
	assert.Equal(t, 3, pc.Searchers)
	assert.True(t, pc.Ordered)
	assert.Equal(t, pipeline.SearchOptions{MaxAccepts: 1, MaxRejects: 16, MinIdentity: 0.75, Strand: "both"}, pc.Search)

	cfg.Output.Format = ""
	pc, err = cfg.ToPipeline(alphabet.Protein)
	require.NoError(t, err)
	assert.Equal(t, writers.Format(""), pc.Output.Format)
}
