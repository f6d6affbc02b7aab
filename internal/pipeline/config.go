package pipeline

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"seqsearch/core/alphabet"
	"seqsearch/core/index"
	"seqsearch/core/search"
	"seqsearch/core/seq"
	"seqsearch/core/seqio"
	"seqsearch/internal/errors"
	"seqsearch/internal/logging"
	"seqsearch/internal/metrics"
	"seqsearch/internal/progress"
	"seqsearch/internal/workqueue"
	"seqsearch/internal/writers"
)

// DefaultBatchSize is the number of queries per searcher work item.
const DefaultBatchSize = 64

// SequenceReader is what the pipeline needs from a FASTA/FASTQ reader.
type SequenceReader interface {
	EndOfFile() bool
	Read(n int, out *seq.Batch) error
	ReadOne() (seq.Sequence, error)
	NumBytesRead() int64
	NumBytesTotal() int64
	Close() error
}

// Searcher answers one query at a time; each searcher worker owns one.
type Searcher interface {
	Query(q seq.Sequence) (search.HitList, error)
}

// SearchOptions are the user-facing search knobs, validated by Run.
type SearchOptions struct {
	MaxAccepts  int
	MaxRejects  int
	MinIdentity float64
	Strand      string // nucleotide only: plus | minus | both
}

// Config describes one run. Zero values select defaults.
type Config struct {
	Alphabet     alphabet.Alphabet
	QueryPath    string
	DatabasePath string
	OutputPath   string
	Output       writers.Options

	Search   SearchOptions
	WordSize int // 0: alphabet default

	Searchers     int  // workqueue.Auto for one per CPU
	Writers       int  // default 1
	Ordered       bool // one searcher and one writer: output follows query order
	BatchSize     int  // default DefaultBatchSize
	QueueCapacity int  // per queue; 0: twice the pool size

	Progress progress.Sink
	Metrics  *metrics.Metrics
	Logger   *zap.SugaredLogger
	RunID    string

	OpenReader  func(path string, a alphabet.Alphabet) (SequenceReader, error)
	OpenWriter  func(path string, o writers.Options) (writers.HitWriter, error)
	NewSearcher func(db *index.Database, p search.Params) (Searcher, error)
}

// prepare fills defaults and validates everything that can be checked
// without touching the filesystem.
func (c Config) prepare() (Config, search.Params, *index.Database, error) {
	if !c.Alphabet.Valid() {
		return c, search.Params{}, nil, errors.InvalidConfigf("pipeline: alphabet not set")
	}
	switch {
	case c.QueryPath == "":
		return c, search.Params{}, nil, errors.InvalidConfigf("query path is required")
	case c.DatabasePath == "":
		return c, search.Params{}, nil, errors.InvalidConfigf("database path is required")
	case c.OutputPath == "":
		return c, search.Params{}, nil, errors.InvalidConfigf("output path is required")
	}

	params, err := search.NewParams(c.Alphabet, c.Search.MaxAccepts, c.Search.MaxRejects, c.Search.MinIdentity, c.Search.Strand)
	if err != nil {
		return c, search.Params{}, nil, err
	}
	db, err := index.New(c.Alphabet, c.WordSize)
	if err != nil {
		return c, search.Params{}, nil, err
	}
	if c.BatchSize < 0 || c.QueueCapacity < 0 || c.Writers < 0 {
		return c, search.Params{}, nil, errors.InvalidConfigf(
			"negative batch size, queue capacity or writer count")
	}

	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.Writers == 0 {
		c.Writers = 1
	}
	if c.Searchers < 0 {
		c.Searchers = workqueue.Auto
	}
	if c.Ordered {
		c.Searchers, c.Writers = 1, 1
	}
	if c.RunID == "" {
		c.RunID = uuid.NewString()
	}
	if c.Logger == nil {
		c.Logger = logging.Nop()
	}

	sink := c.Progress
	if sink == nil {
		sink = progress.Nop{}
	}
	if c.Metrics != nil {
		sink = progress.Multi(sink, c.Metrics)
	}
	c.Progress = sink

	if c.OpenReader == nil {
		c.OpenReader = func(path string, a alphabet.Alphabet) (SequenceReader, error) {
			return seqio.Open(path, a)
		}
	}
	if c.OpenWriter == nil {
		c.OpenWriter = writers.Open
	}
	if c.NewSearcher == nil {
		c.NewSearcher = func(db *index.Database, p search.Params) (Searcher, error) {
			return search.New(db, p)
		}
	}
	return c, params, db, nil
}
