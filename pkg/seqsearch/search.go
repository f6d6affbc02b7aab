package seqsearch

import (
	"context"

	"go.uber.org/zap"

	"seqsearch/core/alphabet"
	"seqsearch/internal/pipeline"
	"seqsearch/internal/writers"
	"seqsearch/pkg/api"
)

// Options control a search. Zero Threads uses every CPU.
type Options struct {
	MaxAccepts  int
	MaxRejects  int
	MinIdentity float64
	Strand      string // nucleotide only: plus | minus | both

	Threads int
	Ordered bool   // write hits in query order
	Header  bool   // CSV header line
	Format  string // alnout | csv | jsonl | sqlite; empty: from the output extension
	Logger  *zap.SugaredLogger
}

// DefaultOptions returns 1 accept, 16 rejects, 0.75 identity, both strands.
func DefaultOptions() Options {
	return Options{MaxAccepts: 1, MaxRejects: 16, MinIdentity: 0.75, Strand: "both"}
}

// NucleotideSearch searches queryPath against databasePath and writes hits
// to outputPath in o.Format, or the format the output extension names.
func NucleotideSearch(ctx context.Context, queryPath, databasePath, outputPath string, o Options) (api.SearchSummaryV1, error) {
	return run(ctx, alphabet.Nucleotide, queryPath, databasePath, outputPath, o)
}

// ProteinSearch is NucleotideSearch for protein sequences. Strand is ignored.
func ProteinSearch(ctx context.Context, queryPath, databasePath, outputPath string, o Options) (api.SearchSummaryV1, error) {
	return run(ctx, alphabet.Protein, queryPath, databasePath, outputPath, o)
}

func run(ctx context.Context, a alphabet.Alphabet, query, db, out string, o Options) (api.SearchSummaryV1, error) {
	var format writers.Format
	if o.Format != "" {
		f, err := writers.ParseFormat(o.Format)
		if err != nil {
			return api.SearchSummaryV1{}, err
		}
		format = f
	}
	sum, err := pipeline.Run(ctx, pipeline.Config{
		Alphabet:     a,
		QueryPath:    query,
		DatabasePath: db,
		OutputPath:   out,
		Output:       writers.Options{Format: format, Header: o.Header},
		Search: pipeline.SearchOptions{
			MaxAccepts:  o.MaxAccepts,
			MaxRejects:  o.MaxRejects,
			MinIdentity: o.MinIdentity,
			Strand:      o.Strand,
		},
		Searchers: o.Threads,
		Ordered:   o.Ordered,
		Logger:    o.Logger,
	})
	return sum.API(), err
}
