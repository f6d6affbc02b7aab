package config

import (
	"seqsearch/core/alphabet"
	"seqsearch/internal/pipeline"
	"seqsearch/internal/writers"
)

// ToPipeline converts c into a run description for alphabet a. Runtime
// collaborators (logger, progress, metrics) are left for the caller.
func (c Config) ToPipeline(a alphabet.Alphabet) (pipeline.Config, error) {
	out := writers.Options{Header: c.Output.Header}
	if c.Output.Format != "" {
		f, err := writers.ParseFormat(c.Output.Format)
		if err != nil {
			return pipeline.Config{}, err
		}
		out.Format = f
	}
	return pipeline.Config{
		Alphabet:     a,
		QueryPath:    c.Query,
		DatabasePath: c.Database,
		OutputPath:   c.Out,
		Output:       out,
		Search: pipeline.SearchOptions{
			MaxAccepts:  c.Search.MaxAccepts,
			MaxRejects:  c.Search.MaxRejects,
			MinIdentity: c.Search.MinIdentity,
			Strand:      c.Search.Strand,
		},
		WordSize:      c.Search.WordSize,
		Searchers:     c.Pipeline.Threads,
		Writers:       c.Pipeline.Writers,
		Ordered:       c.Pipeline.Ordered,
		BatchSize:     c.Pipeline.BatchSize,
		QueueCapacity: c.Pipeline.QueueCapacity,
	}, nil
}
