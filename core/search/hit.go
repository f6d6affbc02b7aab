package search

import (
	"seqsearch/core/align"
	"seqsearch/core/alphabet"
	"seqsearch/core/seq"
)

// Hit is one accepted target for a query.
type Hit struct {
	TargetIndex int
	Target      seq.Sequence
	Strand      alphabet.Strand
	Alignment   align.Alignment
	Identity    float64
}

// HitList is ranked by identity, best first.
type HitList []Hit

// QueryHits pairs a query with its hits.
type QueryHits struct {
	Query seq.Sequence
	Hits  HitList
}

// ResultBatch is what searchers hand to writers.
type ResultBatch []QueryHits

// Count is the total number of hits in the batch.
func (b ResultBatch) Count() int {
	n := 0
	for _, qh := range b {
		n += len(qh.Hits)
	}
	return n
}
