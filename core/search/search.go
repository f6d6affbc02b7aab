// Package search runs one query at a time against a frozen index.Database.
//
// Candidates are targets sharing at least one indexed word with the query,
// visited in order of shared words. Each is aligned; it is accepted when the
// identity reaches Params.MinIdentity. The search for a query stops after
// MaxAccepts accepts or MaxRejects consecutive rejects.
package search

import (
	"cmp"
	"slices"

	"seqsearch/core/align"
	"seqsearch/core/alphabet"
	"seqsearch/core/index"
	"seqsearch/core/seq"
	"seqsearch/internal/errors"
)

// Searcher is owned by a single goroutine; the database it reads is shared.
type Searcher struct {
	db *index.Database
	p  Params

	shared  []uint32 // per target, reset after each strand
	touched []uint32
	words   []uint64
}

// New binds a searcher to db, which must already be initialized.
func New(db *index.Database, p Params) (*Searcher, error) {
	if db == nil || !db.Frozen() {
		return nil, errors.New("search: database is not initialized")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Searcher{db: db, p: p, shared: make([]uint32, db.Len())}, nil
}

type candidate struct {
	target int
	shared uint32
	strand alphabet.Strand
	query  []byte
	words  map[uint64]int // word -> first position in query
}

// Query returns the accepted hits for q, best identity first.
func (s *Searcher) Query(q seq.Sequence) (HitList, error) {
	var cands []candidate
	for _, st := range s.strands() {
		residues := q.Residues
		if st == alphabet.StrandMinus {
			residues = alphabet.ReverseComplement(q.Residues)
		}
		cands = append(cands, s.candidates(residues, st)...)
	}
	slices.SortStableFunc(cands, func(a, b candidate) int {
		if c := cmp.Compare(b.shared, a.shared); c != 0 {
			return c
		}
		return cmp.Compare(a.target, b.target)
	})

	var (
		hits     HitList
		accepted = make(map[int]bool)
		rejects  int
	)
	for _, c := range cands {
		if accepted[c.target] {
			continue
		}
		aln := s.align(c)
		id := aln.Identity()
		if id >= s.p.MinIdentity {
			accepted[c.target] = true
			hits = append(hits, Hit{
				TargetIndex: c.target,
				Target:      s.db.Sequence(c.target),
				Strand:      c.strand,
				Alignment:   aln,
				Identity:    id,
			})
			rejects = 0
			if len(hits) >= s.p.MaxAccepts {
				break
			}
			continue
		}
		rejects++
		if s.p.MaxRejects > 0 && rejects >= s.p.MaxRejects {
			break
		}
	}

	slices.SortStableFunc(hits, func(a, b Hit) int {
		if c := cmp.Compare(b.Identity, a.Identity); c != 0 {
			return c
		}
		return cmp.Compare(a.TargetIndex, b.TargetIndex)
	})
	return hits, nil
}

func (s *Searcher) strands() []alphabet.Strand {
	switch s.p.Strand {
	case alphabet.StrandMinus:
		return []alphabet.Strand{alphabet.StrandMinus}
	case alphabet.StrandBoth:
		return []alphabet.Strand{alphabet.StrandPlus, alphabet.StrandMinus}
	}
	return []alphabet.Strand{alphabet.StrandPlus}
}

// candidates counts shared unique words per target for one strand.
func (s *Searcher) candidates(residues []byte, st alphabet.Strand) []candidate {
	a, k := s.db.Alphabet(), s.db.WordSize()
	s.words = index.UniqueKmers(a, k, residues, s.words)
	if len(s.words) == 0 {
		return nil
	}
	for _, w := range s.words {
		for _, t := range s.db.Postings(w) {
			if s.shared[t] == 0 {
				s.touched = append(s.touched, t)
			}
			s.shared[t]++
		}
	}
	if len(s.touched) == 0 {
		return nil
	}

	first := make(map[uint64]int, len(s.words))
	index.ForEachKmer(a, k, residues, func(pos int, w uint64) {
		if _, ok := first[w]; !ok {
			first[w] = pos
		}
	})
	out := make([]candidate, 0, len(s.touched))
	for _, t := range s.touched {
		out = append(out, candidate{
			target: int(t),
			shared: s.shared[t],
			strand: st,
			query:  residues,
			words:  first,
		})
		s.shared[t] = 0
	}
	s.touched = s.touched[:0]
	return out
}

// align aligns the query against a window around the most supported diagonal.
func (s *Searcher) align(c candidate) align.Alignment {
	target := s.db.Sequence(c.target).Residues
	votes := make(map[int]int)
	index.ForEachKmer(s.db.Alphabet(), s.db.WordSize(), target, func(pos int, w uint64) {
		if qpos, ok := c.words[w]; ok {
			votes[pos-qpos]++
		}
	})
	diag, best := 0, -1
	for d, n := range votes {
		if n > best || (n == best && d < diag) {
			diag, best = d, n
		}
	}

	m := len(c.query)
	pad := m/2 + 8
	lo := max(diag-pad, 0)
	hi := min(diag+m+pad, len(target))
	if lo >= hi {
		lo, hi = 0, len(target)
	}
	aln := align.SemiGlobal(c.query, target[lo:hi], s.p.Scoring)
	if aln.TargetEnd > 0 {
		aln.ShiftTarget(lo)
	}
	return aln
}
