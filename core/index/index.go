// Package index builds the in-memory k-mer index searched by core/search.
//
// A Database is built exactly once by Initialize and is read-only afterwards,
// so any number of searchers may share it without locking.
package index

import (
	"seqsearch/core/alphabet"
	"seqsearch/core/seq"
	"seqsearch/internal/errors"
)

// Phase identifies the two passes of Initialize.
type Phase int

const (
	PhaseStats Phase = iota + 1 // count words per sequence
	PhaseIndex                  // fill postings lists
)

func (p Phase) String() string {
	switch p {
	case PhaseStats:
		return "stats"
	case PhaseIndex:
		return "index"
	}
	return "unknown"
}

// ProgressFunc receives (phase, sequences done, sequences total).
type ProgressFunc func(phase Phase, current, total int)

type Database struct {
	alpha    alphabet.Alphabet
	word     int
	seqs     []seq.Sequence
	postings map[uint64][]uint32
	progress ProgressFunc
	frozen   bool
}

// New returns an empty database. wordSize <= 0 selects the alphabet default.
func New(a alphabet.Alphabet, wordSize int) (*Database, error) {
	if !a.Valid() {
		return nil, errors.InvalidConfigf("index: unknown alphabet")
	}
	if wordSize <= 0 {
		wordSize = a.WordSize
	}
	if wordSize > a.MaxWordSize() {
		return nil, errors.WithHintf(
			errors.InvalidConfigf("index: word size %d too large", wordSize),
			"%s words are at most %d residues", a.Name, a.MaxWordSize(),
		)
	}
	return &Database{alpha: a, word: wordSize}, nil
}

// SetProgressCallback installs fn; it must be called before Initialize.
func (d *Database) SetProgressCallback(fn ProgressFunc) { d.progress = fn }

func (d *Database) report(p Phase, cur, total int) {
	if d.progress != nil {
		d.progress(p, cur, total)
	}
}

// Initialize indexes seqs and freezes the database. The slice is retained.
func (d *Database) Initialize(seqs []seq.Sequence) error {
	if d.frozen {
		return errors.New("index: database already initialized")
	}
	if len(seqs) > int(^uint32(0)) {
		return errors.Newf("index: too many sequences (%d)", len(seqs))
	}
	total := len(seqs)

	counts := make(map[uint64]uint32)
	var buf []uint64
	d.report(PhaseStats, 0, total)
	for i := range seqs {
		buf = UniqueKmers(d.alpha, d.word, seqs[i].Residues, buf)
		for _, k := range buf {
			counts[k]++
		}
		d.report(PhaseStats, i+1, total)
	}

	postings := make(map[uint64][]uint32, len(counts))
	for k, n := range counts {
		postings[k] = make([]uint32, 0, n)
	}
	d.report(PhaseIndex, 0, total)
	for i := range seqs {
		buf = UniqueKmers(d.alpha, d.word, seqs[i].Residues, buf)
		for _, k := range buf {
			postings[k] = append(postings[k], uint32(i))
		}
		d.report(PhaseIndex, i+1, total)
	}

	d.seqs = seqs
	d.postings = postings
	d.frozen = true
	return nil
}

// Frozen reports whether Initialize has completed.
func (d *Database) Frozen() bool { return d.frozen }

func (d *Database) Len() int                    { return len(d.seqs) }
func (d *Database) Sequence(i int) seq.Sequence { return d.seqs[i] }
func (d *Database) WordSize() int               { return d.word }
func (d *Database) Alphabet() alphabet.Alphabet { return d.alpha }

// NumWords is the number of distinct indexed words.
func (d *Database) NumWords() int { return len(d.postings) }

// Postings lists, in ascending order, the sequences containing kmer.
// The returned slice must not be modified.
func (d *Database) Postings(kmer uint64) []uint32 { return d.postings[kmer] }
