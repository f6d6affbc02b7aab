// Package alphabet describes the residue alphabets the search understands.
//
// An Alphabet is a small capability descriptor: the default indexing word
// size, whether strand selection applies, and how residues map to the
// compact codes used by the k-mer index.
package alphabet

import (
	"strings"

	"seqsearch/internal/errors"
)

type Alphabet struct {
	Name     string
	WordSize int  // default k-mer length for indexing
	Strands  bool // strand selection (plus/minus/both) applies

	residues string
	codes    [256]int8
	bits     uint
}

var (
	Nucleotide = newAlphabet("nucleotide", 8, true, "ACGT")
	Protein    = newAlphabet("protein", 5, false, "ACDEFGHIKLMNPQRSTVWY")
)

func newAlphabet(name string, word int, strands bool, residues string) Alphabet {
	a := Alphabet{Name: name, WordSize: word, Strands: strands, residues: residues}
	for i := range a.codes {
		a.codes[i] = -1
	}
	for i := 0; i < len(residues); i++ {
		a.codes[residues[i]] = int8(i)
		a.codes[residues[i]+'a'-'A'] = int8(i)
	}
	if strands {
		// RNA input indexes like DNA.
		a.codes['U'], a.codes['u'] = a.codes['T'], a.codes['T']
	}
	for (1 << a.bits) < len(residues) {
		a.bits++
	}
	return a
}

// Lookup resolves an alphabet by name.
func Lookup(name string) (Alphabet, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "nucleotide", "dna", "nt":
		return Nucleotide, nil
	case "protein", "aa", "prot":
		return Protein, nil
	}
	return Alphabet{}, errors.WithHint(
		errors.InvalidConfigf("unknown alphabet %q", name),
		"use 'nucleotide' or 'protein'",
	)
}

// Valid reports whether a is one of the known alphabets.
func (a Alphabet) Valid() bool { return a.bits > 0 }

// Code returns the compact code of residue b, or false for ambiguity codes
// and anything outside the alphabet.
func (a Alphabet) Code(b byte) (uint64, bool) {
	c := a.codes[b]
	if c < 0 {
		return 0, false
	}
	return uint64(c), true
}

// BitsPerResidue is the width of one residue in a packed k-mer.
func (a Alphabet) BitsPerResidue() uint { return a.bits }

// MaxWordSize is the longest word that still packs into 64 bits.
func (a Alphabet) MaxWordSize() int {
	if a.bits == 0 {
		return 0
	}
	return int(64 / a.bits)
}

// Normalize upper-cases residues in place. Nucleotide input also maps U to T.
// The zero Alphabet leaves input untouched.
func (a Alphabet) Normalize(seq []byte) []byte {
	if !a.Valid() {
		return seq
	}
	for i, b := range seq {
		if b >= 'a' && b <= 'z' {
			b -= 'a' - 'A'
		}
		if a.Strands && b == 'U' {
			b = 'T'
		}
		seq[i] = b
	}
	return seq
}
