package index

import (
	"slices"

	"seqsearch/core/alphabet"
)

// ForEachKmer calls fn for every word of length k in residues that contains
// only unambiguous residues. pos is the 0-based start of the word.
func ForEachKmer(a alphabet.Alphabet, k int, residues []byte, fn func(pos int, kmer uint64)) {
	bits := a.BitsPerResidue()
	if k <= 0 || bits == 0 || len(residues) < k {
		return
	}
	mask := uint64(1)<<(bits*uint(k)) - 1
	var (
		kmer uint64
		run  int // valid residues ending at i
	)
	for i, b := range residues {
		c, ok := a.Code(b)
		if !ok {
			run, kmer = 0, 0
			continue
		}
		kmer = (kmer<<bits | c) & mask
		run++
		if run >= k {
			fn(i-k+1, kmer)
		}
	}
}

// UniqueKmers returns the distinct words of residues in ascending order.
// buf is reused when it has enough capacity.
func UniqueKmers(a alphabet.Alphabet, k int, residues []byte, buf []uint64) []uint64 {
	out := buf[:0]
	ForEachKmer(a, k, residues, func(_ int, kmer uint64) {
		out = append(out, kmer)
	})
	slices.Sort(out)
	return slices.Compact(out)
}
