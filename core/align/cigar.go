package align

import (
	"strconv"
	"strings"

	"seqsearch/internal/errors"
)

// Cigar run-length encodes two equal-length gapped strings: '=' where they
// agree, 'X' where they differ and 'D' where either holds a gap.
func Cigar(query, target string) (string, error) {
	if len(query) != len(target) {
		return "", errors.WithHint(
			errors.InvalidConfigf("cigar: query has %d columns, target %d", len(query), len(target)),
			"query and target must be aligned strings of the same length",
		)
	}
	var sb strings.Builder
	var op byte
	n := 0
	for i := 0; i < len(query); i++ {
		c := byte('X')
		switch {
		case query[i] == Gap || target[i] == Gap:
			c = 'D'
		case query[i] == target[i]:
			c = '='
		}
		if c != op && n > 0 {
			sb.WriteString(strconv.Itoa(n))
			sb.WriteByte(op)
			n = 0
		}
		op = c
		n++
	}
	if n > 0 {
		sb.WriteString(strconv.Itoa(n))
		sb.WriteByte(op)
	}
	return sb.String(), nil
}
