package alphabet

import "seqsearch/internal/errors"

// Strand selects which orientation(s) of a nucleotide query are searched.
type Strand int

const (
	StrandPlus Strand = iota + 1
	StrandMinus
	StrandBoth
)

// ParseStrand accepts exactly "plus", "minus" or "both".
func ParseStrand(s string) (Strand, error) {
	switch s {
	case "plus":
		return StrandPlus, nil
	case "minus":
		return StrandMinus, nil
	case "both":
		return StrandBoth, nil
	}
	return 0, errors.WithHint(
		errors.InvalidConfigf("invalid strand %q", s),
		"strand must be 'plus', 'minus' or 'both'",
	)
}

func (s Strand) String() string {
	switch s {
	case StrandPlus:
		return "plus"
	case StrandMinus:
		return "minus"
	case StrandBoth:
		return "both"
	}
	return "invalid"
}

// Symbol is the one-character form used in alignment output.
func (s Strand) Symbol() string {
	if s == StrandMinus {
		return "-"
	}
	return "+"
}

// Includes reports whether searching s covers the single orientation o.
func (s Strand) Includes(o Strand) bool {
	return s == o || s == StrandBoth
}
