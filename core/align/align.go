// Package align scores a query against a target window.
//
// SemiGlobal aligns the whole query and lets the alignment start and stop
// anywhere in the target: target end gaps cost nothing.
package align

import (
	"strconv"
	"strings"
)

// Gap is the symbol used in gapped rows.
const Gap = '-'

// Scoring uses a linear gap penalty.
type Scoring struct {
	Match    int
	Mismatch int
	Gap      int
}

// DefaultScoring favours identity over length.
var DefaultScoring = Scoring{Match: 2, Mismatch: -4, Gap: -5}

// Alignment is one pairwise alignment. Coordinates are 1-based inclusive
// and relative to the sequences passed to SemiGlobal.
type Alignment struct {
	QueryStart, QueryEnd   int
	TargetStart, TargetEnd int

	QueryRow, TargetRow []byte // equal length, Gap in gaps

	Columns    int
	Matches    int
	Mismatches int
	Gaps       int // gap columns
	Score      int
}

// Identity is matches over alignment columns, 0 for an empty alignment.
func (a Alignment) Identity() float64 {
	if a.Columns == 0 {
		return 0
	}
	return float64(a.Matches) / float64(a.Columns)
}

// ShiftTarget moves target coordinates by off residues.
func (a *Alignment) ShiftTarget(off int) {
	a.TargetStart += off
	a.TargetEnd += off
}

// CIGAR encodes the rows as '=' match, 'X' mismatch, 'I' query residue
// against a target gap and 'D' target residue against a query gap.
func (a Alignment) CIGAR() string {
	var sb strings.Builder
	var op byte
	n := 0
	flush := func() {
		if n > 0 {
			sb.WriteString(strconv.Itoa(n))
			sb.WriteByte(op)
		}
	}
	for i := range a.QueryRow {
		var c byte
		switch q, t := a.QueryRow[i], a.TargetRow[i]; {
		case t == Gap:
			c = 'I'
		case q == Gap:
			c = 'D'
		case q == t:
			c = '='
		default:
			c = 'X'
		}
		if c != op {
			flush()
			op, n = c, 0
		}
		n++
	}
	flush()
	return sb.String()
}

const (
	fromDiag byte = iota
	fromUp        // query residue, target gap
	fromLeft      // target residue, query gap
)

// SemiGlobal aligns all of query against the best-scoring stretch of target.
// Ties prefer the leftmost end in the target and, during traceback, a
// diagonal step over a gap.
func SemiGlobal(query, target []byte, sc Scoring) Alignment {
	m, n := len(query), len(target)
	if m == 0 {
		return Alignment{}
	}
	w := n + 1
	score := make([]int, (m+1)*w)
	trace := make([]byte, (m+1)*w)

	for i := 1; i <= m; i++ {
		score[i*w] = i * sc.Gap
		trace[i*w] = fromUp
	}
	// row 0 stays zero: leading target residues are free
	for j := 1; j <= n; j++ {
		trace[j] = fromLeft
	}

	for i := 1; i <= m; i++ {
		qi := query[i-1]
		row, prev := i*w, (i-1)*w
		for j := 1; j <= n; j++ {
			s := sc.Mismatch
			if qi == target[j-1] {
				s = sc.Match
			}
			best, from := score[prev+j-1]+s, fromDiag
			if v := score[prev+j] + sc.Gap; v > best {
				best, from = v, fromUp
			}
			if v := score[row+j-1] + sc.Gap; v > best {
				best, from = v, fromLeft
			}
			score[row+j] = best
			trace[row+j] = from
		}
	}

	// trailing target residues are free: best cell in the last row
	last := m * w
	end := 0
	for j := 1; j <= n; j++ {
		if score[last+j] > score[last+end] {
			end = j
		}
	}

	aln := Alignment{Score: score[last+end]}
	qrow := make([]byte, 0, m+8)
	trow := make([]byte, 0, m+8)
	i, j := m, end
	for i > 0 {
		switch trace[i*w+j] {
		case fromDiag:
			qrow = append(qrow, query[i-1])
			trow = append(trow, target[j-1])
			if query[i-1] == target[j-1] {
				aln.Matches++
			} else {
				aln.Mismatches++
			}
			i--
			j--
		case fromUp:
			qrow = append(qrow, query[i-1])
			trow = append(trow, Gap)
			aln.Gaps++
			i--
		default:
			qrow = append(qrow, Gap)
			trow = append(trow, target[j-1])
			aln.Gaps++
			j--
		}
	}
	reverse(qrow)
	reverse(trow)

	aln.QueryRow, aln.TargetRow = qrow, trow
	aln.Columns = len(qrow)
	aln.QueryStart, aln.QueryEnd = 1, m
	aln.TargetStart, aln.TargetEnd = j+1, end
	if end == j {
		// query aligned entirely against gaps
		aln.TargetStart, aln.TargetEnd = 0, 0
	}
	return aln
}

func reverse(b []byte) {
	for l, r := 0, len(b)-1; l < r; l, r = l+1, r-1 {
		b[l], b[r] = b[r], b[l]
	}
}
