package writers

import (
	"fmt"
	"io"

	"seqsearch/core/align"
	"seqsearch/core/search"
	"seqsearch/internal/errors"
)

// alnLineWidth is the number of alignment columns per printed line.
const alnLineWidth = 60

// alnoutWriter prints a hit table and the pairwise alignment of each hit.
type alnoutWriter struct {
	*stream
}

func init() {
	Register(FormatAlnOut, func(path string, _ Options) (HitWriter, error) {
		s, err := openStream(path)
		if err != nil {
			return nil, err
		}
		return &alnoutWriter{stream: s}, nil
	})
}

func (w *alnoutWriter) Write(qh search.QueryHits) error {
	if err := writeAlnOut(w.bw, qh); err != nil && !IsBrokenPipe(err) {
		return errors.IOf(err, "write alnout")
	}
	return nil
}

func writeAlnOut(out io.Writer, qh search.QueryHits) error {
	q := qh.Query
	if _, err := fmt.Fprintf(out, "Query >%s\n %%Id   TLen  Target\n", q.ID); err != nil {
		return err
	}
	for _, h := range qh.Hits {
		if _, err := fmt.Fprintf(out, "%3.0f%% %6d  %s\n", 100*h.Identity, h.Target.Len(), h.Target.ID); err != nil {
			return err
		}
	}
	for _, h := range qh.Hits {
		if _, err := fmt.Fprintf(out, "\n Query %dnt >%s\nTarget %dnt >%s\n", q.Len(), q.ID, h.Target.Len(), h.Target.ID); err != nil {
			return err
		}
		if err := writeBlocks(out, h); err != nil {
			return err
		}
		a := h.Alignment
		gapPct := 0.0
		if a.Columns > 0 {
			gapPct = 100 * float64(a.Gaps) / float64(a.Columns)
		}
		if _, err := fmt.Fprintf(out, "\n%d cols, %d ids (%.1f%%), %d gaps (%.1f%%)\n",
			a.Columns, a.Matches, 100*h.Identity, a.Gaps, gapPct); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(out)
	return err
}

// writeBlocks prints the alignment in lines of alnLineWidth columns with
// 1-based residue coordinates at both ends.
func writeBlocks(out io.Writer, h search.Hit) error {
	a := h.Alignment
	qpos, tpos := a.QueryStart, a.TargetStart
	strand := h.Strand.Symbol()
	for lo := 0; lo < len(a.QueryRow); lo += alnLineWidth {
		hi := min(lo+alnLineWidth, len(a.QueryRow))
		qrow, trow := a.QueryRow[lo:hi], a.TargetRow[lo:hi]

		mid := make([]byte, len(qrow))
		qn, tn := 0, 0
		for i := range qrow {
			switch {
			case qrow[i] == align.Gap || trow[i] == align.Gap:
				mid[i] = ' '
			case qrow[i] == trow[i]:
				mid[i] = '|'
			default:
				mid[i] = ' '
			}
			if qrow[i] != align.Gap {
				qn++
			}
			if trow[i] != align.Gap {
				tn++
			}
		}
		if _, err := fmt.Fprintf(out, "\nQry %5d %s %s %d\n", qpos, strand, qrow, qpos+qn-1); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "%11s %s\n", "", mid); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "Tgt %5d + %s %d\n", tpos, trow, tpos+tn-1); err != nil {
			return err
		}
		qpos += qn
		tpos += tn
	}
	return nil
}
