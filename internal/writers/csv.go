package writers

import (
	"encoding/csv"
	"strconv"

	"seqsearch/core/search"
	"seqsearch/internal/errors"
)

// CSVHeader lists the CSV columns in order.
var CSVHeader = []string{
	"QueryId", "TargetId",
	"QueryMatchStart", "QueryMatchEnd",
	"TargetMatchStart", "TargetMatchEnd",
	"QueryMatchSeq", "TargetMatchSeq",
	"NumColumns", "NumMatches", "NumMismatches", "NumGaps",
	"Identity", "Alignment",
}

type csvWriter struct {
	*stream
	cw *csv.Writer
}

func init() {
	Register(FormatCSV, func(path string, o Options) (HitWriter, error) {
		s, err := openStream(path)
		if err != nil {
			return nil, err
		}
		w := &csvWriter{stream: s, cw: csv.NewWriter(s.bw)}
		if o.Header {
			if err := w.cw.Write(CSVHeader); err != nil {
				_ = s.Close()
				return nil, errors.IOf(err, "write header")
			}
		}
		return w, nil
	})
}

func (w *csvWriter) Write(qh search.QueryHits) error {
	for i := range qh.Hits {
		h := ToAPIHit(qh, i)
		rec := []string{
			h.QueryID, h.TargetID,
			strconv.Itoa(h.QueryStart), strconv.Itoa(h.QueryEnd),
			strconv.Itoa(h.TargetStart), strconv.Itoa(h.TargetEnd),
			h.QueryMatchSeq, h.TargetMatchSeq,
			strconv.Itoa(h.Columns), strconv.Itoa(h.Matches),
			strconv.Itoa(h.Mismatches), strconv.Itoa(h.Gaps),
			strconv.FormatFloat(h.Identity, 'f', -1, 64),
			h.Cigar,
		}
		if err := w.cw.Write(rec); err != nil {
			return errors.IOf(err, "write csv")
		}
	}
	return nil
}

func (w *csvWriter) Flush() error {
	w.cw.Flush()
	if err := w.cw.Error(); err != nil && !IsBrokenPipe(err) {
		return errors.IOf(err, "write csv")
	}
	return w.stream.Flush()
}

func (w *csvWriter) Close() error {
	w.cw.Flush()
	return w.stream.Close()
}
