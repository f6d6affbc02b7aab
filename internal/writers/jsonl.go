package writers

import (
	"seqsearch/core/search"
	"seqsearch/internal/errors"
	"seqsearch/internal/jsonlutil"
	"seqsearch/pkg/api"
)

// jsonlWriter streams one api.HitV1 object per line.
type jsonlWriter struct {
	*stream
	enc *jsonlutil.Encoder[api.HitV1]
}

func init() {
	Register(FormatJSONL, func(path string, _ Options) (HitWriter, error) {
		s, err := openStream(path)
		if err != nil {
			return nil, err
		}
		enc := jsonlutil.NewEncoder[api.HitV1](s.bw)
		return &jsonlWriter{stream: s, enc: enc}, nil
	})
}

func (w *jsonlWriter) Write(qh search.QueryHits) error {
	for i := range qh.Hits {
		if err := w.enc.Encode(ToAPIHit(qh, i)); err != nil {
			if IsBrokenPipe(err) {
				return nil
			}
			return errors.IOf(err, "write jsonl")
		}
	}
	return nil
}
