// internal/jsonlutil/jsonlutil.go
package jsonlutil

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"
)

// Reuse a 64 KiB buffered writer across output writers to avoid per-writer mallocs.
var bwPool = sync.Pool{
	New: func() any {
		return bufio.NewWriterSize(io.Discard, 64<<10)
	},
}

// GetBuffer returns a pooled buffered writer bound to out.
func GetBuffer(out io.Writer) *bufio.Writer {
	bw := bwPool.Get().(*bufio.Writer)
	bw.Reset(out)
	return bw
}

// PutBuffer drops the reference to the bound writer and returns bw to the
// pool. The caller must have flushed it.
func PutBuffer(bw *bufio.Writer) {
	if bw == nil {
		return
	}
	bw.Reset(io.Discard)
	bwPool.Put(bw)
}

// Encoder writes values of type T as JSON lines. T should be a pkg/api wire
// type so the schema stays stable.
type Encoder[T any] struct {
	enc *json.Encoder
}

func NewEncoder[T any](w io.Writer) *Encoder[T] {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Encoder[T]{enc: enc}
}

func (e *Encoder[T]) Encode(v T) error { return e.enc.Encode(v) }
