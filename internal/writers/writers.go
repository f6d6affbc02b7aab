package writers

import (
	"bufio"
	"io"
	"os"
	"sync"
	"syscall"

	"seqsearch/core/search"
	"seqsearch/internal/errors"
	"seqsearch/internal/jsonlutil"
	"seqsearch/pkg/api"
)

// HitWriter serializes the hits of one query at a time.
type HitWriter interface {
	Write(qh search.QueryHits) error
	Close() error
}

// Flusher is implemented by writers that buffer; the pipeline flushes after
// every result batch so a crash loses at most one batch.
type Flusher interface {
	Flush() error
}

// Options tune writer construction.
type Options struct {
	Format Format // empty: detect from the path
	Header bool   // CSV column header line
}

// stream is the shared plumbing for file-backed text formats: a pooled
// 64 KiB buffer over a file or stdout.
type stream struct {
	bw     *bufio.Writer
	closer io.Closer
}

func openStream(path string) (*stream, error) {
	if path == "-" {
		return &stream{bw: jsonlutil.GetBuffer(os.Stdout)}, nil
	}
	fh, err := os.Create(path)
	if err != nil {
		return nil, errors.IOf(err, "create")
	}
	return &stream{bw: jsonlutil.GetBuffer(fh), closer: fh}, nil
}

// IsBrokenPipe reports whether err means the reader went away (for example
// "seqsearch ... -o - | head"). Such errors end output quietly.
func IsBrokenPipe(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe)
}

func (s *stream) Flush() error {
	if err := s.bw.Flush(); err != nil && !IsBrokenPipe(err) {
		return errors.IOf(err, "flush")
	}
	return nil
}

func (s *stream) Close() error {
	err := s.Flush()
	jsonlutil.PutBuffer(s.bw)
	s.bw = nil
	if s.closer != nil {
		if cerr := s.closer.Close(); cerr != nil && err == nil {
			err = errors.IOf(cerr, "close")
		}
	}
	return err
}

// ToAPIHit converts one hit to the v1 wire type.
func ToAPIHit(qh search.QueryHits, rank int) api.HitV1 {
	h := qh.Hits[rank]
	a := h.Alignment
	return api.HitV1{
		QueryID:        qh.Query.ID,
		TargetID:       h.Target.ID,
		Strand:         h.Strand.Symbol(),
		QueryStart:     a.QueryStart,
		QueryEnd:       a.QueryEnd,
		TargetStart:    a.TargetStart,
		TargetEnd:      a.TargetEnd,
		QueryMatchSeq:  string(a.QueryRow),
		TargetMatchSeq: string(a.TargetRow),
		Columns:        a.Columns,
		Matches:        a.Matches,
		Mismatches:     a.Mismatches,
		Gaps:           a.Gaps,
		Identity:       h.Identity,
		Cigar:          a.CIGAR(),
		Rank:           rank + 1,
	}
}

type synchronized struct {
	mu sync.Mutex
	w  HitWriter
}

// Synchronized serializes calls to w so several goroutines can share it.
func Synchronized(w HitWriter) HitWriter {
	if _, ok := w.(*synchronized); ok {
		return w
	}
	return &synchronized{w: w}
}

func (s *synchronized) Write(qh search.QueryHits) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(qh)
}

func (s *synchronized) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.w.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

func (s *synchronized) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Close()
}
