package seqio

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strings"
	"sync/atomic"
)

// countingReader counts raw bytes pulled from the underlying file, before
// decompression, so byte progress matches the on-disk size.
type countingReader struct {
	r io.Reader
	n atomic.Int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n.Add(int64(n))
	return n, err
}

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// openPath opens path ("-" for stdin), transparently decompressing gzip
// detected by magic number (1F 8B) or a .gz suffix. It returns the
// decompressed stream, the raw byte counter and the on-disk size (0 when
// unknown, e.g. stdin or a pipe).
func openPath(path string) (io.ReadCloser, *countingReader, int64, error) {
	if path == "-" {
		cr := &countingReader{r: os.Stdin}
		rc, err := maybeGunzip(io.NopCloser(cr), cr, false)
		return rc, cr, 0, err
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, nil, 0, err
	}
	var total int64
	if st, err := fh.Stat(); err == nil && st.Mode().IsRegular() {
		total = st.Size()
	}
	cr := &countingReader{r: fh}
	rc, err := maybeGunzip(fh, cr, strings.HasSuffix(path, ".gz"))
	if err != nil {
		_ = fh.Close()
		return nil, nil, 0, err
	}
	return rc, cr, total, nil
}

func maybeGunzip(c io.Closer, cr *countingReader, gz bool) (io.ReadCloser, error) {
	br := bufio.NewReaderSize(cr, 64<<10)
	sig, _ := br.Peek(2)
	if gz || (len(sig) == 2 && sig[0] == 0x1f && sig[1] == 0x8b) {
		gr, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, c}}, nil
	}
	return &multiReadCloser{Reader: br, closers: []io.Closer{c}}, nil
}
