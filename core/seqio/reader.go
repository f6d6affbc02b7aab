// Package seqio reads FASTA and FASTQ files record by record while tracking
// byte-level progress.
//
// Format is detected from the first non-blank byte ('>' FASTA, '@' FASTQ).
// Gzip input and "-" (stdin) are handled transparently.
package seqio

import (
	"bufio"
	"bytes"
	"io"

	"seqsearch/core/alphabet"
	"seqsearch/core/seq"
	"seqsearch/internal/errors"
)

// Format of a sequence file.
type Format int

const (
	FormatUnknown Format = iota
	FormatFASTA
	FormatFASTQ
)

func (f Format) String() string {
	switch f {
	case FormatFASTA:
		return "fasta"
	case FormatFASTQ:
		return "fastq"
	}
	return "unknown"
}

// Reader streams records from one file. It is not safe for concurrent use.
type Reader struct {
	src     io.ReadCloser
	counter *countingReader
	br      *bufio.Reader
	total   int64
	alpha   alphabet.Alphabet
	format  Format

	header  []byte // next record's header line, marker stripped
	pending bool   // header holds a record not yet returned; it may be empty
	line    int
	err     error
}

// Open opens path and detects its format. The alphabet normalizes residues;
// pass the zero Alphabet to keep them verbatim.
func Open(path string, a alphabet.Alphabet) (*Reader, error) {
	src, counter, total, err := openPath(path)
	if err != nil {
		return nil, errors.IOf(err, "open %s", path)
	}
	r := &Reader{src: src, counter: counter, total: total, alpha: a}
	if err := r.prime(); err != nil {
		_ = src.Close()
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return r, nil
}

// NewReader wraps an in-memory or already-open stream. total may be 0 when
// the size is unknown.
func NewReader(r io.Reader, total int64, a alphabet.Alphabet) (*Reader, error) {
	cr := &countingReader{r: r}
	rd := &Reader{
		src:     io.NopCloser(cr),
		counter: cr,
		total:   total,
		alpha:   a,
	}
	if err := rd.prime(); err != nil {
		return nil, err
	}
	return rd, nil
}

// prime skips leading blank lines and reads the first header.
func (r *Reader) prime() error {
	r.br = bufio.NewReaderSize(r.src, 64<<10)
	for {
		line, err := r.readLine()
		if len(line) > 0 {
			switch line[0] {
			case '>':
				r.format = FormatFASTA
			case '@':
				r.format = FormatFASTQ
			default:
				return errors.WithHint(
					errors.Formatf("line %d: expected a '>' or '@' header", r.line),
					"only FASTA and FASTQ input is supported",
				)
			}
			r.setHeader(line)
			return nil
		}
		if err == io.EOF {
			return nil // empty file: no records
		}
		if err != nil {
			return errors.IOf(err, "scan")
		}
	}
}

// setHeader stores the header line of the next record. A bare marker is a
// record with an empty ID.
func (r *Reader) setHeader(line []byte) {
	r.header = append(r.header[:0], line[1:]...)
	r.pending = true
}

// takeHeader hands the pending header to the record being read.
func (r *Reader) takeHeader() string {
	id := string(r.header)
	r.pending = false
	return id
}

// readLine returns the next line with surrounding whitespace trimmed.
func (r *Reader) readLine() ([]byte, error) {
	line, err := r.br.ReadBytes('\n')
	if len(line) > 0 || err == nil {
		r.line++
	}
	return bytes.TrimSpace(line), err
}

// Format reports the detected file format.
func (r *Reader) Format() Format { return r.format }

// EndOfFile reports whether every record has been returned.
func (r *Reader) EndOfFile() bool { return !r.pending || r.err != nil }

// NumBytesRead is the number of raw bytes consumed from the source so far.
func (r *Reader) NumBytesRead() int64 { return r.counter.n.Load() }

// NumBytesTotal is the source size in bytes, or 0 when unknown.
func (r *Reader) NumBytesTotal() int64 { return r.total }

// ReadOne returns the next record, or io.EOF once the file is exhausted.
func (r *Reader) ReadOne() (seq.Sequence, error) {
	if r.err != nil {
		return seq.Sequence{}, r.err
	}
	if !r.pending {
		return seq.Sequence{}, io.EOF
	}
	var (
		s   seq.Sequence
		err error
	)
	if r.format == FormatFASTQ {
		s, err = r.readFASTQ()
	} else {
		s, err = r.readFASTA()
	}
	if err != nil {
		r.err = err
		return seq.Sequence{}, err
	}
	s.Residues = r.alpha.Normalize(s.Residues)
	return s, nil
}

// Read replaces the contents of out with up to n records. It returns nil
// with a short (possibly empty) batch at end of file.
func (r *Reader) Read(n int, out *seq.Batch) error {
	if n <= 0 {
		n = 1
	}
	batch := make(seq.Batch, 0, n)
	for len(batch) < n {
		s, err := r.ReadOne()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		batch = append(batch, s)
	}
	*out = batch
	return nil
}

// Close releases the underlying file.
func (r *Reader) Close() error { return r.src.Close() }

func (r *Reader) readFASTA() (seq.Sequence, error) {
	s := seq.Sequence{ID: r.takeHeader()}
	for {
		line, err := r.readLine()
		if len(line) > 0 {
			if line[0] == '>' {
				r.setHeader(line)
				return s, nil
			}
			s.Residues = append(s.Residues, line...)
		}
		if err == io.EOF {
			return s, nil
		}
		if err != nil {
			return s, errors.IOf(err, "scan")
		}
	}
}

func (r *Reader) readFASTQ() (seq.Sequence, error) {
	s := seq.Sequence{ID: r.takeHeader()}

	// sequence lines up to the '+' separator
	for {
		line, err := r.readLine()
		if len(line) > 0 && line[0] == '+' {
			break
		}
		s.Residues = append(s.Residues, line...)
		if err == io.EOF {
			return s, errors.Formatf("line %d: record %q has no '+' separator", r.line, s.ID)
		}
		if err != nil {
			return s, errors.IOf(err, "scan")
		}
	}

	// quality lines until they cover the sequence ('@' is a legal quality char)
	for len(s.Quality) < len(s.Residues) {
		line, err := r.readLine()
		s.Quality = append(s.Quality, line...)
		if err == io.EOF {
			break
		}
		if err != nil {
			return s, errors.IOf(err, "scan")
		}
	}
	if len(s.Quality) != len(s.Residues) {
		return s, errors.Formatf("line %d: record %q has %d residues but %d quality scores",
			r.line, s.ID, len(s.Residues), len(s.Quality))
	}

	for {
		line, err := r.readLine()
		if len(line) > 0 {
			if line[0] != '@' {
				return s, errors.Formatf("line %d: expected '@' header", r.line)
			}
			r.setHeader(line)
			return s, nil
		}
		if err == io.EOF {
			return s, nil
		}
		if err != nil {
			return s, errors.IOf(err, "scan")
		}
	}
}
