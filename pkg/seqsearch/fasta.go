package seqsearch

import (
	"bufio"
	"os"
	"strings"

	"seqsearch/internal/errors"
)

// Record is one named sequence.
type Record struct {
	ID       string
	Sequence string
}

// ReadFasta reads every record of a plain FASTA file in file order. The ID
// is the whole header line without '>'; sequence lines are concatenated
// as written.
func ReadFasta(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.IOf(err, "read fasta")
	}
	defer func() { _ = f.Close() }()

	var (
		recs []Record
		seq  strings.Builder
	)
	flush := func() {
		if len(recs) > 0 {
			recs[len(recs)-1].Sequence = seq.String()
			seq.Reset()
		}
	}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
		case line[0] == '>':
			flush()
			recs = append(recs, Record{ID: strings.TrimSpace(line[1:])})
		case len(recs) == 0:
			return nil, errors.Formatf("%s:%d: sequence data before the first header", path, n)
		default:
			seq.WriteString(line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.IOf(err, "read fasta %s", path)
	}
	flush()
	return recs, nil
}

// WriteFasta writes recs to path. wrap > 0 splits sequence lines after that
// many residues; 0 writes each sequence on one line.
func WriteFasta(path string, recs []Record, wrap int) error {
	if wrap < 0 {
		return errors.InvalidConfigf("fasta line width must be >= 0, got %d", wrap)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.IOf(err, "write fasta")
	}
	bw := bufio.NewWriter(f)
	for _, r := range recs {
		_, _ = bw.WriteString(">" + r.ID + "\n")
		s := r.Sequence
		if wrap == 0 {
			_, _ = bw.WriteString(s + "\n")
			continue
		}
		for len(s) > wrap {
			_, _ = bw.WriteString(s[:wrap] + "\n")
			s = s[wrap:]
		}
		if s != "" {
			_, _ = bw.WriteString(s + "\n")
		}
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return errors.IOf(err, "write fasta %s", path)
	}
	return errors.IOf(f.Close(), "write fasta %s", path)
}
