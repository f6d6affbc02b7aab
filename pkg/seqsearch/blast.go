package seqsearch

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"seqsearch/core/align"
	"seqsearch/core/alphabet"
	"seqsearch/internal/errors"
	"seqsearch/internal/writers"
)

// Input is either a FASTA path or in-memory records.
type Input struct {
	Path    string
	Records []Record
}

// FromFile uses an existing FASTA file.
func FromFile(path string) Input { return Input{Path: path} }

// FromRecords uses records in the given order.
func FromRecords(recs ...Record) Input { return Input{Records: recs} }

// FromMap uses id -> sequence pairs, ordered by id.
func FromMap(m map[string]string) Input {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	recs := make([]Record, len(ids))
	for i, id := range ids {
		recs[i] = Record{ID: id, Sequence: m[id]}
	}
	return Input{Records: recs}
}

// materialize returns a FASTA path for in, writing records under dir.
func (in Input) materialize(dir, name string) (string, error) {
	if in.Records == nil {
		if in.Path == "" {
			return "", errors.InvalidConfigf("%s: neither a path nor records given", name)
		}
		if _, err := os.Stat(in.Path); err != nil {
			return "", errors.IOf(err, "%s file", name)
		}
		return in.Path, nil
	}
	path := filepath.Join(dir, name+".fasta")
	return path, WriteFasta(path, in.Records, 0)
}

// Table holds search results column by column, one row per hit. Column
// names follow the CSV header.
type Table struct {
	QueryID          []string
	TargetID         []string
	QueryMatchStart  []int
	QueryMatchEnd    []int
	TargetMatchStart []int
	TargetMatchEnd   []int
	QueryMatchSeq    []string
	TargetMatchSeq   []string
	NumColumns       []int
	NumMatches       []int
	NumMismatches    []int
	NumGaps          []int
	Identity         []float64
	Alignment        []string
}

// Len is the number of rows.
func (t Table) Len() int { return len(t.QueryID) }

// Blast searches query against database and returns the hit table in query
// order. name is the alphabet, "nucleotide" or "protein". Temporary files
// are removed before returning.
func Blast(ctx context.Context, query, database Input, name string, o Options) (Table, error) {
	dir, err := os.MkdirTemp("", "seqsearch-blast-")
	if err != nil {
		return Table{}, errors.IOf(err, "create temp dir")
	}
	defer func() { _ = os.RemoveAll(dir) }()

	out := filepath.Join(dir, "output.csv")
	o.Header = false
	if err := blast(ctx, dir, query, database, name, out, o); err != nil {
		return Table{}, err
	}
	return readTable(out)
}

// BlastToFile is Blast writing the results as CSV with a header line to
// outputPath instead of returning them. An empty outputPath picks
// output_<timestamp>.csv in the working directory. It returns the path
// written.
func BlastToFile(ctx context.Context, query, database Input, name, outputPath string, o Options) (string, error) {
	if outputPath == "" {
		outputPath = "output_" + time.Now().Format("2006-01-02-15:04:05") + ".csv"
	}
	dir, err := os.MkdirTemp("", "seqsearch-blast-")
	if err != nil {
		return "", errors.IOf(err, "create temp dir")
	}
	defer func() { _ = os.RemoveAll(dir) }()

	o.Header = true
	o.Format = string(writers.FormatCSV)
	if err := blast(ctx, dir, query, database, name, outputPath, o); err != nil {
		return "", err
	}
	return outputPath, nil
}

// blast materializes the inputs under dir and runs an ordered search.
func blast(ctx context.Context, dir string, query, database Input, name, out string, o Options) error {
	a, err := alphabet.Lookup(name)
	if err != nil {
		return err
	}
	qPath, err := query.materialize(dir, "query")
	if err != nil {
		return err
	}
	dbPath, err := database.materialize(dir, "database")
	if err != nil {
		return err
	}
	o.Ordered = true
	_, err = run(ctx, a, qPath, dbPath, out, o)
	return err
}

func readTable(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, errors.IOf(err, "read results")
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(writers.CSVHeader)
	var t Table
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return t, nil
		}
		if err != nil {
			return Table{}, errors.Mark(errors.Wrap(err, "read results"), errors.ErrFormat)
		}
		if err := t.append(rec); err != nil {
			return Table{}, err
		}
	}
}

func (t *Table) append(rec []string) error {
	ints := make([]int, 0, 8)
	for _, i := range []int{2, 3, 4, 5, 8, 9, 10, 11} {
		n, err := strconv.Atoi(rec[i])
		if err != nil {
			return errors.Formatf("results column %s: %q is not an integer", writers.CSVHeader[i], rec[i])
		}
		ints = append(ints, n)
	}
	id, err := strconv.ParseFloat(rec[12], 64)
	if err != nil {
		return errors.Formatf("results column Identity: %q is not a number", rec[12])
	}
	t.QueryID = append(t.QueryID, rec[0])
	t.TargetID = append(t.TargetID, rec[1])
	t.QueryMatchStart = append(t.QueryMatchStart, ints[0])
	t.QueryMatchEnd = append(t.QueryMatchEnd, ints[1])
	t.TargetMatchStart = append(t.TargetMatchStart, ints[2])
	t.TargetMatchEnd = append(t.TargetMatchEnd, ints[3])
	t.QueryMatchSeq = append(t.QueryMatchSeq, rec[6])
	t.TargetMatchSeq = append(t.TargetMatchSeq, rec[7])
	t.NumColumns = append(t.NumColumns, ints[4])
	t.NumMatches = append(t.NumMatches, ints[5])
	t.NumMismatches = append(t.NumMismatches, ints[6])
	t.NumGaps = append(t.NumGaps, ints[7])
	t.Identity = append(t.Identity, id)
	t.Alignment = append(t.Alignment, rec[13])
	return nil
}

// CigarString run-length encodes two equal-length gapped alignment rows as
// '=' (match), 'X' (mismatch) and 'D' (gap in either row).
func CigarString(query, target string) (string, error) {
	return align.Cigar(query, target)
}
