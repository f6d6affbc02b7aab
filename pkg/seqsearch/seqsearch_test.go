package seqsearch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seqsearch/internal/errors"
	"seqsearch/internal/writers"
)

var (
	dnaExample = []Record{
		{ID: "DNASeq1", Sequence: "ATGCATCGGGCGAATT"},
		{ID: "DNASeq2", Sequence: "TAGCTGGTGGACCACC"},
	}
	dbExample = []Record{
		{ID: "DBSeq1", Sequence: "TTGGATGCATCGGGCGAATTAACC"},
		{ID: "DBSeq2", Sequence: "AACCTAGCTGGTGCACCACCGGTT"},
	}
	protExample = []Record{
		{ID: "ProtSeq1", Sequence: "LERAQC"},
		{ID: "ProtSeq2", Sequence: "DYMFKW"},
	}
)

func TestFastaRoundTrip(t *testing.T) {
	for _, recs := range [][]Record{dnaExample, protExample} {
		path := filepath.Join(t.TempDir(), "x.fasta")
		require.NoError(t, WriteFasta(path, recs, 0))
		got, err := ReadFasta(path)
		require.NoError(t, err)
		assert.Equal(t, recs, got)
	}
}

func TestWriteFastaWrap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wrap.fasta")
	require.NoError(t, WriteFasta(path, dbExample[:1], 10))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ">DBSeq1\nTTGGATGCAT\nCGGGCGAATT\nAACC\n", string(data))

	got, err := ReadFasta(path)
	require.NoError(t, err)
	assert.Equal(t, dbExample[:1], got)

	err = WriteFasta(path, dbExample, -1)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestReadFastaErrors(t *testing.T) {
	_, err := ReadFasta(filepath.Join(t.TempDir(), "missing.fasta"))
	assert.True(t, errors.Is(err, errors.ErrIO))

	path := filepath.Join(t.TempDir(), "bad.fasta")
	require.NoError(t, os.WriteFile(path, []byte("ACGT\n>x\nAC\n"), 0o644))
	_, err = ReadFasta(path)
	assert.True(t, errors.Is(err, errors.ErrFormat))
}

func TestBlast(t *testing.T) {
	tbl, err := Blast(context.Background(), FromRecords(dnaExample...), FromRecords(dbExample...), "nucleotide", DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())

	assert.Equal(t, "DNASeq1", tbl.QueryID[0])
	assert.Equal(t, "DBSeq1", tbl.TargetID[0])
	assert.Equal(t, "ATGCATCGGGCGAATT", tbl.QueryMatchSeq[0])
	assert.Equal(t, "ATGCATCGGGCGAATT", tbl.TargetMatchSeq[0])
	assert.Equal(t, 1.0, tbl.Identity[0])
	assert.Equal(t, 5, tbl.TargetMatchStart[0])

	assert.Equal(t, "DNASeq2", tbl.QueryID[1])
	assert.Equal(t, "DBSeq2", tbl.TargetID[1])
	assert.Equal(t, "TAGCTGGTGGACCACC", tbl.QueryMatchSeq[1])
	assert.Equal(t, "TAGCTGGTGCACCACC", tbl.TargetMatchSeq[1])
	assert.Equal(t, 1, tbl.NumMismatches[1])
	assert.Equal(t, "9=1X6=", tbl.Alignment[1])
}

func TestBlastFromFiles(t *testing.T) {
	dir := t.TempDir()
	q := filepath.Join(dir, "q.fasta")
	db := filepath.Join(dir, "db.fasta")
	require.NoError(t, WriteFasta(q, dnaExample, 0))
	require.NoError(t, WriteFasta(db, dbExample, 7))

	tbl, err := Blast(context.Background(), FromFile(q), FromFile(db), "nucleotide", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"DNASeq1", "DNASeq2"}, tbl.QueryID)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "caller files are left alone")
}

func TestBlastErrors(t *testing.T) {
	ctx := context.Background()
	_, err := Blast(ctx, FromRecords(dnaExample...), FromRecords(dbExample...), "rna", DefaultOptions())
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))

	_, err = Blast(ctx, FromFile(filepath.Join(t.TempDir(), "nope.fa")), FromRecords(dbExample...), "nucleotide", DefaultOptions())
	assert.True(t, errors.Is(err, errors.ErrIO))

	_, err = Blast(ctx, Input{}, FromRecords(dbExample...), "nucleotide", DefaultOptions())
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))

	o := DefaultOptions()
	o.Strand = "sideways"
	_, err = Blast(ctx, FromRecords(dnaExample...), FromRecords(dbExample...), "nucleotide", o)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestProteinSearch(t *testing.T) {
	dir := t.TempDir()
	q := filepath.Join(dir, "q.fasta")
	db := filepath.Join(dir, "db.fasta")
	require.NoError(t, WriteFasta(q, []Record{{ID: "p1", Sequence: "MKLVRAQCDEFW"}}, 0))
	require.NoError(t, WriteFasta(db, []Record{
		{ID: "d1", Sequence: "GGGMKLVRAQCDEFWGGG"},
		{ID: "d2", Sequence: "PPPPPPPPPPPP"},
	}, 0))

	sum, err := ProteinSearch(context.Background(), q, db, filepath.Join(dir, "out.jsonl"), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "protein", sum.Alphabet)
	assert.Equal(t, 1, sum.Queries)
	assert.Equal(t, 1, sum.Hits)
}

func TestCigarString(t *testing.T) {
	got, err := CigarString("ATGC", "TTGC")
	require.NoError(t, err)
	assert.Equal(t, "1X3=", got)

	_, err = CigarString("AATGC", "TTGC")
	assert.Error(t, err)
}

func TestBlastEmptyQueryID(t *testing.T) {
	query := FromRecords(
		Record{ID: "first", Sequence: "GTGTGTGTGTGTGTGTGTGT"},
		Record{ID: "", Sequence: dnaExample[0].Sequence},
		Record{ID: "last", Sequence: dnaExample[1].Sequence},
	)
	tbl, err := Blast(context.Background(), query, FromRecords(dbExample...), "nucleotide", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"", "last"}, tbl.QueryID)
	assert.Equal(t, []string{"DBSeq1", "DBSeq2"}, tbl.TargetID)
}

func TestBlastToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "results.txt")
	path, err := BlastToFile(context.Background(), FromRecords(dnaExample...), FromRecords(dbExample...), "nucleotide", out, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(writers.CSVHeader, ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "DNASeq1,DBSeq1,"))
	assert.True(t, strings.HasPrefix(lines[2], "DNASeq2,DBSeq2,"))
}

func TestBlastToFileDefaultName(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	path, err := BlastToFile(context.Background(), FromRecords(dnaExample...), FromRecords(dbExample...), "nucleotide", "", DefaultOptions())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "output_"))
	assert.True(t, strings.HasSuffix(path, ".csv"))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestSearchFormatOverride(t *testing.T) {
	dir := t.TempDir()
	q := filepath.Join(dir, "q.fasta")
	db := filepath.Join(dir, "db.fasta")
	require.NoError(t, WriteFasta(q, dnaExample, 0))
	require.NoError(t, WriteFasta(db, dbExample, 0))

	o := DefaultOptions()
	o.Format = "jsonl"
	out := filepath.Join(dir, "hits.out")
	_, err := NucleotideSearch(context.Background(), q, db, out, o)
	require.NoError(t, err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{"))

	o.Format = "xml"
	_, err = NucleotideSearch(context.Background(), q, db, out, o)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}
