// Package seq holds the sequence record types shared by readers, the index,
// the search engine and the writers.
package seq

// Sequence is one parsed FASTA/FASTQ record.
type Sequence struct {
	ID       string // full header line without the leading '>' or '@'
	Residues []byte
	Quality  []byte // FASTQ only
}

func (s Sequence) Len() int { return len(s.Residues) }

// Batch is the unit the reader hands to the search stage.
type Batch []Sequence

// Count is the number of sequences in the batch; it drives progress accounting.
func (b Batch) Count() int { return len(b) }
