// Package seqsearch is the embeddable entry point: run nucleotide or protein
// searches over FASTA files, or over in-memory records with Blast, and read
// the results back as a column table.
//
//	tbl, err := seqsearch.Blast(ctx,
//	    seqsearch.FromRecords(seqsearch.Record{ID: "q1", Sequence: "ATGCATCGGGCGAATT"}),
//	    seqsearch.FromFile("ref.fa"),
//	    "nucleotide", seqsearch.DefaultOptions())
package seqsearch
