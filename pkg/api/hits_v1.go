// pkg/api/hits_v1.go
package api

// HitV1 is the stable JSON/JSONL schema for one accepted hit.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type HitV1 struct {
	QueryID        string  `json:"query_id"`
	TargetID       string  `json:"target_id"`
	Strand         string  `json:"strand"` // "+" | "-"
	QueryStart     int     `json:"query_start"`
	QueryEnd       int     `json:"query_end"`
	TargetStart    int     `json:"target_start"`
	TargetEnd      int     `json:"target_end"`
	QueryMatchSeq  string  `json:"query_match_seq"`
	TargetMatchSeq string  `json:"target_match_seq"`
	Columns        int     `json:"columns"`
	Matches        int     `json:"matches"`
	Mismatches     int     `json:"mismatches"`
	Gaps           int     `json:"gaps"`
	Identity       float64 `json:"identity"`
	Cigar          string  `json:"cigar"`
	Rank           int     `json:"rank,omitempty"` // 1-based position in the query's hit list
}

// SearchSummaryV1 describes a finished run.
type SearchSummaryV1 struct {
	RunID             string  `json:"run_id"`
	Alphabet          string  `json:"alphabet"`
	DatabaseSequences int     `json:"database_sequences"`
	Queries           int     `json:"queries"`
	QueriesWithHits   int     `json:"queries_with_hits"`
	Hits              int     `json:"hits"`
	Seconds           float64 `json:"seconds"`
}
