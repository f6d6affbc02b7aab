package integration

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"seqsearch/internal/app"
)

func TestCtrlC_MidRun_Exit130(t *testing.T) {
	dir := t.TempDir()
	// Big enough that loading and indexing are still underway at cancel time.
	const Mb = 1 << 20
	db := write(t, filepath.Join(dir, "big.fa"), ">chr1\n"+strings.Repeat("ACGTTGCA", Mb)+"\n")
	q := write(t, filepath.Join(dir, "q.fa"), ">q\nACGTTGCAACGTTGCA\n")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	code := app.RunContext(ctx, []string{
		"nucleotide", "-q", q, "-d", db, "-o", filepath.Join(dir, "out.csv"), "--progress", "none",
	}, io.Discard, io.Discard)
	if code != 130 {
		t.Fatalf("expected exit 130 on cancel, got %d", code)
	}
}
