// Package jsonutil holds the indented-JSON helpers used for human-facing
// documents (version info, run summaries). Hit streams use jsonlutil.
package jsonutil

import (
	"bufio"
	"encoding/json"
	"io"
	"os"

	"seqsearch/internal/errors"
)

// EncodePretty writes v as indented JSON to w.
func EncodePretty(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// WriteFile writes v as indented JSON to path, replacing it.
func WriteFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.IOf(err, "create %s", path)
	}
	bw := bufio.NewWriter(f)
	if err := EncodePretty(bw, v); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "encode %s", path)
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return errors.IOf(err, "write %s", path)
	}
	return errors.IOf(f.Close(), "close %s", path)
}
