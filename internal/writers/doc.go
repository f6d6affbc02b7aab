// Package writers turns search hits into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (CSV columns, alignment text, SQL schema).
//   - core/search stays domain-only; internal/pipeline stays orchestration-only.
//   - JSONL goes through pkg/api (v1) for a stable wire format.
//
// Every HitWriter is driven by a single goroutine at a time; wrap it with
// Synchronized when several writer workers share one output.
package writers
