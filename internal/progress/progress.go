// Package progress defines the stage progress contract between the pipeline
// and whatever renders it (terminal bars, log lines, metrics).
package progress

import "sync"

// Stage is one phase of a search run, in execution order.
type Stage int

const (
	StageLoad Stage = iota
	StageIndexStats
	StageIndexBuild
	StageReadQueries
	StageSearch
	StageWrite
)

var stageInfo = [...]struct{ name, title, unit string }{
	StageLoad:        {"load", "Read database", "bytes"},
	StageIndexStats:  {"index-stats", "Analyze database", "sequences"},
	StageIndexBuild:  {"index-build", "Index database", "sequences"},
	StageReadQueries: {"read-queries", "Read queries", "bytes"},
	StageSearch:      {"search", "Search database", "queries"},
	StageWrite:       {"write", "Write hits", "hits"},
}

// Stages lists every stage in execution order.
func Stages() []Stage {
	return []Stage{StageLoad, StageIndexStats, StageIndexBuild, StageReadQueries, StageSearch, StageWrite}
}

func (s Stage) valid() bool { return s >= 0 && int(s) < len(stageInfo) }

func (s Stage) String() string {
	if !s.valid() {
		return "unknown"
	}
	return stageInfo[s].name
}

// Title is the human label shown next to a progress bar.
func (s Stage) Title() string {
	if !s.valid() {
		return "Unknown"
	}
	return stageInfo[s].title
}

// Unit names what current and total count for the stage.
func (s Stage) Unit() string {
	if !s.valid() {
		return ""
	}
	return stageInfo[s].unit
}

// Sink receives progress updates. Update may be called from several
// goroutines at once; total may grow between calls.
type Sink interface {
	Update(stage Stage, current, total uint64)
}

// Activator is implemented by sinks that care which stage is in the
// foreground.
type Activator interface {
	Activate(stage Stage)
}

// Activate marks stage as the foreground stage if s supports it.
func Activate(s Sink, stage Stage) {
	if a, ok := s.(Activator); ok {
		a.Activate(stage)
	}
}

// Nop discards updates.
type Nop struct{}

func (Nop) Update(Stage, uint64, uint64) {}

// SinkFunc adapts a function to Sink.
type SinkFunc func(stage Stage, current, total uint64)

func (f SinkFunc) Update(stage Stage, current, total uint64) { f(stage, current, total) }

type multi []Sink

// Multi fans updates out to every non-nil sink.
func Multi(sinks ...Sink) Sink {
	var m multi
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	if len(m) == 1 {
		return m[0]
	}
	return m
}

func (m multi) Update(stage Stage, current, total uint64) {
	for _, s := range m {
		s.Update(stage, current, total)
	}
}

func (m multi) Activate(stage Stage) {
	for _, s := range m {
		Activate(s, stage)
	}
}

// Event is one recorded update.
type Event struct {
	Stage          Stage
	Current, Total uint64
}

// Recorder keeps every update; it is meant for tests and summaries.
type Recorder struct {
	mu        sync.Mutex
	events    []Event
	activated []Stage
}

func (r *Recorder) Update(stage Stage, current, total uint64) {
	r.mu.Lock()
	r.events = append(r.events, Event{stage, current, total})
	r.mu.Unlock()
}

func (r *Recorder) Activate(stage Stage) {
	r.mu.Lock()
	r.activated = append(r.activated, stage)
	r.mu.Unlock()
}

// Events returns a copy of the recorded updates, optionally filtered to the
// given stages.
func (r *Recorder) Events(stages ...Stage) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, 0, len(r.events))
	for _, e := range r.events {
		if len(stages) == 0 || containsStage(stages, e.Stage) {
			out = append(out, e)
		}
	}
	return out
}

// Last is the most recent update for stage.
func (r *Recorder) Last(stage Stage) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Stage == stage {
			return r.events[i], true
		}
	}
	return Event{}, false
}

// Activated lists activated stages in call order.
func (r *Recorder) Activated() []Stage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Stage(nil), r.activated...)
}

func containsStage(list []Stage, s Stage) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
