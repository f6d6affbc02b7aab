package progress

import (
	"io"
	"sync"

	"github.com/pterm/pterm"
)

// TerminalSink draws one pterm progress bar for the foreground stage.
// Updates for background stages are remembered and shown on activation.
type TerminalSink struct {
	w io.Writer

	mu     sync.Mutex
	state  map[Stage]Event
	active Stage
	bar    *pterm.ProgressbarPrinter
}

func NewTerminalSink(w io.Writer) *TerminalSink {
	return &TerminalSink{w: w, state: make(map[Stage]Event), active: -1}
}

func (t *TerminalSink) Activate(stage Stage) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if stage == t.active {
		return
	}
	t.stopLocked()
	t.active = stage
	ev := t.state[stage]
	bar, err := pterm.DefaultProgressbar.
		WithTitle(stage.Title()).
		WithTotal(barTotal(ev.Total)).
		WithWriter(t.w).
		WithShowElapsedTime(true).
		WithRemoveWhenDone(false).
		Start()
	if err != nil {
		return
	}
	t.bar = bar
	t.drawLocked(ev)
}

func (t *TerminalSink) Update(stage Stage, current, total uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ev := Event{Stage: stage, Current: current, Total: total}
	t.state[stage] = ev
	if stage == t.active && t.bar != nil {
		t.drawLocked(ev)
	}
}

// Close stops the foreground bar.
func (t *TerminalSink) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.active = -1
}

func (t *TerminalSink) drawLocked(ev Event) {
	total := barTotal(ev.Total)
	if total != t.bar.Total {
		t.bar.Total = total
	}
	cur := int(min(ev.Current, uint64(total)))
	if delta := cur - t.bar.Current; delta != 0 {
		t.bar.Add(delta)
	}
	if !t.bar.IsActive {
		// pterm stops a bar once it reaches its total
		t.bar = nil
	}
}

func (t *TerminalSink) stopLocked() {
	if t.bar != nil {
		_, _ = t.bar.Stop()
		t.bar = nil
	}
}

// barTotal keeps the bar drawable before a total is known.
func barTotal(total uint64) int {
	if total == 0 {
		return 1
	}
	return int(total)
}
