package progress

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"seqsearch/internal/logging"
)

// LogSink writes progress as log lines, at most one per stage per interval,
// plus a line when a stage completes.
type LogSink struct {
	log   *zap.SugaredLogger
	every time.Duration

	mu   sync.Mutex
	last map[Stage]time.Time
	done map[Stage]bool
	now  func() time.Time
}

// NewLogSink returns a sink logging at info level. every <= 0 defaults to
// five seconds.
func NewLogSink(log *zap.SugaredLogger, every time.Duration) *LogSink {
	if every <= 0 {
		every = 5 * time.Second
	}
	return &LogSink{
		log:   logging.Component(log, "progress"),
		every: every,
		last:  make(map[Stage]time.Time),
		done:  make(map[Stage]bool),
		now:   time.Now,
	}
}

func (s *LogSink) Activate(stage Stage) {
	s.log.Infow(stage.Title(), logging.FieldStage, stage.String())
}

func (s *LogSink) Update(stage Stage, current, total uint64) {
	s.mu.Lock()
	now := s.now()
	complete := total > 0 && current >= total
	emit := false
	switch {
	case complete:
		// a stage's total can grow after it first looks complete
		emit = !s.done[stage]
		s.done[stage] = true
	case now.Sub(s.last[stage]) >= s.every:
		emit = true
		s.done[stage] = false
	}
	if emit {
		s.last[stage] = now
	}
	s.mu.Unlock()

	if !emit {
		return
	}
	pct := 0.0
	if total > 0 {
		pct = 100 * float64(current) / float64(total)
	}
	s.log.Infow(stage.Title(),
		logging.FieldStage, stage.String(),
		logging.FieldCount, current,
		logging.FieldTotal, total,
		"unit", stage.Unit(),
		"percent", int(pct),
	)
}
