package progress

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStageNames(t *testing.T) {
	var names []string
	for _, s := range Stages() {
		names = append(names, s.String())
		assert.NotEmpty(t, s.Title())
		assert.NotEmpty(t, s.Unit())
	}
	assert.Equal(t, []string{"load", "index-stats", "index-build", "read-queries", "search", "write"}, names)
	assert.Equal(t, "unknown", Stage(42).String())
}

func TestMultiFansOut(t *testing.T) {
	var a, b Recorder
	var calls int
	m := Multi(&a, nil, &b, SinkFunc(func(Stage, uint64, uint64) { calls++ }))
	m.Update(StageSearch, 1, 2)
	Activate(m, StageWrite)

	assert.Equal(t, []Event{{StageSearch, 1, 2}}, a.Events())
	assert.Equal(t, []Event{{StageSearch, 1, 2}}, b.Events())
	assert.Equal(t, []Stage{StageWrite}, a.Activated())
	assert.Equal(t, 1, calls)

	// non-activators are skipped silently
	Activate(Nop{}, StageLoad)
}

func TestRecorderLast(t *testing.T) {
	var r Recorder
	r.Update(StageLoad, 1, 10)
	r.Update(StageSearch, 3, 3)
	r.Update(StageLoad, 10, 10)

	ev, ok := r.Last(StageLoad)
	require.True(t, ok)
	assert.Equal(t, Event{StageLoad, 10, 10}, ev)
	_, ok = r.Last(StageWrite)
	assert.False(t, ok)
	assert.Len(t, r.Events(StageLoad), 2)
}

func TestLogSinkThrottles(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := NewLogSink(zap.New(core).Sugar(), time.Minute)
	now := time.Unix(1000, 0)
	s.now = func() time.Time { return now }

	s.Update(StageSearch, 1, 10) // first update always logs
	s.Update(StageSearch, 2, 10) // throttled
	now = now.Add(2 * time.Minute)
	s.Update(StageSearch, 3, 10)
	s.Update(StageSearch, 10, 10) // completion
	s.Update(StageSearch, 10, 10) // already reported

	assert.Equal(t, 3, logs.Len())
	last := logs.All()[2].ContextMap()
	assert.Equal(t, "search", last["stage"])
	assert.EqualValues(t, 100, last["percent"])
}

func TestTerminalSink(t *testing.T) {
	var buf bytes.Buffer
	ts := NewTerminalSink(&buf)
	ts.Update(StageLoad, 5, 10) // remembered before activation
	ts.Activate(StageLoad)
	ts.Update(StageLoad, 8, 10)
	ts.Update(StageSearch, 1, 4) // background
	ts.Activate(StageSearch)
	ts.Update(StageSearch, 4, 4)
	ts.Close()

	assert.Equal(t, Event{StageSearch, 4, 4}, ts.state[StageSearch])
	assert.Nil(t, ts.bar)
}
