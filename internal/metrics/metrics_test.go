package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seqsearch/internal/errors"
	"seqsearch/internal/progress"
)

func TestStageGauges(t *testing.T) {
	m := New()
	var sink progress.Sink = m
	sink.Update(progress.StageSearch, 3, 10)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.stageCurrent.WithLabelValues("search")))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.stageTotal.WithLabelValues("search")))
}

func TestObserveItem(t *testing.T) {
	m := New()
	m.ObserveItem("search", time.Millisecond, nil)
	m.ObserveItem("search", time.Millisecond, nil)
	m.ObserveItem("search", time.Millisecond, errors.New("x"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.itemsProcessed.WithLabelValues("search")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.itemsFailed.WithLabelValues("search")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.itemDuration))
}

func TestQueryCounters(t *testing.T) {
	m := New()
	m.AddQueries(64, 10, 25)
	m.AddQueries(6, 1, 1)
	m.SetDatabaseSize(3)

	assert.Equal(t, 70.0, testutil.ToFloat64(m.queries))
	assert.Equal(t, 11.0, testutil.ToFloat64(m.queriesWithHit))
	assert.Equal(t, 26.0, testutil.ToFloat64(m.hits))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.dbSequences))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.AddQueries(2, 1, 1)
	path := filepath.Join(t.TempDir(), "run.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "seqsearch_queries_total 2")
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.Update(progress.StageLoad, 1, 1)
	m.ObserveItem("q", time.Second, nil)
	m.AddQueries(1, 1, 1)
	m.SetDatabaseSize(1)
	assert.NoError(t, m.WriteTextfile("ignored"))
	assert.Nil(t, m.Registry())
}
