package pipeline

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"seqsearch/core/index"
	"seqsearch/core/search"
	"seqsearch/core/seq"
	"seqsearch/internal/errors"
	"seqsearch/internal/logging"
	"seqsearch/internal/progress"
	"seqsearch/internal/sysinfo"
	"seqsearch/internal/workqueue"
	"seqsearch/internal/writers"
	"seqsearch/pkg/api"
)

// loadChunk is how many database records are read between progress updates.
const loadChunk = 1024

// Summary reports what a run did.
type Summary struct {
	RunID             string
	Alphabet          string
	DatabaseSequences int
	Queries           int
	QueriesWithHits   int
	Hits              int
	Duration          time.Duration
}

// API converts the summary to its wire form.
func (s Summary) API() api.SearchSummaryV1 {
	return api.SearchSummaryV1{
		RunID:             s.RunID,
		Alphabet:          s.Alphabet,
		DatabaseSequences: s.DatabaseSequences,
		Queries:           s.Queries,
		QueriesWithHits:   s.QueriesWithHits,
		Hits:              s.Hits,
		Seconds:           s.Duration.Seconds(),
	}
}

// tally is shared by the searcher workers.
type tally struct {
	queries, withHits, hits atomic.Int64
}

// Run executes one search. Configuration problems are reported before any
// file is opened. ctx is checked between phases and between query batches;
// batches already queued still drain.
func Run(ctx context.Context, cfg Config) (Summary, error) {
	start := time.Now()
	cfg, params, db, err := cfg.prepare()
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{RunID: cfg.RunID, Alphabet: cfg.Alphabet.Name}
	log := logging.Component(cfg.Logger, "pipeline").With(
		logging.FieldRunID, cfg.RunID,
		logging.FieldAlphabet, cfg.Alphabet.Name,
	)

	if err := ctx.Err(); err != nil {
		return sum, err
	}
	seqs, err := loadDatabase(cfg, log)
	if err != nil {
		return sum, errors.Wrap(err, "load database")
	}
	sum.DatabaseSequences = len(seqs)
	cfg.Metrics.SetDatabaseSize(len(seqs))

	if err := ctx.Err(); err != nil {
		return sum, err
	}
	if err := buildIndex(db, seqs, cfg.Progress, log); err != nil {
		return sum, errors.Wrap(err, "index database")
	}

	if err := ctx.Err(); err != nil {
		return sum, err
	}
	var t tally
	err = searchAndWrite(ctx, cfg, params, db, &t, log)
	sum.Queries = int(t.queries.Load())
	sum.QueriesWithHits = int(t.withHits.Load())
	sum.Hits = int(t.hits.Load())
	sum.Duration = time.Since(start)
	cfg.Metrics.AddQueries(sum.Queries, sum.QueriesWithHits, sum.Hits)
	if err != nil {
		return sum, err
	}
	log.Infow("search finished",
		"queries", sum.Queries,
		"queries_with_hits", sum.QueriesWithHits,
		logging.FieldHits, sum.Hits,
		logging.FieldDuration, sum.Duration,
	)
	return sum, nil
}

func loadDatabase(cfg Config, log *zap.SugaredLogger) ([]seq.Sequence, error) {
	began := time.Now()
	progress.Activate(cfg.Progress, progress.StageLoad)
	r, err := cfg.OpenReader(cfg.DatabasePath, cfg.Alphabet)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	if over, avail := sysinfo.ExceedsAvailable(r.NumBytesTotal()); over {
		log.Warnw("database file is larger than available memory",
			logging.FieldPath, cfg.DatabasePath,
			"size", r.NumBytesTotal(),
			"available", avail,
		)
	}

	var (
		seqs  []seq.Sequence
		batch seq.Batch
	)
	report := func() {
		read := uint64(r.NumBytesRead())
		total := uint64(r.NumBytesTotal())
		if total < read {
			total = read // size unknown (stdin)
		}
		cfg.Progress.Update(progress.StageLoad, read, total)
	}
	for !r.EndOfFile() {
		if err := r.Read(loadChunk, &batch); err != nil {
			return nil, err
		}
		seqs = append(seqs, batch...)
		report()
	}
	report()
	log.Infow("database loaded",
		logging.FieldPath, cfg.DatabasePath,
		logging.FieldCount, len(seqs),
		logging.FieldDuration, time.Since(began),
	)
	return seqs, nil
}

func buildIndex(db *index.Database, seqs []seq.Sequence, sink progress.Sink, log *zap.SugaredLogger) error {
	began := time.Now()
	last := index.Phase(0)
	db.SetProgressCallback(func(phase index.Phase, current, total int) {
		stage := progress.StageIndexStats
		if phase == index.PhaseIndex {
			stage = progress.StageIndexBuild
		}
		if phase != last {
			progress.Activate(sink, stage)
			last = phase
		}
		sink.Update(stage, uint64(current), uint64(total))
	})
	if err := db.Initialize(seqs); err != nil {
		return err
	}
	log.Infow("database indexed",
		"word_size", db.WordSize(),
		"words", db.NumWords(),
		logging.FieldDuration, time.Since(began),
	)
	return nil
}

func searchAndWrite(ctx context.Context, cfg Config, params search.Params, db *index.Database, t *tally, log *zap.SugaredLogger) error {
	qr, err := cfg.OpenReader(cfg.QueryPath, cfg.Alphabet)
	if err != nil {
		return errors.Wrap(err, "read queries")
	}
	defer func() { _ = qr.Close() }()

	out, err := cfg.OpenWriter(cfg.OutputPath, cfg.Output)
	if err != nil {
		return errors.Wrap(err, "open output")
	}
	if cfg.Writers > 1 {
		out = writers.Synchronized(out)
	}

	// writer first so searchers always have somewhere to send results
	wq, err := workqueue.New[search.ResultBatch](cfg.Writers,
		func(int) (workqueue.Handler[search.ResultBatch], error) {
			return &writeHandler{w: out}, nil
		},
		workqueue.WithName[search.ResultBatch](progress.StageWrite.String()),
		workqueue.WithCapacity[search.ResultBatch](cfg.QueueCapacity),
		workqueue.WithLogger[search.ResultBatch](cfg.Logger),
		workqueue.WithItemObserver[search.ResultBatch](itemObserver(cfg, progress.StageWrite)),
	)
	if err != nil {
		_ = out.Close()
		return err
	}
	wq.OnProcessed(func(processed, enqueued uint64) {
		cfg.Progress.Update(progress.StageWrite, processed, enqueued)
	})

	sq, err := workqueue.New[seq.Batch](cfg.Searchers,
		func(int) (workqueue.Handler[seq.Batch], error) {
			s, err := cfg.NewSearcher(db, params)
			if err != nil {
				return nil, err
			}
			return &searchHandler{s: s, out: wq, tally: t}, nil
		},
		workqueue.WithName[seq.Batch](progress.StageSearch.String()),
		workqueue.WithCapacity[seq.Batch](cfg.QueueCapacity),
		workqueue.WithLogger[seq.Batch](cfg.Logger),
		workqueue.WithItemObserver[seq.Batch](itemObserver(cfg, progress.StageSearch)),
	)
	if err != nil {
		_ = wq.WaitTillDone()
		_ = out.Close()
		return err
	}
	sq.OnProcessed(func(processed, enqueued uint64) {
		cfg.Progress.Update(progress.StageSearch, processed, enqueued)
	})
	log.Infow("searching",
		"searchers", sq.PoolSize(),
		"writers", wq.PoolSize(),
		logging.FieldBatchSize, cfg.BatchSize,
		logging.FieldCapacity, sq.Capacity(),
	)

	readErr := feed(ctx, cfg, qr, sq)

	progress.Activate(cfg.Progress, progress.StageSearch)
	searchErr := sq.WaitTillDone()
	progress.Activate(cfg.Progress, progress.StageWrite)
	writeErr := wq.WaitTillDone()
	closeErr := out.Close()

	switch {
	case searchErr != nil:
		return errors.Wrap(searchErr, "search")
	case writeErr != nil:
		return errors.Wrap(writeErr, "write hits")
	case readErr != nil:
		if errors.Is(readErr, context.Canceled) || errors.Is(readErr, context.DeadlineExceeded) {
			return readErr
		}
		return errors.Wrap(readErr, "read queries")
	case closeErr != nil:
		return errors.Wrap(closeErr, "close output")
	}
	return nil
}

// feed streams query batches into the searcher queue until end of file, a
// read error, a queue fault or cancellation.
func feed(ctx context.Context, cfg Config, qr SequenceReader, sq *workqueue.Queue[seq.Batch]) error {
	progress.Activate(cfg.Progress, progress.StageReadQueries)
	for !qr.EndOfFile() {
		if err := ctx.Err(); err != nil {
			return err
		}
		var b seq.Batch
		if err := qr.Read(cfg.BatchSize, &b); err != nil {
			return err
		}
		read, total := uint64(qr.NumBytesRead()), uint64(qr.NumBytesTotal())
		cfg.Progress.Update(progress.StageReadQueries, read, max(read, total))
		if len(b) == 0 {
			continue
		}
		if err := sq.Enqueue(b); err != nil {
			return nil // the queue fault is reported by WaitTillDone
		}
	}
	return nil
}

func itemObserver(cfg Config, stage progress.Stage) workqueue.ItemObserver {
	if cfg.Metrics == nil {
		return nil
	}
	name := stage.String()
	return func(_, _ int, took time.Duration, err error) {
		cfg.Metrics.ObserveItem(name, took, err)
	}
}

// searchHandler runs the searcher over a batch and forwards the queries that
// have hits.
type searchHandler struct {
	s     Searcher
	out   *workqueue.Queue[search.ResultBatch]
	tally *tally
}

func (h *searchHandler) Process(_ context.Context, b seq.Batch) error {
	var res search.ResultBatch
	for _, q := range b {
		hits, err := h.s.Query(q)
		if err != nil {
			return errors.Wrapf(err, "query %q", q.ID)
		}
		if len(hits) == 0 {
			continue
		}
		res = append(res, search.QueryHits{Query: q, Hits: hits})
	}
	h.tally.queries.Add(int64(len(b)))
	h.tally.withHits.Add(int64(len(res)))
	h.tally.hits.Add(int64(res.Count()))
	if len(res) == 0 {
		return nil
	}
	return h.out.Enqueue(res)
}

type writeHandler struct {
	w writers.HitWriter
}

func (h *writeHandler) Process(_ context.Context, b search.ResultBatch) error {
	for _, qh := range b {
		if err := h.w.Write(qh); err != nil {
			return err
		}
	}
	if f, ok := h.w.(writers.Flusher); ok {
		return f.Flush()
	}
	return nil
}
