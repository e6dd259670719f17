// Package pipeline drives the filter chain over a whole corpus: a bounded
// worker pool over independent files, with all shared state merged at one
// collector boundary.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fimcorpus/internal/config"
	"fimcorpus/internal/corpus"
	"fimcorpus/internal/filter"
	"fimcorpus/internal/record"
	"fimcorpus/internal/split"
	"fimcorpus/internal/storage"
)

const indexBatchSize = 256

type Pipeline struct {
	cfg *config.Config
	log *zap.Logger
}

func New(cfg *config.Config, log *zap.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, log: log}
}

type job struct {
	seq      int // feed-order position, assigned by the crawler walk
	path     string
	language string
}

// fileResult is one file's completed share of the run. Workers own their
// result until it crosses the results channel; after that only the
// collector touches it.
type fileResult struct {
	seq        int
	skipped    bool
	candidates int64
	accepted   []*split.Candidate
	stats      *filter.Stats
}

// Run processes every recognized file under root. A cancelled context
// stops feeding new files; in-flight files finish and the report covers
// completed files only. Single-file failures are logged and skipped.
func (p *Pipeline) Run(ctx context.Context, root string) (*Report, error) {
	started := time.Now()

	var jobsList []job
	crawler := corpus.NewCrawler(p.cfg.Language)
	err := crawler.Walk(root, func(path, language string) error {
		jobsList = append(jobsList, job{seq: len(jobsList), path: path, language: language})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	p.log.Info("corpus discovered", zap.String("root", root), zap.Int("files", len(jobsList)))

	writer, err := record.NewWriter(p.cfg.Output.CorpusPath)
	if err != nil {
		return nil, err
	}

	var store *storage.SQLiteStore
	if p.cfg.Output.IndexPath != "" {
		store, err = storage.NewSQLiteStore(p.cfg.Output.IndexPath)
		if err != nil {
			writer.Close()
			return nil, fmt.Errorf("open index %s: %w", p.cfg.Output.IndexPath, err)
		}
		defer store.Close()
	}

	jobs := make(chan job)
	results := make(chan fileResult)

	workers, wctx := errgroup.WithContext(ctx)

	// Feeder: stops handing out files once the context is done.
	workers.Go(func() error {
		defer close(jobs)
		for _, j := range jobsList {
			select {
			case jobs <- j:
			case <-wctx.Done():
				return nil
			}
		}
		return nil
	})

	gen := split.NewGenerator(p.cfg.MaxContextChars, p.cfg.MinMiddleLen, p.cfg.MaxMiddleLen, p.cfg.SplitDensity)
	for i := 0; i < p.cfg.WorkerCount; i++ {
		workers.Go(func() error {
			for j := range jobs {
				res := p.processFile(j, gen)
				select {
				case results <- res:
				case <-wctx.Done():
					return nil
				}
			}
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		_ = workers.Wait() // workers report failures per-file, never as errors
		close(results)
		close(done)
	}()

	// Collector: the only place run-wide state is mutated. Stats and the
	// dedup tables are merged here per completed file, never inside the
	// workers. Results arrive in scheduling order, but the dedup cap keeps
	// the first survivors it sees, so the collector replays files in feed
	// order to keep the accepted set independent of worker scheduling.
	agg := filter.NewStats(filter.PhaseNames())
	asm := record.NewAssembler(p.cfg.DedupFingerprintCap)
	var filesProcessed, filesSkipped, candidates int64
	var indexBatch []record.Record

	var writeErr error
	collect := func(res fileResult) {
		if res.skipped {
			filesSkipped++
			return
		}
		filesProcessed++
		candidates += res.candidates
		agg.Merge(res.stats)

		for _, c := range res.accepted {
			rec, drop := asm.Add(c)
			if drop != record.DropNone {
				continue
			}
			if err := writer.Write(rec); err != nil && writeErr == nil {
				writeErr = err
			}
			if store != nil {
				indexBatch = append(indexBatch, rec)
				if len(indexBatch) >= indexBatchSize {
					if err := store.SaveRecords(context.Background(), indexBatch); err != nil && writeErr == nil {
						writeErr = err
					}
					indexBatch = indexBatch[:0]
				}
			}
		}
	}

	pending := make(map[int]fileResult)
	next := 0
	for res := range results {
		pending[res.seq] = res
		for {
			r, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			collect(r)
		}
	}
	<-done

	// A cancelled run can leave gaps in the sequence; drain what completed
	// in a stable order.
	if len(pending) > 0 {
		seqs := make([]int, 0, len(pending))
		for s := range pending {
			seqs = append(seqs, s)
		}
		sort.Ints(seqs)
		for _, s := range seqs {
			collect(pending[s])
		}
	}

	if store != nil && len(indexBatch) > 0 {
		if err := store.SaveRecords(context.Background(), indexBatch); err != nil && writeErr == nil {
			writeErr = err
		}
	}
	if err := writer.Close(); err != nil && writeErr == nil {
		writeErr = err
	}
	if writeErr != nil {
		return nil, fmt.Errorf("write corpus: %w", writeErr)
	}

	finished := time.Now()
	boiler, exact := asm.Drops()
	rep := &Report{
		Version:             "v1",
		RunID:               uuid.NewString(),
		Root:                root,
		StartedAt:           timestamp(started),
		FinishedAt:          timestamp(finished),
		DurationMS:          finished.Sub(started).Milliseconds(),
		Cancelled:           ctx.Err() != nil,
		FilesProcessed:      filesProcessed,
		FilesSkipped:        filesSkipped,
		CandidatesGenerated: candidates,
		RecordsEmitted:      writer.Count(),
		BoilerplateDrops:    boiler,
		ExactDuplicateDrops: exact,
		DirectiveWarnings:   agg.DirectiveWarnings,
		Phases:              buildPhaseReports(agg),
	}

	if store != nil {
		run := storage.RunSummary{
			ID:             rep.RunID,
			StartedAt:      rep.StartedAt,
			FinishedAt:     rep.FinishedAt,
			DurationMS:     rep.DurationMS,
			FilesProcessed: filesProcessed,
			FilesSkipped:   filesSkipped,
			RecordsEmitted: rep.RecordsEmitted,
			Phases:         rep.Phases,
		}
		if err := store.SaveRun(context.Background(), run); err != nil {
			p.log.Warn("failed to persist run summary", zap.Error(err))
		}
	}

	for _, ph := range rep.Phases {
		p.log.Info("phase summary",
			zap.String("phase", ph.Name),
			zap.Int64("in", ph.In),
			zap.Int64("out", ph.Out),
			zap.Float64("acceptance_rate", ph.AcceptanceRate))
	}

	return rep, nil
}

// processFile runs the whole chain for one file. The chain (and its
// stats) is file-local, so per-candidate evaluation stays lock-free.
func (p *Pipeline) processFile(j job, gen *split.Generator) fileResult {
	f, err := corpus.Load(j.path, j.language)
	if err != nil {
		p.log.Warn("skipping file", zap.String("path", j.path), zap.Error(err))
		return fileResult{seq: j.seq, skipped: true}
	}

	chain := filter.NewChain(p.cfg)
	cands := gen.Candidates(f)

	res := fileResult{seq: j.seq, candidates: int64(len(cands)), stats: chain.Stats()}
	for _, c := range cands {
		if survivor, ok := chain.Run(c); ok {
			res.accepted = append(res.accepted, survivor)
		}
	}
	return res
}
