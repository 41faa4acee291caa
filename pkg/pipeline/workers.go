package pipeline

import (
	"context"
	"sort"
	"sync"

	"github.com/dtnitsch/ragc/models"
	"golang.org/x/sync/errgroup"
)

// Stats are the corpus-wide counters of a run.
type Stats struct {
	PagesOK      int
	PagesSkipped int
	TotalChunks  int
	SkipReasons  map[string]int
}

func (s *Stats) add(o Outcome) {
	if o.Status == StatusSucceeded {
		s.PagesOK++
		s.TotalChunks += len(o.Chunks)
		return
	}
	s.PagesSkipped++
	if s.SkipReasons == nil {
		s.SkipReasons = make(map[string]int)
	}
	s.SkipReasons[string(o.Reason)]++
}

// Run processes docs with a pool of workers and returns one Outcome per
// document in discovery order. Only cancellation of ctx makes it fail.
func (p *Processor) Run(ctx context.Context, docs []models.Document, workerCount int) ([]Outcome, Stats, error) {
	if workerCount < 1 {
		workerCount = 1
	}
	p.logger.Info("Starting document workers", "documents", len(docs), "workers", workerCount)

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan models.Document)
	results := make(chan Outcome, workerCount)

	g.Go(func() error {
		defer close(jobs)
		for _, doc := range docs {
			select {
			case jobs <- doc:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	var wg sync.WaitGroup
	for w := 1; w <= workerCount; w++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return p.worker(gctx, w, jobs, results)
		})
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	// Single aggregator: the only writer of outcomes and stats.
	outcomes := make([]Outcome, 0, len(docs))
	stats := Stats{SkipReasons: map[string]int{}}
	for o := range results {
		outcomes = append(outcomes, o)
		stats.add(o)
	}

	if err := g.Wait(); err != nil {
		return nil, Stats{}, err
	}

	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].Document.Index < outcomes[j].Document.Index
	})
	p.logger.Info("All document workers finished", "pages_ok", stats.PagesOK, "pages_skipped", stats.PagesSkipped, "total_chunks", stats.TotalChunks)
	return outcomes, stats, nil
}

// worker processes jobs until the channel closes or ctx is cancelled.
func (p *Processor) worker(ctx context.Context, id int, jobs <-chan models.Document, results chan<- Outcome) error {
	for doc := range jobs {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.logger.Debug("Worker started job", "worker_id", id, "source_path", doc.SourcePath)

		out := p.Process(doc)

		select {
		case results <- out:
		case <-ctx.Done():
			return ctx.Err()
		}
		if out.Status == StatusSucceeded {
			p.logger.Info("Worker finished job", "worker_id", id, "url", out.URL, "chunks", len(out.Chunks))
		}
	}
	return nil
}
