package pipeline

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"anchor/internal/domain"
)

const defaultWorkers = 8

// Report aggregates a batch run for logging and the CLI summary.
type Report struct {
	Processed int
	Completed int
	Moved     int
	ByAgent   map[domain.AgentType]AgentTally
	Results   []domain.AgentResult
	Duration  time.Duration
}

// AgentTally counts stage outcomes for one agent type.
type AgentTally struct {
	Succeeded int
	Failed    int
}

// RunBatch processes rows concurrently with a bounded worker count. Rows
// never share mutable state, so one row's failure never aborts another;
// the group exists for the concurrency limit and context plumbing only.
func (e *Engine) RunBatch(ctx context.Context, rows []*domain.SlotRow, cat Catalog, workers int) (*Report, error) {
	if workers <= 0 {
		workers = defaultWorkers
	}
	start := e.now()

	var mu sync.Mutex
	report := &Report{
		Processed: len(rows),
		ByAgent:   make(map[domain.AgentType]AgentTally),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, row := range rows {
		row := row
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			results := e.ProcessRow(gctx, row, cat)

			mu.Lock()
			defer mu.Unlock()
			report.Results = append(report.Results, results...)
			for _, ar := range results {
				tally := report.ByAgent[ar.Agent]
				if ar.Success {
					tally.Succeeded++
				} else {
					tally.Failed++
				}
				report.ByAgent[ar.Agent] = tally
			}
			if row.SlotComplete {
				report.Completed++
			}
			if row.MovementDetected {
				report.Moved++
			}
			return nil
		})
	}
	err := g.Wait()

	report.Duration = e.now().Sub(start)
	batchDuration.Observe(report.Duration.Seconds())
	rowsProcessed.Add(float64(report.Processed))

	e.logger.Info("batch complete",
		"rows", report.Processed,
		"completed", report.Completed,
		"moved", report.Moved,
		"duration", report.Duration)
	return report, err
}
