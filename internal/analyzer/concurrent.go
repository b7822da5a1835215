package analyzer

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yairfalse/sampo/internal/artifact"
	"github.com/yairfalse/sampo/pkg/types"
)

// AnalyzeAll analyzes runs in parallel with a bounded worker pool. Each
// worker writes only its own index, so results keep the input order with
// no locking. Per-run analysis never fails; the only error out of here is
// context cancellation.
func (a *Analyzer) AnalyzeAll(ctx context.Context, runs []*artifact.Run, workers int) ([]types.AnalysisResult, error) {
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	results := make([]types.AnalysisResult, len(runs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, run := range runs {
		i, run := i, run
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = *a.AnalyzeRun(run)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
