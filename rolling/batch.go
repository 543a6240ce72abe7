package rolling

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// =============================================================================
// BATCH ROLLING - Order-preserving, element-independent
// =============================================================================

// RollAll rolls every date in ds with the same convention and calendar.
// out[i] is Roll(ds[i], c, cal). Elements never influence each other, even
// under ModifiedRolling. The first failure is returned as a *BatchError.
func RollAll(ds []Date, c Convention, cal Calendar) ([]Date, error) {
	return rollAll(ds, c, cal, DefaultScanLimit)
}

func rollAll(ds []Date, c Convention, cal Calendar, limit int) ([]Date, error) {
	out := make([]Date, len(ds))
	for i, d := range ds {
		rolled, err := roll(d, c, cal, limit)
		if err != nil {
			return nil, &BatchError{Index: i, Date: d, Err: err}
		}
		out[i] = rolled
	}
	return out, nil
}

// RollAllConcurrent is RollAll with up to limit goroutines. Each worker
// writes only its own index, so the output order matches the input. cal must
// be safe for concurrent reads. A limit below 1 means one worker.
func RollAllConcurrent(ctx context.Context, ds []Date, c Convention, cal Calendar, limit int) ([]Date, error) {
	return rollAllConcurrent(ctx, ds, c, cal, limit, DefaultScanLimit)
}

func rollAllConcurrent(ctx context.Context, ds []Date, c Convention, cal Calendar, workers, scanLimit int) ([]Date, error) {
	if workers < 1 {
		workers = 1
	}
	out := make([]Date, len(ds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, d := range ds {
		i, d := i, d
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rolled, err := roll(d, c, cal, scanLimit)
			if err != nil {
				return &BatchError{Index: i, Date: d, Err: err}
			}
			out[i] = rolled
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
