package sweep

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nadirh/retirement-planning/internal/simulation"
)

func TestWorkerPool_ProcessesAllJobs(t *testing.T) {
	agg := simulation.NewAggregator(simulation.NewSequenceSource(month(0.01, 0.004)),
		simulation.AggregatorOptions{Iterations: 10, Workers: 1})
	pool := NewWorkerPool(context.Background(), 3, 5, agg)
	pool.Start()

	for i, pct := range []int{0, 25, 50, 75, 100} {
		require.NoError(t, pool.SubmitJob(AllocationJob{ID: jobID(pct, i), Index: i, Params: baseParams().WithStockPercent(pct)}))
	}
	go pool.Stop()

	seen := make(map[int]int)
	for res := range pool.GetResults() {
		require.NoError(t, res.Error)
		seen[res.Index] = res.Result.StockPercent
		assert.Equal(t, 10, res.Result.Simulations())
	}
	assert.Equal(t, map[int]int{0: 0, 1: 25, 2: 50, 3: 75, 4: 100}, seen)
}

func TestWorkerPool_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	agg := simulation.NewAggregator(simulation.NewSequenceSource(month(0.01, 0.004)),
		simulation.AggregatorOptions{Iterations: 10})
	pool := NewWorkerPool(ctx, 1, 0, agg)

	err := pool.SubmitJob(AllocationJob{ID: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProgressTracker(t *testing.T) {
	pt := NewProgressTracker(4)
	assert.Zero(t, pt.EstimateTimeRemaining())

	pt.Increment()
	time.Sleep(5 * time.Millisecond)
	pt.Increment()

	done, total, pct, elapsed := pt.GetProgress()
	assert.Equal(t, 2, done)
	assert.Equal(t, 4, total)
	assert.Equal(t, 50.0, pct)
	assert.Greater(t, elapsed, time.Duration(0))
	assert.Greater(t, pt.EstimateTimeRemaining(), time.Duration(0))
}

func TestJobID(t *testing.T) {
	assert.Equal(t, "stock_050_3", jobID(50, 3))
}
