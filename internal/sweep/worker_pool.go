package sweep

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Nadirh/retirement-planning/internal/simulation"
	"github.com/Nadirh/retirement-planning/pkg/types"
)

// WorkerPool runs allocation jobs in parallel
type WorkerPool struct {
	workerCount int
	aggregator  *simulation.Aggregator
	jobQueue    chan AllocationJob
	resultQueue chan AllocationJobResult
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
}

// AllocationJob is one grid point of a sweep
type AllocationJob struct {
	ID     string
	Index  int
	Params simulation.Parameters
}

// AllocationJobResult is the outcome of one job. Error is set when the
// aggregator did not finish; Result is then zero.
type AllocationJobResult struct {
	ID       string
	Index    int
	Result   types.AllocationResult
	Duration time.Duration
	Error    error
}

// NewWorkerPool creates a pool bound to ctx. Jobs still queued when ctx ends
// are dropped.
func NewWorkerPool(ctx context.Context, workerCount, jobBufferSize int, aggregator *simulation.Aggregator) *WorkerPool {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(ctx)

	return &WorkerPool{
		workerCount: workerCount,
		aggregator:  aggregator,
		jobQueue:    make(chan AllocationJob, jobBufferSize),
		resultQueue: make(chan AllocationJobResult, jobBufferSize),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start starts the workers
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop closes the job queue, waits for the workers and closes the result
// channel. Call it once every job is submitted.
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()
}

// SubmitJob queues a job
func (wp *WorkerPool) SubmitJob(job AllocationJob) error {
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	}
}

// GetResults returns the channel completed jobs are delivered on
func (wp *WorkerPool) GetResults() <-chan AllocationJobResult {
	return wp.resultQueue
}

func (wp *WorkerPool) worker(workerID int) {
	defer wp.wg.Done()

	for {
		select {
		case job, ok := <-wp.jobQueue:
			if !ok {
				return
			}

			result := wp.processJob(job)

			select {
			case wp.resultQueue <- result:
			case <-wp.ctx.Done():
				return
			}

		case <-wp.ctx.Done():
			return
		}
	}
}

func (wp *WorkerPool) processJob(job AllocationJob) AllocationJobResult {
	startTime := time.Now()

	result := AllocationJobResult{
		ID:    job.ID,
		Index: job.Index,
	}

	allocation, err := wp.aggregator.Run(wp.ctx, job.Params)
	result.Duration = time.Since(startTime)
	if err != nil {
		result.Error = err
		return result
	}

	result.Result = allocation
	return result
}

func jobID(stockPercent, index int) string {
	return fmt.Sprintf("stock_%03d_%d", stockPercent, index)
}

// ProgressTracker tracks how many grid points are done
type ProgressTracker struct {
	total     int
	completed int
	startTime time.Time
	mutex     sync.RWMutex
}

// NewProgressTracker creates a new progress tracker
func NewProgressTracker(total int) *ProgressTracker {
	return &ProgressTracker{
		total:     total,
		startTime: time.Now(),
	}
}

// Increment increments the completion count
func (pt *ProgressTracker) Increment() {
	pt.mutex.Lock()
	defer pt.mutex.Unlock()
	pt.completed++
}

// GetProgress returns completed, total, percent done and elapsed time
func (pt *ProgressTracker) GetProgress() (int, int, float64, time.Duration) {
	pt.mutex.RLock()
	defer pt.mutex.RUnlock()

	elapsed := time.Since(pt.startTime)
	progress := 0.0
	if pt.total > 0 {
		progress = float64(pt.completed) / float64(pt.total) * 100
	}

	return pt.completed, pt.total, progress, elapsed
}

// EstimateTimeRemaining extrapolates from the average time per grid point
func (pt *ProgressTracker) EstimateTimeRemaining() time.Duration {
	pt.mutex.RLock()
	defer pt.mutex.RUnlock()

	if pt.completed == 0 {
		return 0
	}

	elapsed := time.Since(pt.startTime)
	avgTimePerItem := elapsed / time.Duration(pt.completed)
	remaining := pt.total - pt.completed

	return avgTimePerItem * time.Duration(remaining)
}
