package application

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/prajeetp/blackhole-cli/internal/domain"
	"github.com/prajeetp/blackhole-cli/internal/ports"
)

const (
	// MaxWorkers caps concurrency against the portal. The remote side is a
	// best-effort internal CGI server with no documented rate limits, so
	// client-side capping is the only backpressure available.
	MaxWorkers       = 16
	workerMultiplier = 2
)

// DefaultWorkers derives the worker bound from available parallelism.
func DefaultWorkers() int {
	workers := runtime.NumCPU() * workerMultiplier
	if workers < 1 {
		workers = 1
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}
	return workers
}

// ClampWorkers normalizes a caller-supplied worker count into [1, MaxWorkers];
// zero or negative selects the default.
func ClampWorkers(n int) int {
	if n <= 0 {
		return DefaultWorkers()
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}

// BatchState is the terminal state of one batch run.
type BatchState string

const (
	BatchCompleted BatchState = "completed"
	BatchAborted   BatchState = "aborted"
	BatchFailed    BatchState = "failed"
)

// BatchOptions tunes one Run call.
type BatchOptions struct {
	Workers  int
	Progress ProgressFunc
	Cancel   *Cancellation
}

// BatchReport is the caller-visible outcome: one result per submitted
// operation, in completion order (explicitly not submission order).
type BatchReport struct {
	RunID     string
	State     BatchState
	Results   []domain.Result
	Processed int
	Successes int
	Failures  int
	Aborted   int
}

// Summary renders the one-line outcome shown to the user and written to the
// session log.
func (r BatchReport) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d of %d processed: %d succeeded, %d failed", r.Processed, len(r.Results), r.Successes, r.Failures)
	if r.Aborted > 0 {
		fmt.Fprintf(&b, ", %d aborted", r.Aborted)
	}
	return b.String()
}

// BatchService drives N independent operations concurrently over a bounded
// worker pool: every worker owns one pooled channel, the full operation list
// is dispatched up front, and results are harvested as each completes.
type BatchService struct {
	pool ports.TransportPool
	rec  ports.Recorder
}

func NewBatchService(pool ports.TransportPool, rec ports.Recorder) *BatchService {
	if rec == nil {
		rec = ports.NopRecorder{}
	}
	return &BatchService{pool: pool, rec: rec}
}

// Run executes the batch and always returns a report; unit-level failures
// never surface as errors. The pooled client is released on every exit path.
func (s *BatchService) Run(ctx context.Context, ops []domain.Operation, exec ports.UnitExecutor, opts BatchOptions) BatchReport {
	runID := shortRunID()
	report := BatchReport{RunID: runID}

	defer func() {
		if err := s.pool.Close(); err != nil {
			s.rec.Record(fmt.Sprintf("BATCH[%s] channel cleanup: %v", runID, err))
		}
	}()

	if len(ops) == 0 {
		report.State = BatchCompleted
		return report
	}

	workers := ClampWorkers(opts.Workers)
	if workers > len(ops) {
		workers = len(ops)
	}

	s.rec.Record(fmt.Sprintf("BATCH[%s] start units=%d workers=%d", runID, len(ops), workers))

	channels, err := s.acquireChannels(runID, workers)
	if err != nil {
		msg := err.Error()
		report.Results = make([]domain.Result, 0, len(ops))
		for _, op := range ops {
			report.Results = append(report.Results, domain.Result{
				TargetID: op.TargetID,
				Action:   op.Action,
				Message:  msg,
			})
		}
		report.Processed = len(ops)
		report.Failures = len(ops)
		report.State = BatchFailed
		s.rec.Record(fmt.Sprintf("BATCH[%s] failed: %s", runID, msg))
		return report
	}

	tracker := newProgressTracker(len(ops), opts.Progress)

	// The whole batch is materialized up front, not streamed: workers drain
	// the queue and the harvesting loop below blocks only on the next
	// completed unit.
	queue := make(chan domain.Operation, len(ops))
	for _, op := range ops {
		queue <- op
	}
	close(queue)

	completed := make(chan domain.Result, len(ops))

	g, gctx := errgroup.WithContext(ctx)
	for _, channel := range channels {
		g.Go(func() error {
			for op := range queue {
				completed <- s.runUnit(gctx, op, exec, channel, opts.Cancel)
			}
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		close(completed)
	}()

	results := make([]domain.Result, 0, len(ops))
	for res := range completed {
		tracker.complete(res)
		results = append(results, res)
	}

	report.Results = results
	report.Processed, report.Successes, report.Failures, report.Aborted = tracker.counts()
	if opts.Cancel.Cancelled() || ctx.Err() != nil {
		report.State = BatchAborted
	} else {
		report.State = BatchCompleted
	}

	s.rec.Record(fmt.Sprintf("BATCH[%s] %s: %s", runID, report.State, report.Summary()))
	return report
}

// acquireChannels builds one channel per worker before dispatch. A failure for
// one worker shrinks the pool; only a total failure escalates to ErrSetup.
func (s *BatchService) acquireChannels(runID string, workers int) ([]ports.Transport, error) {
	channels := make([]ports.Transport, 0, workers)
	var lastErr error
	for worker := 0; worker < workers; worker++ {
		channel, err := s.pool.ChannelFor(worker)
		if err != nil {
			lastErr = err
			s.rec.Record(fmt.Sprintf("BATCH[%s] worker=%d channel unavailable: %v", runID, worker, err))
			continue
		}
		channels = append(channels, channel)
	}
	if len(channels) == 0 {
		return nil, fmt.Errorf("%w: %v", domain.ErrSetup, lastErr)
	}
	return channels, nil
}

func (s *BatchService) runUnit(ctx context.Context, op domain.Operation, exec ports.UnitExecutor, channel ports.Transport, cancel *Cancellation) (res domain.Result) {
	// The sole cancellation checkpoint: a unit that has not started is
	// skipped, an in-flight unit always completes.
	if cancel.Cancelled() || ctx.Err() != nil {
		s.rec.Record(fmt.Sprintf("unit skip target=%s reason=abort", op.TargetID))
		return domain.AbortedResult(op)
	}

	defer func() {
		if r := recover(); r != nil {
			res = domain.Result{
				TargetID: op.TargetID,
				Action:   op.Action,
				Message:  fmt.Sprintf("unit panicked: %v", r),
			}
			s.rec.Record(fmt.Sprintf("unit panic target=%s: %v", op.TargetID, r))
		}
	}()

	s.rec.Record(fmt.Sprintf("unit start target=%s action=%s", op.TargetID, op.Action))
	res = exec.Execute(ctx, op, channel)
	s.rec.Record(fmt.Sprintf("unit done target=%s success=%t status=%d", op.TargetID, res.Success, res.StatusCode))
	return res
}

func shortRunID() string {
	return uuid.NewString()[:8]
}
