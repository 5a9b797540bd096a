// Package batch provides a BatchExecutor that collects individually submitted
// tasks into batches and runs them together, completing each submitter's
// AsyncResult from the batch's per-task Results.  A batch runs when it
// reaches MaxSize tasks or when the oldest task has lingered for MaxLinger,
// whichever comes first.
package batch

import (
	"context"
	"sync"
	"time"

	"github.com/abevier/outcome/apperrors"
	"github.com/abevier/outcome/asyncresults"
	"github.com/abevier/outcome/closewaiter"
	"github.com/abevier/outcome/internal/task"
	"github.com/abevier/outcome/results"
)

// RunBatchFunction runs a full batch of tasks.  It returns one Result per
// task, in task order.  The error return reports a batch-level failure, which
// is fanned out to every task in the batch as a Failure.
type RunBatchFunction[T any, R any] func(tasks []T) ([]results.Result[R, *apperrors.AppError], error)

type pending[T any, R any] struct {
	id      int
	handles []task.Handle[T, R]
}

type BatchExecutor[T any, R any] struct {
	m            *sync.Mutex
	sequenceNum  int
	currentBatch *pending[T, R]
	run          RunBatchFunction[T, R]
	maxSize      int
	maxLinger    time.Duration
	closer       *closewaiter.CloseWaiter
}

// NewExecutor creates a BatchExecutor that runs batches with the provided
// function.  It panics if opts is invalid.
func NewExecutor[T any, R any](opts Opts, run RunBatchFunction[T, R]) *BatchExecutor[T, R] {
	opts.validate()

	return &BatchExecutor[T, R]{
		m:         &sync.Mutex{},
		run:       run,
		maxSize:   opts.MaxSize,
		maxLinger: opts.MaxLinger,
		closer:    closewaiter.New(),
	}
}

// Submit adds a task to the current batch and blocks until its Result is
// available or until ctx is done.  The returned error reports refusal
// (a closed executor) or an abandoned wait only; the task's own outcome is
// carried by the Result.
func (be *BatchExecutor[T, R]) Submit(ctx context.Context, t T) (results.Result[R, *apperrors.AppError], error) {
	ar, err := be.SubmitF(ctx, t)
	if err != nil {
		return *new(results.Result[R, *apperrors.AppError]), err
	}

	return ar.Await(ctx)
}

// SubmitF adds a task to the current batch and returns the AsyncResult that
// will resolve when the task's batch has run.
func (be *BatchExecutor[T, R]) SubmitF(ctx context.Context, t T) (*asyncresults.AsyncResult[R, *apperrors.AppError], error) {
	h := task.NewHandle[T, R](ctx, t)

	if err := be.closer.Do(func() { be.add(h) }); err != nil {
		return nil, ErrClosed
	}

	return h.Async, nil
}

func (be *BatchExecutor[T, R]) add(h task.Handle[T, R]) {
	be.m.Lock()
	defer be.m.Unlock()

	if be.currentBatch == nil {
		be.currentBatch = be.newBatch()
	}
	be.currentBatch.handles = append(be.currentBatch.handles, h)

	if len(be.currentBatch.handles) >= be.maxSize {
		go be.runBatch(be.currentBatch)
		be.currentBatch = nil
	}
}

func (be *BatchExecutor[T, R]) newBatch() *pending[T, R] {
	be.sequenceNum++

	b := &pending[T, R]{
		id:      be.sequenceNum,
		handles: make([]task.Handle[T, R], 0, be.maxSize),
	}

	go be.expireBatch(b.id)
	return b
}

func (be *BatchExecutor[T, R]) expireBatch(batchID int) {
	time.Sleep(be.maxLinger)

	be.m.Lock()
	defer be.m.Unlock()

	if be.currentBatch != nil && be.currentBatch.id == batchID {
		go be.runBatch(be.currentBatch)
		be.currentBatch = nil
	}
}

func (be *BatchExecutor[T, R]) runBatch(b *pending[T, R]) {
	tasks := make([]T, 0, len(b.handles))
	for _, h := range b.handles {
		tasks = append(tasks, h.Task)
	}

	rs, err := be.runSafely(tasks)
	if err != nil {
		be.failBatch(b, apperrors.FromError(err))
		return
	}

	if len(rs) != len(b.handles) {
		e := apperrors.FromError(ErrBatchResultMismatch).
			With("tasks", len(b.handles)).
			With("results", len(rs))
		be.failBatch(b, e)
		return
	}

	for i, h := range b.handles {
		h.Async.Resolve(rs[i])
	}
}

func (be *BatchExecutor[T, R]) runSafely(tasks []T) (rs []results.Result[R, *apperrors.AppError], err error) {
	defer func() {
		if v := recover(); v != nil {
			rs, err = nil, apperrors.FromPanic(v)
		}
	}()

	return be.run(tasks)
}

func (be *BatchExecutor[T, R]) failBatch(b *pending[T, R], e *apperrors.AppError) {
	for _, h := range b.handles {
		h.Async.Fail(e)
	}
}

// Close stops accepting tasks, waits for in-flight submissions to land, and
// runs any partial batch so every accepted task still gets its Result.
func (be *BatchExecutor[T, R]) Close() {
	be.closer.Close(func() {
		be.m.Lock()
		b := be.currentBatch
		be.currentBatch = nil
		be.m.Unlock()

		if b != nil {
			be.runBatch(b)
		}
	})
}
