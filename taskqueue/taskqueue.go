// Package taskqueue provides a bounded worker pool that runs tasks producing
// Results.  A task's outcome always travels as a results.Result: run
// functions return one, worker panics are folded into one, and a task
// abandoned by its submitter is resolved with one.  The error return of
// Submit and SubmitF reports queue refusal only — a full queue, a stopped
// queue, or the submitter's context ending before the task was accepted.
package taskqueue

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/abevier/outcome/apperrors"
	"github.com/abevier/outcome/asyncresults"
	"github.com/abevier/outcome/internal/submit"
	"github.com/abevier/outcome/internal/task"
	"github.com/abevier/outcome/results"
)

// RunFunction is the function a TaskQueue's workers invoke for each task.
type RunFunction[T any, R any] func(ctx context.Context, t T) results.Result[R, *apperrors.AppError]

type TaskQueue[T any, R any] struct {
	isStopping uint32

	run      RunFunction[T, R]
	taskChan chan task.Handle[T, R]

	submit submit.SubmitFunction[T, R]

	waitSend *sync.WaitGroup
	waitStop *sync.WaitGroup
	stopOnce *sync.Once
}

// New creates a TaskQueue running tasks on opts.MaxWorkers goroutines.
// It panics if opts is invalid.
func New[T any, R any](opts Opts, run RunFunction[T, R]) *TaskQueue[T, R] {
	opts.validate()

	tq := &TaskQueue[T, R]{
		run:      run,
		taskChan: make(chan task.Handle[T, R], opts.MaxQueueDepth),
		submit:   submit.GetSubmitFunction[T, R](submit.FullQueueStrategy(opts.FullQueueStrategy)),
		waitSend: &sync.WaitGroup{},
		waitStop: &sync.WaitGroup{},
		stopOnce: &sync.Once{},
	}

	for i := 0; i < opts.MaxWorkers; i++ {
		tq.waitStop.Add(1)
		go tq.worker(i)
	}

	return tq
}

func (tq *TaskQueue[T, R]) worker(workerNum int) {
	defer tq.waitStop.Done()

	for h := range tq.taskChan {
		// If the submitter gave up while the task was queued, resolve
		// without running it.  Cancellation folds to a Failure like any
		// other; it is never silently dropped.
		if err := h.Ctx.Err(); err != nil {
			h.Async.Fail(apperrors.FromError(err))
			continue
		}

		ctx := withWorkerID(h.Ctx, workerNum)
		h.Async.Resolve(tq.runTask(ctx, h.Task))
	}
}

func (tq *TaskQueue[T, R]) runTask(ctx context.Context, t T) (r results.Result[R, *apperrors.AppError]) {
	defer func() {
		if v := recover(); v != nil {
			r = results.Failure[R](apperrors.FromPanic(v))
		}
	}()

	return tq.run(ctx, t)
}

// Submit queues a task and blocks until its Result is available or until ctx
// is done.  The returned error reports queue refusal or an abandoned wait
// only; the task's own outcome is carried by the Result.
func (tq *TaskQueue[T, R]) Submit(ctx context.Context, t T) (results.Result[R, *apperrors.AppError], error) {
	ar, err := tq.SubmitF(ctx, t)
	if err != nil {
		return *new(results.Result[R, *apperrors.AppError]), err
	}

	return ar.Await(ctx)
}

// SubmitF queues a task and returns the AsyncResult that will resolve with
// its outcome.  The returned error reports queue refusal only.
func (tq *TaskQueue[T, R]) SubmitF(ctx context.Context, t T) (*asyncresults.AsyncResult[R, *apperrors.AppError], error) {
	tq.waitSend.Add(1)
	defer tq.waitSend.Done()

	if atomic.LoadUint32(&tq.isStopping) == 1 {
		return nil, ErrStopped
	}

	h := task.NewHandle[T, R](ctx, t)

	if err := tq.submit(tq.taskChan, h); err != nil {
		return nil, err
	}

	return h.Async, nil
}

// Close stops the queue, waits for in-flight submissions to land, and then
// waits for the workers to drain the queue and exit.  Submissions after
// Close return ErrStopped.
func (tq *TaskQueue[T, R]) Close() {
	tq.stopOnce.Do(func() {
		atomic.StoreUint32(&tq.isStopping, 1)
		tq.waitSend.Wait()
		close(tq.taskChan)
	})

	tq.waitStop.Wait()
}
