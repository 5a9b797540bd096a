// Package ratelimiter provides a token-bucket rate limiter that paces when
// submitted tasks start.  Task outcomes travel as Results: an abort while
// waiting for the limiter, including the submitter's context ending, is
// folded into a Failure rather than dropped.
package ratelimiter

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/abevier/outcome/apperrors"
	"github.com/abevier/outcome/asyncresults"
	"github.com/abevier/outcome/internal/submit"
	"github.com/abevier/outcome/internal/task"
	"github.com/abevier/outcome/results"
)

// RunFunction is the function the RateLimiter invokes for each task once the
// limiter admits it.
type RunFunction[T any, R any] func(ctx context.Context, t T) results.Result[R, *apperrors.AppError]

type RateLimiter[T any, R any] struct {
	limiter  *rate.Limiter
	taskChan chan task.Handle[T, R]

	submit submit.SubmitFunction[T, R]
	run    RunFunction[T, R]
}

// New creates a RateLimiter admitting tasks at opts.Limit with bursts of
// opts.Burst.  It panics if opts is invalid.
func New[T any, R any](opts Opts, run RunFunction[T, R]) *RateLimiter[T, R] {
	opts.validate()

	rl := &RateLimiter[T, R]{
		limiter:  rate.NewLimiter(rate.Limit(opts.Limit), opts.Burst),
		taskChan: make(chan task.Handle[T, R], opts.MaxQueueDepth),
		submit:   submit.GetSubmitFunction[T, R](submit.FullQueueStrategy(opts.FullQueueStrategy)),
		run:      run,
	}

	rl.startWorker()

	return rl
}

func (rl *RateLimiter[T, R]) startWorker() {
	go func() {
		for {
			h, ok := <-rl.taskChan
			if !ok {
				return
			}

			if err := rl.limiter.Wait(h.Ctx); err != nil {
				h.Async.Fail(apperrors.FromError(err))
				continue
			}

			rl.runTask(h)
		}
	}()
}

// runTask starts the admitted task on its own goroutine; the limiter paces
// starts, not completions.
func (rl *RateLimiter[T, R]) runTask(h task.Handle[T, R]) {
	go func() {
		defer func() {
			if v := recover(); v != nil {
				h.Async.Fail(apperrors.FromPanic(v))
			}
		}()

		h.Async.Resolve(rl.run(h.Ctx, h.Task))
	}()
}

// Submit queues a task and blocks until its Result is available or until ctx
// is done.  The returned error reports queue refusal or an abandoned wait
// only; the task's own outcome is carried by the Result.
func (rl *RateLimiter[T, R]) Submit(ctx context.Context, t T) (results.Result[R, *apperrors.AppError], error) {
	ar, err := rl.SubmitF(ctx, t)
	if err != nil {
		return *new(results.Result[R, *apperrors.AppError]), err
	}

	return ar.Await(ctx)
}

// SubmitF queues a task and returns the AsyncResult that will resolve with
// its outcome.  The returned error reports queue refusal only.
func (rl *RateLimiter[T, R]) SubmitF(ctx context.Context, t T) (*asyncresults.AsyncResult[R, *apperrors.AppError], error) {
	h := task.NewHandle[T, R](ctx, t)

	if err := rl.submit(rl.taskChan, h); err != nil {
		return nil, err
	}

	return h.Async, nil
}

// Close stops the rate limiter.
// WARNING If this is called twice or Submit is called after calling Close it will panic
func (rl *RateLimiter[T, R]) Close() {
	close(rl.taskChan)
}
