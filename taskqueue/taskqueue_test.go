package taskqueue

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abevier/outcome/apperrors"
	"github.com/abevier/outcome/results"
)

func double(ctx context.Context, task int) results.Result[int, *apperrors.AppError] {
	return results.Success[int, *apperrors.AppError](task * 2)
}

func failureOf[T any](req *require.Assertions, r results.Result[T, *apperrors.AppError]) *apperrors.AppError {
	return results.Match(r,
		func(T) *apperrors.AppError {
			req.Fail("expected a failure")
			return nil
		},
		func(e *apperrors.AppError) *apperrors.AppError { return e },
	)
}

func TestTaskQueue(t *testing.T) {
	req := require.New(t)

	maxWorkers := 3
	wg := sync.WaitGroup{}

	run := func(ctx context.Context, task int) results.Result[int, *apperrors.AppError] {
		workerID, ok := WorkerIDFromContext(ctx)
		req.True(ok)
		req.True(isValidWorkerID(workerID, maxWorkers))
		return results.Success[int, *apperrors.AppError](task * 2)
	}

	tq := New(Opts{MaxWorkers: maxWorkers, MaxQueueDepth: 10}, run)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			r, err := tq.Submit(context.Background(), n)
			req.NoError(err)
			req.Equal(n*2, r.MustGet())
		}(i)
	}

	wg.Wait()
	tq.Close()
}

func TestTaskQueueSubmitRefusedWhenContextCanceled(t *testing.T) {
	req := require.New(t)

	gate := make(chan struct{})
	started := make(chan struct{})
	run := func(ctx context.Context, task int) results.Result[int, *apperrors.AppError] {
		started <- struct{}{}
		<-gate
		return results.Success[int, *apperrors.AppError](task)
	}

	tq := New(Opts{MaxWorkers: 1, MaxQueueDepth: 0, FullQueueStrategy: BlockWhenFull}, run)

	busy, err := tq.SubmitF(context.Background(), 1)
	req.NoError(err)
	// The single worker is now occupied and the queue has no room, so the
	// next submission can only end via its context.
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = tq.Submit(ctx, 2)
	req.ErrorIs(err, context.Canceled)

	close(gate)
	r, err := busy.Await(context.Background())
	req.NoError(err)
	req.Equal(1, r.MustGet())

	tq.Close()
}

func TestTaskQueueAbandonedTaskFoldsToFailure(t *testing.T) {
	req := require.New(t)

	gate := make(chan struct{})
	started := make(chan struct{})
	run := func(ctx context.Context, task int) results.Result[int, *apperrors.AppError] {
		if task == 0 {
			started <- struct{}{}
			<-gate
		}
		return results.Success[int, *apperrors.AppError](task)
	}

	tq := New(Opts{MaxWorkers: 1, MaxQueueDepth: 1}, run)

	_, err := tq.SubmitF(context.Background(), 0)
	req.NoError(err)
	<-started

	// This task sits queued behind the gated one; its submitter gives up
	// before the worker reaches it.
	ctx, cancel := context.WithCancel(context.Background())
	ar, err := tq.SubmitF(ctx, 7)
	req.NoError(err)
	cancel()
	close(gate)

	r, err := ar.Await(context.Background())
	req.NoError(err)

	e := failureOf(req, r)
	req.Equal(apperrors.Internal, e.Kind())
	req.ErrorIs(e, context.Canceled)

	tq.Close()
}

func TestTaskQueuePanicFoldsToFailure(t *testing.T) {
	req := require.New(t)

	run := func(ctx context.Context, task int) results.Result[int, *apperrors.AppError] {
		if task == 13 {
			panic("unlucky")
		}
		return results.Success[int, *apperrors.AppError](task * 2)
	}

	tq := New(Opts{MaxWorkers: 2, MaxQueueDepth: 10}, run)

	r, err := tq.Submit(context.Background(), 13)
	req.NoError(err)

	e := failureOf(req, r)
	req.Equal(apperrors.Internal, e.Kind())
	req.Equal("panic: unlucky", e.Message())

	// The worker survives the panic and keeps running tasks.
	r, err = tq.Submit(context.Background(), 2)
	req.NoError(err)
	req.Equal(4, r.MustGet())

	tq.Close()
}

func TestTaskQueueSubmitF(t *testing.T) {
	req := require.New(t)

	tq := New(Opts{MaxWorkers: 1, MaxQueueDepth: 10}, double)

	ar, err := tq.SubmitF(context.Background(), 21)
	req.NoError(err)

	r, err := ar.Await(context.Background())
	req.NoError(err)
	req.Equal(42, r.MustGet())

	tq.Close()
}

func TestTaskQueueSubmitAfterClose(t *testing.T) {
	req := require.New(t)

	tq := New(Opts{MaxWorkers: 1, MaxQueueDepth: 1}, double)
	tq.Close()

	_, err := tq.Submit(context.Background(), 1)
	req.ErrorIs(err, ErrStopped)
}

func isValidWorkerID(id string, maxWorkers int) bool {
	for i := 0; i < maxWorkers; i++ {
		if id == "worker-"+strconv.Itoa(i) {
			return true
		}
	}
	return false
}
