// Package submit provides the full-queue strategies shared by the executor
// packages.  A strategy decides what happens when a task is offered to a
// queue channel that cannot immediately accept it.
package submit

import (
	"errors"
	"log"

	"github.com/abevier/outcome/internal/task"
)

var (
	ErrQueueFull = errors.New("task queue is full")
)

type FullQueueStrategy int

const (
	BlockWhenFull FullQueueStrategy = iota
	ErrorWhenFull
)

type SubmitFunction[T any, R any] func(taskChan chan<- task.Handle[T, R], h task.Handle[T, R]) error

func GetSubmitFunction[T any, R any](s FullQueueStrategy) SubmitFunction[T, R] {
	switch s {
	case BlockWhenFull:
		return blockWhenFullStrategy[T, R]
	case ErrorWhenFull:
		return errorWhenFullStrategy[T, R]
	default:
		log.Panicf("invalid submit strategy value %d", s)
	}
	return blockWhenFullStrategy[T, R]
}

func blockWhenFullStrategy[T any, R any](taskChan chan<- task.Handle[T, R], h task.Handle[T, R]) error {
	select {
	case taskChan <- h:
		return nil
	case <-h.Ctx.Done():
		return h.Ctx.Err()
	}
}

func errorWhenFullStrategy[T any, R any](taskChan chan<- task.Handle[T, R], h task.Handle[T, R]) error {
	select {
	case taskChan <- h:
		return nil
	default:
		return ErrQueueFull
	}
}
