// Package configwatch keeps a typed config value loaded from a file and
// reloads it when the file changes on disk.  The watcher owns a RemoteData
// cell tracking the reload lifecycle: NotAsked until Start, Loading while a
// (re)load runs, then Success or Failure from the configload result.  A
// failed reload leaves the cell in Failure until the next file change
// retries it; consumers decide what each state means for them via Match.
package configwatch

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/abevier/outcome/apperrors"
	"github.com/abevier/outcome/closewaiter"
	"github.com/abevier/outcome/configload"
	"github.com/abevier/outcome/remotedata"
)

// Opts is used to configure a Watcher via the New function.
type Opts struct {
	// Path is the config file to load and watch.
	Path string
}

func (o Opts) validate() {
	if o.Path == "" {
		panic("config watcher path must not be empty")
	}
}

type Watcher[T any] struct {
	path     string
	validate configload.ValidateFunction[T]

	mu      sync.RWMutex
	state   remotedata.RemoteData[T, *apperrors.AppError]
	started bool

	updates  chan remotedata.RemoteData[T, *apperrors.AppError]
	fsw      *fsnotify.Watcher
	closer   *closewaiter.CloseWaiter
	loopDone chan struct{}
}

// New creates a Watcher for the config file named by opts.  The validate
// hook, when not nil, runs on every reload.  Nothing is loaded until Start.
// New panics if opts is invalid.
func New[T any](opts Opts, validate configload.ValidateFunction[T]) (*Watcher[T], error) {
	opts.validate()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher[T]{
		path:     filepath.Clean(opts.Path),
		validate: validate,
		state:    remotedata.NotAsked[T, *apperrors.AppError](),
		updates:  make(chan remotedata.RemoteData[T, *apperrors.AppError], 1),
		fsw:      fsw,
		closer:   closewaiter.New(),
		loopDone: make(chan struct{}),
	}, nil
}

// Start performs the initial load and begins watching for file changes.  The
// parent directory is watched rather than the file itself so that editors
// that replace the file on save keep triggering reloads.
func (w *Watcher[T]) Start() error {
	if err := w.fsw.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	_ = w.closer.Do(w.reload)

	w.mu.Lock()
	w.started = true
	w.mu.Unlock()

	go w.watchLoop()
	return nil
}

// State returns the current lifecycle state of the watched config.
func (w *Watcher[T]) State() remotedata.RemoteData[T, *apperrors.AppError] {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// Updates returns a stream of lifecycle states.  The stream holds the latest
// state only: when a consumer lags, stale states are dropped, never new
// ones.  The channel is closed by Close.
func (w *Watcher[T]) Updates() <-chan remotedata.RemoteData[T, *apperrors.AppError] {
	return w.updates
}

func (w *Watcher[T]) watchLoop() {
	defer close(w.loopDone)

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			_ = w.closer.Do(w.reload)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			_ = w.closer.Do(func() { w.watchFailed(err) })
		}
	}
}

func (w *Watcher[T]) reload() {
	loading := w.State().ToLoading()
	w.publish(loading.State())
	w.publish(loading.Done(configload.Load(w.path, w.validate)))
}

// watchFailed marks the cell Failure when the underlying watch reports an
// error; the config on disk may have changed without us noticing, so the
// cached value can no longer be trusted as current.
func (w *Watcher[T]) watchFailed(err error) {
	e := apperrors.Wrap(apperrors.Internal, "config watch failed", err).With("path", w.path)
	w.publish(w.State().ToLoading().ToFailure(e))
}

func (w *Watcher[T]) publish(rd remotedata.RemoteData[T, *apperrors.AppError]) {
	w.mu.Lock()
	w.state = rd
	w.mu.Unlock()

	for {
		select {
		case w.updates <- rd:
			return
		default:
			// drop the stale state so the channel always holds the latest
			select {
			case <-w.updates:
			default:
			}
		}
	}
}

// Close stops watching, waits for an in-flight reload to finish, and closes
// the updates stream.
func (w *Watcher[T]) Close() {
	w.closer.Close(func() {
		w.fsw.Close()

		w.mu.RLock()
		started := w.started
		w.mu.RUnlock()

		if started {
			<-w.loopDone
		}
		close(w.updates)
	})
}
