// Package lazydir enumerates every file under a root directory as a lazily
// started, pull-based sequence of absolute paths. Discovery runs on
// background goroutines and feeds an unbounded channel; the consumer pulls
// one path at a time and never waits for the whole tree to be scanned.
package lazydir

import (
	"context"
	"errors"
	"io"
	"iter"
	"path/filepath"
	"runtime"
	"sync"

	"go.uber.org/zap"
)

// state tracks the single production session of a Walker.
type state int

const (
	stateNotStarted state = iota
	stateRunning
	stateExhausted
)

// Walker yields the files under its root. Production starts on the first
// call to Next and happens at most once per Walker.
type Walker struct {
	root   string
	logger *zap.Logger

	mu     sync.Mutex
	opts   Options
	state  state
	rx     *Receiver[Entry]
	cancel context.CancelFunc
	done   chan struct{}
	stats  statsTracker
}

// New resolves path and returns a Walker using default options.
func New(path string) (*Walker, error) {
	return NewWithOptions(path, NewOptions())
}

// NewWithOptions resolves path to an absolute, symlink-free location and
// returns a Walker for it. No background work is started. A path that does
// not exist or cannot be resolved yields a KindFile error.
func NewWithOptions(path string, opts Options) (*Walker, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fileError(path, err)
	}
	root, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fileError(path, err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = createLogger(opts.LogLevel)
	}
	if opts.Lister == nil {
		opts.Lister = GodirwalkLister{}
	}

	return &Walker{
		root:   root,
		logger: logger.With(zap.String("root", root)),
		opts:   opts,
		done:   make(chan struct{}),
	}, nil
}

// Root returns the resolved root directory.
func (w *Walker) Root() string {
	return w.root
}

// Mode returns the selected traversal mode.
func (w *Walker) Mode() Mode {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.opts.Mode
}

// SetMode selects the traversal strategy. It fails with ErrStarted once
// Next has been called, leaving the mode unchanged.
func (w *Walker) SetMode(m Mode) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != stateNotStarted {
		return ErrStarted
	}
	w.opts.Mode = m
	return nil
}

// SetMultithreaded switches between ModeFanOut and ModeSequential.
func (w *Walker) SetMultithreaded(multithreaded bool) error {
	if multithreaded {
		return w.SetMode(ModeFanOut)
	}
	return w.SetMode(ModeSequential)
}

// Next returns the next file path. The first call starts the background
// traversal. A directory that could not be listed is reported as ("", err)
// with err a KindFile *Error; the sequence continues after it. Once every
// producer has finished Next returns io.EOF, and keeps doing so. If ctx is
// done first, ctx.Err() is returned and the Walker is left as it was.
func (w *Walker) Next(ctx context.Context) (string, error) {
	w.mu.Lock()
	switch w.state {
	case stateNotStarted:
		w.startLocked()
	case stateExhausted:
		w.mu.Unlock()
		return "", io.EOF
	}
	rx := w.rx
	w.mu.Unlock()

	e, ok, err := rx.Recv(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		w.mu.Lock()
		w.state = stateExhausted
		w.mu.Unlock()
		return "", io.EOF
	}
	if e.Err != nil {
		return "", e.Err
	}
	return e.Path, nil
}

// All returns an iterator over the remaining paths and branch errors.
// Stopping the loop early closes the Walker. A cancelled ctx is yielded
// once as an error and ends the iteration.
func (w *Walker) All(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for {
			path, err := w.Next(ctx)
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(path, err) {
				w.Close()
				return
			}
			if err != nil && ctx.Err() != nil {
				return
			}
		}
	}
}

// Collect drains the Walker. Branch errors are joined into the returned
// error; the paths gathered so far are returned alongside it.
func (w *Walker) Collect(ctx context.Context) ([]string, error) {
	var paths []string
	var errs []error
	for path, err := range w.All(ctx) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		paths = append(paths, path)
	}
	return paths, errors.Join(errs...)
}

// Close abandons the traversal. Producers are cancelled, buffered paths are
// dropped and Next returns io.EOF from now on. Close is idempotent.
func (w *Walker) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.state {
	case stateNotStarted:
		close(w.done)
	case stateRunning:
		w.cancel()
		w.rx.Close()
	}
	w.state = stateExhausted
	return nil
}

// Done is closed once every background goroutine has returned.
func (w *Walker) Done() <-chan struct{} {
	return w.done
}

// Stats returns a snapshot of the traversal statistics.
func (w *Walker) Stats() Stats {
	return w.stats.snapshot()
}

// startLocked starts the production session. w.mu must be held.
func (w *Walker) startLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	tx, rx := NewChannel[Entry]()
	w.rx = rx
	w.cancel = cancel
	w.state = stateRunning
	w.stats.begin()

	mode := w.opts.Mode
	workers := w.opts.NumWorkers
	if workers == 0 || workers < Unbounded {
		workers = runtime.NumCPU()
	}
	w.logger.Debug("starting walk", zap.Stringer("mode", mode), zap.Int("workers", workers))

	p := newProducer(w.opts, w.logger, &w.stats)
	p.spawn(func() {
		defer tx.Close()
		var err error
		switch {
		case mode == ModeFastwalk:
			if workers == Unbounded {
				workers = 0
			}
			err = p.fastwalk(ctx, tx, w.root, workers)
			if err != nil && !IsChannelError(err) && !errors.Is(err, context.Canceled) {
				err = p.fail(tx, w.root, err)
			}
		case mode == ModeFanOut && workers == Unbounded:
			p.fanOut(ctx, tx, w.root)
		case mode == ModeFanOut:
			err = p.pool(ctx, tx, w.root, workers)
		default:
			err = p.sequential(ctx, tx, w.root)
		}
		if err != nil {
			p.abort(w.root, err)
		}
	})

	go func() {
		p.tasks.Wait()
		cancel()
		w.stats.finish()
		w.logger.Debug("walk finished", zap.Any("stats", w.stats.snapshot()))
		close(w.done)
	}()
}
