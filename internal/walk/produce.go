package lazydir

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"
)

// Entry is one item delivered to the consumer: either the absolute path
// of a non-directory entry or the error that ended one branch of the walk.
type Entry struct {
	Path string
	Err  error
}

// producer holds what every background task of one walk shares.
type producer struct {
	lister    Lister
	symlinks  SymlinkHandling
	normalize bool
	logger    *zap.Logger
	stats     *statsTracker

	visited sync.Map       // canonical directories, only with SymlinkFollow
	tasks   sync.WaitGroup // running goroutines
}

// dirTask is a directory queued for the worker pool. handle keeps the
// work queue open until the directory has been scanned and its children
// queued.
type dirTask struct {
	path   string
	handle *Sender[dirTask]
}

func newProducer(opts Options, logger *zap.Logger, stats *statsTracker) *producer {
	lister := opts.Lister
	if lister == nil {
		lister = GodirwalkLister{}
	}
	return &producer{
		lister:    lister,
		symlinks:  opts.SymlinkHandling,
		normalize: opts.NormalizeNames,
		logger:    logger,
		stats:     stats,
	}
}

// spawn runs fn on a new goroutine tracked by p.tasks.
func (p *producer) spawn(fn func()) {
	p.tasks.Add(1)
	go func() {
		defer p.tasks.Done()
		fn()
	}()
}

// enter reports whether dir should be scanned. Following links can reach
// the same directory twice, so with SymlinkFollow every directory is
// visited once by its canonical path.
func (p *producer) enter(dir string) bool {
	if p.symlinks != SymlinkFollow {
		return true
	}
	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return true
	}
	_, seen := p.visited.LoadOrStore(real, struct{}{})
	if seen {
		p.logger.Debug("directory already visited", zap.String("dir", dir), zap.String("real", real))
	}
	return !seen
}

// scan lists dir and partitions it into files and subdirectories,
// preserving listing order.
func (p *producer) scan(dir string) (files, subdirs []string, err error) {
	entries, err := p.lister.List(dir)
	if err != nil {
		return nil, nil, err
	}
	atomic.AddInt64(&p.stats.dirs, 1)
	p.logger.Debug("listed directory", zap.String("dir", dir), zap.Int("entries", len(entries)))

	for _, e := range entries {
		path := filepath.Join(dir, e.Name)
		switch {
		case e.IsDir:
			subdirs = append(subdirs, path)
		case e.IsSymlink && p.symlinks == SymlinkIgnore:
		case e.IsSymlink && p.symlinks == SymlinkFollow:
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				subdirs = append(subdirs, path)
			} else {
				files = append(files, path)
			}
		default:
			files = append(files, path)
		}
	}
	return files, subdirs, nil
}

// emit hands one path to the consumer.
func (p *producer) emit(tx *Sender[Entry], path string) error {
	if p.normalize {
		path = norm.NFC.String(path)
	}
	if err := tx.Send(Entry{Path: path}); err != nil {
		return channelError(path, err)
	}
	atomic.AddInt64(&p.stats.files, 1)
	return nil
}

// fail reports that the branch rooted at dir ended with err. Only a failed
// hand-off is returned; the listing error itself travels in-band.
func (p *producer) fail(tx *Sender[Entry], dir string, err error) error {
	atomic.AddInt64(&p.stats.errors, 1)
	p.logger.Warn("cannot list directory", zap.String("dir", dir), zap.Error(err))
	if sendErr := tx.Send(Entry{Err: fileError(dir, err)}); sendErr != nil {
		return channelError(dir, sendErr)
	}
	return nil
}

// visit scans one directory and sends its files. It returns the
// subdirectories still to be walked.
func (p *producer) visit(ctx context.Context, tx *Sender[Entry], dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !p.enter(dir) {
		return nil, nil
	}
	files, subdirs, err := p.scan(dir)
	if err != nil {
		return nil, p.fail(tx, dir, err)
	}
	for _, f := range files {
		if err := p.emit(tx, f); err != nil {
			return nil, err
		}
	}
	return subdirs, nil
}

// abort logs why a task stopped before finishing its subtree.
func (p *producer) abort(dir string, err error) {
	if errors.Is(err, context.Canceled) || IsChannelError(err) {
		p.logger.Debug("producer stopped", zap.String("dir", dir), zap.Error(err))
		return
	}
	p.logger.Error("producer failed", zap.String("dir", dir), zap.Error(err))
}

// sequential walks the tree depth first on the calling goroutine: all
// files of a directory are sent before any file of its descendants.
func (p *producer) sequential(ctx context.Context, tx *Sender[Entry], dir string) error {
	subdirs, err := p.visit(ctx, tx, dir)
	if err != nil {
		return err
	}
	for _, sub := range subdirs {
		if err := p.sequential(ctx, tx, sub); err != nil {
			return err
		}
	}
	return nil
}

// fanOut scans dir and starts one goroutine per subdirectory, each with
// its own handle on the channel. It does not wait for its children.
func (p *producer) fanOut(ctx context.Context, tx *Sender[Entry], dir string) {
	subdirs, err := p.visit(ctx, tx, dir)
	if err != nil {
		p.abort(dir, err)
		return
	}
	for _, sub := range subdirs {
		child := tx.Clone()
		p.spawn(func() {
			defer child.Close()
			p.fanOut(ctx, child, sub)
		})
	}
}

// pool walks the tree with a fixed number of workers pulling directories
// from a shared queue. The queue completes once every queued directory
// has been scanned.
func (p *producer) pool(ctx context.Context, tx *Sender[Entry], root string, workers int) error {
	work, queue := NewChannel[dirTask]()
	defer queue.Close()
	if err := work.Send(dirTask{path: root, handle: work}); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for {
				task, ok, err := queue.Recv(gctx)
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
				subdirs, err := p.visit(gctx, tx, task.path)
				if err != nil {
					task.handle.Close()
					return err
				}
				for _, sub := range subdirs {
					h := task.handle.Clone()
					if err := h.Send(dirTask{path: sub, handle: h}); err != nil {
						h.Close()
						task.handle.Close()
						return err
					}
				}
				task.handle.Close()
			}
		})
	}
	return g.Wait()
}

// fastwalk delegates discovery to fastwalk's own worker pool. fastwalk
// reads directories itself, so p.lister is not consulted.
func (p *producer) fastwalk(ctx context.Context, tx *Sender[Entry], root string, workers int) error {
	info, err := os.Stat(root)
	if err != nil {
		return p.fail(tx, root, err)
	}
	if !info.IsDir() {
		return p.fail(tx, root, &fs.PathError{Op: "open", Path: root, Err: syscall.ENOTDIR})
	}

	conf := fastwalk.Config{
		Follow:     p.symlinks == SymlinkFollow,
		NumWorkers: workers,
	}
	return fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return p.fail(tx, path, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return p.descend(path)
		}
		if d.Type()&fs.ModeSymlink != 0 {
			switch p.symlinks {
			case SymlinkIgnore:
				return nil
			case SymlinkFollow:
				// fastwalk only stops at ancestors; aliases of a directory
				// seen elsewhere in the tree are skipped here.
				if info, err := os.Stat(path); err == nil && info.IsDir() {
					return p.descend(path)
				}
			}
		}
		return p.emit(tx, path)
	})
}

// descend tells fastwalk whether to walk into dir.
func (p *producer) descend(dir string) error {
	if !p.enter(dir) {
		return fastwalk.SkipDir
	}
	atomic.AddInt64(&p.stats.dirs, 1)
	return nil
}
