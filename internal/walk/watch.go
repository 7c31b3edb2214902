package lazydir

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatchEvent represents a filesystem event type
type WatchEvent string

// Watch event types
const (
	EventCreate WatchEvent = "create"
	EventModify WatchEvent = "modify"
	EventDelete WatchEvent = "delete"
	EventRename WatchEvent = "rename"
	EventChmod  WatchEvent = "chmod"
)

// eventOps pairs every WatchEvent with its fsnotify operation, in the
// order they are matched against an incoming event.
var eventOps = []struct {
	event WatchEvent
	op    fsnotify.Op
}{
	{EventCreate, fsnotify.Create},
	{EventModify, fsnotify.Write},
	{EventDelete, fsnotify.Remove},
	{EventRename, fsnotify.Rename},
	{EventChmod, fsnotify.Chmod},
}

// ParseWatchEvent maps an event name to its WatchEvent.
func ParseWatchEvent(s string) (WatchEvent, error) {
	switch strings.ToLower(s) {
	case "create":
		return EventCreate, nil
	case "write", "modify":
		return EventModify, nil
	case "remove", "delete":
		return EventDelete, nil
	case "rename":
		return EventRename, nil
	case "chmod":
		return EventChmod, nil
	default:
		return "", fmt.Errorf("unknown event type %q", s)
	}
}

// WatchOptions defines options for watching filesystem changes
type WatchOptions struct {
	// Events to report. If empty, all events are reported.
	Events []WatchEvent

	// Whether to watch subdirectories recursively
	Recursive bool

	// Timeout duration (0 means no timeout)
	Timeout time.Duration

	// Lister used to find the directories to register. Defaults to
	// GodirwalkLister.
	Lister Lister

	Logger *zap.Logger
}

// WatchMessage contains information about a filesystem event
type WatchMessage struct {
	Path  string     // Full path to the file
	Name  string     // Base name of the file
	Dir   string     // Directory containing the file
	Size  int64      // Size in bytes (0 for deleted files)
	Time  time.Time  // Modification time, or the time of the event
	IsDir bool       // Whether it's a directory
	Event WatchEvent // Event type
}

// WatchResult represents a watch event result
type WatchResult struct {
	Message WatchMessage
	Error   error
}

// WatchHandler is a function that processes watch events
type WatchHandler func(ctx context.Context, result WatchResult) error

// defaultWatchHandler returns a default handler that prints events
func defaultWatchHandler() WatchHandler {
	return func(ctx context.Context, result WatchResult) error {
		if result.Error != nil {
			return result.Error
		}
		fmt.Printf("%s: %s\n", strings.ToUpper(string(result.Message.Event)), result.Message.Path)
		return nil
	}
}

// Watch monitors root for filesystem changes until ctx is done or the
// timeout expires. With Recursive set, every directory below root is
// registered, as are directories created while watching.
func Watch(ctx context.Context, root string, opts WatchOptions, handler WatchHandler) error {
	if handler == nil {
		handler = defaultWatchHandler()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(root); err != nil {
		return fileError(root, err)
	}

	p := newProducer(Options{Lister: opts.Lister}, logger, &statsTracker{})
	if opts.Recursive {
		if err := p.register(watcher, root, false); err != nil {
			return err
		}
	}

	wanted := make(map[WatchEvent]bool)
	for _, e := range opts.Events {
		wanted[e] = true
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if herr := handler(ctx, WatchResult{Error: fmt.Errorf("watcher error: %w", err)}); herr != nil {
				logger.Warn("watch handler failed", zap.Error(herr))
			}

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			msg := WatchMessage{
				Path: event.Name,
				Name: filepath.Base(event.Name),
				Dir:  filepath.Dir(event.Name),
				Time: time.Now(),
			}
			for _, eo := range eventOps {
				if event.Has(eo.op) {
					msg.Event = eo.event
					break
				}
			}
			if msg.Event == "" {
				continue
			}

			if !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				if info, err := os.Stat(event.Name); err == nil {
					msg.Size = info.Size()
					msg.IsDir = info.IsDir()
					msg.Time = info.ModTime()
				}
			}
			if opts.Recursive && msg.IsDir && msg.Event == EventCreate {
				if err := p.register(watcher, event.Name, true); err != nil {
					if herr := handler(ctx, WatchResult{Error: err}); herr != nil {
						logger.Warn("watch handler failed", zap.String("path", event.Name), zap.Error(herr))
					}
				}
			}

			if len(wanted) > 0 && !wanted[msg.Event] {
				continue
			}
			if err := handler(ctx, WatchResult{Message: msg}); err != nil {
				logger.Warn("watch handler failed", zap.String("path", event.Name), zap.Error(err))
			}
		}
	}
}

// register adds dir's subdirectories to the watcher, and dir itself when
// self is set. Unreadable directories are logged and skipped.
func (p *producer) register(watcher *fsnotify.Watcher, dir string, self bool) error {
	if self {
		if err := watcher.Add(dir); err != nil {
			return fileError(dir, err)
		}
	}
	_, subdirs, err := p.scan(dir)
	if err != nil {
		p.logger.Warn("cannot list directory", zap.String("dir", dir), zap.Error(err))
		return nil
	}
	for _, sub := range subdirs {
		if err := p.register(watcher, sub, true); err != nil {
			p.logger.Warn("cannot watch directory", zap.String("dir", sub), zap.Error(err))
		}
	}
	return nil
}
