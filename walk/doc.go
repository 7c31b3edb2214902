// Package walk enumerates every file under a root directory as a lazily
// started, pull-based sequence of absolute paths.
//
// Nothing is read from disk until the first call to Next:
//
//	w, err := walk.New("/path/to/tree")
//	if err != nil {
//		return err // the root does not exist or cannot be resolved
//	}
//	for {
//		path, err := w.Next(ctx)
//		if errors.Is(err, io.EOF) {
//			break
//		}
//		if err != nil {
//			// one directory could not be listed; the walk goes on
//			log.Println(err)
//			continue
//		}
//		fmt.Println(path)
//	}
//
// Or with range-over-func:
//
//	for path, err := range w.All(ctx) {
//		...
//	}
//
// Traversal Modes
//
// ModeSequential scans the tree on one goroutine and guarantees that the
// files of a directory are returned before those of any of its
// descendants. ModeFanOut scans directories concurrently on a pool of
// NumWorkers goroutines (or one goroutine per directory with Unbounded),
// and ModeFastwalk hands discovery to fastwalk. Neither concurrent mode
// orders its output. The mode can only be changed before the first pull:
//
//	opts := walk.NewOptions()
//	opts.Mode = walk.ModeFanOut
//	opts.NumWorkers = 8
//	w, err := walk.NewWithOptions(root, opts)
//
// Abandoning a Walker
//
// A Walker that is no longer needed should be closed. Close cancels the
// background goroutines; Done reports when they have all returned.
//
// Watch Functionality
//
// Watch reports filesystem changes below a root:
//
//	opts := walk.WatchOptions{
//		Recursive: true,
//		Events:    []walk.WatchEvent{walk.EventCreate},
//	}
//	err := walk.Watch(ctx, "/path/to/watch", opts, func(ctx context.Context, result walk.WatchResult) error {
//		if result.Error != nil {
//			return result.Error
//		}
//		fmt.Printf("Event: %s, File: %s\n", result.Message.Event, result.Message.Path)
//		return nil
//	})
package walk
