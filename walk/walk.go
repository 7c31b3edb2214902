package walk

import (
	"context"

	internal "github.com/TFMV/lazydir/internal/walk"
)

// Re-export all the types and constants from the internal package
type (
	// Walker yields the files under its root, scanning lazily in the background.
	Walker = internal.Walker

	// Options configures a Walker.
	Options = internal.Options

	// Mode selects how the tree is scanned in the background.
	Mode = internal.Mode

	// SymlinkHandling defines how symbolic links are processed.
	SymlinkHandling = internal.SymlinkHandling

	// LogLevel defines the verbosity of logging.
	LogLevel = internal.LogLevel

	// Stats holds traversal statistics.
	Stats = internal.Stats

	// Error carries the kind, path and cause of a walk failure.
	Error = internal.Error

	// ErrorKind classifies walk failures.
	ErrorKind = internal.ErrorKind

	// Lister lists the entries of a single directory.
	Lister = internal.Lister

	// ListerFunc adapts a function to the Lister interface.
	ListerFunc = internal.ListerFunc

	// DirEntry is one name returned by a Lister.
	DirEntry = internal.DirEntry

	// GodirwalkLister is the default Lister.
	GodirwalkLister = internal.GodirwalkLister

	// OSLister lists directories with os.ReadDir.
	OSLister = internal.OSLister

	// Re-export watch types
	WatchEvent   = internal.WatchEvent
	WatchOptions = internal.WatchOptions
	WatchMessage = internal.WatchMessage
	WatchResult  = internal.WatchResult
	WatchHandler = internal.WatchHandler
)

// Re-export all the constants
const (
	// Traversal modes
	ModeSequential = internal.ModeSequential
	ModeFanOut     = internal.ModeFanOut
	ModeFastwalk   = internal.ModeFastwalk

	// Unbounded as Options.NumWorkers starts one goroutine per directory.
	Unbounded = internal.Unbounded

	// Symlink handling modes
	SymlinkReport = internal.SymlinkReport
	SymlinkFollow = internal.SymlinkFollow
	SymlinkIgnore = internal.SymlinkIgnore

	// Log levels
	LogLevelError = internal.LogLevelError
	LogLevelWarn  = internal.LogLevelWarn
	LogLevelInfo  = internal.LogLevelInfo
	LogLevelDebug = internal.LogLevelDebug

	// Error kinds
	KindFile    = internal.KindFile
	KindChannel = internal.KindChannel

	// Watch event constants
	EventCreate = internal.EventCreate
	EventModify = internal.EventModify
	EventDelete = internal.EventDelete
	EventRename = internal.EventRename
	EventChmod  = internal.EventChmod
)

var (
	// ErrStarted is returned when the mode is changed after the first pull.
	ErrStarted = internal.ErrStarted

	// ErrClosed is the cause of a KindChannel error.
	ErrClosed = internal.ErrClosed
)

// New resolves path and returns a Walker with default options.
func New(path string) (*Walker, error) {
	return internal.New(path)
}

// NewWithOptions resolves path and returns a Walker configured by opts.
func NewWithOptions(path string, opts Options) (*Walker, error) {
	return internal.NewWithOptions(path, opts)
}

// NewOptions creates a new Options with default values.
func NewOptions() Options {
	return internal.NewOptions()
}

// IsFileError reports whether err is a KindFile error.
func IsFileError(err error) bool {
	return internal.IsFileError(err)
}

// IsChannelError reports whether err is a KindChannel error.
func IsChannelError(err error) bool {
	return internal.IsChannelError(err)
}

// FormatPath expands the {}, {base}, {dir}, {rel} and {ext} placeholders in template.
func FormatPath(template, root, path string) string {
	return internal.FormatPath(template, root, path)
}

// Watch monitors a directory for filesystem changes
func Watch(ctx context.Context, root string, opts WatchOptions, handler WatchHandler) error {
	return internal.Watch(ctx, root, opts, handler)
}
