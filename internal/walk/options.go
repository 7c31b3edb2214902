package lazydir

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Unbounded as NumWorkers gives every discovered directory its own goroutine.
const Unbounded = -1

// --------------------------------------------------------------------------
// Configuration types
// --------------------------------------------------------------------------

// Mode selects how the tree is scanned in the background.
type Mode int

const (
	ModeSequential Mode = iota // One goroutine, files of a directory before its descendants
	ModeFanOut                 // Directories scanned concurrently, no ordering
	ModeFastwalk               // Discovery delegated to fastwalk, no ordering; Options.Lister is not used
)

func (m Mode) String() string {
	switch m {
	case ModeSequential:
		return "sequential"
	case ModeFanOut:
		return "fanout"
	case ModeFastwalk:
		return "fastwalk"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps a mode name to its Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "sequential", "single", "":
		return ModeSequential, nil
	case "fanout", "fan-out", "parallel":
		return ModeFanOut, nil
	case "fastwalk":
		return ModeFastwalk, nil
	default:
		return ModeSequential, fmt.Errorf("unknown mode %q", s)
	}
}

// SymlinkHandling defines how symbolic links are processed.
type SymlinkHandling int

const (
	SymlinkReport SymlinkHandling = iota // Emit links as entries, never descend
	SymlinkFollow                        // Descend into links to directories
	SymlinkIgnore                        // Neither emit nor descend
)

func (s SymlinkHandling) String() string {
	switch s {
	case SymlinkReport:
		return "report"
	case SymlinkFollow:
		return "follow"
	case SymlinkIgnore:
		return "ignore"
	default:
		return fmt.Sprintf("SymlinkHandling(%d)", int(s))
	}
}

// ParseSymlinkHandling maps a policy name to its SymlinkHandling.
func ParseSymlinkHandling(s string) (SymlinkHandling, error) {
	switch strings.ToLower(s) {
	case "report", "":
		return SymlinkReport, nil
	case "follow":
		return SymlinkFollow, nil
	case "ignore":
		return SymlinkIgnore, nil
	default:
		return SymlinkReport, fmt.Errorf("unknown symlink handling %q", s)
	}
}

// LogLevel defines the verbosity of logging.
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// Options configures a Walker.
type Options struct {
	Mode            Mode
	NumWorkers      int // Goroutines for ModeFanOut and ModeFastwalk; 0 means runtime.NumCPU()
	SymlinkHandling SymlinkHandling
	NormalizeNames  bool   // Emit NFC-normalized paths
	Lister          Lister // Defaults to GodirwalkLister; ModeFastwalk reads directories itself
	Logger          *zap.Logger
	LogLevel        LogLevel // Used when Logger is nil
}

// NewOptions returns Options with default values.
func NewOptions() Options {
	return Options{
		Mode:            ModeSequential,
		SymlinkHandling: SymlinkReport,
		Lister:          GodirwalkLister{},
		LogLevel:        LogLevelError,
	}
}
