package lazydir

import (
	"sync"
	"sync/atomic"
	"time"
)

// Stats holds traversal statistics that are updated atomically during the walk.
type Stats struct {
	FilesEmitted int64         // Paths handed to the consumer's queue
	DirsListed   int64         // Directories listed successfully
	ErrorCount   int64         // Branches that failed
	ElapsedTime  time.Duration // Time since the traversal started, frozen once it finished
}

// statsTracker owns the counters shared by every producer of one walk.
type statsTracker struct {
	files  int64
	dirs   int64
	errors int64

	mu    sync.Mutex
	start time.Time
	end   time.Time
}

func (s *statsTracker) begin() {
	s.mu.Lock()
	s.start = time.Now()
	s.mu.Unlock()
}

func (s *statsTracker) finish() {
	s.mu.Lock()
	s.end = time.Now()
	s.mu.Unlock()
}

func (s *statsTracker) snapshot() Stats {
	stats := Stats{
		FilesEmitted: atomic.LoadInt64(&s.files),
		DirsListed:   atomic.LoadInt64(&s.dirs),
		ErrorCount:   atomic.LoadInt64(&s.errors),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.start.IsZero():
	case s.end.IsZero():
		stats.ElapsedTime = time.Since(s.start)
	default:
		stats.ElapsedTime = s.end.Sub(s.start)
	}
	return stats
}
