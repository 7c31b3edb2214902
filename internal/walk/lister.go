package lazydir

import (
	"io/fs"
	"os"

	"github.com/karrick/godirwalk"
)

// DirEntry is one name returned by a directory listing.
type DirEntry struct {
	Name      string
	IsDir     bool
	IsSymlink bool
}

// Lister lists the entries of a single directory in the order the
// platform enumerates them. Implementations must be safe for concurrent use.
type Lister interface {
	List(dir string) ([]DirEntry, error)
}

// ListerFunc adapts an ordinary function to the Lister interface.
type ListerFunc func(dir string) ([]DirEntry, error)

// List calls f(dir).
func (f ListerFunc) List(dir string) ([]DirEntry, error) {
	return f(dir)
}

// GodirwalkLister lists directories with godirwalk, which reads the
// directory stream without sorting and without an lstat per entry on
// platforms that report the entry type.
type GodirwalkLister struct{}

// List implements Lister.
func (GodirwalkLister) List(dir string) ([]DirEntry, error) {
	// A nil scratch buffer makes godirwalk allocate one per call, which
	// keeps the lister safe to share between goroutines.
	dirents, err := godirwalk.ReadDirents(dir, nil)
	if err != nil {
		return nil, err
	}
	entries := make([]DirEntry, 0, len(dirents))
	for _, de := range dirents {
		entries = append(entries, DirEntry{
			Name:      de.Name(),
			IsDir:     de.IsDir(),
			IsSymlink: de.IsSymlink(),
		})
	}
	return entries, nil
}

// OSLister lists directories with os.ReadDir. Entries come back sorted
// by name.
type OSLister struct{}

// List implements Lister.
func (OSLister) List(dir string) ([]DirEntry, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	entries := make([]DirEntry, 0, len(des))
	for _, de := range des {
		entries = append(entries, DirEntry{
			Name:      de.Name(),
			IsDir:     de.IsDir(),
			IsSymlink: de.Type()&fs.ModeSymlink != 0,
		})
	}
	return entries, nil
}
