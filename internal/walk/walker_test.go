package lazydir

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

// createTestTree builds
//
//	root/file1.txt file2.txt file3.txt
//	root/subdir1/file11.txt file12.txt file13.txt
//	root/subdir1/subdir2/file21.txt … file25.txt
//
// and returns the resolved root with the expected file paths per level.
func createTestTree(t *testing.T) (string, [][]string) {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to resolve temp dir: %v", err)
	}

	levels := []struct {
		dir   string
		names []string
	}{
		{root, []string{"file1.txt", "file2.txt", "file3.txt"}},
		{filepath.Join(root, "subdir1"), []string{"file11.txt", "file12.txt", "file13.txt"}},
		{filepath.Join(root, "subdir1", "subdir2"), []string{"file21.txt", "file22.txt", "file23.txt", "file24.txt", "file25.txt"}},
	}

	var expected [][]string
	for _, level := range levels {
		if err := os.MkdirAll(level.dir, 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		var paths []string
		for _, name := range level.names {
			path := filepath.Join(level.dir, name)
			if err := os.WriteFile(path, []byte(name), 0644); err != nil {
				t.Fatalf("Failed to create test file: %v", err)
			}
			paths = append(paths, path)
		}
		expected = append(expected, paths)
	}
	return root, expected
}

// createWideTree builds dirs directories holding files files each.
func createWideTree(t *testing.T, dirs, files int) string {
	t.Helper()
	root := t.TempDir()
	for d := 0; d < dirs; d++ {
		dir := filepath.Join(root, fmt.Sprintf("dir%02d", d), "nested")
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		for f := 0; f < files; f++ {
			path := filepath.Join(dir, fmt.Sprintf("file%03d.txt", f))
			if err := os.WriteFile(path, nil, 0644); err != nil {
				t.Fatalf("Failed to create test file: %v", err)
			}
		}
	}
	return root
}

func testOptions(t *testing.T, mode Mode) Options {
	opts := NewOptions()
	opts.Mode = mode
	opts.Logger = zaptest.NewLogger(t)
	return opts
}

// walkModes lists every strategy a Walker can run with.
var walkModes = []struct {
	name    string
	mode    Mode
	workers int
}{
	{"sequential", ModeSequential, 0},
	{"pool", ModeFanOut, 2},
	{"unbounded", ModeFanOut, Unbounded},
	{"fastwalk", ModeFastwalk, 2},
}

// drain pulls every item from w, failing the test if it takes too long.
func drain(t *testing.T, w *Walker) ([]string, []error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var paths []string
	var errs []error
	for {
		path, err := w.Next(ctx)
		if errors.Is(err, io.EOF) {
			return paths, errs
		}
		if errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("Walk did not finish in time")
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		paths = append(paths, path)
	}
}

func flatten(levels [][]string) []string {
	var all []string
	for _, l := range levels {
		all = append(all, l...)
	}
	sort.Strings(all)
	return all
}

func assertSameSet(t *testing.T, got, want []string) {
	t.Helper()
	sorted := append([]string(nil), got...)
	sort.Strings(sorted)
	if strings.Join(sorted, "\n") != strings.Join(want, "\n") {
		t.Errorf("Expected paths:\n%s\ngot:\n%s", strings.Join(want, "\n"), strings.Join(sorted, "\n"))
	}
}

// TestNewResolvesRoot tests that construction canonicalizes the root
func TestNewResolvesRoot(t *testing.T) {
	root, _ := createTestTree(t)

	w1, err := New(root)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	w2, err := New(filepath.Join(root, "subdir1", ".."))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if w1.Root() != root || w2.Root() != root {
		t.Errorf("Expected root %s, got %s and %s", root, w1.Root(), w2.Root())
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	cwd, _ = filepath.EvalSymlinks(cwd)
	w3, err := New(".")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if w3.Root() != cwd {
		t.Errorf("Expected root %s, got %s", cwd, w3.Root())
	}
}

// TestNewNonExistentRoot tests that an unresolvable root fails fast
func TestNewNonExistentRoot(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "does", "not", "exist"))
	if err == nil {
		t.Fatalf("Expected error for non-existent directory, got walker for %s", w.Root())
	}
	if w != nil {
		t.Errorf("Expected no walker on error")
	}
	if !IsFileError(err) {
		t.Errorf("Expected a file error, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected error to wrap os.ErrNotExist, got %v", err)
	}
}

// TestSequentialOrder tests that a directory's files precede its descendants' files
func TestSequentialOrder(t *testing.T) {
	root, levels := createTestTree(t)

	w, err := NewWithOptions(root, testOptions(t, ModeSequential))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	paths, errs := drain(t, w)
	if len(errs) > 0 {
		t.Fatalf("Unexpected errors: %v", errs)
	}
	if len(paths) != 11 {
		t.Fatalf("Expected 11 paths, got %d: %v", len(paths), paths)
	}
	assertSameSet(t, paths, flatten(levels))

	position := make(map[string]int, len(paths))
	for i, p := range paths {
		position[p] = i
	}
	for l := 0; l+1 < len(levels); l++ {
		for _, parent := range levels[l] {
			for _, child := range levels[l+1] {
				if position[parent] >= position[child] {
					t.Errorf("Expected %s before %s", parent, child)
				}
			}
		}
	}
}

// TestModesYieldSameSet tests set-completeness for every strategy
func TestModesYieldSameSet(t *testing.T) {
	root, levels := createTestTree(t)
	want := flatten(levels)

	cases := []struct {
		name    string
		mode    Mode
		workers int
		lister  Lister
	}{
		{"sequential", ModeSequential, 0, GodirwalkLister{}},
		{"sequential-os", ModeSequential, 0, OSLister{}},
		{"fanout-pool", ModeFanOut, 2, GodirwalkLister{}},
		{"fanout-single-worker", ModeFanOut, 1, GodirwalkLister{}},
		{"fanout-unbounded", ModeFanOut, Unbounded, GodirwalkLister{}},
		{"fastwalk", ModeFastwalk, 2, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := testOptions(t, tc.mode)
			opts.NumWorkers = tc.workers
			opts.Lister = tc.lister

			w, err := NewWithOptions(root, opts)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			paths, errs := drain(t, w)
			if len(errs) > 0 {
				t.Fatalf("Unexpected errors: %v", errs)
			}
			assertSameSet(t, paths, want)

			for _, p := range paths {
				info, err := os.Stat(p)
				if err != nil {
					t.Fatalf("Stat %s failed: %v", p, err)
				}
				if info.IsDir() {
					t.Errorf("Directory emitted: %s", p)
				}
				if !filepath.IsAbs(p) {
					t.Errorf("Relative path emitted: %s", p)
				}
			}

			for i := 0; i < 2; i++ {
				if _, err := w.Next(context.Background()); !errors.Is(err, io.EOF) {
					t.Errorf("Expected io.EOF after exhaustion, got %v", err)
				}
			}

			select {
			case <-w.Done():
			case <-time.After(5 * time.Second):
				t.Fatal("Producers did not finish")
			}
		})
	}
}

// TestWideTreeFanOut tests completeness on a tree wider than the pool
func TestWideTreeFanOut(t *testing.T) {
	root := createWideTree(t, 24, 15)

	for _, workers := range []int{3, Unbounded} {
		opts := testOptions(t, ModeFanOut)
		opts.NumWorkers = workers
		w, err := NewWithOptions(root, opts)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		paths, errs := drain(t, w)
		if len(errs) > 0 {
			t.Fatalf("Unexpected errors: %v", errs)
		}
		seen := make(map[string]bool, len(paths))
		for _, p := range paths {
			if seen[p] {
				t.Fatalf("Duplicate path %s", p)
			}
			seen[p] = true
		}
		if len(seen) != 24*15 {
			t.Errorf("workers=%d: expected %d paths, got %d", workers, 24*15, len(seen))
		}
	}
}

// TestEmptyDirectory tests walking an empty directory
func TestEmptyDirectory(t *testing.T) {
	w, err := NewWithOptions(t.TempDir(), testOptions(t, ModeSequential))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := w.Next(context.Background()); !errors.Is(err, io.EOF) {
		t.Errorf("Expected io.EOF, got %v", err)
	}
}

// TestSetModeAfterStart tests that the mode is frozen by the first pull
func TestSetModeAfterStart(t *testing.T) {
	root, _ := createTestTree(t)
	w, err := NewWithOptions(root, testOptions(t, ModeSequential))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := w.SetMultithreaded(true); err != nil {
		t.Fatalf("SetMultithreaded before start failed: %v", err)
	}
	if w.Mode() != ModeFanOut {
		t.Fatalf("Expected fan-out mode, got %s", w.Mode())
	}
	if err := w.SetMultithreaded(false); err != nil {
		t.Fatalf("SetMultithreaded before start failed: %v", err)
	}

	if _, err := w.Next(context.Background()); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if err := w.SetMode(ModeFanOut); !errors.Is(err, ErrStarted) {
		t.Errorf("Expected ErrStarted, got %v", err)
	}
	if w.Mode() != ModeSequential {
		t.Errorf("Mode changed after start: %s", w.Mode())
	}
	w.Close()
}

// TestListingFailureIsReported tests that a failed branch is visible to the consumer
func TestListingFailureIsReported(t *testing.T) {
	root, levels := createTestTree(t)
	broken := filepath.Join(root, "subdir1")
	listErr := errors.New("injected listing failure")

	lister := ListerFunc(func(dir string) ([]DirEntry, error) {
		if dir == broken {
			return nil, listErr
		}
		return OSLister{}.List(dir)
	})

	for _, mode := range []Mode{ModeSequential, ModeFanOut} {
		t.Run(mode.String(), func(t *testing.T) {
			opts := testOptions(t, mode)
			opts.Lister = lister
			w, err := NewWithOptions(root, opts)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			paths, errs := drain(t, w)

			if len(errs) != 1 {
				t.Fatalf("Expected 1 error, got %v", errs)
			}
			var e *Error
			if !errors.As(errs[0], &e) || e.Kind != KindFile || e.Path != broken {
				t.Errorf("Expected file error for %s, got %v", broken, errs[0])
			}
			if !errors.Is(errs[0], listErr) {
				t.Errorf("Expected error to wrap the listing failure")
			}
			assertSameSet(t, paths, flatten(levels[:1]))

			<-w.Done()
			if s := w.Stats(); s.ErrorCount != 1 {
				t.Errorf("Expected 1 error in stats, got %d", s.ErrorCount)
			}
		})
	}
}

// TestUnreadableDirectory tests a real permission failure mid-walk
func TestUnreadableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	root, levels := createTestTree(t)
	locked := filepath.Join(root, "subdir1")
	if err := os.Chmod(locked, 0); err != nil {
		t.Fatalf("Chmod failed: %v", err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	for _, tc := range walkModes {
		t.Run(tc.name, func(t *testing.T) {
			opts := testOptions(t, tc.mode)
			opts.NumWorkers = tc.workers
			w, err := NewWithOptions(root, opts)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			paths, errs := drain(t, w)
			if len(errs) != 1 || !IsFileError(errs[0]) {
				t.Fatalf("Expected one file error, got %v", errs)
			}
			var e *Error
			if !errors.As(errs[0], &e) || e.Path != locked {
				t.Errorf("Expected error for %s, got %v", locked, errs[0])
			}
			if !errors.Is(errs[0], os.ErrPermission) {
				t.Errorf("Expected permission error, got %v", errs[0])
			}
			assertSameSet(t, paths, flatten(levels[:1]))
		})
	}
}

// TestFileRoot tests a root that is not a directory
func TestFileRoot(t *testing.T) {
	_, levels := createTestTree(t)

	for _, tc := range walkModes {
		t.Run(tc.name, func(t *testing.T) {
			opts := testOptions(t, tc.mode)
			opts.NumWorkers = tc.workers
			w, err := NewWithOptions(levels[0][0], opts)
			if err != nil {
				t.Fatalf("New on a file failed: %v", err)
			}
			paths, errs := drain(t, w)
			if len(paths) != 0 {
				t.Errorf("Expected no paths, got %v", paths)
			}
			if len(errs) != 1 || !IsFileError(errs[0]) {
				t.Errorf("Expected a single file error, got %v", errs)
			}
			if _, err := w.Next(context.Background()); !errors.Is(err, io.EOF) {
				t.Errorf("Expected io.EOF after the error, got %v", err)
			}
		})
	}
}

// TestCloseMidDrain tests that abandoning a walk does not leave producers behind
func TestCloseMidDrain(t *testing.T) {
	root := createWideTree(t, 20, 20)

	for _, tc := range []struct {
		mode    Mode
		workers int
	}{
		{ModeSequential, 0},
		{ModeFanOut, 2},
		{ModeFanOut, Unbounded},
		{ModeFastwalk, 2},
	} {
		opts := testOptions(t, tc.mode)
		opts.NumWorkers = tc.workers
		w, err := NewWithOptions(root, opts)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		for i := 0; i < 3; i++ {
			if _, err := w.Next(context.Background()); err != nil {
				t.Fatalf("Next failed: %v", err)
			}
		}
		if err := w.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}

		select {
		case <-w.Done():
		case <-time.After(5 * time.Second):
			t.Fatalf("%s: producers still running after Close", tc.mode)
		}
		if _, err := w.Next(context.Background()); !errors.Is(err, io.EOF) {
			t.Errorf("Expected io.EOF after Close, got %v", err)
		}
		w.Close()
	}
}

// TestCloseBeforeStart tests that no work happens for a walker that is never pulled
func TestCloseBeforeStart(t *testing.T) {
	var calls int
	opts := testOptions(t, ModeSequential)
	opts.Lister = ListerFunc(func(dir string) ([]DirEntry, error) {
		calls++
		return nil, nil
	})
	w, err := NewWithOptions(t.TempDir(), opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	w.Close()

	select {
	case <-w.Done():
	default:
		t.Fatal("Expected Done to be closed")
	}
	if _, err := w.Next(context.Background()); !errors.Is(err, io.EOF) {
		t.Errorf("Expected io.EOF, got %v", err)
	}
	if calls != 0 {
		t.Errorf("Expected no listing, got %d calls", calls)
	}
}

// TestLazyStart tests that listing begins with the first pull
func TestLazyStart(t *testing.T) {
	var mu sync.Mutex
	var calls int
	opts := testOptions(t, ModeSequential)
	opts.Lister = ListerFunc(func(dir string) ([]DirEntry, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return OSLister{}.List(dir)
	})
	root, _ := createTestTree(t)
	w, err := NewWithOptions(root, opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	before := calls
	mu.Unlock()
	if before != 0 {
		t.Fatalf("Expected no listing before the first pull, got %d", before)
	}

	drain(t, w)
	<-w.Done()
	mu.Lock()
	defer mu.Unlock()
	if calls != 3 {
		t.Errorf("Expected 3 listings, got %d", calls)
	}
}

// TestNextContextCancel tests that a cancelled pull leaves the walk intact
func TestNextContextCancel(t *testing.T) {
	release := make(chan struct{})
	opts := testOptions(t, ModeSequential)
	opts.Lister = ListerFunc(func(dir string) ([]DirEntry, error) {
		<-release
		return OSLister{}.List(dir)
	})
	root, levels := createTestTree(t)
	w, err := NewWithOptions(root, opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if _, err := w.Next(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected deadline error, got %v", err)
	}

	close(release)
	paths, errs := drain(t, w)
	if len(errs) > 0 {
		t.Fatalf("Unexpected errors: %v", errs)
	}
	assertSameSet(t, paths, flatten(levels))
}

// TestAllAndCollect tests the iterator helpers
func TestAllAndCollect(t *testing.T) {
	root, levels := createTestTree(t)

	w, err := NewWithOptions(root, testOptions(t, ModeFanOut))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	paths, err := w.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	assertSameSet(t, paths, flatten(levels))

	w2, err := NewWithOptions(root, testOptions(t, ModeSequential))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	n := 0
	for _, err := range w2.All(context.Background()) {
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		n++
		if n == 2 {
			break
		}
	}
	select {
	case <-w2.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("Breaking out of All did not stop the walk")
	}
}

// TestSymlinkHandling tests the three symlink policies
func TestSymlinkHandling(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to resolve temp dir: %v", err)
	}
	realDir := filepath.Join(root, "real")
	if err := os.Mkdir(realDir, 0755); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}
	target := filepath.Join(realDir, "target.txt")
	if err := os.WriteFile(target, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	link := filepath.Join(root, "link")
	if err := os.Symlink(realDir, link); err != nil {
		t.Skipf("Symlinks not supported: %v", err)
	}

	collect := func(handling SymlinkHandling, mode Mode) []string {
		opts := testOptions(t, mode)
		opts.SymlinkHandling = handling
		w, err := NewWithOptions(root, opts)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		paths, errs := drain(t, w)
		if len(errs) > 0 {
			t.Fatalf("Unexpected errors: %v", errs)
		}
		sort.Strings(paths)
		return paths
	}

	for _, mode := range []Mode{ModeSequential, ModeFanOut, ModeFastwalk} {
		if got := collect(SymlinkReport, mode); strings.Join(got, ",") != strings.Join([]string{link, target}, ",") {
			t.Errorf("%s report: unexpected paths %v", mode, got)
		}
		if got := collect(SymlinkIgnore, mode); len(got) != 1 || got[0] != target {
			t.Errorf("%s ignore: unexpected paths %v", mode, got)
		}
		got := collect(SymlinkFollow, mode)
		if len(got) != 1 || filepath.Base(got[0]) != "target.txt" {
			t.Errorf("%s follow: expected the target once, got %v", mode, got)
		}
	}
}

// TestSymlinkLoop tests that following links terminates and visits every
// directory once, whether a link leads back to an ancestor or aliases a
// directory elsewhere in the tree
func TestSymlinkLoop(t *testing.T) {
	root, levels := createTestTree(t)
	if err := os.Symlink(root, filepath.Join(root, "subdir1", "subdir2", "back")); err != nil {
		t.Skipf("Symlinks not supported: %v", err)
	}
	if err := os.Symlink(filepath.Join(root, "subdir1"), filepath.Join(root, "alias")); err != nil {
		t.Fatalf("Symlink failed: %v", err)
	}

	for _, tc := range walkModes {
		t.Run(tc.name, func(t *testing.T) {
			opts := testOptions(t, tc.mode)
			opts.NumWorkers = tc.workers
			opts.SymlinkHandling = SymlinkFollow
			w, err := NewWithOptions(root, opts)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			paths, errs := drain(t, w)
			if len(errs) > 0 {
				t.Fatalf("Unexpected errors: %v", errs)
			}

			// A file under subdir1 may be reported through alias.
			real := make([]string, 0, len(paths))
			for _, p := range paths {
				r, err := filepath.EvalSymlinks(p)
				if err != nil {
					t.Fatalf("EvalSymlinks(%s) failed: %v", p, err)
				}
				real = append(real, r)
			}
			assertSameSet(t, real, flatten(levels))
		})
	}
}

// TestNormalizeNames tests NFC normalization of emitted paths
func TestNormalizeNames(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to resolve temp dir: %v", err)
	}
	decomposed := "cafe\u0301.txt"
	if err := os.WriteFile(filepath.Join(root, decomposed), nil, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	opts := testOptions(t, ModeSequential)
	opts.NormalizeNames = true
	w, err := NewWithOptions(root, opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	paths, _ := drain(t, w)
	if len(paths) != 1 {
		t.Fatalf("Expected 1 path, got %v", paths)
	}
	if filepath.Base(paths[0]) != "caf\u00e9.txt" {
		t.Errorf("Expected NFC name, got %q", filepath.Base(paths[0]))
	}
}

// TestStats tests the traversal statistics
func TestStats(t *testing.T) {
	root, _ := createTestTree(t)
	w, err := NewWithOptions(root, testOptions(t, ModeSequential))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if s := w.Stats(); s.FilesEmitted != 0 || s.ElapsedTime != 0 {
		t.Errorf("Expected empty stats before start, got %+v", s)
	}
	drain(t, w)
	<-w.Done()

	s := w.Stats()
	if s.FilesEmitted != 11 {
		t.Errorf("Expected 11 files, got %d", s.FilesEmitted)
	}
	if s.DirsListed != 3 {
		t.Errorf("Expected 3 directories, got %d", s.DirsListed)
	}
	if s.ElapsedTime <= 0 {
		t.Errorf("Expected positive elapsed time, got %v", s.ElapsedTime)
	}
	if again := w.Stats(); again.ElapsedTime != s.ElapsedTime {
		t.Errorf("Expected elapsed time to be frozen after the walk")
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{
		"sequential": ModeSequential,
		"":           ModeSequential,
		"FanOut":     ModeFanOut,
		"fastwalk":   ModeFastwalk,
	} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseMode("bogus"); err == nil {
		t.Errorf("Expected error for unknown mode")
	}
	if _, err := ParseSymlinkHandling("bogus"); err == nil {
		t.Errorf("Expected error for unknown symlink handling")
	}
}
