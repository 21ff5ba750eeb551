package scratch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/video-digest/internal/logger"
)

func newTestManager(t *testing.T) (Manager, string) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "scratch")
	m, err := New(root, logger.NewNop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return m, root
}

func countEntries(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir(%s): %v", dir, err)
	}
	return len(entries)
}

func TestNewRequiresDir(t *testing.T) {
	if _, err := New("", logger.NewNop()); err == nil {
		t.Error("New(\"\") should fail")
	}
}

func TestCreateAndRelease(t *testing.T) {
	ctx := context.Background()
	m, root := newTestManager(t)

	a, f, err := m.Create("mp4")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !strings.HasSuffix(a.Path, ".mp4") || a.Suffix != ".mp4" {
		t.Errorf("Create() path = %s suffix = %s, want .mp4", a.Path, a.Suffix)
	}
	if _, err := f.Write([]byte("abc")); err != nil {
		t.Fatal(err)
	}
	f.Close()

	n, err := a.Stat()
	if err != nil || n != 3 || a.Size() != 3 {
		t.Errorf("Stat() = %d, %v; Size() = %d, want 3", n, err, a.Size())
	}

	m.Release(ctx, a)
	m.Release(ctx, a) // second release is a no-op

	if got := countEntries(t, root); got != 0 {
		t.Errorf("residual entries = %d, want 0", got)
	}
}

func TestReserveAndDir(t *testing.T) {
	ctx := context.Background()
	m, root := newTestManager(t)

	wav, err := m.Reserve(".wav")
	if err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}
	if n, _ := wav.Stat(); n != 0 {
		t.Errorf("reserved artifact size = %d, want 0", n)
	}

	frames, err := m.Dir("frames")
	if err != nil {
		t.Fatalf("Dir() error = %v", err)
	}
	if !frames.IsDir() {
		t.Error("Dir() artifact should be a directory")
	}
	if err := os.WriteFile(filepath.Join(frames.Path, "frame_000001.png"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	m.Release(ctx, frames)
	m.Release(ctx, wav)

	if got := countEntries(t, root); got != 0 {
		t.Errorf("residual entries = %d, want 0", got)
	}
}

func TestReleaseMissingFileIsQuiet(t *testing.T) {
	m, _ := newTestManager(t)
	a, err := m.Reserve("")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(a.Path); err != nil {
		t.Fatal(err)
	}
	if err := a.remove(); err != nil {
		t.Errorf("remove() of a missing file = %v, want nil", err)
	}
	m.Release(context.Background(), nil)
}

func TestScope(t *testing.T) {
	ctx := context.Background()
	m, root := newTestManager(t)

	scope := m.Scope()
	for i := 0; i < 3; i++ {
		a, err := m.Reserve(".tmp")
		if err != nil {
			t.Fatal(err)
		}
		scope.Track(ctx, a)
	}
	if got := countEntries(t, root); got != 3 {
		t.Fatalf("entries before Close = %d, want 3", got)
	}

	scope.Close(ctx)
	scope.Close(ctx)

	if got := countEntries(t, root); got != 0 {
		t.Errorf("entries after Close = %d, want 0", got)
	}

	late, err := m.Reserve(".tmp")
	if err != nil {
		t.Fatal(err)
	}
	scope.Track(ctx, late)
	if got := countEntries(t, root); got != 0 {
		t.Errorf("tracking after Close should release immediately, entries = %d", got)
	}
}
