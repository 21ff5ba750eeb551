package scratch

import (
	"fmt"
	"os"
	"sync"
)

// Artifact is a temporary file or directory on scratch storage. It is owned by the
// stage that created it until released; Release is safe to call more than once and
// deletes the underlying path at most once.
type Artifact struct {
	Path   string
	Suffix string
	dir    bool

	mu   sync.Mutex
	size int64

	once       sync.Once
	releaseErr error
}

// Size returns the last recorded byte length.
func (a *Artifact) Size() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.size
}

// SetSize records the byte length written by the owner.
func (a *Artifact) SetSize(n int64) {
	a.mu.Lock()
	a.size = n
	a.mu.Unlock()
}

// Stat refreshes the byte length from disk. Directories report 0.
func (a *Artifact) Stat() (int64, error) {
	info, err := os.Stat(a.Path)
	if err != nil {
		return 0, fmt.Errorf("stat artifact: %w", err)
	}
	var n int64
	if !info.IsDir() {
		n = info.Size()
	}
	a.SetSize(n)
	return n, nil
}

// IsDir reports whether the artifact is a directory.
func (a *Artifact) IsDir() bool {
	return a.dir
}

func (a *Artifact) remove() error {
	a.once.Do(func() {
		var err error
		if a.dir {
			err = os.RemoveAll(a.Path)
		} else {
			err = os.Remove(a.Path)
		}
		if err != nil && !os.IsNotExist(err) {
			a.releaseErr = err
		}
	})
	return a.releaseErr
}
