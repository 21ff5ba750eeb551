package scratch

import (
	"context"
	"os"
)

// Manager allocates scratch artifacts and guarantees their release.
type Manager interface {
	// Create makes a new empty file artifact and returns it opened for writing.
	// The caller must close the file; the artifact still needs Release.
	Create(suffix string) (*Artifact, *os.File, error)
	// Reserve makes a new empty, closed file artifact for an external tool to fill.
	Reserve(suffix string) (*Artifact, error)
	// Dir makes a new empty directory artifact.
	Dir(prefix string) (*Artifact, error)
	// Release deletes the artifact. Failures are logged, never returned.
	Release(ctx context.Context, a *Artifact)
	// Scope returns a guard that releases every tracked artifact on Close.
	Scope() *Scope
	// Root is the scratch directory.
	Root() string
}
