package scratch

import (
	"context"
	"fmt"
	"os"
	"strings"
)

func normalizeSuffix(suffix string) string {
	if suffix != "" && !strings.HasPrefix(suffix, ".") {
		return "." + suffix
	}
	return suffix
}

func (m *implManager) Create(suffix string) (*Artifact, *os.File, error) {
	suffix = normalizeSuffix(suffix)
	f, err := os.CreateTemp(m.root, "artifact-*"+suffix)
	if err != nil {
		return nil, nil, fmt.Errorf("create scratch file: %w", err)
	}
	return &Artifact{Path: f.Name(), Suffix: suffix}, f, nil
}

func (m *implManager) Reserve(suffix string) (*Artifact, error) {
	a, f, err := m.Create(suffix)
	if err != nil {
		return nil, err
	}
	if err := f.Close(); err != nil {
		m.Release(context.Background(), a)
		return nil, fmt.Errorf("close scratch file: %w", err)
	}
	return a, nil
}

func (m *implManager) Dir(prefix string) (*Artifact, error) {
	if prefix == "" {
		prefix = "dir"
	}
	path, err := os.MkdirTemp(m.root, prefix+"-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	return &Artifact{Path: path, dir: true}, nil
}

// Release removes a temporary artifact, logs warning if it fails
func (m *implManager) Release(ctx context.Context, a *Artifact) {
	if a == nil {
		return
	}
	if err := a.remove(); err != nil {
		m.logger.Warn(ctx, "Non-critical error removing temp artifact %s: %v", a.Path, err)
		return
	}
	m.logger.Debug(ctx, "Temp artifact removed: %s", a.Path)
}

func (m *implManager) Scope() *Scope {
	return &Scope{manager: m}
}

func (m *implManager) Root() string {
	return m.root
}
