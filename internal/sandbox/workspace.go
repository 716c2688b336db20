package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	sourceBasename = "Main"
	binaryName     = "app.out"
)

// workspace is an exclusive temporary directory holding one submission's
// source file and, for compiled languages, its binary. It exists for the
// duration of a single Execute call.
type workspace struct {
	dir string
}

func newWorkspace() (*workspace, error) {
	dir, err := os.MkdirTemp("", "runner-ws-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	return &workspace{dir: dir}, nil
}

func (w *workspace) Dir() string { return w.dir }

func (w *workspace) SourcePath(ext string) string {
	return filepath.Join(w.dir, sourceBasename+ext)
}

func (w *workspace) BinaryPath() string {
	return filepath.Join(w.dir, binaryName)
}

// WriteSource writes the submitted code verbatim and returns the source path.
func (w *workspace) WriteSource(code, ext string) (string, error) {
	path := w.SourcePath(ext)
	if err := os.WriteFile(path, []byte(code), 0644); err != nil {
		return "", fmt.Errorf("failed to write source file: %w", err)
	}
	return path, nil
}

// Close removes the workspace and everything in it.
func (w *workspace) Close() error {
	return os.RemoveAll(w.dir)
}
