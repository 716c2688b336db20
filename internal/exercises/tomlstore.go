package exercises

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/sync/errgroup"

	"github.com/codelab-lv/runner/internal/grader"
)

// tomlExercise maps one fixture file. The file stem is the exercise id.
type tomlExercise struct {
	Title string `toml:"title"`
	Tests []struct {
		ID         int64   `toml:"id"`
		Input      *string `toml:"input"`
		Answer     string  `toml:"answer"`
		TimeoutSec int     `toml:"timeout_sec"`
		Hidden     bool    `toml:"hidden"`
	} `toml:"tests"`
}

// LoadDir reads every *.toml fixture in dir into a MemStore. Files are parsed
// concurrently; any malformed file fails the whole load.
func LoadDir(dir string) (*MemStore, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read exercise directory: %w", err)
	}

	store := NewMemStore()
	var g errgroup.Group
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		name := entry.Name()
		g.Go(func() error {
			ex, err := loadFile(filepath.Join(dir, name))
			if err != nil {
				return err
			}
			store.Put(ex)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return store, nil
}

func loadFile(path string) (Exercise, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Exercise{}, fmt.Errorf("failed to read exercise file: %w", err)
	}
	var raw tomlExercise
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Exercise{}, fmt.Errorf("failed to parse exercise file %s: %w", path, err)
	}

	id := strings.TrimSuffix(filepath.Base(path), ".toml")
	ex := Exercise{ID: id, Title: raw.Title}
	for _, t := range raw.Tests {
		ex.Tests = append(ex.Tests, grader.TestCase{
			ID:         t.ID,
			Input:      t.Input,
			Answer:     t.Answer,
			TimeoutSec: t.TimeoutSec,
			Hidden:     t.Hidden,
		})
	}
	return ex, nil
}
