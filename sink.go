package rigview

import (
	"fmt"
	"os"
	"path/filepath"
)

// Sink receives finished captures.
type Sink interface {
	Save(name string, data []byte) error
}

// DirSink writes captures into a directory, creating it on first use.
type DirSink struct {
	Dir string
}

// Save implements Sink. The name is reduced to its base component.
func (s DirSink) Save(name string, data []byte) error {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("rigview: mkdir %s: %w", dir, err)
	}
	path := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("rigview: write %s: %w", path, err)
	}
	return nil
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(name string, data []byte) error

// Save implements Sink.
func (f SinkFunc) Save(name string, data []byte) error { return f(name, data) }
