// SPDX-License-Identifier: Apache-2.0
package lexer

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// WriteTableFile persists the table atomically: the JSON is written to a
// temporary file in the target directory and renamed into place, so a
// concurrent reader never observes a partial table.
func WriteTableFile(path string, table *Table) error {
	data, err := table.Marshal()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

// LoadTableFile reads and validates a persisted table.
func LoadTableFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &TableError{Msg: fmt.Sprintf("cannot read %s: %v (run 'scriptum-cli build-lexer' to generate it)", path, err)}
	}
	return ParseTable(data)
}

// Store is a process-wide, read-only handle to a compiled table. The first
// Load compiles and caches; later Loads return the cached Runtime until
// Invalidate is called (e.g. after the table file was rebuilt).
type Store struct {
	mu      sync.Mutex
	path    string
	runtime *Runtime
}

// NewStore creates a handle bound to a table file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the cached runtime, compiling it on first use.
func (s *Store) Load() (*Runtime, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runtime != nil {
		return s.runtime, nil
	}
	table, err := LoadTableFile(s.path)
	if err != nil {
		return nil, err
	}
	runtime, err := table.Compile()
	if err != nil {
		return nil, err
	}
	s.runtime = runtime
	return runtime, nil
}

// Invalidate drops the cached runtime so the next Load re-reads the file.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runtime = nil
}
