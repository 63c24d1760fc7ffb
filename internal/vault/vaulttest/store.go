// Package vaulttest provides an in-memory vault.Store for service tests,
// so filesystem events can be simulated deterministically and write calls
// counted.
package vaulttest

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/caasion/holos/internal/vault"
)

// Store is an in-memory vault.Store. The zero value is not usable; use
// NewStore.
type Store struct {
	mu    sync.Mutex
	files map[string]string

	// Writes records the paths passed to WriteFile and CreateFile in
	// call order.
	Writes []string
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{files: make(map[string]string)}
}

// Seed installs a file without recording a write.
func (s *Store) Seed(path, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = content
}

// Content returns a file's current content and whether it exists.
func (s *Store) Content(path string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.files[path]
	return c, ok
}

// WriteCount returns how many writes have touched the given path.
func (s *Store) WriteCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.Writes {
		if p == path {
			n++
		}
	}
	return n
}

func (s *Store) ReadFile(path string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.files[path]
	if !ok {
		return "", fmt.Errorf("%s: %w", path, vault.ErrNotExist)
	}
	return content, nil
}

func (s *Store) WriteFile(path, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[path]; !ok {
		return fmt.Errorf("%s: %w", path, vault.ErrNotExist)
	}
	s.files[path] = content
	s.Writes = append(s.Writes, path)
	return nil
}

func (s *Store) CreateFile(path, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = content
	s.Writes = append(s.Writes, path)
	return nil
}

func (s *Store) DeleteFile(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := strings.TrimSuffix(path, "/") + "/"
	for p := range s.files {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(s.files, p)
		}
	}
	return nil
}

func (s *Store) RenameFile(oldPath, newPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if content, ok := s.files[oldPath]; ok {
		delete(s.files, oldPath)
		s.files[newPath] = content
		return nil
	}

	// Folder rename: move everything under the old prefix.
	oldPrefix := strings.TrimSuffix(oldPath, "/") + "/"
	newPrefix := strings.TrimSuffix(newPath, "/") + "/"
	moved := false
	for p, content := range s.files {
		if strings.HasPrefix(p, oldPrefix) {
			delete(s.files, p)
			s.files[newPrefix+strings.TrimPrefix(p, oldPrefix)] = content
			moved = true
		}
	}
	if !moved {
		return fmt.Errorf("%s: %w", oldPath, vault.ErrNotExist)
	}
	return nil
}

// ListFolder derives folder entries from the stored paths.
func (s *Store) ListFolder(path string) ([]vault.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := ""
	if path != "" && path != "." {
		prefix = strings.TrimSuffix(path, "/") + "/"
	}

	seen := map[string]bool{}
	var entries []vault.Entry
	for p := range s.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		if rest == "" {
			continue
		}
		name, _, isDir := strings.Cut(rest, "/")
		if seen[name] {
			continue
		}
		seen[name] = true
		entries = append(entries, vault.Entry{Name: name, IsDir: isDir})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (s *Store) ReadFrontmatter(path string) (map[string]any, error) {
	doc, err := s.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return vault.ParseFrontmatter(doc)
}

func (s *Store) WriteFrontmatter(path string, mutate func(fm map[string]any)) error {
	doc, err := s.ReadFile(path)
	if err != nil {
		return err
	}
	fm, err := vault.ParseFrontmatter(doc)
	if err != nil {
		return err
	}
	mutate(fm)

	body := doc
	if _, rest, ok := vault.SplitDocument(doc); ok {
		body = rest
	}
	updated, err := vault.RenderFrontmatter(fm, body)
	if err != nil {
		return err
	}
	return s.WriteFile(path, updated)
}
