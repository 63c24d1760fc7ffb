package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OSStore implements Store on a directory tree. All paths are relative to
// the root.
type OSStore struct {
	root string
}

// NewOSStore opens a store rooted at dir, creating it if needed.
func NewOSStore(dir string) (*OSStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create vault root %s: %w", dir, err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vault root %s: %w", dir, err)
	}
	return &OSStore{root: abs}, nil
}

// Root returns the absolute root directory of the store.
func (s *OSStore) Root() string {
	return s.root
}

// Rel converts an absolute path under the root back to a store path.
func (s *OSStore) Rel(abs string) (string, bool) {
	rel, err := filepath.Rel(s.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (s *OSStore) abs(path string) string {
	return filepath.Join(s.root, filepath.FromSlash(path))
}

func (s *OSStore) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(s.abs(path))
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%s: %w", path, ErrNotExist)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func (s *OSStore) WriteFile(path, content string) error {
	if _, err := os.Stat(s.abs(path)); os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", path, ErrNotExist)
	}
	if err := os.WriteFile(s.abs(path), []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (s *OSStore) CreateFile(path, content string) error {
	abs := s.abs(path)
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return fmt.Errorf("failed to create folder for %s: %w", path, err)
	}
	if err := os.WriteFile(abs, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	return nil
}

func (s *OSStore) DeleteFile(path string) error {
	if err := os.RemoveAll(s.abs(path)); err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

func (s *OSStore) RenameFile(oldPath, newPath string) error {
	abs := s.abs(newPath)
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return fmt.Errorf("failed to create folder for %s: %w", newPath, err)
	}
	if err := os.Rename(s.abs(oldPath), abs); err != nil {
		return fmt.Errorf("failed to rename %s to %s: %w", oldPath, newPath, err)
	}
	return nil
}

func (s *OSStore) ListFolder(path string) ([]Entry, error) {
	entries, err := os.ReadDir(s.abs(path))
	if os.IsNotExist(err) {
		return nil, nil // a missing folder holds no entries
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", path, err)
	}

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, Entry{Name: e.Name(), IsDir: e.IsDir()})
	}
	return out, nil
}

func (s *OSStore) ReadFrontmatter(path string) (map[string]any, error) {
	doc, err := s.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFrontmatter(doc)
}

func (s *OSStore) WriteFrontmatter(path string, mutate func(fm map[string]any)) error {
	doc, err := s.ReadFile(path)
	if err != nil {
		return err
	}

	fm, err := ParseFrontmatter(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	mutate(fm)

	_, body, _ := SplitDocument(doc)
	updated, err := RenderFrontmatter(fm, body)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return s.WriteFile(path, updated)
}
