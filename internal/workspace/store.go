package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrPathTraversal is returned when a relative path resolves outside the
// store root.
var ErrPathTraversal = errors.New("path escapes project root")

// DefaultExtensions are the file types ReadAll scans when none are given.
var DefaultExtensions = []string{".toml", ".rs", ".ts", ".json"}

// Store owns a project directory and provides atomic, traversal-guarded file
// operations over it.
type Store struct {
	root string
}

// NewStore creates a store rooted at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", abs, err)
	}
	return &Store{root: abs}, nil
}

// Root returns the store's absolute root directory.
func (s *Store) Root() string {
	return s.root
}

// resolve joins rel onto the root and rejects any path that escapes it.
func (s *Store) resolve(rel string) (string, error) {
	joined := filepath.Join(s.root, filepath.FromSlash(rel))
	inside, err := filepath.Rel(s.root, joined)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", rel, err)
	}
	if inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%q: %w", rel, ErrPathTraversal)
	}
	return joined, nil
}

// WriteAll writes every file in the map. Each write is atomic: content is
// staged to a temp sibling and renamed into place, so a concurrent reader
// never observes a partially written file.
func (s *Store) WriteAll(files map[string]string) error {
	for rel, content := range files {
		path, err := s.resolve(rel)
		if err != nil {
			return err
		}
		if err := writeAtomic(path, []byte(content)); err != nil {
			return fmt.Errorf("write %s: %w", rel, err)
		}
	}
	return nil
}

// ApplyPatch applies full-content replacements. Patches are whole files, not
// diffs, so the semantics are identical to WriteAll.
func (s *Store) ApplyPatch(patches map[string]string) error {
	return s.WriteAll(patches)
}

// Read returns the content of a single file under the root.
func (s *Store) Read(rel string) (string, error) {
	path, err := s.resolve(rel)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", rel, err)
	}
	return string(data), nil
}

// ReadAll walks the root and returns every file whose extension matches one
// of exts (DefaultExtensions when empty), keyed by slash-separated relative
// path.
func (s *Store) ReadAll(exts ...string) (map[string]string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	want := make(map[string]bool, len(exts))
	for _, e := range exts {
		want[e] = true
	}

	files := make(map[string]string)
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !want[filepath.Ext(path)] {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", rel, err)
		}
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Cleanup removes the entire root recursively. Safe to call when the root no
// longer exists.
func (s *Store) Cleanup() error {
	return os.RemoveAll(s.root)
}

// writeAtomic writes data to path by staging to a temp file in the same
// directory and renaming.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if tmpName != "" {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s -> %s: %w", tmpName, path, err)
	}
	tmpName = "" // prevent deferred removal
	return nil
}
