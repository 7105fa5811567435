package localfs

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
)

// Store is a read-only asset store rooted at a directory.
type Store struct {
	root string
	fsys fs.FS
}

func New(root string) *Store {
	return &Store{root: root, fsys: os.DirFS(root)}
}

// ReadFile reads a slash separated name below the root. Names escaping the
// root are reported as not existing.
func (s *Store) ReadFile(name string) ([]byte, error) {
	clean := path.Clean(strings.TrimPrefix(name, "/"))
	if !fs.ValidPath(clean) {
		return nil, fmt.Errorf("asset %q: %w", name, fs.ErrNotExist)
	}
	b, err := fs.ReadFile(s.fsys, clean)
	if err != nil {
		return nil, fmt.Errorf("asset %q in %s: %w", clean, s.root, err)
	}
	return b, nil
}

// FS exposes the store for static file serving.
func (s *Store) FS() fs.FS { return s.fsys }
