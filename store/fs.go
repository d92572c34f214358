package store

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pellicle-io/pellicle/iox"
)

// FSStore writes artifacts under a root directory, creating key
// subdirectories as needed.
type FSStore struct {
	root string
}

// NewFSStore creates a filesystem store rooted at dir.
func NewFSStore(dir string) *FSStore {
	return &FSStore{root: dir}
}

// Put implements Store.
func (s *FSStore) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", WrapWriteError(err, path)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", WrapWriteError(err, path)
	}
	defer iox.DiscardClose(f)

	if _, err := io.Copy(f, r); err != nil {
		return "", WrapWriteError(err, path)
	}
	if err := f.Close(); err != nil {
		return "", WrapWriteError(err, path)
	}
	return path, nil
}

// Verify FSStore implements Store.
var _ Store = (*FSStore)(nil)
