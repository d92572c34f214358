// Package store persists finished render artifacts to a local
// directory or an S3-compatible object store.
package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pellicle-io/pellicle/iox"
)

// Store writes artifact bytes under a key and returns the artifact's
// final location.
type Store interface {
	// Put writes the contents of r under key. The returned location
	// is backend-specific: a filesystem path or an s3:// URL.
	Put(ctx context.Context, key string, r io.Reader) (string, error)
}

// UploadFile copies a local artifact into the store under key.
func UploadFile(ctx context.Context, s Store, key, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", WrapReadError(err, path)
	}
	defer iox.DiscardClose(f)
	return s.Put(ctx, key, f)
}

// ArtifactKey builds the canonical store key for a run artifact.
func ArtifactKey(runID, path string) string {
	return fmt.Sprintf("%s/%s", runID, filepath.Base(path))
}

// StubStore records puts in memory for testing.
type StubStore struct {
	mu   sync.Mutex
	Puts []StubPut
	// Err, when set, fails every Put.
	Err error
}

// StubPut is one recorded Put call.
type StubPut struct {
	Key  string
	Data []byte
}

// NewStubStore creates an empty stub store.
func NewStubStore() *StubStore {
	return &StubStore{}
}

// Put implements Store by recording the call.
func (s *StubStore) Put(_ context.Context, key string, r io.Reader) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Puts = append(s.Puts, StubPut{Key: key, Data: buf.Bytes()})
	return "stub://" + key, nil
}

// Verify StubStore implements Store.
var _ Store = (*StubStore)(nil)
