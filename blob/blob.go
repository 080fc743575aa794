package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mager/cochlea/config"
)

// PutResult identifies where an uploaded object landed.
type PutResult struct {
	Key string
	URL string
}

// Store persists raw upload bytes. Failures propagate to the caller; the
// orchestrator treats them as fatal job errors.
type Store interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) (PutResult, error)
}

// FSStore keeps blobs on the local filesystem under a configured root.
type FSStore struct {
	root    string
	baseURL string
}

// NewFSStore creates the root directory if needed.
func NewFSStore(root, baseURL string) (*FSStore, error) {
	if root == "" {
		root = filepath.Join(os.TempDir(), "cochlea-blobs")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &FSStore{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *FSStore) Put(ctx context.Context, key string, data []byte, mimeType string) (PutResult, error) {
	if err := ctx.Err(); err != nil {
		return PutResult{}, err
	}
	key = filepath.Base(key) // keys are flat; no path traversal
	path := filepath.Join(s.root, key)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return PutResult{}, fmt.Errorf("write blob %s: %w", key, err)
	}

	url := "file://" + path
	if s.baseURL != "" {
		url = s.baseURL + "/" + key
	}
	return PutResult{Key: key, URL: url}, nil
}

// ProvideStore provides the blob store configured from the environment.
func ProvideStore(cfg config.Config) (Store, error) {
	return NewFSStore(cfg.BlobDir, cfg.BlobBaseURL)
}

var Options = ProvideStore
