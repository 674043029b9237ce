package blob

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FSStore is a local-filesystem blob backend. Each object is stored as a
// content file plus a metadata sidecar; keys map to relative paths under the
// root directory.
type FSStore struct {
	root string
}

const metaSuffix = ".meta.json"

// NewFSStore constructs a filesystem blob store rooted at dir.
func NewFSStore(dir string) (*FSStore, error) {
	if dir == "" {
		dir = "sensorcore-blobs"
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &FSStore{root: dir}, nil
}

// Driver identifies the backend.
func (s *FSStore) Driver() Driver { return DriverFilesystem }

// Root returns the backing directory.
func (s *FSStore) Root() string { return s.root }

func (s *FSStore) pathFor(key string) (string, error) {
	cleaned := filepath.Clean(key)
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return filepath.Join(s.root, cleaned), nil
}

// Put stores the blob contents under key, replacing any existing object.
func (s *FSStore) Put(_ context.Context, key string, r io.Reader, opts PutOptions) (Info, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return Info{}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return Info{}, fmt.Errorf("create blob dirs: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o640) //nolint:gosec // path derives from a validated key
	if err != nil {
		return Info{}, fmt.Errorf("create blob: %w", err)
	}
	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return Info{}, fmt.Errorf("write blob: %w", err)
	}
	info := Info{
		Key:          key,
		Size:         size,
		ContentType:  opts.ContentType,
		Metadata:     opts.Metadata,
		LastModified: time.Now().UTC(),
	}
	meta, err := json.Marshal(info)
	if err != nil {
		return Info{}, fmt.Errorf("encode blob metadata: %w", err)
	}
	if err := os.WriteFile(path+metaSuffix, meta, 0o640); err != nil { //nolint:gosec // sidecar lives next to the blob
		return Info{}, fmt.Errorf("write blob metadata: %w", err)
	}
	return info, nil
}

// Get returns the stored blob and its metadata.
func (s *FSStore) Get(ctx context.Context, key string) (Info, io.ReadCloser, error) {
	info, err := s.Head(ctx, key)
	if err != nil {
		return Info{}, nil, err
	}
	path, err := s.pathFor(key)
	if err != nil {
		return Info{}, nil, err
	}
	f, err := os.Open(path) //nolint:gosec // path derives from a validated key
	if err != nil {
		return Info{}, nil, fmt.Errorf("open blob: %w", err)
	}
	return info, f, nil
}

// Head returns blob metadata without contents.
func (s *FSStore) Head(_ context.Context, key string) (Info, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return Info{}, err
	}
	meta, err := os.ReadFile(path + metaSuffix) //nolint:gosec // sidecar lives next to the blob
	if errors.Is(err, fs.ErrNotExist) {
		return Info{}, ErrNotFound
	}
	if err != nil {
		return Info{}, fmt.Errorf("read blob metadata: %w", err)
	}
	var info Info
	if err := json.Unmarshal(meta, &info); err != nil {
		return Info{}, fmt.Errorf("decode blob metadata: %w", err)
	}
	return info, nil
}

// Delete removes the blob and its sidecar, reporting whether it existed.
func (s *FSStore) Delete(_ context.Context, key string) (bool, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return false, err
	}
	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("remove blob: %w", err)
	}
	if err := os.Remove(path + metaSuffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return true, fmt.Errorf("remove blob metadata: %w", err)
	}
	return true, nil
}

// List returns metadata for all blobs under prefix, ordered by key.
func (s *FSStore) List(ctx context.Context, prefix string) ([]Info, error) {
	var out []Info
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(path, metaSuffix) {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		info, err := s.Head(ctx, key)
		if err != nil {
			return err
		}
		out = append(out, info)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// PresignURL is not supported by the filesystem backend.
func (s *FSStore) PresignURL(context.Context, string, SignedURLOptions) (string, error) {
	return "", ErrUnsupported
}
