package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStore keeps assets on disk under root/images
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Join(root, Prefix), 0o755); err != nil {
		return nil, fmt.Errorf("create asset dir: %w", err)
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) Save(_ context.Context, name, _ string, r io.Reader, _ int64) (string, error) {
	ref, ok := CleanRef(name)
	if !ok {
		return "", fmt.Errorf("invalid asset name %q", name)
	}

	f, err := os.Create(s.path(ref))
	if err != nil {
		return "", fmt.Errorf("create asset: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(s.path(ref))
		return "", fmt.Errorf("write asset: %w", err)
	}
	return ref, nil
}

func (s *LocalStore) Delete(_ context.Context, ref string) error {
	cleaned, ok := CleanRef(ref)
	if !ok {
		return fmt.Errorf("invalid asset ref %q", ref)
	}
	if err := os.Remove(s.path(cleaned)); err != nil {
		return fmt.Errorf("remove asset %s: %w", cleaned, err)
	}
	return nil
}

func (s *LocalStore) List(_ context.Context) ([]ObjectInfo, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, Prefix))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list assets: %w", err)
	}

	result := make([]ObjectInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		result = append(result, ObjectInfo{
			Ref:          Prefix + "/" + entry.Name(),
			LastModified: info.ModTime(),
		})
	}
	return result, nil
}

func (s *LocalStore) Resolve(_ context.Context, ref string) (Location, error) {
	cleaned, ok := CleanRef(ref)
	if !ok {
		return Location{}, fmt.Errorf("invalid asset ref %q", ref)
	}
	return Location{Path: s.path(cleaned)}, nil
}

func (s *LocalStore) path(ref string) string {
	return filepath.Join(s.root, filepath.FromSlash(ref))
}
