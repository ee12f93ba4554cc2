package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps one JSON file per key under a directory.
type FileStore struct {
	rootDir string
}

func NewFileStore(directory string) *FileStore {
	return &FileStore{
		rootDir: directory,
	}
}

func (store *FileStore) filePath(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(store.rootDir, key+".json"), nil
}

func (store *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := store.filePath(key)
	if err != nil {
		return nil, err
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}
	return contents, nil
}

// Put replaces the value of key. The file is written to a temporary file first and then renamed,
// so a reader never sees a half-written value.
func (store *FileStore) Put(ctx context.Context, key string, value []byte) error {
	path, err := store.filePath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(store.rootDir, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", store.rootDir, err)
	}

	file, err := os.CreateTemp(store.rootDir, key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp > %w", err)
	}
	tempPath := file.Name()
	defer func() {
		_ = os.Remove(tempPath)
	}()

	if _, err := file.Write(value); err != nil {
		_ = file.Close()
		return fmt.Errorf("file.Write > %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("file.Close > %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("os.Rename(%s, %s) > %w", tempPath, path, err)
	}
	return nil
}
