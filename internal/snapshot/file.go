package snapshot

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644
)

// FileStore keeps one <collection>.json per collection under a directory.
// Saves write a temp file and rename it over the target.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

func (s *FileStore) Load(_ context.Context, collection string) ([]byte, error) {
	data, err := os.ReadFile(s.path(collection))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoSnapshot
	}
	return data, err
}

func (s *FileStore) Save(_ context.Context, collection string, data []byte) error {
	if err := os.MkdirAll(s.dir, dirPermissions); err != nil {
		return err
	}
	target := s.path(collection)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, filePermissions); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}
