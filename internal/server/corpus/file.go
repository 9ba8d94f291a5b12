package corpus

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/ragkeeper/internal/common"
	"github.com/dmitrijs2005/ragkeeper/internal/filex"
	"github.com/dmitrijs2005/ragkeeper/internal/server/models"
)

// FileStore keeps the snapshot in a local file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load returns common.ErrorNotFound when the file does not exist.
func (s *FileStore) Load(ctx context.Context) ([]models.Passage, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("corpus %s: %w", s.path, common.ErrorNotFound)
		}
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Save replaces the file atomically.
func (s *FileStore) Save(ctx context.Context, passages []models.Passage) error {
	var buf bytes.Buffer
	if err := Encode(&buf, passages); err != nil {
		return err
	}
	return filex.WriteFileAtomic(s.path, buf.Bytes(), 0o640)
}
