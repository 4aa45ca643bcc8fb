package export

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/eventhub/internal/filex"
)

type FileSink struct {
	dir string
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

func (s *FileSink) Put(_ context.Context, name string, data []byte) (string, error) {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("invalid export name %q", name)
	}

	dir, err := filex.EnsureDir(s.dir)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, base)
	if err := filex.WriteFileAtomic(path, data, 0o640); err != nil {
		return "", err
	}
	return path, nil
}
