package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FS loads model files from a directory on the local filesystem.
type FS struct {
	Dir string
}

// LoadFile opens Dir/fileName.
func (f FS) LoadFile(fileName string) (io.ReadCloser, error) {
	path := filepath.Join(f.Dir, fileName)
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}
	return file, nil
}
