package readings

import (
	"context"
	"fmt"
	"os"
)

// Source returns the full contents of the sensor log.
type Source interface {
	ReadAll(ctx context.Context) (string, error)
}

// FileSource reads the sensor log from disk in one piece.
type FileSource struct {
	Path string
}

// NewFileSource creates a source for the log at path
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (f *FileSource) ReadAll(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	return string(data), nil
}
