package source

import (
	"context"
	"fmt"
	"os"

	"github.com/iwvelando/mortgage-simulator/pkg/brackets"
	"go.uber.org/zap"
)

// File reads the table from a local JSON file.
type File struct {
	logger *zap.Logger
	path   string
}

// NewFile creates a file source for path.
func NewFile(logger *zap.Logger, path string) *File {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &File{logger: logger, path: path}
}

// Load reads and decodes the file.
func (f *File) Load(ctx context.Context) ([]brackets.Bracket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.logger.Debug("reading financing table file",
		zap.String("op", "source.File.Load"),
		zap.String("path", f.path),
	)

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Describe(), err)
	}

	rows, err := DecodeRows(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Describe(), err)
	}
	return rows, nil
}

// Describe names the source for logs and status output.
func (f *File) Describe() string {
	return "file " + f.path
}
