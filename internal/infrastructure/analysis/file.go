package analysis

import (
	"context"
	"fmt"
	"os"
)

// FileEngine reads an analysis that another process writes to disk.
type FileEngine struct {
	path string
}

func NewFileEngine(path string) FileEngine {
	return FileEngine{path: path}
}

func (e FileEngine) RunAnalysis(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(e.path)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile: %w", err)
	}

	return string(data), nil
}
