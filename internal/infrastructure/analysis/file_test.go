package analysis_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"skin_market/internal/infrastructure/analysis"
)

func TestFileEngineRunAnalysis(t *testing.T) {
	rq := require.New(t)

	path := filepath.Join(t.TempDir(), "latest-data.json")
	rq.NoError(os.WriteFile(path, []byte(`[]`), 0o600))

	got, err := analysis.NewFileEngine(path).RunAnalysis(context.Background())
	rq.NoError(err)
	rq.Equal(`[]`, got)

	_, err = analysis.NewFileEngine(filepath.Join(t.TempDir(), "missing.json")).RunAnalysis(context.Background())
	rq.ErrorIs(err, os.ErrNotExist)
}
