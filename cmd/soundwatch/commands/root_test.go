package commands

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadStopwordsToleratesMissingFile(t *testing.T) {
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg.Analysis.StopwordsFile = filepath.Join(t.TempDir(), "missing.txt")

	list, err := loadStopwords()

	require.NoError(t, err)
	assert.Equal(t, 0, list.Len())
}

func TestLoadStopwordsReadsFile(t *testing.T) {
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "stopwords.txt")
	require.NoError(t, os.WriteFile(path, []byte("the\nand\n"), 0o644))
	cfg.Analysis.StopwordsFile = path

	list, err := loadStopwords()

	require.NoError(t, err)
	assert.True(t, list.Contains("the"))
	assert.True(t, list.Contains("and"))
}
