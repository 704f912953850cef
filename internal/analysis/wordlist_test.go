package analysis

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWordListSkipsBlanksAndComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	content := "# header comment\n\nWater\n  orca  \n\n# another\nferry\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	list, err := LoadWordList(path)
	require.NoError(t, err)

	assert.Equal(t, 3, list.Len())
	assert.True(t, list.Contains("water"))
	assert.True(t, list.Contains("ORCA"))
	assert.True(t, list.Contains("ferry"))
	assert.False(t, list.Contains("salmon"))
}

func TestLoadWordListMissingFile(t *testing.T) {
	_, err := LoadWordList(filepath.Join(t.TempDir(), "nope.txt"))

	require.Error(t, err)
	// Callers branch on the wrapped not-exist error
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}
