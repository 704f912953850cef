package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundwatch/internal/domain/tweet"
)

func TestCheckpointStoreMissingFile(t *testing.T) {
	store := NewCheckpointStore(filepath.Join(t.TempDir(), "missing.gob"))

	corpus, err := store.Load()

	require.NoError(t, err)
	assert.Nil(t, corpus)
}

func TestCheckpointStoreRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "corpus.gob")
	store := NewCheckpointStore(path)

	corpus := tweet.NewCorpus("session-1", "puget sound")
	corpus.Tweets = []tweet.Tweet{
		{ID: "10", Text: "the water is cold", AuthorID: "u1"},
		{ID: "11", Text: "ferry delayed again", AuthorID: "u2"},
	}
	corpus.Users["u1"] = tweet.User{ID: "u1", UserName: "someone", Followers: 42}
	corpus.MaxID = "11"

	require.NoError(t, store.Save(corpus))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, "session-1", loaded.SessionID)
	assert.Equal(t, "puget sound", loaded.Query)
	assert.Equal(t, "11", loaded.MaxID)
	assert.Len(t, loaded.Tweets, 2)
	assert.Equal(t, 42, loaded.Users["u1"].Followers)
}

func TestCheckpointStoreOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.gob")
	store := NewCheckpointStore(path)

	first := tweet.NewCorpus("s", "q")
	first.MaxID = "1"
	require.NoError(t, store.Save(first))

	second := tweet.NewCorpus("s", "q")
	second.MaxID = "2"
	require.NoError(t, store.Save(second))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "2", loaded.MaxID)
}
