package acquire

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"soundwatch/internal/domain/tweet"
)

func TestMergeAddsNewTweets(t *testing.T) {
	corpus := tweet.NewCorpus("s", "q")
	m := NewMerger(corpus)

	added := m.Merge(corpus, []tweet.Tweet{{ID: "10"}, {ID: "12"}})

	assert.Equal(t, 2, added)
	assert.Len(t, corpus.Tweets, 2)
	assert.Equal(t, "12", corpus.MaxID)
}

func TestMergeSkipsDuplicates(t *testing.T) {
	corpus := tweet.NewCorpus("s", "q")
	m := NewMerger(corpus)

	m.Merge(corpus, []tweet.Tweet{{ID: "10"}})
	added := m.Merge(corpus, []tweet.Tweet{{ID: "10"}, {ID: "11"}})

	assert.Equal(t, 1, added)
	assert.Len(t, corpus.Tweets, 2)
}

func TestMergeSkipsIDsAtOrBelowBase(t *testing.T) {
	corpus := tweet.NewCorpus("s", "q")
	corpus.MaxID = "100"
	m := NewMerger(corpus)

	added := m.Merge(corpus, []tweet.Tweet{{ID: "99"}, {ID: "100"}, {ID: "101"}})

	assert.Equal(t, 1, added)
	assert.Equal(t, "101", corpus.MaxID)
}

func TestMergeMaxIDIsMonotonic(t *testing.T) {
	corpus := tweet.NewCorpus("s", "q")
	m := NewMerger(corpus)

	m.Merge(corpus, []tweet.Tweet{{ID: "50"}})
	assert.Equal(t, "50", corpus.MaxID)

	// Snowflake ids compare by length before lexical order
	m.Merge(corpus, []tweet.Tweet{{ID: "9"}})
	assert.Equal(t, "50", corpus.MaxID)

	m.Merge(corpus, []tweet.Tweet{{ID: "100"}})
	assert.Equal(t, "100", corpus.MaxID)
}

func TestMergeIgnoresEmptyIDs(t *testing.T) {
	corpus := tweet.NewCorpus("s", "q")
	m := NewMerger(corpus)

	added := m.Merge(corpus, []tweet.Tweet{{ID: ""}, {ID: "1"}})

	assert.Equal(t, 1, added)
}
