package acquire

import (
	"github.com/bits-and-blooms/bloom/v3"

	"soundwatch/internal/domain/tweet"
)

// Merger folds freshly fetched tweets into a corpus without ever
// reintroducing an identifier the corpus already holds. A bloom filter
// answers "definitely new" cheaply; the exact id set settles the
// filter's false positives.
type Merger struct {
	filter  *bloom.BloomFilter
	seen    map[string]bool
	baseMax string
}

// expectedIDs sizes the bloom filter; a session never holds more than a
// few hundred thousand tweets.
const expectedIDs = 1_000_000

// NewMerger seeds a merger with everything the corpus already holds.
func NewMerger(corpus *tweet.Corpus) *Merger {
	m := &Merger{
		filter:  bloom.NewWithEstimates(expectedIDs, 0.001),
		seen:    make(map[string]bool, len(corpus.Tweets)),
		baseMax: corpus.MaxID,
	}

	for _, t := range corpus.Tweets {
		m.filter.AddString(t.ID)
		m.seen[t.ID] = true
	}

	return m
}

// Merge appends the new tweets from fresh into the corpus and advances
// MaxID. It returns how many tweets were actually added. Tweets at or
// below the MaxID held when the merger was created are dropped even if
// the corpus itself no longer contains them.
func (m *Merger) Merge(corpus *tweet.Corpus, fresh []tweet.Tweet) int {
	added := 0
	for _, t := range fresh {
		if t.ID == "" {
			continue
		}
		if m.baseMax != "" && !tweet.IDLess(m.baseMax, t.ID) {
			continue
		}
		if m.filter.TestString(t.ID) && m.seen[t.ID] {
			continue
		}

		m.filter.AddString(t.ID)
		m.seen[t.ID] = true
		corpus.Tweets = append(corpus.Tweets, t)
		corpus.MaxID = tweet.MaxID(corpus.MaxID, t.ID)
		added++
	}

	return added
}
