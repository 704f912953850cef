package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTermFrequencies(t *testing.T) {
	docs := map[string][]string{
		"1": {"water", "water", "orca"},
		"2": {"water", "ferry"},
	}

	counts := TermFrequencies(docs)

	require.Len(t, counts, 3)
	assert.Equal(t, TermCount{Term: "water", Count: 3}, counts[0])
	// Ties break alphabetically
	assert.Equal(t, TermCount{Term: "ferry", Count: 1}, counts[1])
	assert.Equal(t, TermCount{Term: "orca", Count: 1}, counts[2])
}

func TestTFIDFWeighsRareTermsHigher(t *testing.T) {
	docs := map[string][]string{
		"1": {"water", "orca"},
		"2": {"water", "ferry"},
	}

	scores := TFIDF(docs)
	require.Len(t, scores, 4)

	byKey := make(map[string]float64)
	for _, s := range scores {
		byKey[s.Doc+"/"+s.Term] = s.TFIDF
	}

	// "water" appears in every document, so its idf is log(1) = 0.
	assert.InDelta(t, 0.0, byKey["1/water"], 1e-9)
	assert.InDelta(t, 0.5*math.Log(2), byKey["1/orca"], 1e-9)
	assert.Greater(t, byKey["2/ferry"], byKey["2/water"])
}

func TestTFIDFEmpty(t *testing.T) {
	assert.Nil(t, TFIDF(map[string][]string{}))
}

func TestTopTerms(t *testing.T) {
	scores := []TermScore{{Term: "a"}, {Term: "b"}, {Term: "c"}}

	assert.Len(t, TopTerms(scores, 2), 2)
	assert.Len(t, TopTerms(scores, 0), 3)
	assert.Len(t, TopTerms(scores, 10), 3)
}
