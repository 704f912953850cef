package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreCountsPolarities(t *testing.T) {
	lexicon := NewLexicon([]string{"good"}, []string{"bad"})

	s := lexicon.Score([]string{"good", "bad", "bad"})

	assert.Equal(t, 3, s.Tokens)
	assert.Equal(t, 3, s.Matched)
	assert.Equal(t, 1, s.Positive)
	assert.Equal(t, 2, s.Negative)
	assert.InDelta(t, 2.0/3.0, s.NegativeShare(), 1e-9)
}

func TestScoreIgnoresUnknownTokens(t *testing.T) {
	lexicon := NewLexicon([]string{"good"}, []string{"bad"})

	s := lexicon.Score([]string{"water", "orca", "ferry"})

	assert.Equal(t, 3, s.Tokens)
	assert.Equal(t, 0, s.Matched)
	assert.Equal(t, 0.0, s.NegativeShare())
}

func TestNegativeWinsOnOverlap(t *testing.T) {
	lexicon := NewLexicon([]string{"sick"}, []string{"sick"})

	p, ok := lexicon.Polarity("sick")

	assert.True(t, ok)
	assert.Equal(t, Negative, p)
}

func TestScoreDocumentsTotals(t *testing.T) {
	lexicon := NewLexicon([]string{"good"}, []string{"bad"})
	docs := map[string][]string{
		"1": {"good", "water"},
		"2": {"bad", "bad"},
	}

	perDoc, total := lexicon.ScoreDocuments(docs)

	assert.Equal(t, 1, perDoc["1"].Positive)
	assert.Equal(t, 2, perDoc["2"].Negative)
	assert.Equal(t, 4, total.Tokens)
	assert.Equal(t, 3, total.Matched)
	assert.InDelta(t, 2.0/3.0, total.NegativeShare(), 1e-9)
}
