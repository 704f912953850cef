package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryExactAndPrefixMatches(t *testing.T) {
	c := NewCategory("moral", []string{"duty", "blam*"})

	assert.True(t, c.Matches("duty"))
	assert.True(t, c.Matches("blame"))
	assert.True(t, c.Matches("blaming"))
	assert.True(t, c.Matches("BLAMED"))
	assert.False(t, c.Matches("dutiful"))
	assert.False(t, c.Matches("bla"))
}

func TestCategoryCount(t *testing.T) {
	c := NewCategory("moral", []string{"duty", "blam*"})

	count := c.Count([]string{"duty", "blamed", "water", "blaming"})

	assert.Equal(t, 3, count)
}

func TestDictionaryCountsSortedByName(t *testing.T) {
	d := NewDictionary(
		NewCategory("polarization", []string{"partisan"}),
		NewCategory("moral", []string{"duty"}),
	)

	counts := d.Counts([]string{"duty", "partisan", "partisan"})

	require.Len(t, counts, 2)
	assert.Equal(t, CategoryCount{Category: "moral", Count: 1}, counts[0])
	assert.Equal(t, CategoryCount{Category: "polarization", Count: 2}, counts[1])
}
