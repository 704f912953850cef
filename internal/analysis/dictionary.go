package analysis

import (
	"fmt"
	"sort"
	"strings"
)

// Category is a named term-matching class built from a word list. A
// trailing * marks a prefix wildcard: "blam*" matches blame, blamed,
// blaming.
type Category struct {
	name     string
	exact    map[string]bool
	prefixes []string
}

// NewCategory builds a category from literal terms.
func NewCategory(name string, terms []string) *Category {
	c := &Category{name: name, exact: make(map[string]bool, len(terms))}
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		if strings.HasSuffix(term, "*") {
			c.prefixes = append(c.prefixes, strings.TrimSuffix(term, "*"))
		} else {
			c.exact[term] = true
		}
	}
	return c
}

// LoadCategory reads a category's terms from a word list file.
func LoadCategory(name, path string) (*Category, error) {
	list, err := LoadWordList(path)
	if err != nil {
		return nil, fmt.Errorf("loading category %s: %w", name, err)
	}
	return NewCategory(name, list.Words()), nil
}

// Name returns the category name.
func (c *Category) Name() string {
	return c.name
}

// Matches reports whether a token belongs to the category.
func (c *Category) Matches(token string) bool {
	token = strings.ToLower(token)
	if c.exact[token] {
		return true
	}
	for _, prefix := range c.prefixes {
		if strings.HasPrefix(token, prefix) {
			return true
		}
	}
	return false
}

// Count tallies category matches in a token table.
func (c *Category) Count(tokens []string) int {
	count := 0
	for _, token := range tokens {
		if c.Matches(token) {
			count++
		}
	}
	return count
}

// Dictionary is an ordered set of categories applied together.
type Dictionary struct {
	categories []*Category
}

// NewDictionary groups categories.
func NewDictionary(categories ...*Category) *Dictionary {
	return &Dictionary{categories: categories}
}

// CategoryCount is a per-category match tally.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Counts tallies every category over a token table, in category name
// order.
func (d *Dictionary) Counts(tokens []string) []CategoryCount {
	out := make([]CategoryCount, 0, len(d.categories))
	for _, c := range d.categories {
		out = append(out, CategoryCount{Category: c.name, Count: c.Count(tokens)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}
