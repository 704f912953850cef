package analysis

import (
	"math"
	"sort"
)

// TermScore is a tf-idf weighted (document, term) pair.
type TermScore struct {
	Doc   string  `json:"doc"`
	Term  string  `json:"term"`
	Count int     `json:"count"`
	TFIDF float64 `json:"tfidf"`
}

// TermCount is a corpus-wide term tally.
type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// TermFrequencies tallies terms across all documents, most frequent
// first, ties broken alphabetically.
func TermFrequencies(docs map[string][]string) []TermCount {
	counts := make(map[string]int)
	for _, tokens := range docs {
		for _, token := range tokens {
			counts[token]++
		}
	}

	out := make([]TermCount, 0, len(counts))
	for term, count := range counts {
		out = append(out, TermCount{Term: term, Count: count})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Term < out[j].Term
	})

	return out
}

// TFIDF computes tf-idf for every (document, term) pair: term frequency
// within the document times the log of inverse document frequency across
// the collection. Results are sorted by weight descending, with
// deterministic tie-breaking.
func TFIDF(docs map[string][]string) []TermScore {
	if len(docs) == 0 {
		return nil
	}

	// Document frequency per term.
	df := make(map[string]int)
	for _, tokens := range docs {
		seen := make(map[string]bool, len(tokens))
		for _, token := range tokens {
			if !seen[token] {
				seen[token] = true
				df[token]++
			}
		}
	}

	n := float64(len(docs))
	var scores []TermScore
	for id, tokens := range docs {
		counts := make(map[string]int, len(tokens))
		for _, token := range tokens {
			counts[token]++
		}

		for term, count := range counts {
			tf := float64(count) / float64(len(tokens))
			idf := math.Log(n / float64(df[term]))
			scores = append(scores, TermScore{
				Doc:   id,
				Term:  term,
				Count: count,
				TFIDF: tf * idf,
			})
		}
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].TFIDF != scores[j].TFIDF {
			return scores[i].TFIDF > scores[j].TFIDF
		}
		if scores[i].Doc != scores[j].Doc {
			return scores[i].Doc < scores[j].Doc
		}
		return scores[i].Term < scores[j].Term
	})

	return scores
}

// TopTerms truncates a score list.
func TopTerms(scores []TermScore, n int) []TermScore {
	if n <= 0 || n >= len(scores) {
		return scores
	}
	return scores[:n]
}
