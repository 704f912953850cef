package analysis

import (
	"fmt"
	"strings"
)

// Polarity is the sentiment label attached to a lexicon word.
type Polarity int

const (
	Positive Polarity = iota
	Negative
)

func (p Polarity) String() string {
	if p == Negative {
		return "negative"
	}
	return "positive"
}

// Lexicon is a static word-to-polarity mapping assembled from two flat
// word list files.
type Lexicon struct {
	words map[string]Polarity
}

// NewLexicon builds a lexicon from literal word sets.
func NewLexicon(positive, negative []string) *Lexicon {
	l := &Lexicon{words: make(map[string]Polarity, len(positive)+len(negative))}
	for _, w := range positive {
		l.words[strings.ToLower(w)] = Positive
	}
	// Negative entries win when a word appears in both lists.
	for _, w := range negative {
		l.words[strings.ToLower(w)] = Negative
	}
	return l
}

// LoadLexicon reads the positive and negative word list files.
func LoadLexicon(positivePath, negativePath string) (*Lexicon, error) {
	pos, err := LoadWordList(positivePath)
	if err != nil {
		return nil, fmt.Errorf("loading positive lexicon: %w", err)
	}
	neg, err := LoadWordList(negativePath)
	if err != nil {
		return nil, fmt.Errorf("loading negative lexicon: %w", err)
	}
	return NewLexicon(pos.Words(), neg.Words()), nil
}

// Polarity looks up a token's sentiment label.
func (l *Lexicon) Polarity(word string) (Polarity, bool) {
	p, ok := l.words[strings.ToLower(word)]
	return p, ok
}

// SentimentSummary tallies a token table against the lexicon.
type SentimentSummary struct {
	Tokens   int `json:"tokens"`
	Matched  int `json:"matched"`
	Positive int `json:"positive"`
	Negative int `json:"negative"`
}

// Score joins a token table against the lexicon.
func (l *Lexicon) Score(tokens []string) SentimentSummary {
	s := SentimentSummary{Tokens: len(tokens)}
	for _, token := range tokens {
		p, ok := l.Polarity(token)
		if !ok {
			continue
		}
		s.Matched++
		if p == Negative {
			s.Negative++
		} else {
			s.Positive++
		}
	}
	return s
}

// ScoreDocuments scores every document and the corpus as a whole.
func (l *Lexicon) ScoreDocuments(docs map[string][]string) (map[string]SentimentSummary, SentimentSummary) {
	perDoc := make(map[string]SentimentSummary, len(docs))
	var total SentimentSummary

	for id, tokens := range docs {
		s := l.Score(tokens)
		perDoc[id] = s
		total.Tokens += s.Tokens
		total.Matched += s.Matched
		total.Positive += s.Positive
		total.Negative += s.Negative
	}

	return perDoc, total
}

// NegativeShare is the proportion of matched tokens labeled negative, or
// 0 when nothing matched.
func (s SentimentSummary) NegativeShare() float64 {
	if s.Matched == 0 {
		return 0
	}
	return float64(s.Negative) / float64(s.Matched)
}
