package analysis

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// WordList is a flat set of lowercase words loaded from a text file, one
// word per line, with # starting a comment. Lists are static: loaded
// once and never mutated afterwards.
type WordList struct {
	words map[string]bool
}

// NewWordList builds a list from literal words, mostly for tests.
func NewWordList(words ...string) *WordList {
	w := &WordList{words: make(map[string]bool, len(words))}
	for _, word := range words {
		w.words[strings.ToLower(word)] = true
	}
	return w
}

// LoadWordList reads a word list file.
func LoadWordList(path string) (*WordList, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open word list %s: %w", path, err)
	}
	defer file.Close()

	w := &WordList{words: make(map[string]bool)}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		w.words[strings.ToLower(line)] = true
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading word list %s: %w", path, err)
	}

	return w, nil
}

// Contains reports membership, case-insensitively.
func (w *WordList) Contains(word string) bool {
	return w.words[strings.ToLower(word)]
}

// Len returns the number of words in the list.
func (w *WordList) Len() int {
	return len(w.words)
}

// Words returns the words in no particular order.
func (w *WordList) Words() []string {
	out := make([]string, 0, len(w.words))
	for word := range w.words {
		out = append(out, word)
	}
	return out
}
