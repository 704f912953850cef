package analysis

import (
	"regexp"
	"strings"
)

// Cleaning patterns. Order matters: URLs go first so their digits and
// slashes never survive into later passes.
var (
	urlPattern      = regexp.MustCompile(`https?://\S+|www\.\S+`)
	handlePattern   = regexp.MustCompile(`@\w+`)
	hashtagPattern  = regexp.MustCompile(`#\w+`)
	digitPattern    = regexp.MustCompile(`[0-9]+`)
	nonASCIIPattern = regexp.MustCompile(`[^\x00-\x7F]+`)
	spacePattern    = regexp.MustCompile(`\s+`)
)

// Clean strips handles, hashtags, URLs, digits and non-ASCII characters
// from tweet text. Cleaning is idempotent: cleaning already-cleaned text
// returns it unchanged.
func Clean(text string) string {
	text = urlPattern.ReplaceAllString(text, " ")
	text = handlePattern.ReplaceAllString(text, " ")
	text = hashtagPattern.ReplaceAllString(text, " ")
	text = digitPattern.ReplaceAllString(text, " ")
	text = nonASCIIPattern.ReplaceAllString(text, " ")
	text = spacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

const tokenPunctuation = ".,;:!?\"'()[]{}<>|/\\-_~*&^%$+=`"

// Tokenize cleans text and splits it into lowercase tokens, trimming
// punctuation and dropping single letters. A nil stopwords list keeps
// everything.
func Tokenize(text string, stopwords *WordList) []string {
	var tokens []string
	for _, field := range strings.Fields(Clean(text)) {
		token := strings.ToLower(strings.Trim(field, tokenPunctuation))
		if len(token) < 2 {
			continue
		}
		if stopwords != nil && stopwords.Contains(token) {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// TokenizeDocuments tokenizes a document set keyed by document id,
// dropping documents that end up empty.
func TokenizeDocuments(docs map[string]string, stopwords *WordList) map[string][]string {
	out := make(map[string][]string, len(docs))
	for id, text := range docs {
		if tokens := Tokenize(text, stopwords); len(tokens) > 0 {
			out[id] = tokens
		}
	}
	return out
}
