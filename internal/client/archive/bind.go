package archive

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"soundwatch/internal/domain/tweet"
)

// Record is one exported line: a flattened tweet plus its author when the
// lookup expansion returned one.
type Record struct {
	Tweet  tweet.Tweet `json:"tweet"`
	Author *tweet.User `json:"author,omitempty"`
}

// dirWriter writes export pages into a directory, one .ndjson per page.
type dirWriter struct {
	dir    string
	prefix string
}

func newDirWriter(dir, prefix string) (*dirWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create export directory %s: %w", dir, err)
	}
	return &dirWriter{dir: dir, prefix: prefix}, nil
}

// WritePage writes one page of records as newline-delimited JSON.
func (w *dirWriter) WritePage(page int, records []Record) error {
	name := fmt.Sprintf("%s-%04d.ndjson", w.prefix, page)
	path := filepath.Join(w.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create export file %s: %w", path, err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	enc := json.NewEncoder(bw)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("unable to encode record: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("unable to flush export file %s: %w", path, err)
	}

	return nil
}

// Bind reassembles every .ndjson file in a directory into a corpus. Files
// are read in name order so repeated binds are deterministic; duplicate
// ids across files are collapsed, keeping the first occurrence.
func Bind(dir, query string) (*tweet.Corpus, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to read export directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".ndjson") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, fmt.Errorf("no .ndjson files found in %s", dir)
	}

	corpus := tweet.NewCorpus(uuid.New().String(), query)
	seen := make(map[string]bool)

	for _, name := range names {
		if err := bindFile(filepath.Join(dir, name), corpus, seen); err != nil {
			return nil, err
		}
	}

	return corpus, nil
}

func bindFile(path string, corpus *tweet.Corpus, seen map[string]bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("unable to open export file %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}

		var rec Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return fmt.Errorf("malformed record in %s line %d: %w", path, line, err)
		}

		if rec.Tweet.ID == "" || seen[rec.Tweet.ID] {
			continue
		}
		seen[rec.Tweet.ID] = true

		corpus.Tweets = append(corpus.Tweets, rec.Tweet)
		corpus.MaxID = tweet.MaxID(corpus.MaxID, rec.Tweet.ID)
		if rec.Author != nil {
			corpus.Users[rec.Author.ID] = *rec.Author
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading export file %s: %w", path, err)
	}

	return nil
}
