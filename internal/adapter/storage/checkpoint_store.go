package storage

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"soundwatch/internal/domain/tweet"
)

// CheckpointStore persists a corpus to a single gob file between runs.
// Saves replace the file atomically so an interrupted run never leaves a
// half-written checkpoint behind.
type CheckpointStore struct {
	path string
}

// NewCheckpointStore creates a checkpoint store for a file path.
func NewCheckpointStore(path string) *CheckpointStore {
	return &CheckpointStore{path: path}
}

// Load reads the checkpoint. A missing file is not an error: it returns
// (nil, nil) so the caller starts a fresh corpus.
func (s *CheckpointStore) Load() (*tweet.Corpus, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open checkpoint %s: %w", s.path, err)
	}
	defer f.Close()

	var corpus tweet.Corpus
	if err := gob.NewDecoder(f).Decode(&corpus); err != nil {
		return nil, fmt.Errorf("unable to decode checkpoint %s: %w", s.path, err)
	}

	if corpus.Users == nil {
		corpus.Users = make(map[string]tweet.User)
	}

	return &corpus, nil
}

// Save writes the corpus, replacing any previous checkpoint.
func (s *CheckpointStore) Save(corpus *tweet.Corpus) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("unable to create checkpoint directory: %w", err)
	}

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("unable to create checkpoint file: %w", err)
	}

	if err := gob.NewEncoder(f).Encode(corpus); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("unable to encode checkpoint: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("unable to close checkpoint file: %w", err)
	}

	return os.Rename(tmp, s.path)
}
