// Package history persists the bounded record of published posts. The
// record is a single JSON document rewritten on every append; the newest
// entries win when the configured limit is exceeded.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jasmeetsingh/autoposter/config"
	"github.com/jasmeetsingh/autoposter/models"
)

// previewRunes is how much of a post body each history entry keeps.
const previewRunes = 100

// Store reads and rewrites the history document at a fixed path.
type Store struct {
	path  string
	limit int
}

func NewStore(cfg config.HistoryConfig) *Store {
	return &Store{path: cfg.File, limit: cfg.Limit}
}

// Load reads the history document. A missing file is an empty history,
// not an error.
func (s *Store) Load() (models.History, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.History{}, nil
		}
		return models.History{}, fmt.Errorf("failed to read history file: %w", err)
	}

	var h models.History
	if err := json.Unmarshal(data, &h); err != nil {
		return models.History{}, fmt.Errorf("failed to parse history file: %w", err)
	}
	return h, nil
}

// Append adds an entry and rewrites the document, evicting the oldest
// entries beyond the store's limit.
func (s *Store) Append(entry models.HistoryEntry) error {
	h, err := s.Load()
	if err != nil {
		return err
	}

	h.Posts = append(h.Posts, entry)
	if s.limit > 0 && len(h.Posts) > s.limit {
		h.Posts = h.Posts[len(h.Posts)-s.limit:]
	}
	return s.Save(h)
}

// Save rewrites the whole document in place.
func (s *Store) Save(h models.History) error {
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}

// Preview shortens a post body to the stored preview shape: the first
// previewRunes characters followed by an ellipsis.
func Preview(post string) string {
	runes := []rune(post)
	if len(runes) > previewRunes {
		runes = runes[:previewRunes]
	}
	return string(runes) + "..."
}
