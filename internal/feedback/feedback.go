package feedback

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/ideascout/internal/model"
)

// Store holds user ratings keyed by normalized idea title. The on-disk
// format is a flat JSON object, one entry per title, rating in [0, 5].
// Ratings are loaded once at run start and written back at run end;
// they are never deleted automatically.
type Store struct {
	path    string
	ratings map[string]float64
	dirty   bool
}

// Load reads the feedback file at path. A missing or unreadable file
// yields an empty store: feedback is additive and its absence is not
// an error.
func Load(path string) *Store {
	store := &Store{
		path:    path,
		ratings: make(map[string]float64),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return store
	}

	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return store
	}

	for title, rating := range raw {
		store.ratings[model.NormalizeTitle(title)] = clampRating(rating)
	}

	return store
}

// Adjustment maps a stored rating to a linear score delta:
// (rating - 2.5) * 2, giving exactly -5 at 0, 0 at 2.5, +5 at 5.
// Missing feedback yields 0.
func (s *Store) Adjustment(title string) float64 {
	rating, ok := s.ratings[model.NormalizeTitle(title)]
	if !ok {
		return 0
	}
	return (rating - 2.5) * 2
}

// Rating returns the stored rating for a title, if any
func (s *Store) Rating(title string) (float64, bool) {
	rating, ok := s.ratings[model.NormalizeTitle(title)]
	return rating, ok
}

// Add records or updates a rating for an idea
func (s *Store) Add(title string, rating float64) {
	s.ratings[model.NormalizeTitle(title)] = clampRating(rating)
	s.dirty = true
}

// Len returns the number of stored ratings
func (s *Store) Len() int {
	return len(s.ratings)
}

// Dirty reports whether ratings were added since loading
func (s *Store) Dirty() bool {
	return s.dirty
}

// Save writes the ratings back to the feedback file
func (s *Store) Save() error {
	if s.path == "" {
		return fmt.Errorf("no feedback path configured")
	}

	data, err := json.MarshalIndent(s.ratings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal feedback: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create feedback dir: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write feedback: %w", err)
	}

	s.dirty = false
	return nil
}

func clampRating(rating float64) float64 {
	if rating < 0 {
		return 0
	}
	if rating > 5 {
		return 5
	}
	return rating
}
