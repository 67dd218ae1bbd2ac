package embed

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/ppiankov/ideascout/internal/cache"
)

// Similarity computes semantic similarity between text spans using an
// embedding provider. Vectors are cached by text hash so repeated
// scoring of the same candidate never re-embeds.
type Similarity struct {
	provider Provider
	cache    cache.Cache // may be nil
}

// NewSimilarity creates a Similarity backed by the given provider.
// The cache is optional.
func NewSimilarity(provider Provider, c cache.Cache) *Similarity {
	return &Similarity{provider: provider, cache: c}
}

// Vectors embeds the given texts, serving cached vectors where
// possible and batching the rest into a single provider call
func (s *Similarity) Vectors(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))

	var missing []string
	var missingIdx []int
	for i, text := range texts {
		if vec, ok := s.cached(text); ok {
			vectors[i] = vec
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) > 0 {
		embedded, err := s.provider.Embed(ctx, missing)
		if err != nil {
			return nil, fmt.Errorf("embed %d texts: %w", len(missing), err)
		}
		for j, vec := range embedded {
			vectors[missingIdx[j]] = vec
			s.store(missing[j], vec)
		}
	}

	return vectors, nil
}

func (s *Similarity) cached(text string) ([]float64, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, found := s.cache.Get(s.key(text))
	if !found {
		return nil, false
	}
	var vec []float64
	if err := json.Unmarshal(data, &vec); err != nil {
		return nil, false
	}
	return vec, true
}

func (s *Similarity) store(text string, vec []float64) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(vec)
	if err != nil {
		return
	}
	_ = s.cache.Set(s.key(text), data, 0)
}

func (s *Similarity) key(text string) string {
	return cache.Key("embed:" + s.provider.Name() + ":" + text)
}

// Cosine returns the cosine similarity between two vectors. Mismatched
// or zero-length vectors yield 0.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
