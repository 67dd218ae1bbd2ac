package embed

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"strings"
	"unicode"
)

const hashDimensions = 256

// HashProvider is a deterministic, offline embedding backend based on
// token feature hashing. Texts sharing vocabulary map to nearby
// vectors. It exists so the pipeline can run without network access
// and so tests are reproducible; it is clearly weaker than a real
// embedding model.
type HashProvider struct{}

// NewHashProvider creates a new hash-based embedding provider
func NewHashProvider() *HashProvider {
	return &HashProvider{}
}

// Name returns the provider name
func (p *HashProvider) Name() string {
	return "hash"
}

// IsAvailable always succeeds; the provider has no external dependency
func (p *HashProvider) IsAvailable(ctx context.Context) bool {
	return true
}

// Embed maps each text to a unit vector via token feature hashing
func (p *HashProvider) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vectors[i] = hashEmbed(text)
	}
	return vectors, nil
}

func hashEmbed(text string) []float64 {
	vec := make([]float64, hashDimensions)

	for _, token := range tokenize(text) {
		digest := sha256.Sum256([]byte(token))
		idx := binary.BigEndian.Uint32(digest[:4]) % hashDimensions
		// Second hash word decides the sign, which spreads the
		// tokens across the space instead of piling them up
		if digest[4]&1 == 0 {
			vec[idx]++
		} else {
			vec[idx]--
		}
	}

	// Normalize to unit length so cosine similarity is well behaved
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}

	return vec
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
