package embed

import (
	"context"
	"errors"
)

// ErrUnavailable signals that the embedding capability cannot be used.
// Scoring cannot proceed without it, so the engine aborts the run.
var ErrUnavailable = errors.New("embedding capability unavailable")

// Provider defines the interface for embedding backends. Implementations
// must be deterministic: the same input text always yields the same
// vector for a fixed model.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Embed returns one vector per input text, in input order
	Embed(ctx context.Context, texts []string) ([][]float64, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Config holds embedding provider configuration
type Config struct {
	// Provider name: "openai", "hash"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider: "hash",
		Timeout:  30,
	}
}
