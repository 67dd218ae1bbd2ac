package embed

import (
	"fmt"
	"strings"

	"github.com/ppiankov/ideascout/internal/model"
)

// NewProvider creates an embedding provider based on configuration
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "hash", "":
		return NewHashProvider(), nil

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: openai, hash)", config.Provider)
	}
}

// ConfigFromModel converts model.EmbeddingConfig to embed.Config
func ConfigFromModel(modelConfig model.EmbeddingConfig) Config {
	return Config{
		Provider: modelConfig.Provider,
		Model:    modelConfig.Model,
		APIKey:   modelConfig.APIKey,
		BaseURL:  modelConfig.BaseURL,
		Timeout:  modelConfig.Timeout,
	}
}
