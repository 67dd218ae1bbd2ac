package embed

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements the Provider interface using OpenAI's
// embeddings API
type OpenAIProvider struct {
	client *openai.Client
	config Config
}

// NewOpenAIProvider creates a new OpenAI embedding provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is properly configured
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "OpenAI API check failed: %v\n", err)
		return false
	}
	return true
}

// Embed embeds all texts in a single batched API call
func (p *OpenAIProvider) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	model := openai.EmbeddingModel(p.config.Model)
	if p.config.Model == "" {
		model = openai.SmallEmbedding3
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := p.client.CreateEmbeddings(ctxWithTimeout, openai.EmbeddingRequest{
		Input: texts,
		Model: model,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: openai embeddings: %v", ErrUnavailable, err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: openai returned %d embeddings for %d inputs", ErrUnavailable, len(resp.Data), len(texts))
	}

	vectors := make([][]float64, len(texts))
	for _, item := range resp.Data {
		vec := make([]float64, len(item.Embedding))
		for i, f := range item.Embedding {
			vec[i] = float64(f)
		}
		vectors[item.Index] = vec
	}

	return vectors, nil
}
