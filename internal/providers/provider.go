// Package providers implements the two answer backends and the selector
// that routes queries between them.
package providers

import (
	"context"
	"fmt"

	tls_client "github.com/bogdanfinn/tls-client"

	"github.com/diogo/chatty/internal/config"
	"github.com/diogo/chatty/internal/models"
)

// Provider answers a single query
type Provider interface {
	ID() models.ProviderID
	Name() string
	// RequiresCredential reports whether Query needs a stored secret
	RequiresCredential() bool
	Query(ctx context.Context, text, credential string) (string, error)
}

// Option configures a provider
type Option func(*options)

type options struct {
	httpClient     tls_client.HttpClient
	timeoutSeconds int
	model          string
}

// WithHTTPClient injects the transport (used by tests)
func WithHTTPClient(client tls_client.HttpClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithTimeoutSeconds sets the per-request timeout
func WithTimeoutSeconds(seconds int) Option {
	return func(o *options) {
		o.timeoutSeconds = seconds
	}
}

// WithModel sets the model name sent to providers that accept one
func WithModel(model string) Option {
	return func(o *options) {
		o.model = model
	}
}

func buildOptions(opts []Option) (options, error) {
	o := options{timeoutSeconds: 60}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		client, err := newHTTPClient(o.timeoutSeconds)
		if err != nil {
			return o, err
		}
		o.httpClient = client
	}
	return o, nil
}

// FromConfig builds both providers and a selector starting on the default one
func FromConfig(cfg config.Config, opts ...Option) (*Selector, error) {
	base := append([]Option{WithTimeoutSeconds(cfg.RequestTimeout)}, opts...)

	atlas, err := NewAtlas(cfg.AtlasEndpoint, base...)
	if err != nil {
		return nil, fmt.Errorf("failed to create atlas provider: %w", err)
	}

	pplxOpts := append([]Option{WithModel(cfg.PerplexityModel)}, base...)
	pplx, err := NewPerplexity(cfg.PerplexityEndpoint, pplxOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create perplexity provider: %w", err)
	}

	return NewSelector(atlas, pplx), nil
}
