package providers

import (
	"context"

	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/chatty/internal/errors"
	"github.com/diogo/chatty/internal/models"
)

// DefaultPerplexityModel is used when no model is configured
const DefaultPerplexityModel = "sonar"

// Perplexity talks to the OpenAI-compatible chat completions API
type Perplexity struct {
	httpClient tls_client.HttpClient
	endpoint   string
	model      string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// NewPerplexity creates the Perplexity provider
func NewPerplexity(endpoint string, opts ...Option) (*Perplexity, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	model := o.model
	if model == "" {
		model = DefaultPerplexityModel
	}
	return &Perplexity{httpClient: o.httpClient, endpoint: endpoint, model: model}, nil
}

func (p *Perplexity) ID() models.ProviderID    { return models.ProviderPerplexity }
func (p *Perplexity) Name() string             { return models.ProviderPerplexity.DisplayName() }
func (p *Perplexity) RequiresCredential() bool { return true }

func (p *Perplexity) Query(ctx context.Context, text, credential string) (string, error) {
	if credential == "" {
		return "", apierrors.NewCredentialRequiredError(p.Name())
	}

	req := chatRequest{
		Model:    p.model,
		Messages: []chatMessage{{Role: "user", Content: text}},
	}
	headers := map[string]string{"Authorization": "Bearer " + credential}

	body, err := postJSON(ctx, p.httpClient, p.Name(), p.endpoint, headers, req)
	if err != nil {
		return "", err
	}

	content := gjson.GetBytes(body, "choices.0.message.content")
	if !content.Exists() {
		return "", apierrors.NewParseError("missing message content", "choices.0.message.content")
	}
	if content.String() == "" {
		return "", apierrors.ErrNoContent
	}
	return content.String(), nil
}
