package providers

import (
	"context"
	"strings"

	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/chatty/internal/errors"
	"github.com/diogo/chatty/internal/models"
)

// answerPaths are tried in order against the Atlas response body
var answerPaths = []string{"answer", "response", "text", "data.answer"}

// Atlas is the always-available default backend. It takes a JSON
// {"query": ...} body and needs no credential.
type Atlas struct {
	httpClient tls_client.HttpClient
	endpoint   string
}

// NewAtlas creates the Atlas provider
func NewAtlas(endpoint string, opts ...Option) (*Atlas, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Atlas{httpClient: o.httpClient, endpoint: endpoint}, nil
}

func (a *Atlas) ID() models.ProviderID    { return models.ProviderAtlas }
func (a *Atlas) Name() string             { return models.ProviderAtlas.DisplayName() }
func (a *Atlas) RequiresCredential() bool { return false }

// Query ignores credential
func (a *Atlas) Query(ctx context.Context, text, _ string) (string, error) {
	body, err := postJSON(ctx, a.httpClient, a.Name(), a.endpoint, nil, map[string]string{"query": text})
	if err != nil {
		return "", err
	}

	if !gjson.ValidBytes(body) {
		// Plain-text answers are accepted as is
		answer := strings.TrimSpace(string(body))
		if answer == "" {
			return "", apierrors.ErrNoContent
		}
		return answer, nil
	}

	for _, path := range answerPaths {
		if r := gjson.GetBytes(body, path); r.Exists() && r.String() != "" {
			return r.String(), nil
		}
	}

	if msg := gjson.GetBytes(body, "error"); msg.Exists() {
		return "", apierrors.NewAPIError(0, a.endpoint, msg.String())
	}

	return "", apierrors.NewParseError("no answer field in response", "answer")
}
