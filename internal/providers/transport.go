package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	apierrors "github.com/diogo/chatty/internal/errors"
)

// maxBodySize caps how much of a response is read
const maxBodySize = 4 << 20

// maxErrorBody caps how much of an error body ends up in a message
const maxErrorBody = 512

func newHTTPClient(timeoutSeconds int) (tls_client.HttpClient, error) {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 60
	}

	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(timeoutSeconds),
		tls_client.WithClientProfile(profiles.Chrome_120),
	}

	client, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}
	return client, nil
}

// postJSON sends payload to endpoint and returns the body of a 200 answer.
// 401 and 403 become credential errors for the named provider.
func postJSON(ctx context.Context, client tls_client.HttpClient, provider, endpoint string, headers map[string]string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, apierrors.NewTimeoutError(provider + " did not answer in time")
		}
		return nil, apierrors.NewNetworkError(provider+" query", endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, apierrors.NewNetworkError("read "+provider+" response", endpoint, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, apierrors.NewCredentialError(provider, fmt.Sprintf("HTTP %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, apierrors.NewAPIError(resp.StatusCode, endpoint, errorSnippet(data))
	}

	return data, nil
}

// isTimeout reports whether a failed Do hit a deadline: the context's or the
// client's own (tls-client WithTimeoutSeconds)
func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(err.Error(), "Client.Timeout exceeded")
}

func errorSnippet(body []byte) string {
	msg := string(bytes.TrimSpace(body))
	if msg == "" {
		return "empty response"
	}
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody] + "..."
	}
	return msg
}
