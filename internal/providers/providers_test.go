package providers

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/diogo/chatty/internal/config"
	apierrors "github.com/diogo/chatty/internal/errors"
	"github.com/diogo/chatty/internal/models"
)

func TestAtlas_Query(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		status  int
		want    string
		wantErr error
	}{
		{"answer field", `{"answer": "4"}`, 200, "4", nil},
		{"response field", `{"response": "hello"}`, 200, "hello", nil},
		{"nested answer", `{"data": {"answer": "deep"}}`, 200, "deep", nil},
		{"plain text", "just text\n", 200, "just text", nil},
		{"no answer", `{"foo": 1}`, 200, "", apierrors.ErrInvalidResponse},
		{"empty body", "", 200, "", apierrors.ErrNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockHttpClient([]byte(tt.body), tt.status)
			atlas, err := NewAtlas("http://atlas.test/query", WithHTTPClient(mock))
			if err != nil {
				t.Fatal(err)
			}

			got, err := atlas.Query(context.Background(), "What is 2+2?", "")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Query() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Query() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAtlas_RequestShape(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"answer":"ok"}`), 200)
	atlas, _ := NewAtlas("http://atlas.test/query", WithHTTPClient(mock))

	if _, err := atlas.Query(context.Background(), "hello", "ignored"); err != nil {
		t.Fatal(err)
	}

	if mock.LastRequest.Method != "POST" {
		t.Errorf("Method = %s, want POST", mock.LastRequest.Method)
	}
	if got := gjson.GetBytes(mock.LastBody, "query").String(); got != "hello" {
		t.Errorf("query field = %q", got)
	}
	if mock.LastRequest.Header.Get("Authorization") != "" {
		t.Error("Atlas must not send a credential")
	}
	if atlas.RequiresCredential() {
		t.Error("Atlas must not require a credential")
	}
}

func TestPerplexity_Query(t *testing.T) {
	body := `{"choices":[{"message":{"role":"assistant","content":"Paris"}}]}`
	mock := NewMockHttpClient([]byte(body), 200)
	pplx, err := NewPerplexity("https://pplx.test/chat/completions", WithHTTPClient(mock), WithModel("sonar-pro"))
	if err != nil {
		t.Fatal(err)
	}

	got, err := pplx.Query(context.Background(), "Capital of France?", "pplx-key")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if got != "Paris" {
		t.Errorf("Query() = %q, want Paris", got)
	}

	if auth := mock.LastRequest.Header.Get("Authorization"); auth != "Bearer pplx-key" {
		t.Errorf("Authorization = %q", auth)
	}
	if m := gjson.GetBytes(mock.LastBody, "model").String(); m != "sonar-pro" {
		t.Errorf("model = %q", m)
	}
	if c := gjson.GetBytes(mock.LastBody, "messages.0.content").String(); c != "Capital of France?" {
		t.Errorf("messages.0.content = %q", c)
	}
}

func TestPerplexity_RejectedCredential(t *testing.T) {
	for _, status := range []int{401, 403} {
		mock := NewMockHttpClient([]byte(`{"error":"bad key"}`), status)
		pplx, _ := NewPerplexity("https://pplx.test", WithHTTPClient(mock))

		_, err := pplx.Query(context.Background(), "hello", "wrong")
		if !apierrors.IsCredentialError(err) {
			t.Errorf("status %d: error = %v, want credential error", status, err)
		}
		if apierrors.UserMessage(err) != "Invalid API key" {
			t.Errorf("status %d: UserMessage = %q", status, apierrors.UserMessage(err))
		}
	}
}

func TestPerplexity_MissingCredentialMakesNoCall(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{}`), 200)
	pplx, _ := NewPerplexity("https://pplx.test", WithHTTPClient(mock))

	_, err := pplx.Query(context.Background(), "hello", "")
	if !apierrors.IsMissingCredential(err) {
		t.Errorf("error = %v, want missing credential", err)
	}
	if mock.Calls != 0 {
		t.Errorf("made %d HTTP calls, want 0", mock.Calls)
	}
}

func TestPostJSON_ServerError(t *testing.T) {
	mock := NewMockHttpClient([]byte(strings.Repeat("x", 2000)), 500)
	atlas, _ := NewAtlas("http://atlas.test", WithHTTPClient(mock))

	_, err := atlas.Query(context.Background(), "q", "")
	if apierrors.GetHTTPStatus(err) != 500 {
		t.Fatalf("error = %v, want HTTP 500", err)
	}
	if !strings.HasPrefix(apierrors.UserMessage(err), "API error: HTTP 500") {
		t.Errorf("UserMessage = %q", apierrors.UserMessage(err))
	}
	if len(err.Error()) > 700 {
		t.Errorf("error body not truncated: %d bytes", len(err.Error()))
	}
}

func TestPostJSON_NetworkError(t *testing.T) {
	mock := NewMockHttpClientWithError(errors.New("connection refused"))
	atlas, _ := NewAtlas("http://atlas.test", WithHTTPClient(mock))

	_, err := atlas.Query(context.Background(), "q", "")
	if !apierrors.IsNetworkError(err) {
		t.Errorf("error = %v, want network error", err)
	}
}

// timeoutError mimics the net.Error returned when the client deadline passes
type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestPostJSON_ClientTimeout(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"net error", fmt.Errorf("Post \"http://atlas.test\": %w", timeoutError{})},
		{"client deadline text", errors.New(`Post "http://atlas.test": context deadline exceeded (Client.Timeout exceeded while awaiting headers)`)},
		{"deadline exceeded", fmt.Errorf("request failed: %w", context.DeadlineExceeded)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			atlas, _ := NewAtlas("http://atlas.test", WithHTTPClient(NewMockHttpClientWithError(tt.err)))

			_, err := atlas.Query(context.Background(), "q", "")
			if !apierrors.IsTimeoutError(err) {
				t.Errorf("error = %v, want timeout", err)
			}
		})
	}
}

func TestAtlas_SlowServerTimesOut(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the client timeout")
	}

	release := make(chan struct{})
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
		_, _ = w.Write([]byte(`{"answer":"late"}`))
	}))
	defer srv.Close()
	defer close(release)

	atlas, err := NewAtlas(srv.URL, WithTimeoutSeconds(1))
	if err != nil {
		t.Fatal(err)
	}

	_, err = atlas.Query(context.Background(), "q", "")
	if !apierrors.IsTimeoutError(err) {
		t.Fatalf("error = %v, want timeout", err)
	}
	if apierrors.IsNetworkError(err) {
		t.Error("a timeout should not be reported as a network error")
	}
}

func TestPostJSON_CanceledContext(t *testing.T) {
	mock := NewMockHttpClientWithError(context.Canceled)
	atlas, _ := NewAtlas("http://atlas.test", WithHTTPClient(mock))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := atlas.Query(ctx, "q", "")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestSelector(t *testing.T) {
	mock := NewMockHttpClient(nil, 200)
	sel, err := FromConfig(config.DefaultConfig(), WithHTTPClient(mock))
	if err != nil {
		t.Fatal(err)
	}

	if sel.Active().ID() != models.ProviderAtlas {
		t.Fatalf("default provider = %s, want atlas", sel.Active().ID())
	}
	if sel.Label() != "ATLAS" {
		t.Errorf("Label() = %s", sel.Label())
	}

	if p := sel.Toggle(); p.ID() != models.ProviderPerplexity {
		t.Errorf("Toggle() = %s, want perplexity", p.ID())
	}
	if sel.Label() != "PERPLEXITY" {
		t.Errorf("Label() after toggle = %s", sel.Label())
	}
	if p := sel.Toggle(); p.ID() != models.ProviderAtlas {
		t.Errorf("second Toggle() = %s, want atlas", p.ID())
	}

	if err := sel.Select(models.ProviderPerplexity); err != nil {
		t.Fatal(err)
	}
	if sel.Active().ID() != models.ProviderPerplexity {
		t.Error("Select() did not activate perplexity")
	}
	if err := sel.Select("openai"); err == nil {
		t.Error("Select() accepted an unknown provider")
	}

	if p, ok := sel.Lookup(models.ProviderAtlas); !ok || p.RequiresCredential() {
		t.Error("Lookup(atlas) failed")
	}
	if len(sel.All()) != 2 {
		t.Error("All() should return two providers")
	}
}
