package commands

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"

	"github.com/diogo/chatty/internal/config"
	apierrors "github.com/diogo/chatty/internal/errors"
	"github.com/diogo/chatty/internal/models"
	"github.com/diogo/chatty/internal/render"
)

func TestSpinnerLifecycle_StopWithSuccess(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(&buf, "ATLAS is thinking", render.DarkTheme)
	s.start()
	time.Sleep(50 * time.Millisecond)
	s.stopWithSuccess("Done")

	testboil.AssertStringContains(t, buf.String(), "Done")
}

func TestSpinnerLifecycle_StopWithError(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(&buf, "ATLAS is thinking", render.LightTheme)
	s.start()
	time.Sleep(30 * time.Millisecond)
	s.stopWithError()
	s.stopWithError()

	if strings.Contains(buf.String(), "✓") {
		t.Error("error stop should not print a checkmark")
	}
}

func TestFormatErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "missing credential",
			err:  apierrors.NewCredentialRequiredError("PERPLEXITY"),
			want: []string{"No API key stored for PERPLEXITY", "chatty key set perplexity"},
		},
		{
			name: "rejected credential",
			err:  apierrors.NewCredentialError("PERPLEXITY", "unauthorized"),
			want: []string{"Invalid API key", "rejected"},
		},
		{
			name: "server error",
			err:  apierrors.NewAPIError(503, "https://atlas.example", "unavailable"),
			want: []string{"API error", "HTTP 503"},
		},
		{
			name: "network",
			err:  apierrors.NewNetworkError("query", "https://atlas.example", errors.New("connection refused")),
			want: []string{"network connection"},
		},
		{
			name: "timeout",
			err:  apierrors.NewTimeoutError("deadline exceeded"),
			want: []string{"request-timeout"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatErrorMessage(tt.err, render.LightTheme)
			for _, w := range tt.want {
				testboil.AssertStringContains(t, got, w)
			}
			if apierrors.IsMissingCredential(tt.err) && strings.Contains(got, "API error") {
				t.Errorf("missing key is not an API error: %q", got)
			}
		})
	}
}

func TestRenderAnswer(t *testing.T) {
	prefs := config.Preferences{FontSize: models.FontRegular}

	got := renderAnswer("PERPLEXITY", "plain answer", prefs, 80)
	testboil.AssertStringContains(t, got, "PERPLEXITY")
	testboil.AssertStringContains(t, got, "answer")

	// narrow terminals still get a usable bubble
	narrow := renderAnswer("ATLAS", "x", prefs, 5)
	testboil.AssertStringContains(t, narrow, "ATLAS")
}
