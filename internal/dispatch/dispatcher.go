// Package dispatch turns a submitted query into exactly one provider call
// and writes the result back into the transcript.
//
// Submit and Resolve are meant to be called from the interaction loop;
// Call.Run is the only part that blocks and runs on its own goroutine.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/diogo/chatty/internal/credentials"
	apierrors "github.com/diogo/chatty/internal/errors"
	"github.com/diogo/chatty/internal/models"
	"github.com/diogo/chatty/internal/providers"
	"github.com/diogo/chatty/internal/transcript"
)

// ErrorPrefix is prepended to the user message stored for a failed call
const ErrorPrefix = "Error: "

// Dispatcher owns the single in-flight call
type Dispatcher struct {
	store    *transcript.Store
	selector *providers.Selector
	creds    credentials.Store
	logger   *slog.Logger

	mu       sync.Mutex
	inflight *Call
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithLogger sets the logger, slog.Default() otherwise
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// New creates a dispatcher
func New(store *transcript.Store, selector *providers.Selector, creds credentials.Store, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:    store,
		selector: selector,
		creds:    creds,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Store returns the transcript the dispatcher writes to
func (d *Dispatcher) Store() *transcript.Store { return d.store }

// Selector returns the provider selector
func (d *Dispatcher) Selector() *providers.Selector { return d.selector }

// Credentials returns the credential store
func (d *Dispatcher) Credentials() credentials.Store { return d.creds }

// Call is one accepted submission waiting to be run
type Call struct {
	ID         models.MessageID
	Generation uint64
	Query      string

	provider   providers.Provider
	credential string
	abort      chan struct{}
	once       sync.Once
}

// Outcome is what Call.Run hands back to the interaction loop
type Outcome struct {
	ID         models.MessageID
	Generation uint64
	Response   string
	Err        error
	Duration   time.Duration
}

// Resolution describes a transcript update that was applied
type Resolution struct {
	Message models.Message
	// Notice is the transient notification text; empty on success
	Notice string
}

// Provider returns the provider the call is routed to
func (c *Call) Provider() providers.Provider {
	return c.provider
}

// Run performs the provider call. It is safe to run on any goroutine and
// returns early with a context error when the call is canceled by Reset.
func (c *Call) Run(ctx context.Context) Outcome {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-c.abort:
			cancel()
		case <-ctx.Done():
		}
	}()

	start := time.Now()
	response, err := c.provider.Query(ctx, c.Query, c.credential)
	return Outcome{
		ID:         c.ID,
		Generation: c.Generation,
		Response:   response,
		Err:        err,
		Duration:   time.Since(start),
	}
}

func (c *Call) cancel() {
	c.once.Do(func() { close(c.abort) })
}

// Submit appends a pending entry for query and returns the call to run.
//
// Empty input yields ErrEmptyQuery and a busy dispatcher ErrBusy, both
// without touching the transcript. When the active provider needs a
// credential and none is stored, the pending entry is removed again and a
// *errors.CredentialRequiredError is returned before any network call.
func (d *Dispatcher) Submit(query string) (*Call, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apierrors.ErrEmptyQuery
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.inflight != nil {
		return nil, apierrors.ErrBusy
	}

	provider := d.selector.Active()
	msg := d.store.Append(query, provider.ID())

	var credential string
	if provider.RequiresCredential() {
		secret, err := d.creds.Load(provider.ID())
		if err != nil {
			d.store.Remove(msg.ID)
			return nil, fmt.Errorf("failed to load %s credential: %w", provider.Name(), err)
		}
		if secret == "" {
			d.store.Remove(msg.ID)
			d.logger.Debug("credential missing, prompting", "provider", provider.ID())
			return nil, apierrors.NewCredentialRequiredError(provider.Name())
		}
		credential = secret
	}

	call := &Call{
		ID:         msg.ID,
		Generation: d.store.Generation(),
		Query:      query,
		provider:   provider,
		credential: credential,
		abort:      make(chan struct{}),
	}
	d.inflight = call

	d.logger.Debug("query submitted", "id", msg.ID, "provider", provider.ID())
	return call, nil
}

// Resolve applies an outcome to the transcript. Outcomes that no longer
// match the in-flight call (reset in between, or a call from an older
// generation) are dropped and Resolve returns false.
func (d *Dispatcher) Resolve(o Outcome) (Resolution, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.inflight == nil || d.inflight.ID != o.ID || d.inflight.Generation != o.Generation {
		d.logger.Debug("dropping stale outcome", "id", o.ID, "generation", o.Generation)
		return Resolution{}, false
	}
	d.inflight = nil

	response := o.Response
	notice := ""
	failed := o.Err != nil
	if failed {
		notice = apierrors.UserMessage(o.Err)
		response = ErrorPrefix + notice
		d.logger.Warn("query failed", "id", o.ID, "err", o.Err, "duration", o.Duration)
	} else {
		d.logger.Debug("query resolved", "id", o.ID, "duration", o.Duration)
	}

	msg, ok := d.store.Resolve(o.ID, response, failed)
	if !ok {
		return Resolution{}, false
	}
	return Resolution{Message: msg, Notice: notice}, true
}

// Reset clears the transcript, cancels the in-flight call if any and
// re-enables submission. It returns the number of entries removed.
func (d *Dispatcher) Reset() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.inflight != nil {
		d.inflight.cancel()
		d.inflight = nil
	}
	return d.store.Reset()
}

// Busy reports whether a call is in flight, i.e. submission is disabled
func (d *Dispatcher) Busy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inflight != nil
}

// Ask runs a full submit/run/resolve cycle synchronously, for
// non-interactive use. The returned error is the provider failure, if any.
func (d *Dispatcher) Ask(ctx context.Context, query string) (models.Message, error) {
	call, err := d.Submit(query)
	if err != nil {
		return models.Message{}, err
	}

	outcome := call.Run(ctx)
	res, ok := d.Resolve(outcome)
	if !ok {
		return models.Message{}, fmt.Errorf("query %d was discarded", outcome.ID)
	}
	return res.Message, outcome.Err
}
