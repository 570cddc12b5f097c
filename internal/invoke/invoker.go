// Package invoke carries JSON payloads to named downstream functions, either
// in-process or over HTTP for split deployments.
package invoke

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// HandlerFunc handles one named invocation: JSON payload in, JSON payload out.
type HandlerFunc func(ctx context.Context, payload []byte) ([]byte, error)

// ErrUnknownFunction is returned when no handler is registered for a name.
var ErrUnknownFunction = errors.New("unknown function")

// Invoker fires a named call with a JSON payload and returns the reply bytes.
type Invoker interface {
	Invoke(ctx context.Context, name string, payload any) ([]byte, error)
}

// Local dispatches invocations to handlers registered in the same process.
// Payloads still round-trip through JSON so local and remote invocation stay
// behaviorally identical.
type Local struct {
	handlers map[string]HandlerFunc
}

// NewLocal creates an empty local invoker.
func NewLocal() *Local {
	return &Local{handlers: make(map[string]HandlerFunc)}
}

// Register binds a handler to a function name. Registration happens at
// wiring time, before any Invoke call.
func (l *Local) Register(name string, fn HandlerFunc) {
	l.handlers[name] = fn
}

func (l *Local) Invoke(ctx context.Context, name string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling payload for %q: %w", name, err)
	}

	return l.Handle(ctx, name, body)
}

// Handle dispatches a raw JSON payload to the named handler. It backs both
// Invoke and the HTTP invoke endpoint peers call into.
func (l *Local) Handle(ctx context.Context, name string, payload []byte) ([]byte, error) {
	fn, ok := l.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}

	return fn(ctx, payload)
}

// HTTP invokes functions exposed by a peer deployment under /invoke/{name}.
type HTTP struct {
	baseURL string
	client  *http.Client
}

// NewHTTP creates an HTTP invoker against the given base URL. A nil client
// falls back to http.DefaultClient.
func NewHTTP(baseURL string, client *http.Client) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}

	return &HTTP{baseURL: baseURL, client: client}
}

func (h *HTTP) Invoke(ctx context.Context, name string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling payload for %q: %w", name, err)
	}

	url := fmt.Sprintf("%s/invoke/%s", h.baseURL, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	reply, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("function %q replied %d: %s", name, resp.StatusCode, reply)
	}

	return reply, nil
}

// Compile-time checks.
var (
	_ Invoker = (*Local)(nil)
	_ Invoker = (*HTTP)(nil)
)
