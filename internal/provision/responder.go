// Package provision delivers seeding outcomes to the external provisioning
// system.
package provision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/serroba/trending-go/internal/trending"
	"go.uber.org/zap"
)

// HTTPResponder PUTs the provisioning outcome as JSON to a pre-signed
// callback URL.
type HTTPResponder struct {
	url    string
	client *http.Client
}

// NewHTTPResponder creates a responder for the given callback URL. A nil
// client falls back to http.DefaultClient.
func NewHTTPResponder(url string, client *http.Client) *HTTPResponder {
	if client == nil {
		client = http.DefaultClient
	}

	return &HTTPResponder{url: url, client: client}
}

func (r *HTTPResponder) Respond(ctx context.Context, outcome trending.ProvisioningOutcome) error {
	body, err := json.Marshal(outcome)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, r.url, bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("provisioning callback replied %d", resp.StatusCode)
	}

	return nil
}

// LogResponder records the outcome in the service log. Used when no
// callback URL is configured.
type LogResponder struct {
	logger *zap.Logger
}

// NewLogResponder creates a log-backed responder.
func NewLogResponder(logger *zap.Logger) *LogResponder {
	return &LogResponder{logger: logger}
}

func (r *LogResponder) Respond(_ context.Context, outcome trending.ProvisioningOutcome) error {
	r.logger.Info("provisioning outcome",
		zap.String("request_id", outcome.RequestID),
		zap.String("status", outcome.Status),
		zap.String("message", outcome.Message),
	)

	return nil
}

// Compile-time checks.
var (
	_ trending.Responder = (*HTTPResponder)(nil)
	_ trending.Responder = (*LogResponder)(nil)
)
