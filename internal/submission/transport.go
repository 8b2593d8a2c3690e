package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultFailureMessage = "Failed to submit form"

// TransportError carries a human-readable rejection reason extracted from
// the server's response body. Any other error from a transport is treated
// as opaque and surfaced with a generic message.
type TransportError struct {
	Message string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("submission: rejected: %s", e.Message)
}

// Transport delivers a finalized payload to the intake backend. The raw
// success body is returned so callers can keep it as an opaque receipt.
type Transport interface {
	Send(ctx context.Context, payload map[string]string) (json.RawMessage, error)
}

// HTTPTransport posts intake payloads as JSON to a fixed endpoint. Timeout
// policy lives here: the wrapped client's timeout (or the caller's context)
// bounds the request, and a timeout surfaces as an ordinary failure.
type HTTPTransport struct {
	endpoint string
	client   *http.Client
}

// NewHTTPTransport builds a transport for the given endpoint.
func NewHTTPTransport(endpoint string, timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPTransport{
		endpoint: strings.TrimSpace(endpoint),
		client:   &http.Client{Timeout: timeout},
	}
}

// Send implements Transport.
func (t *HTTPTransport) Send(ctx context.Context, payload map[string]string) (json.RawMessage, error) {
	if t.endpoint == "" {
		return nil, fmt.Errorf("submission: endpoint is not configured")
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("submission: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("submission: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submission: post intake: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("submission: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{Message: extractMessage(body)}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("submission: response is not valid JSON")
	}
	return json.RawMessage(body), nil
}

// extractMessage pulls a human-readable reason out of an error body: a JSON
// "message" or "error" field when present, the verbatim text otherwise.
func extractMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return defaultFailureMessage
	}
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if msg := strings.TrimSpace(parsed.Message); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(parsed.Error); msg != "" {
			return msg
		}
		return defaultFailureMessage
	}
	return trimmed
}
