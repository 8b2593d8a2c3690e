// Package submission owns the asynchronous submit side effect at the end of
// an intake funnel: it tracks exactly one submission status per session,
// enforces at-most-one in-flight request, and reports outcomes as data so
// the host can render them without a crash boundary.
package submission

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/reviewhut/reviewhut/internal/funnel"
)

// Status enumerates submission lifecycle phases.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

const genericFailureMessage = "An unknown error occurred"

// State is the submission read model surfaced to the host layer.
type State struct {
	Status       Status
	ErrorMessage string
	Result       json.RawMessage
}

// Option customizes a controller.
type Option func(*Controller)

// WithNotify registers a callback invoked once per attempt when it reaches a
// terminal state. Detached attempts (see Discard) never notify.
func WithNotify(notify func(State)) Option {
	return func(c *Controller) {
		if notify != nil {
			c.notify = notify
		}
	}
}

// Controller drives one funnel session's submission. The status moves to
// submitting synchronously inside Submit, before any transport work, so the
// caller can disable its submit affordance immediately.
type Controller struct {
	mu        sync.Mutex
	transport Transport
	notify    func(State)
	state     State
	attempt   int
}

// NewController wires a controller to a transport.
func NewController(transport Transport, opts ...Option) (*Controller, error) {
	if transport == nil {
		return nil, errors.New("submission: transport is required")
	}
	c := &Controller{
		transport: transport,
		state:     State{Status: StatusIdle},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// State returns the current submission state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit starts delivering the finalized snapshot. It reports false without
// side effects while an attempt is in flight or after success; after a
// failure it re-enters submitting. Retries are never automatic — every call
// here is user-initiated.
func (c *Controller) Submit(ctx context.Context, snap funnel.Snapshot) bool {
	c.mu.Lock()
	if c.state.Status == StatusSubmitting || c.state.Status == StatusSucceeded {
		c.mu.Unlock()
		return false
	}
	c.state = State{Status: StatusSubmitting}
	c.attempt++
	attempt := c.attempt
	payload := BuildPayload(snap)
	c.mu.Unlock()

	go c.deliver(ctx, attempt, payload)
	return true
}

// Discard detaches any in-flight attempt and resets the controller. The
// late transport result, if one ever arrives, is dropped on the floor —
// this is the teardown-mid-submission policy.
func (c *Controller) Discard() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attempt++
	c.state = State{Status: StatusIdle}
}

func (c *Controller) deliver(ctx context.Context, attempt int, payload map[string]string) {
	result, err := c.transport.Send(ctx, payload)

	c.mu.Lock()
	if attempt != c.attempt {
		// A newer attempt or a Discard superseded this delivery.
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.state = State{Status: StatusFailed, ErrorMessage: failureMessage(err)}
	} else {
		c.state = State{Status: StatusSucceeded, Result: result}
	}
	state := c.state
	notify := c.notify
	c.mu.Unlock()

	if notify != nil {
		notify(state)
	}
}

// BuildPayload converts a finalized snapshot into the wire payload. The one
// transformation: when businessType is "Other", the submitted businessType
// becomes the customBusinessType value.
func BuildPayload(snap funnel.Snapshot) map[string]string {
	payload := make(map[string]string, len(snap))
	for name, value := range snap {
		payload[name] = value
	}
	if payload["businessType"] == "Other" {
		if custom := payload["customBusinessType"]; custom != "" {
			payload["businessType"] = custom
		}
	}
	return payload
}

func failureMessage(err error) string {
	var rejected *TransportError
	if errors.As(err, &rejected) && rejected.Message != "" {
		return rejected.Message
	}
	return genericFailureMessage
}
