// Package gating implements the review-gating funnel: a star rating either
// unlocks the external review site or routes the customer into a private
// feedback form, depending on the configured threshold. The engine never
// touches a browser or a dialog itself — it calls through the Navigator and
// Confirmer capabilities the host provides.
package gating

import (
	"fmt"
	"strings"
)

// Action enumerates what the review funnel should do next.
type Action string

const (
	// ActionAwaitRating means no rating has been selected yet.
	ActionAwaitRating Action = "await-rating"
	// ActionCollectFeedback withholds the external site until the customer
	// leaves private feedback.
	ActionCollectFeedback Action = "collect-feedback"
	// ActionAllowExternalRedirect permits opening the external review site.
	ActionAllowExternalRedirect Action = "redirect-external"
	// ActionAcknowledgeFeedback is the internal terminal for the low-rating
	// path after feedback lands. That path never reaches the external site.
	ActionAcknowledgeFeedback Action = "acknowledge-feedback"
)

// DefaultRatingThreshold is the highest rating still routed to feedback
// while gating is enabled.
const DefaultRatingThreshold = 3

// Settings holds the session-scoped gating configuration.
type Settings struct {
	Enabled           bool
	RatingThreshold   int
	ExternalReviewURL string
}

func (s Settings) threshold() int {
	if s.RatingThreshold <= 0 {
		return DefaultRatingThreshold
	}
	return s.RatingThreshold
}

// State is one customer's progress through the review funnel.
type State struct {
	SelectedRating    int // 0 = unset, otherwise 1..5
	FeedbackText      string
	FeedbackSubmitted bool
}

// Navigator opens an external URL on behalf of the engine.
type Navigator interface {
	OpenURL(url string) error
}

// Confirmer asks the user a yes/no question on behalf of the engine.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Decide maps the current state and settings to the next funnel action.
func Decide(state State, settings Settings) Action {
	switch {
	case state.SelectedRating == 0:
		return ActionAwaitRating
	case !settings.Enabled:
		return ActionAllowExternalRedirect
	case state.SelectedRating > settings.threshold():
		return ActionAllowExternalRedirect
	case state.FeedbackSubmitted:
		return ActionAcknowledgeFeedback
	default:
		return ActionCollectFeedback
	}
}

// Session owns one customer's gating state. Like the wizard, it expects a
// single event loop and is not safe for concurrent use.
type Session struct {
	state State
}

// NewSession starts a fresh review funnel session.
func NewSession() *Session {
	return &Session{}
}

// State returns a copy of the session state.
func (s *Session) State() State {
	return s.state
}

// SelectRating records a 1..5 star rating. Re-rating discards a stale
// feedback-submitted flag so the funnel re-decides from scratch.
func (s *Session) SelectRating(stars int) error {
	if stars < 1 || stars > 5 {
		return fmt.Errorf("gating: rating must be between 1 and 5, got %d", stars)
	}
	s.state.SelectedRating = stars
	s.state.FeedbackSubmitted = false
	return nil
}

// SetFeedback updates the draft feedback text.
func (s *Session) SetFeedback(text string) {
	s.state.FeedbackText = text
}

// SubmitFeedback marks the private feedback as submitted. It requires the
// funnel to actually be collecting feedback and a non-empty message.
func (s *Session) SubmitFeedback(settings Settings) error {
	if Decide(s.state, settings) != ActionCollectFeedback {
		return fmt.Errorf("gating: feedback is not being collected for rating %d", s.state.SelectedRating)
	}
	if strings.TrimSpace(s.state.FeedbackText) == "" {
		return fmt.Errorf("gating: feedback text is required")
	}
	s.state.FeedbackSubmitted = true
	return nil
}

// Decide returns the next action for this session under the given settings.
func (s *Session) Decide(settings Settings) Action {
	return Decide(s.state, settings)
}

// Complete performs the terminal action. For the redirect path it opens the
// external review URL through the host navigator; for the acknowledged
// feedback path it is an internal no-op. Any other state is not terminal.
func (s *Session) Complete(settings Settings, nav Navigator) error {
	switch action := Decide(s.state, settings); action {
	case ActionAllowExternalRedirect:
		if nav == nil {
			return fmt.Errorf("gating: navigator is required for external redirect")
		}
		return nav.OpenURL(settings.ExternalReviewURL)
	case ActionAcknowledgeFeedback:
		return nil
	default:
		return fmt.Errorf("gating: funnel is not terminal yet (action %s)", action)
	}
}
