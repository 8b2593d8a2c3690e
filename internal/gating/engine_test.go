package gating

import (
	"testing"
)

func TestDecide(t *testing.T) {
	enabled := Settings{Enabled: true, RatingThreshold: 3}
	disabled := Settings{Enabled: false, RatingThreshold: 3}

	cases := []struct {
		name     string
		state    State
		settings Settings
		want     Action
	}{
		{"no rating yet", State{}, enabled, ActionAwaitRating},
		{"no rating with gating off", State{}, disabled, ActionAwaitRating},
		{"five stars enabled", State{SelectedRating: 5}, enabled, ActionAllowExternalRedirect},
		{"four stars enabled", State{SelectedRating: 4}, enabled, ActionAllowExternalRedirect},
		{"at threshold collects", State{SelectedRating: 3}, enabled, ActionCollectFeedback},
		{"two stars enabled", State{SelectedRating: 2}, enabled, ActionCollectFeedback},
		{"two stars disabled", State{SelectedRating: 2}, disabled, ActionAllowExternalRedirect},
		{"one star disabled", State{SelectedRating: 1}, disabled, ActionAllowExternalRedirect},
		{"feedback submitted", State{SelectedRating: 2, FeedbackSubmitted: true}, enabled, ActionAcknowledgeFeedback},
		{"default threshold", State{SelectedRating: 3}, Settings{Enabled: true}, ActionCollectFeedback},
		{"custom threshold", State{SelectedRating: 4}, Settings{Enabled: true, RatingThreshold: 4}, ActionCollectFeedback},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Decide(tc.state, tc.settings); got != tc.want {
				t.Fatalf("Decide(%+v, %+v) = %s, want %s", tc.state, tc.settings, got, tc.want)
			}
		})
	}
}

func TestSelectRatingBounds(t *testing.T) {
	s := NewSession()
	for _, bad := range []int{0, -1, 6} {
		if err := s.SelectRating(bad); err == nil {
			t.Fatalf("expected error for rating %d", bad)
		}
	}
	if err := s.SelectRating(4); err != nil {
		t.Fatalf("select rating: %v", err)
	}
	if s.State().SelectedRating != 4 {
		t.Fatalf("rating not recorded: %+v", s.State())
	}
}

func TestReRatingResetsSubmittedFlagButKeepsText(t *testing.T) {
	settings := Settings{Enabled: true}
	s := NewSession()
	if err := s.SelectRating(2); err != nil {
		t.Fatalf("select rating: %v", err)
	}
	s.SetFeedback("slow service")
	if err := s.SubmitFeedback(settings); err != nil {
		t.Fatalf("submit feedback: %v", err)
	}
	if s.Decide(settings) != ActionAcknowledgeFeedback {
		t.Fatalf("expected acknowledge after submission, got %s", s.Decide(settings))
	}

	if err := s.SelectRating(1); err != nil {
		t.Fatalf("re-rate: %v", err)
	}
	state := s.State()
	if state.FeedbackSubmitted {
		t.Fatalf("re-rating must reset the submitted flag")
	}
	if state.FeedbackText != "slow service" {
		t.Fatalf("re-rating must keep the draft text, got %q", state.FeedbackText)
	}
	if s.Decide(settings) != ActionCollectFeedback {
		t.Fatalf("expected funnel to re-collect feedback, got %s", s.Decide(settings))
	}
}

func TestSubmitFeedbackGuards(t *testing.T) {
	settings := Settings{Enabled: true}

	s := NewSession()
	if err := s.SubmitFeedback(settings); err == nil {
		t.Fatalf("submit without a rating must fail")
	}

	if err := s.SelectRating(5); err != nil {
		t.Fatalf("select rating: %v", err)
	}
	s.SetFeedback("great")
	if err := s.SubmitFeedback(settings); err == nil {
		t.Fatalf("submit on the redirect path must fail")
	}

	if err := s.SelectRating(2); err != nil {
		t.Fatalf("select rating: %v", err)
	}
	s.SetFeedback("   ")
	if err := s.SubmitFeedback(settings); err == nil {
		t.Fatalf("submit with blank text must fail")
	}
	s.SetFeedback("slow service")
	if err := s.SubmitFeedback(settings); err != nil {
		t.Fatalf("submit feedback: %v", err)
	}
}

type fakeNavigator struct {
	opened []string
	err    error
}

func (f *fakeNavigator) OpenURL(url string) error {
	f.opened = append(f.opened, url)
	return f.err
}

func TestCompleteRedirectOpensExternalURL(t *testing.T) {
	settings := Settings{Enabled: true, ExternalReviewURL: "https://g.page/r/acme/review"}
	nav := &fakeNavigator{}
	s := NewSession()
	if err := s.SelectRating(5); err != nil {
		t.Fatalf("select rating: %v", err)
	}
	if err := s.Complete(settings, nav); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if len(nav.opened) != 1 || nav.opened[0] != settings.ExternalReviewURL {
		t.Fatalf("expected external URL opened once, got %v", nav.opened)
	}
}

func TestCompleteAcknowledgedFeedbackStaysInternal(t *testing.T) {
	settings := Settings{Enabled: true}
	nav := &fakeNavigator{}
	s := NewSession()
	if err := s.SelectRating(1); err != nil {
		t.Fatalf("select rating: %v", err)
	}
	s.SetFeedback("cold food")
	if err := s.SubmitFeedback(settings); err != nil {
		t.Fatalf("submit feedback: %v", err)
	}
	if err := s.Complete(settings, nav); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if len(nav.opened) != 0 {
		t.Fatalf("low-rating path must never reach the external site: %v", nav.opened)
	}
}

func TestCompleteRejectsNonTerminalStates(t *testing.T) {
	settings := Settings{Enabled: true}
	s := NewSession()
	if err := s.Complete(settings, &fakeNavigator{}); err == nil {
		t.Fatalf("complete before rating must fail")
	}
	if err := s.SelectRating(2); err != nil {
		t.Fatalf("select rating: %v", err)
	}
	if err := s.Complete(settings, &fakeNavigator{}); err == nil {
		t.Fatalf("complete while collecting feedback must fail")
	}
}
