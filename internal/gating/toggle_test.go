package gating

import "testing"

type fakeConfirmer struct {
	answer  bool
	prompts []string
}

func (f *fakeConfirmer) Confirm(prompt string) bool {
	f.prompts = append(f.prompts, prompt)
	return f.answer
}

func TestDisableRequiresConfirmation(t *testing.T) {
	toggle := NewToggle(Settings{Enabled: true})
	if !toggle.RequestDisable() {
		t.Fatalf("expected disable request to open a pending confirmation")
	}
	if !toggle.Settings().Enabled {
		t.Fatalf("gating must stay enabled until the request is confirmed")
	}
	if !toggle.ConfirmationPending() {
		t.Fatalf("expected pending confirmation")
	}
	if err := toggle.ConfirmDisable(); err != nil {
		t.Fatalf("confirm disable: %v", err)
	}
	if toggle.Settings().Enabled {
		t.Fatalf("gating should be disabled after confirmation")
	}
	if toggle.ConfirmationPending() {
		t.Fatalf("pending flag must clear after confirmation")
	}
}

func TestCancelDisableKeepsGatingEnabled(t *testing.T) {
	toggle := NewToggle(Settings{Enabled: true})
	toggle.RequestDisable()
	toggle.CancelDisable()
	if !toggle.Settings().Enabled {
		t.Fatalf("cancelled disable must leave gating enabled")
	}
	if toggle.ConfirmationPending() {
		t.Fatalf("pending flag must clear after cancel")
	}
	if err := toggle.ConfirmDisable(); err == nil {
		t.Fatalf("confirm without a pending request must fail")
	}
}

func TestEnableIsImmediate(t *testing.T) {
	toggle := NewToggle(Settings{Enabled: false})
	if toggle.RequestDisable() {
		t.Fatalf("disable request on a disabled toggle should be a no-op")
	}
	toggle.Enable()
	if !toggle.Settings().Enabled {
		t.Fatalf("enable should apply without confirmation")
	}
}

func TestFlipRoutesDisableThroughConfirmer(t *testing.T) {
	confirm := &fakeConfirmer{answer: false}
	toggle := NewToggle(Settings{Enabled: true})

	toggle.Flip(confirm)
	if !toggle.Settings().Enabled {
		t.Fatalf("declined confirmation must leave gating enabled")
	}
	if len(confirm.prompts) != 1 || confirm.prompts[0] != DisablePrompt {
		t.Fatalf("expected the disable prompt, got %v", confirm.prompts)
	}

	confirm.answer = true
	toggle.Flip(confirm)
	if toggle.Settings().Enabled {
		t.Fatalf("accepted confirmation must disable gating")
	}

	// Flipping back on never consults the confirmer.
	before := len(confirm.prompts)
	toggle.Flip(confirm)
	if !toggle.Settings().Enabled {
		t.Fatalf("flip from disabled should enable")
	}
	if len(confirm.prompts) != before {
		t.Fatalf("enable direction must not prompt")
	}
}

func TestViewModel(t *testing.T) {
	toggle := NewToggle(Settings{Enabled: true})
	session := NewSession()

	vm := View(session, toggle)
	if vm.Action != ActionAwaitRating || vm.FeedbackRequired {
		t.Fatalf("unexpected initial view model: %+v", vm)
	}

	if err := session.SelectRating(2); err != nil {
		t.Fatalf("select rating: %v", err)
	}
	vm = View(session, toggle)
	if vm.Action != ActionCollectFeedback || !vm.FeedbackRequired {
		t.Fatalf("expected feedback-required view model, got %+v", vm)
	}

	toggle.RequestDisable()
	vm = View(session, toggle)
	if !vm.ConfirmationPending {
		t.Fatalf("expected pending confirmation surfaced, got %+v", vm)
	}
}
