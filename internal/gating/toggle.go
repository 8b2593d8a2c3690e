package gating

import "fmt"

// DisablePrompt is the confirmation question shown before gating is turned
// off. Suppressing the gate sends every rating to the external site, so the
// destructive direction always asks first.
const DisablePrompt = "Are you sure you want to disable review gating? " +
	"All customers will be directed to leave public reviews regardless of their rating."

// Toggle guards the gating enabled flag. Turning gating off must pass
// through RequestDisable → ConfirmDisable; turning it on is immediate.
type Toggle struct {
	settings       Settings
	pendingDisable bool
}

// NewToggle wraps the given settings, applying the default threshold.
func NewToggle(settings Settings) *Toggle {
	settings.RatingThreshold = settings.threshold()
	return &Toggle{settings: settings}
}

// Settings returns the current settings.
func (t *Toggle) Settings() Settings {
	return t.settings
}

// ConfirmationPending reports whether a disable request awaits confirmation.
func (t *Toggle) ConfirmationPending() bool {
	return t.pendingDisable
}

// Enable turns gating on. No confirmation is needed in this direction.
func (t *Toggle) Enable() {
	t.settings.Enabled = true
	t.pendingDisable = false
}

// RequestDisable opens a pending disable that must be confirmed before the
// flag changes. Reports whether a confirmation is now pending.
func (t *Toggle) RequestDisable() bool {
	if !t.settings.Enabled {
		return false
	}
	t.pendingDisable = true
	return true
}

// ConfirmDisable applies a pending disable request.
func (t *Toggle) ConfirmDisable() error {
	if !t.pendingDisable {
		return fmt.Errorf("gating: no disable request is pending")
	}
	t.settings.Enabled = false
	t.pendingDisable = false
	return nil
}

// CancelDisable abandons a pending disable request; gating stays enabled.
func (t *Toggle) CancelDisable() {
	t.pendingDisable = false
}

// Flip toggles the enabled flag the way a switch widget does: enabling is
// immediate, disabling routes through the host confirmer.
func (t *Toggle) Flip(confirm Confirmer) {
	if !t.settings.Enabled {
		t.Enable()
		return
	}
	if !t.RequestDisable() {
		return
	}
	if confirm != nil && confirm.Confirm(DisablePrompt) {
		_ = t.ConfirmDisable()
		return
	}
	t.CancelDisable()
}

// ViewModel is the read model the host layer draws the review funnel from.
type ViewModel struct {
	Action              Action
	FeedbackRequired    bool
	ConfirmationPending bool
}

// View assembles the gating read model for a session and toggle.
func View(session *Session, toggle *Toggle) ViewModel {
	action := session.Decide(toggle.Settings())
	return ViewModel{
		Action:              action,
		FeedbackRequired:    action == ActionCollectFeedback,
		ConfirmationPending: toggle.ConfirmationPending(),
	}
}
