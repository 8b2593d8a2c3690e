package funnel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reviewhut/reviewhut/forms"
)

// ErrValidationFailed is returned when a transition is blocked by field
// errors. The offending fields are available through Errors / the view.
var ErrValidationFailed = errors.New("funnel: validation failed")

// position is the wizard's tagged state: either "on step N" or "reviewing".
// Reviewing is only reachable from the last step, so the two fields can
// never disagree — reviewing implies step == last.
type position struct {
	step      int
	reviewing bool
}

// Wizard walks a user through a form's ordered steps, applying step-scoped
// validation, and produces a finalized snapshot for submission. One wizard
// owns one snapshot for its whole session; it is not safe for concurrent
// use and expects a single event loop driving it.
type Wizard struct {
	form   forms.FormDefinition
	pos    position
	snap   Snapshot
	errors ErrorMap
}

// NewWizard mounts a wizard over a validated form definition.
func NewWizard(form forms.FormDefinition) (*Wizard, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	normalized := form.Normalized()
	return &Wizard{
		form:   normalized,
		snap:   NewSnapshot(normalized),
		errors: ErrorMap{},
	}, nil
}

// Form returns the mounted form definition.
func (w *Wizard) Form() forms.FormDefinition {
	return w.form
}

// StepIndex returns the current step index.
func (w *Wizard) StepIndex() int {
	return w.pos.step
}

// Reviewing reports whether the wizard is on the review-before-submit stage.
func (w *Wizard) Reviewing() bool {
	return w.pos.reviewing
}

// Snapshot returns a copy of the current field values.
func (w *Wizard) Snapshot() Snapshot {
	return w.snap.Clone()
}

// Errors returns a copy of the current per-field error map.
func (w *Wizard) Errors() ErrorMap {
	return w.errors.Clone()
}

// ChangeField updates one field's value. It always succeeds, and it clears
// any existing error for that field — and only that field. The name must be
// declared by the form; anything else is a wiring bug.
func (w *Wizard) ChangeField(name, value string) {
	if _, ok := w.snap[name]; !ok {
		panic(fmt.Sprintf("funnel: form %s declares no field %q", w.form.ID, name))
	}
	w.snap[name] = value
	delete(w.errors, name)
}

// Advance validates the current step and moves forward: to the next step,
// or to the reviewing stage when the last step passes. On failure the
// wizard stays put, stores the recomputed error map, and returns
// ErrValidationFailed.
func (w *Wizard) Advance() error {
	if w.pos.reviewing {
		panic(fmt.Sprintf("funnel: form %s: advance called while reviewing", w.form.ID))
	}
	errs := ValidateStep(w.form, w.pos.step, w.snap)
	w.errors = errs
	if len(errs) > 0 {
		return ErrValidationFailed
	}
	if w.pos.step == w.form.StepCount()-1 {
		w.pos.reviewing = true
		return nil
	}
	w.pos.step++
	return nil
}

// Retreat moves one step back, floored at the first step. No validation
// runs; retreating never fails. From the reviewing stage it behaves like
// EditFromReview and returns to the last step.
func (w *Wizard) Retreat() {
	if w.pos.reviewing {
		w.pos.reviewing = false
		return
	}
	if w.pos.step > 0 {
		w.pos.step--
	}
}

// EditFromReview leaves the reviewing stage and returns to the last step
// with all field values intact. Calling it outside reviewing is a wiring bug.
func (w *Wizard) EditFromReview() {
	if !w.pos.reviewing {
		panic(fmt.Sprintf("funnel: form %s: edit-from-review called while not reviewing", w.form.ID))
	}
	w.pos.reviewing = false
}

// Finalize re-validates the union of all steps' required fields as a
// defense against stale state, and returns the finalized snapshot when the
// form is complete. Conditionally required fields are re-checked with their
// visibility conditions evaluated against the final snapshot. If anything
// is missing, the wizard leaves reviewing, jumps to the earliest step that
// declares the first missing field (declaration order), and returns
// ErrValidationFailed. Only callable while reviewing.
func (w *Wizard) Finalize() (Snapshot, error) {
	if !w.pos.reviewing {
		panic(fmt.Sprintf("funnel: form %s: finalize called while not reviewing", w.form.ID))
	}
	missing := ErrorMap{}
	first := ""
	for _, name := range w.form.FieldNames() {
		field, _ := w.form.Field(name)
		if !field.Required || !field.Visible(w.snap) {
			continue
		}
		if strings.TrimSpace(w.snap[name]) == "" {
			missing[name] = requiredMessage
			if first == "" {
				first = name
			}
		}
	}
	w.errors = missing
	if len(missing) > 0 {
		w.pos.reviewing = false
		w.pos.step = w.form.StepOf(first)
		return nil, ErrValidationFailed
	}
	return w.snap.Clone(), nil
}

// Restore rehydrates wizard state from a persisted session. Unknown fields
// in values are rejected rather than silently dropped, and the position
// must satisfy the reviewing-implies-last-step invariant.
func (w *Wizard) Restore(step int, reviewing bool, values map[string]string) error {
	if step < 0 || step >= w.form.StepCount() {
		return fmt.Errorf("funnel: restore: step %d out of range for form %s", step, w.form.ID)
	}
	if reviewing && step != w.form.StepCount()-1 {
		return fmt.Errorf("funnel: restore: reviewing requires the last step, got %d", step)
	}
	for name := range values {
		if _, ok := w.snap[name]; !ok {
			return fmt.Errorf("funnel: restore: form %s declares no field %q", w.form.ID, name)
		}
	}
	for name, value := range values {
		w.snap[name] = value
	}
	w.pos = position{step: step, reviewing: reviewing}
	w.errors = ErrorMap{}
	return nil
}
