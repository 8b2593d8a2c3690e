package funnel

import "github.com/reviewhut/reviewhut/forms"

// FieldView is one renderable field: its definition plus live value/error.
type FieldView struct {
	Definition forms.FieldDefinition
	Value      string
	Error      string
}

// SummaryEntry is one filled-in field shown on the review stage.
type SummaryEntry struct {
	Name  string
	Label string
	Value string
}

// View is the read model the host rendering layer draws from. It carries
// everything a host needs to paint the current stage without reaching into
// wizard internals.
type View struct {
	FormID     string
	StepIndex  int
	StepCount  int
	StepTitle  string
	Fields     []FieldView
	Summary    []SummaryEntry
	CanGoBack  bool
	IsLastStep bool
	Reviewing  bool
}

// View assembles the current read model. Visibility conditions are
// re-evaluated against the live snapshot on every call, so conditional
// fields appear and disappear in lockstep with what validation will require.
func (w *Wizard) View() View {
	view := View{
		FormID:     w.form.ID,
		StepIndex:  w.pos.step,
		StepCount:  w.form.StepCount(),
		StepTitle:  w.form.Steps[w.pos.step].Title,
		CanGoBack:  w.pos.step > 0 || w.pos.reviewing,
		IsLastStep: w.pos.step == w.form.StepCount()-1,
		Reviewing:  w.pos.reviewing,
	}
	if w.pos.reviewing {
		view.Summary = w.summary()
		return view
	}
	for _, field := range w.form.Steps[w.pos.step].Fields {
		if !field.Visible(w.snap) {
			continue
		}
		view.Fields = append(view.Fields, FieldView{
			Definition: field,
			Value:      w.snap[field.Name],
			Error:      w.errors[field.Name],
		})
	}
	return view
}

// summary lists every visible, non-empty field in declaration order.
func (w *Wizard) summary() []SummaryEntry {
	var entries []SummaryEntry
	for _, name := range w.form.FieldNames() {
		field, _ := w.form.Field(name)
		value := w.snap[name]
		if value == "" || !field.Visible(w.snap) {
			continue
		}
		entries = append(entries, SummaryEntry{Name: name, Label: field.Label, Value: value})
	}
	return entries
}
