package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/reviewhut/reviewhut/forms"
	"github.com/reviewhut/reviewhut/internal/funnel"
	"github.com/reviewhut/reviewhut/internal/session"
	"github.com/reviewhut/reviewhut/internal/submission"
)

var (
	stepTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	fieldLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
	focusLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F7B801"))
	fieldErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	summaryKeyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
	successStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4CAF50"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).MarginTop(1)
)

// intakeView drives the multi-step business registration wizard.
type intakeView struct {
	app        *App
	wizard     *funnel.Wizard
	controller *submission.Controller
	notifyCh   chan submission.State

	sessionID string
	focus     int
	input     textinput.Model
	area      textarea.Model
	localErr  string
	subState  submission.State
}

type submissionStateMsg struct {
	state submission.State
}

func newIntakeView(app *App, formID string) (*intakeView, error) {
	def, err := app.registry.Resolve(formID)
	if err != nil {
		return nil, err
	}
	wizard, err := funnel.NewWizard(def)
	if err != nil {
		return nil, err
	}

	view := &intakeView{
		app:      app,
		wizard:   wizard,
		notifyCh: make(chan submission.State, 4),
		input:    textinput.New(),
		area:     textarea.New(),
	}
	view.input.CharLimit = 200
	view.area.SetHeight(4)

	if app.transport != nil {
		controller, err := submission.NewController(app.transport,
			submission.WithNotify(func(s submission.State) { view.notifyCh <- s }))
		if err != nil {
			return nil, err
		}
		view.controller = controller
	}

	if app.sessions != nil {
		if state, err := app.sessions.Load(); err == nil {
			if rerr := session.Restore(state, wizard); rerr == nil {
				view.sessionID = state.SessionID
				app.logInfo("Intake · resumed session %s at step %d", state.SessionID, state.StepIndex)
			} else {
				app.logWarn("Intake · stale session dropped: %v", rerr)
				_ = app.sessions.Clear()
			}
		} else if !errors.Is(err, session.ErrNotFound) {
			app.logWarn("Intake · session load failed: %v", err)
		}
	}

	view.mountFocusedField()
	return view, nil
}

func (v *intakeView) Init() tea.Cmd {
	return textinput.Blink
}

func (v *intakeView) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case submissionStateMsg:
		v.subState = m.state
		switch m.state.Status {
		case submission.StatusSucceeded:
			v.app.logInfo("Intake · submission succeeded")
			v.clearSession()
			return nil
		case submission.StatusFailed:
			v.app.logError("Intake · submission failed: %s", m.state.ErrorMessage)
			return nil
		}
		return v.awaitSubmission()
	case tea.KeyMsg:
		return v.handleKey(m)
	}
	return v.updateWidget(msg)
}

func (v *intakeView) handleKey(msg tea.KeyMsg) tea.Cmd {
	v.localErr = ""
	if v.subState.Status == submission.StatusSubmitting {
		// Input is frozen while a submission is in flight.
		return nil
	}
	if v.subState.Status == submission.StatusSucceeded {
		return nil
	}

	if v.wizard.Reviewing() {
		return v.handleReviewKey(msg)
	}

	switch msg.String() {
	case "enter":
		v.commitFocusedField()
		fields := v.visibleFields()
		if v.focus < len(fields)-1 {
			v.focus++
			v.mountFocusedField()
			return textinput.Blink
		}
		return v.advanceStep()
	case "tab", "down":
		if v.focusedKindIsTextarea() {
			break
		}
		v.commitFocusedField()
		fields := v.visibleFields()
		if len(fields) > 0 {
			v.focus = (v.focus + 1) % len(fields)
		}
		v.mountFocusedField()
		return textinput.Blink
	case "shift+tab", "up":
		v.commitFocusedField()
		if v.focus > 0 {
			v.focus--
		}
		v.mountFocusedField()
		return textinput.Blink
	case "left", "right":
		if field, ok := v.focusedField(); ok && field.Definition.Kind == forms.KindSelect {
			v.cycleOption(field, msg.String() == "right")
			return nil
		}
	case "ctrl+b":
		v.commitFocusedField()
		v.wizard.Retreat()
		v.focus = 0
		v.mountFocusedField()
		v.saveSession()
		return nil
	}
	return v.updateWidget(msg)
}

func (v *intakeView) handleReviewKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "e", "ctrl+b":
		v.wizard.EditFromReview()
		v.focus = 0
		v.mountFocusedField()
		v.saveSession()
		return textinput.Blink
	case "enter":
		return v.submit()
	}
	return nil
}

func (v *intakeView) advanceStep() tea.Cmd {
	if err := v.wizard.Advance(); err != nil {
		v.focusFirstError()
		return nil
	}
	v.focus = 0
	v.mountFocusedField()
	v.saveSession()
	return textinput.Blink
}

func (v *intakeView) submit() tea.Cmd {
	snap, err := v.wizard.Finalize()
	if err != nil {
		// The sweep jumped back to the earliest incomplete step.
		v.app.logWarn("Intake · review sweep found missing fields")
		v.focusFirstError()
		v.saveSession()
		return textinput.Blink
	}
	if v.controller == nil {
		v.localErr = "Configure api.endpoint in .reviewhut/config.yaml to submit"
		return nil
	}
	if !v.controller.Submit(context.Background(), snap) {
		return nil
	}
	v.subState = v.controller.State()
	v.app.logInfo("Intake · submitting business %q", snap["businessName"])
	return v.awaitSubmission()
}

func (v *intakeView) awaitSubmission() tea.Cmd {
	return func() tea.Msg {
		return submissionStateMsg{state: <-v.notifyCh}
	}
}

// suspend persists the in-progress session when the user leaves the wizard.
func (v *intakeView) suspend() {
	if v.subState.Status == submission.StatusSucceeded {
		return
	}
	if v.controller != nil && v.subState.Status == submission.StatusSubmitting {
		v.controller.Discard()
	}
	if !v.wizard.Reviewing() {
		v.commitFocusedField()
	}
	v.saveSession()
}

func (v *intakeView) saveSession() {
	if v.app.sessions == nil {
		return
	}
	state := session.Capture(v.sessionID, v.wizard)
	v.sessionID = state.SessionID
	if err := v.app.sessions.Save(state); err != nil {
		v.app.logWarn("Intake · session save failed: %v", err)
	}
}

func (v *intakeView) clearSession() {
	if v.app.sessions == nil {
		return
	}
	if err := v.app.sessions.Clear(); err != nil {
		v.app.logWarn("Intake · session clear failed: %v", err)
	}
}

func (v *intakeView) visibleFields() []funnel.FieldView {
	return v.wizard.View().Fields
}

func (v *intakeView) focusedField() (funnel.FieldView, bool) {
	fields := v.visibleFields()
	if v.focus < 0 || v.focus >= len(fields) {
		return funnel.FieldView{}, false
	}
	return fields[v.focus], true
}

func (v *intakeView) focusedKindIsTextarea() bool {
	field, ok := v.focusedField()
	return ok && field.Definition.Kind == forms.KindTextarea
}

// mountFocusedField loads the focused field's current value into the right
// input widget.
func (v *intakeView) mountFocusedField() {
	fields := v.visibleFields()
	if len(fields) == 0 {
		return
	}
	if v.focus >= len(fields) {
		v.focus = len(fields) - 1
	}
	field := fields[v.focus]
	switch field.Definition.Kind {
	case forms.KindTextarea:
		v.area.SetValue(field.Value)
		v.area.Placeholder = field.Definition.Placeholder
		v.area.Focus()
		v.input.Blur()
	case forms.KindSelect:
		v.input.Blur()
		v.area.Blur()
	default:
		v.input.SetValue(field.Value)
		v.input.Placeholder = field.Definition.Placeholder
		v.input.Focus()
		v.area.Blur()
	}
}

// commitFocusedField writes the active widget's value back to the wizard.
func (v *intakeView) commitFocusedField() {
	field, ok := v.focusedField()
	if !ok {
		return
	}
	switch field.Definition.Kind {
	case forms.KindTextarea:
		v.wizard.ChangeField(field.Definition.Name, v.area.Value())
	case forms.KindSelect:
		// Select values are committed as they are cycled.
	default:
		v.wizard.ChangeField(field.Definition.Name, v.input.Value())
	}
}

func (v *intakeView) cycleOption(field funnel.FieldView, forward bool) {
	options := field.Definition.Options
	if len(options) == 0 {
		return
	}
	current := -1
	for i, opt := range options {
		if opt == field.Value {
			current = i
			break
		}
	}
	var next int
	if forward {
		next = (current + 1) % len(options)
	} else {
		next = current - 1
		if next < 0 {
			next = len(options) - 1
		}
	}
	v.wizard.ChangeField(field.Definition.Name, options[next])
}

func (v *intakeView) focusFirstError() {
	errs := v.wizard.Errors()
	for i, field := range v.visibleFields() {
		if errs[field.Definition.Name] != "" {
			v.focus = i
			v.mountFocusedField()
			return
		}
	}
	v.focus = 0
	v.mountFocusedField()
}

func (v *intakeView) updateWidget(msg tea.Msg) tea.Cmd {
	field, ok := v.focusedField()
	if !ok || v.wizard.Reviewing() {
		return nil
	}
	var cmd tea.Cmd
	switch field.Definition.Kind {
	case forms.KindTextarea:
		v.area, cmd = v.area.Update(msg)
	case forms.KindSelect:
		return nil
	default:
		v.input, cmd = v.input.Update(msg)
	}
	return cmd
}

func (v *intakeView) View() string {
	if v.wizard.Reviewing() {
		return v.renderReview()
	}
	view := v.wizard.View()
	title := stepTitleStyle.Render(fmt.Sprintf("Step %d of %d · %s", view.StepIndex+1, view.StepCount, view.StepTitle))
	lines := []string{title, ""}
	for i, field := range view.Fields {
		lines = append(lines, v.renderField(field, i == v.focus))
	}
	if v.localErr != "" {
		lines = append(lines, "", fieldErrorStyle.Render(v.localErr))
	}
	hint := "enter → next    tab → next field    ctrl+b → back    esc → menu"
	if !view.CanGoBack {
		hint = "enter → next    tab → next field    esc → menu"
	}
	lines = append(lines, hintStyle.Render(hint))
	return strings.Join(lines, "\n")
}

func (v *intakeView) renderField(field funnel.FieldView, focused bool) string {
	label := field.Definition.Label
	if field.Definition.Required {
		label += " *"
	}
	styled := fieldLabelStyle.Render(label)
	if focused {
		styled = focusLabelStyle.Render("› " + label)
	}

	var value string
	switch field.Definition.Kind {
	case forms.KindTextarea:
		if focused {
			value = v.area.View()
		} else {
			value = field.Value
		}
	case forms.KindSelect:
		value = renderOptions(field, focused)
	default:
		if focused {
			value = v.input.View()
		} else {
			value = field.Value
		}
	}

	line := fmt.Sprintf("%s\n  %s", styled, value)
	if field.Error != "" {
		line += "\n  " + fieldErrorStyle.Render(field.Error)
	}
	return line
}

func renderOptions(field funnel.FieldView, focused bool) string {
	parts := make([]string, 0, len(field.Definition.Options))
	for _, opt := range field.Definition.Options {
		if opt == field.Value {
			parts = append(parts, fmt.Sprintf("[%s]", opt))
		} else {
			parts = append(parts, opt)
		}
	}
	rendered := strings.Join(parts, "  ")
	if focused {
		rendered += "  ← → to change"
	}
	return rendered
}

func (v *intakeView) renderReview() string {
	view := v.wizard.View()
	lines := []string{stepTitleStyle.Render("Review your details"), ""}
	for _, entry := range view.Summary {
		lines = append(lines, fmt.Sprintf("%s %s", summaryKeyStyle.Render(entry.Label+":"), entry.Value))
	}
	lines = append(lines, "")

	switch v.subState.Status {
	case submission.StatusSubmitting:
		lines = append(lines, "Submitting…")
	case submission.StatusSucceeded:
		lines = append(lines, successStyle.Render("✓ Business registered"))
		if link := v.app.config.Project.Business.ReviewLinkURL; link != "" {
			lines = append(lines, fmt.Sprintf("Share link: %s", link))
		}
		lines = append(lines, hintStyle.Render("esc → menu"))
	case submission.StatusFailed:
		lines = append(lines, fieldErrorStyle.Render("✗ "+v.subState.ErrorMessage))
		lines = append(lines, hintStyle.Render("enter → retry    e → edit    esc → menu"))
	default:
		if v.localErr != "" {
			lines = append(lines, fieldErrorStyle.Render(v.localErr))
		}
		lines = append(lines, hintStyle.Render("enter → submit    e → edit    esc → menu"))
	}
	return strings.Join(lines, "\n")
}
