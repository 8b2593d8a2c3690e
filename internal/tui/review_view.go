package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/reviewhut/reviewhut/internal/gating"
)

var (
	starFilledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
	starEmptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
	welcomeStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#CCCCCC"))
)

type reviewFocus int

const (
	focusStars reviewFocus = iota
	focusFeedback
)

// reviewView previews the customer-facing rating funnel using the project's
// live gating settings.
type reviewView struct {
	app      *App
	session  *gating.Session
	feedback textarea.Model
	focus    reviewFocus
	notice   string
}

func newReviewView(app *App) *reviewView {
	feedback := textarea.New()
	feedback.Placeholder = "Tell us what went wrong…"
	feedback.SetHeight(4)
	return &reviewView{
		app:      app,
		session:  gating.NewSession(),
		feedback: feedback,
	}
}

func (v *reviewView) settings() gating.Settings {
	return v.app.config.GatingSettings()
}

func (v *reviewView) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if v.focus == focusFeedback {
			var cmd tea.Cmd
			v.feedback, cmd = v.feedback.Update(msg)
			return cmd
		}
		return nil
	}

	if v.focus == focusFeedback {
		return v.handleFeedbackKey(key)
	}
	return v.handleStarsKey(key)
}

func (v *reviewView) handleStarsKey(msg tea.KeyMsg) tea.Cmd {
	v.notice = ""
	switch key := msg.String(); key {
	case "1", "2", "3", "4", "5":
		stars := int(key[0] - '0')
		if err := v.session.SelectRating(stars); err != nil {
			v.notice = err.Error()
			return nil
		}
		v.app.logInfo("Funnel · rating %d selected", stars)
		return nil
	case "left", "h":
		v.adjustRating(-1)
		return nil
	case "right", "l":
		v.adjustRating(1)
		return nil
	case "tab":
		if v.session.Decide(v.settings()) == gating.ActionCollectFeedback {
			v.focus = focusFeedback
			v.feedback.Focus()
			return textarea.Blink
		}
		return nil
	case "enter":
		return v.complete()
	}
	return nil
}

func (v *reviewView) handleFeedbackKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab":
		v.focus = focusStars
		v.feedback.Blur()
		v.session.SetFeedback(v.feedback.Value())
		return nil
	case "ctrl+s":
		v.session.SetFeedback(v.feedback.Value())
		if err := v.session.SubmitFeedback(v.settings()); err != nil {
			v.notice = err.Error()
			return nil
		}
		v.focus = focusStars
		v.feedback.Blur()
		v.app.logInfo("Funnel · private feedback captured")
		return nil
	}
	var cmd tea.Cmd
	v.feedback, cmd = v.feedback.Update(msg)
	return cmd
}

func (v *reviewView) adjustRating(delta int) {
	current := v.session.State().SelectedRating
	next := current + delta
	if current == 0 && delta > 0 {
		next = 1
	}
	if next < 1 || next > 5 {
		return
	}
	if err := v.session.SelectRating(next); err != nil {
		v.notice = err.Error()
	}
}

func (v *reviewView) complete() tea.Cmd {
	settings := v.settings()
	switch v.session.Decide(settings) {
	case gating.ActionAllowExternalRedirect:
		if err := v.session.Complete(settings, v.app.navigator); err != nil {
			v.notice = err.Error()
			v.app.logError("Funnel · redirect failed: %v", err)
			return nil
		}
		v.notice = "Opened " + settings.ExternalReviewURL
		v.app.logInfo("Funnel · redirected to external review site")
	case gating.ActionCollectFeedback:
		v.focus = focusFeedback
		v.feedback.Focus()
		return textarea.Blink
	case gating.ActionAcknowledgeFeedback:
		// Terminal; nothing left to do.
	default:
		v.notice = "Select a rating first"
	}
	return nil
}

func (v *reviewView) View() string {
	settings := v.settings()
	state := v.session.State()
	welcome := v.app.config.Project.Business.WelcomeText
	lines := []string{welcomeStyle.Render(welcome), "", v.renderStars(state.SelectedRating), ""}

	switch v.session.Decide(settings) {
	case gating.ActionAwaitRating:
		lines = append(lines, "Tap a star to rate your experience.")
		lines = append(lines, hintStyle.Render("1-5 → rate    esc → menu"))
	case gating.ActionAllowExternalRedirect:
		lines = append(lines, "Thanks! Would you mind sharing that on our public review page?")
		lines = append(lines, hintStyle.Render("enter → open review site    1-5 → re-rate    esc → menu"))
	case gating.ActionCollectFeedback:
		lines = append(lines, "We're sorry to hear that. What could we do better?")
		lines = append(lines, "", v.feedback.View())
		if v.focus == focusFeedback {
			lines = append(lines, hintStyle.Render("ctrl+s → send feedback    tab → back to stars"))
		} else {
			lines = append(lines, hintStyle.Render("tab → write feedback    1-5 → re-rate    esc → menu"))
		}
	case gating.ActionAcknowledgeFeedback:
		lines = append(lines, successStyle.Render("✓ Thank you — your feedback went straight to the owner."))
		lines = append(lines, hintStyle.Render("1-5 → re-rate    esc → menu"))
	}

	if v.notice != "" {
		lines = append(lines, "", hintStyle.Render(v.notice))
	}
	return strings.Join(lines, "\n")
}

func (v *reviewView) renderStars(selected int) string {
	parts := make([]string, 0, 5)
	for i := 1; i <= 5; i++ {
		if i <= selected {
			parts = append(parts, starFilledStyle.Render("★"))
		} else {
			parts = append(parts, starEmptyStyle.Render("☆"))
		}
	}
	label := ""
	if selected > 0 {
		label = fmt.Sprintf("  %d/5", selected)
	}
	return strings.Join(parts, " ") + label
}
