package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/reviewhut/reviewhut/internal/gating"
	"github.com/reviewhut/reviewhut/internal/linkgen"
)

var (
	settingOnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4CAF50"))
	settingOffStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	promptBoxStyle  = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#F7B801")).
			Padding(1, 2)
)

// settingsView manages the gating toggle, the shareable review link and the
// social preview title.
type settingsView struct {
	app          *App
	toggle       *gating.Toggle
	titleInput   textinput.Model
	editingTitle bool
	notice       string
}

func newSettingsView(app *App) *settingsView {
	input := textinput.New()
	input.CharLimit = 120
	return &settingsView{
		app:        app,
		toggle:     gating.NewToggle(app.config.GatingSettings()),
		titleInput: input,
	}
}

// capturesEsc reports whether esc should cancel an in-view interaction
// instead of leaving the settings screen.
func (v *settingsView) capturesEsc() bool {
	return v.editingTitle || v.toggle.ConfirmationPending()
}

func (v *settingsView) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if v.editingTitle {
			var cmd tea.Cmd
			v.titleInput, cmd = v.titleInput.Update(msg)
			return cmd
		}
		return nil
	}

	if v.toggle.ConfirmationPending() {
		return v.handleConfirmKey(key)
	}
	if v.editingTitle {
		return v.handleTitleKey(key)
	}

	v.notice = ""
	switch key.String() {
	case "g":
		return v.flipGating()
	case "r":
		return v.regenerateLink()
	case "t":
		v.editingTitle = true
		v.titleInput.SetValue(v.app.config.Project.Business.SocialPreviewTitle)
		v.titleInput.Focus()
		return textinput.Blink
	}
	return nil
}

func (v *settingsView) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y", "enter":
		if err := v.toggle.ConfirmDisable(); err != nil {
			v.notice = err.Error()
			return nil
		}
		if err := v.app.config.SetGatingEnabled(false); err != nil {
			v.notice = fmt.Sprintf("Save failed: %v", err)
			v.toggle.Enable()
			return nil
		}
		v.notice = "Review gating disabled"
		v.app.logWarn("Settings · review gating disabled")
	case "n", "N", "esc":
		v.toggle.CancelDisable()
		v.notice = "Gating left enabled"
	}
	return nil
}

func (v *settingsView) handleTitleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		title := v.titleInput.Value()
		if err := v.app.config.SetSocialPreviewTitle(title); err != nil {
			v.notice = fmt.Sprintf("Save failed: %v", err)
		} else {
			v.notice = "Preview title updated"
			v.app.logInfo("Settings · social preview title updated")
		}
		v.editingTitle = false
		v.titleInput.Blur()
		return nil
	case "esc":
		v.editingTitle = false
		v.titleInput.Blur()
		return nil
	}
	var cmd tea.Cmd
	v.titleInput, cmd = v.titleInput.Update(msg)
	return cmd
}

func (v *settingsView) flipGating() tea.Cmd {
	if v.toggle.Settings().Enabled {
		v.toggle.RequestDisable()
		return nil
	}
	v.toggle.Enable()
	if err := v.app.config.SetGatingEnabled(true); err != nil {
		v.notice = fmt.Sprintf("Save failed: %v", err)
		return nil
	}
	v.notice = "Review gating enabled"
	v.app.logInfo("Settings · review gating enabled")
	return nil
}

func (v *settingsView) regenerateLink() tea.Cmd {
	base := v.app.config.Project.Business.ReviewLinkBase
	link, err := linkgen.ShortLink(base)
	if err != nil {
		v.notice = fmt.Sprintf("Link generation failed: %v", err)
		return nil
	}
	if err := v.app.config.SetReviewLinkURL(link); err != nil {
		v.notice = fmt.Sprintf("Save failed: %v", err)
		return nil
	}
	v.notice = "New link: " + link
	v.app.logInfo("Settings · review link regenerated: %s", link)
	return nil
}

func (v *settingsView) View() string {
	if v.toggle.ConfirmationPending() {
		prompt := promptBoxStyle.Render(gating.DisablePrompt + "\n\ny → disable    n → keep enabled")
		return prompt
	}

	settings := v.toggle.Settings()
	gatingLabel := settingOffStyle.Render("OFF")
	if settings.Enabled {
		gatingLabel = settingOnStyle.Render("ON")
	}
	link := v.app.config.Project.Business.ReviewLinkURL
	if link == "" {
		link = "(not generated yet)"
	}

	lines := []string{
		stepTitleStyle.Render("Settings"),
		"",
		fmt.Sprintf("Review gating:        %s (threshold %d★)", gatingLabel, settings.RatingThreshold),
		fmt.Sprintf("External review URL:  %s", orPlaceholder(settings.ExternalReviewURL)),
		fmt.Sprintf("Share link:           %s", link),
	}
	if v.editingTitle {
		lines = append(lines, fmt.Sprintf("Social preview title: %s", v.titleInput.View()))
		lines = append(lines, hintStyle.Render("enter → save    esc → cancel"))
	} else {
		lines = append(lines, fmt.Sprintf("Social preview title: %s", orPlaceholder(v.app.config.Project.Business.SocialPreviewTitle)))
		lines = append(lines, hintStyle.Render("g → toggle gating    r → regenerate link    t → edit title    esc → menu"))
	}
	if v.notice != "" {
		lines = append(lines, "", hintStyle.Render(v.notice))
	}
	return strings.Join(lines, "\n")
}

func orPlaceholder(value string) string {
	if strings.TrimSpace(value) == "" {
		return "(not set)"
	}
	return value
}
