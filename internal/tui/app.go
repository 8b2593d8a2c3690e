// internal/tui/app.go
//
// This is the main TUI (Terminal User Interface) for ReviewHut.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen

package tui

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/reviewhut/reviewhut/forms"
	"github.com/reviewhut/reviewhut/internal/config"
	"github.com/reviewhut/reviewhut/internal/gating"
	"github.com/reviewhut/reviewhut/internal/logbook"
	"github.com/reviewhut/reviewhut/internal/session"
	"github.com/reviewhut/reviewhut/internal/submission"
)

// appState represents which "screen" we're on
type appState int

const (
	stateMainMenu     appState = iota // Main menu
	stateIntake                       // Business intake wizard
	stateReviewFunnel                 // Customer-facing review funnel preview
	stateSettings                     // Gating toggle and review link tools
)

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithTransport overrides the submission transport used by the intake wizard.
func WithTransport(t submission.Transport) AppOption {
	return func(a *App) {
		if t != nil {
			a.transport = t
		}
	}
}

// WithSessionStore overrides where in-progress intake sessions are persisted.
func WithSessionStore(store session.Store) AppOption {
	return func(a *App) {
		if store != nil {
			a.sessions = store
		}
	}
}

// WithNavigator overrides how external review URLs are opened.
func WithNavigator(nav gating.Navigator) AppOption {
	return func(a *App) {
		if nav != nil {
			a.navigator = nav
		}
	}
}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	state    appState
	config   *config.Config
	registry *forms.Registry
	logbook  *logbook.Logbook

	transport submission.Transport
	sessions  session.Store
	navigator gating.Navigator

	intake   *intakeView
	review   *reviewView
	settings *settingsView

	// UI components
	mainMenu  list.Model // The main menu list
	statusMsg string     // Status message to display

	// Window size (we get this from bubbletea)
	width  int
	height int
}

// menuItem implements list.Item interface for our menu items
type menuItem struct {
	title string
	desc  string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// NewApp creates a new App instance
func NewApp(projectDir string, opts ...AppOption) (*App, error) {
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		return nil, err
	}

	registry := forms.NewRegistry()
	forms.RegisterBuiltins(registry)
	if err := forms.RegisterDirectory(registry, cfg.FormsDir()); err != nil {
		return nil, err
	}

	logPath := filepath.Join(cfg.LogsDir(), "funnel.log")
	lb, err := logbook.New(logPath)
	if err == nil {
		lb.Info("Session opened · business: %s", cfg.Project.Business.Name)
	}

	mainMenu := list.New(buildMainMenu(cfg), list.NewDefaultDelegate(), 0, 0)
	mainMenu.Title = "★ REVIEWHUT"
	mainMenu.SetShowStatusBar(false)
	mainMenu.SetFilteringEnabled(false)

	app := &App{
		state:     stateMainMenu,
		config:    cfg,
		registry:  registry,
		logbook:   lb,
		mainMenu:  mainMenu,
		sessions:  session.NewRepository(cfg.StateDir()),
		navigator: &browserNavigator{},
	}
	if endpoint := cfg.Project.API.Endpoint; endpoint != "" {
		app.transport = submission.NewHTTPTransport(endpoint, cfg.APITimeout())
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	return app, nil
}

// buildMainMenu creates the main menu items based on project state
func buildMainMenu(cfg *config.Config) []list.Item {
	items := []list.Item{
		menuItem{title: "Register Business", desc: "Walk through the business intake form"},
		menuItem{title: "Review Funnel", desc: "Preview the customer rating experience"},
		menuItem{title: "Settings", desc: "Review gating, share link and preview title"},
		menuItem{title: "Exit", desc: "Quit ReviewHut"},
	}
	if link := cfg.Project.Business.ReviewLinkURL; link != "" {
		items = append([]list.Item{menuItem{
			title: "Share Link",
			desc:  link,
		}}, items...)
	}
	return items
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logWarn(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Warn(format, args...)
}

func (a *App) logError(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Error(format, args...)
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.mainMenu.SetSize(max(0, msg.Width-6), max(0, msg.Height-10))
		return a, nil

	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.state == stateMainMenu {
				return a, tea.Quit
			}
		case "esc":
			if a.state == stateSettings && a.settings != nil && a.settings.capturesEsc() {
				break
			}
			if a.state != stateMainMenu {
				return a.returnToMainMenu()
			}
		case "enter":
			if a.state == stateMainMenu {
				return a.handleMainMenuSelection()
			}
		}

	}

	var cmds []tea.Cmd
	switch a.state {
	case stateMainMenu:
		var menuCmd tea.Cmd
		a.mainMenu, menuCmd = a.mainMenu.Update(msg)
		if menuCmd != nil {
			cmds = append(cmds, menuCmd)
		}
	case stateIntake:
		if a.intake != nil {
			if cmd := a.intake.Update(msg); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	case stateReviewFunnel:
		if a.review != nil {
			if cmd := a.review.Update(msg); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	case stateSettings:
		if a.settings != nil {
			if cmd := a.settings.Update(msg); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}

	return a, tea.Batch(cmds...)
}

// handleMainMenuSelection processes menu item selection
func (a *App) handleMainMenuSelection() (tea.Model, tea.Cmd) {
	item, ok := a.mainMenu.SelectedItem().(menuItem)
	if !ok {
		return a, nil
	}

	switch item.title {
	case "Register Business":
		a.logInfo("Menu · Register Business selected")
		return a.startIntake()

	case "Review Funnel":
		a.logInfo("Menu · Review Funnel selected")
		a.state = stateReviewFunnel
		a.review = newReviewView(a)
		return a, nil

	case "Settings":
		a.logInfo("Menu · Settings selected")
		a.state = stateSettings
		a.settings = newSettingsView(a)
		return a, nil

	case "Share Link":
		a.statusMsg = a.config.Project.Business.ReviewLinkURL
		return a, nil

	case "Exit":
		a.logInfo("Menu · Exit selected")
		return a, tea.Quit
	}

	return a, nil
}

func (a *App) startIntake() (tea.Model, tea.Cmd) {
	view, err := newIntakeView(a, forms.BusinessIntakeID)
	if err != nil {
		a.statusMsg = fmt.Sprintf("Intake unavailable: %v", err)
		a.logError("Intake start failed: %v", err)
		return a, nil
	}
	a.state = stateIntake
	a.intake = view
	return a, view.Init()
}

// returnToMainMenu transitions back to the main menu
func (a *App) returnToMainMenu() (tea.Model, tea.Cmd) {
	if a.state == stateIntake && a.intake != nil {
		a.intake.suspend()
	}
	a.state = stateMainMenu
	a.intake = nil
	a.review = nil
	a.settings = nil
	a.mainMenu.SetItems(buildMainMenu(a.config))
	a.logInfo("Returned to main menu")
	return a, nil
}

// View renders the current state to a string.
func (a *App) View() string {
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#F7B801")).
		MarginBottom(1).
		Render(fmt.Sprintf("★ REVIEWHUT · %s", a.config.Project.Business.Name))

	var content string
	switch a.state {
	case stateMainMenu:
		content = a.mainMenu.View()
	case stateIntake:
		if a.intake != nil {
			content = a.intake.View()
		}
	case stateReviewFunnel:
		if a.review != nil {
			content = a.review.View()
		}
	case stateSettings:
		if a.settings != nil {
			content = a.settings.View()
		}
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Width(max(40, a.width-2)).
		Render(content)

	sections := []string{header, box}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render(a.statusMsg)
	sections = append(sections, footer)
	return strings.Join(sections, "\n")
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines := a.logbook.Tail(5)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("LOG · %s", fileName))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
}

// browserNavigator opens URLs with the platform opener.
type browserNavigator struct{}

func (browserNavigator) OpenURL(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return fmt.Errorf("tui: no external review URL configured")
	}
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
