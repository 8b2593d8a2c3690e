// cmd/reviewhut/main.go
//
// This is the entry point for the ReviewHut terminal app. Running `reviewhut`
// from a project directory initializes the .reviewhut folder and launches
// the TUI.

package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/reviewhut/reviewhut/internal/config"
	"github.com/reviewhut/reviewhut/internal/tui"
)

func main() {
	// The current working directory is the "project" we're working in.
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
		os.Exit(1)
	}

	if err := config.InitReviewHutDir(cwd); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing .reviewhut directory: %v\n", err)
		os.Exit(1)
	}

	app, err := tui.NewApp(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting ReviewHut: %v\n", err)
		os.Exit(1)
	}

	// tea.NewProgram creates a new bubbletea application; Run blocks until
	// the user quits.
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
