// cmd/briefpro/main.go
//
// This is the entry point for the briefpro editor.
// When you run `briefpro` from a project directory, this is what executes.
//
// Flow:
// 1. Initialize the .briefpro folder (state, exports, templates, logs)
// 2. Launch the terminal editor

package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kapitan-marona/briefpro/internal/config"
	"github.com/kapitan-marona/briefpro/internal/tui"
)

func main() {
	// The current working directory is the "project" we're working in.
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
		os.Exit(1)
	}

	if err := config.InitBriefproDir(cwd); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing .briefpro directory: %v\n", err)
		os.Exit(1)
	}

	app, err := tui.NewApp(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading brief: %v\n", err)
		os.Exit(1)
	}

	// tea.NewProgram creates a new bubbletea application.
	p := tea.NewProgram(
		app,
		tea.WithAltScreen(), // Use alternate screen buffer (like vim does)
	)

	// Run blocks until the user quits.
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running editor: %v\n", err)
		os.Exit(1)
	}
}
