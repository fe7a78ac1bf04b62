package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rcpilot/rcpilot/internal/state"
	"github.com/rcpilot/rcpilot/internal/tui"
)

func runTUI(cmd *cobra.Command, args []string) error {
	app, err := buildApp(true)
	if err != nil {
		return err
	}
	defer app.Close()

	stateMgr := state.NewManager(app.cfg.State.Dir)
	if err := stateMgr.Load(); err != nil {
		app.logger.Warn("could not restore panel state", "error", err)
	}

	model := tui.New(tui.Deps{
		Engine:     app.engine,
		Loader:     app.loader,
		Persister:  app.persister,
		Client:     app.client,
		State:      stateMgr,
		Bus:        app.bus,
		Logger:     app.logger.Logger,
		Debounce:   app.cfg.Search.Debounce(),
		WindowSize: app.cfg.Search.WindowSize,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running settings panel: %w", err)
	}
	return nil
}
