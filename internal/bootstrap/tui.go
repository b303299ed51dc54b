package bootstrap

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	sessiondomain "mindshelf/internal/modules/session/domain"
	"mindshelf/internal/platform/events"
	uiapp "mindshelf/internal/ui/app"
)

// RunTUI runs the terminal UI until the user quits. Bus events reach the
// model as uiapp.ChangedMsg so views refresh after background analyses.
func RunTUI(ctx context.Context, app *App) error {
	model := uiapp.NewModel(Identity(app.Session), uiapp.Ports{
		Library:  app.LibraryCLI,
		Reader:   app.ReaderTUI,
		External: app.ReaderCLI,
		Quiz:     app.QuizCLI,
		Brain:    app.BrainCLI,
		Activity: app.ActivityCLI,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	fwdCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	err := app.Bus.StartForwarder(fwdCtx, func(e events.Event) {
		// Send blocks until the program reads it; onMsg must not.
		go program.Send(uiapp.ChangedMsg{Type: e.Type, ItemID: e.ItemID})
	})
	if err != nil {
		app.Log.Warn("tui live updates disabled", "error", err)
	}

	_, err = program.Run()
	return err
}

// Identity labels a session for display.
func Identity(s sessiondomain.Session) string {
	return sessiondomain.Match(s,
		func(sessiondomain.LocalOnlySession) string { return "guest" },
		func(p sessiondomain.PersistedSession) string { return p.UserID },
	)
}
