package tui

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/spiffcs/repoquery/internal/agent"
	"github.com/spiffcs/repoquery/internal/output"
)

// ShouldUseTUI reports whether the interactive session can run.
// It requires a terminal on stdout and no CI environment.
func ShouldUseTUI() bool {
	if os.Getenv("CI") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Run starts an interactive ask session. Each submitted question goes
// through the agent and the answer is rendered with the given format.
func Run(ctx context.Context, a *agent.Agent, format output.Format) error {
	model := NewModel(ctx, a, output.NewFormatter(format))

	// Don't use alt screen - render inline so answers stay in the
	// scrollback after the session ends.
	p := tea.NewProgram(model)

	_, err := p.Run()
	return err
}
