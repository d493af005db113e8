package tui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vk/hbsbind/internal/explorer"
)

// Run drives exp in a full-screen program on in/out until the user
// confirms or cancels. It reports whether a selection was applied.
func Run(ctx context.Context, exp *explorer.Session, opt Options, in io.Reader, out io.Writer) (bool, error) {
	p := tea.NewProgram(
		New(ctx, exp, opt),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("explorer ui failed: %w", err)
	}
	m, ok := final.(Model)
	if !ok {
		return false, nil
	}
	if !m.Done() {
		// Interrupted from outside; leave nothing half open.
		m.opt.Cancel(ctx)
	}
	return m.Confirmed(), nil
}
