package notify

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("9"))
	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))
)

// Console writes notices to a terminal.
type Console struct {
	w     io.Writer
	plain bool
}

// NewConsole creates a Console writing to w. Plain disables styling.
func NewConsole(w io.Writer, plain bool) *Console {
	return &Console{w: w, plain: plain}
}

// Notify implements Notifier.
func (c *Console) Notify(_ context.Context, n Notice) {
	msg := n.Message
	if !c.plain {
		if n.IsError() {
			msg = errorStyle.Render(msg)
		} else {
			msg = infoStyle.Render(msg)
		}
	}
	fmt.Fprintln(c.w, msg)
}
