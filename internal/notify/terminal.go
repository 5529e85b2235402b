package notify

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rdfernandes/connwatch/internal/models"
)

var (
	onlineBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#22aa22")).
			Padding(0, 1)

	offlineBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#ff5f5f")).
			Padding(0, 1)

	unknownBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#ffdf87")).
			Padding(0, 1)

	changeTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676"))
)

// TerminalNotifier prints a transient styled banner for each state change.
type TerminalNotifier struct {
	out io.Writer
}

// NewTerminalNotifier writes banners to out.
func NewTerminalNotifier(out io.Writer) *TerminalNotifier {
	return &TerminalNotifier{out: out}
}

// Name identifies the notifier in logs.
func (*TerminalNotifier) Name() string { return "terminal" }

// Notify renders the transition.
func (n *TerminalNotifier) Notify(_ context.Context, change models.StateChange) error {
	badge := StateBadge(change.To)
	detail := changeTextStyle.Render(fmt.Sprintf("was %s, changed at %s",
		change.From, change.At.Local().Format(time.Kitchen)))
	_, err := fmt.Fprintf(n.out, "%s %s\n", badge, detail)
	return err
}

// StateBadge renders the coloured badge for a state. Shared with the TUI.
func StateBadge(state models.ConnState) string {
	switch state {
	case models.StateOnline:
		return onlineBadge.Render("ONLINE")
	case models.StateOffline:
		return offlineBadge.Render("OFFLINE")
	default:
		return unknownBadge.Render("UNKNOWN")
	}
}
