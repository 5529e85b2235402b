package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rdfernandes/connwatch/internal/models"
	"github.com/rdfernandes/connwatch/internal/notify"
)

var (
	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#585858")).
			Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5f5fd7")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5f5fd7"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676")).
			Padding(0, 1)
)

// View renders the status panel.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("connwatch"))
	b.WriteString("  ")
	b.WriteString(notify.StateBadge(m.state))
	if m.state == models.StateUnknown {
		b.WriteString("  " + m.spinner.View() + labelStyle.Render(" probing..."))
	}
	b.WriteString("\n\n")

	if m.haveData {
		b.WriteString(row("probe", fmt.Sprintf("%s (%s)", m.latest.Source, m.latest.Target)))
		if m.latest.OK {
			b.WriteString(row("latency", fmt.Sprintf("%d ms", m.latest.LatencyMs)))
		} else if m.latest.Error != "" {
			b.WriteString(row("error", m.latest.Error))
		}
		b.WriteString(row("checked", m.latest.CheckedAt.Local().Format(time.Kitchen)))
	}
	if m.summary.TotalSamples > 0 {
		b.WriteString(row("uptime", fmt.Sprintf("%.2f%% over %d samples", m.summary.UptimePercent, m.summary.TotalSamples)))
		if m.summary.Flaps > 0 {
			b.WriteString(row("flaps", fmt.Sprintf("%d", m.summary.Flaps)))
		}
	}
	if !m.lastFlip.IsZero() {
		b.WriteString(row("changed", m.lastFlip.Local().Format(time.Kitchen)))
	}

	panel := panelStyle.Render(b.String())
	return panel + "\n" + footerStyle.Render("q to quit") + "\n"
}

func row(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-9s", label)) + valueStyle.Render(value) + "\n"
}
