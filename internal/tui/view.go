package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"venuectl/internal/api"
	"venuectl/internal/watch"
)

// Styles holds the lipgloss styles used by the dashboard.
type Styles struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Danger  lipgloss.Style
	Warning lipgloss.Style
	Banner  lipgloss.Style
}

func defaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header:  lipgloss.NewStyle().Bold(true).Underline(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Danger:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Banner:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("9")).Padding(0, 1),
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderMetrics())
	b.WriteString("\n\n")
	b.WriteString(m.renderControllers())
	if m.snapshot.PortHostname != "" {
		b.WriteString("\n")
		b.WriteString(m.renderPorts())
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("r refresh  q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderHeader() string {
	title := m.styles.Title.Render("venuectl watch")
	if m.snapshot.IsOffline() {
		return title + "  " + m.styles.Banner.Render("BACKEND UNREACHABLE") + "  " + m.renderAge()
	}
	return title + "  " + m.spinner.View() + m.renderAge()
}

func (m Model) renderAge() string {
	if m.snapshot.LastUpdated.IsZero() {
		return m.styles.Muted.Render("waiting for first poll")
	}
	return m.styles.Muted.Render("updated " + m.snapshot.LastUpdated.Format(time.Kitchen))
}

func (m Model) renderMetrics() string {
	if !m.snapshot.HasMetrics {
		return m.styles.Muted.Render("queue: no data")
	}
	metrics := m.snapshot.Metrics
	return fmt.Sprintf("queue  pending %d  in-flight %d  completed %d  failed %s  avg %.0fms",
		metrics.Pending, metrics.InFlight, metrics.Completed,
		m.renderFailedCount(metrics.Failed), metrics.AvgLatency)
}

func (m Model) renderFailedCount(failed int) string {
	if failed > 0 {
		return m.styles.Danger.Render(fmt.Sprintf("%d", failed))
	}
	return fmt.Sprintf("%d", failed)
}

func (m Model) renderControllers() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render(fmt.Sprintf("%-24s %-8s %-12s %s", "HOSTNAME", "PORTS", "STATUS", "MODEL")))
	b.WriteString("\n")
	if len(m.snapshot.Controllers) == 0 {
		b.WriteString(m.styles.Muted.Render("no managed controllers"))
		b.WriteString("\n")
		return b.String()
	}
	for _, controller := range m.snapshot.Controllers {
		b.WriteString(fmt.Sprintf("%-24s %-8d %s %s\n",
			controller.Hostname, len(controller.Ports),
			m.renderOnline(controller), orDash(controller.Model)))
	}
	return b.String()
}

func (m Model) renderOnline(controller api.Controller) string {
	if controller.Online {
		return m.styles.Success.Render(fmt.Sprintf("%-12s", "online"))
	}
	return m.styles.Danger.Render(fmt.Sprintf("%-12s", "offline"))
}

func (m Model) renderPorts() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render(fmt.Sprintf("%-6s %-8s %-10s %s", "PORT", "POWER", "CHANNEL", "PENDING")))
	b.WriteString("  " + m.styles.Muted.Render(m.snapshot.PortHostname))
	b.WriteString("\n")
	if len(m.snapshot.Ports) == 0 {
		b.WriteString(m.styles.Muted.Render("no port data"))
		b.WriteString("\n")
		return b.String()
	}
	for _, port := range m.snapshot.Ports {
		b.WriteString(fmt.Sprintf("%-6d %-8s %-10s %d\n",
			port.Port, port.Power, orDash(port.CurrentChannel), port.PendingCount))
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// RenderOnce produces a single static render of the snapshot for non-tty
// invocations of the watch command.
func RenderOnce(snapshot watch.Snapshot) string {
	m := Model{styles: defaultStyles(), snapshot: snapshot, ready: true}
	return m.View()
}
