package components

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/statelist/internal/metrics"
)

// StatsCard represents a statistics card component
type StatsCard struct {
	Title       string
	Value       string
	Description string
	Status      string // "success", "warning", "error", "info"
	Width       int
}

// NewStatsCard creates a new stats card
func NewStatsCard(title, value, description string) *StatsCard {
	return &StatsCard{
		Title:       title,
		Value:       value,
		Description: description,
		Status:      "info",
		Width:       18,
	}
}

// SetStatus sets the status color of the card
func (s *StatsCard) SetStatus(status string) *StatsCard {
	s.Status = status
	return s
}

// SetWidth sets the width of the card
func (s *StatsCard) SetWidth(width int) *StatsCard {
	s.Width = width
	return s
}

// Render renders the stats card
func (s *StatsCard) Render() string {
	titleStyle := lipgloss.NewStyle().Foreground(infoColor).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(mutedColor)
	boxStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(mutedColor).Padding(0, 1)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		titleStyle.Render(s.Title),
		StatusStyle(s.Status).Bold(true).Render(s.Value),
		mutedStyle.Render(s.Description),
	)

	return boxStyle.Width(s.Width).Render(content)
}

// StatsDashboard lays cards out in rows
type StatsDashboard struct {
	cards   []*StatsCard
	columns int
}

// NewStatsDashboard creates a new stats dashboard
func NewStatsDashboard(columns int) *StatsDashboard {
	if columns < 1 {
		columns = 1
	}
	return &StatsDashboard{columns: columns}
}

// AddCard adds a stats card to the dashboard
func (d *StatsDashboard) AddCard(card *StatsCard) {
	d.cards = append(d.cards, card)
}

// Cards returns the dashboard's cards
func (d *StatsDashboard) Cards() []*StatsCard {
	return d.cards
}

// Render renders the stats dashboard
func (d *StatsDashboard) Render() string {
	if len(d.cards) == 0 {
		return ""
	}

	var rows []string
	for i := 0; i < len(d.cards); i += d.columns {
		end := min(i+d.columns, len(d.cards))
		rowCards := make([]string, 0, end-i)
		for _, card := range d.cards[i:end] {
			rowCards = append(rowCards, card.Render())
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rowCards...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// CreateReloadStats creates stats cards from a reload metrics snapshot
func CreateReloadStats(s metrics.Snapshot) *StatsDashboard {
	dashboard := NewStatsDashboard(4)

	dashboard.AddCard(NewStatsCard("Reloads", formatNumber(s.Reloads), "desired states diffed"))
	dashboard.AddCard(NewStatsCard("Batches", formatNumber(s.Batches), "stages applied"))
	dashboard.AddCard(NewStatsCard("Edits", formatNumber(s.Edits), "rows and sections"))

	interruptStatus := "success"
	if s.Interrupts > 0 {
		interruptStatus = "warning"
	}
	dashboard.AddCard(NewStatsCard("Interrupts", formatNumber(s.Interrupts), "runs stopped early").SetStatus(interruptStatus))

	dashboard.AddCard(NewStatsCard("Coalesced", formatNumber(s.Coalesced), "states superseded"))
	dashboard.AddCard(NewStatsCard("Full reloads", formatNumber(s.FullReloads), "detached surface"))
	dashboard.AddCard(NewStatsCard("Diff time", formatDuration(s.LastDiff), "avg "+formatDuration(s.AvgDiff)))
	dashboard.AddCard(NewStatsCard("Rows", formatNumber(int64(s.CommittedRows)), "committed").SetStatus("success"))

	return dashboard
}

// StatsLine renders a snapshot as a single status line
func StatsLine(s metrics.Snapshot) string {
	return lipgloss.NewStyle().Foreground(mutedColor).Render(fmt.Sprintf(
		"reloads %s  batches %s  edits %s  interrupts %s  coalesced %s  diff %s",
		formatNumber(s.Reloads), formatNumber(s.Batches), formatNumber(s.Edits),
		formatNumber(s.Interrupts), formatNumber(s.Coalesced), formatDuration(s.LastDiff),
	))
}

// formatNumber formats large numbers with commas
func formatNumber(n int64) string {
	str := strconv.FormatInt(n, 10)
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(digit)
	}

	return result.String()
}

func formatDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "0s"
	case d < time.Millisecond:
		return d.Round(time.Microsecond).String()
	default:
		return d.Round(100 * time.Microsecond).String()
	}
}
