package statsui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typetrainer/internal/model"
	"github.com/verte-zerg/typetrainer/internal/stats"
)

var (
	accent = lipgloss.Color("#C89A3A")
	muted  = lipgloss.Color("#6E6E6E")
	frame  = lipgloss.Color("#3C3C3C")

	tabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("#9A9A9A")).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(frame)
	activeTabStyle = tabStyle.
			Foreground(accent).
			Bold(true).
			BorderForeground(accent)
	titleStyle   = lipgloss.NewStyle().Foreground(accent).Bold(true)
	summaryStyle = lipgloss.NewStyle().Foreground(muted)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle    = lipgloss.NewStyle().
			Width(18).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(frame)
	cardLabelStyle = lipgloss.NewStyle().Foreground(muted)
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

func overviewContent(rep stats.Report, best model.BestStats, width int) string {
	if len(rep.Results) == 0 {
		return "No sessions found."
	}
	var sumWPM, sumAcc int
	for _, r := range rep.Results {
		sumWPM += r.WPM
		sumAcc += r.Accuracy
	}
	n := float64(len(rep.Results))

	cards := []string{
		card("Sessions", strconv.Itoa(len(rep.Results))),
		card("Avg speed", fmt.Sprintf("%.1f cpm", float64(sumWPM)/n)),
		card("Avg accuracy", fmt.Sprintf("%.1f%%", float64(sumAcc)/n)),
		card("Best speed", bestSpeed(best)),
		card("Fastest", bestTime(best)),
		card("Fewest errors", bestErrors(best)),
	}

	spark := max(1, width-2)
	trends := []string{
		titleStyle.Render("Speed trend"),
		stats.Sparkline(lastN(rep.SpeedCurve, spark)),
		"",
		titleStyle.Render("Accuracy trend"),
		stats.Sparkline(lastN(rep.AccuracyCurve, spark)),
	}
	return cardGrid(cards, width) + "\n\n" + strings.Join(trends, "\n")
}

func bestSpeed(b model.BestStats) string {
	if b.MaxSpeed <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d cpm", b.MaxSpeed)
}

func bestTime(b model.BestStats) string {
	if !b.HasDuration() {
		return "-"
	}
	return stats.FormatDuration(b.MinDurationMs)
}

func bestErrors(b model.BestStats) string {
	if !b.HasErrors() {
		return "-"
	}
	return strconv.FormatInt(b.MinErrors, 10)
}

func card(label, value string) string {
	return cardStyle.Render(cardLabelStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

// cardGrid lays cards out left to right, wrapping to as many rows as the
// width requires.
func cardGrid(cards []string, width int) string {
	if len(cards) == 0 {
		return ""
	}
	perRow := max(1, width/lipgloss.Width(cards[0]))
	var rows []string
	for start := 0; start < len(cards); start += perRow {
		end := min(start+perRow, len(cards))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[start:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func lastN(values []float64, n int) []float64 {
	if len(values) > n {
		return values[len(values)-n:]
	}
	return values
}

func newTable(cols []table.Column) table.Model {
	s := table.DefaultStyles()
	s.Header = s.Header.
		Foreground(accent).
		Bold(true).
		BorderForeground(frame)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#F0F0F0")).
		Background(lipgloss.Color("#2A2A2A"))
	return table.New(
		table.WithColumns(cols),
		table.WithHeight(1),
		table.WithStyles(s),
	)
}

func sessionColumns() []table.Column {
	return []table.Column{
		{Title: "Date", Width: 16},
		{Title: "Level", Width: 10},
		{Title: "Speed", Width: 6},
		{Title: "Acc", Width: 5},
		{Title: "Errors", Width: 6},
		{Title: "Time", Width: 6},
		{Title: "Rating", Width: 6},
	}
}

func sessionRows(results []model.SessionResult, starTable model.ThresholdTable) []table.Row {
	rows := make([]table.Row, len(results))
	for i, r := range results {
		rows[i] = table.Row{
			r.Timestamp.Local().Format("2006-01-02 15:04"),
			r.Level,
			strconv.Itoa(r.WPM),
			strconv.Itoa(r.Accuracy) + "%",
			strconv.Itoa(r.Errors),
			stats.FormatDuration(r.DurationMs),
			stats.Stars(stats.Rating(r.WPM, r.Accuracy, starTable)),
		}
	}
	return rows
}

func charColumns() []table.Column {
	return []table.Column{
		{Title: "Char", Width: 7},
		{Title: "Accuracy", Width: 9},
		{Title: "Latency ms", Width: 10},
		{Title: "Correct", Width: 7},
		{Title: "Wrong", Width: 6},
		{Title: "Total", Width: 6},
	}
}

// charRows lists the most typed characters first.
func charRows(aggs []model.CharAggregate) []table.Row {
	byChar := make(map[string]model.CharAggregate, len(aggs))
	for _, a := range aggs {
		byChar[a.Char] = a
	}
	order := stats.TopCharsByFrequency(aggs, len(aggs))
	rows := make([]table.Row, 0, len(order))
	for _, ch := range order {
		a := byChar[ch]
		total := a.Correct + a.Incorrect
		acc := 100.0
		if total > 0 {
			acc = float64(a.Correct) * 100 / float64(total)
		}
		latency := "-"
		if a.LatencyCount > 0 {
			latency = fmt.Sprintf("%.1f", float64(a.LatencySumMs)/float64(a.LatencyCount))
		}
		label := ch
		if label == " " {
			label = "space"
		}
		rows = append(rows, table.Row{
			label,
			fmt.Sprintf("%.2f%%", acc),
			latency,
			strconv.Itoa(a.Correct),
			strconv.Itoa(a.Incorrect),
			strconv.Itoa(total),
		})
	}
	return rows
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
