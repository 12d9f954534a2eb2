// Package statsui provides the Bubble Tea history dashboard.
package statsui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typetrainer/internal/model"
	"github.com/verte-zerg/typetrainer/internal/stats"
)

const (
	tabOverview = iota
	tabSessions
	tabChars
)

var tabNames = []string{"Overview", "Sessions", "Characters"}

// Source provides the recorded sessions.
type Source interface {
	History() []model.SessionResult
	Best() model.BestStats
}

// Model implements the Bubble Tea history dashboard.
type Model struct {
	src    Source
	cfg    model.StatsConfig
	stars  model.ThresholdTable
	report stats.Report

	keys      keyMap
	help      help.Model
	activeTab int
	overview  viewport.Model
	tables    map[int]*table.Model

	filtering bool
	form      filterForm

	width  int
	height int
}

// NewModel builds the dashboard and computes the initial report.
func NewModel(src Source, cfg model.StatsConfig, starTable model.ThresholdTable) *Model {
	sessions := newTable(sessionColumns())
	chars := newTable(charColumns())
	m := &Model{
		src:      src,
		cfg:      cfg,
		stars:    starTable,
		keys:     defaultKeyMap(),
		help:     help.New(),
		overview: viewport.New(0, 0),
		tables:   map[int]*table.Model{tabSessions: &sessions, tabChars: &chars},
		form:     newFilterForm(),
	}
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filtering {
			return m, m.updateForm(msg)
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.NextTab):
		m.switchTab(1)
		return nil
	case key.Matches(msg, m.keys.PrevTab):
		m.switchTab(-1)
		return nil
	case key.Matches(msg, m.keys.Wider):
		m.cfg.CurveWindow = max(1, m.cfg.CurveWindow+1)
		m.refreshReport()
		return nil
	case key.Matches(msg, m.keys.Narrower):
		m.cfg.CurveWindow = max(1, m.cfg.CurveWindow-1)
		m.refreshReport()
		return nil
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		return m.form.load(m.cfg)
	}

	var cmd tea.Cmd
	if t, ok := m.tables[m.activeTab]; ok {
		*t, cmd = t.Update(msg)
		return cmd
	}
	m.overview, cmd = m.overview.Update(msg)
	return cmd
}

func (m *Model) updateForm(msg tea.KeyMsg) tea.Cmd {
	action, cmd := m.form.update(msg)
	switch action {
	case formCancel:
		m.filtering = false
	case formApply:
		cfg, err := m.form.parse(m.cfg)
		if err != nil {
			m.form.err = err.Error()
			return nil
		}
		m.cfg = cfg
		m.filtering = false
		m.form.err = ""
		m.refreshReport()
	}
	m.resize()
	return cmd
}

func (m *Model) switchTab(delta int) {
	n := len(tabNames)
	m.activeTab = (m.activeTab + delta + n) % n
	for tab, t := range m.tables {
		if tab == m.activeTab {
			t.Focus()
		} else {
			t.Blur()
		}
	}
}

func (m *Model) refreshReport() {
	m.report = stats.BuildReport(m.src.History(), m.cfg)
	m.tables[tabSessions].SetRows(sessionRows(m.report.Results, m.stars))
	m.tables[tabChars].SetRows(charRows(m.report.CharAggs))
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(overviewContent(m.report, m.src.Best(), width))
}

// bodyHeight is what remains after the header and footer.
func (m *Model) bodyHeight() int {
	used := lipgloss.Height(m.renderHeader()) + lipgloss.Height(m.renderFooter())
	return max(1, m.height-used)
}

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.help.Width = m.width
	m.form.setWidth(m.width)
	h := m.bodyHeight()
	m.overview.Width = m.width
	m.overview.Height = h
	for _, t := range m.tables {
		t.SetWidth(m.width)
		t.SetHeight(h)
	}
	m.refreshReport()
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	h := m.bodyHeight()
	body := lipgloss.NewStyle().
		MaxWidth(m.width).
		Height(h).
		MaxHeight(h).
		Render(m.renderBody())
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
}

func (m *Model) renderHeader() string {
	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		style := tabStyle
		if i == m.activeTab {
			style = activeTabStyle
		}
		tabs[i] = style.Render(name)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...),
		summaryStyle.Render(truncateLine(m.filterSummary(), m.width)),
	)
}

func (m *Model) filterSummary() string {
	level, since, last := "any", "any", "all"
	if m.cfg.Level != "" {
		level = m.cfg.Level
	}
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format(dateLayout)
	}
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	return fmt.Sprintf("Filters: level=%s  since=%s  last=%s  window=%d  (%d sessions)",
		level, since, last, m.cfg.CurveWindow, len(m.report.Results))
}

func (m *Model) renderBody() string {
	if m.filtering {
		return m.form.view()
	}
	t, ok := m.tables[m.activeTab]
	if !ok {
		return m.overview.View()
	}
	switch {
	case len(m.report.Results) == 0:
		return "No sessions found."
	case len(t.Rows()) == 0:
		return "No character stats found."
	}
	return t.View()
}

func (m *Model) renderFooter() string {
	if !m.filtering {
		return m.help.View(m.keys)
	}
	hint := summaryStyle.Render("tab/↓ next field  shift+tab/↑ previous  enter apply  esc cancel")
	if m.form.err != "" {
		return hint + "\n" + errorStyle.Render(m.form.err)
	}
	return hint
}
