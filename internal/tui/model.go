// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typetrainer/internal/keyboard"
	"github.com/verte-zerg/typetrainer/internal/model"
	"github.com/verte-zerg/typetrainer/internal/session"
	"github.com/verte-zerg/typetrainer/internal/stats"
)

// Recorder stores completed sessions.
type Recorder interface {
	Record(ctx context.Context, result model.SessionResult) bool
	History() []model.SessionResult
	Best() model.BestStats
	SaveLevel(ctx context.Context, level string)
}

// TextPicker chooses the next practice text for a level.
type TextPicker interface {
	PickWeighted(level string, weakSet map[rune]struct{}, factor float64) (string, error)
}

// Options configures the practice screen.
type Options struct {
	Levels        []model.Level
	Level         string
	Stars         model.ThresholdTable
	StatsInterval time.Duration
	FocusWeak     bool
	WeakTop       int
	WeakFactor    float64
	WeakWindow    int
	Layout        string // keyboard layout id, or "auto" to follow the text
	ShowKeyboard  bool
	Logger        *slog.Logger
}

type phase int

const (
	phaseReady phase = iota
	phaseTyping
	phaseDone
)

type tickMsg struct {
	gen int
}

type outcomeView struct {
	result  model.SessionResult
	stars   int
	message string
	advice  []string
	goalMet bool
	newBest bool
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	opts    Options
	engine  *session.Engine
	rec     Recorder
	picker  TextPicker
	logger  *slog.Logger
	keys    keyMap
	help    help.Model
	weakSet map[rune]struct{}

	width  int
	height int

	levelIdx int
	text     []rune
	buffer   []rune
	phase    phase
	tickGen  int

	layout  *keyboard.Layout
	live    model.LiveStats
	flash   model.Outcome
	pressed rune
	outcome *outcomeView
	errMsg  string

	hasLast bool
	last    model.SessionResult
	best    model.BestStats
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0")).Bold(true)
	starStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	goodStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// NewModel constructs a typing TUI model. The model owns its session engine
// and receives its keystroke notifications.
func NewModel(opts Options, rec Recorder, picker TextPicker, engineOpts ...session.Option) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.StatsInterval <= 0 {
		opts.StatsInterval = 100 * time.Millisecond
	}
	m := &Model{
		opts:   opts,
		rec:    rec,
		picker: picker,
		logger: logger,
		keys:   defaultKeyMap(),
		help:   help.New(),
		best:   rec.Best(),
	}
	for i, l := range opts.Levels {
		if l.ID == opts.Level {
			m.levelIdx = i
		}
	}
	m.engine = session.New(append(engineOpts, session.WithKeyNotifier(m), session.WithLogger(logger))...)
	if h := rec.History(); len(h) > 0 {
		m.last = h[0]
		m.hasLast = true
	}
	m.refreshWeakSet()
	m.nextText()
	return m
}

// NotifyKey implements session.KeyNotifier. The typed key stays
// highlighted by outcome until the next stats tick.
func (m *Model) NotifyKey(typed, _ rune, outcome model.Outcome) {
	m.pressed = typed
	m.flash = outcome
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		if msg.gen != m.tickGen || m.phase != phaseTyping {
			return m, nil
		}
		m.live = m.engine.Live()
		m.flash = model.OutcomeNone
		m.pressed = 0
		return m, m.tick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Reset):
		m.engine.Reset()
		m.nextText()
		return m, nil
	case key.Matches(msg, m.keys.NextLevel):
		m.switchLevel(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevLevel):
		m.switchLevel(-1)
		return m, nil
	case key.Matches(msg, m.keys.Start):
		if m.phase != phaseTyping {
			m.nextText()
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete:
		if m.phase != phaseTyping || len(m.buffer) == 0 {
			return m, nil
		}
		m.buffer = m.buffer[:len(m.buffer)-1]
		m.submit()
		return m, nil
	case tea.KeySpace:
		return m.typeRunes([]rune{' '})
	case tea.KeyRunes:
		return m.typeRunes(msg.Runes)
	default:
		return m, nil
	}
}

func (m *Model) typeRunes(runes []rune) (tea.Model, tea.Cmd) {
	if m.phase == phaseDone {
		return m, nil
	}
	var cmd tea.Cmd
	if m.phase == phaseReady {
		if err := m.engine.Start(string(m.text), m.currentLevel().ID); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.phase = phaseTyping
		m.tickGen++
		cmd = m.tick()
	}
	m.buffer = append(m.buffer, runes...)
	m.submit()
	return m, cmd
}

func (m *Model) submit() {
	res := m.engine.SubmitInput(string(m.buffer))
	if res.Clamped {
		m.buffer = []rune(res.Snapshot.TypedText)
	}
	m.live.Snapshot = res.Snapshot
	if res.Completed != nil {
		m.finish(*res.Completed)
	}
}

func (m *Model) finish(result model.SessionResult) {
	m.phase = phaseDone
	m.live = m.engine.Live()
	newBest := m.rec.Record(context.Background(), result)
	m.best = m.rec.Best()
	m.last = result
	m.hasLast = true

	stars := stats.Rating(result.WPM, result.Accuracy, m.opts.Stars)
	m.outcome = &outcomeView{
		result:  result,
		stars:   stars,
		message: stats.RatingMessage(stars),
		advice:  stats.Recommendations(result.WPM, result.Accuracy),
		goalMet: stats.LevelGoalMet(result, m.currentLevel()),
		newBest: newBest,
	}
	m.refreshWeakSet()
}

func (m *Model) tick() tea.Cmd {
	gen := m.tickGen
	return tea.Tick(m.opts.StatsInterval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func (m *Model) switchLevel(delta int) {
	count := len(m.opts.Levels)
	if count == 0 {
		return
	}
	m.levelIdx = (m.levelIdx + delta + count) % count
	m.rec.SaveLevel(context.Background(), m.currentLevel().ID)
	m.engine.Reset()
	m.nextText()
}

func (m *Model) currentLevel() model.Level {
	if len(m.opts.Levels) == 0 {
		return model.Level{}
	}
	return m.opts.Levels[m.levelIdx]
}

func (m *Model) nextText() {
	m.phase = phaseReady
	m.buffer = nil
	m.outcome = nil
	m.errMsg = ""
	m.flash = model.OutcomeNone
	m.pressed = 0
	m.live = model.LiveStats{Accuracy: 100}

	level := m.currentLevel()
	var weak map[rune]struct{}
	if m.opts.FocusWeak {
		weak = m.weakSet
	}
	text, err := m.picker.PickWeighted(level.ID, weak, m.opts.WeakFactor)
	if err != nil {
		m.logger.Error("failed to pick text", "level", level.ID, "err", err)
		m.errMsg = err.Error()
		m.text = nil
		return
	}
	m.text = []rune(text)
	m.layout = m.resolveLayout(text)
	m.live.TargetText = text
	m.live.Level = level.ID
}

func (m *Model) resolveLayout(text string) *keyboard.Layout {
	if m.opts.Layout == "" || m.opts.Layout == "auto" {
		return keyboard.Detect(text)
	}
	l, err := keyboard.ByID(m.opts.Layout)
	if err != nil {
		m.logger.Warn("falling back to detected keyboard layout", "err", err)
		return keyboard.Detect(text)
	}
	return l
}

func (m *Model) refreshWeakSet() {
	if !m.opts.FocusWeak {
		return
	}
	aggs := stats.AggregateChars(m.rec.History(), m.opts.WeakWindow)
	m.weakSet = stats.SelectWeakChars(aggs, m.opts.WeakTop)
	if len(m.weakSet) == 0 {
		m.logger.Info("no stats available for weak-char focus yet; using uniform text choice")
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if len(m.text) == 0 {
		if m.errMsg != "" {
			return errorStyle.Render(m.errMsg)
		}
		return ""
	}
	cells := styleTarget(m.text, m.buffer)
	if m.width == 0 || m.height == 0 {
		return joinCells(cells)
	}
	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 1
	}

	sections := []string{m.renderHeader(), "", wrapCells(cells, contentWidth), "", m.renderLiveStats()}
	if m.opts.ShowKeyboard && m.layout != nil && m.outcome == nil && contentWidth >= keyboardWidth {
		sections = append(sections, "", renderKeyboard(m.layout, m.nextRune(), m.pressed, m.flash))
	}
	if m.outcome != nil {
		sections = append(sections, "", m.renderOutcome())
	}
	if m.errMsg != "" {
		sections = append(sections, "", errorStyle.Render(m.errMsg))
	}
	content := lipgloss.NewStyle().Width(contentWidth).Render(strings.Join(sections, "\n"))

	footer := m.renderFooter()
	if m.height < 4 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 2
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	helpLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, m.help.View(m.keys))
	return body + "\n" + footerLine + "\n" + helpLine
}

func (m *Model) renderHeader() string {
	level := m.currentLevel()
	parts := []string{fmt.Sprintf("Level: %s", level.Name)}
	if level.TargetWPM > 0 {
		parts = append(parts, fmt.Sprintf("goal %d cpm", level.TargetWPM))
	}
	if level.MaxErrors > 0 {
		parts = append(parts, fmt.Sprintf("max %d errors", level.MaxErrors))
	}
	if m.opts.FocusWeak && len(m.weakSet) > 0 {
		parts = append(parts, fmt.Sprintf("focus %d weak chars", len(m.weakSet)))
	}
	return headerStyle.Render(strings.Join(parts, " · "))
}

func (m *Model) renderLiveStats() string {
	snap := m.live.Snapshot
	total := len(m.text)
	pos := len(m.buffer)
	if snap.Active || m.phase == phaseDone {
		pos = snap.Position
	}
	pct := 0
	if total > 0 {
		pct = pos * 100 / total
	}

	segments := []string{
		"Time " + stats.FormatDuration(m.live.ElapsedMs),
		fmt.Sprintf("Speed %d cpm", m.live.WPM),
		fmt.Sprintf("Accuracy %d%%", m.live.Accuracy),
		fmt.Sprintf("Errors %d", m.live.Errors),
		fmt.Sprintf("Progress %d/%d (%d%%)", pos, total, pct),
	}
	if pos < total {
		segments = append(segments, "Next "+nextKeyHint(m.layout, m.text[pos]))
	}
	line := strings.Join(segments, "  ")
	switch m.flash {
	case model.OutcomeCorrect:
		line = goodStyle.Render("●") + " " + line
	case model.OutcomeIncorrect:
		line = errorStyle.Render("●") + " " + line
	default:
		line = "  " + line
	}
	if m.phase == phaseReady {
		line += footerStyle.Render("  (start typing)")
	}
	return line
}

func (m *Model) renderOutcome() string {
	o := m.outcome
	lines := []string{
		starStyle.Render(stats.Stars(o.stars)) + "  " + o.message,
		fmt.Sprintf("Speed %d cpm · Accuracy %d%% · Errors %d · Time %s",
			o.result.WPM, o.result.Accuracy, o.result.Errors, stats.FormatDuration(o.result.DurationMs)),
	}
	level := m.currentLevel()
	if o.goalMet {
		lines = append(lines, goodStyle.Render("Level goal met"))
	} else {
		lines = append(lines, errorStyle.Render(fmt.Sprintf("Level goal: %d cpm with at most %d errors", level.TargetWPM, level.MaxErrors)))
	}
	if o.newBest {
		lines = append(lines, starStyle.Render("New personal best!"))
	}
	for _, tip := range o.advice {
		lines = append(lines, "- "+tip)
	}
	lines = append(lines, footerStyle.Render("Press enter for the next text"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	var segments []string
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %d cpm · %d%%", m.last.WPM, m.last.Accuracy))
	}
	if m.best.MaxSpeed > 0 {
		segments = append(segments, fmt.Sprintf("Best %d cpm", m.best.MaxSpeed))
	}
	if m.best.HasDuration() {
		segments = append(segments, "Fastest "+stats.FormatDuration(m.best.MinDurationMs))
	}
	if m.best.HasErrors() {
		segments = append(segments, fmt.Sprintf("Fewest errors %d", m.best.MinErrors))
	}
	if len(segments) == 0 {
		return ""
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

// nextRune is the character the user should type next, or 0.
func (m *Model) nextRune() rune {
	pos := len(m.buffer)
	if pos >= len(m.text) {
		return 0
	}
	return m.text[pos]
}

func keyHint(r rune) string {
	if r == ' ' {
		return "‹space›"
	}
	return "‹" + string(r) + "›"
}
