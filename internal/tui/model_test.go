package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typetrainer/internal/model"
	"github.com/verte-zerg/typetrainer/internal/session"
)

type fakeRecorder struct {
	history []model.SessionResult
	best    model.BestStats
	levels  []string
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{best: model.DefaultBest()}
}

func (r *fakeRecorder) Record(_ context.Context, res model.SessionResult) bool {
	r.history = append([]model.SessionResult{res}, r.history...)
	if res.WPM > r.best.MaxSpeed {
		r.best.MaxSpeed = res.WPM
		return true
	}
	return false
}

func (r *fakeRecorder) History() []model.SessionResult { return r.history }

func (r *fakeRecorder) Best() model.BestStats { return r.best }

func (r *fakeRecorder) SaveLevel(_ context.Context, level string) {
	r.levels = append(r.levels, level)
}

type fakePicker struct {
	texts map[string]string
	calls int
}

func (p *fakePicker) PickWeighted(level string, _ map[rune]struct{}, _ float64) (string, error) {
	p.calls++
	return p.texts[level], nil
}

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time { return c.t }

func testLevels() []model.Level {
	return []model.Level{
		{ID: "easy", Name: "Easy", TargetWPM: 10, MaxErrors: 2},
		{ID: "hard", Name: "Hard", TargetWPM: 500, MaxErrors: 0},
	}
}

func newTestModel(t *testing.T) (*Model, *fakeRecorder, *clock) {
	t.Helper()
	rec := newFakeRecorder()
	picker := &fakePicker{texts: map[string]string{"easy": "кот", "hard": "a b"}}
	c := &clock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	m := NewModel(Options{
		Levels: testLevels(),
		Level:  "easy",
		Stars:  model.ThresholdTable{1: {MinWPM: 20, MinAccuracy: 70}},
	}, rec, picker, session.WithClock(c.now))
	return m, rec, c
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTypingCompletesAndRecords(t *testing.T) {
	m, rec, c := newTestModel(t)
	require.Equal(t, phaseReady, m.phase)

	_, cmd := m.Update(runes("к"))
	assert.NotNil(t, cmd, "first keystroke starts polling")
	assert.Equal(t, phaseTyping, m.phase)
	assert.Equal(t, model.OutcomeCorrect, m.flash)

	c.t = c.t.Add(time.Second)
	m.Update(runes("x"))
	assert.Equal(t, model.OutcomeIncorrect, m.flash)
	assert.Equal(t, 1, m.live.Errors)

	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "к", string(m.buffer))
	assert.Equal(t, 1, m.live.Errors)

	m.Update(runes("о"))
	m.Update(runes("т"))

	require.Equal(t, phaseDone, m.phase)
	require.Len(t, rec.history, 1)
	res := rec.history[0]
	assert.Equal(t, "easy", res.Level)
	assert.Equal(t, 1, res.Errors)
	assert.Equal(t, int64(1000), res.DurationMs)
	require.NotNil(t, m.outcome)
	assert.Equal(t, res.WPM, m.outcome.result.WPM)
	assert.Equal(t, 120, res.WPM)
	assert.True(t, m.outcome.goalMet)
	assert.True(t, m.outcome.newBest)
	assert.True(t, m.hasLast)

	// Further typing is ignored until a new text is requested.
	m.Update(runes("z"))
	assert.Equal(t, "кот", string(m.buffer))

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, phaseReady, m.phase)
	assert.Nil(t, m.outcome)
	assert.Empty(t, m.buffer)
}

func TestPasteIsClampedToTarget(t *testing.T) {
	m, rec, _ := newTestModel(t)
	m.Update(runes("котик"))
	assert.Equal(t, "кот", string(m.buffer))
	assert.Equal(t, phaseDone, m.phase)
	require.Len(t, rec.history, 1)
	assert.Equal(t, 0, rec.history[0].Errors)
}

func TestResetDiscardsSession(t *testing.T) {
	m, rec, _ := newTestModel(t)
	m.Update(runes("к"))
	require.True(t, m.engine.Active())

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.engine.Active())
	assert.Equal(t, phaseReady, m.phase)
	assert.Empty(t, m.buffer)
	assert.Empty(t, rec.history)

	// A tick from the discarded session is ignored.
	_, cmd := m.Update(tickMsg{gen: m.tickGen})
	assert.Nil(t, cmd)
}

func TestStaleTickIgnored(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.Update(runes("к"))
	_, cmd := m.Update(tickMsg{gen: m.tickGen - 1})
	assert.Nil(t, cmd)
	_, cmd = m.Update(tickMsg{gen: m.tickGen})
	assert.NotNil(t, cmd)
	assert.Equal(t, model.OutcomeNone, m.flash)
	assert.Equal(t, 1, m.live.Position)
}

func TestSwitchLevelSavesAndPicksText(t *testing.T) {
	m, rec, _ := newTestModel(t)
	m.Update(runes("к"))

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "hard", m.currentLevel().ID)
	assert.Equal(t, []string{"hard"}, rec.levels)
	assert.Equal(t, "a b", string(m.text))
	assert.False(t, m.engine.Active())

	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, "easy", m.currentLevel().ID)
	assert.Equal(t, []string{"hard", "easy"}, rec.levels)
}

func TestLiveStatsShowsProgressAndHint(t *testing.T) {
	m, _, _ := newTestModel(t)
	line := m.renderLiveStats()
	assert.Contains(t, line, "Progress 0/3 (0%)")
	assert.Contains(t, line, "Next ‹к›")

	m.Update(runes("к"))
	line = m.renderLiveStats()
	assert.Contains(t, line, "Progress 1/3 (33%)")
	assert.Contains(t, line, "Next ‹о›")
}

func TestRenderFooterFormats(t *testing.T) {
	m := &Model{
		hasLast: true,
		last:    model.SessionResult{WPM: 72, Accuracy: 98},
		best:    model.BestStats{MinDurationMs: 65000, MaxSpeed: 210, MinErrors: 0},
	}
	out := m.renderFooter()
	for _, want := range []string{"Last 72 cpm · 98%", "Best 210 cpm", "Fastest 01:05", "Fewest errors 0"} {
		assert.True(t, strings.Contains(out, want), "footer missing %q: %s", want, out)
	}

	empty := &Model{best: model.DefaultBest()}
	assert.Equal(t, "", empty.renderFooter())
}

func TestViewRendersText(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	out := m.View()
	assert.Contains(t, out, "Level: Easy")
	assert.Contains(t, out, "к")
}

func TestKeystrokeHighlightsPressedKey(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.NotContains(t, m.View(), "space")

	m.opts.ShowKeyboard = true
	require.Equal(t, "ru", m.layout.ID)
	assert.Contains(t, m.View(), "space")

	m.Update(runes("л"))
	assert.Equal(t, 'л', m.pressed)
	assert.Equal(t, model.OutcomeIncorrect, m.flash)
	pressed := lookupKey(m.layout, 'л')
	require.NotNil(t, pressed)
	assert.Equal(t, capIncorrect, keyState(*pressed, lookupKey(m.layout, m.nextRune()), lookupKey(m.layout, m.pressed), m.flash))

	m.Update(tickMsg{gen: m.tickGen})
	assert.Equal(t, rune(0), m.pressed)
	assert.Equal(t, model.OutcomeNone, m.flash)

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "en", m.layout.ID)
}

func TestFixedLayoutOverridesDetection(t *testing.T) {
	picker := &fakePicker{texts: map[string]string{"easy": "кот"}}
	m := NewModel(Options{Levels: testLevels(), Level: "easy", Layout: "en"}, newFakeRecorder(), picker)
	assert.Equal(t, "en", m.layout.ID)
	assert.Contains(t, m.renderLiveStats(), "Next ‹к›")
}
