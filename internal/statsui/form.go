package statsui

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typetrainer/internal/model"
)

const dateLayout = "2006-01-02"

const (
	fieldLevel = iota
	fieldSince
	fieldLast
	fieldWindow
)

type formAction int

const (
	formEditing formAction = iota
	formApply
	formCancel
)

// filterForm edits the report filters in place.
type filterForm struct {
	inputs []textinput.Model
	focus  int
	err    string
}

func newFilterForm() filterForm {
	specs := []struct{ prompt, placeholder string }{
		fieldLevel:  {"Level          ", "any"},
		fieldSince:  {"Since          ", dateLayout},
		fieldLast:   {"Last sessions  ", "all"},
		fieldWindow: {"Curve window   ", "1"},
	}
	f := filterForm{inputs: make([]textinput.Model, len(specs))}
	for i, s := range specs {
		in := textinput.New()
		in.Prompt = s.prompt
		in.Placeholder = s.placeholder
		in.Cursor.SetMode(cursor.CursorStatic)
		f.inputs[i] = in
	}
	return f
}

// load copies cfg into the inputs and focuses the first one.
func (f *filterForm) load(cfg model.StatsConfig) tea.Cmd {
	f.err = ""
	f.inputs[fieldLevel].SetValue(cfg.Level)
	since := ""
	if cfg.Since != nil {
		since = cfg.Since.Format(dateLayout)
	}
	f.inputs[fieldSince].SetValue(since)
	last := ""
	if cfg.Last > 0 {
		last = strconv.Itoa(cfg.Last)
	}
	f.inputs[fieldLast].SetValue(last)
	f.inputs[fieldWindow].SetValue(strconv.Itoa(cfg.CurveWindow))
	return f.focusField(0)
}

func (f *filterForm) focusField(idx int) tea.Cmd {
	n := len(f.inputs)
	f.focus = ((idx % n) + n) % n
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.focus {
			cmd = f.inputs[i].Focus()
			continue
		}
		f.inputs[i].Blur()
	}
	return cmd
}

func (f *filterForm) setWidth(width int) {
	for i := range f.inputs {
		f.inputs[i].Width = max(10, width-lipgloss.Width(f.inputs[i].Prompt)-2)
	}
}

func (f *filterForm) update(msg tea.KeyMsg) (formAction, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		f.err = ""
		return formCancel, nil
	case tea.KeyEnter:
		return formApply, nil
	case tea.KeyTab, tea.KeyDown:
		return formEditing, f.focusField(f.focus + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return formEditing, f.focusField(f.focus - 1)
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return formEditing, cmd
}

// parse returns base with the form values applied. Empty since and last
// fields clear the filter; an empty window keeps the current one.
func (f *filterForm) parse(base model.StatsConfig) (model.StatsConfig, error) {
	cfg := base
	cfg.Level = f.value(fieldLevel)

	cfg.Since = nil
	if v := f.value(fieldSince); v != "" {
		t, err := time.ParseInLocation(dateLayout, v, time.Local)
		if err != nil {
			return base, errors.New("since must be a date like 2026-01-31")
		}
		cfg.Since = &t
	}

	cfg.Last = 0
	if v := f.value(fieldLast); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return base, errors.New("last must be 0 or a positive number")
		}
		cfg.Last = n
	}

	if v := f.value(fieldWindow); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return base, errors.New("curve window must be at least 1")
		}
		cfg.CurveWindow = n
	}
	return cfg, nil
}

func (f *filterForm) value(field int) string {
	return strings.TrimSpace(f.inputs[field].Value())
}

func (f *filterForm) view() string {
	lines := make([]string, 0, len(f.inputs)+2)
	lines = append(lines, titleStyle.Render("Filters"), "")
	for _, in := range f.inputs {
		lines = append(lines, in.View())
	}
	return strings.Join(lines, "\n")
}
