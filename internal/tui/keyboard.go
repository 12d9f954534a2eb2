package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typetrainer/internal/keyboard"
	"github.com/verte-zerg/typetrainer/internal/model"
)

// keyboardWidth is the widest rendered row, the unindented number row.
const keyboardWidth = 13 * 3

var (
	rowIndent = []int{
		keyboard.RowNumbers: 0,
		keyboard.RowTop:     2,
		keyboard.RowHome:    3,
		keyboard.RowBottom:  4,
		keyboard.RowSpace:   9,
	}

	fingerColors = map[keyboard.Finger]lipgloss.Color{
		keyboard.LeftPinky:   lipgloss.Color("#E86A92"),
		keyboard.RightPinky:  lipgloss.Color("#E86A92"),
		keyboard.LeftRing:    lipgloss.Color("#E8A33D"),
		keyboard.RightRing:   lipgloss.Color("#E8A33D"),
		keyboard.LeftMiddle:  lipgloss.Color("#73D13D"),
		keyboard.RightMiddle: lipgloss.Color("#73D13D"),
		keyboard.LeftIndex:   lipgloss.Color("#36CFC9"),
		keyboard.RightIndex:  lipgloss.Color("#4096FF"),
		keyboard.Thumb:       lipgloss.Color("#9254DE"),
	}

	pressedOKStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#141414")).Background(lipgloss.Color("#52C41A")).Bold(true)
	pressedBadStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#141414")).Background(lipgloss.Color("#FF4D4F")).Bold(true)
)

type capState int

const (
	capPlain capState = iota
	capNext
	capCorrect
	capIncorrect
)

func fingerStyle(f keyboard.Finger) lipgloss.Style {
	c, ok := fingerColors[f]
	if !ok {
		return pendingStyle
	}
	return lipgloss.NewStyle().Foreground(c)
}

// keyState decides how a key cap is drawn. The last pressed key shows its
// outcome and wins over the next-key marker.
func keyState(k keyboard.Key, next, pressed *keyboard.Key, outcome model.Outcome) capState {
	if pressed != nil && sameKey(k, *pressed) {
		switch outcome {
		case model.OutcomeCorrect:
			return capCorrect
		case model.OutcomeIncorrect:
			return capIncorrect
		}
	}
	if next != nil && sameKey(k, *next) {
		return capNext
	}
	return capPlain
}

func sameKey(a, b keyboard.Key) bool {
	return a.Row == b.Row && a.Col == b.Col
}

func lookupKey(layout *keyboard.Layout, r rune) *keyboard.Key {
	if r == 0 {
		return nil
	}
	k, _, ok := layout.Lookup(r)
	if !ok {
		return nil
	}
	return &k
}

func renderKeyboard(layout *keyboard.Layout, next, pressed rune, outcome model.Outcome) string {
	nextKey := lookupKey(layout, next)
	pressedKey := lookupKey(layout, pressed)

	rows := layout.Rows()
	lines := make([]string, len(rows))
	for i, row := range rows {
		var b strings.Builder
		b.WriteString(strings.Repeat(" ", rowIndent[i]))
		for _, k := range row {
			b.WriteString(renderCap(k, keyState(k, nextKey, pressedKey, outcome)))
		}
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}

func renderCap(k keyboard.Key, state capState) string {
	label := " " + k.Label() + " "
	if k.IsSpace() {
		label = "[" + strings.Repeat(" ", 7) + k.Label() + strings.Repeat(" ", 7) + "]"
	}
	switch state {
	case capCorrect:
		return pressedOKStyle.Render(label)
	case capIncorrect:
		return pressedBadStyle.Render(label)
	case capNext:
		return fingerStyle(k.Finger).Reverse(true).Bold(true).Render(label)
	default:
		return fingerStyle(k.Finger).Render(label)
	}
}

// nextKeyHint names the next character and the finger that types it.
func nextKeyHint(layout *keyboard.Layout, r rune) string {
	hint := keyHint(r)
	if layout == nil {
		return hint
	}
	k, shift, ok := layout.Lookup(r)
	if !ok {
		return hint
	}
	hint += " " + k.Finger.String()
	if shift {
		hint += " + shift"
	}
	return fingerStyle(k.Finger).Render(hint)
}
