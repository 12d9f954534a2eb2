package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const wrongSpaceGlyph = '•'

type cell struct {
	s       string
	width   int
	isSpace bool
}

// styleTarget colors every target rune by its state relative to typed.
// The rune under the cursor is underlined and the current word is highlighted.
func styleTarget(target, typed []rune) []cell {
	cursor := -1
	if len(typed) < len(target) {
		cursor = len(typed)
	}
	word := wordAt(target, cursor)

	out := make([]cell, 0, len(target))
	for i, want := range target {
		shown := want
		style := pendingStyle
		switch {
		case i < len(typed) && want == ' ' && typed[i] != ' ':
			shown = wrongSpaceGlyph
			style = incorrectStyle
		case i < len(typed) && typed[i] == want:
			style = correctStyle
		case i < len(typed):
			style = incorrectStyle
		case want != ' ' && i >= word.start && i < word.end:
			style = currentWordStyle
		}
		if i == cursor {
			style = style.Underline(true)
		}
		out = append(out, cell{
			s:       style.Render(string(shown)),
			width:   runewidth.RuneWidth(shown),
			isSpace: want == ' ',
		})
	}
	return out
}

type span struct {
	start int
	end   int
}

// wordAt returns the word containing idx, or the next word after a space.
// An idx past the end yields an empty span.
func wordAt(target []rune, idx int) span {
	if idx < 0 || idx >= len(target) {
		return span{}
	}
	start := idx
	for start < len(target) && target[start] == ' ' {
		start++
	}
	if start == len(target) {
		return span{}
	}
	for start > 0 && target[start-1] != ' ' {
		start--
	}
	end := start
	for end < len(target) && target[end] != ' ' {
		end++
	}
	return span{start: start, end: end}
}

func joinCells(cells []cell) string {
	var b strings.Builder
	for _, c := range cells {
		b.WriteString(c.s)
	}
	return b.String()
}

// wrapCells breaks lines at spaces so no line is wider than width columns.
// Words longer than a line are split hard.
func wrapCells(cells []cell, width int) string {
	if width <= 0 {
		return joinCells(cells)
	}
	var out strings.Builder
	line := make([]cell, 0, len(cells))
	lineWidth := 0
	lastSpace := -1

	for i := 0; i < len(cells); {
		c := cells[i]
		if lineWidth+c.width > width && len(line) > 0 {
			if lastSpace >= 0 {
				out.WriteString(joinCells(line[:lastSpace]))
				out.WriteRune('\n')
				line = append([]cell{}, line[lastSpace+1:]...)
			} else {
				out.WriteString(joinCells(line))
				out.WriteRune('\n')
				line = line[:0]
			}
			lineWidth, lastSpace = measure(line)
			continue
		}
		line = append(line, c)
		lineWidth += c.width
		if c.isSpace {
			lastSpace = len(line) - 1
		}
		i++
	}
	out.WriteString(joinCells(line))
	return out.String()
}

func measure(line []cell) (width, lastSpace int) {
	lastSpace = -1
	for i, c := range line {
		width += c.width
		if c.isSpace {
			lastSpace = i
		}
	}
	return width, lastSpace
}
