// Package keyboard maps characters to physical keys and the fingers that
// press them on the supported layouts.
package keyboard

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Finger identifies the finger responsible for a key in touch typing.
type Finger int

const (
	FingerNone Finger = iota
	LeftPinky
	LeftRing
	LeftMiddle
	LeftIndex
	RightIndex
	RightMiddle
	RightRing
	RightPinky
	Thumb
)

var fingerNames = map[Finger]string{
	LeftPinky:   "left pinky",
	LeftRing:    "left ring",
	LeftMiddle:  "left middle",
	LeftIndex:   "left index",
	RightIndex:  "right index",
	RightMiddle: "right middle",
	RightRing:   "right ring",
	RightPinky:  "right pinky",
	Thumb:       "thumb",
}

func (f Finger) String() string {
	if name, ok := fingerNames[f]; ok {
		return name
	}
	return "unknown"
}

// Left reports whether the finger belongs to the left hand.
func (f Finger) Left() bool {
	return f >= LeftPinky && f <= LeftIndex
}

// Row indexes, top to bottom.
const (
	RowNumbers = iota
	RowTop
	RowHome
	RowBottom
	RowSpace
)

// Finger assignment per physical key position. Both layouts share it.
var fingerGrid = [][]Finger{
	RowNumbers: {LeftPinky, LeftPinky, LeftRing, LeftMiddle, LeftIndex, LeftIndex, RightIndex, RightIndex, RightMiddle, RightRing, RightPinky, RightPinky, RightPinky},
	RowTop:     {LeftPinky, LeftRing, LeftMiddle, LeftIndex, LeftIndex, RightIndex, RightIndex, RightMiddle, RightRing, RightPinky, RightPinky, RightPinky},
	RowHome:    {LeftPinky, LeftRing, LeftMiddle, LeftIndex, LeftIndex, RightIndex, RightIndex, RightMiddle, RightRing, RightPinky, RightPinky},
	RowBottom:  {LeftPinky, LeftRing, LeftMiddle, LeftIndex, LeftIndex, RightIndex, RightIndex, RightMiddle, RightRing, RightPinky},
}

// Key is one key of a layout.
type Key struct {
	Row    int
	Col    int
	Lower  rune
	Upper  rune
	Finger Finger
}

// IsSpace reports whether k is the space bar.
func (k Key) IsSpace() bool {
	return k.Row == RowSpace
}

// Label is the glyph printed on the key cap.
func (k Key) Label() string {
	if k.IsSpace() {
		return "space"
	}
	if unicode.IsLetter(k.Lower) {
		return string(unicode.ToUpper(k.Lower))
	}
	return string(k.Lower)
}

// Layout is a keyboard layout with a reverse character index.
type Layout struct {
	ID    string
	Name  string
	rows  [][]Key
	index map[rune]Key
}

// Rows returns the keys row by row, the space bar last.
func (l *Layout) Rows() [][]Key {
	return l.rows
}

// Lookup finds the key that produces r. shift is true when r is the
// upper character of a key whose two characters differ.
func (l *Layout) Lookup(r rune) (key Key, shift bool, ok bool) {
	key, ok = l.index[r]
	if !ok {
		return Key{}, false, false
	}
	return key, r == key.Upper && key.Upper != key.Lower, true
}

// FingerFor returns the finger that types r, or FingerNone.
func (l *Layout) FingerFor(r rune) Finger {
	key, _, ok := l.Lookup(r)
	if !ok {
		return FingerNone
	}
	return key.Finger
}

func newLayout(id, name string, lower, upper [4]string) *Layout {
	l := &Layout{ID: id, Name: name, index: make(map[rune]Key)}
	for row := RowNumbers; row <= RowBottom; row++ {
		lo, up := []rune(lower[row]), []rune(upper[row])
		if len(lo) != len(fingerGrid[row]) || len(up) != len(lo) {
			panic(fmt.Sprintf("keyboard: layout %s row %d has %d/%d keys, want %d", id, row, len(lo), len(up), len(fingerGrid[row])))
		}
		keys := make([]Key, len(lo))
		for col := range lo {
			keys[col] = Key{Row: row, Col: col, Lower: lo[col], Upper: up[col], Finger: fingerGrid[row][col]}
			l.add(lo[col], keys[col])
			l.add(up[col], keys[col])
		}
		l.rows = append(l.rows, keys)
	}
	space := Key{Row: RowSpace, Lower: ' ', Upper: ' ', Finger: Thumb}
	l.rows = append(l.rows, []Key{space})
	l.add(' ', space)
	return l
}

// add keeps the first key registered for r.
func (l *Layout) add(r rune, k Key) {
	if _, exists := l.index[r]; !exists {
		l.index[r] = k
	}
}

var layouts = map[string]*Layout{
	"ru": newLayout("ru", "ЙЦУКЕН", [4]string{
		"ё1234567890-=",
		"йцукенгшщзхъ",
		"фывапролджэ",
		"ячсмитьбю.",
	}, [4]string{
		"Ё!\"№;%:?*()_+",
		"ЙЦУКЕНГШЩЗХЪ",
		"ФЫВАПРОЛДЖЭ",
		"ЯЧСМИТЬБЮ,",
	}),
	"en": newLayout("en", "QWERTY", [4]string{
		"`1234567890-=",
		"qwertyuiop[]",
		"asdfghjkl;'",
		"zxcvbnm,./",
	}, [4]string{
		"~!@#$%^&*()_+",
		"QWERTYUIOP{}",
		"ASDFGHJKL:\"",
		"ZXCVBNM<>?",
	}),
}

// ByID returns a built-in layout.
func ByID(id string) (*Layout, error) {
	l, ok := layouts[id]
	if !ok {
		return nil, fmt.Errorf("unknown keyboard layout %q (available: auto, %s)", id, strings.Join(IDs(), ", "))
	}
	return l, nil
}

// IDs lists the built-in layout ids.
func IDs() []string {
	ids := make([]string, 0, len(layouts))
	for id := range layouts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Detect picks the layout a text is meant for: Cyrillic text uses ru,
// anything else en.
func Detect(text string) *Layout {
	for _, r := range text {
		if unicode.Is(unicode.Cyrillic, r) {
			return layouts["ru"]
		}
	}
	return layouts["en"]
}
