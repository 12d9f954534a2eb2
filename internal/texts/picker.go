// Package texts selects practice texts for a difficulty level.
package texts

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

var (
	// ErrUnknownLevel is returned when no texts are registered for a level.
	ErrUnknownLevel = errors.New("unknown level")
	// ErrNoTexts is returned when a level has an empty text list.
	ErrNoTexts = errors.New("level has no texts")
)

// Picker chooses practice texts at random, never repeating the previous
// text of a level when another one is available.
type Picker struct {
	mu     sync.Mutex
	rnd    *rand.Rand
	levels map[string][]string
	last   map[string]int
}

// New returns a Picker seeded with the current time.
func New(levels map[string][]string) *Picker {
	return NewWithSource(levels, rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource returns a Picker using the given random source.
func NewWithSource(levels map[string][]string, src rand.Source) *Picker {
	copied := make(map[string][]string, len(levels))
	for id, list := range levels {
		copied[id] = append([]string(nil), list...)
	}
	return &Picker{
		rnd:    rand.New(src),
		levels: copied,
		last:   map[string]int{},
	}
}

// Pick selects a text uniformly.
func (p *Picker) Pick(level string) (string, error) {
	return p.PickWeighted(level, nil, 0)
}

// PickWeighted selects a text with a bias toward texts containing weak characters.
// Each text weighs 1 + weakCount*factor.
func (p *Picker) PickWeighted(level string, weakSet map[rune]struct{}, factor float64) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	list, ok := p.levels[level]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}
	if len(list) == 0 {
		return "", fmt.Errorf("%w: %q", ErrNoTexts, level)
	}

	prev, hasPrev := p.last[level]
	weights := make([]float64, len(list))
	total := 0.0
	for i, text := range list {
		if hasPrev && i == prev && len(list) > 1 {
			continue
		}
		w := 1.0
		if len(weakSet) > 0 && factor > 0 {
			w += float64(WeakCount(text, weakSet)) * factor
		}
		weights[i] = w
		total += w
	}

	r := p.rnd.Float64() * total
	acc := 0.0
	idx := -1
	for i, w := range weights {
		if w == 0 {
			continue
		}
		idx = i
		acc += w
		if r < acc {
			break
		}
	}
	p.last[level] = idx
	return list[idx], nil
}

// WeakCount returns how many runes of text belong to weakSet.
func WeakCount(text string, weakSet map[rune]struct{}) int {
	n := 0
	for _, r := range text {
		if _, ok := weakSet[r]; ok {
			n++
		}
	}
	return n
}
