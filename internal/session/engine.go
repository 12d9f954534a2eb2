// Package session runs the typing-session state machine.
//
// An Engine owns at most one session. Input arrives as the full current value
// of the caller's input buffer; every newly appended character is compared
// with the target at its position and mismatches are counted once, at the
// moment they are typed. Errors are never taken back, even when the user
// deletes and retypes a character correctly.
package session

import (
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/typetrainer/internal/model"
	"github.com/verte-zerg/typetrainer/internal/stats"
)

// DefaultMaxTextLength caps the target text, in runes.
const DefaultMaxTextLength = 10000

const previewLen = 100

var (
	// ErrEmptyText is returned by Start when the target text is empty.
	ErrEmptyText = errors.New("session text is empty")
	// ErrTextTooLong is returned by Start when the target text exceeds the configured limit.
	ErrTextTooLong = errors.New("session text is too long")
)

// KeyNotifier receives every classified keystroke. It is advisory: the
// engine ignores what the notifier does with it.
type KeyNotifier interface {
	NotifyKey(typed, expected rune, outcome model.Outcome)
}

// NopNotifier discards key notifications.
type NopNotifier struct{}

// NotifyKey implements KeyNotifier.
func (NopNotifier) NotifyKey(rune, rune, model.Outcome) {}

// CompletionHandler is called once per completed session.
type CompletionHandler func(model.SessionResult)

type charStat struct {
	correct      int
	incorrect    int
	latencySumMs int64
	latencyCount int64
}

type state struct {
	target        []rune
	typed         []rune
	errors        int
	level         string
	startedAt     time.Time
	endedAt       time.Time
	prevCorrectAt time.Time
	active        bool
	chars         map[rune]*charStat
}

// Engine holds the active typing session.
type Engine struct {
	mu  sync.RWMutex
	cur *state

	now        func() time.Time
	notifier   KeyNotifier
	onComplete CompletionHandler
	logger     *slog.Logger
	maxLen     int
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithKeyNotifier registers the keystroke collaborator.
func WithKeyNotifier(n KeyNotifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notifier = n
		}
	}
}

// WithCompletionHandler registers a callback for completed sessions.
func WithCompletionHandler(fn CompletionHandler) Option {
	return func(e *Engine) {
		e.onComplete = fn
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMaxTextLength overrides DefaultMaxTextLength; n <= 0 disables the limit.
func WithMaxTextLength(n int) Option {
	return func(e *Engine) {
		e.maxLen = n
	}
}

// New constructs an Engine with no active session.
func New(opts ...Option) *Engine {
	e := &Engine{
		now:      time.Now,
		notifier: NopNotifier{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxLen:   DefaultMaxTextLength,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start replaces any current session with a fresh one for text.
func (e *Engine) Start(text, level string) error {
	target := []rune(text)
	if len(target) == 0 {
		return ErrEmptyText
	}
	if e.maxLen > 0 && len(target) > e.maxLen {
		return ErrTextTooLong
	}
	next := &state{
		target:    target,
		level:     level,
		startedAt: e.now(),
		active:    true,
		chars:     map[rune]*charStat{},
	}
	e.mu.Lock()
	e.cur = next
	e.mu.Unlock()
	e.logger.Debug("session started", "level", level, "chars", len(target))
	return nil
}

// Reset discards the current session.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.cur = nil
	e.mu.Unlock()
}

type keyEvent struct {
	typed    rune
	expected rune
	outcome  model.Outcome
}

// SubmitInput evaluates the full current value of the input buffer.
func (e *Engine) SubmitInput(value string) model.InputResult {
	e.mu.Lock()
	s := e.cur
	if s == nil || !s.active {
		snap := e.snapshotLocked()
		e.mu.Unlock()
		return model.InputResult{Outcome: model.OutcomeNone, Snapshot: snap}
	}

	input := []rune(value)
	clamped := false
	if len(input) > len(s.target) {
		input = input[:len(s.target)]
		clamped = true
	}

	now := e.now()
	outcome := model.OutcomeNone
	var events []keyEvent
	for i := len(s.typed); i < len(input); i++ {
		ev := keyEvent{typed: input[i], expected: s.target[i], outcome: model.OutcomeCorrect}
		if ev.typed != ev.expected {
			s.errors++
			ev.outcome = model.OutcomeIncorrect
			outcome = model.OutcomeIncorrect
		} else if outcome == model.OutcomeNone {
			outcome = model.OutcomeCorrect
		}
		s.track(ev, now)
		events = append(events, ev)
	}
	s.typed = input

	var completed *model.SessionResult
	if len(s.typed) == len(s.target) {
		s.active = false
		s.endedAt = now
		res := s.result()
		completed = &res
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()

	for _, ev := range events {
		e.notifier.NotifyKey(ev.typed, ev.expected, ev.outcome)
	}
	if completed != nil {
		e.logger.Debug("session completed",
			"level", completed.Level, "wpm", completed.WPM, "accuracy", completed.Accuracy, "errors", completed.Errors)
		if e.onComplete != nil {
			e.onComplete(*completed)
		}
	}
	return model.InputResult{Outcome: outcome, Clamped: clamped, Snapshot: snap, Completed: completed}
}

// Snapshot returns a read-only view of the session.
func (e *Engine) Snapshot() model.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshotLocked()
}

// Live returns the snapshot with speed and accuracy derived from the current counters.
func (e *Engine) Live() model.LiveStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	snap := e.snapshotLocked()
	live := model.LiveStats{Snapshot: snap, Accuracy: 100}
	if e.cur == nil {
		return live
	}
	live.TotalChars = len(e.cur.typed)
	live.WPM = stats.Speed(live.TotalChars-e.cur.errors, snap.ElapsedMs)
	live.Accuracy = stats.Accuracy(live.TotalChars, e.cur.errors)
	return live
}

// Active reports whether a session is accepting input.
func (e *Engine) Active() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cur != nil && e.cur.active
}

func (e *Engine) snapshotLocked() model.Snapshot {
	s := e.cur
	if s == nil {
		return model.Snapshot{}
	}
	return model.Snapshot{
		TargetText: string(s.target),
		TypedText:  string(s.typed),
		Position:   len(s.typed),
		Errors:     s.errors,
		Active:     s.active,
		ElapsedMs:  s.elapsed(e.now()),
		Level:      s.level,
	}
}

func (s *state) elapsed(now time.Time) int64 {
	if s.active {
		return now.Sub(s.startedAt).Milliseconds()
	}
	return s.endedAt.Sub(s.startedAt).Milliseconds()
}

// track updates per-character counters; spaces are not tracked.
func (s *state) track(ev keyEvent, now time.Time) {
	if ev.expected == ' ' {
		return
	}
	entry, ok := s.chars[ev.expected]
	if !ok {
		entry = &charStat{}
		s.chars[ev.expected] = entry
	}
	if ev.outcome == model.OutcomeIncorrect {
		entry.incorrect++
		return
	}
	entry.correct++
	if !s.prevCorrectAt.IsZero() {
		entry.latencySumMs += now.Sub(s.prevCorrectAt).Milliseconds()
		entry.latencyCount++
	}
	s.prevCorrectAt = now
}

func (s *state) result() model.SessionResult {
	total := len(s.typed)
	duration := s.endedAt.Sub(s.startedAt).Milliseconds()
	preview := s.target
	if len(preview) > previewLen {
		preview = preview[:previewLen]
	}

	chars := make([]model.CharStats, 0, len(s.chars))
	for ch, entry := range s.chars {
		chars = append(chars, model.CharStats{
			Char:         string(ch),
			Correct:      entry.correct,
			Incorrect:    entry.incorrect,
			LatencySumMs: entry.latencySumMs,
			LatencyCount: entry.latencyCount,
		})
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i].Char < chars[j].Char })

	return model.SessionResult{
		ID:         uuid.New().String(),
		Timestamp:  s.endedAt,
		Level:      s.level,
		Text:       string(preview) + "...",
		WPM:        stats.Speed(total-s.errors, duration),
		Accuracy:   stats.Accuracy(total, s.errors),
		Errors:     s.errors,
		DurationMs: duration,
		TotalChars: total,
		Chars:      chars,
	}
}
