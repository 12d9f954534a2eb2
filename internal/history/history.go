// Package history keeps the bounded log of completed sessions and the best-of record.
//
// All state lives in a Store instance backed by an injected key-value
// collaborator. Every write persists the full current value, so a failed
// write is repaired by the next successful one; failures are logged and
// never surface to the caller.
package history

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/verte-zerg/typetrainer/internal/model"
)

// DefaultMaxItems bounds the history when no limit is configured.
const DefaultMaxItems = 100

// KV is the persistence collaborator.
type KV interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

// Keys are the storage keys used by the Store.
type Keys struct {
	Best    string
	History string
	Level   string
}

// DefaultKeys builds the key set for a namespace prefix.
func DefaultKeys(prefix string) Keys {
	return Keys{
		Best:    prefix + "best_stats",
		History: prefix + "test_history",
		Level:   prefix + "current_level",
	}
}

// Store owns the in-memory history and best record.
type Store struct {
	mu       sync.Mutex
	kv       KV
	keys     Keys
	maxItems int
	logger   *slog.Logger

	history []model.SessionResult
	best    model.BestStats
}

// Option configures a Store.
type Option func(*Store)

// WithMaxItems sets the history bound; n <= 0 keeps DefaultMaxItems.
func WithMaxItems(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxItems = n
		}
	}
}

// WithKeys overrides the storage keys.
func WithKeys(k Keys) Option {
	return func(s *Store) {
		s.keys = k
	}
}

// WithLogger sets the logger used for swallowed persistence errors.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Store with empty state. Call Load to read persisted data.
func New(kv KV, opts ...Option) *Store {
	s := &Store{
		kv:       kv,
		keys:     DefaultKeys("typing_trainer_"),
		maxItems: DefaultMaxItems,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		best:     model.DefaultBest(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxItems returns the history bound.
func (s *Store) MaxItems() int {
	return s.maxItems
}

// Load reads history and best stats from the key-value store.
func (s *Store) Load(ctx context.Context) {
	s.LoadHistory(ctx)
	s.LoadBest(ctx)
}

// LoadHistory reads the history, newest first. Missing or corrupt data yields an empty history.
func (s *Store) LoadHistory(ctx context.Context) []model.SessionResult {
	var loaded []model.SessionResult
	found, err := s.kv.Get(ctx, s.keys.History, &loaded)
	switch {
	case err != nil:
		s.logger.Warn("discarding unreadable history", "key", s.keys.History, "err", err)
		loaded = nil
	case !found:
		loaded = nil
	}
	if len(loaded) > s.maxItems {
		loaded = loaded[:s.maxItems]
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = loaded
	return cloneResults(s.history)
}

// LoadBest reads the best record. Missing, corrupt or out-of-range fields fall back to defaults.
func (s *Store) LoadBest(ctx context.Context) model.BestStats {
	loaded := model.DefaultBest()
	found, err := s.kv.Get(ctx, s.keys.Best, &loaded)
	switch {
	case err != nil:
		s.logger.Warn("discarding unreadable best stats", "key", s.keys.Best, "err", err)
		loaded = model.DefaultBest()
	case !found:
		loaded = model.DefaultBest()
	}
	loaded = sanitizeBest(loaded)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.best = loaded
	return s.best
}

// History returns a copy of the in-memory history, newest first.
func (s *Store) History() []model.SessionResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneResults(s.history)
}

// Best returns the in-memory best record.
func (s *Store) Best() model.BestStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.best
}

// Append inserts result at the head, evicts the oldest entries beyond the bound
// and persists the whole history.
func (s *Store) Append(ctx context.Context, result model.SessionResult) {
	s.mu.Lock()
	next := make([]model.SessionResult, 0, min(len(s.history)+1, s.maxItems))
	next = append(next, result)
	next = append(next, s.history...)
	if len(next) > s.maxItems {
		next = next[:s.maxItems]
	}
	s.history = next
	snapshot := cloneResults(next)
	s.mu.Unlock()

	s.persist(ctx, s.keys.History, snapshot)
}

// UpdateBest improves each best-of metric independently and reports whether anything changed.
// Ties keep the existing record. Nothing is written when no metric improved.
func (s *Store) UpdateBest(ctx context.Context, result model.SessionResult) bool {
	s.mu.Lock()
	best := s.best
	changed := false
	if result.DurationMs > 0 && result.DurationMs < best.MinDurationMs {
		best.MinDurationMs = result.DurationMs
		changed = true
	}
	if result.WPM > best.MaxSpeed {
		best.MaxSpeed = result.WPM
		changed = true
	}
	if result.Errors >= 0 && int64(result.Errors) < best.MinErrors {
		best.MinErrors = int64(result.Errors)
		changed = true
	}
	if changed {
		s.best = best
	}
	s.mu.Unlock()

	if changed {
		s.persist(ctx, s.keys.Best, best)
	}
	return changed
}

// Record appends result to the history and updates the best record.
func (s *Store) Record(ctx context.Context, result model.SessionResult) bool {
	s.Append(ctx, result)
	return s.UpdateBest(ctx, result)
}

// ResetBest clears the best record and persists the cleared value.
func (s *Store) ResetBest(ctx context.Context) {
	s.mu.Lock()
	s.best = model.DefaultBest()
	best := s.best
	s.mu.Unlock()
	s.persist(ctx, s.keys.Best, best)
}

// LoadLevel returns the remembered difficulty level.
func (s *Store) LoadLevel(ctx context.Context) (string, bool) {
	var level string
	found, err := s.kv.Get(ctx, s.keys.Level, &level)
	if err != nil {
		s.logger.Warn("discarding unreadable level", "key", s.keys.Level, "err", err)
		return "", false
	}
	if !found || level == "" {
		return "", false
	}
	return level, true
}

// SaveLevel remembers the difficulty level.
func (s *Store) SaveLevel(ctx context.Context, level string) {
	s.persist(ctx, s.keys.Level, level)
}

func (s *Store) persist(ctx context.Context, key string, value any) {
	if err := s.kv.Set(ctx, key, value); err != nil {
		s.logger.Warn("failed to persist", "key", key, "err", err)
	}
}

func sanitizeBest(b model.BestStats) model.BestStats {
	if b.MinDurationMs <= 0 {
		b.MinDurationMs = model.NoDuration
	}
	if b.MaxSpeed < 0 {
		b.MaxSpeed = 0
	}
	if b.MinErrors < 0 {
		b.MinErrors = model.NoErrors
	}
	return b
}

func cloneResults(in []model.SessionResult) []model.SessionResult {
	if in == nil {
		return nil
	}
	out := make([]model.SessionResult, len(in))
	copy(out, in)
	return out
}
