package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/typetrainer/internal/keyboard"
	"github.com/verte-zerg/typetrainer/internal/model"
	"github.com/verte-zerg/typetrainer/internal/texts"
)

// Settings is the resolved configuration used by the application.
type Settings struct {
	Level           string
	StatsInterval   time.Duration
	MaxTextLength   int
	MaxHistoryItems int
	KeyPrefix       string
	DBPath          string
	FocusWeak       bool
	WeakTop         int
	WeakFactor      float64
	WeakWindow      int
	Layout          string
	ShowKeyboard    bool
	Stars           model.ThresholdTable
	Levels          []model.Level
}

// Defaults returns settings with every built-in default applied.
func Defaults() Settings {
	return Settings{
		Level:           DefaultLevel,
		StatsInterval:   DefaultStatsIntervalMs * time.Millisecond,
		MaxTextLength:   DefaultMaxTextLength,
		MaxHistoryItems: DefaultMaxHistoryItems,
		KeyPrefix:       DefaultKeyPrefix,
		DBPath:          DefaultDBPath(),
		WeakTop:         DefaultWeakTop,
		WeakFactor:      DefaultWeakFactor,
		WeakWindow:      DefaultWeakWindow,
		Layout:          DefaultLayout,
		ShowKeyboard:    true,
		Stars:           DefaultStars(),
		Levels:          DefaultLevels(),
	}
}

// Resolve merges a file config over the defaults and validates the result.
func Resolve(fc FileConfig) (Settings, error) {
	s := Defaults()

	p := fc.Practice
	setString(&s.Level, p.Level)
	if p.StatsIntervalMs != nil {
		s.StatsInterval = time.Duration(*p.StatsIntervalMs) * time.Millisecond
	}
	setInt(&s.MaxTextLength, p.MaxTextLength)
	if p.FocusWeak != nil {
		s.FocusWeak = *p.FocusWeak
	}
	setInt(&s.WeakTop, p.WeakTop)
	if p.WeakFactor != nil {
		s.WeakFactor = *p.WeakFactor
	}
	setInt(&s.WeakWindow, p.WeakWindow)
	setString(&s.Layout, p.Layout)
	if p.Keyboard != nil {
		s.ShowKeyboard = *p.Keyboard
	}

	setInt(&s.MaxHistoryItems, fc.Storage.MaxHistoryItems)
	setString(&s.KeyPrefix, fc.Storage.KeyPrefix)
	setString(&s.DBPath, fc.Storage.DBPath)

	for key, star := range fc.Rating.Stars {
		n, err := strconv.Atoi(key)
		if err != nil || n < 1 || n > 5 {
			return Settings{}, fmt.Errorf("rating.stars key %q must be 1-5", key)
		}
		th := s.Stars[n]
		setInt(&th.MinWPM, star.MinWPM)
		setInt(&th.MinAccuracy, star.MinAccuracy)
		s.Stars[n] = th
	}

	levels, err := mergeLevels(s.Levels, fc.Levels)
	if err != nil {
		return Settings{}, err
	}
	s.Levels = levels

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func mergeLevels(base []model.Level, overrides map[string]LevelConfig) ([]model.Level, error) {
	index := make(map[string]int, len(base))
	for i, l := range base {
		index[l.ID] = i
	}
	ids := make([]string, 0, len(overrides))
	for id := range overrides {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		lc := overrides[id]
		i, ok := index[id]
		if !ok {
			base = append(base, model.Level{ID: id, Name: id})
			i = len(base) - 1
			index[id] = i
		}
		l := &base[i]
		setString(&l.Name, lc.Name)
		setString(&l.Description, lc.Description)
		setInt(&l.TargetWPM, lc.TargetWPM)
		setInt(&l.MaxErrors, lc.MaxErrors)
		var replaced []string
		if len(lc.Texts) > 0 {
			replaced = append(replaced, lc.Texts...)
		}
		if lc.TextsFile != nil {
			lines, err := texts.LoadLines(*lc.TextsFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load texts for level %q: %w", id, err)
			}
			replaced = append(replaced, lines...)
		}
		if len(replaced) > 0 {
			l.Texts = replaced
		}
	}
	return base, nil
}

// Validate checks ranges and that every level has usable texts.
func (s Settings) Validate() error {
	if s.StatsInterval <= 0 {
		return fmt.Errorf("stats-interval-ms must be > 0")
	}
	if s.MaxTextLength < 0 {
		return fmt.Errorf("max-text-length must be >= 0")
	}
	if s.MaxHistoryItems <= 0 {
		return fmt.Errorf("max-history-items must be > 0")
	}
	if s.KeyPrefix == "" {
		return fmt.Errorf("key-prefix must not be empty")
	}
	if s.WeakTop < 0 {
		return fmt.Errorf("weak-top must be >= 0")
	}
	if s.WeakFactor < 0 {
		return fmt.Errorf("weak-factor must be >= 0")
	}
	if s.WeakWindow < 0 {
		return fmt.Errorf("weak-window must be >= 0")
	}
	if s.Layout != DefaultLayout {
		if _, err := keyboard.ByID(s.Layout); err != nil {
			return err
		}
	}
	for n, th := range s.Stars {
		if th.MinWPM < 0 {
			return fmt.Errorf("rating.stars.%d min-wpm must be >= 0", n)
		}
		if th.MinAccuracy < 0 || th.MinAccuracy > 100 {
			return fmt.Errorf("rating.stars.%d min-accuracy must be between 0 and 100", n)
		}
	}
	if len(s.Levels) == 0 {
		return fmt.Errorf("no levels configured")
	}
	for _, l := range s.Levels {
		if len(l.Texts) == 0 {
			return fmt.Errorf("level %q has no texts", l.ID)
		}
		for i, text := range l.Texts {
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("level %q text %d is empty", l.ID, i+1)
			}
			if s.MaxTextLength > 0 && len([]rune(text)) > s.MaxTextLength {
				return fmt.Errorf("level %q text %d exceeds max-text-length", l.ID, i+1)
			}
		}
	}
	if _, ok := s.LevelByID(s.Level); !ok {
		return fmt.Errorf("unknown level %q (available: %s)", s.Level, strings.Join(s.LevelIDs(), ", "))
	}
	return nil
}

// LevelByID looks up a level.
func (s Settings) LevelByID(id string) (model.Level, bool) {
	for _, l := range s.Levels {
		if l.ID == id {
			return l, true
		}
	}
	return model.Level{}, false
}

// LevelIDs returns level ids in display order.
func (s Settings) LevelIDs() []string {
	ids := make([]string, len(s.Levels))
	for i, l := range s.Levels {
		ids[i] = l.ID
	}
	return ids
}

// LevelTexts maps level ids to their candidate texts.
func (s Settings) LevelTexts() map[string][]string {
	out := make(map[string][]string, len(s.Levels))
	for _, l := range s.Levels {
		out[l.ID] = l.Texts
	}
	return out
}

func setString(target, value *string) {
	if value != nil {
		*target = *value
	}
}

func setInt(target, value *int) {
	if value != nil {
		*target = *value
	}
}
