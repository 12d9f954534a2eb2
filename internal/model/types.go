// Package model defines shared data structures.
package model

import (
	"math"
	"time"
)

// Outcome classifies a keystroke against the target text.
type Outcome int

const (
	// OutcomeNone means nothing was appended by the input event.
	OutcomeNone Outcome = iota
	// OutcomeCorrect means every appended character matched the target.
	OutcomeCorrect
	// OutcomeIncorrect means at least one appended character mismatched.
	OutcomeIncorrect
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCorrect:
		return "correct"
	case OutcomeIncorrect:
		return "incorrect"
	default:
		return "none"
	}
}

// Snapshot is a read-only view of the active session.
type Snapshot struct {
	TargetText string
	TypedText  string
	Position   int
	Errors     int
	Active     bool
	ElapsedMs  int64
	Level      string
}

// LiveStats is the snapshot plus derived metrics for a periodic display refresh.
type LiveStats struct {
	Snapshot
	TotalChars int
	WPM        int
	Accuracy   int
}

// InputResult is returned for every submitted input buffer.
type InputResult struct {
	Outcome   Outcome
	Clamped   bool
	Snapshot  Snapshot
	Completed *SessionResult
}

// CharStats stores per-character stats for a session.
type CharStats struct {
	Char         string `json:"char"`
	Correct      int    `json:"correct"`
	Incorrect    int    `json:"incorrect"`
	LatencySumMs int64  `json:"latencySumMs,omitempty"`
	LatencyCount int64  `json:"latencyCount,omitempty"`
}

// CharAggregate aggregates character stats across sessions.
type CharAggregate struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// SessionResult captures a completed typing session.
type SessionResult struct {
	ID         string      `json:"id"`
	Timestamp  time.Time   `json:"timestamp"`
	Level      string      `json:"level"`
	Text       string      `json:"text"`
	WPM        int         `json:"wpm"`
	Accuracy   int         `json:"accuracy"`
	Errors     int         `json:"errors"`
	DurationMs int64       `json:"duration"`
	TotalChars int         `json:"totalChars"`
	Chars      []CharStats `json:"chars,omitempty"`
}

// Sentinels for best-of fields that have no value yet.
const (
	NoDuration int64 = math.MaxInt64
	NoErrors   int64 = math.MaxInt64
)

// BestStats keeps the best value ever seen per metric.
type BestStats struct {
	MinDurationMs int64 `json:"time"`
	MaxSpeed      int   `json:"speed"`
	MinErrors     int64 `json:"minErrors"`
}

// DefaultBest returns a record where every metric is still open.
func DefaultBest() BestStats {
	return BestStats{MinDurationMs: NoDuration, MaxSpeed: 0, MinErrors: NoErrors}
}

// HasDuration reports whether a best duration was recorded.
func (b BestStats) HasDuration() bool {
	return b.MinDurationMs != NoDuration
}

// HasErrors reports whether a best error count was recorded.
func (b BestStats) HasErrors() bool {
	return b.MinErrors != NoErrors
}

// Threshold is the minimum speed and accuracy for a star count.
type Threshold struct {
	MinWPM      int
	MinAccuracy int
}

// ThresholdTable maps star counts 1..5 to their thresholds.
type ThresholdTable map[int]Threshold

// Level is a difficulty level with its candidate texts.
type Level struct {
	ID          string
	Name        string
	Description string
	TargetWPM   int
	MaxErrors   int
	Texts       []string
}

// StatsConfig defines filters and options for history reports.
type StatsConfig struct {
	Level       string
	Since       *time.Time
	Last        int
	CurveWindow int
	TopChars    int
}
