// Package stats contains scoring, statistics calculations and reporting.
package stats

import (
	"fmt"
	"math"
	"strings"

	"github.com/verte-zerg/typetrainer/internal/model"
)

const (
	sparkChars = " .:-=+*#%@"
	maxStars   = 5
	msPerMin   = 60000.0
)

// Speed returns correct characters per minute, rounded.
func Speed(correctChars int, elapsedMs int64) int {
	if elapsedMs <= 0 || correctChars <= 0 {
		return 0
	}
	minutes := float64(elapsedMs) / msPerMin
	return int(math.Round(float64(correctChars) / minutes))
}

// Accuracy returns the percentage of typed characters that matched, in [0, 100].
func Accuracy(totalChars, errors int) int {
	if totalChars <= 0 {
		return 100
	}
	if errors < 0 {
		errors = 0
	}
	if errors >= totalChars {
		return 0
	}
	return int(math.Round(float64(totalChars-errors) / float64(totalChars) * 100))
}

// Rating returns the highest star count whose thresholds are both met, or 0.
func Rating(wpm, accuracy int, table model.ThresholdTable) int {
	for stars := maxStars; stars >= 1; stars-- {
		req, ok := table[stars]
		if !ok {
			continue
		}
		if wpm >= req.MinWPM && accuracy >= req.MinAccuracy {
			return stars
		}
	}
	return 0
}

// Stars renders a 0..5 rating as filled and empty stars.
func Stars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > maxStars {
		n = maxStars
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", maxStars-n)
}

// FormatDuration renders milliseconds as mm:ss.
func FormatDuration(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	total := ms / 1000
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	last := len(sparkChars) - 1
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(last)))
		idx = max(0, min(idx, last))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
