package stats

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/verte-zerg/typetrainer/internal/model"
)

// Report contains precomputed data for history rendering.
type Report struct {
	// Results are newest first.
	Results       []model.SessionResult
	CharAggs      []model.CharAggregate
	SpeedCurve    []float64
	AccuracyCurve []float64
}

// BuildReport filters history and prepares aggregates for rendering.
func BuildReport(history []model.SessionResult, cfg model.StatsConfig) Report {
	results := make([]model.SessionResult, 0, len(history))
	for _, r := range history {
		if cfg.Level != "" && r.Level != cfg.Level {
			continue
		}
		if cfg.Since != nil && r.Timestamp.Before(*cfg.Since) {
			continue
		}
		results = append(results, r)
	}
	if cfg.Last > 0 && len(results) > cfg.Last {
		results = results[:cfg.Last]
	}

	// Curves run oldest to newest.
	speeds := make([]float64, len(results))
	accs := make([]float64, len(results))
	for i, r := range results {
		j := len(results) - 1 - i
		speeds[j] = float64(r.WPM)
		accs[j] = float64(r.Accuracy)
	}

	return Report{
		Results:       results,
		CharAggs:      AggregateChars(results, 0),
		SpeedCurve:    MovingAverage(speeds, cfg.CurveWindow),
		AccuracyCurve: MovingAverage(accs, cfg.CurveWindow),
	}
}

// RenderSummary prints averages and trends for the report.
func RenderSummary(w io.Writer, rep Report) error {
	if len(rep.Results) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalWPM, totalAcc float64
	best := 0
	for _, r := range rep.Results {
		totalWPM += float64(r.WPM)
		totalAcc += float64(r.Accuracy)
		best = max(best, r.WPM)
	}
	count := float64(len(rep.Results))
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(rep.Results)),
		fmt.Sprintf("Avg speed: %.1f cpm", totalWPM/count),
		fmt.Sprintf("Best speed: %d cpm", best),
		fmt.Sprintf("Avg accuracy: %.1f%%", totalAcc/count),
		fmt.Sprintf("Speed trend:    [%s]", Sparkline(rep.SpeedCurve)),
		fmt.Sprintf("Accuracy trend: [%s]", Sparkline(rep.AccuracyCurve)),
		"",
	}
	return writeLines(w, lines)
}

// RenderHistory prints one row per session, newest first.
func RenderHistory(w io.Writer, results []model.SessionResult, table model.ThresholdTable) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	headers := []string{"Date", "Level", "Speed", "Accuracy", "Errors", "Time", "Rating"}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.Timestamp.Local().Format("2006-01-02 15:04"),
			r.Level,
			strconv.Itoa(r.WPM),
			fmt.Sprintf("%d%%", r.Accuracy),
			strconv.Itoa(r.Errors),
			FormatDuration(r.DurationMs),
			Stars(Rating(r.WPM, r.Accuracy, table)),
		})
	}
	lines := formatTable(headers, rows, map[int]bool{2: true, 3: true, 4: true, 5: true})
	return writeLines(w, append([]string{"History"}, append(lines, "")...))
}

// RenderBest prints the best-of record.
func RenderBest(w io.Writer, best model.BestStats) error {
	bestTime, bestSpeed, bestErrors := "-", "-", "-"
	if best.HasDuration() {
		bestTime = FormatDuration(best.MinDurationMs)
	}
	if best.MaxSpeed > 0 {
		bestSpeed = fmt.Sprintf("%d cpm", best.MaxSpeed)
	}
	if best.HasErrors() {
		bestErrors = strconv.FormatInt(best.MinErrors, 10)
	}
	return writeLines(w, []string{
		"Best",
		"Time:   " + bestTime,
		"Speed:  " + bestSpeed,
		"Errors: " + bestErrors,
		"",
	})
}

// RenderCharTable prints per-character aggregates, lowest accuracy first.
// When top > 0 only the most frequently typed characters are listed.
func RenderCharTable(w io.Writer, aggs []model.CharAggregate, top int) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	if top > 0 {
		keep := map[string]struct{}{}
		for _, ch := range TopCharsByFrequency(aggs, top) {
			keep[ch] = struct{}{}
		}
		filtered := make([]model.CharAggregate, 0, len(keep))
		for _, agg := range aggs {
			if _, ok := keep[agg.Char]; ok {
				filtered = append(filtered, agg)
			}
		}
		aggs = filtered
	}
	sorted := make([]model.CharAggregate, len(aggs))
	copy(sorted, aggs)
	sort.Slice(sorted, func(i, j int) bool {
		ai, aj := charAccuracy(sorted[i]), charAccuracy(sorted[j])
		if ai == aj {
			return sorted[i].Char < sorted[j].Char
		}
		return ai < aj
	})

	headers := []string{"Char", "Accuracy", "Avg Latency (ms)", "Correct", "Incorrect"}
	rows := make([][]string, 0, len(sorted))
	for _, agg := range sorted {
		label := agg.Char
		if label == " " {
			label = "<space>"
		}
		rows = append(rows, []string{
			label,
			fmt.Sprintf("%.2f%%", charAccuracy(agg)*100),
			fmt.Sprintf("%.1f", avgLatency(agg)),
			strconv.Itoa(agg.Correct),
			strconv.Itoa(agg.Incorrect),
		})
	}
	lines := formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true})
	return writeLines(w, append([]string{"Per-Character"}, append(lines, "")...))
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderLevels prints the configured difficulty levels, marking the current one.
func RenderLevels(w io.Writer, levels []model.Level, current string) error {
	headers := []string{"", "ID", "Name", "Goal", "Max Errors", "Texts"}
	rows := make([][]string, 0, len(levels))
	for _, l := range levels {
		mark := ""
		if l.ID == current {
			mark = "*"
		}
		rows = append(rows, []string{
			mark,
			l.ID,
			l.Name,
			fmt.Sprintf("%d cpm", l.TargetWPM),
			strconv.Itoa(l.MaxErrors),
			strconv.Itoa(len(l.Texts)),
		})
	}
	return writeLines(w, formatTable(headers, rows, map[int]bool{3: true, 4: true, 5: true}))
}
