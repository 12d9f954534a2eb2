package stats

import (
	"sort"

	"github.com/verte-zerg/typetrainer/internal/model"
)

// AggregateChars sums per-character stats over the newest window results.
// Results are expected newest first; window <= 0 uses all of them.
func AggregateChars(results []model.SessionResult, window int) []model.CharAggregate {
	if window > 0 && len(results) > window {
		results = results[:window]
	}
	byChar := map[string]*model.CharAggregate{}
	for _, r := range results {
		for _, cs := range r.Chars {
			agg, ok := byChar[cs.Char]
			if !ok {
				agg = &model.CharAggregate{Char: cs.Char}
				byChar[cs.Char] = agg
			}
			agg.Correct += cs.Correct
			agg.Incorrect += cs.Incorrect
			agg.LatencySumMs += cs.LatencySumMs
			agg.LatencyCount += cs.LatencyCount
		}
	}
	out := make([]model.CharAggregate, 0, len(byChar))
	for _, agg := range byChar {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Char < out[j].Char })
	return out
}

// SelectWeakChars selects the lowest-accuracy characters from aggregates.
// Characters that were never mistyped are not weak.
func SelectWeakChars(aggs []model.CharAggregate, top int) map[rune]struct{} {
	weak := map[rune]struct{}{}
	candidates := make([]model.CharAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Incorrect > 0 {
			candidates = append(candidates, agg)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		ai, aj := charAccuracy(candidates[i]), charAccuracy(candidates[j])
		if ai == aj {
			return candidates[i].Char < candidates[j].Char
		}
		return ai < aj
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for _, c := range candidates[:top] {
		runes := []rune(c.Char)
		if len(runes) > 0 {
			weak[runes[0]] = struct{}{}
		}
	}
	return weak
}

// TopCharsByFrequency returns the n most typed characters, ties broken alphabetically.
func TopCharsByFrequency(aggs []model.CharAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	sorted := make([]model.CharAggregate, len(aggs))
	copy(sorted, aggs)
	sort.Slice(sorted, func(i, j int) bool {
		ti := sorted[i].Correct + sorted[i].Incorrect
		tj := sorted[j].Correct + sorted[j].Incorrect
		if ti == tj {
			return sorted[i].Char < sorted[j].Char
		}
		return ti > tj
	})
	n = min(n, len(sorted))
	out := make([]string, n)
	for i := range out {
		out[i] = sorted[i].Char
	}
	return out
}

func charAccuracy(agg model.CharAggregate) float64 {
	total := agg.Correct + agg.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(agg.Correct) / float64(total)
}

func avgLatency(agg model.CharAggregate) float64 {
	if agg.LatencyCount == 0 {
		return 0
	}
	return float64(agg.LatencySumMs) / float64(agg.LatencyCount)
}
