package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/typetrainer/internal/model"
)

var testTable = model.ThresholdTable{
	1: {MinWPM: 20, MinAccuracy: 70},
	2: {MinWPM: 40, MinAccuracy: 80},
	3: {MinWPM: 60, MinAccuracy: 85},
	4: {MinWPM: 80, MinAccuracy: 90},
	5: {MinWPM: 100, MinAccuracy: 95},
}

func TestSpeed(t *testing.T) {
	tests := []struct {
		name      string
		correct   int
		elapsedMs int64
		want      int
	}{
		{"one minute", 2, 60000, 2},
		{"half minute", 30, 30000, 60},
		{"rounds half up", 5, 120000, 3},
		{"zero elapsed", 100, 0, 0},
		{"negative elapsed", 100, -5, 0},
		{"zero correct", 0, 60000, 0},
		{"negative correct", -3, 60000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Speed(tt.correct, tt.elapsedMs))
		})
	}
}

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name   string
		total  int
		errors int
		want   int
	}{
		{"no input", 0, 0, 100},
		{"perfect", 10, 0, 100},
		{"one of three wrong", 3, 1, 67},
		{"all wrong", 4, 4, 0},
		{"more errors than chars", 2, 5, 0},
		{"negative errors", 5, -1, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Accuracy(tt.total, tt.errors))
		})
	}
}

func TestAccuracyBounds(t *testing.T) {
	for total := 0; total <= 50; total++ {
		for errs := 0; errs <= total; errs++ {
			got := Accuracy(total, errs)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		}
	}
}

func TestRating(t *testing.T) {
	tests := []struct {
		name string
		wpm  int
		acc  int
		want int
	}{
		{"nothing met", 10, 100, 0},
		{"exact one star boundary", 20, 70, 1},
		{"speed without accuracy", 120, 75, 1},
		{"three stars", 65, 88, 3},
		{"five stars", 100, 95, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rating(tt.wpm, tt.acc, testTable))
		})
	}
}

func TestRatingMonotonic(t *testing.T) {
	for acc := 0; acc <= 100; acc += 5 {
		prev := 0
		for wpm := 0; wpm <= 150; wpm += 3 {
			got := Rating(wpm, acc, testTable)
			assert.GreaterOrEqual(t, got, prev, "wpm=%d acc=%d", wpm, acc)
			prev = got
		}
	}
	for wpm := 0; wpm <= 150; wpm += 10 {
		prev := 0
		for acc := 0; acc <= 100; acc++ {
			got := Rating(wpm, acc, testTable)
			assert.GreaterOrEqual(t, got, prev, "wpm=%d acc=%d", wpm, acc)
			prev = got
		}
	}
}

func TestRatingEmptyTable(t *testing.T) {
	assert.Equal(t, 0, Rating(500, 100, nil))
}

func TestStarsAndDuration(t *testing.T) {
	assert.Equal(t, "★★★☆☆", Stars(3))
	assert.Equal(t, "☆☆☆☆☆", Stars(-1))
	assert.Equal(t, "★★★★★", Stars(9))
	assert.Equal(t, "01:05", FormatDuration(65400))
	assert.Equal(t, "00:00", FormatDuration(-10))
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	assert.Equal(t, []float64{2, 3, 5, 7}, got)
	assert.Equal(t, []float64{1, 2}, MovingAverage([]float64{1, 2}, 0))
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "", Sparkline(nil))
	assert.Equal(t, "+++", Sparkline([]float64{5, 5, 5}))
	assert.Equal(t, " @", Sparkline([]float64{0, 10}))
}

func TestRecommendations(t *testing.T) {
	slow := Recommendations(10, 80)
	assert.Contains(t, slow, "Focus on correct finger placement")
	assert.Contains(t, slow, "Pay more attention to accuracy than speed")
	fast := Recommendations(150, 99)
	assert.Len(t, fast, 2)
	assert.Equal(t, RatingMessage(0), RatingMessage(42))
}

func TestLevelGoalMet(t *testing.T) {
	level := model.Level{ID: "medium", TargetWPM: 40, MaxErrors: 6}
	assert.True(t, LevelGoalMet(model.SessionResult{WPM: 40, Errors: 6}, level))
	assert.False(t, LevelGoalMet(model.SessionResult{WPM: 39, Errors: 0}, level))
	assert.False(t, LevelGoalMet(model.SessionResult{WPM: 90, Errors: 7}, level))
	assert.True(t, LevelGoalMet(model.SessionResult{}, model.Level{}))
}
