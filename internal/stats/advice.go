package stats

import "github.com/verte-zerg/typetrainer/internal/model"

var ratingMessages = map[int]string{
	5: "Outstanding! You are a typing master!",
	4: "Excellent! A high professional level!",
	3: "Good! You are on the right track!",
	2: "Not bad! Keep practicing!",
	1: "A start has been made! Practice more!",
	0: "Don't give up! Practice is the path to perfection!",
}

// RatingMessage returns a short encouragement for a star rating.
func RatingMessage(stars int) string {
	if msg, ok := ratingMessages[stars]; ok {
		return msg
	}
	return ratingMessages[0]
}

// Recommendations suggests what to practice next for the given speed and accuracy.
func Recommendations(wpm, accuracy int) []string {
	var out []string
	switch {
	case wpm < 30:
		out = append(out,
			"Focus on correct finger placement",
			"Start with simple single-letter drills")
	case wpm < 60:
		out = append(out,
			"Raise speed gradually without sacrificing accuracy",
			"Practice difficult letter combinations")
	case wpm < 100:
		out = append(out,
			"Work on a steady typing rhythm",
			"Try texts on different topics")
	default:
		out = append(out,
			"Great result! Keep the skill up",
			"Try typing in other languages")
	}
	switch {
	case accuracy < 90:
		out = append(out,
			"Pay more attention to accuracy than speed",
			"Retype difficult words several times")
	case accuracy < 95:
		out = append(out, "Good accuracy, work on problem letters")
	}
	return out
}

// LevelGoalMet reports whether a result reaches the level's speed target within its error budget.
// Levels without targets are always met.
func LevelGoalMet(result model.SessionResult, level model.Level) bool {
	if level.TargetWPM > 0 && result.WPM < level.TargetWPM {
		return false
	}
	if level.MaxErrors > 0 && result.Errors > level.MaxErrors {
		return false
	}
	return true
}
