package config

import "fmt"

// DefaultTemplate returns the commented config file written by `typetrainer config`.
func DefaultTemplate() string {
	stars := DefaultStars()
	return fmt.Sprintf(`# typetrainer configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# level = %q                # Difficulty level id
# stats-interval-ms = %d     # Live stats refresh interval
# max-text-length = %d     # Longest accepted practice text (0 disables the check)
# focus-weak = false          # Prefer texts with weak characters
# weak-top = %d                # Number of weak characters to focus on
# weak-factor = %.1f           # Weight factor for weak characters
# weak-window = %d            # Number of recent sessions to compute weak chars
# layout = "auto"             # Keyboard layout: auto (from the text), ru or en
# keyboard = true             # Show the on-screen keyboard

[storage]
# max-history-items = %d     # Completed sessions kept in history
# key-prefix = %q
# db-path = "/path/to/typetrainer.db"

# Star thresholds: a result earns N stars when both minimums are met.
# [rating.stars.1]
# min-wpm = %d
# min-accuracy = %d
# [rating.stars.5]
# min-wpm = %d
# min-accuracy = %d

# Levels can be overridden by id or added with a new id.
# [levels.custom]
# name = "Custom"
# target-wpm = 50
# max-errors = 5
# texts = ["first practice text", "second practice text"]
# texts-file = "/path/to/texts.txt"   # One text per line
`,
		DefaultLevel,
		DefaultStatsIntervalMs,
		DefaultMaxTextLength,
		DefaultWeakTop,
		DefaultWeakFactor,
		DefaultWeakWindow,
		DefaultMaxHistoryItems,
		DefaultKeyPrefix,
		stars[1].MinWPM,
		stars[1].MinAccuracy,
		stars[5].MinWPM,
		stars[5].MinAccuracy,
	)
}
