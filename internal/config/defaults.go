package config

import "github.com/verte-zerg/typetrainer/internal/model"

// Built-in defaults.
const (
	DefaultLevel           = "medium"
	DefaultLayout          = "auto"
	DefaultStatsIntervalMs = 100
	DefaultMaxTextLength   = 10000
	DefaultMaxHistoryItems = 100
	DefaultKeyPrefix       = "typing_trainer_"
	DefaultWeakTop         = 8
	DefaultWeakFactor      = 2.0
	DefaultWeakWindow      = 20
)

// DefaultStars returns the built-in star thresholds.
func DefaultStars() model.ThresholdTable {
	return model.ThresholdTable{
		1: {MinWPM: 20, MinAccuracy: 70},
		2: {MinWPM: 40, MinAccuracy: 80},
		3: {MinWPM: 60, MinAccuracy: 85},
		4: {MinWPM: 80, MinAccuracy: 90},
		5: {MinWPM: 100, MinAccuracy: 95},
	}
}

// DefaultLevels returns the built-in difficulty levels, easiest first.
func DefaultLevels() []model.Level {
	return []model.Level{
		{
			ID:          "beginner",
			Name:        "Pinky",
			Description: "Little finger drills",
			TargetWPM:   15,
			MaxErrors:   10,
			Texts: []string{
				"fff jjj fff jjj ffj jjf fjf jfj",
				"ааа ооо ааа ооо аао оо аоа оао",
				"ссс ллл ссс ллл сл лс слс лсл",
			},
		},
		{
			ID:          "easy",
			Name:        "Ring",
			Description: "Ring finger drills",
			TargetWPM:   25,
			MaxErrors:   8,
			Texts: []string{
				"дом вода рука нога глаз рот нос ухо",
				"мама папа сын дочь семья дети родные",
				"стол стул окно дверь комната кухня дом",
			},
		},
		{
			ID:          "medium",
			Name:        "Middle",
			Description: "Middle finger drills",
			TargetWPM:   40,
			MaxErrors:   6,
			Texts: []string{
				"быстрая коричневая лиса прыгает через ленивую собаку",
				"программирование это искусство решения проблем с помощью кода",
				"тренировка помогает развить мышечную память пальцев рук",
			},
		},
		{
			ID:          "hard",
			Name:        "Left index",
			Description: "Left index finger drills",
			TargetWPM:   60,
			MaxErrors:   4,
			Texts: []string{
				"В современном мире скорость печати является важным профессиональным навыком",
				"Технологии развиваются стремительными темпами, требуя новых цифровых умений",
				"Эффективность работы программиста напрямую связана с владением клавиатурой",
			},
		},
		{
			ID:          "expert",
			Name:        "Right index",
			Description: "Right index finger drills",
			TargetWPM:   80,
			MaxErrors:   3,
			Texts: []string{
				"Квалифицированный разработчик программного обеспечения должен владеть слепым методом печати",
				"Профессиональное развитие специалиста требует постоянного совершенствования технических навыков",
				"Автоматизация рутинных процессов существенно повышает общую продуктивность команды",
			},
		},
		{
			ID:          "master",
			Name:        "Thumb",
			Description: "Advanced level",
			TargetWPM:   100,
			MaxErrors:   2,
			Texts: []string{
				"Как ни редко встречается настоящая любовь, настоящая дружба встречается ещё реже",
				"Великие дела совершаются не силой, а постоянством, терпением и неуклонным движением к цели",
				"Истинное образование состоит не в механическом накоплении фактов, а в развитии способности критически мыслить",
			},
		},
	}
}
