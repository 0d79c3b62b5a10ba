package service

import (
	"math/rand"
	"time"

	"github.com/samy1995/Mealwise/internal/model"
)

const homeStatsSample = 20

type HomeCategory string

const (
	HomeDefault   HomeCategory = "default"
	HomeActive    HomeCategory = "active"
	HomeHomebound HomeCategory = "homebound"
)

var homeMessages = map[HomeCategory][]string{
	HomeDefault: {
		"Small choices count. One good meal can reset a day.",
		"Consistency beats perfection. You’re building a pattern.",
		"Every bite is a chance to nourish your story.",
		"A balanced plate is a balanced mind.",
		"Nourishment is the best form of self-care.",
		"Slow down and savor the flavors of today.",
		"Wellness starts with a single choice.",
	},
	HomeActive: {
		"Amazing streak! You're really mastering your kitchen habits.",
		"Your data shows real progress. Keep that momentum!",
		"Consistency is your superpower. Keep logging!",
		"You're becoming a true nutrition architect.",
	},
	HomeHomebound: {
		"Home cooking is your strength. Your body thanks you!",
		"The best meals are made with intention in your own kitchen.",
		"Your home-to-ordered ratio is looking excellent!",
	},
}

type WeekStats struct {
	WeekCount int
	HomeRatio float64
}

// RecentWeekStats looks at meals logged in the 7 days before now.
func RecentWeekStats(meals []model.MealLog, now time.Time) WeekStats {
	weekAgo := now.Add(-7 * 24 * time.Hour)
	var week, home int
	for _, m := range meals {
		if !m.Date.After(weekAgo) {
			continue
		}
		week++
		if m.Source == model.SourceHome {
			home++
		}
	}
	s := WeekStats{WeekCount: week}
	if week > 0 {
		s.HomeRatio = float64(home) / float64(week)
	}
	return s
}

func (s WeekStats) Category() HomeCategory {
	switch {
	case s.WeekCount > 5:
		return HomeActive
	case s.HomeRatio > 0.7:
		return HomeHomebound
	default:
		return HomeDefault
	}
}

// HomeMessage picks an encouragement line for the week's category.
func HomeMessage(stats WeekStats, rng *rand.Rand) string {
	pool := homeMessages[stats.Category()]
	if rng == nil {
		return pool[rand.Intn(len(pool))]
	}
	return pool[rng.Intn(len(pool))]
}

// HomeStatsQuery is the page fetched for the home screen.
func HomeStatsQuery() MealQuery {
	return MealQuery{Page: 0, PageSize: homeStatsSample}
}
