package service

import (
	"sort"
	"time"

	"github.com/samy1995/Mealwise/internal/model"
)

const (
	HistoryPageSize = 30
	DeleteWindow    = 2500 * time.Millisecond
	dayLayout       = "2006-01-02"
)

type DayGroup struct {
	Date    string
	IsToday bool
	Label   string
	Meals   []model.MealLog
	Totals  model.NutritionInfo
}

// GroupByLocalDay buckets meals by the viewer's calendar date in loc, newest
// day first. Meals keep their incoming order inside a day.
func GroupByLocalDay(meals []model.MealLog, loc *time.Location, now time.Time) []DayGroup {
	if loc == nil {
		loc = time.Local
	}
	today := now.In(loc).Format(dayLayout)
	index := map[string]int{}
	var groups []DayGroup
	for _, m := range meals {
		local := m.Date.In(loc)
		key := local.Format(dayLayout)
		i, ok := index[key]
		if !ok {
			label := local.Format("Mon, Jan 2")
			if key == today {
				label = "Today"
			}
			groups = append(groups, DayGroup{Date: key, IsToday: key == today, Label: label, Totals: zeroNutrition()})
			i = len(groups) - 1
			index[key] = i
		}
		groups[i].Meals = append(groups[i].Meals, m)
		groups[i].Totals = AddNutrition(groups[i].Totals, m.Totals)
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Date > groups[b].Date
	})
	return groups
}

// TodayTotals sums the meals logged on the viewer's current date.
func TodayTotals(meals []model.MealLog, loc *time.Location, now time.Time) model.NutritionInfo {
	if loc == nil {
		loc = time.Local
	}
	today := now.In(loc).Format(dayLayout)
	total := zeroNutrition()
	for _, m := range meals {
		if m.Date.In(loc).Format(dayLayout) == today {
			total = AddNutrition(total, m.Totals)
		}
	}
	return total
}

type DeleteTap int

const (
	DeleteArmed DeleteTap = iota
	DeleteConfirmed
)

// DeleteConfirmer requires a second tap on the same entry within
// DeleteWindow before a delete goes through.
type DeleteConfirmer struct {
	Window  time.Duration
	armedID string
	armedAt time.Time
}

func (c *DeleteConfirmer) window() time.Duration {
	if c.Window <= 0 {
		return DeleteWindow
	}
	return c.Window
}

func (c *DeleteConfirmer) Tap(id string, now time.Time) DeleteTap {
	if c.armedID == id && now.Sub(c.armedAt) <= c.window() {
		c.Disarm()
		return DeleteConfirmed
	}
	c.armedID = id
	c.armedAt = now
	return DeleteArmed
}

// Armed reports the entry awaiting confirmation, if the window is still open.
func (c *DeleteConfirmer) Armed(now time.Time) (string, bool) {
	if c.armedID == "" || now.Sub(c.armedAt) > c.window() {
		return "", false
	}
	return c.armedID, true
}

func (c *DeleteConfirmer) Disarm() {
	c.armedID = ""
	c.armedAt = time.Time{}
}
