package analysis

import (
	"strings"
	"time"

	"GoldWatch/internal/model"
)

// Trading session windows in minutes-of-day UTC, boundaries inclusive.
var sessions = []struct {
	name       string
	start, end int
}{
	{"ASIAN", 0 * 60, 9 * 60},
	{"LONDON", 8 * 60, 17 * 60},
	{"NY", 13 * 60, 22 * 60},
}

// London/NY overlap window, the most liquid stretch of the day.
const (
	overlapStartHour = 13
	overlapEndHour   = 17
)

// CurrentSession labels the active trading session(s) at now, joined with
// "/" when windows overlap, "OFF-HOURS" outside all of them.
func CurrentSession(now time.Time) string {
	minute := now.UTC().Hour()*60 + now.UTC().Minute()

	var active []string
	for _, s := range sessions {
		if minute >= s.start && minute <= s.end {
			active = append(active, s.name)
		}
	}
	if len(active) == 0 {
		return "OFF-HOURS"
	}
	return strings.Join(active, "/")
}

// NextOverlap reports the next London/NY overlap window: active right
// now, or the minutes until today's (or tomorrow's) 13:00 UTC start.
func NextOverlap(now time.Time) *model.SessionOverlap {
	now = now.UTC()
	if h := now.Hour(); h >= overlapStartHour && h < overlapEndHour {
		return &model.SessionOverlap{Session: "LONDON/NY", MinutesUntil: 0, Active: true}
	}

	start := time.Date(now.Year(), now.Month(), now.Day(), overlapStartHour, 0, 0, 0, time.UTC)
	if now.Hour() >= overlapEndHour {
		start = start.AddDate(0, 0, 1)
	}
	return &model.SessionOverlap{
		Session:      "LONDON/NY",
		MinutesUntil: int(start.Sub(now).Minutes()),
		Active:       false,
	}
}
