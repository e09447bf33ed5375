package stub

import (
	"time"

	"github.com/vibeflo/vibeflo-go/pkg/models"
)

const dayKeyFormat = "2006-01-02"

// computeStats derives the aggregate the stats endpoint serves from a
// user's sessions. Mirrors the production aggregate: calendar-day
// rollups for the 7- and 30-day windows, weekday rollups for all time,
// plus the derived metrics.
func computeStats(sessions []models.Session, now time.Time) *models.Stats {
	stats := &models.Stats{
		Last7Days:  map[string]models.DayActivity{},
		Last30Days: map[string]models.DayActivity{},
		AllTime:    map[string]models.DayActivity{},
	}

	today := startOfDay(now)
	cutoff7 := today.AddDate(0, 0, -6)
	cutoff30 := today.AddDate(0, 0, -29)

	activeDays := map[string]bool{}

	for _, sess := range sessions {
		stats.TotalSessions++
		if sess.Completed {
			stats.CompletedSessions++
		}
		stats.TotalFocusTime += sess.Duration

		created, err := time.Parse(time.RFC3339, sess.CreatedAt)
		if err != nil {
			continue
		}
		created = created.In(now.Location())
		day := startOfDay(created)
		dayKey := day.Format(dayKeyFormat)
		activeDays[dayKey] = true

		if !day.Before(cutoff7) {
			bump(stats.Last7Days, dayKey, sess.Duration)
		}
		if !day.Before(cutoff30) {
			bump(stats.Last30Days, dayKey, sess.Duration)
		}
		bump(stats.AllTime, created.Weekday().String(), sess.Duration)
	}

	if stats.TotalSessions > 0 {
		stats.AverageSessionMinutes = float64(stats.TotalFocusTime) / float64(stats.TotalSessions)
	}
	stats.MostProductiveDay = mostProductive(stats.AllTime)
	stats.CompletionTrend = completionTrend(sessions, today)
	stats.CurrentStreak = streak(activeDays, today)

	return stats
}

// startOfDay is local midnight in t's location. Truncating on absolute
// 24-hour epoch boundaries would shift day keys for non-UTC times.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func bump(m map[string]models.DayActivity, key string, minutes int) {
	entry := m[key]
	entry.Count++
	entry.TotalMinutes += minutes
	m[key] = entry
}

func mostProductive(allTime map[string]models.DayActivity) *models.ProductiveDay {
	var best *models.ProductiveDay
	// Fixed iteration order keeps the result stable across calls when
	// two days tie.
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := d.String()
		entry, ok := allTime[name]
		if !ok {
			continue
		}
		if best == nil || entry.TotalMinutes > best.Minutes {
			best = &models.ProductiveDay{Day: name, Minutes: entry.TotalMinutes}
		}
	}
	return best
}

// completionTrend is the week-over-week change in completed sessions,
// as a percentage of the previous week. A previous week with no
// completions yields zero rather than a division blowup.
func completionTrend(sessions []models.Session, today time.Time) float64 {
	weekStart := today.AddDate(0, 0, -6)
	prevStart := today.AddDate(0, 0, -13)

	var thisWeek, prevWeek int
	for _, sess := range sessions {
		if !sess.Completed {
			continue
		}
		created, err := time.Parse(time.RFC3339, sess.CreatedAt)
		if err != nil {
			continue
		}
		day := startOfDay(created.In(today.Location()))
		switch {
		case !day.Before(weekStart):
			thisWeek++
		case !day.Before(prevStart):
			prevWeek++
		}
	}

	if prevWeek == 0 {
		return 0
	}
	return float64(thisWeek-prevWeek) / float64(prevWeek) * 100
}

// streak counts consecutive active days ending today (or yesterday, so
// a streak is not broken before the day is over).
func streak(activeDays map[string]bool, today time.Time) int {
	day := today
	if !activeDays[day.Format(dayKeyFormat)] {
		day = day.AddDate(0, 0, -1)
	}

	count := 0
	for activeDays[day.Format(dayKeyFormat)] {
		count++
		day = day.AddDate(0, 0, -1)
	}
	return count
}
