package stub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibeflo/vibeflo-go/pkg/models"
)

func day(now time.Time, daysAgo int) string {
	return now.AddDate(0, 0, -daysAgo).Format(time.RFC3339)
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := computeStats(nil, time.Now())

	assert.Zero(t, stats.TotalSessions)
	assert.NotNil(t, stats.Last7Days)
	assert.NotNil(t, stats.Last30Days)
	assert.NotNil(t, stats.AllTime)
	assert.Nil(t, stats.MostProductiveDay)
	assert.Zero(t, stats.CurrentStreak)
}

func TestComputeStatsWindows(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)
	sessions := []models.Session{
		{Duration: 25, Completed: true, CreatedAt: day(now, 0)},
		{Duration: 50, Completed: true, CreatedAt: day(now, 0)},
		{Duration: 25, Completed: false, CreatedAt: day(now, 10)}, // outside 7d, inside 30d
		{Duration: 25, Completed: true, CreatedAt: day(now, 40)},  // outside both windows
	}

	stats := computeStats(sessions, now)

	assert.Equal(t, 4, stats.TotalSessions)
	assert.Equal(t, 3, stats.CompletedSessions)
	assert.Equal(t, 125, stats.TotalFocusTime)

	todayKey := now.Format(dayKeyFormat)
	assert.Equal(t, 2, stats.Last7Days[todayKey].Count)
	assert.Equal(t, 75, stats.Last7Days[todayKey].TotalMinutes)
	assert.Len(t, stats.Last7Days, 1)
	assert.Len(t, stats.Last30Days, 2)

	// Every session lands in the all-time weekday rollup.
	total := 0
	for _, entry := range stats.AllTime {
		total += entry.Count
	}
	assert.Equal(t, 4, total)

	assert.InDelta(t, 31.25, stats.AverageSessionMinutes, 0.001)
}

func TestComputeStatsMostProductiveDay(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC) // a Sunday
	sessions := []models.Session{
		{Duration: 100, CreatedAt: day(now, 0)}, // Sunday
		{Duration: 25, CreatedAt: day(now, 1)},  // Saturday
	}

	stats := computeStats(sessions, now)

	require.NotNil(t, stats.MostProductiveDay)
	assert.Equal(t, "Sunday", stats.MostProductiveDay.Day)
	assert.Equal(t, 100, stats.MostProductiveDay.Minutes)
}

func TestCompletionTrend(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)
	sessions := []models.Session{
		{Duration: 25, Completed: true, CreatedAt: day(now, 0)},
		{Duration: 25, Completed: true, CreatedAt: day(now, 1)},
		{Duration: 25, Completed: true, CreatedAt: day(now, 2)},
		{Duration: 25, Completed: true, CreatedAt: day(now, 8)},
		{Duration: 25, Completed: true, CreatedAt: day(now, 9)},
	}

	stats := computeStats(sessions, now)

	// 3 completions this week against 2 the week before.
	assert.InDelta(t, 50.0, stats.CompletionTrend, 0.001)
}

func TestCompletionTrendNoPreviousWeek(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)
	sessions := []models.Session{
		{Duration: 25, Completed: true, CreatedAt: day(now, 0)},
	}

	assert.Zero(t, computeStats(sessions, now).CompletionTrend)
}

func TestComputeStatsNonUTCDayBoundaries(t *testing.T) {
	// 01:00 local in UTC-8 is 09:00 UTC; truncating on absolute epoch
	// boundaries would file this morning's session under yesterday.
	loc := time.FixedZone("UTC-8", -8*60*60)
	now := time.Date(2026, 3, 10, 1, 0, 0, 0, loc)
	sessions := []models.Session{
		{Duration: 25, Completed: true, CreatedAt: now.Format(time.RFC3339)},
	}

	stats := computeStats(sessions, now)

	todayKey := now.Format(dayKeyFormat)
	assert.Equal(t, 1, stats.Last7Days[todayKey].Count, "session keyed to the local calendar day")
	assert.Equal(t, 1, stats.Last30Days[todayKey].Count)
	assert.Equal(t, 1, stats.CurrentStreak)
}

func TestStreak(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)

	// Today, yesterday, two days ago: streak of 3.
	sessions := []models.Session{
		{Duration: 25, CreatedAt: day(now, 0)},
		{Duration: 25, CreatedAt: day(now, 1)},
		{Duration: 25, CreatedAt: day(now, 2)},
		{Duration: 25, CreatedAt: day(now, 5)}, // gap: not part of the streak
	}
	assert.Equal(t, 3, computeStats(sessions, now).CurrentStreak)

	// No session today yet: yesterday's streak still counts.
	sessions = []models.Session{
		{Duration: 25, CreatedAt: day(now, 1)},
		{Duration: 25, CreatedAt: day(now, 2)},
	}
	assert.Equal(t, 2, computeStats(sessions, now).CurrentStreak)

	// Last activity two days ago: streak broken.
	sessions = []models.Session{
		{Duration: 25, CreatedAt: day(now, 2)},
	}
	assert.Zero(t, computeStats(sessions, now).CurrentStreak)
}
