package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/attendance-insights-api/internal/models"
)

// dayEvents emits `present` present and `absent` absent events on the given
// calendar day.
func dayEvents(day time.Time, present, absent int) []models.AttendanceEvent {
	events := make([]models.AttendanceEvent, 0, present+absent)
	for i := 0; i < present; i++ {
		events = append(events, mkEvent(models.StatusPresent, day.Add(8*time.Hour+time.Duration(i)*time.Minute)))
	}
	for i := 0; i < absent; i++ {
		events = append(events, mkEvent(models.StatusAbsent, day.Add(8*time.Hour+time.Duration(present+i)*time.Minute)))
	}
	return events
}

func TestAnalyzeStreaksGoodThenPoorRun(t *testing.T) {
	start := time.Date(2025, time.August, 4, 0, 0, 0, 0, time.UTC)

	var events []models.AttendanceEvent
	for i := 0; i < 5; i++ { // five good days, 100%
		events = append(events, dayEvents(start.AddDate(0, 0, i), 10, 0)...)
	}
	for i := 5; i < 7; i++ { // two poor days, 50%
		events = append(events, dayEvents(start.AddDate(0, 0, i), 5, 5)...)
	}

	result := AnalyzeStreaks(events, 0.85)
	require.Len(t, result.Data, 7)

	assert.Equal(t, 5, result.Stats.MaxGoodStreak)
	assert.Equal(t, 2, result.Stats.MaxPoorStreak)
	assert.Equal(t, 2, result.Stats.CurrentStreak)
	assert.Equal(t, models.StreakPoor, result.Stats.CurrentStreakType)
	assert.Equal(t, 5, result.Stats.TotalGoodDays)
	assert.Equal(t, 2, result.Stats.TotalPoorDays)

	// the sixth day starts the poor run
	sixth := result.Data[5]
	assert.True(t, sixth.IsBreakPoint)
	assert.False(t, sixth.IsGoodDay)
	assert.Equal(t, -1, sixth.SignedRunLength)
	assert.Equal(t, models.StreakPoor, sixth.StreakType)

	fifth := result.Data[4]
	assert.False(t, fifth.IsBreakPoint)
	assert.Equal(t, 5, fifth.SignedRunLength)
}

func TestAnalyzeStreaksThresholdIsInclusive(t *testing.T) {
	day := time.Date(2025, time.August, 4, 0, 0, 0, 0, time.UTC)

	// exactly 17/20 = 0.85 counts as good
	result := AnalyzeStreaks(dayEvents(day, 17, 3), 0.85)
	require.Len(t, result.Data, 1)
	assert.True(t, result.Data[0].IsGoodDay)

	// 16/20 = 0.80 does not
	result = AnalyzeStreaks(dayEvents(day, 16, 4), 0.85)
	require.Len(t, result.Data, 1)
	assert.False(t, result.Data[0].IsGoodDay)
}

func TestAnalyzeStreaksTrailingRunFoldsIntoMax(t *testing.T) {
	start := time.Date(2025, time.August, 4, 0, 0, 0, 0, time.UTC)

	var events []models.AttendanceEvent
	events = append(events, dayEvents(start, 5, 5)...)
	for i := 1; i < 4; i++ { // trailing good run never broken
		events = append(events, dayEvents(start.AddDate(0, 0, i), 10, 0)...)
	}

	result := AnalyzeStreaks(events, 0)
	assert.Equal(t, 3, result.Stats.MaxGoodStreak)
	assert.Equal(t, 1, result.Stats.MaxPoorStreak)
	assert.Equal(t, 3, result.Stats.CurrentStreak)
	assert.Equal(t, models.StreakGood, result.Stats.CurrentStreakType)
}

func TestAnalyzeStreaksDaysSortedAcrossMonths(t *testing.T) {
	var events []models.AttendanceEvent
	events = append(events, dayEvents(time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC), 10, 0)...)
	events = append(events, dayEvents(time.Date(2025, time.August, 30, 0, 0, 0, 0, time.UTC), 2, 8)...)

	result := AnalyzeStreaks(events, 0.85)
	require.Len(t, result.Data, 2)
	assert.Equal(t, "2025-08-30", result.Data[0].Date)
	assert.Equal(t, "2025-09-01", result.Data[1].Date)
}

func TestAnalyzeStreaksEmpty(t *testing.T) {
	result := AnalyzeStreaks(nil, 0.85)
	assert.Empty(t, result.Data)
	assert.NotNil(t, result.Data)
	assert.Equal(t, 0, result.Stats.CurrentStreak)
}
