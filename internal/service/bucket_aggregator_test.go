package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/attendance-insights-api/internal/models"
)

func mkEvent(status models.EventStatus, occurredAt time.Time) models.AttendanceEvent {
	return models.AttendanceEvent{
		ID:         "evt-" + occurredAt.Format("20060102150405"),
		ActorType:  models.ActorStudent,
		ActorID:    "actor-1",
		Status:     status,
		OccurredAt: occurredAt,
	}
}

func boundsOf(start, end time.Time) models.DateRange {
	return models.DateRange{Start: &start, End: &end}
}

func TestBucketEventsDayOfWeek(t *testing.T) {
	monday := time.Date(2025, time.August, 11, 9, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	events := []models.AttendanceEvent{
		mkEvent(models.StatusPresent, monday),
		mkEvent(models.StatusPresent, monday.Add(time.Hour)),
		mkEvent(models.StatusAbsent, monday.Add(2*time.Hour)),
		mkEvent(models.StatusPresent, tuesday),
	}

	series := BucketEvents(events, models.GranularityDayOfWeek, boundsOf(monday, tuesday.Add(24*time.Hour)))
	require.Len(t, series, 2)

	assert.Equal(t, "Monday", series[0].Label)
	assert.Equal(t, 3, series[0].TotalCount)
	assert.Equal(t, 2, series[0].PresentCount)
	assert.Equal(t, 66.67, series[0].AttendanceRate)

	assert.Equal(t, "Tuesday", series[1].Label)
	assert.Equal(t, 1, series[1].TotalCount)
	assert.Equal(t, 100.0, series[1].AttendanceRate)
}

func TestBucketEventsHourlyDropsEmptySlots(t *testing.T) {
	day := time.Date(2025, time.August, 15, 0, 0, 0, 0, time.UTC)
	events := []models.AttendanceEvent{
		mkEvent(models.StatusPresent, day.Add(8*time.Hour)),
		mkEvent(models.StatusLate, day.Add(8*time.Hour+30*time.Minute)),
		mkEvent(models.StatusPresent, day.Add(14*time.Hour)),
	}

	series := BucketEvents(events, models.GranularityHour, boundsOf(day, day.Add(24*time.Hour)))
	require.Len(t, series, 2)

	assert.Equal(t, "08:00", series[0].Label)
	assert.Equal(t, 2, series[0].TotalCount)
	assert.Equal(t, 50.0, series[0].AttendanceRate)
	assert.Equal(t, "14:00", series[1].Label)
}

func TestBucketEventsDayOfMonthAnchorsOnRangeStart(t *testing.T) {
	start := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	events := []models.AttendanceEvent{
		mkEvent(models.StatusPresent, start.AddDate(0, 0, 2)),
		mkEvent(models.StatusAbsent, start.AddDate(0, 0, 27)),
		// outside the anchored month, must be ignored
		mkEvent(models.StatusPresent, start.AddDate(0, 1, 5)),
	}

	series := BucketEvents(events, models.GranularityDayOfMonth, boundsOf(start, end))
	require.Len(t, series, 2)
	assert.Equal(t, "Feb 3", series[0].Label)
	assert.Equal(t, "Feb 28", series[1].Label)
	assert.Equal(t, 0.0, series[1].AttendanceRate)
}

func TestBucketEventsWeekOfQuarter(t *testing.T) {
	start := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 3, 0)
	events := []models.AttendanceEvent{
		mkEvent(models.StatusPresent, start.Add(2*time.Hour)),
		mkEvent(models.StatusPresent, start.AddDate(0, 0, 8)),
		mkEvent(models.StatusAbsent, start.AddDate(0, 0, 8).Add(time.Hour)),
	}

	series := BucketEvents(events, models.GranularityWeekOfQuarter, boundsOf(start, end))
	require.Len(t, series, 2)
	assert.Equal(t, "Week 1", series[0].Label)
	assert.Equal(t, "Week 2", series[1].Label)
	assert.Equal(t, 50.0, series[1].AttendanceRate)
}

func TestBucketEventsInclusiveEndOnWeekBoundary(t *testing.T) {
	start := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 14)
	events := []models.AttendanceEvent{
		mkEvent(models.StatusPresent, start.AddDate(0, 0, 3)),
		// exactly the inclusive range end, two whole weeks after the anchor
		mkEvent(models.StatusPresent, end),
	}

	series := BucketEvents(events, models.GranularityWeekOfQuarter, boundsOf(start, end))
	require.Len(t, series, 2)
	assert.Equal(t, "Week 1", series[0].Label)
	assert.Equal(t, "Week 3", series[1].Label)

	total := 0
	for _, bucket := range series {
		total += bucket.TotalCount
	}
	assert.Equal(t, len(events), total)
}

func TestBucketEventsEmptyInput(t *testing.T) {
	start := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)
	series := BucketEvents(nil, models.GranularityMonth, boundsOf(start, start.AddDate(1, 0, 0)))
	assert.Empty(t, series)
	assert.NotNil(t, series)
}
