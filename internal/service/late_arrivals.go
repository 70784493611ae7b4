package service

import (
	"fmt"
	"time"

	"github.com/campushq/attendance-insights-api/internal/models"
)

// LateArrivals distributes late events across hour-of-day slots for
// single-day views and day-of-week slots otherwise. Slots that saw no events
// at all are dropped; slots with events but no late arrivals are kept with
// rate 0 so the series has a denominator everywhere it appears.
func LateArrivals(events []models.AttendanceEvent, granularity models.Granularity) []models.LateBucket {
	hourly := granularity == models.GranularityHour

	slots := 7
	if hourly {
		slots = 24
	}
	buckets := make([]models.LateBucket, slots)
	for i := range buckets {
		buckets[i].Index = i
		if hourly {
			buckets[i].Label = fmt.Sprintf("%02d:00", i)
		} else {
			buckets[i].Label = time.Weekday(i).String()
		}
	}

	for _, event := range events {
		ts := event.OccurredAt.UTC()
		idx := int(ts.Weekday())
		if hourly {
			idx = ts.Hour()
		}
		buckets[idx].TotalCount++
		if event.Status == models.StatusLate {
			buckets[idx].LateCount++
		}
	}

	series := make([]models.LateBucket, 0, slots)
	for _, bucket := range buckets {
		if bucket.TotalCount == 0 {
			continue
		}
		bucket.LateRate = percentage(bucket.LateCount, bucket.TotalCount)
		series = append(series, bucket)
	}
	return series
}
