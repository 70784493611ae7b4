package service

import (
	"fmt"
	"math"
	"time"

	"github.com/campushq/attendance-insights-api/internal/models"
)

// BucketEvents groups events into time buckets at the requested granularity
// using UTC calendar fields, so results do not depend on the server timezone.
// A dense skeleton is built first (24 hour slots, 7 weekday slots, and so on)
// and buckets left empty are dropped from the returned series.
func BucketEvents(events []models.AttendanceEvent, granularity models.Granularity, rng models.DateRange) []models.TimeBucket {
	axis := newBucketAxis(granularity, rng, events)
	if len(axis.slots) == 0 {
		return []models.TimeBucket{}
	}

	for _, event := range events {
		idx, ok := axis.index(event.OccurredAt.UTC())
		if !ok {
			continue
		}
		axis.slots[idx].TotalCount++
		if event.Status == models.StatusPresent {
			axis.slots[idx].PresentCount++
		}
	}

	series := make([]models.TimeBucket, 0, len(axis.slots))
	for _, bucket := range axis.slots {
		if bucket.TotalCount == 0 {
			continue
		}
		bucket.AttendanceRate = percentage(bucket.PresentCount, bucket.TotalCount)
		series = append(series, bucket)
	}
	return series
}

// bucketAxis holds the dense slot skeleton and the anchor used to map an
// instant onto a slot index.
type bucketAxis struct {
	granularity models.Granularity
	anchor      time.Time
	slots       []models.TimeBucket
}

func newBucketAxis(granularity models.Granularity, rng models.DateRange, events []models.AttendanceEvent) bucketAxis {
	axis := bucketAxis{granularity: granularity}

	switch granularity {
	case models.GranularityHour:
		axis.slots = make([]models.TimeBucket, 0, 24)
		for hour := 0; hour < 24; hour++ {
			axis.slots = append(axis.slots, models.TimeBucket{Label: fmt.Sprintf("%02d:00", hour), Index: hour})
		}

	case models.GranularityDayOfWeek:
		axis.slots = make([]models.TimeBucket, 0, 7)
		for day := 0; day < 7; day++ {
			axis.slots = append(axis.slots, models.TimeBucket{Label: time.Weekday(day).String(), Index: day})
		}

	case models.GranularityDayOfMonth:
		anchor, ok := axisAnchor(rng, events)
		if !ok {
			return axis
		}
		axis.anchor = time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
		days := axis.anchor.AddDate(0, 1, -1).Day()
		axis.slots = make([]models.TimeBucket, 0, days)
		for day := 0; day < days; day++ {
			axis.slots = append(axis.slots, models.TimeBucket{
				Label: axis.anchor.AddDate(0, 0, day).Format("Jan 2"),
				Index: day,
			})
		}

	case models.GranularityWeekOfQuarter:
		anchor, ok := axisAnchor(rng, events)
		if !ok {
			return axis
		}
		axis.anchor = time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, time.UTC)
		weeks := quarterWeeks(axis.anchor, rng)
		axis.slots = make([]models.TimeBucket, 0, weeks)
		for week := 0; week < weeks; week++ {
			axis.slots = append(axis.slots, models.TimeBucket{Label: fmt.Sprintf("Week %d", week+1), Index: week})
		}

	case models.GranularityMonth:
		axis.slots = make([]models.TimeBucket, 0, 12)
		for month := time.January; month <= time.December; month++ {
			axis.slots = append(axis.slots, models.TimeBucket{Label: month.String()[:3], Index: int(month) - 1})
		}
	}

	return axis
}

func (a bucketAxis) index(t time.Time) (int, bool) {
	var idx int
	switch a.granularity {
	case models.GranularityHour:
		idx = t.Hour()
	case models.GranularityDayOfWeek:
		idx = int(t.Weekday())
	case models.GranularityDayOfMonth:
		if t.Year() != a.anchor.Year() || t.Month() != a.anchor.Month() {
			return 0, false
		}
		idx = t.Day() - 1
	case models.GranularityWeekOfQuarter:
		if t.Before(a.anchor) {
			return 0, false
		}
		idx = int(t.Sub(a.anchor).Hours() / (24 * 7))
	case models.GranularityMonth:
		idx = int(t.Month()) - 1
	default:
		return 0, false
	}

	if idx < 0 || idx >= len(a.slots) {
		return 0, false
	}
	return idx, true
}

// axisAnchor picks the calendar anchor for month and quarter axes: the
// resolved range start when present, otherwise the first event.
func axisAnchor(rng models.DateRange, events []models.AttendanceEvent) (time.Time, bool) {
	if rng.Start != nil {
		return rng.Start.UTC(), true
	}
	if len(events) > 0 {
		return events[0].OccurredAt.UTC(), true
	}
	return time.Time{}, false
}

func quarterWeeks(anchor time.Time, rng models.DateRange) int {
	end := anchor.AddDate(0, 3, 0)
	if rng.End != nil && rng.End.Before(end) {
		end = rng.End.UTC()
	}
	if !end.After(anchor) {
		return 0
	}
	// the range end is inclusive, so an end falling exactly on a week
	// boundary still needs a slot of its own
	return int(end.Sub(anchor).Hours()/(24*7)) + 1
}

// percentage computes part/total*100 rounded to two decimals, with the
// division-by-zero convention rate = 0.
func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*10000) / 100
}
