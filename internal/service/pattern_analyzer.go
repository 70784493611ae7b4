package service

import (
	"math"
	"time"

	"github.com/campushq/attendance-insights-api/internal/dto"
	"github.com/campushq/attendance-insights-api/internal/models"
)

const (
	// peakBand marks a day as peak when its rate is within 5% of the weekly
	// maximum, and as valley when within 5% of the minimum nonzero rate.
	peakBand = 0.05
	// peakHourBand marks an hour as a peak hour when its rate is within 10%
	// of that day's own hourly maximum.
	peakHourBand = 0.10
)

type patternTally struct {
	present int
	late    int
	absent  int
	total   int
}

// AnalyzePatterns scans the events once, building day-of-week, hour-of-day
// and (day, hour) tallies, and derives rates, a 3-point moving average and
// peak/valley flags for each day of the week. Sunday and Saturday have no
// wraparound neighbour; their moving average uses only the existing adjacent
// day.
func AnalyzePatterns(events []models.AttendanceEvent, rng models.DateRange) dto.PatternData {
	var days [7]patternTally
	var hours [24]patternTally
	var dayHours [7][24]patternTally

	for _, event := range events {
		ts := event.OccurredAt.UTC()
		day := int(ts.Weekday())
		hour := ts.Hour()
		bump(&days[day], event.Status)
		bump(&hours[hour], event.Status)
		bump(&dayHours[day][hour], event.Status)
	}

	var rates [7]float64
	maxRate, minNonzero := 0.0, math.MaxFloat64
	for day := 0; day < 7; day++ {
		rates[day] = percentage(days[day].present, days[day].total)
		if rates[day] > maxRate {
			maxRate = rates[day]
		}
		if rates[day] > 0 && rates[day] < minNonzero {
			minNonzero = rates[day]
		}
	}

	daily := make([]models.DayPattern, 0, 7)
	for day := 0; day < 7; day++ {
		pattern := models.DayPattern{
			DayIndex:        day,
			DayName:         time.Weekday(day).String(),
			AttendanceRate:  rates[day],
			LateRate:        percentage(days[day].late, days[day].total),
			AbsentRate:      percentage(days[day].absent, days[day].total),
			MovingAverage:   movingAverage(rates, day),
			TotalCount:      days[day].total,
			PeakHours:       peakHours(dayHours[day]),
			HourlyBreakdown: hourlyBreakdown(dayHours[day]),
		}
		if days[day].total > 0 {
			pattern.IsPeak = maxRate > 0 && rates[day] >= maxRate*(1-peakBand)
			// valley is relative to the minimum nonzero rate, so a day whose
			// rate is 0 outright never qualifies
			pattern.IsValley = rates[day] > 0 && minNonzero < math.MaxFloat64 && rates[day] <= minNonzero*(1+peakBand)
		}
		daily = append(daily, pattern)
	}

	return dto.PatternData{
		DailyPatterns:  daily,
		OverallStats:   overallStats(rates, days, rng),
		HourlyPatterns: hourlyBreakdown(hours),
	}
}

func bump(t *patternTally, status models.EventStatus) {
	t.total++
	switch status {
	case models.StatusPresent:
		t.present++
	case models.StatusLate:
		t.late++
	case models.StatusAbsent:
		t.absent++
	}
}

// movingAverage is the unweighted mean of the day's rate and its calendar
// adjacent neighbours, without wrapping around the week boundary.
func movingAverage(rates [7]float64, day int) float64 {
	sum, count := 0.0, 0
	for neighbour := day - 1; neighbour <= day+1; neighbour++ {
		if neighbour < 0 || neighbour > 6 {
			continue
		}
		sum += rates[neighbour]
		count++
	}
	return math.Round(sum/float64(count)*100) / 100
}

func peakHours(tallies [24]patternTally) []int {
	maxRate := 0.0
	var hourRates [24]float64
	for hour := 0; hour < 24; hour++ {
		hourRates[hour] = percentage(tallies[hour].present, tallies[hour].total)
		if hourRates[hour] > maxRate {
			maxRate = hourRates[hour]
		}
	}

	result := make([]int, 0, 4)
	if maxRate == 0 {
		return result
	}
	for hour := 0; hour < 24; hour++ {
		if tallies[hour].total > 0 && hourRates[hour] >= maxRate*(1-peakHourBand) {
			result = append(result, hour)
		}
	}
	return result
}

func hourlyBreakdown(tallies [24]patternTally) []models.HourPattern {
	result := make([]models.HourPattern, 0, 24)
	for hour := 0; hour < 24; hour++ {
		if tallies[hour].total == 0 {
			continue
		}
		result = append(result, models.HourPattern{
			Hour:           hour,
			AttendanceRate: percentage(tallies[hour].present, tallies[hour].total),
			LateRate:       percentage(tallies[hour].late, tallies[hour].total),
			TotalCount:     tallies[hour].total,
		})
	}
	return result
}

func overallStats(rates [7]float64, days [7]patternTally, rng models.DateRange) models.PatternOverallStats {
	stats := models.PatternOverallStats{
		RangeStart: rng.Start,
		RangeEnd:   rng.End,
	}

	bestRate := 0.0
	worstRate := math.MaxFloat64
	sum, counted := 0.0, 0
	for day := 0; day < 7; day++ {
		stats.TotalEvents += days[day].total
		if days[day].total == 0 {
			continue
		}
		sum += rates[day]
		counted++
		if rates[day] > bestRate {
			bestRate = rates[day]
			stats.BestDay = time.Weekday(day).String()
		}
		if rates[day] > 0 && rates[day] < worstRate {
			worstRate = rates[day]
			stats.WorstDay = time.Weekday(day).String()
		}
	}
	if counted > 0 {
		stats.AverageRate = math.Round(sum/float64(counted)*100) / 100
	}
	return stats
}
