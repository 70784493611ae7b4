package service

import (
	"github.com/campushq/attendance-insights-api/internal/models"
)

var riskOrder = []models.RiskLevel{models.RiskNone, models.RiskLow, models.RiskMedium, models.RiskHigh}

var riskColors = map[models.RiskLevel]string{
	models.RiskNone:   "#22c55e",
	models.RiskLow:    "#eab308",
	models.RiskMedium: "#f97316",
	models.RiskHigh:   "#ef4444",
}

// ClassifyRisk computes each actor's attendance rate over the interval and
// counts actors per risk tier. Actors come from the roster, so an actor with
// no recorded events is part of the cohort and classifies as "none" rather
// than high risk. When a specific tier was requested the cohort used for
// percentages is narrowed to that tier first (drill-down semantics: the
// requested tier reports 100%).
func ClassifyRisk(actors []models.Actor, events []models.AttendanceEvent, requested models.RiskLevel) []models.RiskBucket {
	type tally struct {
		present int
		total   int
	}
	tallies := make(map[string]tally, len(actors))
	for _, event := range events {
		acc := tallies[event.ActorID]
		acc.total++
		if event.Status == models.StatusPresent {
			acc.present++
		}
		tallies[event.ActorID] = acc
	}

	counts := make(map[models.RiskLevel]int, len(riskOrder))
	cohort := 0
	for _, actor := range actors {
		acc := tallies[actor.ID]
		level := riskLevelFor(percentage(acc.present, acc.total), acc.total)
		if requested.Valid() && level != requested {
			continue
		}
		counts[level]++
		cohort++
	}

	buckets := make([]models.RiskBucket, 0, len(riskOrder))
	for _, level := range riskOrder {
		bucket := models.RiskBucket{
			Level: level,
			Count: counts[level],
			Color: riskColors[level],
		}
		if cohort > 0 {
			bucket.Percentage = percentage(counts[level], cohort)
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}

// riskLevelFor applies the tier boundaries: rate >= 90 or no data at all is
// "none"; the lower boundary of each remaining tier is inclusive.
func riskLevelFor(rate float64, total int) models.RiskLevel {
	switch {
	case total == 0 || rate == 0:
		return models.RiskNone
	case rate >= 90:
		return models.RiskNone
	case rate >= 85:
		return models.RiskLow
	case rate >= 75:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}
