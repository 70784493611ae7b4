package service

import (
	"sort"

	"github.com/campushq/attendance-insights-api/internal/dto"
	"github.com/campushq/attendance-insights-api/internal/models"
)

// DefaultGoodDayThreshold is the daily attendance fraction at or above which
// a calendar day counts as good. It is a fraction of [0,1], a separate
// threshold family from the risk tier percentages.
const DefaultGoodDayThreshold = 0.85

// AnalyzeStreaks groups events by UTC calendar date, classifies each day as
// good or poor, and walks the sorted days once computing run lengths. The
// trailing in-progress run is folded into the max streak values before the
// summary is returned.
func AnalyzeStreaks(events []models.AttendanceEvent, goodThreshold float64) dto.StreakData {
	if goodThreshold <= 0 {
		goodThreshold = DefaultGoodDayThreshold
	}

	type tally struct {
		present int
		total   int
	}
	byDate := make(map[string]tally)
	for _, event := range events {
		date := event.OccurredAt.UTC().Format("2006-01-02")
		acc := byDate[date]
		acc.total++
		if event.Status == models.StatusPresent {
			acc.present++
		}
		byDate[date] = acc
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	result := dto.StreakData{Data: make([]models.StreakDay, 0, len(dates))}
	if len(dates) == 0 {
		return result
	}

	stats := &result.Stats
	runLength := 0
	runGood := false

	for i, date := range dates {
		acc := byDate[date]
		rate := float64(acc.present) / float64(acc.total)
		good := rate >= goodThreshold

		breakPoint := false
		if i == 0 || good == runGood {
			runLength++
		} else {
			closeRun(stats, runGood, runLength)
			runLength = 1
			breakPoint = true
		}
		runGood = good

		day := models.StreakDay{
			Date:           date,
			AttendanceRate: rate,
			IsGoodDay:      good,
			IsBreakPoint:   breakPoint,
		}
		if good {
			day.SignedRunLength = runLength
			day.StreakType = models.StreakGood
			stats.TotalGoodDays++
		} else {
			day.SignedRunLength = -runLength
			day.StreakType = models.StreakPoor
			stats.TotalPoorDays++
		}
		result.Data = append(result.Data, day)
	}

	closeRun(stats, runGood, runLength)
	stats.CurrentStreak = runLength
	if runGood {
		stats.CurrentStreakType = models.StreakGood
	} else {
		stats.CurrentStreakType = models.StreakPoor
	}
	return result
}

func closeRun(stats *models.StreakStats, good bool, length int) {
	if good {
		if length > stats.MaxGoodStreak {
			stats.MaxGoodStreak = length
		}
	} else if length > stats.MaxPoorStreak {
		stats.MaxPoorStreak = length
	}
}
