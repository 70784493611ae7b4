package service

import (
	"sort"

	"github.com/campushq/attendance-insights-api/internal/models"
)

const (
	unknownDepartmentName = "Unknown"
	unknownDepartmentCode = "UNK"

	// trendTolerance is the rate delta (in percentage points) below which a
	// department is reported as stable rather than up or down.
	trendTolerance = 1.0
)

// RollupDepartments joins head counts with per-department attendance rates.
// The two inputs come from independent queries and are joined strictly by
// department id. A department with members but no events in the interval
// gets rate 0; a department id missing from the lookup renders as
// "Unknown"/"UNK". Trend compares against the immediately preceding interval
// of equal length.
func RollupDepartments(
	headCounts []models.DepartmentHeadCount,
	current []models.DepartmentStatusCount,
	previous []models.DepartmentStatusCount,
	lookup map[string]models.DepartmentInfo,
) []models.DepartmentStat {
	currentRates := departmentRates(current)
	previousRates := departmentRates(previous)

	stats := make([]models.DepartmentStat, 0, len(headCounts))
	for _, head := range headCounts {
		stat := models.DepartmentStat{
			DepartmentID: head.DepartmentID,
			Name:         unknownDepartmentName,
			Code:         unknownDepartmentCode,
			MemberCount:  head.Count,
			Trend:        trend(currentRates[head.DepartmentID], previousRates[head.DepartmentID]),
		}
		if info, ok := lookup[head.DepartmentID]; ok {
			stat.Name = info.Name
			stat.Code = info.Code
		}
		if rate, ok := currentRates[head.DepartmentID]; ok {
			stat.AttendanceRate = rate
		}
		stats = append(stats, stat)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].AttendanceRate == stats[j].AttendanceRate {
			return stats[i].Name < stats[j].Name
		}
		return stats[i].AttendanceRate > stats[j].AttendanceRate
	})
	return stats
}

func departmentRates(counts []models.DepartmentStatusCount) map[string]float64 {
	type tally struct {
		present int
		total   int
	}
	tallies := make(map[string]tally)
	for _, row := range counts {
		acc := tallies[row.DepartmentID]
		acc.total += row.Count
		if row.Status == models.StatusPresent {
			acc.present += row.Count
		}
		tallies[row.DepartmentID] = acc
	}

	rates := make(map[string]float64, len(tallies))
	for departmentID, acc := range tallies {
		rates[departmentID] = percentage(acc.present, acc.total)
	}
	return rates
}

func trend(current, previous float64) string {
	switch {
	case current-previous > trendTolerance:
		return "up"
	case previous-current > trendTolerance:
		return "down"
	default:
		return "stable"
	}
}
