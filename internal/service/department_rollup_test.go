package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/attendance-insights-api/internal/models"
)

func TestRollupDepartmentsJoinsByID(t *testing.T) {
	headCounts := []models.DepartmentHeadCount{
		{DepartmentID: "dep-cs", Count: 40},
		{DepartmentID: "dep-math", Count: 25},
	}
	current := []models.DepartmentStatusCount{
		{DepartmentID: "dep-math", Status: models.StatusPresent, Count: 18},
		{DepartmentID: "dep-math", Status: models.StatusAbsent, Count: 2},
		{DepartmentID: "dep-cs", Status: models.StatusPresent, Count: 30},
		{DepartmentID: "dep-cs", Status: models.StatusLate, Count: 10},
	}
	lookup := map[string]models.DepartmentInfo{
		"dep-cs":   {ID: "dep-cs", Name: "Computer Science", Code: "CS"},
		"dep-math": {ID: "dep-math", Name: "Mathematics", Code: "MATH"},
	}

	stats := RollupDepartments(headCounts, current, nil, lookup)
	require.Len(t, stats, 2)

	// sorted by rate descending: math 90% over cs 75%
	assert.Equal(t, "Mathematics", stats[0].Name)
	assert.Equal(t, "MATH", stats[0].Code)
	assert.Equal(t, 90.0, stats[0].AttendanceRate)
	assert.Equal(t, 25, stats[0].MemberCount)

	assert.Equal(t, "Computer Science", stats[1].Name)
	assert.Equal(t, 75.0, stats[1].AttendanceRate)
	assert.Equal(t, 40, stats[1].MemberCount)
}

func TestRollupDepartmentsNoEventsMeansZeroRate(t *testing.T) {
	headCounts := []models.DepartmentHeadCount{{DepartmentID: "dep-quiet", Count: 12}}
	lookup := map[string]models.DepartmentInfo{
		"dep-quiet": {ID: "dep-quiet", Name: "Philosophy", Code: "PHI"},
	}

	stats := RollupDepartments(headCounts, nil, nil, lookup)
	require.Len(t, stats, 1)
	assert.Equal(t, 0.0, stats[0].AttendanceRate)
	assert.Equal(t, 12, stats[0].MemberCount)
	assert.Equal(t, "stable", stats[0].Trend)
}

func TestRollupDepartmentsUnknownDepartment(t *testing.T) {
	headCounts := []models.DepartmentHeadCount{{DepartmentID: "dep-ghost", Count: 3}}

	stats := RollupDepartments(headCounts, nil, nil, map[string]models.DepartmentInfo{})
	require.Len(t, stats, 1)
	assert.Equal(t, "Unknown", stats[0].Name)
	assert.Equal(t, "UNK", stats[0].Code)
	assert.Equal(t, "dep-ghost", stats[0].DepartmentID)
}

func TestRollupDepartmentsTrend(t *testing.T) {
	headCounts := []models.DepartmentHeadCount{
		{DepartmentID: "dep-up", Count: 10},
		{DepartmentID: "dep-down", Count: 10},
		{DepartmentID: "dep-flat", Count: 10},
	}
	current := []models.DepartmentStatusCount{
		{DepartmentID: "dep-up", Status: models.StatusPresent, Count: 9},
		{DepartmentID: "dep-up", Status: models.StatusAbsent, Count: 1},
		{DepartmentID: "dep-down", Status: models.StatusPresent, Count: 7},
		{DepartmentID: "dep-down", Status: models.StatusAbsent, Count: 3},
		{DepartmentID: "dep-flat", Status: models.StatusPresent, Count: 8},
		{DepartmentID: "dep-flat", Status: models.StatusAbsent, Count: 2},
	}
	previous := []models.DepartmentStatusCount{
		{DepartmentID: "dep-up", Status: models.StatusPresent, Count: 8},
		{DepartmentID: "dep-up", Status: models.StatusAbsent, Count: 2},
		{DepartmentID: "dep-down", Status: models.StatusPresent, Count: 9},
		{DepartmentID: "dep-down", Status: models.StatusAbsent, Count: 1},
		// 80.5% previously, within the one point tolerance of 80%
		{DepartmentID: "dep-flat", Status: models.StatusPresent, Count: 161},
		{DepartmentID: "dep-flat", Status: models.StatusAbsent, Count: 39},
	}

	stats := RollupDepartments(headCounts, current, previous, nil)
	require.Len(t, stats, 3)

	byID := make(map[string]models.DepartmentStat, len(stats))
	for _, s := range stats {
		byID[s.DepartmentID] = s
	}
	assert.Equal(t, "up", byID["dep-up"].Trend)
	assert.Equal(t, "down", byID["dep-down"].Trend)
	assert.Equal(t, "stable", byID["dep-flat"].Trend)
}
