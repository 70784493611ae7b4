package dto

import (
	"time"

	"github.com/campushq/attendance-insights-api/internal/models"
)

// AnalyticsQuery captures the raw request parameters for the overview
// endpoint. Date strings are intentionally unvalidated here: the range
// resolver discards unparsable bounds with a warning instead of rejecting
// the request.
type AnalyticsQuery struct {
	Type         string `form:"type" binding:"omitempty,oneof=student instructor"`
	TimeRange    string `form:"timeRange" binding:"omitempty,oneof=today week month quarter year"`
	DepartmentID string `form:"departmentId"`
	SubjectID    string `form:"subjectId"`
	RiskLevel    string `form:"riskLevel" binding:"omitempty,oneof=none low medium high"`
	StartDate    string `form:"startDate"`
	EndDate      string `form:"endDate"`
}

// AnalyticsSummary is the headline section of the overview payload.
type AnalyticsSummary struct {
	DepartmentStats       []models.DepartmentStat `json:"departmentStats"`
	AttendanceTrends      []models.TimeBucket     `json:"attendanceTrends"`
	TotalInstructors      int                     `json:"totalInstructors"`
	AverageAttendanceRate float64                 `json:"averageAttendanceRate"`
}

// PatternData groups the day-of-week and hour-of-day pattern analysis.
type PatternData struct {
	DailyPatterns  []models.DayPattern        `json:"dailyPatterns"`
	OverallStats   models.PatternOverallStats `json:"overallStats"`
	HourlyPatterns []models.HourPattern       `json:"hourlyPatterns"`
}

// StreakData groups the per-day streak series with its summary.
type StreakData struct {
	Data  []models.StreakDay `json:"data"`
	Stats models.StreakStats `json:"stats"`
}

// AnalyticsOverviewResponse is the full overview payload. Array fields are
// never omitted; they default to empty slices when no data matched.
type AnalyticsOverviewResponse struct {
	Analytics       AnalyticsSummary        `json:"analytics"`
	TimeBasedData   []models.TimeBucket     `json:"timeBasedData"`
	DepartmentStats []models.DepartmentStat `json:"departmentStats"`
	RiskLevelData   []models.RiskBucket     `json:"riskLevelData"`
	LateArrivalData []models.LateBucket     `json:"lateArrivalData"`
	PatternData     PatternData             `json:"patternData"`
	StreakData      StreakData              `json:"streakData"`
	GeneratedAt     time.Time               `json:"generatedAt"`
}

// SeedResult reports the outcome of the explicit sample-data seeding
// operation.
type SeedResult struct {
	InsertedEvents int  `json:"insertedEvents"`
	Skipped        bool `json:"skipped"`
}
