package models

import "time"

// TimeBucket is a time-scoped aggregate of attendance events.
// AttendanceRate is presentCount/totalCount*100, 0 when the bucket is empty.
type TimeBucket struct {
	Label          string  `json:"label"`
	Index          int     `json:"index"`
	AttendanceRate float64 `json:"attendanceRate"`
	TotalCount     int     `json:"totalCount"`
	PresentCount   int     `json:"presentCount"`
}

// DepartmentHeadCount is one row of the head-count query.
type DepartmentHeadCount struct {
	DepartmentID string `db:"department_id" json:"departmentId"`
	Count        int    `db:"count" json:"count"`
}

// DepartmentStatusCount is one row of the per-department status breakdown.
type DepartmentStatusCount struct {
	DepartmentID string      `db:"department_id" json:"departmentId"`
	Status       EventStatus `db:"status" json:"status"`
	Count        int         `db:"count" json:"count"`
}

// DepartmentInfo resolves a department id to display metadata.
type DepartmentInfo struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Code string `db:"code" json:"code"`
}

// DepartmentStat is the per-department rollup. MemberCount comes from the
// head-count query and AttendanceRate from the event query; the two are
// joined by department id, never by position.
type DepartmentStat struct {
	DepartmentID   string  `json:"departmentId"`
	Name           string  `json:"name"`
	Code           string  `json:"code"`
	MemberCount    int     `json:"memberCount"`
	AttendanceRate float64 `json:"attendanceRate"`
	Trend          string  `json:"trend"`
}

// RiskBucket counts actors classified into one risk tier.
type RiskBucket struct {
	Level      RiskLevel `json:"level"`
	Count      int       `json:"count"`
	Percentage float64   `json:"percentage"`
	Color      string    `json:"color"`
}

// LateBucket distributes late arrivals across an hour-of-day or day-of-week
// axis. LateRate is only meaningful when TotalCount > 0.
type LateBucket struct {
	Label      string  `json:"label"`
	Index      int     `json:"index"`
	LateCount  int     `json:"lateCount"`
	TotalCount int     `json:"totalCount"`
	LateRate   float64 `json:"lateRate"`
}

// HourPattern is the hourly slice of the pattern analysis.
type HourPattern struct {
	Hour           int     `json:"hour"`
	AttendanceRate float64 `json:"attendanceRate"`
	LateRate       float64 `json:"lateRate"`
	TotalCount     int     `json:"totalCount"`
}

// DayPattern describes one day-of-week in the pattern analysis.
type DayPattern struct {
	DayIndex        int           `json:"dayIndex"`
	DayName         string        `json:"dayName"`
	AttendanceRate  float64       `json:"attendanceRate"`
	LateRate        float64       `json:"lateRate"`
	AbsentRate      float64       `json:"absentRate"`
	MovingAverage   float64       `json:"movingAverage"`
	TotalCount      int           `json:"totalCount"`
	IsPeak          bool          `json:"isPeak"`
	IsValley        bool          `json:"isValley"`
	PeakHours       []int         `json:"peakHours"`
	HourlyBreakdown []HourPattern `json:"hourlyBreakdown"`
}

// PatternOverallStats aggregates the pattern analysis across all days.
type PatternOverallStats struct {
	BestDay     string     `json:"bestDay"`
	WorstDay    string     `json:"worstDay"`
	AverageRate float64    `json:"averageRate"`
	TotalEvents int        `json:"totalEvents"`
	RangeStart  *time.Time `json:"rangeStart,omitempty"`
	RangeEnd    *time.Time `json:"rangeEnd,omitempty"`
}

// StreakType labels a run of consecutive days.
type StreakType string

const (
	StreakGood StreakType = "good"
	StreakPoor StreakType = "poor"
)

// StreakDay classifies one calendar day inside a streak walk.
// SignedRunLength is positive inside a good run and negative inside a poor
// run; IsBreakPoint marks a day whose classification differs from the
// previous day.
type StreakDay struct {
	Date            string     `json:"date"`
	AttendanceRate  float64    `json:"attendanceRate"`
	IsGoodDay       bool       `json:"isGoodDay"`
	SignedRunLength int        `json:"signedRunLength"`
	StreakType      StreakType `json:"streakType"`
	IsBreakPoint    bool       `json:"isBreakPoint"`
}

// StreakStats summarises the streak walk. The in-progress run at the end of
// the series is folded into the max values before returning.
type StreakStats struct {
	MaxGoodStreak     int        `json:"maxGoodStreak"`
	MaxPoorStreak     int        `json:"maxPoorStreak"`
	CurrentStreak     int        `json:"currentStreak"`
	CurrentStreakType StreakType `json:"currentStreakType"`
	TotalGoodDays     int        `json:"totalGoodDays"`
	TotalPoorDays     int        `json:"totalPoorDays"`
}

// EngineMetrics represents system level analytics captured from instrumentation.
type EngineMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
