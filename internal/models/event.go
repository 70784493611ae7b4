package models

import "time"

// ActorType identifies whose attendance is being analysed.
type ActorType string

const (
	ActorStudent    ActorType = "student"
	ActorInstructor ActorType = "instructor"
)

// Valid returns true when the actor type is a supported value.
func (a ActorType) Valid() bool {
	return a == ActorStudent || a == ActorInstructor
}

// EventStatus represents the recorded outcome of one check-in.
type EventStatus string

const (
	StatusPresent EventStatus = "PRESENT"
	StatusLate    EventStatus = "LATE"
	StatusAbsent  EventStatus = "ABSENT"
	StatusExcused EventStatus = "EXCUSED"
)

// Valid returns true when the status is a supported value.
func (s EventStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusAbsent, StatusExcused:
		return true
	default:
		return false
	}
}

// AttendanceEvent is one observed check-in. Events are owned by the record
// store; the engine only reads them.
type AttendanceEvent struct {
	ID                string      `db:"id" json:"id"`
	ActorType         ActorType   `db:"actor_type" json:"actorType"`
	ActorID           string      `db:"actor_id" json:"actorId"`
	DepartmentID      *string     `db:"department_id" json:"departmentId,omitempty"`
	SubjectScheduleID *string     `db:"subject_schedule_id" json:"subjectScheduleId,omitempty"`
	Status            EventStatus `db:"status" json:"status"`
	OccurredAt        time.Time   `db:"occurred_at" json:"occurredAt"`
}

// TimeRange is a named preset for resolving a concrete query window.
type TimeRange string

const (
	RangeToday   TimeRange = "today"
	RangeWeek    TimeRange = "week"
	RangeMonth   TimeRange = "month"
	RangeQuarter TimeRange = "quarter"
	RangeYear    TimeRange = "year"
)

// Granularity selects the bucketing axis for a resolved range.
type Granularity string

const (
	GranularityHour          Granularity = "hour"
	GranularityDayOfWeek     Granularity = "day-of-week"
	GranularityDayOfMonth    Granularity = "day-of-month"
	GranularityWeekOfQuarter Granularity = "week-of-quarter"
	GranularityMonth         Granularity = "month"
)

// Granularity maps a preset onto its natural bucketing axis.
func (t TimeRange) Granularity() Granularity {
	switch t {
	case RangeToday:
		return GranularityHour
	case RangeMonth:
		return GranularityDayOfMonth
	case RangeQuarter:
		return GranularityWeekOfQuarter
	case RangeYear:
		return GranularityMonth
	default:
		return GranularityDayOfWeek
	}
}

// RiskLevel classifies an actor's attendance rate.
type RiskLevel string

const (
	RiskNone   RiskLevel = "none"
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Valid returns true when the risk level is a supported value.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskNone, RiskLow, RiskMedium, RiskHigh:
		return true
	default:
		return false
	}
}

// DateRange is a resolved instant interval. A nil bound means unbounded on
// that side.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// Contains reports whether the instant falls inside the (inclusive) range.
func (r DateRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

// AnalyticsFilter is the immutable query predicate shared by all engine
// components for one request. Built once by the filter builder; components
// receive it by value and never mutate it.
type AnalyticsFilter struct {
	ActorType         ActorType
	DepartmentID      string
	SubjectScheduleID string
	RiskLevel         RiskLevel
	Range             DateRange
}

// Actor is a roster entry used when classifying risk, so that actors with no
// recorded events still appear in the cohort.
type Actor struct {
	ID           string  `db:"id" json:"id"`
	DepartmentID *string `db:"department_id" json:"departmentId,omitempty"`
}
