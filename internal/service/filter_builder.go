package service

import (
	"github.com/campushq/attendance-insights-api/internal/dto"
	"github.com/campushq/attendance-insights-api/internal/models"
)

// BuildFilter maps the raw request parameters onto the immutable query
// predicate shared by the engine components. Every call returns a fresh
// value; the orchestrator derives several differently scoped filters from
// the same request without mutating a shared object.
func BuildFilter(q dto.AnalyticsQuery, actorType models.ActorType, resolved models.DateRange) models.AnalyticsFilter {
	filter := models.AnalyticsFilter{
		ActorType:         actorType,
		DepartmentID:      q.DepartmentID,
		SubjectScheduleID: q.SubjectID,
		Range:             resolved,
	}
	if level := models.RiskLevel(q.RiskLevel); level.Valid() {
		filter.RiskLevel = level
	}
	return filter
}

// RiskScope derives the filter used for risk classification: scoped by actor
// and department, never by subject schedule.
func RiskScope(filter models.AnalyticsFilter) models.AnalyticsFilter {
	filter.SubjectScheduleID = ""
	return filter
}
