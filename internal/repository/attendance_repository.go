package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/campushq/attendance-insights-api/internal/models"
)

// AttendanceRepository is the read-only attendance record source backing the
// analytics engine. It never writes; seeding lives in SeedRepository.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository instantiates the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// FindEvents returns attendance events matching the filter predicate ordered
// by occurrence time. Students carry the department on the event row;
// instructors resolve it through the actor roster, hence the different join
// paths below.
func (r *AttendanceRepository) FindEvents(ctx context.Context, filter models.AnalyticsFilter) ([]models.AttendanceEvent, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT e.id, e.actor_type, e.actor_id, e.department_id, e.subject_schedule_id, e.status, e.occurred_at
        FROM attendance_events e`)
	if filter.ActorType == models.ActorInstructor && filter.DepartmentID != "" {
		builder.WriteString(" JOIN actors a ON a.id = e.actor_id AND a.actor_type = e.actor_type")
	}
	builder.WriteString(" WHERE 1=1")

	var args []interface{}
	if filter.ActorType != "" {
		args = append(args, filter.ActorType)
		builder.WriteString(fmt.Sprintf(" AND e.actor_type = $%d", len(args)))
	}
	if filter.DepartmentID != "" {
		args = append(args, filter.DepartmentID)
		if filter.ActorType == models.ActorInstructor {
			builder.WriteString(fmt.Sprintf(" AND a.department_id = $%d", len(args)))
		} else {
			builder.WriteString(fmt.Sprintf(" AND e.department_id = $%d", len(args)))
		}
	}
	if filter.SubjectScheduleID != "" {
		args = append(args, filter.SubjectScheduleID)
		builder.WriteString(fmt.Sprintf(" AND e.subject_schedule_id = $%d", len(args)))
	}
	if filter.Range.Start != nil {
		args = append(args, filter.Range.Start.UTC())
		builder.WriteString(fmt.Sprintf(" AND e.occurred_at >= $%d", len(args)))
	}
	if filter.Range.End != nil {
		args = append(args, filter.Range.End.UTC())
		builder.WriteString(fmt.Sprintf(" AND e.occurred_at <= $%d", len(args)))
	}
	builder.WriteString(" ORDER BY e.occurred_at ASC")

	var events []models.AttendanceEvent
	if err := r.db.SelectContext(ctx, &events, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query attendance events: %w", err)
	}
	return events, nil
}

// CountActorsByDepartment returns the head count per department for the
// given actor type, optionally scoped to one department.
func (r *AttendanceRepository) CountActorsByDepartment(ctx context.Context, actorType models.ActorType, departmentID string) ([]models.DepartmentHeadCount, error) {
	var builder strings.Builder
	builder.WriteString("SELECT department_id, COUNT(*) AS count FROM actors WHERE active = TRUE AND department_id IS NOT NULL")

	args := []interface{}{actorType}
	builder.WriteString(" AND actor_type = $1")
	if departmentID != "" {
		args = append(args, departmentID)
		builder.WriteString(fmt.Sprintf(" AND department_id = $%d", len(args)))
	}
	builder.WriteString(" GROUP BY department_id ORDER BY department_id")

	var counts []models.DepartmentHeadCount
	if err := r.db.SelectContext(ctx, &counts, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query actor head counts: %w", err)
	}
	return counts, nil
}

// ListActors returns the roster for an actor type so that actors with no
// recorded events still enter the risk cohort.
func (r *AttendanceRepository) ListActors(ctx context.Context, actorType models.ActorType, departmentID string) ([]models.Actor, error) {
	var builder strings.Builder
	builder.WriteString("SELECT id, department_id FROM actors WHERE active = TRUE AND actor_type = $1")

	args := []interface{}{actorType}
	if departmentID != "" {
		args = append(args, departmentID)
		builder.WriteString(fmt.Sprintf(" AND department_id = $%d", len(args)))
	}
	builder.WriteString(" ORDER BY id")

	var actors []models.Actor
	if err := r.db.SelectContext(ctx, &actors, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query actor roster: %w", err)
	}
	return actors, nil
}

// StatusCountsByDepartment aggregates event counts per department and status
// inside the filter's resolved interval. The department column follows the
// same rule as FindEvents: student events carry it on the row, instructor
// events resolve it through the actor roster.
func (r *AttendanceRepository) StatusCountsByDepartment(ctx context.Context, filter models.AnalyticsFilter) ([]models.DepartmentStatusCount, error) {
	deptColumn := "e.department_id"
	var builder strings.Builder
	if filter.ActorType == models.ActorInstructor {
		deptColumn = "a.department_id"
		builder.WriteString(`SELECT a.department_id, e.status, COUNT(*) AS count
        FROM attendance_events e
        JOIN actors a ON a.id = e.actor_id AND a.actor_type = e.actor_type
        WHERE a.department_id IS NOT NULL`)
	} else {
		builder.WriteString(`SELECT e.department_id, e.status, COUNT(*) AS count
        FROM attendance_events e
        WHERE e.department_id IS NOT NULL`)
	}

	var args []interface{}
	if filter.ActorType != "" {
		args = append(args, filter.ActorType)
		builder.WriteString(fmt.Sprintf(" AND e.actor_type = $%d", len(args)))
	}
	if filter.DepartmentID != "" {
		args = append(args, filter.DepartmentID)
		builder.WriteString(fmt.Sprintf(" AND %s = $%d", deptColumn, len(args)))
	}
	if filter.Range.Start != nil {
		args = append(args, filter.Range.Start.UTC())
		builder.WriteString(fmt.Sprintf(" AND e.occurred_at >= $%d", len(args)))
	}
	if filter.Range.End != nil {
		args = append(args, filter.Range.End.UTC())
		builder.WriteString(fmt.Sprintf(" AND e.occurred_at <= $%d", len(args)))
	}
	builder.WriteString(fmt.Sprintf(" GROUP BY %s, e.status ORDER BY %s, e.status", deptColumn, deptColumn))

	var counts []models.DepartmentStatusCount
	if err := r.db.SelectContext(ctx, &counts, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query department status counts: %w", err)
	}
	return counts, nil
}

// DepartmentLookup resolves department ids to display metadata.
func (r *AttendanceRepository) DepartmentLookup(ctx context.Context) (map[string]models.DepartmentInfo, error) {
	var departments []models.DepartmentInfo
	if err := r.db.SelectContext(ctx, &departments, "SELECT id, name, code FROM departments"); err != nil {
		return nil, fmt.Errorf("query departments: %w", err)
	}

	lookup := make(map[string]models.DepartmentInfo, len(departments))
	for _, dept := range departments {
		lookup[dept.ID] = dept
	}
	return lookup, nil
}
