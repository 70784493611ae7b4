package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campushq/attendance-insights-api/internal/models"
)

// SeedRepository writes synthetic attendance data. Seeding is an explicit
// administrative operation and is never triggered by a read path.
type SeedRepository struct {
	db *sqlx.DB
}

// NewSeedRepository instantiates the repository.
func NewSeedRepository(db *sqlx.DB) *SeedRepository {
	return &SeedRepository{db: db}
}

// HasEvents reports whether any events exist for the actor type.
func (r *SeedRepository) HasEvents(ctx context.Context, actorType models.ActorType) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM attendance_events WHERE actor_type = $1", actorType); err != nil {
		return false, fmt.Errorf("count attendance events: %w", err)
	}
	return count > 0, nil
}

// InsertEvents stores the generated sample events in one batch.
func (r *SeedRepository) InsertEvents(ctx context.Context, events []models.AttendanceEvent) error {
	if len(events) == 0 {
		return nil
	}

	const query = `INSERT INTO attendance_events (id, actor_type, actor_id, department_id, subject_schedule_id, status, occurred_at)
        VALUES (:id, :actor_type, :actor_id, :department_id, :subject_schedule_id, :status, :occurred_at)`
	if _, err := r.db.NamedExecContext(ctx, query, events); err != nil {
		return fmt.Errorf("insert sample events: %w", err)
	}
	return nil
}
