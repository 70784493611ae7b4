package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campushq/attendance-insights-api/internal/dto"
	"github.com/campushq/attendance-insights-api/internal/models"
	appErrors "github.com/campushq/attendance-insights-api/pkg/errors"
)

// SeedStore is the write boundary used by the explicit seeding operation.
type SeedStore interface {
	HasEvents(ctx context.Context, actorType models.ActorType) (bool, error)
	InsertEvents(ctx context.Context, events []models.AttendanceEvent) error
}

// SeedServiceConfig tunes the generated sample set.
type SeedServiceConfig struct {
	SampleDays int
	SampleSize int
}

// SeedService generates synthetic attendance data on demand. It replaces the
// implicit seeding a read path used to perform: seeding now only happens
// through an explicit administrative call.
type SeedService struct {
	store  SeedStore
	source AttendanceRecordSource
	cache  *CacheService
	logger *zap.Logger
	now    func() time.Time
	cfg    SeedServiceConfig
}

// NewSeedService constructs a seed service.
func NewSeedService(store SeedStore, source AttendanceRecordSource, cache *CacheService, logger *zap.Logger, cfg SeedServiceConfig) *SeedService {
	if cfg.SampleDays <= 0 {
		cfg.SampleDays = 30
	}
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = 40
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedService{store: store, source: source, cache: cache, logger: logger, now: time.Now, cfg: cfg}
}

// Seed inserts sample events for the actor type unless data already exists
// (force overrides the check), then invalidates cached analytics payloads.
func (s *SeedService) Seed(ctx context.Context, actorType models.ActorType, force bool) (*dto.SeedResult, error) {
	if !actorType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported actor type")
	}

	if !force {
		exists, err := s.store.HasEvents(ctx, actorType)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrRecordStore.Code, appErrors.ErrRecordStore.Status, "check existing events")
		}
		if exists {
			return &dto.SeedResult{Skipped: true}, nil
		}
	}

	actors, err := s.source.ListActors(ctx, actorType, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRecordStore.Code, appErrors.ErrRecordStore.Status, "load actor roster")
	}
	if len(actors) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("no %s roster to seed against", actorType))
	}

	events := s.generate(actorType, actors)
	if err := s.store.InsertEvents(ctx, events); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRecordStore.Code, appErrors.ErrRecordStore.Status, "insert sample events")
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, "analytics:*"); err != nil {
			s.logger.Warn("invalidate analytics cache after seed", zap.Error(err))
		}
	}

	s.logger.Info("seeded sample attendance data",
		zap.String("actor_type", string(actorType)),
		zap.Int("events", len(events)),
	)
	return &dto.SeedResult{InsertedEvents: len(events)}, nil
}

var seedStatuses = []models.EventStatus{
	models.StatusPresent, models.StatusPresent, models.StatusPresent, models.StatusPresent,
	models.StatusPresent, models.StatusPresent, models.StatusPresent,
	models.StatusLate, models.StatusLate,
	models.StatusAbsent,
}

func (s *SeedService) generate(actorType models.ActorType, actors []models.Actor) []models.AttendanceEvent {
	now := s.now().UTC()
	rng := rand.New(rand.NewSource(now.UnixNano()))

	events := make([]models.AttendanceEvent, 0, s.cfg.SampleSize)
	for i := 0; i < s.cfg.SampleSize; i++ {
		actor := actors[rng.Intn(len(actors))]
		day := rng.Intn(s.cfg.SampleDays)
		hour := 7 + rng.Intn(10)
		occurred := now.AddDate(0, 0, -day)
		occurred = time.Date(occurred.Year(), occurred.Month(), occurred.Day(), hour, rng.Intn(60), 0, 0, time.UTC)

		events = append(events, models.AttendanceEvent{
			ID:           uuid.NewString(),
			ActorType:    actorType,
			ActorID:      actor.ID,
			DepartmentID: actor.DepartmentID,
			Status:       seedStatuses[rng.Intn(len(seedStatuses))],
			OccurredAt:   occurred,
		})
	}
	return events
}
