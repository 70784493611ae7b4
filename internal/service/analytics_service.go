package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/campushq/attendance-insights-api/internal/dto"
	"github.com/campushq/attendance-insights-api/internal/models"
	appErrors "github.com/campushq/attendance-insights-api/pkg/errors"
)

// AttendanceRecordSource is the read boundary consumed by the engine. It is
// the only blocking dependency; all aggregation math runs in memory.
type AttendanceRecordSource interface {
	FindEvents(ctx context.Context, filter models.AnalyticsFilter) ([]models.AttendanceEvent, error)
	CountActorsByDepartment(ctx context.Context, actorType models.ActorType, departmentID string) ([]models.DepartmentHeadCount, error)
	ListActors(ctx context.Context, actorType models.ActorType, departmentID string) ([]models.Actor, error)
	StatusCountsByDepartment(ctx context.Context, filter models.AnalyticsFilter) ([]models.DepartmentStatusCount, error)
	DepartmentLookup(ctx context.Context) (map[string]models.DepartmentInfo, error)
}

// AnalyticsServiceConfig tunes engine behaviour.
type AnalyticsServiceConfig struct {
	CacheTTL          time.Duration
	DefaultTimeRange  models.TimeRange
	PatternWindowDays int
	GoodDayThreshold  float64
}

// AnalyticsService is the orchestrator: it resolves the request range,
// builds the filters and fans out to the aggregation components, assembling
// one overview payload. Requests are stateless and read-only, so the service
// is safe for concurrent use.
type AnalyticsService struct {
	source   AttendanceRecordSource
	resolver *RangeResolver
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
	cfg      AnalyticsServiceConfig
}

// AnalyticsServiceParams groups constructor dependencies.
type AnalyticsServiceParams struct {
	Source  AttendanceRecordSource
	Cache   *CacheService
	Metrics *MetricsService
	Logger  *zap.Logger
	Config  AnalyticsServiceConfig
}

// NewAnalyticsService constructs the orchestrator with sane defaults.
func NewAnalyticsService(params AnalyticsServiceParams) *AnalyticsService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if cfg.DefaultTimeRange == "" {
		cfg.DefaultTimeRange = models.RangeWeek
	}
	if cfg.PatternWindowDays <= 0 {
		cfg.PatternWindowDays = 30
	}
	if cfg.GoodDayThreshold <= 0 {
		cfg.GoodDayThreshold = DefaultGoodDayThreshold
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{
		source:   params.Source,
		resolver: NewRangeResolver(logger),
		cache:    params.Cache,
		metrics:  params.Metrics,
		logger:   logger,
		now:      time.Now,
		cfg:      cfg,
	}
}

// Overview assembles the full analytics payload for one request. The boolean
// indicates whether the payload originated from cache. A record-source
// failure propagates as a hard error with no partial payload.
func (s *AnalyticsService) Overview(ctx context.Context, q dto.AnalyticsQuery) (*dto.AnalyticsOverviewResponse, bool, error) {
	actorType := models.ActorType(q.Type)
	if !actorType.Valid() {
		actorType = models.ActorStudent
	}
	preset := models.TimeRange(q.TimeRange)
	if preset == "" {
		preset = s.cfg.DefaultTimeRange
	}

	now := s.now().UTC()
	resolved, explicitRange := s.resolver.Resolve(now, preset, q.StartDate, q.EndDate)
	filter := BuildFilter(q, actorType, resolved)

	cacheKey := overviewCacheKey(filter, preset, explicitRange)
	if s.cache != nil {
		var cached dto.AnalyticsOverviewResponse
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
			return nil, false, err
		} else if hit {
			return &cached, true, nil
		}
	}

	payload, err := s.compose(ctx, filter, preset, now)
	if err != nil {
		return nil, false, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, payload, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("cache analytics overview", zap.Error(err))
		}
	}
	return payload, false, nil
}

// SystemMetrics returns the instrumentation snapshot.
func (s *AnalyticsService) SystemMetrics() models.EngineMetrics {
	if s.metrics == nil {
		return models.EngineMetrics{}
	}
	return s.metrics.Snapshot()
}

func (s *AnalyticsService) compose(ctx context.Context, filter models.AnalyticsFilter, preset models.TimeRange, now time.Time) (*dto.AnalyticsOverviewResponse, error) {
	events, err := s.findEvents(ctx, "analytics_events", filter)
	if err != nil {
		return nil, err
	}

	granularity := preset.Granularity()
	buckets := BucketEvents(events, granularity, filter.Range)

	departmentStats, headCounts, err := s.departmentStats(ctx, filter)
	if err != nil {
		return nil, err
	}

	riskBuckets, err := s.riskBuckets(ctx, filter, events)
	if err != nil {
		return nil, err
	}

	patternData, err := s.patternData(ctx, filter, now)
	if err != nil {
		return nil, err
	}

	totalInstructors, err := s.totalInstructors(ctx, filter, headCounts)
	if err != nil {
		return nil, err
	}

	return &dto.AnalyticsOverviewResponse{
		Analytics: dto.AnalyticsSummary{
			DepartmentStats:       departmentStats,
			AttendanceTrends:      buckets,
			TotalInstructors:      totalInstructors,
			AverageAttendanceRate: overallRate(events),
		},
		TimeBasedData:   buckets,
		DepartmentStats: departmentStats,
		RiskLevelData:   riskBuckets,
		LateArrivalData: LateArrivals(events, granularity),
		PatternData:     patternData,
		StreakData:      AnalyzeStreaks(events, s.cfg.GoodDayThreshold),
		GeneratedAt:     now,
	}, nil
}

func (s *AnalyticsService) findEvents(ctx context.Context, label string, filter models.AnalyticsFilter) ([]models.AttendanceEvent, error) {
	start := time.Now()
	events, err := s.source.FindEvents(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRecordStore.Code, appErrors.ErrRecordStore.Status, "load attendance events")
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery(label, time.Since(start))
	}
	return events, nil
}

func (s *AnalyticsService) departmentStats(ctx context.Context, filter models.AnalyticsFilter) ([]models.DepartmentStat, []models.DepartmentHeadCount, error) {
	headCounts, err := s.source.CountActorsByDepartment(ctx, filter.ActorType, filter.DepartmentID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrRecordStore.Code, appErrors.ErrRecordStore.Status, "load department head counts")
	}

	current, err := s.source.StatusCountsByDepartment(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrRecordStore.Code, appErrors.ErrRecordStore.Status, "load department status counts")
	}

	previous, err := s.source.StatusCountsByDepartment(ctx, previousIntervalFilter(filter))
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrRecordStore.Code, appErrors.ErrRecordStore.Status, "load previous department status counts")
	}

	lookup, err := s.source.DepartmentLookup(ctx)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrRecordStore.Code, appErrors.ErrRecordStore.Status, "load department lookup")
	}

	return RollupDepartments(headCounts, current, previous, lookup), headCounts, nil
}

func (s *AnalyticsService) riskBuckets(ctx context.Context, filter models.AnalyticsFilter, events []models.AttendanceEvent) ([]models.RiskBucket, error) {
	actors, err := s.source.ListActors(ctx, filter.ActorType, filter.DepartmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRecordStore.Code, appErrors.ErrRecordStore.Status, "load actor roster")
	}

	riskEvents := events
	if filter.SubjectScheduleID != "" {
		riskEvents, err = s.findEvents(ctx, "analytics_risk_events", RiskScope(filter))
		if err != nil {
			return nil, err
		}
	}
	return ClassifyRisk(actors, riskEvents, filter.RiskLevel), nil
}

func (s *AnalyticsService) patternData(ctx context.Context, filter models.AnalyticsFilter, now time.Time) (dto.PatternData, error) {
	patternFilter := filter
	if patternFilter.Range.Start == nil && patternFilter.Range.End == nil {
		start := now.AddDate(0, 0, -s.cfg.PatternWindowDays)
		patternFilter.Range = models.DateRange{Start: &start, End: &now}
	}

	patternEvents, err := s.findEvents(ctx, "analytics_pattern_events", patternFilter)
	if err != nil {
		return dto.PatternData{}, err
	}
	return AnalyzePatterns(patternEvents, patternFilter.Range), nil
}

func (s *AnalyticsService) totalInstructors(ctx context.Context, filter models.AnalyticsFilter, headCounts []models.DepartmentHeadCount) (int, error) {
	if filter.ActorType == models.ActorInstructor {
		return sumHeadCounts(headCounts), nil
	}
	instructorCounts, err := s.source.CountActorsByDepartment(ctx, models.ActorInstructor, filter.DepartmentID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrRecordStore.Code, appErrors.ErrRecordStore.Status, "load instructor head counts")
	}
	return sumHeadCounts(instructorCounts), nil
}

func sumHeadCounts(counts []models.DepartmentHeadCount) int {
	total := 0
	for _, row := range counts {
		total += row.Count
	}
	return total
}

func overallRate(events []models.AttendanceEvent) float64 {
	present := 0
	for _, event := range events {
		if event.Status == models.StatusPresent {
			present++
		}
	}
	return percentage(present, len(events))
}

// previousIntervalFilter shifts the resolved interval back by its own length
// so department trends compare against the immediately preceding window.
func previousIntervalFilter(filter models.AnalyticsFilter) models.AnalyticsFilter {
	if filter.Range.Start == nil || filter.Range.End == nil {
		return filter
	}
	length := filter.Range.End.Sub(*filter.Range.Start)
	prevEnd := filter.Range.Start.Add(-time.Nanosecond)
	prevStart := prevEnd.Add(-length)
	filter.Range = models.DateRange{Start: &prevStart, End: &prevEnd}
	return filter
}

func overviewCacheKey(filter models.AnalyticsFilter, preset models.TimeRange, explicitRange bool) string {
	// preset windows are anchored on the current instant; keying them at
	// full precision would give every request its own entry. Coarsen the
	// bounds to the preset's natural granularity and keep exact bounds only
	// when the caller pinned them.
	startKey := coarseBound(filter.Range.Start, preset)
	endKey := coarseBound(filter.Range.End, preset)
	if explicitRange {
		startKey = formatBound(filter.Range.Start)
		endKey = formatBound(filter.Range.End)
	}

	parts := []string{
		string(filter.ActorType),
		string(preset),
		filter.DepartmentID,
		filter.SubjectScheduleID,
		string(filter.RiskLevel),
		startKey,
		endKey,
	}

	var builder strings.Builder
	builder.Grow(len(parts) * 16)
	builder.WriteString("analytics:overview")
	for _, part := range parts {
		if part == "" {
			continue
		}
		builder.WriteByte(':')
		builder.WriteString(strings.ReplaceAll(part, ":", "|"))
	}
	return builder.String()
}

func formatBound(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func coarseBound(t *time.Time, preset models.TimeRange) string {
	if t == nil {
		return ""
	}
	if preset == models.RangeToday {
		return t.UTC().Format("2006-01-02T15")
	}
	return t.UTC().Format("2006-01-02")
}
