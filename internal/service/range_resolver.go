package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/campushq/attendance-insights-api/internal/models"
)

// RangeResolver turns a time-range preset or explicit start/end strings into
// a concrete UTC interval. The caller passes a single resolved "now" so that
// every window computed for one request is internally consistent.
type RangeResolver struct {
	logger *zap.Logger
}

// NewRangeResolver constructs a resolver.
func NewRangeResolver(logger *zap.Logger) *RangeResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RangeResolver{logger: logger}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Resolve returns the concrete interval for the request. Explicit bounds win
// over the preset only when both parse; an unparsable bound is discarded with
// a warning rather than rejecting the request. The boolean reports whether
// explicit bounds were used, so callers can tell a caller-pinned interval
// from a preset window anchored on the current instant.
func (r *RangeResolver) Resolve(now time.Time, preset models.TimeRange, startRaw, endRaw string) (models.DateRange, bool) {
	now = now.UTC()

	start := r.parseBound("startDate", startRaw)
	end := r.parseBound("endDate", endRaw)
	if start != nil && end != nil {
		return models.DateRange{Start: start, End: end}, true
	}

	return presetRange(now, preset), false
}

func (r *RangeResolver) parseBound(name, raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			parsed = parsed.UTC()
			return &parsed
		}
	}
	r.logger.Warn("discarding unparsable date bound",
		zap.String("param", name),
		zap.String("value", raw),
	)
	return nil
}

func presetRange(now time.Time, preset models.TimeRange) models.DateRange {
	var start time.Time
	switch preset {
	case models.RangeToday:
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	case models.RangeMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	case models.RangeQuarter:
		quarterStart := time.Month(((int(now.Month())-1)/3)*3 + 1)
		start = time.Date(now.Year(), quarterStart, 1, 0, 0, 0, 0, time.UTC)
	case models.RangeYear:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		start = now.AddDate(0, 0, -7)
	}

	end := now
	return models.DateRange{Start: &start, End: &end}
}
