package dto

import (
	"time"

	"quizforge/internal/logger"

	"go.uber.org/zap"
)

// TimeFormatter renders stored UTC timestamps in the configured display
// zone. Storage stays UTC; only API responses pass through here.
type TimeFormatter struct {
	loc *time.Location
}

// NewTimeFormatter loads the display zone, falling back to UTC when the
// zone name is unknown.
func NewTimeFormatter(zoneName string) *TimeFormatter {
	loc, err := time.LoadLocation(zoneName)
	if err != nil {
		logger.Get().Warn("Unknown display zone, falling back to UTC",
			zap.String("zone", zoneName), zap.Error(err))
		loc = time.UTC
	}
	return &TimeFormatter{loc: loc}
}

// Format renders a timestamp as ISO-8601 in the display zone.
func (f *TimeFormatter) Format(t time.Time) string {
	return t.In(f.loc).Format(time.RFC3339)
}

// FormatPtr renders an optional timestamp, passing nil through.
func (f *TimeFormatter) FormatPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := f.Format(*t)
	return &s
}
