package emitter

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yairfalse/reaper/pkg/resource"
)

// LogEmitter writes a structured summary of each sweep.
type LogEmitter struct {
	logger zerolog.Logger
}

// NewLogEmitter creates a log emitter on the global logger.
func NewLogEmitter() *LogEmitter {
	return &LogEmitter{logger: log.Logger}
}

// Emit logs one line per category and a closing summary.
func (e *LogEmitter) Emit(_ context.Context, result resource.SweepResult) error {
	for _, c := range resource.Categories() {
		e.logger.Info().
			Str("provider", result.Provider).
			Str("region", result.Region).
			Str("category", c.String()).
			Int("unused", len(result.Unused.IDs(c))).
			Msg("category summary")
	}

	for _, s := range result.Skipped {
		e.logger.Warn().
			Str("category", s.Category.String()).
			Str("id", s.ID).
			Str("reason", s.Reason).
			Msg("resource skipped")
	}

	evt := e.logger.Info()
	if result.Error != nil {
		evt = e.logger.Error().Err(result.Error)
	}
	evt.Str("provider", result.Provider).
		Str("region", result.Region).
		Int("threshold_days", result.ThresholdDays).
		Int("unused", result.Unused.Len()).
		Int("skipped", len(result.Skipped)).
		Int("deleted", result.Deleted).
		Dur("duration", result.Duration).
		Msg("sweep complete")

	return nil
}

// Close is a no-op for the log emitter.
func (e *LogEmitter) Close() error {
	return nil
}
