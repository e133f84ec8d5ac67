package aws

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yairfalse/reaper/pkg/resource"
)

// strategy is the discovery and deletion behavior of a single category.
type strategy interface {
	Category() resource.Category
	Discover(ctx context.Context, d *discovery) error
	Delete(ctx context.Context, id string) error
}

// discovery accumulates the outcome of one sweep across categories.
type discovery struct {
	now       time.Time
	threshold int
	records   []resource.Record
	skipped   []resource.Skip
	unused    resource.UnusedSet
}

func newDiscovery(now time.Time, threshold int) *discovery {
	return &discovery{
		now:       now,
		threshold: threshold,
		unused:    resource.NewUnusedSet(),
	}
}

// observe evaluates a resource against the threshold and collects it when idle long enough.
// A reference time after now never qualifies, whatever the threshold.
func (d *discovery) observe(c resource.Category, id string, ref time.Time) bool {
	if ref.After(d.now) {
		log.Debug().
			Str("category", c.String()).
			Str("id", id).
			Time("reference_time", ref).
			Msg("reference time in the future")
		return false
	}

	days := resource.IdleDays(d.now, ref)
	if !resource.Qualifies(days, d.threshold) {
		log.Debug().
			Str("category", c.String()).
			Str("id", id).
			Int("idle_days", days).
			Msg("resource below threshold")
		return false
	}

	d.records = append(d.records, resource.Record{
		Category:      c,
		ID:            id,
		ReferenceTime: ref,
		IdleDays:      days,
	})
	d.unused.Add(c, id)

	log.Info().
		Str("category", c.String()).
		Str("id", id).
		Int("idle_days", days).
		Int("threshold_days", d.threshold).
		Msg("idle resource found")
	return true
}

func (d *discovery) skip(c resource.Category, id, reason string) {
	d.skipped = append(d.skipped, resource.Skip{Category: c, ID: id, Reason: reason})
}

func (d *discovery) fill(result *resource.SweepResult) {
	result.Unused = d.unused
	result.Records = d.records
	result.Skipped = d.skipped
}
