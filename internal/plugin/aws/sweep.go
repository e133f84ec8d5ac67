package aws

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yairfalse/reaper/pkg/resource"
)

// DeleteError reports where deletion stopped.
type DeleteError struct {
	Category  resource.Category
	ID        string
	Completed int // deletions that succeeded before this one
	Err       error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("delete %s %s: %v", e.Category, e.ID, e.Err)
}

func (e *DeleteError) Unwrap() error {
	return e.Err
}

// Discover runs discovery for a single category and returns its idle records in
// the order the provider listed them.
func (p *Plugin) Discover(ctx context.Context, c resource.Category) ([]resource.Record, error) {
	s, err := p.strategyFor(c)
	if err != nil {
		return nil, err
	}

	d := newDiscovery(p.clock(), p.thresholdDays)
	if err := p.discover(ctx, s, d); err != nil {
		return nil, fmt.Errorf("discover %s: %w", c, err)
	}
	return d.records, nil
}

// Sweep discovers idle resources in every category and returns the identifiers found.
func (p *Plugin) Sweep(ctx context.Context) (resource.UnusedSet, error) {
	result, err := p.Scan(ctx)
	return result.Unused, err
}

// Scan runs discovery for every category in sweep order. Only read-only calls are made.
// A failing list, describe or tag call aborts the scan.
func (p *Plugin) Scan(ctx context.Context) (resource.SweepResult, error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "reaper.scan", trace.WithAttributes(
		attribute.String("region", p.region),
		attribute.Int("threshold_days", p.thresholdDays),
	))
	defer span.End()

	result := p.newResult()
	d := newDiscovery(p.clock(), p.thresholdDays)

	for _, s := range p.strategies() {
		if err := p.discover(ctx, s, d); err != nil {
			err = fmt.Errorf("discover %s: %w", s.Category(), err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())

			d.fill(&result)
			result.Duration = time.Since(start)
			result.Error = err
			return result, err
		}
	}

	d.fill(&result)
	result.Duration = time.Since(start)
	span.SetAttributes(attribute.Int("unused", result.Unused.Len()))
	return result, nil
}

func (p *Plugin) discover(ctx context.Context, s strategy, d *discovery) error {
	category := s.Category().String()
	ctx, span := tracer.Start(ctx, "reaper.discover", trace.WithAttributes(
		attribute.String("category", category),
	))
	defer span.End()

	before := d.unused.Len()
	if err := s.Discover(ctx, d); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	found := d.unused.Len() - before
	span.SetAttributes(attribute.Int("unused", found))
	log.Debug().Str("category", category).Int("unused", found).Msg("discovery complete")
	return nil
}

// DeleteAll issues one delete call per identifier, in sweep order, without checking
// that the resource still exists. The first failure aborts the loop with a *DeleteError.
// The set is returned unchanged.
func (p *Plugin) DeleteAll(ctx context.Context, set resource.UnusedSet) (resource.UnusedSet, error) {
	ctx, span := tracer.Start(ctx, "reaper.delete_all", trace.WithAttributes(
		attribute.Int("resources", set.Len()),
	))
	defer span.End()

	deleted := 0
	err := set.Each(func(c resource.Category, id string) error {
		if err := p.delete(ctx, c, id); err != nil {
			return &DeleteError{Category: c, ID: id, Completed: deleted, Err: err}
		}
		deleted++
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.Int("deleted", deleted))

	return set, err
}

func (p *Plugin) delete(ctx context.Context, c resource.Category, id string) error {
	ctx, span := tracer.Start(ctx, "reaper.delete", trace.WithAttributes(
		attribute.String("category", c.String()),
		attribute.String("id", id),
	))
	defer span.End()

	s, err := p.strategyFor(c)
	if err != nil {
		return err
	}
	if err := s.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error().Err(err).Str("category", c.String()).Str("id", id).Msg("delete failed")
		return err
	}

	log.Info().Str("category", c.String()).Str("id", id).Msg("resource deleted")
	return nil
}

// Run discovers idle resources and deletes them. The result describes the set acted
// on; Deleted counts the deletions that succeeded.
func (p *Plugin) Run(ctx context.Context) (resource.SweepResult, error) {
	start := time.Now()

	result, err := p.Scan(ctx)
	if err != nil {
		return result, err
	}

	_, err = p.DeleteAll(ctx, result.Unused)
	result.Duration = time.Since(start)
	if err != nil {
		var delErr *DeleteError
		if errors.As(err, &delErr) {
			result.Deleted = delErr.Completed
		}
		result.Error = err
		return result, err
	}

	result.Deleted = result.Unused.Len()
	return result, nil
}

func (p *Plugin) clock() time.Time {
	if p.now == nil {
		return time.Now()
	}
	return p.now()
}
