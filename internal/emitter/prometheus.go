package emitter

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/yairfalse/reaper/pkg/resource"
)

// PrometheusEmitter records sweep results as OTEL metrics. Exposition is up
// to the meter provider's readers (Prometheus exporter, OTLP).
type PrometheusEmitter struct {
	meter metric.Meter

	unused        metric.Int64ObservableGauge
	deletedTotal  metric.Int64Counter
	skippedTotal  metric.Int64Counter
	sweepDuration metric.Float64Histogram
	sweepErrors   metric.Int64Counter

	// State for observable gauge
	mu   sync.RWMutex
	last *resource.SweepResult
}

// NewPrometheusEmitter creates a Prometheus emitter. A nil meter uses the
// global meter provider.
func NewPrometheusEmitter(meter metric.Meter) (*PrometheusEmitter, error) {
	if meter == nil {
		meter = otel.Meter("reaper")
	}

	e := &PrometheusEmitter{meter: meter}
	if err := e.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	return e, nil
}

func (e *PrometheusEmitter) initMetrics() error {
	var err error

	e.unused, err = e.meter.Int64ObservableGauge(
		"reaper_resources_unused",
		metric.WithDescription("Resources found idle beyond the threshold in the last sweep"),
		metric.WithInt64Callback(e.observeUnused),
	)
	if err != nil {
		return fmt.Errorf("create resources_unused gauge: %w", err)
	}

	e.deletedTotal, err = e.meter.Int64Counter(
		"reaper_resources_deleted_total",
		metric.WithDescription("Total resources deleted"),
	)
	if err != nil {
		return fmt.Errorf("create resources_deleted counter: %w", err)
	}

	e.skippedTotal, err = e.meter.Int64Counter(
		"reaper_resources_skipped_total",
		metric.WithDescription("Total resources discovery could not evaluate"),
	)
	if err != nil {
		return fmt.Errorf("create resources_skipped counter: %w", err)
	}

	e.sweepDuration, err = e.meter.Float64Histogram(
		"reaper_sweep_duration_seconds",
		metric.WithDescription("Time taken by a sweep"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("create sweep_duration histogram: %w", err)
	}

	e.sweepErrors, err = e.meter.Int64Counter(
		"reaper_sweep_errors_total",
		metric.WithDescription("Total failed sweeps"),
	)
	if err != nil {
		return fmt.Errorf("create sweep_errors counter: %w", err)
	}

	return nil
}

// Emit records the sweep result as metrics.
func (e *PrometheusEmitter) Emit(ctx context.Context, result resource.SweepResult) error {
	attrs := metric.WithAttributes(
		attribute.String("provider", result.Provider),
		attribute.String("region", result.Region),
	)

	e.sweepDuration.Record(ctx, result.Duration.Seconds(), attrs)
	e.deletedTotal.Add(ctx, int64(result.Deleted), attrs)
	if result.Error != nil {
		e.sweepErrors.Add(ctx, 1, attrs)
	}

	for _, s := range result.Skipped {
		e.skippedTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("provider", result.Provider),
			attribute.String("region", result.Region),
			attribute.String("category", s.Category.String()),
			attribute.String("reason", s.Reason),
		))
	}

	e.mu.Lock()
	e.last = &result
	e.mu.Unlock()

	return nil
}

// observeUnused is the callback for the resources_unused gauge.
func (e *PrometheusEmitter) observeUnused(_ context.Context, o metric.Int64Observer) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.last == nil {
		return nil
	}

	for _, c := range resource.Categories() {
		o.Observe(int64(len(e.last.Unused.IDs(c))), metric.WithAttributes(
			attribute.String("provider", e.last.Provider),
			attribute.String("region", e.last.Region),
			attribute.String("category", c.String()),
		))
	}

	return nil
}

// Close is a no-op for Prometheus emitter.
func (e *PrometheusEmitter) Close() error {
	return nil
}
