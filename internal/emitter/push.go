package emitter

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/rs/zerolog/log"

	"github.com/yairfalse/reaper/pkg/resource"
)

// PushEmitter pushes a gatherer's metrics to a Prometheus Pushgateway.
// It must run after the emitters that record into the gatherer.
type PushEmitter struct {
	pusher *push.Pusher
	url    string
}

// NewPushEmitter creates an emitter pushing gatherer under job to url.
func NewPushEmitter(url, job string, gatherer prometheus.Gatherer) *PushEmitter {
	return &PushEmitter{
		pusher: push.New(url, job).Gatherer(gatherer),
		url:    url,
	}
}

// Emit replaces the job's metric group on the Pushgateway. Region travels as a
// metric label, so it cannot also be a grouping key.
func (e *PushEmitter) Emit(ctx context.Context, result resource.SweepResult) error {
	if err := e.pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", e.url, err)
	}

	log.Debug().
		Str("pushgateway", e.url).
		Str("region", result.Region).
		Msg("metrics pushed")

	return nil
}

// Close is a no-op for the push emitter.
func (e *PushEmitter) Close() error {
	return nil
}
