package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yairfalse/reaper/internal/config"
	"github.com/yairfalse/reaper/internal/emitter"
	"github.com/yairfalse/reaper/internal/plugin"
	"github.com/yairfalse/reaper/internal/plugin/aws"
	"github.com/yairfalse/reaper/internal/report"
	"github.com/yairfalse/reaper/internal/telemetry"
	"github.com/yairfalse/reaper/pkg/resource"
)

const (
	modeScan  = "scan"
	modeSweep = "sweep"
)

// provider is the registry key of the plugin invoke runs.
var provider = aws.ProviderName

func execute(cmd *cobra.Command, mode string) error {
	cfg, err := loadConfig(cmd.Flags(), flags)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg.Log); err != nil {
		return err
	}
	return invoke(cmd.Context(), cfg, mode, cmd.OutOrStdout())
}

func setupLogging(cfg config.LogConfig) error {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return nil
}

// invoke runs one scan or sweep, emits the result and writes the report to out.
// The report is written even when the run fails.
func invoke(ctx context.Context, cfg *config.Config, mode string, out io.Writer) error {
	var (
		registry   *prometheus.Registry
		registerer prometheus.Registerer
	)
	if cfg.Metrics.Pushgateway != "" {
		registry = prometheus.NewRegistry()
		registerer = registry
	}

	tp, err := telemetry.NewProvider(ctx, cfg.OTEL, registerer)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("telemetry shutdown failed")
		}
	}()

	p, err := plugin.New(ctx, provider, cfg)
	if err != nil {
		return fmt.Errorf("create plugin: %w", err)
	}

	emit, err := newEmitter(cfg, tp, registry)
	if err != nil {
		return err
	}
	defer emit.Close()

	log.Info().
		Str("plugin", p.Name()).
		Str("mode", mode).
		Int("threshold_days", cfg.Threshold()).
		Msg("reaper starting")

	result, runErr := runGroup(ctx, p, mode)

	if err := emit.Emit(context.WithoutCancel(ctx), result); err != nil {
		log.Error().Err(err).Str("plugin", p.Name()).Msg("emit failed")
	}

	rep := &report.Report{Result: result, Mode: mode, Now: time.Now()}
	if err := report.Write(out, cfg.Output.Format, rep); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return runErr
}

func newEmitter(cfg *config.Config, tp *telemetry.Provider, registry *prometheus.Registry) (emitter.Emitter, error) {
	prom, err := emitter.NewPrometheusEmitter(tp.Meter())
	if err != nil {
		return nil, fmt.Errorf("create prometheus emitter: %w", err)
	}

	emitters := []emitter.Emitter{emitter.NewLogEmitter(), prom}
	if registry != nil {
		emitters = append(emitters, emitter.NewPushEmitter(cfg.Metrics.Pushgateway, cfg.Metrics.Job, registry))
	}
	return emitter.NewMultiEmitter(emitters...), nil
}

// runGroup runs the plugin alongside a signal handler. A signal cancels the
// in-flight run; whatever it had completed is still returned.
func runGroup(ctx context.Context, p plugin.Plugin, mode string) (resource.SweepResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		g      run.Group
		result resource.SweepResult
	)

	g.Add(func() error {
		var err error
		if mode == modeSweep {
			result, err = p.Run(ctx)
		} else {
			result, err = p.Scan(ctx)
		}
		return err
	}, func(error) {
		cancel()
	})
	g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))

	err := g.Run()

	var sigErr run.SignalError
	if errors.As(err, &sigErr) {
		log.Warn().Str("signal", sigErr.Signal.String()).Msg("interrupted, run aborted")
		err = fmt.Errorf("interrupted: %w", err)
		if result.Error == nil {
			result.Error = err
		}
	}

	return result, err
}
