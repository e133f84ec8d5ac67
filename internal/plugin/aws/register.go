package aws

import (
	"context"

	reapercfg "github.com/yairfalse/reaper/internal/config"
	"github.com/yairfalse/reaper/internal/plugin"
)

// ProviderName is the registry key of the AWS plugin.
const ProviderName = "aws"

func init() {
	plugin.Register(ProviderName, NewFromConfig)
}

// NewFromConfig builds the AWS plugin from reaper's configuration.
func NewFromConfig(ctx context.Context, cfg *reapercfg.Config) (plugin.Plugin, error) {
	return New(ctx, Config{
		Region:        cfg.AWS.Region,
		Profile:       cfg.AWS.Profile,
		ThresholdDays: cfg.Threshold(),
		LastUsedTag:   cfg.Sweep.LastUsedTag,
	})
}
