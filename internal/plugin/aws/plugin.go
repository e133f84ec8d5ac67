// Package aws implements the AWS idle resource sweeper for reaper.
package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.opentelemetry.io/otel"

	"github.com/yairfalse/reaper/pkg/resource"
)

const (
	// DefaultThresholdDays is the idle duration after which a resource is swept.
	DefaultThresholdDays = 30
	// DefaultLastUsedTag is the function tag holding the last-used timestamp.
	DefaultLastUsedTag = "LastUsed"
)

var tracer = otel.Tracer("github.com/yairfalse/reaper/internal/plugin/aws")

// Plugin implements the AWS sweeper.
type Plugin struct {
	region        string
	thresholdDays int
	lastUsedTag   string
	now           func() time.Time

	// AWS clients (interfaces for testability)
	ec2Client    EC2API
	rdsClient    RDSAPI
	s3Client     S3API
	lambdaClient LambdaAPI
}

// Config holds AWS plugin configuration.
type Config struct {
	Region        string
	Profile       string
	ThresholdDays int
	LastUsedTag   string
}

// Clients bundles the service clients a Plugin sweeps with.
type Clients struct {
	EC2    EC2API
	RDS    RDSAPI
	S3     S3API
	Lambda LambdaAPI
}

// New creates an AWS plugin from the ambient SDK configuration (environment, shared profile).
func New(ctx context.Context, cfg Config) (*Plugin, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	cfg.Region = awsCfg.Region

	return NewWithClients(cfg, Clients{
		EC2:    ec2.NewFromConfig(awsCfg),
		RDS:    rds.NewFromConfig(awsCfg),
		S3:     s3.NewFromConfig(awsCfg),
		Lambda: lambda.NewFromConfig(awsCfg),
	}), nil
}

// NewWithClients creates an AWS plugin around the given clients.
func NewWithClients(cfg Config, clients Clients) *Plugin {
	tag := cfg.LastUsedTag
	if tag == "" {
		tag = DefaultLastUsedTag
	}

	return &Plugin{
		region:        cfg.Region,
		thresholdDays: cfg.ThresholdDays,
		lastUsedTag:   tag,
		now:           time.Now,
		ec2Client:     clients.EC2,
		rdsClient:     clients.RDS,
		s3Client:      clients.S3,
		lambdaClient:  clients.Lambda,
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return ProviderName
}

// Region returns the region the plugin's clients operate in.
func (p *Plugin) Region() string {
	return p.region
}

// ThresholdDays returns the idle threshold shared by every category.
func (p *Plugin) ThresholdDays() int {
	return p.thresholdDays
}

// strategies returns one sweeper per category, in sweep order.
func (p *Plugin) strategies() []strategy {
	return []strategy{
		computeStrategy{client: p.ec2Client},
		databaseStrategy{client: p.rdsClient},
		bucketStrategy{client: p.s3Client},
		functionStrategy{client: p.lambdaClient, tag: p.lastUsedTag},
	}
}

func (p *Plugin) strategyFor(c resource.Category) (strategy, error) {
	for _, s := range p.strategies() {
		if s.Category() == c {
			return s, nil
		}
	}
	return nil, fmt.Errorf("no sweeper for category %s", c)
}

func (p *Plugin) newResult() resource.SweepResult {
	return resource.SweepResult{
		Provider:      p.Name(),
		Region:        p.region,
		ThresholdDays: p.thresholdDays,
		Unused:        resource.NewUnusedSet(),
	}
}
