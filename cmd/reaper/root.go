package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yairfalse/reaper/internal/config"
)

// globalFlags holds the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath    string
	region        string
	profile       string
	thresholdDays int
	output        string
	debug         bool
}

var (
	version = "0.1.0"
	flags   globalFlags
	rootCmd = &cobra.Command{
		Use:   "reaper",
		Short: "Idle cloud resource sweeper",
		Long: `Reaper - Idle Cloud Resource Sweeper

Reaper finds AWS resources that have sat idle longer than a threshold
and deletes them: stopped EC2 instances, stopped RDS instances, stale
S3 buckets and Lambda functions whose LastUsed tag has aged out.

Run 'reaper scan' to see what would go, 'reaper sweep --yes' to delete it.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate(`Reaper {{.Version}} - Idle Cloud Resource Sweeper
`)
	addGlobalFlags(rootCmd.PersistentFlags(), &flags)
}

func addGlobalFlags(fs *pflag.FlagSet, f *globalFlags) {
	fs.StringVarP(&f.configPath, "config", "c", "", "Path to TOML config file")
	fs.StringVarP(&f.region, "region", "r", "", "AWS region (default: SDK resolution)")
	fs.StringVar(&f.profile, "profile", "", "AWS shared config profile")
	fs.IntVarP(&f.thresholdDays, "threshold-days", "d", 30, "Minimum whole days idle before a resource qualifies")
	fs.StringVarP(&f.output, "output", "o", "text", "Output format: text, json, yaml")
	fs.BoolVar(&f.debug, "debug", false, "Enable debug logging")
}

// loadConfig reads the config file when given, then applies explicitly set flags.
func loadConfig(fs *pflag.FlagSet, f globalFlags) (*config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if fs.Changed("region") {
		cfg.AWS.Region = f.region
	}
	if fs.Changed("profile") {
		cfg.AWS.Profile = f.profile
	}
	if fs.Changed("threshold-days") {
		cfg.SetThreshold(f.thresholdDays)
	}
	if fs.Changed("output") {
		cfg.Output.Format = f.output
	}
	if f.debug {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
