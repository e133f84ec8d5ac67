package main

import (
	"errors"

	"github.com/spf13/cobra"
)

var sweepYes bool

// sweepCmd represents the sweep command
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete idle resources",
	Long: `Discover resources idle for at least the threshold and delete them.

Deletion is permanent: RDS instances are removed without a final
snapshot and S3 buckets are deleted as-is. Pass --yes to confirm.`,
	Example: `  reaper sweep --yes                       # Delete everything idle 30+ days
  reaper sweep --yes --threshold-days 90   # Only the truly forgotten`,
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().BoolVarP(&sweepYes, "yes", "y", false, "Confirm deletion")
}

var errNotConfirmed = errors.New("sweep deletes resources permanently; pass --yes to confirm")

func runSweep(cmd *cobra.Command, _ []string) error {
	if err := confirmSweep(sweepYes); err != nil {
		return err
	}
	return execute(cmd, modeSweep)
}

func confirmSweep(yes bool) error {
	if !yes {
		return errNotConfirmed
	}
	return nil
}
