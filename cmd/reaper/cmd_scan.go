package main

import (
	"github.com/spf13/cobra"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List idle resources without deleting anything",
	Long: `Discover resources idle for at least the threshold and report them.
Only read-only API calls are made.`,
	Example: `  reaper scan                          # Scan the default region
  reaper scan --region eu-west-1       # Scan a specific region
  reaper scan --threshold-days 7       # Flag anything idle a week or more
  reaper scan -o json                  # Machine-readable report`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return execute(cmd, modeScan)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
