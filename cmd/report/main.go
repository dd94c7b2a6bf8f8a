package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/L1nMay/scanresults/internal/config"
	"github.com/L1nMay/scanresults/internal/logger"
	"github.com/L1nMay/scanresults/internal/results"
)

var (
	configPath string
	opts       reportOptions
)

var rootCmd = &cobra.Command{
	Use:          "report [results-dir]",
	Short:        "Print hosts with confirmed vulnerabilities",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if err := logger.Init(&cfg.Log); err != nil {
			return err
		}

		dir := cfg.ResultsDir
		if len(args) == 1 {
			dir = args[0]
		}

		r, err := results.Ingest(dir)
		if err != nil {
			return err
		}
		if n := len(r.Diagnostics()); n > 0 {
			logger.Warnf("%d result files or entries skipped", n)
		}
		return writeReport(cmd.OutOrStdout(), r.Hosts, opts)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to config")
	rootCmd.Flags().BoolVar(&opts.allVulns, "all-vulns", false, "Also list MS12-020 and CVE-2021-1675")
	rootCmd.Flags().BoolVar(&opts.readableShares, "readable-shares", false, "Also list hosts with readable SMB shares")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Errorf("report failed: %v", err)
		os.Exit(1)
	}
}
