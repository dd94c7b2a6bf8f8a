package main

import (
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/L1nMay/scanresults/internal/config"
	"github.com/L1nMay/scanresults/internal/logger"
	"github.com/L1nMay/scanresults/internal/query"
	"github.com/L1nMay/scanresults/internal/storage"
	"github.com/L1nMay/scanresults/internal/webui"
)

var (
	configPath    string
	resultsDir    string
	listen        string
	migrationsDir string
)

var rootCmd = &cobra.Command{
	Use:          "webui",
	Short:        "Serve scan results over HTTP",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if resultsDir != "" {
			cfg.ResultsDir = resultsDir
		}
		if listen != "" {
			cfg.WebUI.Listen = listen
		}
		if err := logger.Init(&cfg.Log); err != nil {
			return err
		}

		notes, err := storage.Open(cfg.Notes, migrationsDir)
		if err != nil {
			logger.Fatalf("failed to open notes storage: %v", err)
		}
		defer notes.Close()

		srv := webui.NewServer(cfg, query.NewService(cfg.ResultsDir, notes), notes)

		addr := cfg.WebUI.Listen
		logger.Infof("Web UI listening on http://%s, results in %s", addr, cfg.ResultsDir)
		return http.ListenAndServe(addr, srv.Handler())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to config")
	rootCmd.Flags().StringVar(&resultsDir, "results-dir", "", "Result root, overrides results_dir")
	rootCmd.Flags().StringVar(&listen, "listen", "", "Listen address, overrides webui.listen")
	rootCmd.Flags().StringVar(&migrationsDir, "migrations", "./migrations", "SQL migrations for the postgres notes backend")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Errorf("web ui server error: %v", err)
		os.Exit(1)
	}
}
