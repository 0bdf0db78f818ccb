package main

import (
	"fmt"
	"os"

	"github.com/aretw0/minsky/internal/cli"
	"github.com/aretw0/minsky/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts the Minsky engine in server mode, exposing a JSON API over HTTP together with
Prometheus metrics (/metrics) and the OpenAPI document (/openapi.yaml).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			port, _ := cmd.Flags().GetInt("port")
			cfg.HTTP.Addr = fmt.Sprintf(":%d", port)
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}

		tui.PrintBanner(os.Stderr)
		return cli.Serve(cmd.Context(), cfg, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (overrides http.addr)")
	serveCmd.Flags().Int("fuel", 0, "Default fuel for runs that do not set one")
}
