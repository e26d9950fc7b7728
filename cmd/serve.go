package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"linkedin-scraper/internal/config"
	"linkedin-scraper/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scraper HTTP API",
	Long:  "Starts the HTTP server exposing POST /scrape, GET /health and GET /.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.AppConfig
		srv := server.New(orch, cfg.ResultFile)
		addr := fmt.Sprintf(":%d", cfg.Port)
		slog.Info("server listening", "addr", addr)
		return srv.Run(addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
