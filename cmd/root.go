package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"linkedin-scraper/internal/browser"
	"linkedin-scraper/internal/config"
	"linkedin-scraper/internal/scraper"
	"linkedin-scraper/internal/session"
	"linkedin-scraper/internal/storage"
)

var (
	store       *storage.Store
	browserMgr  *browser.Manager
	cookieStore *session.CookieStore
	sess        *session.Session
	orch        *scraper.Orchestrator
)

var rootCmd = &cobra.Command{
	Use:   "linkd",
	Short: "LinkedIn profile scraper",
	Long: `Linkd scrapes a public LinkedIn profile page through an authenticated
browser session and returns a normalized profile record. Run it as an HTTP
service with 'linkd serve' or scrape a single profile with 'linkd scrape'.`,
	Version: "0.1.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		cfg := config.AppConfig

		st, err := storage.Open(cfg.DBPath, cfg.ResultFile)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		store = st

		browserMgr = browser.NewManager(cfg)
		cookieStore = session.NewCookieStore(cfg.CookieFile)
		sess = session.NewSession(cfg, cookieStore)
		orch = scraper.NewOrchestrator(cfg, browserMgr, sess, store)
		return nil
	},
}

// Execute runs the root command
func Execute() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	err := rootCmd.Execute()

	if browserMgr != nil {
		browserMgr.Close()
	}
	if store != nil {
		store.Close()
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
