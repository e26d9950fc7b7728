package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"linkedin-scraper/internal/config"
	"linkedin-scraper/internal/session"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log into LinkedIn and refresh the stored session cookie",
	Long: `Performs an interactive LinkedIn login in a headless browser and replaces
the cookie file with the fresh li_at session cookie. Requires
linkedin_email and linkedin_password to be configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := browserMgr.NewPage(cmd.Context())
		if err != nil {
			return err
		}
		defer browserMgr.Release(page)

		flow := session.NewFlow(config.AppConfig, cookieStore)
		cookie, err := flow.Run(page.Ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Login successful, %s cookie saved to %s\n", cookie.Name, cookieStore.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
