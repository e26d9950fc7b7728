package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previously scraped profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles, err := store.ListProfiles()
		if err != nil {
			return err
		}

		if len(profiles) == 0 {
			fmt.Println("No profiles scraped yet.")
			return nil
		}

		fmt.Println(titleStyle.Render("Scrape History"))
		for _, p := range profiles {
			name := p.FullName
			if name == "" {
				name = "(no name)"
			}
			fmt.Printf("%s %s\n", labelStyle.Render(name), valueStyle.Render(p.LinkedInURL))
			fmt.Printf("  %s\n", valueStyle.Render(p.ScrapedAt.Format("2006-01-02 15:04")))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
