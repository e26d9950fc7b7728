package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"linkedin-scraper/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  "View and update configuration settings",
}

var configurableKeys = []string{
	"linkedin_email", "linkedin_password", "li_at_cookie",
	"headless", "shared_browser", "block_resources", "mobile_emulation",
	"executable_path", "navigation_timeout", "element_timeout",
	"scrape_timeout", "port", "cookie_file", "result_file", "db_path",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.AppConfig

		fmt.Println(titleStyle.Render("Configuration"))
		fmt.Printf("%s %s\n", labelStyle.Render("Config File:"), config.GetConfigPath())
		fmt.Printf("%s %v\n", labelStyle.Render("Headless:"), cfg.Headless)
		fmt.Printf("%s %v\n", labelStyle.Render("Shared Browser:"), cfg.SharedBrowser)
		fmt.Printf("%s %v\n", labelStyle.Render("Block Resources:"), cfg.BlockResources)
		fmt.Printf("%s %v\n", labelStyle.Render("Mobile Emulation:"), cfg.MobileEmulation)
		fmt.Printf("%s %d\n", labelStyle.Render("Port:"), cfg.Port)
		fmt.Printf("%s %s\n", labelStyle.Render("Cookie File:"), cfg.CookieFile)
		fmt.Printf("%s %s\n", labelStyle.Render("Result File:"), cfg.ResultFile)

		// show whether credentials exist, never the values themselves
		printConfigured("LinkedIn Email", cfg.LinkedInEmail != "")
		printConfigured("LinkedIn Password", cfg.LinkedInPassword != "")
		printConfigured("li_at Cookie", cfg.LiAtCookie != "")
	},
}

func printConfigured(label string, ok bool) {
	status := "✗ Not configured"
	if ok {
		status = "✓ Configured"
	}
	fmt.Printf("%s %s\n", labelStyle.Render(label+":"), status)
}

var setConfigCmd = &cobra.Command{
	Use:   "set",
	Short: "Update a configuration value",
	Example: `  linkd config set --key linkedin_email --value your-email@example.com
  linkd config set --key linkedin_password --value your-password
  linkd config set --key li_at_cookie --value AQED...
  linkd config set --key headless --value false`,
	Run: func(cmd *cobra.Command, args []string) {
		key, _ := cmd.Flags().GetString("key")
		value, _ := cmd.Flags().GetString("value")

		if key == "" || value == "" {
			fmt.Println("Both --key and --value are required")
			return
		}

		if !slices.Contains(configurableKeys, key) {
			fmt.Printf("Invalid key. Must be one of: %v\n", configurableKeys)
			return
		}

		if err := config.Set(key, value); err != nil {
			fmt.Fprintf(os.Stderr, "Error updating config: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("✓ Configuration updated: %s\n", key)
	},
}

var getConfigCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Read a configuration value",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.Get(args[0]))
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(setConfigCmd)
	configCmd.AddCommand(getConfigCmd)

	setConfigCmd.Flags().String("key", "", "Configuration key")
	setConfigCmd.Flags().String("value", "", "Configuration value")
}
