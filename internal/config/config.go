package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	// LinkedIn credentials used when a live login is required
	LinkedInEmail    string `mapstructure:"linkedin_email"`
	LinkedInPassword string `mapstructure:"linkedin_password"`

	// LiAtCookie is a pre-obtained session cookie value. When set, it takes
	// priority over the cookie file and the live login flow.
	LiAtCookie string `mapstructure:"li_at_cookie"`

	// Browser behaviour
	Headless        bool   `mapstructure:"headless"`
	SharedBrowser   bool   `mapstructure:"shared_browser"`
	BlockResources  bool   `mapstructure:"block_resources"`
	MobileEmulation bool   `mapstructure:"mobile_emulation"`
	ExecutablePath  string `mapstructure:"executable_path"`

	// Timeouts, in seconds in the config file
	NavigationTimeoutSec int `mapstructure:"navigation_timeout"`
	ElementTimeoutSec    int `mapstructure:"element_timeout"`
	ScrapeTimeoutSec     int `mapstructure:"scrape_timeout"`

	// Server
	Port int `mapstructure:"port"`

	// Persistence paths. Defaults live under ~/.linkd
	CookieFile string `mapstructure:"cookie_file"`
	ResultFile string `mapstructure:"result_file"`
	DBPath     string `mapstructure:"db_path"`
}

func (c *Config) NavigationTimeout() time.Duration {
	return time.Duration(c.NavigationTimeoutSec) * time.Second
}

func (c *Config) ElementTimeout() time.Duration {
	return time.Duration(c.ElementTimeoutSec) * time.Second
}

func (c *Config) ScrapeTimeout() time.Duration {
	return time.Duration(c.ScrapeTimeoutSec) * time.Second
}

var AppConfig *Config

// Initialize loads or creates the configuration file and layers
// environment variables over it.
func Initialize() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	configFile := filepath.Join(dir, "config.yaml")

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := createDefaultConfig(configFile); err != nil {
			return err
		}
	}

	viper.SetConfigFile(configFile)
	viper.SetConfigType("yaml")

	viper.SetDefault("linkedin_email", "")
	viper.SetDefault("linkedin_password", "")
	viper.SetDefault("li_at_cookie", "")
	viper.SetDefault("headless", true)
	viper.SetDefault("shared_browser", true)
	viper.SetDefault("block_resources", true)
	viper.SetDefault("mobile_emulation", false)
	viper.SetDefault("executable_path", "")
	viper.SetDefault("navigation_timeout", 120)
	viper.SetDefault("element_timeout", 30)
	viper.SetDefault("scrape_timeout", 300)
	viper.SetDefault("port", 3000)
	viper.SetDefault("cookie_file", filepath.Join(dir, "linkedin_cookies.json"))
	viper.SetDefault("result_file", filepath.Join(dir, "last_profile.json"))
	viper.SetDefault("db_path", filepath.Join(dir, "linkd.db"))

	// Deployments set these instead of editing the config file
	viper.BindEnv("linkedin_email", "LINKEDIN_EMAIL")
	viper.BindEnv("linkedin_password", "LINKEDIN_PASSWORD")
	viper.BindEnv("li_at_cookie", "LI_AT_COOKIE")
	viper.BindEnv("executable_path", "CHROME_EXECUTABLE_PATH")
	viper.BindEnv("port", "PORT")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	AppConfig = &Config{}
	if err := viper.Unmarshal(AppConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return nil
}

// Dir returns the directory holding the config file, cookie file and
// scrape database.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".linkd"), nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig(path string) error {
	defaultConfig := `# linkd configuration
# LinkedIn credentials (keep this file secure!)
linkedin_email: ""
linkedin_password: ""

# Pre-obtained li_at session cookie. When set, no login is attempted.
li_at_cookie: ""

# Browser
headless: true
shared_browser: true
block_resources: true
mobile_emulation: false
executable_path: ""

# Timeouts in seconds
navigation_timeout: 120
element_timeout: 30
scrape_timeout: 300

# HTTP server
port: 3000
`
	return os.WriteFile(path, []byte(defaultConfig), 0600)
}

// Set updates a configuration value
func Set(key, value string) error {
	viper.Set(key, value)
	return viper.WriteConfig()
}

// Get retrieves a configuration value
func Get(key string) string {
	return viper.GetString(key)
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	dir, _ := Dir()
	return filepath.Join(dir, "config.yaml")
}
