package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mfenderov/moodle-cal/internal/config"
)

var (
	cfgFile string
	verbose bool
	cfg     config.Config
)

// GetConfig returns the loaded configuration.
func GetConfig() config.Config {
	return cfg
}

var rootCmd = &cobra.Command{
	Use:   "moodle-cal",
	Short: "moodle-cal: read your Moodle calendar from the command line",
	Long: `moodle-cal signs in to a Moodle portal, reads the current month's
calendar and enriches every event with its due date, course and description.

Commands:
  events  Run one extraction pass and print the events
  serve   Start the MCP server exposing the calendar as a tool`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initLogger, initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

func initLogger() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func initConfig() {
	cfg = config.Defaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/moodle-cal")
		viper.AddConfigPath(".")
	}

	// MOODLECAL_PORTAL_PASSWORD -> portal.password
	viper.SetEnvPrefix("MOODLECAL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Unmarshal only sees env vars for keys viper already knows about.
	for _, key := range []string{
		"driver",
		"portal.username",
		"portal.password",
		"portal.login_url",
		"portal.calendar_url",
		"scraper.user_agent",
		"scraper.timeout",
		"scraper.delay",
		"browser.headless",
		"browser.exec_path",
		"browser.user_agent",
		"browser.page_timeout",
		"browser.login_timeout",
		"browser.dialog_timeout",
		"browser.delay",
		"mcp.name",
		"mcp.version",
	} {
		viper.BindEnv(key)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("config file error", "error", err)
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		slog.Warn("failed to parse config", "error", err)
	}
}
