package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Supported values for Config.Driver.
const (
	DriverHTTP    = "http"
	DriverBrowser = "browser"
)

// Placeholder credentials shipped in the example config file.
const (
	PlaceholderUsername = "YOUR_USERNAME_HERE"
	PlaceholderPassword = "YOUR_PASSWORD_HERE"
)

// Config holds all application configuration.
type Config struct {
	Driver  string  `mapstructure:"driver"`
	Portal  Portal  `mapstructure:"portal"`
	Scraper Scraper `mapstructure:"scraper"`
	Browser Browser `mapstructure:"browser"`
	MCP     MCP     `mapstructure:"mcp"`
}

// Portal holds the Moodle credentials and entry points.
type Portal struct {
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	LoginURL    string `mapstructure:"login_url"`
	CalendarURL string `mapstructure:"calendar_url"`
}

// Scraper holds HTTP pipeline configuration.
type Scraper struct {
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Delay     time.Duration `mapstructure:"delay"`
}

// Browser holds browser pipeline configuration.
type Browser struct {
	Headless      bool          `mapstructure:"headless"`
	ExecPath      string        `mapstructure:"exec_path"`
	UserAgent     string        `mapstructure:"user_agent"`
	PageTimeout   time.Duration `mapstructure:"page_timeout"`
	LoginTimeout  time.Duration `mapstructure:"login_timeout"`
	DialogTimeout time.Duration `mapstructure:"dialog_timeout"`
	Delay         time.Duration `mapstructure:"delay"`
}

// MCP holds MCP server configuration.
type MCP struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Driver: DriverHTTP,
		Scraper: Scraper{
			UserAgent: "moodle-cal/1.0",
			Timeout:   15 * time.Second,
			Delay:     500 * time.Millisecond,
		},
		Browser: Browser{
			Headless:      true,
			PageTimeout:   30 * time.Second,
			LoginTimeout:  15 * time.Second,
			DialogTimeout: 10 * time.Second,
			Delay:         1 * time.Second,
		},
		MCP: MCP{
			Name:    "moodle-cal",
			Version: "1.0.0",
		},
	}
}

// Validate checks that the portal section is filled in with real values.
func (c Config) Validate() error {
	var errs []error

	required := []struct {
		key, value string
	}{
		{"portal.username", c.Portal.Username},
		{"portal.password", c.Portal.Password},
		{"portal.login_url", c.Portal.LoginURL},
		{"portal.calendar_url", c.Portal.CalendarURL},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.key))
		}
	}

	if strings.Contains(c.Portal.Username, PlaceholderUsername) || strings.Contains(c.Portal.Password, PlaceholderPassword) {
		errs = append(errs, errors.New("replace the placeholder credentials in the config file"))
	}

	switch c.Driver {
	case DriverHTTP, DriverBrowser:
	default:
		errs = append(errs, fmt.Errorf("unknown driver %q (want %q or %q)", c.Driver, DriverHTTP, DriverBrowser))
	}

	return errors.Join(errs...)
}
