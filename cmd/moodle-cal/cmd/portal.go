package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mfenderov/moodle-cal/internal/browser"
	"github.com/mfenderov/moodle-cal/internal/config"
	"github.com/mfenderov/moodle-cal/internal/events"
	"github.com/mfenderov/moodle-cal/internal/pipeline"
	"github.com/mfenderov/moodle-cal/internal/scraper"
)

var (
	_ pipeline.Portal = (*scraper.Scraper)(nil)
	_ pipeline.Portal = (*browser.Browser)(nil)
)

// openPortal starts a session with the selected driver and returns the
// pipeline settings that go with it. An empty driver uses cfg.Driver.
func openPortal(ctx context.Context, cfg config.Config, driver string) (pipeline.Portal, pipeline.Config, error) {
	if driver == "" {
		driver = cfg.Driver
	}

	run := pipeline.Config{
		OnComplete: func(e events.RunCompleteEvent) {
			slog.Debug("run finished",
				"run_id", e.RunID,
				"events", e.EventCount,
				"logged_in", e.LoggedIn,
				"duration", e.Duration,
			)
		},
	}

	switch driver {
	case config.DriverHTTP:
		s, err := scraper.New(scraper.Config{
			Username:    cfg.Portal.Username,
			Password:    cfg.Portal.Password,
			LoginURL:    cfg.Portal.LoginURL,
			CalendarURL: cfg.Portal.CalendarURL,
			UserAgent:   cfg.Scraper.UserAgent,
			Timeout:     cfg.Scraper.Timeout,
		})
		if err != nil {
			return nil, run, fmt.Errorf("failed to create scraper: %w", err)
		}
		run.Pace = cfg.Scraper.Delay
		return s, run, nil

	case config.DriverBrowser:
		b, err := browser.New(ctx, browser.Config{
			Username:      cfg.Portal.Username,
			Password:      cfg.Portal.Password,
			LoginURL:      cfg.Portal.LoginURL,
			CalendarURL:   cfg.Portal.CalendarURL,
			Headless:      cfg.Browser.Headless,
			ExecPath:      cfg.Browser.ExecPath,
			UserAgent:     cfg.Browser.UserAgent,
			PageTimeout:   cfg.Browser.PageTimeout,
			LoginTimeout:  cfg.Browser.LoginTimeout,
			DialogTimeout: cfg.Browser.DialogTimeout,
		})
		if err != nil {
			return nil, run, fmt.Errorf("failed to start browser: %w", err)
		}
		run.Pace = cfg.Browser.Delay
		return b, run, nil

	default:
		return nil, run, fmt.Errorf("unknown driver %q", driver)
	}
}
