package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mfenderov/moodle-cal/internal/export"
	"github.com/mfenderov/moodle-cal/internal/pipeline"
)

var (
	eventsDriver string
	eventsFormat string
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List this month's calendar events",
	Long: `Sign in to the portal, read the current month's calendar and print
every event with its details.

Examples:
  # Plain HTTP session, human-readable output
  moodle-cal events

  # Drive a headless Chromium instead
  moodle-cal events --driver browser

  # Import into a calendar app
  moodle-cal events --format ics > moodle.ics`,
	RunE: runEvents,
}

func init() {
	rootCmd.AddCommand(eventsCmd)

	eventsCmd.Flags().StringVar(&eventsDriver, "driver", "", "extraction driver: http or browser (default from config)")
	eventsCmd.Flags().StringVarP(&eventsFormat, "format", "f", export.FormatText,
		"output format: "+strings.Join(export.Formats, ", "))
}

func runEvents(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()
	if eventsDriver != "" {
		cfg.Driver = eventsDriver
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	slog.Debug("events command starting", "driver", cfg.Driver, "format", eventsFormat)

	portal, runConfig, err := openPortal(ctx, cfg, cfg.Driver)
	if err != nil {
		return err
	}

	result, err := pipeline.New(portal, runConfig).Run(ctx)
	if errors.Is(err, pipeline.ErrLoginFailed) {
		return errors.New("login failed: check portal.username and portal.password")
	}
	if err != nil {
		return err
	}

	return export.Write(cmd.OutOrStdout(), eventsFormat, result.Events)
}
