// Package export renders enriched events for the command line.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/mfenderov/moodle-cal/pkg/models"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatICS  = "ics"
)

// Formats lists the supported output formats.
var Formats = []string{FormatText, FormatJSON, FormatYAML, FormatICS}

// Write renders events to w in the given format.
func Write(w io.Writer, format string, events []models.EnrichedEvent) error {
	switch format {
	case FormatText, "":
		return writeText(w, events)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(events)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(events); err != nil {
			return err
		}
		return enc.Close()
	case FormatICS:
		return writeICS(w, events, time.Now().UTC())
	default:
		return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

func writeText(w io.Writer, events []models.EnrichedEvent) error {
	if len(events) == 0 {
		_, err := fmt.Fprintln(w, "No events found.")
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d events:\n\n", len(events))
	for i, e := range events {
		fmt.Fprintf(&b, "─── Event %d ───\n", i+1)
		fmt.Fprintf(&b, "Event:   %s\n", e.Name)
		fmt.Fprintf(&b, "Course:  %s\n", e.CourseName)
		fmt.Fprintf(&b, "Due:     %s\n", e.FullDueDate)
		fmt.Fprintf(&b, "Date:    %s\n", e.Date)
		fmt.Fprintf(&b, "Type:    %s\n", e.EventType)
		fmt.Fprintf(&b, "Link:    %s\n", e.URL)
		if e.Description != models.NotAvailable {
			fmt.Fprintf(&b, "About:   %s\n", e.Description)
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// writeICS emits one all-day VEVENT per event on the day of its calendar
// cell. Events whose date label cannot be read are left out.
func writeICS(w io.Writer, events []models.EnrichedEvent, now time.Time) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//moodle-cal//Moodle calendar export//EN")

	for _, e := range events {
		day, ok := ParseDay(e.Date)
		if !ok {
			slog.Warn("skipping event with unreadable date", "name", e.Name, "date", e.Date)
			continue
		}

		ev := cal.AddEvent(EventUID(e))
		ev.SetDtStampTime(now)
		ev.SetSummary(e.Name)
		ev.SetAllDayStartAt(day)
		ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
		ev.SetDescription(fmt.Sprintf("Course: %s\nDue: %s\n\n%s", e.CourseName, e.FullDueDate, e.Description))
		ev.AddProperty(ics.ComponentPropertyCategories, e.EventType)
		if e.SubmissionLink != models.NotAvailable {
			ev.SetURL(e.SubmissionLink)
		}
	}

	return cal.SerializeTo(w)
}

// EventUID derives a stable iCalendar UID from an event's link, name and
// date, so repeated exports update rather than duplicate entries.
func EventUID(e models.EnrichedEvent) string {
	key := e.URL + "|" + e.Name + "|" + e.Date
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String() + "@moodle-cal"
}

// ParseDay reads a grouping label such as "October 2026, Day 5".
func ParseDay(label string) (time.Time, bool) {
	month, day, found := strings.Cut(label, ", Day ")
	if !found {
		return time.Time{}, false
	}

	first, err := time.Parse("January 2006", strings.TrimSpace(month))
	if err != nil {
		return time.Time{}, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(day))
	if err != nil || n < 1 {
		return time.Time{}, false
	}

	t := first.AddDate(0, 0, n-1)
	if t.Month() != first.Month() {
		return time.Time{}, false
	}
	return t, true
}
