package models

import "strings"

// Sentinel values used for fields that could not be extracted.
const (
	NotAvailable     = "N/A"
	DefaultEventType = "Course Event"
)

// EventStub is a calendar event as discovered on the month view, before
// detail enrichment.
type EventStub struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
	// Handle is a CSS selector locating the event's clickable link on the
	// calendar page. Only the browser pipeline uses it.
	Handle string `json:"-" yaml:"-"`
	// Date is the coarse grouping label, e.g. "October 2026, Day 5".
	Date string `json:"date" yaml:"date"`
	// Kind is the raw data-event-eventtype attribute, if the portal sent one.
	Kind string `json:"-" yaml:"-"`
}

// EventDetail holds the fields resolved by a detail extractor. Every field
// is always set; unresolvable ones carry NotAvailable.
type EventDetail struct {
	FullDueDate    string `json:"full_due_date" yaml:"full_due_date"`
	CourseName     string `json:"course_name" yaml:"course_name"`
	Description    string `json:"description" yaml:"description"`
	EventType      string `json:"event_type" yaml:"event_type"`
	SubmissionLink string `json:"submission_link" yaml:"submission_link"`
}

// EnrichedEvent is a stub merged with its details. Events have no stable ID;
// they are identified by their position in the result set.
type EnrichedEvent struct {
	Name           string `json:"name" yaml:"name"`
	URL            string `json:"url" yaml:"url"`
	Date           string `json:"date" yaml:"date"`
	FullDueDate    string `json:"full_due_date" yaml:"full_due_date"`
	CourseName     string `json:"course_name" yaml:"course_name"`
	Description    string `json:"description" yaml:"description"`
	EventType      string `json:"event_type" yaml:"event_type"`
	SubmissionLink string `json:"submission_link" yaml:"submission_link"`
}

// NewEventDetail returns a detail record with every field at its default.
// The event type is derived from the stub's kind when known.
func NewEventDetail(stub EventStub) EventDetail {
	link := stub.URL
	if link == "" {
		link = NotAvailable
	}
	return EventDetail{
		FullDueDate:    NotAvailable,
		CourseName:     NotAvailable,
		Description:    NotAvailable,
		EventType:      EventTypeLabel(stub.Kind),
		SubmissionLink: link,
	}
}

// Merge combines a stub with its detail record. Detail values win over
// stub values; empty values on either side fall back to the sentinels.
func Merge(stub EventStub, detail EventDetail) EnrichedEvent {
	defaults := NewEventDetail(stub)
	return EnrichedEvent{
		Name:           orDefault(stub.Name, NotAvailable),
		URL:            orDefault(stub.URL, NotAvailable),
		Date:           orDefault(stub.Date, NotAvailable),
		FullDueDate:    orDefault(detail.FullDueDate, defaults.FullDueDate),
		CourseName:     orDefault(detail.CourseName, defaults.CourseName),
		Description:    orDefault(detail.Description, defaults.Description),
		EventType:      orDefault(detail.EventType, defaults.EventType),
		SubmissionLink: orDefault(detail.SubmissionLink, defaults.SubmissionLink),
	}
}

// EventTypeLabel maps a Moodle event type attribute ("course", "site", ...)
// to a display label. Unknown or empty values yield DefaultEventType.
func EventTypeLabel(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "site":
		return "Site Event"
	case "category":
		return "Category Event"
	case "group":
		return "Group Event"
	case "user":
		return "User Event"
	default:
		return DefaultEventType
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
