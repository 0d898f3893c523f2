package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewEventDetail_Sentinels(t *testing.T) {
	stub := EventStub{Name: "Essay Draft", URL: "https://lms.example.com/event.php?id=5"}

	d := NewEventDetail(stub)

	if d.FullDueDate != NotAvailable {
		t.Errorf("FullDueDate = %q, want %q", d.FullDueDate, NotAvailable)
	}
	if d.CourseName != NotAvailable {
		t.Errorf("CourseName = %q, want %q", d.CourseName, NotAvailable)
	}
	if d.Description != NotAvailable {
		t.Errorf("Description = %q, want %q", d.Description, NotAvailable)
	}
	if d.EventType != DefaultEventType {
		t.Errorf("EventType = %q, want %q", d.EventType, DefaultEventType)
	}
	if d.SubmissionLink != stub.URL {
		t.Errorf("SubmissionLink = %q, want %q", d.SubmissionLink, stub.URL)
	}
}

func TestNewEventDetail_NoURL(t *testing.T) {
	d := NewEventDetail(EventStub{Name: "x"})
	if d.SubmissionLink != NotAvailable {
		t.Errorf("SubmissionLink = %q, want %q", d.SubmissionLink, NotAvailable)
	}
}

func TestMerge(t *testing.T) {
	stub := EventStub{
		Name: "Quiz 1",
		URL:  "https://lms.example.com/event.php?id=9",
		Date: "October 2026, Day 3",
		Kind: "site",
	}

	tests := []struct {
		name   string
		detail EventDetail
		check  func(*testing.T, EnrichedEvent)
	}{
		{
			name: "detail values win",
			detail: EventDetail{
				FullDueDate: "Saturday, 3 October 2026, 11:59 PM",
				CourseName:  "Biology 101",
				Description: "Quiz 1",
				EventType:   "Course Event",
			},
			check: func(t *testing.T, e EnrichedEvent) {
				if e.CourseName != "Biology 101" {
					t.Errorf("CourseName = %q", e.CourseName)
				}
				if e.EventType != "Course Event" {
					t.Errorf("EventType = %q, want detail value", e.EventType)
				}
			},
		},
		{
			name:   "empty detail falls back to sentinels",
			detail: EventDetail{},
			check: func(t *testing.T, e EnrichedEvent) {
				if e.FullDueDate != NotAvailable || e.CourseName != NotAvailable || e.Description != NotAvailable {
					t.Errorf("expected sentinels, got %+v", e)
				}
				if e.EventType != "Site Event" {
					t.Errorf("EventType = %q, want %q", e.EventType, "Site Event")
				}
				if e.SubmissionLink != stub.URL {
					t.Errorf("SubmissionLink = %q, want %q", e.SubmissionLink, stub.URL)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Merge(stub, tt.detail)
			if e.Name != stub.Name || e.URL != stub.URL || e.Date != stub.Date {
				t.Errorf("stub fields not carried over: %+v", e)
			}
			tt.check(t, e)
		})
	}
}

func TestEnrichedEvent_JSONHasAllKeys(t *testing.T) {
	data, err := json.Marshal(Merge(EventStub{}, EventDetail{}))
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	jsonStr := string(data)
	for _, key := range []string{`"name"`, `"url"`, `"date"`, `"full_due_date"`, `"course_name"`, `"description"`, `"event_type"`, `"submission_link"`} {
		if !strings.Contains(jsonStr, key) {
			t.Errorf("JSON should contain field %s, got: %s", key, jsonStr)
		}
	}
	if strings.Contains(jsonStr, `""`) {
		t.Errorf("JSON should not contain empty values: %s", jsonStr)
	}
}

func TestEventTypeLabel(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{"course", "Course Event"},
		{"site", "Site Event"},
		{"USER", "User Event"},
		{"group", "Group Event"},
		{"category", "Category Event"},
		{"", DefaultEventType},
		{"something-new", DefaultEventType},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			if got := EventTypeLabel(tt.kind); got != tt.want {
				t.Errorf("EventTypeLabel(%q) = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}
}
