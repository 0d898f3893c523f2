package calendar

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse HTML: %v", err)
	}
	return doc
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("failed to parse URL: %v", err)
	}
	return u
}

func TestParse_SingleEvent(t *testing.T) {
	doc := mustDoc(t, `
		<html><body>
			<h2 class="current">October 2026</h2>
			<table class="calendarmonth">
				<tr>
					<td class="day" data-day="4"></td>
					<td class="day hasevent" data-day="5">
						<ul>
							<li data-region="event-item" data-event-eventtype="course">
								<a data-action="view-event" href="/event.php?id=5">
									<span class="eventname">Essay Draft</span>
								</a>
							</li>
						</ul>
					</td>
				</tr>
			</table>
		</body></html>
	`)

	stubs := Parse(doc, mustURL(t, "https://lms.example.com/calendar/view.php?view=month"))

	if len(stubs) != 1 {
		t.Fatalf("expected 1 stub, got %d", len(stubs))
	}

	s := stubs[0]
	if s.Name != "Essay Draft" {
		t.Errorf("Name = %q, want %q", s.Name, "Essay Draft")
	}
	if s.URL != "https://lms.example.com/event.php?id=5" {
		t.Errorf("URL = %q", s.URL)
	}
	if s.Date != "October 2026, Day 5" {
		t.Errorf("Date = %q, want %q", s.Date, "October 2026, Day 5")
	}
	if s.Kind != "course" {
		t.Errorf("Kind = %q, want course", s.Kind)
	}
	wantHandle := `table.calendarmonth td.hasevent[data-day="5"] li[data-region="event-item"]:nth-child(1) a[data-action="view-event"]`
	if s.Handle != wantHandle {
		t.Errorf("Handle = %q, want %q", s.Handle, wantHandle)
	}
}

func TestParse_DocumentOrder(t *testing.T) {
	doc := mustDoc(t, `
		<h2 class="current">March 2026</h2>
		<table class="calendarmonth"><tr>
			<td class="hasevent" data-day="2"><ul>
				<li data-region="event-item"><a data-action="view-event" href="a"><span class="eventname">A</span></a></li>
				<li data-region="event-item"><a data-action="view-event" href="b"><span class="eventname">B</span></a></li>
			</ul></td>
			<td class="hasevent" data-day="9"><ul>
				<li data-region="event-item"><a data-action="view-event" href="c"><span class="eventname">C</span></a></li>
			</ul></td>
		</tr></table>
	`)

	stubs := Parse(doc, nil)

	var names []string
	for _, s := range stubs {
		names = append(names, s.Name)
	}
	if got := strings.Join(names, ","); got != "A,B,C" {
		t.Errorf("order = %q, want A,B,C", got)
	}
	if !strings.Contains(stubs[1].Handle, ":nth-child(2)") {
		t.Errorf("second item handle = %q, want nth-child(2)", stubs[1].Handle)
	}
	if stubs[2].Date != "March 2026, Day 9" {
		t.Errorf("Date = %q", stubs[2].Date)
	}
	if stubs[0].URL != "a" {
		t.Errorf("URL without base should be left as-is, got %q", stubs[0].URL)
	}
}

func TestParse_EdgeCases(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		wantCount int
		check     func(*testing.T, string, string)
	}{
		{
			name:      "no calendar grid",
			html:      `<h2 class="current">May 2026</h2><p>Nothing here</p>`,
			wantCount: 0,
		},
		{
			name: "cells without hasevent are ignored",
			html: `<table class="calendarmonth"><tr>
				<td data-day="1"><ul><li data-region="event-item"><a data-action="view-event" href="x"><span class="eventname">X</span></a></li></ul></td>
			</tr></table>`,
			wantCount: 0,
		},
		{
			name: "items without view-event link are skipped",
			html: `<table class="calendarmonth"><tr>
				<td class="hasevent" data-day="1"><ul>
					<li data-region="event-item"><span>no link</span></li>
					<li data-region="event-item"><a data-action="view-event" href="y"><span class="eventname">Y</span></a></li>
				</ul></td>
			</tr></table>`,
			wantCount: 1,
		},
		{
			name: "missing month label and eventname span",
			html: `<table class="calendarmonth"><tr>
				<td class="hasevent" data-day="12"><ul>
					<li data-region="event-item"><a data-action="view-event" href="z"> Plain Name </a></li>
				</ul></td>
			</tr></table>`,
			wantCount: 1,
			check: func(t *testing.T, name, date string) {
				if name != "Plain Name" {
					t.Errorf("Name = %q, want %q", name, "Plain Name")
				}
				if date != "Unknown Month, Day 12" {
					t.Errorf("Date = %q", date)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubs := Parse(mustDoc(t, tt.html), nil)
			if stubs == nil {
				t.Fatal("Parse() should never return nil")
			}
			if len(stubs) != tt.wantCount {
				t.Fatalf("got %d stubs, want %d", len(stubs), tt.wantCount)
			}
			if tt.check != nil {
				tt.check(t, stubs[0].Name, stubs[0].Date)
			}
		})
	}
}
