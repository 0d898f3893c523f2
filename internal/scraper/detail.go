package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mfenderov/moodle-cal/internal/selectors"
	"github.com/mfenderov/moodle-cal/pkg/models"
)

// FetchDetail visits the event's page and resolves its course name, due
// date and description. Failures are logged and leave the affected fields
// at their sentinel values.
func (s *Scraper) FetchDetail(ctx context.Context, stub models.EventStub) models.EventDetail {
	detail := models.NewEventDetail(stub)

	if stub.URL == "" {
		slog.Warn("event has no link, skipping details", "name", stub.Name)
		return detail
	}

	doc, err := s.get(ctx, stub.URL)
	if err != nil {
		slog.Warn("failed to fetch event page", "url", stub.URL, "name", stub.Name, "error", err)
		return detail
	}

	if ref := courseRef(doc); ref != "" {
		name, err := s.courses.getOrFetch(ref, func(ref string) (string, error) {
			slog.Info("first time seeing this course, fetching full name", "url", ref)
			return s.courseName(ctx, ref)
		})
		if err != nil {
			slog.Warn("failed to resolve course name", "url", ref, "error", err)
		}
		detail.CourseName = name
	}

	if due := dueDate(doc); due != "" {
		detail.FullDueDate = due
	}
	if desc := description(doc); desc != "" {
		detail.Description = desc
	}

	return detail
}

// courseName fetches a course page and returns its heading.
func (s *Scraper) courseName(ctx context.Context, ref string) (string, error) {
	doc, err := s.get(ctx, ref)
	if err != nil {
		return "", err
	}
	name := text(doc.Find(selectors.CourseHeading).First())
	if name == "" {
		return "", fmt.Errorf("course heading not found")
	}
	return name, nil
}

// courseRef returns the absolute target of the second-to-last breadcrumb
// link, which points at the course.
func courseRef(doc *goquery.Document) string {
	links := doc.Find(selectors.Breadcrumb).First().Find("a[href]")
	if links.Length() < 2 {
		return ""
	}
	href, _ := links.Eq(links.Length() - 2).Attr("href")
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if doc.Url == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return doc.Url.ResolveReference(ref).String()
}

// dueDate reads the "Due date" row of the submission status table.
func dueDate(doc *goquery.Document) string {
	status := headerCell(doc.Selection, selectors.SubmissionTable)
	if status.Length() == 0 {
		return ""
	}
	table := status.Closest("table")
	if table.Length() == 0 {
		return ""
	}
	due := headerCell(table, selectors.DueDateHeader)
	if due.Length() == 0 {
		return ""
	}
	return text(due.NextAllFiltered("td").First())
}

// headerCell returns the first th under sel whose text contains marker,
// ignoring case.
func headerCell(sel *goquery.Selection, marker string) *goquery.Selection {
	return sel.Find("th").FilterFunction(func(_ int, th *goquery.Selection) bool {
		return strings.Contains(strings.ToLower(th.Text()), marker)
	}).First()
}

// description returns the first sub-heading of the main content region.
func description(doc *goquery.Document) string {
	return text(doc.Find(selectors.MainRegion).First().Find(selectors.MainSubHeading).First())
}
