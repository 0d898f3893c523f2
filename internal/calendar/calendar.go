// Package calendar extracts event stubs from a Moodle month view.
package calendar

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mfenderov/moodle-cal/internal/selectors"
	"github.com/mfenderov/moodle-cal/pkg/models"
)

// Parse returns the events of the month view in document order: day by day,
// then item order within a day. Relative links are resolved against base,
// which may be nil. A page without the calendar grid yields no events.
func Parse(doc *goquery.Document, base *url.URL) []models.EventStub {
	month := strings.TrimSpace(doc.Find(selectors.MonthLabel).First().Text())
	if month == "" {
		month = selectors.UnknownMonth
	}

	table := doc.Find(selectors.CalendarTable).First()
	if table.Length() == 0 {
		return []models.EventStub{}
	}

	stubs := make([]models.EventStub, 0)
	table.Find(selectors.EventDay).Each(func(_ int, day *goquery.Selection) {
		dayNumber, _ := day.Attr(selectors.DayAttr)
		date := fmt.Sprintf("%s, Day %s", month, dayNumber)

		day.Find(selectors.EventItem).Each(func(_ int, item *goquery.Selection) {
			link := item.Find(selectors.EventLink).First()
			if link.Length() == 0 {
				return
			}

			name := strings.TrimSpace(link.Find(selectors.EventName).First().Text())
			if name == "" {
				name = strings.TrimSpace(link.Text())
			}

			href, _ := link.Attr("href")
			kind, _ := item.Attr(selectors.KindAttr)

			stubs = append(stubs, models.EventStub{
				Name:   name,
				URL:    resolve(base, href),
				Handle: handle(dayNumber, item.Index()+1),
				Date:   date,
				Kind:   kind,
			})
		})
	})

	return stubs
}

// handle builds a selector addressing the nth child item of a day cell.
func handle(day string, nth int) string {
	return fmt.Sprintf(`%s %s[%s=%q] %s:nth-child(%d) %s`,
		selectors.CalendarTable, selectors.EventDay, selectors.DayAttr, day,
		selectors.EventItem, nth, selectors.EventLink)
}

func resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
