package browser

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mfenderov/moodle-cal/internal/processor"
	"github.com/mfenderov/moodle-cal/internal/selectors"
	"github.com/mfenderov/moodle-cal/pkg/models"
)

// parseDialog reads the event summary dialog into detail. The dialog lays
// out each fact as an icon followed by its text: a clock for the due date
// and a graduation cap for the course.
func parseDialog(doc *goquery.Document, p *processor.Processor, detail models.EventDetail) models.EventDetail {
	if due := iconLabel(doc.Find(selectors.DialogClockIcon).First()); due != "" {
		detail.FullDueDate = due
	}
	if course := iconLabel(doc.Find(selectors.DialogCourseIcon).First()); course != "" {
		detail.CourseName = course
	}

	if body := doc.Find(selectors.DialogDescription).First(); body.Length() > 0 {
		if desc := description(body, p); desc != "" {
			detail.Description = desc
		}
	}

	return detail
}

func description(body *goquery.Selection, p *processor.Processor) string {
	html, err := body.Html()
	if err == nil {
		md, err := p.Convert(html)
		if err == nil {
			return md
		}
		slog.Debug("description conversion failed, using plain text", "error", err)
	}
	return collapse(body.Text())
}

// iconLabel returns the text shown next to an icon. The text is either a
// sibling of the icon or, when the icon sits in a column of its own, the
// contents of the following column.
func iconLabel(icon *goquery.Selection) string {
	if icon.Length() == 0 {
		return ""
	}
	if t := collapse(icon.NextAll().Text()); t != "" {
		return t
	}
	if t := collapse(icon.Parent().Text()); t != "" {
		return t
	}
	return collapse(icon.Parent().Next().Text())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
