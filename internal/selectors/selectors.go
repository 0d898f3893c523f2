// Package selectors holds the CSS selectors and text markers used to read
// the Moodle portal. Both pipelines locate elements only through these.
package selectors

// Login page.
const (
	LoginToken    = `input[name="logintoken"]`
	LoginUsername = `#username`
	LoginPassword = `#password`
	LoginSubmit   = `#loginbtn`
	// LogoutLink is only rendered for an authenticated user.
	LogoutLink = `a[href*="login/logout.php"]`
	// LoginLandmark is the user menu toggle present after sign-in.
	LoginLandmark = `#user-menu-toggle`
)

// Calendar month view.
const (
	MonthLabel    = `h2.current`
	CalendarTable = `table.calendarmonth`
	EventDay      = `td.hasevent`
	EventItem     = `li[data-region="event-item"]`
	EventLink     = `a[data-action="view-event"]`
	EventName     = `span.eventname`

	DayAttr  = "data-day"
	KindAttr = "data-event-eventtype"
)

// UnknownMonth replaces a missing month/year label.
const UnknownMonth = "Unknown Month"

// Event and course pages.
const (
	Breadcrumb      = `nav[aria-label="Navigation bar"]`
	CourseHeading   = `div.page-header-headings h1`
	MainRegion      = `div[role="main"]`
	MainSubHeading  = `h2`
	SubmissionTable = "submission status"
	DueDateHeader   = "due date"
)

// Event summary dialog.
const (
	Dialog            = `div[data-region="modal"]`
	DialogClose       = `button[data-action="hide"]`
	DialogClockIcon   = `.fa-clock-o, .fa-clock`
	DialogCourseIcon  = `.fa-graduation-cap`
	DialogDescription = `.description-content`
)
