// Package browser drives a headless Chromium through the portal. Event
// details are read from the summary dialog the calendar opens on click,
// so one event is processed at a time.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"github.com/mfenderov/moodle-cal/internal/calendar"
	"github.com/mfenderov/moodle-cal/internal/processor"
	"github.com/mfenderov/moodle-cal/internal/selectors"
	"github.com/mfenderov/moodle-cal/internal/wait"
	"github.com/mfenderov/moodle-cal/pkg/models"
)

// Default timeouts for browser waits.
const (
	DefaultPageTimeout   = 30 * time.Second
	DefaultLoginTimeout  = 15 * time.Second
	DefaultDialogTimeout = 10 * time.Second
)

// Config defines the portal credentials and browser parameters.
type Config struct {
	Username    string
	Password    string
	LoginURL    string
	CalendarURL string

	// Headless runs Chromium without a window.
	Headless bool
	// ExecPath overrides the Chromium binary lookup.
	ExecPath  string
	UserAgent string

	// PageTimeout bounds navigation. LoginTimeout bounds the wait for the
	// post-login landmark. DialogTimeout bounds opening and closing the
	// event dialog. Zero values use the defaults above.
	PageTimeout   time.Duration
	LoginTimeout  time.Duration
	DialogTimeout time.Duration
}

// Browser is a signed-in Chromium session. It is bound to the context
// passed to New: cancelling that context terminates the browser.
type Browser struct {
	config    Config
	ctx       context.Context
	cancel    context.CancelFunc
	processor *processor.Processor
	closeOnce sync.Once
	closeErr  error
}

// New launches Chromium. The browser process is owned by the returned
// Browser and released by Close.
func New(ctx context.Context, config Config) (*Browser, error) {
	if config.LoginURL == "" || config.CalendarURL == "" {
		return nil, errors.New("browser: login and calendar URLs are required")
	}
	if config.PageTimeout <= 0 {
		config.PageTimeout = DefaultPageTimeout
	}
	if config.LoginTimeout <= 0 {
		config.LoginTimeout = DefaultLoginTimeout
	}
	if config.DialogTimeout <= 0 {
		config.DialogTimeout = DefaultDialogTimeout
	}

	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.Flag("headless", config.Headless))
	if config.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(config.ExecPath))
	}
	if config.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(config.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	cancel := func() {
		browserCancel()
		allocCancel()
	}

	// An empty Run starts the browser, so launch failures surface here.
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("browser: launch failed: %w", err)
	}

	return &Browser{
		config:    config,
		ctx:       browserCtx,
		cancel:    cancel,
		processor: processor.New(),
	}, nil
}

// Login fills in the login form and waits for the post-login landmark.
// The browser is closed if login fails.
func (b *Browser) Login(ctx context.Context) error {
	if err := b.login(ctx); err != nil {
		b.Close()
		return err
	}
	slog.Info("login successful", "user", b.config.Username)
	return nil
}

func (b *Browser) login(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	slog.Debug("opening login page", "url", b.config.LoginURL)
	err := b.run(b.config.PageTimeout,
		chromedp.Navigate(b.config.LoginURL),
		chromedp.WaitVisible(selectors.LoginUsername, chromedp.ByQuery),
		chromedp.SendKeys(selectors.LoginUsername, b.config.Username, chromedp.ByQuery),
		chromedp.SendKeys(selectors.LoginPassword, b.config.Password, chromedp.ByQuery),
		chromedp.Click(selectors.LoginSubmit, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("submitting login form: %w", err)
	}

	err = b.run(b.config.LoginTimeout, chromedp.WaitReady(selectors.LoginLandmark, chromedp.ByQuery))
	if err != nil {
		return fmt.Errorf("waiting for post-login page: %w", err)
	}
	return nil
}

// ListEvents opens the month view and returns its event stubs. Each stub's
// Handle locates the link that opens its dialog.
func (b *Browser) ListEvents(ctx context.Context) ([]models.EventStub, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Info("opening calendar", "url", b.config.CalendarURL)

	var html, location string
	err := b.run(b.config.PageTimeout,
		chromedp.Navigate(b.config.CalendarURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Location(&location),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("loading calendar: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing calendar: %w", err)
	}
	if base, err := url.Parse(location); err == nil {
		doc.Url = base
	}

	if doc.Find(selectors.CalendarTable).Length() == 0 {
		slog.Warn("calendar grid not found", "url", location)
	}
	return calendar.Parse(doc, doc.Url), nil
}

// FetchDetail clicks the event, reads the dialog and closes it again.
// Failures are logged and leave the affected fields at their sentinels.
func (b *Browser) FetchDetail(ctx context.Context, stub models.EventStub) models.EventDetail {
	detail := models.NewEventDetail(stub)

	if stub.Handle == "" {
		slog.Warn("event has no handle, skipping details", "name", stub.Name)
		return detail
	}
	if err := ctx.Err(); err != nil {
		slog.Warn("skipping event details", "name", stub.Name, "error", err)
		return detail
	}

	if err := b.run(b.config.DialogTimeout, chromedp.Click(stub.Handle, chromedp.ByQuery)); err != nil {
		slog.Warn("failed to open event dialog", "name", stub.Name, "error", err)
		return detail
	}

	var html string
	err := b.run(b.config.DialogTimeout, chromedp.Poll(visibleOuterHTML(selectors.Dialog), &html))
	if err != nil {
		slog.Warn("event dialog did not appear", "name", stub.Name, "error", err)
		b.dismiss(stub)
		return detail
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		slog.Warn("failed to parse event dialog", "name", stub.Name, "error", err)
	} else {
		detail = parseDialog(doc, b.processor, detail)
	}

	b.dismiss(stub)
	return detail
}

// dismiss closes the open dialog and waits until no dialog is visible.
// The next event cannot be clicked while a dialog is open.
func (b *Browser) dismiss(stub models.EventStub) {
	var clicked, hidden bool
	err := b.run(b.config.DialogTimeout,
		chromedp.Evaluate(clickClose(selectors.Dialog, selectors.DialogClose), &clicked),
		chromedp.Poll(noneVisible(selectors.Dialog), &hidden),
	)
	if err != nil {
		slog.Warn("failed to close event dialog", "name", stub.Name, "error", err)
	}
}

// Close terminates the browser. It is safe to call more than once.
func (b *Browser) Close() error {
	b.closeOnce.Do(func() {
		if err := chromedp.Cancel(b.ctx); err != nil && !errors.Is(err, context.Canceled) {
			b.closeErr = fmt.Errorf("browser: close failed: %w", err)
		}
		b.cancel()
	})
	return b.closeErr
}

// run executes actions within timeout on the browser context.
func (b *Browser) run(timeout time.Duration, actions ...chromedp.Action) error {
	return wait.Until(b.ctx, timeout, func(ctx context.Context) error {
		return chromedp.Run(ctx, actions...)
	})
}

// visibleOuterHTML evaluates to the markup of the first rendered element
// matching sel, or false when there is none.
func visibleOuterHTML(sel string) string {
	return fmt.Sprintf(`(() => {
		const el = Array.from(document.querySelectorAll(%q)).find(e => e.getClientRects().length > 0);
		return el ? el.outerHTML : false;
	})()`, sel)
}

// noneVisible evaluates to true once no element matching sel is rendered.
func noneVisible(sel string) string {
	return fmt.Sprintf(`!Array.from(document.querySelectorAll(%q)).some(e => e.getClientRects().length > 0)`, sel)
}

// clickClose clicks the close control of the visible dialog, if any.
func clickClose(dialog, control string) string {
	return fmt.Sprintf(`(() => {
		const d = Array.from(document.querySelectorAll(%q)).find(e => e.getClientRects().length > 0);
		const btn = d && d.querySelector(%q);
		if (btn) { btn.click(); }
		return true;
	})()`, dialog, control)
}
