package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"golang.org/x/net/publicsuffix"

	"github.com/mfenderov/moodle-cal/internal/calendar"
	"github.com/mfenderov/moodle-cal/internal/selectors"
	"github.com/mfenderov/moodle-cal/pkg/models"
)

// Config holds scraper configuration.
type Config struct {
	Username    string
	Password    string
	LoginURL    string
	CalendarURL string
	UserAgent   string
	Timeout     time.Duration
}

// Scraper reads the portal over plain HTTP with a cookie-bearing session.
type Scraper struct {
	config    Config
	collector *colly.Collector
	courses   *courseCache
	closeOnce sync.Once
}

// New creates a new Scraper with the given configuration.
func New(config Config) (*Scraper, error) {
	if config.LoginURL == "" || config.CalendarURL == "" {
		return nil, fmt.Errorf("login and calendar URLs are required")
	}
	if config.Timeout == 0 {
		config.Timeout = 15 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "moodle-cal/1.0"
	}

	jar, err := newJar()
	if err != nil {
		return nil, err
	}

	c := colly.NewCollector(
		colly.UserAgent(config.UserAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(config.Timeout)
	c.SetCookieJar(jar)

	return &Scraper{
		config:    config,
		collector: c,
		courses:   newCourseCache(),
	}, nil
}

func newJar() (http.CookieJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	return jar, nil
}

// Login fetches the login form, posts the credentials with its token and
// checks the response for the logout link.
func (s *Scraper) Login(ctx context.Context) error {
	slog.Debug("fetching login page", "url", s.config.LoginURL)

	loginPage, err := s.get(ctx, s.config.LoginURL)
	if err != nil {
		return fmt.Errorf("fetching login page: %w", err)
	}

	token, ok := loginPage.Find(selectors.LoginToken).First().Attr("value")
	if !ok {
		return errors.New("login token not found on login page")
	}
	slog.Debug("found login token")

	resp, err := s.post(ctx, s.config.LoginURL, map[string]string{
		"username":   s.config.Username,
		"password":   s.config.Password,
		"logintoken": token,
	})
	if err != nil {
		return fmt.Errorf("submitting credentials: %w", err)
	}

	if resp.Find(selectors.LogoutLink).Length() == 0 {
		return errors.New("portal did not accept the credentials")
	}

	slog.Info("login successful", "user", s.config.Username)
	return nil
}

// ListEvents fetches the month view and returns its event stubs.
func (s *Scraper) ListEvents(ctx context.Context) ([]models.EventStub, error) {
	slog.Info("fetching calendar", "url", s.config.CalendarURL)

	doc, err := s.get(ctx, s.config.CalendarURL)
	if err != nil {
		return nil, fmt.Errorf("fetching calendar: %w", err)
	}

	stubs := calendar.Parse(doc, doc.Url)
	if doc.Find(selectors.CalendarTable).Length() == 0 {
		slog.Warn("calendar grid not found", "url", s.config.CalendarURL)
	}
	return stubs, nil
}

// Close drops the session cookies. Further requests are unauthenticated.
func (s *Scraper) Close() error {
	var err error
	s.closeOnce.Do(func() {
		var jar http.CookieJar
		jar, err = newJar()
		if err == nil {
			s.collector.SetCookieJar(jar)
		}
	})
	return err
}

func (s *Scraper) get(ctx context.Context, target string) (*goquery.Document, error) {
	return s.fetch(ctx, target, nil)
}

func (s *Scraper) post(ctx context.Context, target string, form map[string]string) (*goquery.Document, error) {
	return s.fetch(ctx, target, form)
}

// fetch issues one request on a clone of the session collector and parses
// the response. Clones share the HTTP backend and therefore the cookie jar.
func (s *Scraper) fetch(ctx context.Context, target string, form map[string]string) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := s.collector.Clone()

	var doc *goquery.Document
	var parseErr error

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			slog.Debug("request cancelled", "url", r.URL.String())
			r.Abort()
		}
	})

	c.OnResponse(func(r *colly.Response) {
		d, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			parseErr = fmt.Errorf("parsing HTML: %w", err)
			return
		}
		d.Url = r.Request.URL
		doc = d
	})

	var err error
	if form != nil {
		err = c.Post(target, form)
	} else {
		err = c.Visit(target)
	}
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if parseErr != nil {
		return nil, parseErr
	}
	if doc == nil {
		return nil, fmt.Errorf("no response from %s", target)
	}

	slog.Debug("fetched page", "url", target, "method", method(form))
	return doc, nil
}

func method(form map[string]string) string {
	if form != nil {
		return http.MethodPost
	}
	return http.MethodGet
}

func text(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}
