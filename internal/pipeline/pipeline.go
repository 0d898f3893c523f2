package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mfenderov/moodle-cal/internal/events"
	"github.com/mfenderov/moodle-cal/internal/wait"
	"github.com/mfenderov/moodle-cal/pkg/models"
)

// ErrLoginFailed is returned by Run when the portal rejects the session.
var ErrLoginFailed = errors.New("login failed")

// Portal is one authenticated session against the portal. The HTTP scraper
// and the browser driver both implement it. A Portal is used by a single
// run and is not safe for concurrent use.
type Portal interface {
	// Login establishes the session. It is called once, before ListEvents.
	Login(ctx context.Context) error
	// ListEvents returns the current month's events in document order.
	ListEvents(ctx context.Context) ([]models.EventStub, error)
	// FetchDetail enriches one event. It never fails; fields that cannot
	// be resolved carry the sentinel values.
	FetchDetail(ctx context.Context, stub models.EventStub) models.EventDetail
	// Close releases the session. It is safe to call more than once.
	Close() error
}

// DetailFunc resolves the details of a single event.
type DetailFunc func(ctx context.Context, stub models.EventStub) models.EventDetail

// Config holds pipeline configuration.
type Config struct {
	// Pace is the pause between consecutive detail fetches.
	Pace time.Duration
	// OnProgress, if set, is called before each detail fetch.
	OnProgress func(events.DetailProgressEvent)
	// OnComplete, if set, is called once when Run returns.
	OnComplete func(events.RunCompleteEvent)
}

// Result holds pipeline execution results.
type Result struct {
	RunID    string
	Events   []models.EnrichedEvent
	Duration time.Duration
}

// Pipeline runs one extraction pass against a Portal.
type Pipeline struct {
	portal Portal
	config Config
}

// New creates a new Pipeline over the given portal session.
func New(portal Portal, config Config) *Pipeline {
	return &Pipeline{portal: portal, config: config}
}

// Run logs in, harvests the calendar and enriches every event. The portal
// is closed before Run returns. A failed login yields ErrLoginFailed and no
// events; a failed harvest yields an empty result and no error.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{
		RunID:  uuid.NewString(),
		Events: []models.EnrichedEvent{},
	}
	log := slog.With("run_id", result.RunID)
	loggedIn := false

	defer func() {
		if err := p.portal.Close(); err != nil {
			log.Warn("failed to close portal session", "error", err)
		}
		result.Duration = time.Since(start)
		if p.config.OnComplete != nil {
			p.config.OnComplete(events.RunCompleteEvent{
				RunID:      result.RunID,
				EventCount: len(result.Events),
				LoggedIn:   loggedIn,
				Duration:   result.Duration,
			})
		}
	}()

	log.Info("logging in")
	if err := p.portal.Login(ctx); err != nil {
		log.Error("login failed", "error", err)
		return result, errors.Join(ErrLoginFailed, err)
	}
	loggedIn = true

	stubs, err := p.portal.ListEvents(ctx)
	if err != nil {
		log.Warn("failed to fetch calendar, no events this run", "error", err)
		return result, nil
	}
	log.Info("calendar harvested", "events", len(stubs))

	result.Events = Assemble(ctx, stubs, p.portal.FetchDetail, p.config)

	log.Info("run complete", "events", len(result.Events), "duration", time.Since(start))
	return result, nil
}

// Assemble enriches stubs in order, one at a time, and returns exactly one
// event per stub. A cancelled context stops pacing but not assembly: the
// remaining stubs are still passed to detail, which sees the cancelled
// context and degrades them.
func Assemble(ctx context.Context, stubs []models.EventStub, detail DetailFunc, config Config) []models.EnrichedEvent {
	out := make([]models.EnrichedEvent, 0, len(stubs))
	total := len(stubs)

	for i, stub := range stubs {
		if i > 0 && ctx.Err() == nil {
			wait.Pause(ctx, config.Pace)
		}

		slog.Info("fetching event details", "index", i+1, "total", total, "name", stub.Name)
		if config.OnProgress != nil {
			config.OnProgress(events.DetailProgressEvent{Index: i + 1, Total: total, Name: stub.Name})
		}

		out = append(out, models.Merge(stub, detail(ctx, stub)))
	}

	return out
}
