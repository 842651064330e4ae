package search

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"animeid/internal/logging"
	"animeid/internal/services"
	"animeid/internal/tracemoe"
	"animeid/internal/upload"
)

const component = "search"

var (
	// ErrBusy is returned by Select while a search is in flight.
	ErrBusy = errors.New("search in progress")
	// ErrClosed is returned once the controller has been closed, including
	// by a Submit whose result arrived after Close.
	ErrClosed = errors.New("controller closed")
)

// Options configures a Controller.
type Options struct {
	Validator upload.Validator
	Searcher  tracemoe.Searcher
	// Previews creates preview handles for staged candidates. Nil disables
	// previews.
	Previews upload.Previews
	Logger   *slog.Logger
}

// Controller runs one search at a time against a single staged candidate.
type Controller struct {
	validator upload.Validator
	searcher  tracemoe.Searcher
	logger    *slog.Logger

	mu            sync.Mutex
	stage         *upload.Stage
	state         State
	outcome       *tracemoe.Outcome
	message       string
	correlationID string
	generation    uint64
	closed        bool
}

// New builds a Controller in the Idle state.
func New(opts Options) (*Controller, error) {
	if opts.Searcher == nil {
		return nil, services.Wrap(services.ErrConfiguration, component, "init", "searcher is required", nil)
	}
	return &Controller{
		validator: opts.Validator,
		searcher:  opts.Searcher,
		logger:    logging.NewComponentLogger(opts.Logger, component),
		stage:     upload.NewStage(opts.Previews),
		state:     StateIdle,
	}, nil
}

// Select validates c and stages it. A nil candidate is ignored. A rejected
// candidate leaves any prior candidate staged, sets the display message, and
// returns the rejection. Either way the prior outcome is cleared.
func (c *Controller) Select(candidate *upload.Candidate) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.state == StateLoading {
		return ErrBusy
	}
	if candidate == nil {
		return nil
	}

	c.resetLocked()
	if err := c.validator.Validate(candidate); err != nil {
		c.message = UserMessage(err)
		c.logger.Info("candidate rejected",
			logging.String(logging.FieldImage, candidate.Name),
			logging.Int64("bytes", candidate.Size),
			logging.String("reason", c.message),
		)
		return err
	}

	if err := c.stage.Replace(candidate); err != nil {
		if c.stage.Candidate() != candidate {
			c.message = "Could not stage image."
			return services.Wrap(services.ErrValidation, component, "select", "stage candidate", err)
		}
		logging.WarnWithContext(c.logger, "previous preview not released", "preview_release_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove stale animeid-preview files from the temp directory"),
			logging.String(logging.FieldImpact, "a temporary file may be left behind"),
		)
	}
	c.logger.Debug("candidate staged",
		logging.String(logging.FieldImage, candidate.Name),
		logging.Int64("bytes", candidate.Size),
		logging.String("mime_type", candidate.MediaType()),
	)
	return nil
}

// Submit searches the staged candidate and blocks until the result is
// applied. It returns false without calling the searcher while a search is
// already in flight. The returned error is the search failure, if any; a
// search that finds nothing is not an error.
func (c *Controller) Submit(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false, ErrClosed
	}
	if c.state == StateLoading {
		c.mu.Unlock()
		return false, nil
	}
	candidate := c.stage.Candidate()
	if candidate == nil {
		c.mu.Unlock()
		return false, upload.ErrNoCandidate
	}
	c.generation++
	generation := c.generation
	correlationID := uuid.NewString()
	c.state = StateLoading
	c.outcome = nil
	c.message = ""
	c.correlationID = correlationID
	c.mu.Unlock()

	ctx = services.WithRequestID(ctx, correlationID)
	ctx = services.WithImage(ctx, candidate.Name)
	logger := logging.WithContext(ctx, c.logger)
	logger.Debug("search submitted")

	started := time.Now()
	outcome, err := c.searcher.Search(ctx, candidate)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || generation != c.generation {
		logger.Debug("search result discarded", logging.Duration("elapsed", time.Since(started)))
		return true, ErrClosed
	}

	switch {
	case err != nil:
		c.state = StateFailed
		c.message = UserMessage(err)
		logger.Info("search failed",
			logging.String("kind", kindLabel(err)),
			logging.Error(err),
		)
		return true, err
	case outcome.Empty():
		c.state = StateFailed
		c.message = NoMatchMessage
		logger.Info("search found no match", logging.Duration("elapsed", time.Since(started)))
	default:
		c.state = StateSucceeded
		c.outcome = outcome
		best, _ := outcome.Best()
		logger.Info("search matched",
			logging.Int("matches", len(outcome.Matches)),
			logging.Float64("best_similarity", best.Similarity),
			logging.Duration("elapsed", time.Since(started)),
		)
	}
	return true, nil
}

// Close tears the controller down and releases the staged preview. A search
// still in flight completes but its result is discarded. Close is idempotent.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.generation++
	c.resetLocked()
	return c.stage.Clear()
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot{
		State:         c.state,
		Candidate:     c.stage.Candidate(),
		Outcome:       c.outcome,
		Message:       c.message,
		CorrelationID: c.correlationID,
	}
	if preview := c.stage.Preview(); preview != nil {
		snap.PreviewPath = preview.Path()
	}
	return snap
}

func (c *Controller) resetLocked() {
	c.state = StateIdle
	c.outcome = nil
	c.message = ""
	c.correlationID = ""
}

func kindLabel(err error) string {
	switch services.Kind(err) {
	case services.ErrValidation:
		return "validation"
	case services.ErrConfiguration:
		return "configuration"
	case services.ErrUpstream:
		return "upstream"
	case services.ErrTransport:
		return "transport"
	default:
		return "unknown"
	}
}
