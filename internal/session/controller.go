package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hawkins/internal/clock"
	"github.com/desertthunder/hawkins/internal/models"
	"github.com/desertthunder/hawkins/internal/services"
	"github.com/desertthunder/hawkins/internal/shared"
)

const (
	DefaultAccessCode     = "DEMOGORGON"
	DefaultRequestTimeout = 10 * time.Second
	defaultEventBuffer    = 16
)

// MissionRecorder persists created teams and their escape keys.
//
// Failures are logged and never affect the session.
type MissionRecorder interface {
	RecordMission(session models.Session) error
	RecordEscape(teamID, key string, at time.Time) error
}

// Options configures a [Controller]. Zero values fall back to defaults.
type Options struct {
	AccessCode     string
	PollInterval   time.Duration
	RequestTimeout time.Duration
	Clock          clock.Clock
	Logger         *log.Logger
	Recorder       MissionRecorder
	EventBuffer    int
}

// Controller owns authentication state and the victory poller for the current team.
//
// Safe for concurrent use.
type Controller struct {
	game       services.GameService
	poller     *Poller
	accessCode string
	timeout    time.Duration
	clock      clock.Clock
	recorder   MissionRecorder
	logger     *log.Logger
	events     chan Event

	mu        sync.Mutex
	session   models.Session
	victory   models.VictoryState
	epoch     uint64
	handle    *Handle
	loggingIn bool
	closed    bool
}

// NewController creates an unauthenticated controller backed by game.
func NewController(game services.GameService, opts Options) *Controller {
	if opts.AccessCode == "" {
		opts.AccessCode = DefaultAccessCode
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = defaultEventBuffer
	}

	c := &Controller{
		game:       game,
		accessCode: opts.AccessCode,
		timeout:    opts.RequestTimeout,
		clock:      opts.Clock,
		recorder:   opts.Recorder,
		logger:     opts.Logger,
		events:     make(chan Event, opts.EventBuffer),
	}
	c.poller = newPoller(game, c, opts.Clock, opts.PollInterval, opts.RequestTimeout, opts.Logger)
	return c
}

// Events returns the feed of state changes. The channel is never closed.
func (c *Controller) Events() <-chan Event {
	return c.events
}

// Snapshot returns a consistent copy of the current state.
func (c *Controller) Snapshot() models.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Session returns the current team identity, zero when unauthenticated.
func (c *Controller) Session() models.Session {
	return c.Snapshot().Session
}

// Victory returns the current victory state.
func (c *Controller) Victory() models.VictoryState {
	return c.Snapshot().Victory
}

// Login validates the form, creates the team and starts polling for its escape.
//
// Validation failures return before any request is made. Every failure leaves the controller
// unauthenticated; [UserMessage] maps the error to the text shown to the operator.
func (c *Controller) Login(ctx context.Context, teamName, accessCode string) (models.Session, error) {
	name := strings.TrimSpace(teamName)
	if name == "" {
		return models.Session{}, shared.ErrMissingTeamName
	}
	if !strings.EqualFold(accessCode, c.accessCode) {
		return models.Session{}, shared.ErrInvalidAccessCode
	}

	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return models.Session{}, fmt.Errorf("%w: controller closed", shared.ErrServiceUnavailable)
	case c.session.Authenticated():
		c.mu.Unlock()
		return models.Session{}, shared.ErrAlreadyAuthenticated
	case c.loggingIn:
		c.mu.Unlock()
		return models.Session{}, fmt.Errorf("%w: login in progress", shared.ErrAlreadyAuthenticated)
	}
	c.loggingIn = true
	started := c.epoch
	c.mu.Unlock()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	team, err := c.game.CreateTeam(reqCtx, name)
	cancel()

	c.mu.Lock()
	c.loggingIn = false
	if err != nil {
		c.mu.Unlock()
		c.logger.Warn("team creation failed", "team_name", name, "err", err)
		return models.Session{}, connectionError(err)
	}
	if c.closed || c.epoch != started {
		c.mu.Unlock()
		return models.Session{}, fmt.Errorf("%w: session reset before login completed", shared.ErrNotAuthenticated)
	}

	c.epoch++
	c.session = models.Session{TeamID: team.ID, TeamName: team.Name}
	c.victory = models.VictoryState{}
	c.handle = c.poller.Start(context.Background(), team.ID, c.epoch)
	snap := c.snapshotLocked()
	c.emit(Event{Kind: EventAuthenticated, Snapshot: snap})
	c.mu.Unlock()

	c.logger.Info("team created", "team_id", team.ID, "team_name", team.Name)
	if c.recorder != nil {
		if err := c.recorder.RecordMission(snap.Session); err != nil {
			c.logger.Warn("failed to record mission", "team_id", team.ID, "err", err)
		}
	}
	return snap.Session, nil
}

// Reset clears the session and victory state and stops the poller.
//
// Safe to call in any state, including repeatedly. Results from the previous session that arrive
// afterwards are discarded.
func (c *Controller) Reset() {
	c.mu.Lock()
	cleared := c.session.Authenticated() || c.victory.Won
	c.epoch++
	c.session = models.Session{}
	c.victory = models.VictoryState{}
	handle := c.handle
	c.handle = nil
	if cleared {
		c.emit(Event{Kind: EventReset, Snapshot: c.snapshotLocked()})
	}
	c.mu.Unlock()

	if handle != nil {
		handle.Cancel()
	}
	if cleared {
		c.logger.Info("session reset")
	}
}

// Close stops the poller and waits for it to exit. State is left as is; later logins are rejected.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	handle := c.handle
	c.handle = nil
	c.mu.Unlock()

	if handle != nil {
		handle.Stop()
	}
}

func (c *Controller) commitVictory(epoch uint64, key string) bool {
	c.mu.Lock()
	if epoch != c.epoch || !c.session.Authenticated() || c.victory.Won {
		c.mu.Unlock()
		return false
	}
	c.victory = models.NewVictory(key)
	snap := c.snapshotLocked()
	c.emit(Event{Kind: EventWon, Snapshot: snap})
	c.mu.Unlock()

	if c.recorder != nil {
		if err := c.recorder.RecordEscape(snap.Session.TeamID, key, c.clock.Now()); err != nil {
			c.logger.Warn("failed to record escape", "team_id", snap.Session.TeamID, "err", err)
		}
	}
	return true
}

// current reports whether epoch still belongs to an authenticated session that has not won.
func (c *Controller) current(epoch uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return epoch == c.epoch && c.session.Authenticated() && !c.victory.Won
}

func (c *Controller) pollFailed(epoch uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		return
	}
	c.emit(Event{Kind: EventPollFailed, Snapshot: c.snapshotLocked(), Err: err})
}

func (c *Controller) snapshotLocked() models.Snapshot {
	return models.Snapshot{Session: c.session, Victory: c.victory, Epoch: c.epoch}
}

// emit sends an event without blocking. Must be called with mu held so events stay ordered.
func (c *Controller) emit(ev Event) {
	select {
	case c.events <- ev:
	default:
		c.logger.Debug("event dropped", "kind", ev.Kind)
	}
}

func connectionError(err error) error {
	var statusErr *services.StatusError
	switch {
	case errors.As(err, &statusErr):
		return fmt.Errorf("%w: server responded with status %d", shared.ErrConnectionFailed, statusErr.StatusCode)
	case errors.Is(err, shared.ErrAPIRequest):
		return fmt.Errorf("%w: invalid response: %v", shared.ErrConnectionFailed, err)
	default:
		return fmt.Errorf("%w: could not reach server: %v", shared.ErrConnectionFailed, err)
	}
}
