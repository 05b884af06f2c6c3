package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hawkins/internal/clock"
	"github.com/desertthunder/hawkins/internal/models"
	"github.com/desertthunder/hawkins/internal/services"
	"github.com/desertthunder/hawkins/internal/shared"
)

// DefaultPollInterval is the time between status checks.
const DefaultPollInterval = 3 * time.Second

// victorySink receives the outcome of poll ticks. [Controller] implements it.
type victorySink interface {
	commitVictory(epoch uint64, key string) bool
	pollFailed(epoch uint64, err error)
	current(epoch uint64) bool
}

// Poller checks a team's status on a fixed interval until it has escaped.
type Poller struct {
	game     services.GameService
	sink     victorySink
	clock    clock.Clock
	interval time.Duration
	timeout  time.Duration
	logger   *log.Logger
}

func newPoller(game services.GameService, sink victorySink, clk clock.Clock, interval, timeout time.Duration, logger *log.Logger) *Poller {
	return &Poller{
		game:     game,
		sink:     sink,
		clock:    clk,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
	}
}

// Handle controls a running poll loop.
type Handle struct {
	cancel context.CancelFunc
	once   sync.Once
	done   chan struct{}
}

// Cancel asks the loop to stop without waiting for it. Requests in flight are cancelled.
func (h *Handle) Cancel() {
	h.once.Do(h.cancel)
}

// Stop cancels the loop and waits for it to exit. Safe to call more than once.
func (h *Handle) Stop() {
	h.Cancel()
	<-h.done
}

// Done is closed once the loop has exited, either after a win or a stop.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Start launches the poll loop for teamID. Results are tagged with epoch.
func (p *Poller) Start(ctx context.Context, teamID string, epoch uint64) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	ticker := p.clock.NewTicker(p.interval)
	logger := shared.WithLogger(p.logger, "team_id", teamID, "epoch", epoch)
	logger.Debug("victory poller started", "interval", p.interval)

	go func() {
		defer close(h.done)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.Debug("victory poller stopped")
				return
			case <-ticker.C:
				if ctx.Err() != nil {
					return
				}
				if p.check(ctx, logger, teamID, epoch) {
					return
				}
			}
		}
	}()
	return h
}

// check runs one tick and reports whether the loop is finished.
func (p *Poller) check(ctx context.Context, logger *log.Logger, teamID string, epoch uint64) bool {
	status, err := p.teamStatus(ctx, teamID)
	if err != nil {
		return p.failed(ctx, logger, epoch, err)
	}
	if ctx.Err() != nil || !p.sink.current(epoch) {
		logger.Debug("discarded stale status")
		return true
	}
	if !status.Escaped {
		logger.Debug("team still trapped")
		return false
	}

	key, err := p.escapeKey(ctx, teamID)
	if err != nil {
		return p.failed(ctx, logger, epoch, err)
	}
	if ctx.Err() != nil {
		return true
	}

	if p.sink.commitVictory(epoch, key) {
		logger.Info("team escaped")
	} else {
		logger.Debug("discarded stale victory")
	}
	return true
}

func (p *Poller) failed(ctx context.Context, logger *log.Logger, epoch uint64, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	logger.Warn("victory check failed", "err", err)
	p.sink.pollFailed(epoch, fmt.Errorf("%w: %v", shared.ErrPollFailed, err))
	return false
}

func (p *Poller) teamStatus(ctx context.Context, teamID string) (*models.TeamStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.game.TeamStatus(ctx, teamID)
}

func (p *Poller) escapeKey(ctx context.Context, teamID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.game.EscapeKey(ctx, teamID)
}
