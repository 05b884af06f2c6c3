package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/desertthunder/hawkins/internal/models"
	"github.com/desertthunder/hawkins/internal/services"
	"github.com/desertthunder/hawkins/internal/session"
	"github.com/desertthunder/hawkins/internal/shared"
	"github.com/urfave/cli/v3"
)

// accessCode returns the --code flag, falling back to the configured shared secret.
func (r *Runner) accessCode(cmd *cli.Command) string {
	if code := cmd.String("code"); code != "" {
		return code
	}
	return r.config.Remote.AccessCode
}

// TeamCreate logs in headlessly, records the mission and prints the session.
func (r *Runner) TeamCreate(ctx context.Context, cmd *cli.Command) error {
	ctrl := r.newController()
	defer ctrl.Close()

	sess, err := ctrl.Login(ctx, cmd.String("name"), r.accessCode(cmd))
	if err != nil {
		r.logger.Error(session.UserMessage(err))
		return err
	}

	r.logger.Info("team created", "team_id", sess.TeamID, "team_name", sess.TeamName)
	return r.writeJSON(sess, cmd.Bool("pretty"))
}

// TeamStatus fetches GET /team_status/{team_id} once.
func (r *Runner) TeamStatus(ctx context.Context, cmd *cli.Command) error {
	teamID := cmd.StringArg("team_id")
	if teamID == "" {
		return fmt.Errorf("%w: team_id is required", shared.ErrMissingArgument)
	}

	ctx, cancel := context.WithTimeout(ctx, r.config.Remote.RequestTimeout.Duration)
	defer cancel()

	status, err := r.game.TeamStatus(ctx, teamID)
	if err != nil {
		return fmt.Errorf("failed to fetch status: %w", err)
	}

	data, err := services.MarshalStatus(status, cmd.Bool("pretty"))
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}
	return r.writeBytes(data)
}

// TeamKey fetches GET /{team_id}/key once.
func (r *Runner) TeamKey(ctx context.Context, cmd *cli.Command) error {
	teamID := cmd.StringArg("team_id")
	if teamID == "" {
		return fmt.Errorf("%w: team_id is required", shared.ErrMissingArgument)
	}

	ctx, cancel := context.WithTimeout(ctx, r.config.Remote.RequestTimeout.Duration)
	defer cancel()

	key, err := r.game.EscapeKey(ctx, teamID)
	if err != nil {
		return fmt.Errorf("failed to fetch key: %w", err)
	}
	return r.writePlain("%s\n", key)
}

// Watch logs in and streams session events until the team escapes or the process is interrupted.
func (r *Runner) Watch(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	ctrl := r.newController()
	defer ctrl.Close()

	sess, err := ctrl.Login(ctx, cmd.String("name"), r.accessCode(cmd))
	if err != nil {
		r.logger.Error(session.UserMessage(err))
		return err
	}

	r.writePlainHeader("OPERATIVE: " + sess.TeamName)
	r.writePlain("ID: %s\n", sess.TeamID)
	r.writePlain("Polling every %s...\n", r.config.Remote.PollInterval.Duration)

	victory, err := r.watchEvents(ctx, ctrl)
	if err != nil {
		return err
	}

	r.writePlainln("ESCAPED! KEY: %s", victory.EscapeKey)
	return nil
}

// sessionFeed is the part of [session.Controller] the watch loop reads.
type sessionFeed interface {
	Events() <-chan session.Event
	Snapshot() models.Snapshot
}

// watchEvents prints events until a win arrives, the feed closes or ctx is done.
//
// The snapshot is re-read every poll interval since events are dropped when the feed buffer is full.
func (r *Runner) watchEvents(ctx context.Context, feed sessionFeed) (models.VictoryState, error) {
	ticker := r.clock.NewTicker(r.config.Remote.PollInterval.Duration)
	defer ticker.Stop()

	events := feed.Events()
	for {
		select {
		case <-ctx.Done():
			r.writePlain("interrupted\n")
			return models.VictoryState{}, ctx.Err()
		case <-ticker.C:
			snap := feed.Snapshot()
			switch {
			case snap.Victory.Won:
				return snap.Victory, nil
			case !snap.Session.Authenticated():
				return models.VictoryState{}, fmt.Errorf("%w: session reset", shared.ErrNotAuthenticated)
			}
		case ev, ok := <-events:
			if !ok {
				return models.VictoryState{}, fmt.Errorf("%w: event feed closed", shared.ErrServiceUnavailable)
			}

			switch ev.Kind {
			case session.EventPollFailed:
				r.logger.Warn("status check failed, retrying", "error", ev.Err)
			case session.EventWon:
				return ev.Snapshot.Victory, nil
			case session.EventReset:
				return models.VictoryState{}, fmt.Errorf("%w: session reset", shared.ErrNotAuthenticated)
			default:
				r.logger.Debug("session event", "kind", ev.Kind, "epoch", ev.Snapshot.Epoch)
			}
		}
	}
}
