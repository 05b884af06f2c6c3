package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hawkins/internal/clock"
	"github.com/desertthunder/hawkins/internal/repositories"
	"github.com/desertthunder/hawkins/internal/services"
	"github.com/desertthunder/hawkins/internal/session"
	"github.com/desertthunder/hawkins/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	api      *services.APIService
	game     services.GameService
	clock    clock.Clock
	logger   *log.Logger
	output   io.Writer
	db       *sql.DB
	missions *repositories.MissionRepository
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config   *shared.Config
	API      *services.APIService
	Game     services.GameService
	Clock    clock.Clock
	Logger   *log.Logger
	Output   io.Writer
	Missions *repositories.MissionRepository
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.API == nil {
		opts.API = services.NewAPIService(opts.Config.Remote.BaseURL, nil)
	}
	if opts.Game == nil {
		opts.Game = services.NewHawkinsService(opts.API)
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}

	return &Runner{
		config:   opts.Config,
		api:      opts.API,
		game:     opts.Game,
		clock:    opts.Clock,
		logger:   opts.Logger,
		output:   opts.Output,
		missions: opts.Missions,
	}
}

// SetLogger replaces the runner's logger, e.g. with a file logger while the dashboard owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// Close releases the mission database if the runner opened it.
func (r *Runner) Close() {
	if r.db == nil {
		return
	}
	if err := r.db.Close(); err != nil {
		r.logger.Warn("failed to close database", "error", err)
	}
	r.db = nil
	r.missions = nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, dashboardCommand, teamCommand, watchCommand, endpointsCommand, apiCommand, probeCommand, historyCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// missionStore opens the configured database on first use and migrates it.
func (r *Runner) missionStore() (*repositories.MissionRepository, error) {
	if r.missions != nil {
		return r.missions, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mission database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	applied, err := shared.RunMigrations(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if applied > 0 {
		r.logger.Debug("applied migrations", "count", applied)
	}

	r.db = db
	r.missions = repositories.NewMissionRepository(db)
	return r.missions, nil
}

// newController builds a session controller from the remote config. Missions are recorded when the
// database can be opened; otherwise the session runs without a log.
func (r *Runner) newController() *session.Controller {
	opts := session.Options{
		AccessCode:     r.config.Remote.AccessCode,
		PollInterval:   r.config.Remote.PollInterval.Duration,
		RequestTimeout: r.config.Remote.RequestTimeout.Duration,
		Clock:          r.clock,
		Logger:         r.logger,
	}

	if store, err := r.missionStore(); err != nil {
		r.logger.Warn("mission log disabled", "error", err)
	} else {
		opts.Recorder = store
	}

	return session.NewController(r.game, opts)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return r.writeBytes(output)
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if len(data) == 0 || data[len(data)-1] != '\n' {
		if _, err := r.output.Write([]byte("\n")); err != nil {
			return fmt.Errorf("failed to write newline: %w", err)
		}
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
