package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/hawkins/internal/formatter"
	"github.com/desertthunder/hawkins/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Probe runs a rate-limited sweep of a team's read-only endpoints and prints the results.
func (r *Runner) Probe(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	prober := tasks.NewProber(r.api, tasks.ProbeOpts{
		RateLimit:  cmd.Float("rate"),
		NumWorkers: cmd.Int("workers"),
		Timeout:    r.config.Remote.RequestTimeout.Duration,
	}, r.logger)

	progress := make(chan tasks.ProgressUpdate, 16)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
	}()

	result, err := prober.Run(ctx, cmd.String("team-id"), progress)
	close(progress)
	wg.Wait()
	if err != nil {
		return fmt.Errorf("probe failed: %w", err)
	}

	data, err := formatter.FormatProbe(result, format)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}
