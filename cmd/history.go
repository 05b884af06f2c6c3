package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/hawkins/internal/formatter"
	"github.com/urfave/cli/v3"
)

// History lists missions recorded by earlier logins.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	store, err := r.missionStore()
	if err != nil {
		return err
	}

	criteria := map[string]any{}
	if cmd.Bool("escaped") {
		criteria["escaped"] = true
	}
	if limit := cmd.Int("limit"); limit > 0 {
		criteria["limit"] = limit
	}

	missions, err := store.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list missions: %w", err)
	}

	data, err := formatter.FormatMissions(missions, format)
	if err != nil {
		return err
	}

	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteExport(path, data); err != nil {
			return err
		}
		r.logger.Info("history exported", "path", path, "missions", len(missions))
		return r.writePlain("✓ Exported %d mission(s) to %s\n", len(missions), path)
	}

	return r.writeBytes(data)
}
