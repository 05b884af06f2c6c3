package main

import (
	"context"

	"github.com/desertthunder/hawkins/internal/formatter"
	"github.com/desertthunder/hawkins/internal/models"
	"github.com/urfave/cli/v3"
)

// Endpoints prints the endpoint catalog for a team, or with a placeholder team id.
func (r *Runner) Endpoints(ctx context.Context, cmd *cli.Command) error {
	teamID := cmd.String("team-id")
	baseURL := r.api.BaseURL()

	if cmd.Bool("curl") {
		for _, ep := range models.Catalog(teamID) {
			r.writePlain("# %s\n%s\n", ep.Description, ep.Curl(baseURL))
		}
		return nil
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	data, err := formatter.FormatCatalog(baseURL, teamID, format)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}
