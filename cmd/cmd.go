// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Write config.toml and initialize the mission database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// dashboardCommand launches the interactive console
func dashboardCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "dashboard",
		Aliases: []string{"tui", "ui"},
		Usage:   "Launch the interactive escape dashboard",
		Action:  r.Dashboard,
	}
}

// teamCommand wraps the team lifecycle endpoints
func teamCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "team",
		Usage: "Create teams and check their escape status",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Log in and register a team, printing its session",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "Team name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "code",
						Usage: "Security clearance code",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.TeamCreate,
			},
			{
				Name:  "status",
				Usage: "Fetch the escape status of a team",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "team_id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.TeamStatus,
			},
			{
				Name:  "key",
				Usage: "Fetch the escape key of a team that has escaped",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "team_id",
					},
				},
				Action: r.TeamKey,
			},
		},
	}
}

// watchCommand runs the victory poller without the dashboard
func watchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Log in and poll until the team escapes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "name",
				Aliases:  []string{"n"},
				Usage:    "Team name",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "code",
				Usage: "Security clearance code",
			},
		},
		Action: r.Watch,
	}
}

// endpointsCommand prints the endpoint catalog
func endpointsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "endpoints",
		Aliases: []string{"ep"},
		Usage:   "List the Stranger APIs endpoints",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "team-id",
				Usage: "Team ID substituted into the paths",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, yaml, markdown, csv",
				Value:   "text",
			},
			&cli.BoolFlag{
				Name:  "curl",
				Usage: "Print a cURL command per endpoint",
			},
		},
		Action: r.Endpoints,
	}
}

// apiCommand handles direct calls to the exercise API
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct request to the exercise API, prints the response",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "method",
			},
			&cli.StringArg{
				Name: "path",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "JSON request body",
			},
			&cli.StringFlag{
				Name:  "curl-file",
				Usage: "Replay a cURL command saved in a .sh file",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON responses",
				Value: true,
			},
		},
		Action: r.APIRequest,
	}
}

// probeCommand sweeps the read-only endpoints
func probeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "probe",
		Usage: "Check every read-only endpoint for a team",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "team-id",
				Usage:    "Team ID to probe",
				Required: true,
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Requests per second",
				Value: 2,
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent requests",
				Value: 2,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, yaml, markdown, csv",
				Value:   "text",
			},
		},
		Action: r.Probe,
	}
}

// historyCommand lists recorded missions
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List missions recorded in the local database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, yaml, markdown, csv",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the listing to a file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "escaped",
				Usage: "Only show missions that escaped",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of missions to list",
			},
		},
		Action: r.History,
	}
}
