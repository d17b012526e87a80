package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

const (
	configFlag   = "config"
	formatFlag   = "format"
	divisionFlag = "division"
	teamFlag     = "team"
	outputFlag   = "output"
	stdoutName   = "-"
)

var build string
var semanticVersion = "v1.0.0" + build

func main() {
	app := &cli.App{
		Name:    "sportsball",
		Usage:   "Publish a league schedule spreadsheet as per-team calendar feeds",
		Version: semanticVersion,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    configFlag,
				Aliases: []string{"c"},
				Usage:   "Path to a TOML config file overlaid on the environment",
				EnvVars: []string{"SPORTSBALL_CONFIG"},
			},
		},
		Action: serveAction,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Refresh the schedule periodically and serve the listing and calendar feeds",
				Action: serveAction,
			},
			{
				Name:   "refresh",
				Usage:  "Fetch the spreadsheet export once into the snapshot store",
				Action: refreshAction,
			},
			{
				Name:  "divisions",
				Usage: "Print the divisions and teams of the stored snapshot",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  formatFlag,
						Usage: "Output format: text, json or yaml",
						Value: "text",
					},
				},
				Action: divisionsAction,
			},
			{
				Name:  "calendar",
				Usage: "Write the ICS calendar for one division and team",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     divisionFlag,
						Aliases:  []string{"d"},
						Usage:    "Division name (case-insensitive)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     teamFlag,
						Aliases:  []string{"t"},
						Usage:    "Team name, matched as a substring of the Teams column",
						Required: true,
					},
					&cli.StringFlag{
						Name:    outputFlag,
						Aliases: []string{"o"},
						Usage:   "Where to write the calendar. Can be a file path or \"-\" (for stdout).",
						Value:   stdoutName,
					},
				},
				Action: calendarAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
