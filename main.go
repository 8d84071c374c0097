package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	dbcmd "finnbil/internal/db"
	"finnbil/internal/report"
	"finnbil/internal/scrape"
	"finnbil/internal/valuate"
	"finnbil/pkg/help"
)

func main() {
	app := &cli.App{
		Name:  "finnbil",
		Usage: "Scrape Finn.no used-car searches and score them against expected depreciation",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "config.yaml",
				Usage: "path to the yaml config file",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "only log errors",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "fetch",
				Usage:  "Crawl one or more search URLs and store the listings",
				Action: scrape.FetchAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "urls",
						Usage: "comma-separated Finn.no search URLs (default: configured search)",
					},
					&cli.IntFlag{
						Name:  "pages",
						Usage: "max result pages per search URL",
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "data directory for saved batches",
					},
				},
			},
			{
				Name:   "analyze",
				Usage:  "Score a stored batch against the reference price table",
				Action: valuate.AnalyzeAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "run",
						Usage: "run id to analyze (default: latest run)",
					},
					&cli.StringFlag{
						Name:  "file",
						Usage: "analyze a saved listings JSON file instead of a run",
					},
					&cli.StringFlag{
						Name:  "refs",
						Usage: "path to the reference price csv",
					},
					&cli.BoolFlag{
						Name:  "reload-refs",
						Usage: "reload the reference table, bypassing the cache",
					},
				},
			},
			{
				Name:   "report",
				Usage:  "Generate a Norwegian buyer report for a scored run",
				Action: report.ReportAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "run",
						Usage: "run id to report on (default: latest run)",
					},
					&cli.IntFlag{
						Name:  "top",
						Value: 5,
						Usage: "number of cars in the detailed analysis block",
					},
					&cli.BoolFlag{
						Name:  "details",
						Usage: "fetch the top cars' ad pages for extra context",
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "write the report to this file instead of stdout",
					},
				},
			},
			{
				Name:  "db",
				Usage: "Inspect the run store",
				Subcommands: []*cli.Command{
					{
						Name:   "runs",
						Usage:  "List recorded runs, newest first",
						Action: dbcmd.RunsAction,
						Flags: []cli.Flag{
							&cli.IntFlag{
								Name:  "limit",
								Value: 20,
								Usage: "max runs to show",
							},
						},
					},
					{
						Name:      "listings",
						Usage:     "Show the listings of a run",
						ArgsUsage: "[run-id]",
						Action:    dbcmd.ListingsAction,
					},
					{
						Name:      "top",
						Usage:     "Show a run's best-ranked valuations",
						ArgsUsage: "[run-id]",
						Action:    dbcmd.TopAction,
						Flags: []cli.Flag{
							&cli.IntFlag{
								Name:  "limit",
								Value: 10,
								Usage: "max valuations to show",
							},
						},
					},
				},
			},
			{
				Name:  "guide",
				Usage: "Print usage examples as YAML",
				Action: func(c *cli.Context) error {
					fmt.Print(help.ColdstartYAML)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
