// Package report implements the report command: turn a scored run into
// a Norwegian prose report via the text-generation collaborator.
package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"finnbil/models"
	"finnbil/pkg/db"
	"finnbil/pkg/detail"
	"finnbil/pkg/fetcher"
	"finnbil/pkg/prompt"
	"finnbil/pkg/textgen"
	"finnbil/pkg/valuation"
)

// batchLimit bounds how many valuations go into the prompt JSON; the
// model does not need the long tail to rank the top of the market.
const batchLimit = 100

func ReportAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	client, err := textgen.New(cfg.AI)
	if err != nil {
		logger.Error("text generation unavailable", "error", err)
		os.Exit(1)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(2)
	}
	defer database.Close()

	runID := c.String("run")
	if runID == "" {
		latest, err := database.LatestRun()
		if err != nil {
			logger.Error("failed to resolve run", "error", err)
			os.Exit(2)
		}
		if latest == nil {
			fmt.Println("No runs recorded yet. Run 'finnbil fetch' first.")
			return nil
		}
		runID = latest.RunID
	}

	vals, err := database.TopValuations(runID, batchLimit)
	if err != nil {
		logger.Error("failed to load valuations", "run_id", runID, "error", err)
		os.Exit(2)
	}
	if len(vals) == 0 {
		fmt.Printf("Run %s has no valuations. Run 'finnbil analyze' first.\n", runID)
		return nil
	}

	topN := c.Int("top")
	summary := valuation.Summarize(vals)
	userPrompt, err := prompt.Build(summary, vals, topN)
	if err != nil {
		logger.Error("failed to build prompt", "error", err)
		os.Exit(2)
	}

	if c.Bool("details") {
		details := fetchDetails(logger, cfg, vals, topN)
		if details != "" {
			userPrompt += "\n\nDETALJERT BILINFO (fra annonsene):\n" + details
		}
	}

	logger.Info("requesting report", "run_id", runID, "model", cfg.AI.Model,
		"valuations", len(vals), "prompt_bytes", len(userPrompt))

	text, err := client.Generate(c.Context, prompt.SystemMessage, userPrompt)
	if err != nil {
		logger.Error("report generation failed", "error", err)
		os.Exit(2)
	}

	if c.IsSet("out") {
		path := c.String("out")
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			logger.Error("failed to create report directory", "error", err)
			os.Exit(2)
		}
		if err := os.WriteFile(path, []byte(text), 0644); err != nil {
			logger.Error("failed to save report", "error", err)
			os.Exit(2)
		}
		fmt.Printf("Report saved to %s\n", path)
		return nil
	}
	fmt.Println(text)
	return nil
}

// fetchDetails pulls the ad pages of the top-ranked cars and renders
// them as markdown. Failures degrade to a shorter report, never abort.
func fetchDetails(logger *slog.Logger, cfg *models.Config, vals []models.Valuation, topN int) string {
	if topN <= 0 || topN > len(vals) {
		topN = len(vals)
	}

	f := fetcher.New(cfg.Scraping, nil)
	var sections []string
	fetched := 0
	for _, v := range vals[:topN] {
		if v.Link == "" {
			continue
		}
		if fetched > 0 {
			f.Pause()
		}
		d, err := detail.Fetch(f, v.Link)
		if err != nil {
			logger.Warn("failed to fetch ad details", "url", v.Link, "error", err)
			continue
		}
		fetched++
		sections = append(sections, d.FormatMarkdown())
	}
	return strings.Join(sections, "\n")
}
