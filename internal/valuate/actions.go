// Package valuate implements the analyze command: score a stored
// batch against the reference table and the depreciation model.
package valuate

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"finnbil/models"
	"finnbil/pkg/db"
	"finnbil/pkg/refprice"
	"finnbil/pkg/storage"
	"finnbil/pkg/valuation"
)

func AnalyzeAction(c *cli.Context) error {
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

	refsPath := cfg.RefPath
	if c.IsSet("refs") {
		refsPath = c.String("refs")
	}

	var listings []models.Listing
	var runID string
	var database *db.DB

	if c.IsSet("file") {
		store := storage.New(cfg.DataDir)
		listings, err = store.ReadListings(c.String("file"))
		if err != nil {
			logger.Error("failed to load listings file", "error", err)
			os.Exit(2)
		}
	} else {
		database, err = db.Open(cfg.DBPath)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(2)
		}
		defer database.Close()

		runID, err = resolveRunID(c, database)
		if err != nil {
			logger.Error("failed to resolve run", "error", err)
			os.Exit(2)
		}
		listings, err = database.GetListings(runID)
		if err != nil {
			logger.Error("failed to load listings", "run_id", runID, "error", err)
			os.Exit(2)
		}
	}

	if len(listings) == 0 {
		fmt.Println("No listings to analyze. Run 'finnbil fetch' first.")
		return nil
	}

	vals, summary := score(logger, cfg, refsPath, c.Bool("reload-refs"), listings)
	printValuations(vals, summary)

	if database != nil && len(vals) > 0 {
		if err := database.InsertValuations(runID, vals); err != nil {
			logger.Warn("failed to store valuations", "run_id", runID, "error", err)
		} else {
			logger.Info("valuations stored", "run_id", runID, "count", len(vals))
		}
	}
	return nil
}

func score(logger *slog.Logger, cfg *models.Config, refsPath string,
	reload bool, listings []models.Listing) ([]models.Valuation, models.Summary) {

	cache := refprice.NewCache(refsPath, cfg.ModelPrefix)
	if reload {
		cache.Reset()
	}
	refs, err := cache.Get()
	if err != nil {
		logger.Error("failed to load reference prices", "path", refsPath, "error", err)
		os.Exit(2)
	}
	logger.Info("reference prices loaded", "path", refsPath, "entries", len(refs))

	engine := valuation.NewEngine(cache, time.Now().Year())
	vals := engine.EvaluateBatch(listings)
	if skipped := len(listings) - len(vals); skipped > 0 {
		logger.Info("listings excluded from scoring", "count", skipped)
	}
	return vals, valuation.Summarize(vals)
}

func printValuations(vals []models.Valuation, summary models.Summary) {
	if len(vals) == 0 {
		fmt.Println("No listings could be scored (missing price, year, or reference match).")
		return
	}

	fmt.Printf("%-4s %-40s %-5s %-9s %-8s %-7s %-6s %s\n",
		"ID", "Name", "Year", "Price", "Km/year", "Diff%", "Grade", "Recommendation")
	fmt.Println(strings.Repeat("-", 120))
	for _, v := range vals {
		name := v.Name
		if len(name) > 38 {
			name = name[:38] + ".."
		}
		fmt.Printf("%-4d %-40s %-5d %-9d %-8d %+-7.1f %-6s %s\n",
			v.ListingID, name, v.Year, v.Price, v.KmPerYear, v.DiffPct,
			v.OverallGrade, v.Recommendation)
	}

	fmt.Printf("\nScored: %d  Good deals (A-B): %d\n", summary.Total, summary.GoodDeals)
	fmt.Printf("Grades: A:%d B:%d C:%d D:%d F:%d\n",
		summary.Distribution[models.GradeA], summary.Distribution[models.GradeB],
		summary.Distribution[models.GradeC], summary.Distribution[models.GradeD],
		summary.Distribution[models.GradeF])
	if summary.BestDeal != nil {
		fmt.Printf("Best:  %s (%d) - %d kr, %d km/year\n",
			summary.BestDeal.Name, summary.BestDeal.Year,
			summary.BestDeal.Price, summary.BestDeal.KmPerYear)
	}
	if summary.WorstDeal != nil {
		fmt.Printf("Worst: %s (%d) - %d kr, %d km/year\n",
			summary.WorstDeal.Name, summary.WorstDeal.Year,
			summary.WorstDeal.Price, summary.WorstDeal.KmPerYear)
	}
}

// resolveRunID returns the --run flag when set, otherwise the latest
// recorded run.
func resolveRunID(c *cli.Context, database *db.DB) (string, error) {
	if c.IsSet("run") {
		return c.String("run"), nil
	}
	latest, err := database.LatestRun()
	if err != nil {
		return "", err
	}
	if latest == nil {
		return "", fmt.Errorf("no runs recorded yet, run 'finnbil fetch' first")
	}
	return latest.RunID, nil
}
