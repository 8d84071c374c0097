// Package db implements the db inspection subcommands against the
// run store.
package db

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"finnbil/models"
	dbpkg "finnbil/pkg/db"
)

func RunsAction(c *cli.Context) error {
	database, err := openFromConfig(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded. Run 'finnbil fetch' first.")
		return nil
	}

	fmt.Printf("%-38s %-20s %-8s %-10s %-6s %s\n",
		"Run", "Started", "Pages", "Listings", "Sold", "Status")
	fmt.Println(strings.Repeat("-", 100))
	for _, r := range runs {
		fmt.Printf("%-38s %-20s %-8d %-10d %-6d %s\n",
			r.RunID,
			r.StartedAt.Format("2006-01-02 15:04:05"),
			r.PagesFetched,
			r.ListingsFound,
			r.SoldCount,
			r.Status,
		)
		if r.ErrorMessage != "" {
			fmt.Printf("%-38s   error: %s\n", "", r.ErrorMessage)
		}
	}
	fmt.Printf("\nTotal: %d runs\n", len(runs))
	fmt.Println("\nTip: 'finnbil db listings <run-id>' shows a run's batch")
	return nil
}

func ListingsAction(c *cli.Context) error {
	database, err := openFromConfig(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runID, err := GetRunIDOrLatest(c, database)
	if err != nil {
		return err
	}

	listings, err := database.GetListings(runID)
	if err != nil {
		return fmt.Errorf("failed to get listings: %w", err)
	}
	if len(listings) == 0 {
		fmt.Printf("Run %s has no listings\n", runID)
		return nil
	}

	fmt.Printf("Run %s (%d listings)\n", runID, len(listings))
	fmt.Println(strings.Repeat("-", 100))
	for _, l := range listings {
		year := "?"
		if l.Year != nil {
			year = fmt.Sprintf("%d", *l.Year)
		}
		mileage := "?"
		if l.Mileage != nil {
			mileage = fmt.Sprintf("%d km", *l.Mileage)
		}
		fmt.Printf("%3d. %s (%s)\n", l.ID, l.Name, year)
		fmt.Printf("     %s | %s\n", l.Price.String(), mileage)
		if l.Link != "" {
			fmt.Printf("     %s\n", l.Link)
		}
	}
	return nil
}

func TopAction(c *cli.Context) error {
	database, err := openFromConfig(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runID, err := GetRunIDOrLatest(c, database)
	if err != nil {
		return err
	}

	vals, err := database.TopValuations(runID, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to get valuations: %w", err)
	}
	if len(vals) == 0 {
		fmt.Printf("Run %s has no valuations. Run 'finnbil analyze' first.\n", runID)
		return nil
	}

	fmt.Printf("Top %d for run %s\n", len(vals), runID)
	fmt.Println(strings.Repeat("-", 100))
	for i, v := range vals {
		fmt.Printf("%2d. [%s] %s (%d) - %d kr, %d km/year, diff %+.1f%%\n",
			i+1, v.OverallGrade, v.Name, v.Year, v.Price, v.KmPerYear, v.DiffPct)
		fmt.Printf("    %s\n", v.Recommendation)
		if v.Link != "" {
			fmt.Printf("    %s\n", v.Link)
		}
	}
	return nil
}

func openFromConfig(c *cli.Context) (*dbpkg.DB, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	database, err := dbpkg.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}
