package db

import (
	"fmt"

	"github.com/urfave/cli/v2"

	dbpkg "finnbil/pkg/db"
)

// GetRunIDOrLatest returns the run id from the first argument, or the
// most recent run when none is given.
func GetRunIDOrLatest(c *cli.Context, database *dbpkg.DB) (string, error) {
	if c.NArg() > 0 {
		return c.Args().First(), nil
	}
	latest, err := database.LatestRun()
	if err != nil {
		return "", fmt.Errorf("failed to get latest run: %w", err)
	}
	if latest == nil {
		return "", fmt.Errorf("no runs found. Run 'finnbil fetch' first")
	}
	return latest.RunID, nil
}
