package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"finnbil/models"
)

// RunInfo is one row of the runs table.
type RunInfo struct {
	RunID         string
	SourceURL     string
	StartedAt     time.Time
	FinishedAt    *time.Time
	PagesFetched  int
	ListingsFound int
	SoldCount     int
	Status        string
	ErrorMessage  string
}

// CreateRun records the start of a fetch and returns its id.
func (db *DB) CreateRun(sourceURL string) (string, error) {
	runID := uuid.NewString()
	_, err := db.Exec(
		"INSERT INTO runs (run_id, source_url, status) VALUES (?, ?, 'running')",
		runID, sourceURL,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}
	return runID, nil
}

// FinishRun closes a run with its final counters and status.
func (db *DB) FinishRun(runID string, pages, listings, sold int, status, errMsg string) error {
	_, err := db.Exec(`
		UPDATE runs
		SET finished_at = CURRENT_TIMESTAMP,
		    pages_fetched = ?, listings_found = ?, sold_count = ?,
		    status = ?, error_message = ?
		WHERE run_id = ?`,
		pages, listings, sold, status, nullIfEmpty(errMsg), runID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// GetRun fetches one run by id.
func (db *DB) GetRun(runID string) (*RunInfo, error) {
	row := db.QueryRow(`
		SELECT run_id, source_url, started_at, finished_at,
		       pages_fetched, listings_found, sold_count, status,
		       COALESCE(error_message, '')
		FROM runs WHERE run_id = ?`, runID)
	return scanRun(row)
}

// LatestRun returns the most recently started run, or nil when the
// database is empty.
func (db *DB) LatestRun() (*RunInfo, error) {
	row := db.QueryRow(`
		SELECT run_id, source_url, started_at, finished_at,
		       pages_fetched, listings_found, sold_count, status,
		       COALESCE(error_message, '')
		FROM runs ORDER BY started_at DESC, run_id DESC LIMIT 1`)
	info, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return info, err
}

// ListRuns returns runs newest first.
func (db *DB) ListRuns(limit int) ([]RunInfo, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`
		SELECT run_id, source_url, started_at, finished_at,
		       pages_fetched, listings_found, sold_count, status,
		       COALESCE(error_message, '')
		FROM runs ORDER BY started_at DESC, run_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		info, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *info)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*RunInfo, error) {
	var info RunInfo
	var finished sql.NullTime
	err := row.Scan(&info.RunID, &info.SourceURL, &info.StartedAt, &finished,
		&info.PagesFetched, &info.ListingsFound, &info.SoldCount,
		&info.Status, &info.ErrorMessage)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	if finished.Valid {
		info.FinishedAt = &finished.Time
	}
	return &info, nil
}

// InsertListings stores the extracted batch for a run in one
// transaction.
func (db *DB) InsertListings(runID string, listings []models.Listing) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO listings (run_id, seq, name, link, finn_code, image_url,
		                      additional_info, details, year, mileage, age,
		                      km_per_year, price_amount, price_sold)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range listings {
		var priceAmount any
		if l.Price.Numeric() {
			priceAmount = l.Price.Amount
		}
		_, err := stmt.Exec(runID, l.ID, l.Name,
			nullIfEmpty(l.Link), nullIfEmpty(l.FinnCode), nullIfEmpty(l.ImageURL),
			nullIfEmpty(l.AdditionalInfo), nullIfEmpty(l.Details),
			nullableInt(l.Year), nullableInt(l.Mileage), nullableInt(l.Age),
			nullableInt(l.KmPerYear), priceAmount, l.Price.Sold)
		if err != nil {
			return fmt.Errorf("failed to insert listing %d: %w", l.ID, err)
		}
	}
	return tx.Commit()
}

// GetListings returns the stored batch for a run in sequence order.
func (db *DB) GetListings(runID string) ([]models.Listing, error) {
	rows, err := db.Query(`
		SELECT seq, name, COALESCE(link, ''), COALESCE(finn_code, ''),
		       COALESCE(image_url, ''), COALESCE(additional_info, ''),
		       COALESCE(details, ''), year, mileage, age, km_per_year,
		       price_amount, price_sold
		FROM listings WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		var l models.Listing
		var year, mileage, age, kmPerYear, priceAmount sql.NullInt64
		var sold bool
		err := rows.Scan(&l.ID, &l.Name, &l.Link, &l.FinnCode, &l.ImageURL,
			&l.AdditionalInfo, &l.Details, &year, &mileage, &age,
			&kmPerYear, &priceAmount, &sold)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		l.Year = fromNullInt(year)
		l.Mileage = fromNullInt(mileage)
		l.Age = fromNullInt(age)
		l.KmPerYear = fromNullInt(kmPerYear)
		switch {
		case sold:
			l.Price = models.SoldPrice()
		case priceAmount.Valid:
			l.Price = models.NumericPrice(int(priceAmount.Int64))
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// InsertValuations stores the scored batch for a run, replacing any
// previous scoring of the same run.
func (db *DB) InsertValuations(runID string, vals []models.Valuation) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM valuations WHERE run_id = ?", runID); err != nil {
		return fmt.Errorf("failed to clear previous valuations: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO valuations (run_id, listing_seq, name, year, age, price,
		                        km_per_year, matched_model, matched_year,
		                        match_score, original_price, expected_value,
		                        actual_pct, expected_pct, diff_pct,
		                        price_grade, mileage_grade, overall_grade,
		                        recommendation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range vals {
		_, err := stmt.Exec(runID, v.ListingID, v.Name, v.Year, v.Age, v.Price,
			v.KmPerYear, v.MatchedModel, v.MatchedYear, v.MatchScore,
			v.OriginalPrice, v.ExpectedValue, v.ActualPct, v.ExpectedPct,
			v.DiffPct, string(v.PriceGrade), string(v.MileageGrade),
			string(v.OverallGrade), v.Recommendation)
		if err != nil {
			return fmt.Errorf("failed to insert valuation for listing %d: %w", v.ListingID, err)
		}
	}
	return tx.Commit()
}

// TopValuations returns a run's valuations ranked the way the batch
// summary ranks them: lowest annual usage first, then grade, then
// depreciation difference.
func (db *DB) TopValuations(runID string, limit int) ([]models.Valuation, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.Query(`
		SELECT listing_seq, name, year, age, price, km_per_year,
		       matched_model, matched_year, match_score, original_price,
		       expected_value, actual_pct, expected_pct, diff_pct,
		       price_grade, mileage_grade, overall_grade, recommendation
		FROM valuations
		WHERE run_id = ?
		ORDER BY km_per_year ASC,
		         CASE overall_grade
		             WHEN 'A' THEN 5 WHEN 'B' THEN 4 WHEN 'C' THEN 3
		             WHEN 'D' THEN 2 ELSE 1
		         END DESC,
		         diff_pct DESC
		LIMIT ?`, runID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query valuations: %w", err)
	}
	defer rows.Close()

	var vals []models.Valuation
	for rows.Next() {
		var v models.Valuation
		var priceGrade, mileageGrade, overallGrade string
		err := rows.Scan(&v.ListingID, &v.Name, &v.Year, &v.Age, &v.Price,
			&v.KmPerYear, &v.MatchedModel, &v.MatchedYear, &v.MatchScore,
			&v.OriginalPrice, &v.ExpectedValue, &v.ActualPct, &v.ExpectedPct,
			&v.DiffPct, &priceGrade, &mileageGrade, &overallGrade,
			&v.Recommendation)
		if err != nil {
			return nil, fmt.Errorf("failed to scan valuation: %w", err)
		}
		v.PriceGrade = models.Grade(priceGrade)
		v.MileageGrade = models.Grade(mileageGrade)
		v.OverallGrade = models.Grade(overallGrade)
		vals = append(vals, v)
	}
	return vals, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func fromNullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
