package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/momoscout/momo-brand-scraper/internal/models"
	"github.com/momoscout/momo-brand-scraper/internal/parser"
)

var ErrRunNotFound = errors.New("run not found")

// SaveRun persists a finished run and its records in one transaction. The
// record list is already deduplicated by i_code, first-seen order becomes
// the position column.
func (db *DB) SaveRun(ctx context.Context, res *models.RunResult) error {
	return db.Transaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO scrape_run (id, brand, pages_wanted, pages_done, error_message, started_at, finished_at)
			VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)`,
			res.RunID, res.Brand, res.PagesWanted, res.PagesDone, res.Err, res.StartedAt, res.FinishedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		for i, rec := range res.Records {
			id, ok := parser.ExtractIdentifier(rec.ProductURL)
			if !ok {
				continue
			}

			_, err := tx.Exec(ctx, `
				INSERT INTO scrape_product (run_id, position, i_code, brand, name, model_number, price, sales_count, product_url)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				ON CONFLICT (run_id, i_code) DO NOTHING`,
				res.RunID, i, id, rec.Brand, rec.Name, rec.ModelNumber, rec.Price, rec.SalesCount, rec.ProductURL,
			)
			if err != nil {
				return fmt.Errorf("failed to insert product %s: %w", id, err)
			}
		}

		return nil
	})
}

// GetRun loads a persisted run with its records in first-seen order.
func (db *DB) GetRun(ctx context.Context, runID string) (*models.RunResult, error) {
	res := &models.RunResult{RunID: runID}

	var errMsg *string
	err := db.QueryRow(ctx, `
		SELECT brand, pages_wanted, pages_done, error_message, started_at, finished_at
		FROM scrape_run WHERE id = $1`, runID,
	).Scan(&res.Brand, &res.PagesWanted, &res.PagesDone, &errMsg, &res.StartedAt, &res.FinishedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to load run: %w", err)
	}
	if errMsg != nil {
		res.Err = *errMsg
	}

	rows, err := db.Query(ctx, `
		SELECT brand, name, model_number, price, sales_count, product_url
		FROM scrape_product WHERE run_id = $1 ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load run records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec models.ProductRecord
		if err := rows.Scan(&rec.Brand, &rec.Name, &rec.ModelNumber, &rec.Price, &rec.SalesCount, &rec.ProductURL); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		res.Records = append(res.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	return res, nil
}

// ListRuns returns recent runs, newest first, without their records.
func (db *DB) ListRuns(ctx context.Context, limit int) ([]models.RunResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(ctx, `
		SELECT id, brand, pages_wanted, pages_done, COALESCE(error_message, ''), started_at, finished_at
		FROM scrape_run ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []models.RunResult
	for rows.Next() {
		var r models.RunResult
		if err := rows.Scan(&r.RunID, &r.Brand, &r.PagesWanted, &r.PagesDone, &r.Err, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return runs, nil
}
