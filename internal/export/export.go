package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/momoscout/momo-brand-scraper/internal/models"
)

// Columns is the fixed export schema, in output order.
var Columns = []string{"brand", "name", "model_number", "price", "sales_count", "product_url"}

// Rows maps records onto the export schema. Pure mapping, no filtering.
func Rows(records []models.ProductRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.Brand,
			rec.Name,
			rec.ModelNumber,
			rec.Price,
			rec.SalesCount,
			rec.ProductURL,
		})
	}
	return rows
}

// WriteCSV encodes header and rows to w.
func WriteCSV(w io.Writer, records []models.ProductRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range Rows(records) {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteFile writes the records to a CSV file, creating parent directories as
// needed.
func WriteFile(filename string, records []models.ProductRecord) error {
	if dir := filepath.Dir(filename); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}

	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Filename builds the default timestamped export name for a brand.
func Filename(brand string, now time.Time) string {
	return fmt.Sprintf("%s_momo_%s.csv", brand, now.Format("20060102_150405"))
}
