package parser

import (
	"github.com/momoscout/momo-brand-scraper/internal/models"
)

type Parser interface {
	CollectRecords(html string, brand string) ([]models.ProductRecord, int, error)
	ExtractIdentifier(href string) (string, bool)
}
