package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/momoscout/momo-brand-scraper/internal/models"
)

const (
	// SiteOrigin prefixes root-relative product links.
	SiteOrigin = "https://www.momoshop.com.tw"

	// anchorSelector matches links into product detail pages.
	anchorSelector = "a[href*='GoodsDetail.jsp']"
)

var identifierPattern = regexp.MustCompile(`i_code=(\d+)`)

type MomoParser struct{}

func NewMomoParser() *MomoParser {
	return &MomoParser{}
}

// ExtractIdentifier pulls the i_code product identifier out of a detail-page
// href. The second return value is false when the href carries no i_code,
// which means the link is not a product link at all.
func ExtractIdentifier(href string) (string, bool) {
	m := identifierPattern.FindStringSubmatch(href)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func (p *MomoParser) ExtractIdentifier(href string) (string, bool) {
	return ExtractIdentifier(href)
}

// CollectRecords scans one rendered search result page and returns every
// product record it can build, in anchor order. Anchors that are missing an
// identifier or a name are skipped and counted; duplicates within the page
// pass through untouched, deduplication happens in the crawler. The error is
// non-nil only when the HTML itself cannot be parsed.
func (p *MomoParser) CollectRecords(html string, brand string) ([]models.ProductRecord, int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse page HTML: %w", err)
	}

	var records []models.ProductRecord
	skipped := 0

	doc.Find(anchorSelector).Each(func(_ int, anchor *goquery.Selection) {
		rec, ok := p.buildRecord(anchor, brand)
		if !ok {
			skipped++
			return
		}
		records = append(records, rec)
	})

	return records, skipped, nil
}

// buildRecord turns one anchor into a record. A panic while extracting a
// single anchor only drops that anchor, never the page scan.
func (p *MomoParser) buildRecord(anchor *goquery.Selection, brand string) (rec models.ProductRecord, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			rec, ok = models.ProductRecord{}, false
		}
	}()

	href, _ := anchor.Attr("href")
	if _, found := p.ExtractIdentifier(href); !found {
		return models.ProductRecord{}, false
	}

	fields, valid := ExtractFields(anchor)
	if !valid {
		return models.ProductRecord{}, false
	}

	url := href
	if strings.HasPrefix(href, "/") {
		url = SiteOrigin + href
	}

	return models.ProductRecord{
		Brand:       brand,
		Name:        fields.Name,
		ModelNumber: fields.ModelNumber,
		Price:       fields.Price,
		SalesCount:  fields.SalesCount,
		ProductURL:  url,
	}, true
}
