package parser

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Fields holds everything recovered from a single product anchor. Name is
// mandatory; the other fields fall back to defaults when the tile markup
// does not carry them.
type Fields struct {
	Name        string
	ModelNumber string
	Price       string
	SalesCount  string
}

var (
	modelPattern    = regexp.MustCompile(`(?i)([A-Z]{2,}-\w+)`)
	nonDigitPattern = regexp.MustCompile(`[^\d]`)
)

// salesLabel is the text momo prefixes to the sales counter inside
// .totalSales elements.
const salesLabel = "總銷量"

// nameStrategy returns one candidate for the product name, or "" when the
// markup this strategy looks at is missing. Strategies run in order and the
// first non-empty candidate wins.
type nameStrategy func(anchor *goquery.Selection) string

// Momo renders product tiles from several CMS templates, so the name can
// live in the anchor title, the product image, or a nested name element
// depending on the tile.
var nameStrategies = []nameStrategy{
	nameFromAnchorTitle,
	nameFromImage,
	nameFromNameClass,
}

func nameFromAnchorTitle(anchor *goquery.Selection) string {
	title, _ := anchor.Attr("title")
	return strings.TrimSpace(title)
}

func nameFromImage(anchor *goquery.Selection) string {
	img := anchor.Find("img").First()
	if img.Length() == 0 {
		return ""
	}
	if alt, _ := img.Attr("alt"); strings.TrimSpace(alt) != "" {
		return strings.TrimSpace(alt)
	}
	title, _ := img.Attr("title")
	return strings.TrimSpace(title)
}

func nameFromNameClass(anchor *goquery.Selection) string {
	for _, sel := range []string{".prdName", ".goodsName"} {
		if el := anchor.Find(sel).First(); el.Length() > 0 {
			return strings.TrimSpace(el.Text())
		}
	}
	return ""
}

// priceSelectors are tried in order inside the anchor's li container; the
// first element found wins even when its text strips to nothing.
var priceSelectors = []string{".price", ".money", "b"}

// ExtractFields recovers the typed fields for one product anchor. The second
// return value is false when no strategy could produce a name, in which case
// the anchor must be skipped.
func ExtractFields(anchor *goquery.Selection) (Fields, bool) {
	f := Fields{Price: "0", SalesCount: "0"}

	for _, strategy := range nameStrategies {
		if name := strategy(anchor); name != "" {
			f.Name = name
			break
		}
	}
	if f.Name == "" {
		return Fields{}, false
	}

	if m := modelPattern.FindStringSubmatch(f.Name); m != nil {
		f.ModelNumber = m[1]
	}

	// Price and sales live outside the anchor, scoped to the nearest list
	// item wrapping the tile. Tiles without a container keep the defaults.
	container := anchor.Closest("li")
	if container.Length() > 0 {
		for _, sel := range priceSelectors {
			if el := container.Find(sel).First(); el.Length() > 0 {
				f.Price = nonDigitPattern.ReplaceAllString(el.Text(), "")
				break
			}
		}

		if el := container.Find(".totalSales").First(); el.Length() > 0 {
			text := strings.ReplaceAll(el.Text(), salesLabel, "")
			text = strings.ReplaceAll(text, ">", "")
			f.SalesCount = strings.TrimSpace(text)
		}
	}

	return f, true
}
