package scrape

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"psx-tracker/internal/models"
)

var (
	reMetaPrice   = regexp.MustCompile(`Share Price / Stock Price is ([0-9,.]+)\s*PKR`)
	reReturnLabel = regexp.MustCompile(`^[0-9]+[DWMY]$|^YTD$`)
)

// ExtractCompanyInfo pulls the company name and listing details from a
// Sarmaaya company page. The name falls back through progressively less
// specific elements so a heading restyle does not blank the field.
func ExtractCompanyInfo(doc *goquery.Document) models.CompanyInfo {
	var info models.CompanyInfo

	for _, sel := range []string{"h1.company-name", "h2", "h1"} {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			if text := strings.TrimSpace(s.Text()); text != "" {
				info.Name = text
				break
			}
		}
	}
	if info.Name == "" {
		if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
			info.Name = strings.TrimSpace(strings.SplitN(title, "|", 2)[0])
		}
	}

	doc.Find("div.company-info div, div.company-info li, div.company-info tr").Each(func(_ int, row *goquery.Selection) {
		text := strings.ToLower(row.Text())
		value := rowValue(row)
		if value == "" {
			return
		}
		switch {
		case strings.Contains(text, "sector"):
			if info.Sector == "" {
				info.Sector = value
			}
		case strings.Contains(text, "listing date") || strings.Contains(text, "listed"):
			if info.ListingDate == "" {
				info.ListingDate = value
			}
		case strings.Contains(text, "board"):
			if info.ListingBoard == "" {
				info.ListingBoard = value
			}
		}
	})

	return info
}

// rowValue returns the value part of a label/value row: the last span, cell
// or the text after a colon.
func rowValue(row *goquery.Selection) string {
	if cells := row.Find("span, td"); cells.Length() > 1 {
		return strings.TrimSpace(cells.Last().Text())
	}
	text := strings.TrimSpace(row.Text())
	if i := strings.LastIndex(text, ":"); i >= 0 {
		return strings.TrimSpace(text[i+1:])
	}
	return ""
}

var sarmayaPriceStrategies = []priceStrategy{
	{"json-ld", priceFromJSONLD},
	{"meta-description", priceFromMetaDescription},
	{"currency-scan", priceFromCurrencyScan},
}

// ldPrice accepts the price both as a JSON number and as a quoted string,
// since structured-data blocks carry either.
type ldPrice float64

func (p *ldPrice) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	v, ok := parseAmount(s)
	if !ok {
		return nil // leave zero; caller treats that as absent
	}
	*p = ldPrice(v)
	return nil
}

// priceFromJSONLD reads the structured data block most Sarmaaya pages embed
// for search engines.
func priceFromJSONLD(doc *goquery.Document) (float64, bool) {
	var price float64
	var found bool
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var payload struct {
			Offers struct {
				Price ldPrice `json:"price"`
			} `json:"offers"`
		}
		if err := json.Unmarshal([]byte(s.Text()), &payload); err != nil {
			return true
		}
		if payload.Offers.Price > 0 {
			price, found = float64(payload.Offers.Price), true
			return false
		}
		return true
	})
	return price, found
}

func priceFromMetaDescription(doc *goquery.Document) (float64, bool) {
	content, ok := doc.Find(`meta[name="description"]`).First().Attr("content")
	if !ok {
		return 0, false
	}
	m := reMetaPrice.FindStringSubmatch(content)
	if m == nil {
		return 0, false
	}
	return parseAmount(m[1])
}

// ExtractSarmayaPrice locates the share price on a Sarmaaya page, trying the
// structured-data block first and degrading to a page-wide currency scan.
func ExtractSarmayaPrice(doc *goquery.Document) (price float64, matchedBy string, ok bool) {
	for _, strat := range sarmayaPriceStrategies {
		if v, found := strat.fn(doc); found {
			return v, strat.name, true
		}
	}
	return 0, "", false
}

// ExtractPerformance reads the trailing-return table (1D, 1W, 1M, YTD and so
// on) into a window-to-percent map. Unparseable cells are skipped.
func ExtractPerformance(doc *goquery.Document) map[string]float64 {
	perf := make(map[string]float64)
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		var labels []string
		table.Find("th").Each(func(_ int, th *goquery.Selection) {
			labels = append(labels, strings.TrimSpace(th.Text()))
		})
		if len(labels) == 0 || !reReturnLabel.MatchString(labels[0]) {
			return
		}
		table.Find("td").Each(func(i int, td *goquery.Selection) {
			if i >= len(labels) {
				return
			}
			text := strings.TrimSpace(td.Text())
			if m := rePercent.FindString(text); m != "" {
				if v, ok := parseAmount(m); ok {
					perf[labels[i]] = v
				}
			}
		})
	})
	if len(perf) == 0 {
		return nil
	}
	return perf
}
