// Package scrape extracts structured quote and fundamentals data from
// company pages. Extraction degrades to absent fields instead of failing:
// a selector miss on one field never aborts the rest of the document, and
// a document with no usable price is reported as unavailable, not as a
// parse crash.
package scrape

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	rePrefixedPrice = regexp.MustCompile(`Rs\.?\s*([0-9,]+\.?[0-9]*)`)
	reCurrencyScan  = regexp.MustCompile(`(?:Rs\.?|PKR)[\s\x{00a0}]*([0-9][0-9,]*\.?[0-9]*)`)
	reSignedNumber  = regexp.MustCompile(`-?[0-9,]+\.?[0-9]*`)
	rePercent       = regexp.MustCompile(`[-+]?\d+\.?\d*`)
)

// Quote holds the fields extracted from a company quote block. Price and
// ChangeValue are nil when the corresponding element was missing or carried
// no parseable number.
type Quote struct {
	Price       *float64
	ChangeValue *float64
	Percentage  string
	Direction   string
	MatchedBy   string // which price strategy produced the value
}

// NewDocument parses raw HTML into a queryable document.
func NewDocument(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// priceStrategy is one way of locating the quote price in a document.
// Strategies are tried in order; the first hit wins and its name is
// recorded so markup drift can be diagnosed from logs.
type priceStrategy struct {
	name string
	fn   func(*goquery.Document) (float64, bool)
}

var quotePriceStrategies = []priceStrategy{
	{"quote-close", priceFromQuoteClose},
	{"currency-scan", priceFromCurrencyScan},
}

func priceFromQuoteClose(doc *goquery.Document) (float64, bool) {
	sel := doc.Find(".quote__close").First()
	if sel.Length() == 0 {
		return 0, false
	}
	m := rePrefixedPrice.FindStringSubmatch(strings.TrimSpace(sel.Text()))
	if m == nil {
		return 0, false
	}
	return parseAmount(m[1])
}

// priceFromCurrencyScan walks every text node looking for the first
// Rs./PKR-prefixed number. Last-resort strategy for pages where the quote
// block moved.
func priceFromCurrencyScan(doc *goquery.Document) (float64, bool) {
	var price float64
	var found bool
	doc.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := ownText(s)
		if text == "" {
			return true
		}
		m := reCurrencyScan.FindStringSubmatch(text)
		if m == nil {
			return true
		}
		if v, ok := parseAmount(m[1]); ok {
			price, found = v, true
			return false
		}
		return true
	})
	return price, found
}

// ExtractQuote pulls price, change, percentage and direction out of a PSX
// company page. Absent fields stay nil/empty.
func ExtractQuote(doc *goquery.Document) Quote {
	var q Quote

	for _, strat := range quotePriceStrategies {
		if v, ok := strat.fn(doc); ok {
			q.Price = &v
			q.MatchedBy = strat.name
			break
		}
	}

	if sel := doc.Find(".change__value").First(); sel.Length() > 0 {
		if m := reSignedNumber.FindString(strings.TrimSpace(sel.Text())); m != "" {
			if v, ok := parseAmount(m); ok {
				q.ChangeValue = &v
			}
		}
	}

	if sel := doc.Find(".change__percent").First(); sel.Length() > 0 {
		if m := rePercent.FindString(strings.TrimSpace(sel.Text())); m != "" {
			q.Percentage = m + "%"
		}
	}

	if q.ChangeValue != nil {
		switch {
		case *q.ChangeValue > 0:
			q.Direction = "+"
		case *q.ChangeValue < 0:
			q.Direction = "-"
		}
	}

	return q
}

// DisplayChange returns the change magnitude for display: negative changes
// are shown as their absolute value next to the separate direction sign.
func (q Quote) DisplayChange() float64 {
	if q.ChangeValue == nil {
		return 0
	}
	if *q.ChangeValue < 0 {
		return -*q.ChangeValue
	}
	return *q.ChangeValue
}

// parseAmount parses a number that may carry thousands separators.
func parseAmount(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || s == "." {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ownText returns the text directly inside a node, excluding children.
func ownText(s *goquery.Selection) string {
	var sb strings.Builder
	for _, node := range s.Nodes {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
		}
	}
	return strings.TrimSpace(sb.String())
}
