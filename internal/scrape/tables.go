package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"psx-tracker/internal/models"
)

// WideRow is one table row in wide form: a label plus one value per period.
type WideRow struct {
	Label  string
	Values map[string]string
}

// WideTable is a label-by-period table as it appears in the markup: one row
// per field, one column per period.
type WideTable struct {
	Periods []string
	Rows    []WideRow
}

// Tidy pivots the table into one record per period. Each record carries the
// period label under "period" plus every row's label as a field name.
func (t WideTable) Tidy() []models.PeriodRecord {
	records := make([]models.PeriodRecord, 0, len(t.Periods))
	for _, period := range t.Periods {
		rec := models.PeriodRecord{"period": period}
		for _, row := range t.Rows {
			rec[row.Label] = row.Values[period]
		}
		records = append(records, rec)
	}
	return records
}

// extractWideTable reads the first table within sel. Header cells become
// period labels (the first, blank, label column is skipped); each body row
// pairs its label cell with the per-period values.
func extractWideTable(sel *goquery.Selection) (WideTable, bool) {
	table := sel.Find("table").First()
	if table.Length() == 0 {
		return WideTable{}, false
	}

	var periods []string
	table.Find("th").Each(func(i int, th *goquery.Selection) {
		if i == 0 {
			return // blank label column
		}
		periods = append(periods, strings.TrimSpace(th.Text()))
	})

	var rows []WideRow
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		tds := tr.Find("td")
		if tds.Length() == 0 {
			return // header row
		}
		row := WideRow{
			Label:  strings.TrimSpace(tds.First().Text()),
			Values: make(map[string]string, len(periods)),
		}
		tds.Each(func(i int, td *goquery.Selection) {
			if i == 0 {
				return
			}
			if i-1 < len(periods) {
				row.Values[periods[i-1]] = strings.TrimSpace(td.Text())
			}
		})
		rows = append(rows, row)
	})

	if len(rows) == 0 {
		return WideTable{}, false
	}
	return WideTable{Periods: periods, Rows: rows}, true
}

// ExtractPayouts reads the payouts table: one record per body row, zipped
// with the table's own headers. Rows whose cell count does not match the
// header are skipped.
func ExtractPayouts(doc *goquery.Document) []models.Payout {
	section := doc.Find("#payouts").First()
	if section.Length() == 0 {
		return nil
	}
	table := section.Find("table").First()
	if table.Length() == 0 {
		return nil
	}

	var headers []string
	table.Find("th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(th.Text()))
	})

	var payouts []models.Payout
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		tds := tr.Find("td")
		if tds.Length() == 0 || tds.Length() != len(headers) {
			return
		}
		payout := make(models.Payout, len(headers))
		tds.Each(func(i int, td *goquery.Selection) {
			payout[headers[i]] = strings.TrimSpace(td.Text())
		})
		payouts = append(payouts, payout)
	})
	return payouts
}

// ExtractFinancialsWide reads the annual and quarterly statement tables in
// their raw wide shape.
func ExtractFinancialsWide(doc *goquery.Document) (annual, quarterly WideTable, ok bool) {
	section := doc.Find("#financials").First()
	if section.Length() == 0 {
		return WideTable{}, WideTable{}, false
	}

	var anyFound bool
	if t, found := extractWideTable(section.Find(`.tabs__panel[data-name="Annual"]`).First()); found {
		annual = t
		anyFound = true
	}
	if t, found := extractWideTable(section.Find(`.tabs__panel[data-name="Quarterly"]`).First()); found {
		quarterly = t
		anyFound = true
	}
	return annual, quarterly, anyFound
}

// ExtractFinancials reads the statement tables and pivots them tidy.
func ExtractFinancials(doc *goquery.Document) models.Financials {
	annual, quarterly, ok := ExtractFinancialsWide(doc)
	if !ok {
		return models.Financials{}
	}
	return models.Financials{
		Annual:    annual.Tidy(),
		Quarterly: quarterly.Tidy(),
	}
}

// ExtractRatios reads the ratios table and pivots it into one record per
// period.
func ExtractRatios(doc *goquery.Document) []models.PeriodRecord {
	section := doc.Find("#ratios").First()
	if section.Length() == 0 {
		return nil
	}
	table, ok := extractWideTable(section)
	if !ok {
		return nil
	}
	return table.Tidy()
}
