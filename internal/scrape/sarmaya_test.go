package scrape

import "testing"

func TestExtractCompanyInfo(t *testing.T) {
	html := `
<html><head><title>Lucky Cement | Sarmaaya</title></head><body>
<h1 class="company-name">Lucky Cement Limited</h1>
<div class="company-info">
  <div><span>Sector</span><span>Cement</span></div>
  <div><span>Listing Date</span><span>1994-04-07</span></div>
  <div><span>Listing Board</span><span>Main Board</span></div>
</div>
</body></html>`
	doc, err := NewDocument(html)
	if err != nil {
		t.Fatalf("parsing document: %v", err)
	}

	info := ExtractCompanyInfo(doc)
	if info.Name != "Lucky Cement Limited" {
		t.Errorf("name = %q", info.Name)
	}
	if info.Sector != "Cement" {
		t.Errorf("sector = %q", info.Sector)
	}
	if info.ListingDate != "1994-04-07" {
		t.Errorf("listing date = %q", info.ListingDate)
	}
	if info.ListingBoard != "Main Board" {
		t.Errorf("listing board = %q", info.ListingBoard)
	}
}

func TestExtractCompanyInfoTitleFallback(t *testing.T) {
	doc, err := NewDocument(`<html><head><title>Engro Corp | Sarmaaya</title></head><body></body></html>`)
	if err != nil {
		t.Fatalf("parsing document: %v", err)
	}
	info := ExtractCompanyInfo(doc)
	if info.Name != "Engro Corp" {
		t.Errorf("name = %q, want title-derived fallback", info.Name)
	}
}

func TestExtractSarmayaPrice(t *testing.T) {
	tests := []struct {
		name          string
		html          string
		wantPrice     float64
		wantMatchedBy string
		wantOK        bool
	}{
		{
			name: "json-ld offers",
			html: `<script type="application/ld+json">{"offers":{"price":"845.50"}}</script>
				<meta name="description" content="Share Price / Stock Price is 999 PKR">`,
			wantPrice:     845.50,
			wantMatchedBy: "json-ld",
			wantOK:        true,
		},
		{
			name:          "meta description fallback",
			html:          `<html><head><meta name="description" content="Lucky Cement Share Price / Stock Price is 1,050.25 PKR today"></head></html>`,
			wantPrice:     1050.25,
			wantMatchedBy: "meta-description",
			wantOK:        true,
		},
		{
			name:          "currency scan fallback",
			html:          `<p>Last close PKR 432.10</p>`,
			wantPrice:     432.10,
			wantMatchedBy: "currency-scan",
			wantOK:        true,
		},
		{
			name:   "no price anywhere",
			html:   `<p>Company profile page</p>`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := NewDocument(tt.html)
			if err != nil {
				t.Fatalf("parsing document: %v", err)
			}
			price, matchedBy, ok := ExtractSarmayaPrice(doc)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if price != tt.wantPrice {
				t.Errorf("price = %v, want %v", price, tt.wantPrice)
			}
			if matchedBy != tt.wantMatchedBy {
				t.Errorf("matchedBy = %q, want %q", matchedBy, tt.wantMatchedBy)
			}
		})
	}
}

func TestExtractPerformance(t *testing.T) {
	html := `
<table>
  <tr><th>1D</th><th>1W</th><th>1M</th><th>YTD</th></tr>
  <tr><td>0.5%</td><td>-1.2%</td><td>3.4%</td><td>12.8%</td></tr>
</table>`
	doc, err := NewDocument(html)
	if err != nil {
		t.Fatalf("parsing document: %v", err)
	}

	perf := ExtractPerformance(doc)
	if len(perf) != 4 {
		t.Fatalf("windows = %d, want 4", len(perf))
	}
	if perf["1W"] != -1.2 {
		t.Errorf("1W = %v, want -1.2", perf["1W"])
	}
	if perf["YTD"] != 12.8 {
		t.Errorf("YTD = %v, want 12.8", perf["YTD"])
	}
}

func TestExtractPerformanceIgnoresOtherTables(t *testing.T) {
	html := `
<table>
  <tr><th>Date</th><th>Amount</th></tr>
  <tr><td>2024-10-15</td><td>5.00</td></tr>
</table>`
	doc, err := NewDocument(html)
	if err != nil {
		t.Fatalf("parsing document: %v", err)
	}
	if perf := ExtractPerformance(doc); perf != nil {
		t.Errorf("expected nil, got %v", perf)
	}
}
