// Package fetch retrieves company pages from the quote sites and turns them
// into domain records. Each request rotates its browser headers; there is no
// retry, a failed symbol is reported and the batch moves on.
package fetch

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"psx-tracker/internal/errors"
	"psx-tracker/internal/models"
	"psx-tracker/internal/scrape"
)

// Site identifies a quote source.
type Site string

const (
	SitePSX     Site = "psx"
	SiteSarmaya Site = "sarmaaya"
)

const (
	psxCompanyURL     = "https://dps.psx.com.pk/company/%s"
	sarmayaCompanyURL = "https://sarmaaya.pk/psx/company/%s"
)

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
}

var acceptLanguages = []string{
	"en-US,en;q=0.9",
	"en-GB,en;q=0.8",
	"en-US,en;q=0.9,ur;q=0.6",
	"en,en-US;q=0.9",
}

// Client fetches and parses company pages. Safe for concurrent use.
type Client struct {
	http       *http.Client
	logger     zerolog.Logger
	now        func() time.Time
	psxURL     string // printf template with one %s for the symbol
	sarmayaURL string
}

// NewClient creates a fetch client with the given per-request timeout.
func NewClient(timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		http:       &http.Client{Timeout: timeout},
		logger:     logger,
		now:        time.Now,
		psxURL:     psxCompanyURL,
		sarmayaURL: sarmayaCompanyURL,
	}
}

func (c *Client) pageURL(site Site, symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if site == SiteSarmaya {
		return fmt.Sprintf(c.sarmayaURL, symbol)
	}
	return fmt.Sprintf(c.psxURL, symbol)
}

// FetchPage retrieves the raw HTML of a company page. A 404 means the symbol
// does not exist on the site.
func (c *Client) FetchPage(ctx context.Context, site Site, symbol string) (string, error) {
	url := c.pageURL(site, symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.NewFetchError(string(site), symbol, 0, err)
	}
	req.Header.Set("User-Agent", userAgents[rand.Intn(len(userAgents))])
	req.Header.Set("Accept-Language", acceptLanguages[rand.Intn(len(acceptLanguages))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.NewFetchError(string(site), symbol, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", errors.NewFetchError(string(site), symbol, resp.StatusCode, errors.ErrSymbolNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.NewFetchError(string(site), symbol, resp.StatusCode, nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.NewFetchError(string(site), symbol, resp.StatusCode, err)
	}
	return string(body), nil
}

// FetchQuote retrieves the current quote for a symbol from the PSX page.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (*models.PriceSample, error) {
	start := c.now()
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	html, err := c.FetchPage(ctx, SitePSX, symbol)
	if err != nil {
		return nil, err
	}

	doc, err := scrape.NewDocument(html)
	if err != nil {
		return nil, errors.NewParseError("document", symbol, err)
	}

	quote := scrape.ExtractQuote(doc)
	if quote.Price == nil {
		// Alternate source: the Sarmaaya page carries its own price in
		// structured data. Tried once; still no retry policy.
		if price, matchedBy, ok := c.sarmayaPrice(ctx, symbol); ok {
			quote.Price = &price
			quote.MatchedBy = "sarmaaya/" + matchedBy
		}
	}
	if quote.Price == nil {
		return nil, errors.Wrap(errors.ErrPriceUnavailable, symbol)
	}

	c.logger.Debug().
		Str("symbol", symbol).
		Str("matched_by", quote.MatchedBy).
		Dur("duration", c.now().Sub(start)).
		Msg("Quote extracted")

	return &models.PriceSample{
		Symbol:      symbol,
		Price:       *quote.Price,
		ChangeValue: quote.ChangeValue,
		Percentage:  quote.Percentage,
		Direction:   quote.Direction,
		FetchedAt:   c.now(),
	}, nil
}

func (c *Client) sarmayaPrice(ctx context.Context, symbol string) (float64, string, bool) {
	html, err := c.FetchPage(ctx, SiteSarmaya, symbol)
	if err != nil {
		return 0, "", false
	}
	doc, err := scrape.NewDocument(html)
	if err != nil {
		return 0, "", false
	}
	return scrape.ExtractSarmayaPrice(doc)
}

// FetchProfile retrieves the fundamentals document for a symbol: payouts,
// financial statements and ratios from the PSX page, company details from
// Sarmaaya. A Sarmaaya failure degrades to an empty company block rather
// than failing the profile.
func (c *Client) FetchProfile(ctx context.Context, symbol string) (*models.StockProfile, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	html, err := c.FetchPage(ctx, SitePSX, symbol)
	if err != nil {
		return nil, err
	}
	doc, err := scrape.NewDocument(html)
	if err != nil {
		return nil, errors.NewParseError("document", symbol, err)
	}

	profile := &models.StockProfile{
		Symbol:     symbol,
		Payouts:    scrape.ExtractPayouts(doc),
		Financials: scrape.ExtractFinancials(doc),
		Ratios:     scrape.ExtractRatios(doc),
		FetchedAt:  c.now(),
	}

	if sarmayaHTML, err := c.FetchPage(ctx, SiteSarmaya, symbol); err == nil {
		if sdoc, err := scrape.NewDocument(sarmayaHTML); err == nil {
			profile.Company = scrape.ExtractCompanyInfo(sdoc)
			profile.Performance = scrape.ExtractPerformance(sdoc)
		}
	} else {
		c.logger.Warn().Str("symbol", symbol).Err(err).Msg("Company details unavailable")
	}

	return profile, nil
}
