package harvest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jobharvest/internal/logger"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"
)

const (
	fallbackTimeout   = 15 * time.Second
	fallbackUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Listing selectors for the static extraction path.
const (
	selListing         = "div.job-listing"
	selListingTitle    = ".job-title"
	selListingCompany  = ".job-company"
	selListingLocation = ".job-location"
	selListingSnippet  = ".job-snippet"
)

// Fallback is the non-browser extraction path: a plain HTTP fetch plus a
// static DOM query. No script execution, no interaction, lower fidelity —
// no contact signals, no salary. Used when the full engine cannot run.
type Fallback struct {
	log    *logger.Logger
	region string
}

func NewFallback(region string) *Fallback {
	return &Fallback{log: logger.New("Fallback"), region: region}
}

// Extract fetches the page and extracts summary-grade records. An empty page
// is a valid success: it returns an empty list, never an error.
func (f *Fallback) Extract(ctx context.Context, url string) ([]JobRecord, error) {
	if err := ctx.Err(); err != nil {
		return []JobRecord{}, err
	}

	records := []JobRecord{}
	var fetchErr error

	c := colly.NewCollector(colly.UserAgent(fallbackUserAgent))
	c.SetRequestTimeout(fallbackTimeout)

	c.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})
	c.OnHTML(selListing, func(e *colly.HTMLElement) {
		r := recordFromListing(e.DOM, f.region, url, time.Now())
		if r.ApplyURL != "" {
			r.ApplyURL = e.Request.AbsoluteURL(r.ApplyURL)
		}
		if r.Valid() {
			records = append(records, r)
		}
	})

	if err := c.Visit(url); err != nil {
		return []JobRecord{}, fmt.Errorf("fallback fetch: %w", err)
	}
	if fetchErr != nil {
		return []JobRecord{}, fmt.Errorf("fallback fetch: %w", fetchErr)
	}

	f.log.Info().Int("count", len(records)).Str("url", url).Msg("fallback extraction complete")
	return records, nil
}

// recordFromListing builds a summary-grade record from one listing node.
func recordFromListing(sel *goquery.Selection, region, source string, now time.Time) JobRecord {
	r := JobRecord{
		Title:       strings.TrimSpace(sel.Find(selListingTitle).First().Text()),
		Company:     strings.TrimSpace(sel.Find(selListingCompany).First().Text()),
		Location:    strings.TrimSpace(sel.Find(selListingLocation).First().Text()),
		Description: strings.TrimSpace(sel.Find(selListingSnippet).First().Text()),
		Salary:      SalaryNotSpecified,
		SourceURL:   source,
		ScrapedAt:   now,
	}
	if r.Location == "" {
		r.Location = region
	}
	if href, ok := sel.Find("a[href]").First().Attr("href"); ok {
		r.ApplyURL = strings.TrimSpace(href)
	}
	return r
}
