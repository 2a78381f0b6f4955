package harvest

import (
	"context"
	"strings"
	"time"

	"jobharvest/internal/browser"
	"jobharvest/internal/humanize"
	"jobharvest/internal/logger"
	"jobharvest/internal/utils/markdown"

	"github.com/playwright-community/playwright-go"
)

// Workflow states for one harvest run.
type state string

const (
	stateNavigating          state = "navigating"
	stateWaitingForResults   state = "waiting_for_results"
	stateIncrementalLoading  state = "incremental_loading"
	stateExtractingSummaries state = "extracting_summaries"
	stateExtractingDetails   state = "extracting_details"
	stateComplete            state = "complete"
	stateFailed              state = "failed"
)

// Fixed caps, not configurable per call: they guarantee a bounded wall-clock
// budget per run.
const (
	navigationTimeoutMs = 30000
	resultsWaitMs       = 10000
	maxScrollAttempts   = 10
	scrollSettle        = 2 * time.Second
	detailLimit         = 50
	detailSettle        = 1500 * time.Millisecond
	maxDescriptionLen   = 2000
)

// Selector set for the search results page.
const (
	selResultCard      = `[jsname="DVpvXc"]`
	selCardTitle       = `[role="heading"] span`
	selCardCompany     = `[class*="vNEEBe"]`
	selCardLocation    = `[class*="Qk80Jf"]`
	selCardSnippet     = `[class*="HBvzbc"]`
	selDateFilter      = `[aria-label="Date posted"]`
	selFilterOption    = `[role="option"]`
	selApplyLink       = `[jsname="NbCCVc"] a`
	selFullDescription = `[jsname="KIg8jf"]`
	selJobType         = `[jsname="i6xfqc"] span:nth-child(2)`
)

// Engine runs the full browser-driven extraction workflow for one harvest.
// Extraction steps run sequentially on a single page; no parallel fan-out,
// both to avoid rate-based detection and to keep result indices stable.
type Engine struct {
	log       *logger.Logger
	sessions  *browser.Manager
	searchURL string
	region    string

	state state
}

func NewEngine(sessions *browser.Manager, searchURL, region string) *Engine {
	return &Engine{
		log:       logger.New("Engine"),
		sessions:  sessions,
		searchURL: searchURL,
		region:    region,
	}
}

func (e *Engine) transition(to state) {
	e.log.Debug().Str("from", string(e.state)).Str("to", string(to)).Msg("state transition")
	e.state = to
}

func (e *Engine) fail(err error) error {
	e.transition(stateFailed)
	return err
}

// Extract drives the state machine through one run and returns the detail
// enriched (or summary-only) records. Launch, navigation and results-wait
// failures are fatal; everything downstream is best-effort.
func (e *Engine) Extract(ctx context.Context) ([]JobRecord, error) {
	pc, err := e.sessions.NewPage(false)
	if err != nil {
		return nil, e.fail(err)
	}
	defer pc.Close()

	page := pc.Page
	sim := humanize.NewSimulator(page)

	e.transition(stateNavigating)
	_, err = page.Goto(e.searchURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(navigationTimeoutMs),
	})
	if err != nil {
		return nil, e.fail(&NavigationTimeoutError{Stage: string(stateNavigating), Err: err})
	}

	e.transition(stateWaitingForResults)
	err = page.Locator(selResultCard).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(resultsWaitMs),
	})
	if err != nil {
		// Absence of the results container is a failure, not an empty
		// success: an empty page still renders the container.
		return nil, e.fail(&NavigationTimeoutError{Stage: string(stateWaitingForResults), Err: err})
	}

	e.applyRecencyFilter(page, sim)

	e.transition(stateIncrementalLoading)
	e.loadAllResults(page)

	e.transition(stateExtractingSummaries)
	records, err := e.extractSummaries(page)
	if err != nil {
		return nil, e.fail(err)
	}
	e.log.Info().Int("count", len(records)).Msg("summaries extracted")

	e.transition(stateExtractingDetails)
	e.enrichDetails(page, sim, records)

	e.transition(stateComplete)
	return records, nil
}

// applyRecencyFilter tries to narrow results to recent postings. Filtering is
// an optimization, not a correctness requirement: any failure logs and the
// run proceeds with unfiltered results.
func (e *Engine) applyRecencyFilter(page playwright.Page, sim *humanize.Simulator) {
	if err := sim.Click(page.Locator(selDateFilter).First()); err != nil {
		e.log.LogWarnf("date filter not available, continuing unfiltered: %v", err)
		return
	}
	time.Sleep(time.Second)

	options := page.Locator(selFilterOption)
	count, err := options.Count()
	if err != nil {
		e.log.LogWarnf("date filter options unavailable, continuing unfiltered: %v", err)
		return
	}
	for i := 0; i < count; i++ {
		text, err := options.Nth(i).TextContent()
		if err != nil {
			continue
		}
		if strings.Contains(text, "Past 24 hours") || strings.Contains(text, "Yesterday") {
			if err := sim.Click(options.Nth(i)); err != nil {
				e.log.LogWarnf("could not select recency option: %v", err)
				return
			}
			time.Sleep(2 * time.Second)
			e.log.Debug().Msg("recency filter applied")
			return
		}
	}
	e.log.LogWarnf("no recency option found, continuing unfiltered")
}

// shouldContinueScroll decides whether another scroll pass may load more
// content: the document must still be growing and the attempt cap not hit.
func shouldContinueScroll(prevHeight, curHeight float64, attempt int) bool {
	return attempt < maxScrollAttempts && curHeight > prevHeight
}

// loadAllResults scrolls to the bottom until the document height stops
// growing or the attempt cap is reached, whichever comes first.
func (e *Engine) loadAllResults(page playwright.Page) {
	prev := -1.0
	cur := e.documentHeight(page)
	attempt := 0
	for shouldContinueScroll(prev, cur, attempt) {
		prev = cur
		if _, err := page.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`); err != nil {
			e.log.LogWarnf("scroll failed, stopping incremental load: %v", err)
			return
		}
		time.Sleep(scrollSettle)
		cur = e.documentHeight(page)
		attempt++
	}
	e.log.Debug().Int("scrolls", attempt).Float64("height", cur).Msg("incremental loading finished")
}

func (e *Engine) documentHeight(page playwright.Page) float64 {
	res, err := page.Evaluate(`document.body.scrollHeight`)
	if err != nil {
		return 0
	}
	return toFloat(res)
}

// extractSummaries pulls title/company/location/snippet for every result
// card in one DOM pass. Cards missing title or company are skipped here.
func (e *Engine) extractSummaries(page playwright.Page) ([]JobRecord, error) {
	raw, err := page.Evaluate(`() => {
		const cards = Array.from(document.querySelectorAll('` + selResultCard + `'));
		return cards.map(card => {
			const pick = (sel) => {
				const n = card.querySelector(sel);
				return n ? n.textContent.trim() : '';
			};
			return {
				title: pick('` + selCardTitle + `'),
				company: pick('` + selCardCompany + `'),
				location: pick('` + selCardLocation + `'),
				snippet: pick('` + selCardSnippet + `'),
			};
		});
	}`)
	if err != nil {
		return nil, err
	}
	return summariesFromEval(raw, e.region, e.searchURL, time.Now()), nil
}

// summariesFromEval converts the evaluate result into records, applying the
// region default and dropping entries without title or company.
func summariesFromEval(raw interface{}, region, source string, now time.Time) []JobRecord {
	items, ok := raw.([]interface{})
	if !ok {
		return []JobRecord{}
	}
	records := make([]JobRecord, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		r := JobRecord{
			Title:       toString(m["title"]),
			Company:     toString(m["company"]),
			Location:    toString(m["location"]),
			Description: toString(m["snippet"]),
			Salary:      SalaryNotSpecified,
			SourceURL:   source,
			ScrapedAt:   now,
		}
		if !r.Valid() {
			continue
		}
		if r.Location == "" {
			r.Location = region
		}
		records = append(records, r)
	}
	return records
}

// detailBudget bounds how many results get detail enrichment in one run.
func detailBudget(n int) int {
	if n > detailLimit {
		return detailLimit
	}
	return n
}

// enrichDetails opens the detail pane for a bounded prefix of the results.
// Cards are re-queried by index on every pass; handles are never cached
// across a navigation boundary. Per-item failures keep the summary record.
func (e *Engine) enrichDetails(page playwright.Page, sim *humanize.Simulator, records []JobRecord) {
	n := detailBudget(len(records))
	for i := 0; i < n; i++ {
		card := page.Locator(selResultCard).Nth(i)
		if err := sim.Click(card); err != nil {
			e.log.Debug().Int("index", i).Err(err).Msg("detail click failed, keeping summary")
			continue
		}
		time.Sleep(detailSettle)
		_ = sim.Jiggle()

		if err := e.extractDetail(page, &records[i]); err != nil {
			e.log.Debug().Int("index", i).Err(err).Msg("detail extraction failed, keeping summary")
		}
	}
}

func (e *Engine) extractDetail(page playwright.Page, record *JobRecord) error {
	raw, err := page.Evaluate(`() => {
		const apply = document.querySelector('` + selApplyLink + `');
		const desc = document.querySelector('` + selFullDescription + `');
		const jobType = document.querySelector('` + selJobType + `');
		return {
			applyUrl: apply ? apply.href : '',
			descriptionHtml: desc ? desc.innerHTML : '',
			jobType: jobType ? jobType.textContent.trim() : '',
		};
	}`)
	if err != nil {
		return err
	}
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil
	}

	if u := toString(m["applyUrl"]); u != "" {
		record.ApplyURL = u
	}
	if t := toString(m["jobType"]); t != "" {
		record.JobType = t
	}
	if h := toString(m["descriptionHtml"]); h != "" {
		desc := markdown.ConvertDescription(h)
		if desc != "" {
			record.Description = truncate(desc, maxDescriptionLen)
			record.Contact = ScanContacts(desc)
		}
	}
	return nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func toString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}
