package harvest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShouldContinueScroll(t *testing.T) {
	// Growing document, under the cap: keep going.
	assert.True(t, shouldContinueScroll(1000, 1500, 3))
	// Height stopped growing: stop.
	assert.False(t, shouldContinueScroll(1500, 1500, 3))
	assert.False(t, shouldContinueScroll(1500, 1400, 3))
	// Cap reached: stop even while growing.
	assert.False(t, shouldContinueScroll(1000, 1500, maxScrollAttempts))
}

func TestScrollLoopTerminatesWhenHeightStops(t *testing.T) {
	// Simulate the loop shape used by loadAllResults against a page whose
	// height stops growing after 4 scrolls.
	heights := []float64{100, 200, 300, 400, 400, 400}
	idx := 0
	height := func() float64 {
		if idx < len(heights)-1 {
			idx++
		}
		return heights[idx]
	}

	prev := -1.0
	cur := heights[0]
	attempt := 0
	for shouldContinueScroll(prev, cur, attempt) {
		prev = cur
		cur = height()
		attempt++
	}

	// Height grows on 3 scrolls, so the loop does exactly one extra pass to
	// observe the plateau and exits: N+1 iterations.
	assert.Equal(t, 4, attempt)
}

func TestDetailBudget(t *testing.T) {
	assert.Equal(t, 0, detailBudget(0))
	assert.Equal(t, 7, detailBudget(7))
	assert.Equal(t, detailLimit, detailBudget(detailLimit))
	assert.Equal(t, detailLimit, detailBudget(120))
}

func TestSummariesFromEval(t *testing.T) {
	now := time.Now()
	raw := []interface{}{
		map[string]interface{}{"title": "Welder", "company": "ABC Co", "location": "Cape Town", "snippet": "mig welding"},
		map[string]interface{}{"title": "", "company": "Ghost Inc", "location": "", "snippet": ""},
		map[string]interface{}{"title": "Driver", "company": "", "location": "", "snippet": ""},
		map[string]interface{}{"title": "Cleaner", "company": "XYZ Ltd", "location": "", "snippet": ""},
	}

	records := summariesFromEval(raw, "South Africa", "https://example.com/search", now)

	assert.Len(t, records, 2, "entries missing title or company are skipped")
	assert.Equal(t, "Welder", records[0].Title)
	assert.Equal(t, "Cape Town", records[0].Location)
	assert.Equal(t, "mig welding", records[0].Description)
	assert.Equal(t, SalaryNotSpecified, records[0].Salary)
	// Missing location falls back to the configured region label.
	assert.Equal(t, "South Africa", records[1].Location)
	assert.Equal(t, now, records[1].ScrapedAt)
}

func TestSummariesFromEvalEmptyPage(t *testing.T) {
	records := summariesFromEval([]interface{}{}, "South Africa", "https://example.com", time.Now())
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestSummariesFromEvalMalformed(t *testing.T) {
	assert.Empty(t, summariesFromEval("garbage", "ZA", "u", time.Now()))
	assert.Empty(t, summariesFromEval(nil, "ZA", "u", time.Now()))
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", maxDescriptionLen+500)
	assert.Len(t, truncate(long, maxDescriptionLen), maxDescriptionLen)
	assert.Equal(t, "short", truncate("short", maxDescriptionLen))
	// Rune-safe: multi-byte characters are not split.
	assert.Equal(t, "héllo", truncate("héllo", 5))
}

func TestStateCapsMatchRunBudget(t *testing.T) {
	// The 120-results scenario: 50 receive enrichment, the rest stay
	// summary-only, all 120 remain persistence candidates.
	records := make([]JobRecord, 120)
	for i := range records {
		records[i] = JobRecord{Title: "T", Company: "C"}
	}
	assert.Equal(t, 50, detailBudget(len(records)))
	assert.Len(t, records, 120)
}
