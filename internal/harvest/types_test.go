package harvest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJobRecordValid(t *testing.T) {
	cases := []struct {
		name    string
		title   string
		company string
		want    bool
	}{
		{"both present", "Welder", "ABC Co", true},
		{"missing title", "", "ABC Co", false},
		{"missing company", "Welder", "", false},
		{"whitespace only title", "   ", "ABC Co", false},
		{"both missing", "", "", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := JobRecord{Title: c.title, Company: c.company}
			assert.Equal(t, c.want, r.Valid())
		})
	}
}

func TestDeduplicateKeepsLatest(t *testing.T) {
	earlier := time.Now().Add(-time.Hour)
	later := time.Now()

	records := []JobRecord{
		{Title: "Welder", Company: "ABC Co", Description: "old text", ScrapedAt: earlier},
		{Title: "Driver", Company: "XYZ Ltd", ScrapedAt: earlier},
		{Title: "Welder", Company: "ABC Co", Description: "new text", ScrapedAt: later},
	}

	out := Deduplicate(records)

	assert.Len(t, out, 2)
	// First-seen order preserved, latest instance retained.
	assert.Equal(t, "Welder", out[0].Title)
	assert.Equal(t, "new text", out[0].Description)
	assert.Equal(t, "Driver", out[1].Title)
}

func TestDeduplicateDistinguishesCompanies(t *testing.T) {
	records := []JobRecord{
		{Title: "Welder", Company: "ABC Co"},
		{Title: "Welder", Company: "DEF Co"},
	}
	assert.Len(t, Deduplicate(records), 2)
}

func TestDeduplicateEmpty(t *testing.T) {
	assert.Empty(t, Deduplicate(nil))
}
