package harvest

import (
	"strings"
	"time"
)

// SalaryNotSpecified is the placeholder stored when a listing carries no
// salary information.
const SalaryNotSpecified = "not specified"

// ContactInfo holds the signals scanned out of a listing's free text.
type ContactInfo struct {
	Emails   []string `json:"emails,omitempty"`
	Phones   []string `json:"phones,omitempty"`
	Websites []string `json:"websites,omitempty"`
}

// JobRecord is the canonical extracted unit. Title and company are required;
// a record missing either is discarded before persistence.
type JobRecord struct {
	Title       string      `json:"title"`
	Company     string      `json:"company"`
	Location    string      `json:"location"`
	Description string      `json:"description,omitempty"`
	Salary      string      `json:"salary"`
	JobType     string      `json:"job_type,omitempty"`
	ApplyURL    string      `json:"apply_url,omitempty"`
	SourceURL   string      `json:"source_url"`
	Contact     ContactInfo `json:"contact_info"`
	ScrapedAt   time.Time   `json:"date_scraped"`
}

// Valid reports whether the record may be persisted.
func (r JobRecord) Valid() bool {
	return strings.TrimSpace(r.Title) != "" && strings.TrimSpace(r.Company) != ""
}

// Key is the uniqueness key records are deduplicated and upserted on.
func (r JobRecord) Key() string {
	return r.Title + "\x00" + r.Company
}

// Deduplicate collapses records sharing a (title, company) key, keeping the
// most recently produced instance. First-seen order is preserved.
func Deduplicate(records []JobRecord) []JobRecord {
	index := make(map[string]int, len(records))
	out := make([]JobRecord, 0, len(records))
	for _, r := range records {
		if i, seen := index[r.Key()]; seen {
			out[i] = r
			continue
		}
		index[r.Key()] = len(out)
		out = append(out, r)
	}
	return out
}

// Status of a harvest run. Pending and processing are tracker states; the
// other three are terminal.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSucceeded  Status = "succeeded"
	StatusPartial    Status = "succeeded_partial"
	StatusFailed     Status = "failed"
)

// HarvestRun is one execution of the full pipeline. A failed run is never
// retried mid-run; the next scheduled trigger is the recovery mechanism.
type HarvestRun struct {
	ID         string      `json:"run_id"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at,omitempty"`
	Status     Status      `json:"status"`
	Source     string      `json:"source,omitempty"` // "engine" or "fallback"
	Extracted  int         `json:"extracted"`
	Persisted  int         `json:"persisted"`
	Error      string      `json:"error,omitempty"`
	Records    []JobRecord `json:"-"`
}

// TaskPayload is the body of a queued harvest task.
type TaskPayload struct {
	RunID string `json:"run_id"`
}
