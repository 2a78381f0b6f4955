// Package store persists job records in Postgres through a conflict-aware
// upsert keyed on (title, company).
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"jobharvest/internal/harvest"
	"jobharvest/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

const upsertSQL = `
INSERT INTO jobs (title, company, location, description, salary, job_type, apply_url, source_url, contact_info, date_scraped)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, $10)
ON CONFLICT (title, company) DO UPDATE SET
	location     = EXCLUDED.location,
	description  = EXCLUDED.description,
	salary       = EXCLUDED.salary,
	job_type     = EXCLUDED.job_type,
	apply_url    = EXCLUDED.apply_url,
	source_url   = EXCLUDED.source_url,
	contact_info = EXCLUDED.contact_info,
	date_scraped = EXCLUDED.date_scraped`

type Postgres struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgx ping: %w", err)
	}
	return &Postgres{pool: pool, log: logger.New("Store")}, nil
}

func (s *Postgres) Close() { s.pool.Close() }

func (s *Postgres) HealthCheck(ctx context.Context) error { return s.pool.Ping(ctx) }

// UpsertJobs writes records one at a time; a later harvest replaces the row
// under the same key. Returns the number of rows written.
func (s *Postgres) UpsertJobs(ctx context.Context, records []harvest.JobRecord) (int, error) {
	written := 0
	for _, r := range records {
		contact, err := json.Marshal(r.Contact)
		if err != nil {
			return written, fmt.Errorf("marshal contact info: %w", err)
		}
		tag, err := s.pool.Exec(ctx, upsertSQL,
			r.Title, r.Company, r.Location, r.Description, r.Salary,
			r.JobType, r.ApplyURL, r.SourceURL, string(contact), r.ScrapedAt,
		)
		if err != nil {
			return written, fmt.Errorf("upsert %q/%q: %w", r.Title, r.Company, err)
		}
		written += int(tag.RowsAffected())
	}
	s.log.Info().Int("written", written).Int("records", len(records)).Msg("jobs upserted")
	return written, nil
}
