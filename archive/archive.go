package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rawprouk/scrape/casestudy"
)

// ErrRunNotFound is returned when no rows exist for a run ID.
var ErrRunNotFound = errors.New("run not found")

// Archive keeps completed scrape runs in a SQLite database so a result set
// can be exported again or queried with SQL after the fact.
type Archive struct {
	db *sql.DB
}

// Run is one archived scrape run.
type Run struct {
	RunID     uuid.UUID
	ScrapedAt time.Time
	Studies   []casestudy.CaseStudy
}

// Open opens (creating if needed) the archive database at dbPath.
func Open(dbPath string) (*Archive, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	a := &Archive{db: db}
	if err := a.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return a, nil
}

// initSchema creates the case_studies table if it doesn't exist.
func (a *Archive) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS case_studies (
		run_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		title TEXT,
		summary TEXT,
		url TEXT,
		full_text TEXT NOT NULL,
		scraped_at TEXT NOT NULL,
		PRIMARY KEY (run_id, position)
	);
	`

	_, err := a.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

// SaveRun stores the studies of one run in a single transaction, keeping
// their order in the position column.
func (a *Archive) SaveRun(ctx context.Context, runID uuid.UUID, scrapedAt time.Time, studies []casestudy.CaseStudy) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO case_studies (
			run_id, position, title, summary, url, full_text, scraped_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, study := range studies {
		_, err := stmt.ExecContext(ctx,
			runID.String(),
			i,
			study.Title,
			study.Summary,
			study.URL,
			study.FullText,
			formatTime(scrapedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert case study %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// LoadRun returns the studies of a run in the order they were scraped.
func (a *Archive) LoadRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT title, summary, url, full_text, scraped_at
		FROM case_studies
		WHERE run_id = ?
		ORDER BY position
	`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	defer rows.Close()

	run := &Run{RunID: runID, Studies: []casestudy.CaseStudy{}}
	for rows.Next() {
		var title, summary, url sql.NullString
		var fullText, scrapedAt string

		if err := rows.Scan(&title, &summary, &url, &fullText, &scrapedAt); err != nil {
			return nil, fmt.Errorf("failed to scan case study: %w", err)
		}

		run.ScrapedAt = parseTime(scrapedAt)
		run.Studies = append(run.Studies, casestudy.New(
			nullString(title),
			nullString(summary),
			nullString(url),
			fullText,
		))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read case studies: %w", err)
	}

	if len(run.Studies) == 0 {
		return nil, ErrRunNotFound
	}
	return run, nil
}

func formatTime(t time.Time) string {
	// Strip monotonic clock for consistent storage and comparisons
	return t.Truncate(0).UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
