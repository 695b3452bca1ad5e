// Package store – db.go provides the central SQLite database for the
// magazine engine. A single amp.db file holds issues, sections, drafts,
// research content, the agent task queue, sponsors, guests, submissions,
// and delivery snapshots. The store is the only component that touches
// persistence; everything else re-fetches rows by ID through it.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver.
)

// Sentinel errors surfaced by repository methods.
var (
	// ErrNotFound is returned when a row lookup matches nothing.
	ErrNotFound = errors.New("not found")
	// ErrTaskInFlight is returned when creating a task that collides with an
	// assigned/working task for the same (agent, issue, section).
	ErrTaskInFlight = errors.New("task already in flight for agent/issue/section")
)

// schema is the DDL executed on every startup (idempotent via IF NOT EXISTS).
const schema = `
-- Newsletter issues
CREATE TABLE IF NOT EXISTS issues (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    issue_number   INTEGER NOT NULL UNIQUE,
    title          TEXT DEFAULT '',
    status         TEXT NOT NULL DEFAULT 'planning',
    publish_date   TEXT DEFAULT '',
    week_id        TEXT DEFAULT '',
    send_day       TEXT DEFAULT '',
    issue_template TEXT DEFAULT '',
    created_at     TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at     TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Section definitions (core always runs, rotating is selected per issue,
-- suggested is inactive until accepted)
CREATE TABLE IF NOT EXISTS section_definitions (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    slug              TEXT NOT NULL UNIQUE,
    display_name      TEXT NOT NULL,
    sort_order        INTEGER NOT NULL DEFAULT 99,
    section_type      TEXT NOT NULL DEFAULT 'core',
    is_active         INTEGER NOT NULL DEFAULT 1,
    category          TEXT DEFAULT '',
    word_count_label  TEXT DEFAULT 'medium',
    target_word_count INTEGER DEFAULT 300,
    series_type       TEXT DEFAULT 'ongoing',
    series_length     INTEGER DEFAULT 0,
    series_current    INTEGER DEFAULT 0,
    description       TEXT DEFAULT '',
    suggested_reason  TEXT DEFAULT '',
    suggested_at      TEXT DEFAULT '',
    created_at        TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Rotation decisions, one row per (issue, rotating section). Append-only
-- history read back to weight future selections.
CREATE TABLE IF NOT EXISTS section_rotation_log (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    issue_id     INTEGER NOT NULL,
    section_slug TEXT NOT NULL,
    was_included INTEGER NOT NULL DEFAULT 1,
    created_at   TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_rotation_issue ON section_rotation_log(issue_id);

-- Content sources (RSS feeds and scrape targets)
CREATE TABLE IF NOT EXISTS sources (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    name            TEXT NOT NULL,
    source_type     TEXT NOT NULL,
    url             TEXT NOT NULL,
    target_sections TEXT DEFAULT '',
    is_active       INTEGER NOT NULL DEFAULT 1,
    last_fetched    TEXT DEFAULT ''
);

-- Discovered content candidates
CREATE TABLE IF NOT EXISTS raw_content (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    source_id        INTEGER,
    title            TEXT DEFAULT '',
    url              TEXT DEFAULT '',
    author           TEXT DEFAULT '',
    summary          TEXT DEFAULT '',
    full_text        TEXT DEFAULT '',
    published_at     TEXT DEFAULT '',
    fetched_at       TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    relevance_score  REAL NOT NULL DEFAULT 0,
    matched_sections TEXT DEFAULT '',
    is_used          INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_raw_content_url ON raw_content(url);
CREATE INDEX IF NOT EXISTS idx_raw_content_used ON raw_content(is_used);

-- Editorial inputs (topic/notes per issue and section, consumed by prompts)
CREATE TABLE IF NOT EXISTS editorial_inputs (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    issue_id       INTEGER NOT NULL,
    section_slug   TEXT NOT NULL,
    topic          TEXT DEFAULT '',
    notes          TEXT DEFAULT '',
    reference_urls TEXT DEFAULT '',
    created_at     TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Versioned drafts. The current draft for (issue, section) is always the
-- max version; older versions are kept for history.
CREATE TABLE IF NOT EXISTS drafts (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    issue_id       INTEGER NOT NULL,
    section_slug   TEXT NOT NULL,
    version        INTEGER NOT NULL DEFAULT 1,
    content        TEXT DEFAULT '',
    ai_model       TEXT DEFAULT '',
    prompt_used    TEXT DEFAULT '',
    status         TEXT NOT NULL DEFAULT 'pending',
    reviewer_notes TEXT DEFAULT '',
    created_at     TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(issue_id, section_slug, version)
);
CREATE INDEX IF NOT EXISTS idx_drafts_issue ON drafts(issue_id);

-- Rendered issue snapshots
CREATE TABLE IF NOT EXISTS assembled_issues (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    issue_id        INTEGER NOT NULL,
    html_content    TEXT DEFAULT '',
    plain_text      TEXT DEFAULT '',
    beehiiv_post_id TEXT DEFAULT '',
    assembled_at    TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    published_at    TEXT DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_assembled_issue ON assembled_issues(issue_id);

-- Subscribers (synced from the delivery platform)
CREATE TABLE IF NOT EXISTS subscribers (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    email         TEXT NOT NULL UNIQUE,
    beehiiv_id    TEXT DEFAULT '',
    status        TEXT NOT NULL DEFAULT 'active',
    subscribed_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    synced_at     TEXT DEFAULT ''
);

-- Per-issue engagement pulled from the delivery platform
CREATE TABLE IF NOT EXISTS engagement_metrics (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    issue_id        INTEGER NOT NULL,
    beehiiv_post_id TEXT DEFAULT '',
    sends           INTEGER DEFAULT 0,
    opens           INTEGER DEFAULT 0,
    clicks          INTEGER DEFAULT 0,
    open_rate       REAL DEFAULT 0,
    click_rate      REAL DEFAULT 0,
    fetched_at      TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Daily growth metric rollups
CREATE TABLE IF NOT EXISTS growth_metrics (
    id                  INTEGER PRIMARY KEY AUTOINCREMENT,
    metric_date         TEXT NOT NULL,
    total_subscribers   INTEGER DEFAULT 0,
    new_subscribers     INTEGER DEFAULT 0,
    churned_subscribers INTEGER DEFAULT 0,
    open_rate_avg       REAL DEFAULT 0,
    click_rate_avg      REAL DEFAULT 0,
    referral_count      INTEGER DEFAULT 0,
    social_impressions  INTEGER DEFAULT 0,
    created_at          TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Send schedule (per-day section plans for multi-frequency publishing)
CREATE TABLE IF NOT EXISTS send_schedule (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    day_of_week   TEXT NOT NULL UNIQUE,
    label         TEXT DEFAULT '',
    section_slugs TEXT DEFAULT '',
    is_active     INTEGER NOT NULL DEFAULT 1,
    created_at    TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Sponsor ad blocks placed in an issue
CREATE TABLE IF NOT EXISTS sponsor_blocks (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    issue_id     INTEGER NOT NULL,
    position     TEXT NOT NULL DEFAULT 'mid',
    sponsor_name TEXT DEFAULT '',
    headline     TEXT DEFAULT '',
    body_html    TEXT DEFAULT '',
    cta_url      TEXT DEFAULT '',
    cta_text     TEXT DEFAULT 'Learn More',
    image_url    TEXT DEFAULT '',
    is_active    INTEGER NOT NULL DEFAULT 1,
    created_at   TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_sponsor_blocks_issue ON sponsor_blocks(issue_id);

-- Sponsor CRM
CREATE TABLE IF NOT EXISTS sponsors (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    name          TEXT NOT NULL,
    contact_name  TEXT DEFAULT '',
    contact_email TEXT DEFAULT '',
    website       TEXT DEFAULT '',
    notes         TEXT DEFAULT '',
    is_active     INTEGER NOT NULL DEFAULT 1,
    created_at    TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sponsor_bookings (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    sponsor_id INTEGER NOT NULL,
    issue_id   INTEGER,
    position   TEXT NOT NULL DEFAULT 'mid',
    status     TEXT NOT NULL DEFAULT 'inquiry',
    rate_cents INTEGER DEFAULT 0,
    notes      TEXT DEFAULT '',
    booked_at  TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (sponsor_id) REFERENCES sponsors(id)
);

-- AI staff
CREATE TABLE IF NOT EXISTS ai_agents (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    agent_type     TEXT NOT NULL,
    name           TEXT NOT NULL,
    persona        TEXT DEFAULT '',
    system_prompt  TEXT DEFAULT '',
    autonomy_level TEXT NOT NULL DEFAULT 'manual',
    config_json    TEXT DEFAULT '{}',
    is_active      INTEGER NOT NULL DEFAULT 1,
    created_at     TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_agents_type ON ai_agents(agent_type);

CREATE TABLE IF NOT EXISTS agent_tasks (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    agent_id       INTEGER NOT NULL,
    task_type      TEXT NOT NULL,
    state          TEXT NOT NULL DEFAULT 'assigned',
    priority       INTEGER NOT NULL DEFAULT 5,
    input_json     TEXT DEFAULT '{}',
    output_json    TEXT DEFAULT '{}',
    issue_id       INTEGER,
    section_slug   TEXT DEFAULT '',
    human_override INTEGER NOT NULL DEFAULT 0,
    human_notes    TEXT DEFAULT '',
    created_at     TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at     TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (agent_id) REFERENCES ai_agents(id)
);
CREATE INDEX IF NOT EXISTS idx_tasks_agent ON agent_tasks(agent_id);
CREATE INDEX IF NOT EXISTS idx_tasks_state ON agent_tasks(state);
-- At most one in-flight task per (agent, issue, section). Guards against
-- overlapping callers assigning the same section twice.
CREATE UNIQUE INDEX IF NOT EXISTS idx_tasks_inflight
    ON agent_tasks(agent_id, issue_id, section_slug)
    WHERE state IN ('assigned', 'working') AND section_slug != '';

-- Append-only audit trail of agent output
CREATE TABLE IF NOT EXISTS agent_output_log (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    task_id       INTEGER NOT NULL,
    agent_id      INTEGER NOT NULL,
    output_type   TEXT DEFAULT '',
    content       TEXT DEFAULT '',
    metadata_json TEXT DEFAULT '{}',
    tokens_used   INTEGER DEFAULT 0,
    created_at    TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_output_task ON agent_output_log(task_id);

-- Guest contributors
CREATE TABLE IF NOT EXISTS guest_contacts (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    name         TEXT NOT NULL,
    email        TEXT DEFAULT '',
    organization TEXT DEFAULT '',
    role         TEXT DEFAULT '',
    website      TEXT DEFAULT '',
    notes        TEXT DEFAULT '',
    created_at   TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS guest_articles (
    id                  INTEGER PRIMARY KEY AUTOINCREMENT,
    contact_id          INTEGER,
    title               TEXT DEFAULT '',
    author_name         TEXT DEFAULT '',
    author_bio          TEXT DEFAULT '',
    original_url        TEXT DEFAULT '',
    content_full        TEXT DEFAULT '',
    content_summary     TEXT DEFAULT '',
    display_mode        TEXT NOT NULL DEFAULT 'full',
    permission_state    TEXT NOT NULL DEFAULT 'requested',
    target_issue_id     INTEGER,
    target_section_slug TEXT DEFAULT '',
    draft_id            INTEGER,
    created_at          TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at          TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_guest_articles_draft ON guest_articles(draft_id);

-- Artist submissions (web form, email, API intake)
CREATE TABLE IF NOT EXISTS artist_submissions (
    id                  INTEGER PRIMARY KEY AUTOINCREMENT,
    reference           TEXT NOT NULL UNIQUE,
    artist_name         TEXT DEFAULT '',
    artist_email        TEXT DEFAULT '',
    artist_website      TEXT DEFAULT '',
    artist_social       TEXT DEFAULT '',
    submission_type     TEXT NOT NULL DEFAULT 'new_release',
    intake_method       TEXT NOT NULL DEFAULT 'web_form',
    title               TEXT DEFAULT '',
    description         TEXT DEFAULT '',
    release_date        TEXT DEFAULT '',
    genre               TEXT DEFAULT '',
    links_json          TEXT DEFAULT '[]',
    attachments_json    TEXT DEFAULT '[]',
    review_state        TEXT NOT NULL DEFAULT 'submitted',
    target_issue_id     INTEGER,
    target_section_slug TEXT DEFAULT '',
    draft_id            INTEGER,
    api_source          TEXT DEFAULT '',
    created_at          TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at          TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_submissions_draft ON artist_submissions(draft_id);
CREATE INDEX IF NOT EXISTS idx_submissions_state ON artist_submissions(review_state);

-- Social posts created by the growth agent
CREATE TABLE IF NOT EXISTS social_posts (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    platform      TEXT NOT NULL,
    content       TEXT DEFAULT '',
    issue_id      INTEGER,
    status        TEXT NOT NULL DEFAULT 'draft',
    scheduled_at  TEXT DEFAULT '',
    posted_at     TEXT DEFAULT '',
    agent_task_id INTEGER,
    created_at    TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Editorial calendar entries written by the planning step
CREATE TABLE IF NOT EXISTS editorial_calendar (
    id                  INTEGER PRIMARY KEY AUTOINCREMENT,
    issue_id            INTEGER,
    planned_date        TEXT DEFAULT '',
    theme               TEXT DEFAULT '',
    notes               TEXT DEFAULT '',
    section_assignments TEXT DEFAULT '{}',
    agent_assignments   TEXT DEFAULT '{}',
    status              TEXT NOT NULL DEFAULT 'draft',
    created_at          TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at          TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Store is the central data-access layer. All persistence flows through it;
// callers never share row pointers across operations.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path, enables WAL mode and foreign
// keys, and applies the schema.
func Open(path string) (*Store, error) {
	if path == "" {
		path = filepath.Join("data", "amp.db")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenMemory opens an in-memory database with the schema applied. Test use.
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// columnRe restricts partial-update field names to plain identifiers.
var columnRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// update applies a partial field map as a single UPDATE statement. Field
// names must be plain column identifiers; values are bound as parameters.
func (s *Store) update(table string, id int64, fields map[string]any, touch bool) error {
	if len(fields) == 0 {
		return nil
	}
	sets := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+1)
	for col, val := range fields {
		if !columnRe.MatchString(col) {
			return fmt.Errorf("invalid column name %q", col)
		}
		sets = append(sets, col+" = ?")
		args = append(args, val)
	}
	if touch {
		sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(sets, ", "))
	_, err := s.db.Exec(query, args...)
	return err
}

// insertID runs an INSERT and returns the new rowid.
func (s *Store) insertID(query string, args ...any) (int64, error) {
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
