package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// defaultSections is the editorial lineup seeded into a fresh database.
// slug, display name, sort order, type, word-count label, target words,
// category, series type, series length, description.
var defaultSections = []SectionDef{
	// Music Industry (sort 10-19)
	{Slug: "backstage_pass", DisplayName: "BACKSTAGE PASS", SortOrder: 10, SectionType: SectionCore, WordCountLabel: "long", TargetWordCount: 700, Category: "music_industry", SeriesType: "ongoing", Description: "Deep-dive narratives about iconic artist journeys"},
	{Slug: "industry_pulse", DisplayName: "INDUSTRY PULSE", SortOrder: 11, SectionType: SectionRotating, WordCountLabel: "medium", TargetWordCount: 400, Category: "music_industry", SeriesType: "ongoing", Description: "Latest music industry news and trends"},
	{Slug: "deal_or_no_deal", DisplayName: "DEAL OR NO DEAL", SortOrder: 12, SectionType: SectionRotating, WordCountLabel: "medium", TargetWordCount: 400, Category: "music_industry", SeriesType: "medium", SeriesLength: 6, Description: "Record deal analysis and negotiation insights"},
	{Slug: "streaming_dashboard", DisplayName: "STREAMING DASHBOARD", SortOrder: 13, SectionType: SectionRotating, WordCountLabel: "short", TargetWordCount: 150, Category: "music_industry", SeriesType: "ongoing", Description: "Streaming platform stats and insights"},
	// Artist Development (sort 20-29)
	{Slug: "coaching", DisplayName: "COACHING", SortOrder: 20, SectionType: SectionCore, WordCountLabel: "medium", TargetWordCount: 400, Category: "artist_development", SeriesType: "ongoing", Description: "Inspiration and actionable advice for artists"},
	{Slug: "greatest_songwriters", DisplayName: "100 GREATEST SINGER SONGWRITERS", SortOrder: 21, SectionType: SectionCore, WordCountLabel: "medium", TargetWordCount: 400, Category: "artist_development", SeriesType: "ongoing", Description: "Profiles of legendary singer-songwriters"},
	{Slug: "stage_ready", DisplayName: "STAGE READY", SortOrder: 22, SectionType: SectionRotating, WordCountLabel: "medium", TargetWordCount: 400, Category: "artist_development", SeriesType: "medium", SeriesLength: 6, Description: "Live performance tips and stage presence"},
	{Slug: "songcraft", DisplayName: "SONGCRAFT", SortOrder: 23, SectionType: SectionRotating, WordCountLabel: "medium", TargetWordCount: 400, Category: "artist_development", SeriesType: "ongoing", Description: "Songwriting techniques and creative process"},
	{Slug: "vocal_booth", DisplayName: "VOCAL BOOTH", SortOrder: 24, SectionType: SectionRotating, WordCountLabel: "medium", TargetWordCount: 300, Category: "artist_development", SeriesType: "short", SeriesLength: 3, Description: "Vocal training and singing technique tips"},
	{Slug: "artist_spotlight", DisplayName: "ARTIST SPOTLIGHT", SortOrder: 25, SectionType: SectionRotating, WordCountLabel: "long", TargetWordCount: 700, Category: "artist_development", SeriesType: "ongoing", Description: "Featured independent artist profiles"},
	// Technology (sort 30-39)
	{Slug: "tech_talk", DisplayName: "TECH TALK", SortOrder: 30, SectionType: SectionCore, WordCountLabel: "medium", TargetWordCount: 300, Category: "technology", SeriesType: "ongoing", Description: "Music tech tools and digital strategies"},
	{Slug: "ai_music_lab", DisplayName: "AI & MUSIC LAB", SortOrder: 31, SectionType: SectionRotating, WordCountLabel: "medium", TargetWordCount: 400, Category: "technology", SeriesType: "ongoing", Description: "AI applications in music creation and business"},
	{Slug: "gear_garage", DisplayName: "GEAR GARAGE", SortOrder: 32, SectionType: SectionRotating, WordCountLabel: "medium", TargetWordCount: 300, Category: "technology", SeriesType: "short", SeriesLength: 3, Description: "Instrument and gear reviews for indie artists"},
	{Slug: "social_playbook", DisplayName: "SOCIAL PLAYBOOK", SortOrder: 33, SectionType: SectionRotating, WordCountLabel: "medium", TargetWordCount: 400, Category: "technology", SeriesType: "medium", SeriesLength: 6, Description: "Social media strategy for musicians"},
	{Slug: "production_notes", DisplayName: "PRODUCTION NOTES", SortOrder: 34, SectionType: SectionRotating, WordCountLabel: "medium", TargetWordCount: 400, Category: "technology", SeriesType: "ongoing", Description: "Recording and production techniques"},
	// Business (sort 40-49)
	{Slug: "recommends", DisplayName: "RECOMMENDS", SortOrder: 40, SectionType: SectionCore, WordCountLabel: "short", TargetWordCount: 150, Category: "business", SeriesType: "ongoing", Description: "Curated tools, books, and resources"},
	{Slug: "money_moves", DisplayName: "MONEY MOVES", SortOrder: 41, SectionType: SectionRotating, WordCountLabel: "medium", TargetWordCount: 400, Category: "business", SeriesType: "ongoing", Description: "Revenue strategies and financial literacy for artists"},
	{Slug: "brand_building", DisplayName: "BRAND BUILDING", SortOrder: 42, SectionType: SectionRotating, WordCountLabel: "medium", TargetWordCount: 400, Category: "business", SeriesType: "medium", SeriesLength: 6, Description: "Artist branding and identity development"},
	{Slug: "rights_and_royalties", DisplayName: "RIGHTS & ROYALTIES", SortOrder: 43, SectionType: SectionRotating, WordCountLabel: "medium", TargetWordCount: 400, Category: "business", SeriesType: "short", SeriesLength: 3, Description: "Music rights, licensing, and royalty education"},
	{Slug: "diy_marketing", DisplayName: "DIY MARKETING", SortOrder: 44, SectionType: SectionRotating, WordCountLabel: "medium", TargetWordCount: 400, Category: "business", SeriesType: "ongoing", Description: "Marketing tactics for independent artists"},
	// Inspiration (sort 50-59)
	{Slug: "mondegreen", DisplayName: "MONDEGREEN", SortOrder: 50, SectionType: SectionCore, WordCountLabel: "medium", TargetWordCount: 300, Category: "inspiration", SeriesType: "ongoing", Description: "Misheard lyrics and song meaning deep-dives"},
	{Slug: "ps_from_ps", DisplayName: "PS FROM PS", SortOrder: 51, SectionType: SectionCore, WordCountLabel: "short", TargetWordCount: 125, Category: "inspiration", SeriesType: "ongoing", Description: "Personal sign-off and reflection"},
	{Slug: "creative_fuel", DisplayName: "CREATIVE FUEL", SortOrder: 52, SectionType: SectionRotating, WordCountLabel: "short", TargetWordCount: 150, Category: "inspiration", SeriesType: "ongoing", Description: "Quick creative prompts and inspiration"},
	{Slug: "vinyl_vault", DisplayName: "VINYL VAULT", SortOrder: 53, SectionType: SectionRotating, WordCountLabel: "medium", TargetWordCount: 400, Category: "inspiration", SeriesType: "ongoing", Description: "Classic album retrospectives and hidden gems"},
	{Slug: "the_muse", DisplayName: "THE MUSE", SortOrder: 54, SectionType: SectionRotating, WordCountLabel: "medium", TargetWordCount: 400, Category: "inspiration", SeriesType: "short", SeriesLength: 3, Description: "Stories of creative breakthroughs and inspiration"},
	{Slug: "lyrics_unpacked", DisplayName: "LYRICS UNPACKED", SortOrder: 55, SectionType: SectionRotating, WordCountLabel: "medium", TargetWordCount: 400, Category: "inspiration", SeriesType: "ongoing", Description: "Deep lyric analysis and interpretation"},
	// Community (sort 60-69)
	{Slug: "fan_mail", DisplayName: "FAN MAIL", SortOrder: 60, SectionType: SectionRotating, WordCountLabel: "short", TargetWordCount: 200, Category: "community", SeriesType: "ongoing", Description: "Reader letters, questions, and shout-outs"},
	{Slug: "truefans_connect", DisplayName: "TRUEFANS CONNECT", SortOrder: 61, SectionType: SectionRotating, WordCountLabel: "medium", TargetWordCount: 400, Category: "community", SeriesType: "ongoing", Description: "Community highlights and TrueFans platform news"},
	{Slug: "community_wins", DisplayName: "COMMUNITY WINS", SortOrder: 62, SectionType: SectionRotating, WordCountLabel: "short", TargetWordCount: 200, Category: "community", SeriesType: "ongoing", Description: "Celebrating reader and community achievements"},
	// Guest Content (sort 70-79)
	{Slug: "guest_column", DisplayName: "GUEST COLUMN", SortOrder: 70, SectionType: SectionRotating, WordCountLabel: "long", TargetWordCount: 800, Category: "guest_content", SeriesType: "ongoing", Description: "Guest articles from industry experts"},
}

// SeedSections inserts the default section lineup, skipping slugs that
// already exist. Returns the number of newly inserted rows.
func (s *Store) SeedSections() (int, error) {
	inserted := 0
	for _, sec := range defaultSections {
		res, err := s.db.Exec(
			`INSERT OR IGNORE INTO section_definitions
			 (slug, display_name, sort_order, section_type, word_count_label,
			  target_word_count, category, series_type, series_length, description)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sec.Slug, sec.DisplayName, sec.SortOrder, sec.SectionType, sec.WordCountLabel,
			sec.TargetWordCount, sec.Category, sec.SeriesType, sec.SeriesLength, sec.Description)
		if err != nil {
			return inserted, fmt.Errorf("seeding section %s: %w", sec.Slug, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	return inserted, nil
}

const sectionCols = `id, slug, display_name, sort_order, section_type, is_active, category,
	word_count_label, target_word_count, series_type, series_length, series_current,
	description, suggested_reason`

func scanSection(row interface{ Scan(...any) error }) (*SectionDef, error) {
	var sec SectionDef
	err := row.Scan(&sec.ID, &sec.Slug, &sec.DisplayName, &sec.SortOrder, &sec.SectionType,
		&sec.IsActive, &sec.Category, &sec.WordCountLabel, &sec.TargetWordCount,
		&sec.SeriesType, &sec.SeriesLength, &sec.SeriesCurrent, &sec.Description,
		&sec.SuggestedReason)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sec, nil
}

// GetSection fetches a section definition by slug.
func (s *Store) GetSection(slug string) (*SectionDef, error) {
	return scanSection(s.db.QueryRow(
		`SELECT `+sectionCols+` FROM section_definitions WHERE slug = ?`, slug))
}

func (s *Store) querySections(where string, args ...any) ([]*SectionDef, error) {
	rows, err := s.db.Query(
		`SELECT `+sectionCols+` FROM section_definitions `+where+` ORDER BY sort_order ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*SectionDef
	for rows.Next() {
		sec, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sec)
	}
	return out, rows.Err()
}

// ListSections returns all section definitions in sort order.
func (s *Store) ListSections() ([]*SectionDef, error) {
	return s.querySections("")
}

// ActiveSections returns every active section in sort order.
func (s *Store) ActiveSections() ([]*SectionDef, error) {
	return s.querySections(`WHERE is_active = 1`)
}

// ActiveSectionsByType returns active sections of the given type, sorted.
func (s *Store) ActiveSectionsByType(sectionType string) ([]*SectionDef, error) {
	return s.querySections(`WHERE section_type = ? AND is_active = 1`, sectionType)
}

// SuggestSection records an AI-proposed section. It stays inactive until
// AcceptSuggestedSection promotes it.
func (s *Store) SuggestSection(slug, displayName, category, reason string) (int64, error) {
	return s.insertID(
		`INSERT INTO section_definitions
		 (slug, display_name, section_type, is_active, category, suggested_reason, suggested_at)
		 VALUES (?, ?, ?, 0, ?, ?, CURRENT_TIMESTAMP)`,
		slug, displayName, SectionSuggested, category, reason)
}

// AcceptSuggestedSection promotes a suggested section into the rotating pool.
func (s *Store) AcceptSuggestedSection(slug string) error {
	res, err := s.db.Exec(
		`UPDATE section_definitions SET section_type = ?, is_active = 1
		 WHERE slug = ? AND section_type = ?`,
		SectionRotating, slug, SectionSuggested)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("section %s: %w", slug, ErrNotFound)
	}
	return nil
}

// AdvanceSeries bumps a limited series' progress counter and retires the
// section when the series completes.
func (s *Store) AdvanceSeries(slug string) error {
	sec, err := s.GetSection(slug)
	if err != nil {
		return err
	}
	if sec.SeriesLength <= 0 {
		return nil
	}
	next := sec.SeriesCurrent + 1
	fields := map[string]any{"series_current": next}
	if next >= sec.SeriesLength {
		fields["is_active"] = 0
	}
	return s.update("section_definitions", sec.ID, fields, false)
}

// SplitSlugs splits a comma-separated slug list, dropping blanks.
func SplitSlugs(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinSlugs joins slugs into the comma-separated storage form.
func JoinSlugs(slugs []string) string {
	return strings.Join(slugs, ",")
}
