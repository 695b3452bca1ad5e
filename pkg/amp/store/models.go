// Package store – models.go defines the row types returned by the
// repository methods. Timestamps are stored as SQLite TEXT (UTC) and
// surfaced as strings; callers that need wall-clock math parse them.
package store

// Issue is one newsletter issue moving through the editorial pipeline.
type Issue struct {
	ID            int64  `json:"id"`
	IssueNumber   int    `json:"issue_number"`
	Title         string `json:"title"`
	Status        string `json:"status"` // planning, in_progress, review, approved, sent
	PublishDate   string `json:"publish_date"`
	WeekID        string `json:"week_id"`
	SendDay       string `json:"send_day"`
	IssueTemplate string `json:"issue_template"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// Issue statuses.
const (
	IssuePlanning   = "planning"
	IssueInProgress = "in_progress"
	IssueReview     = "review"
	IssueApproved   = "approved"
	IssueSent       = "sent"
)

// SectionDef is a section definition: core sections run every issue,
// rotating sections are selected per issue, suggested sections sit
// inactive until a human accepts them.
type SectionDef struct {
	ID              int64  `json:"id"`
	Slug            string `json:"slug"`
	DisplayName     string `json:"display_name"`
	SortOrder       int    `json:"sort_order"`
	SectionType     string `json:"section_type"` // core, rotating, suggested
	IsActive        bool   `json:"is_active"`
	Category        string `json:"category"`
	WordCountLabel  string `json:"word_count_label"` // short, medium, long
	TargetWordCount int    `json:"target_word_count"`
	SeriesType      string `json:"series_type"` // ongoing, limited
	SeriesLength    int    `json:"series_length"`
	SeriesCurrent   int    `json:"series_current"`
	Description     string `json:"description"`
	SuggestedReason string `json:"suggested_reason"`
}

// Section types.
const (
	SectionCore      = "core"
	SectionRotating  = "rotating"
	SectionSuggested = "suggested"
)

// RotationEntry is one recorded rotation decision.
type RotationEntry struct {
	ID          int64  `json:"id"`
	IssueID     int64  `json:"issue_id"`
	SectionSlug string `json:"section_slug"`
	WasIncluded bool   `json:"was_included"`
	CreatedAt   string `json:"created_at"`
}

// Source is a registered content source (RSS feed or scrape target).
type Source struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	SourceType     string `json:"source_type"` // rss, scrape
	URL            string `json:"url"`
	TargetSections string `json:"target_sections"` // comma-separated slugs
	IsActive       bool   `json:"is_active"`
	LastFetched    string `json:"last_fetched"`
}

// RawContent is a discovered content candidate with its relevance verdict.
type RawContent struct {
	ID              int64   `json:"id"`
	SourceID        int64   `json:"source_id"`
	Title           string  `json:"title"`
	URL             string  `json:"url"`
	Author          string  `json:"author"`
	Summary         string  `json:"summary"`
	FullText        string  `json:"full_text"`
	PublishedAt     string  `json:"published_at"`
	FetchedAt       string  `json:"fetched_at"`
	RelevanceScore  float64 `json:"relevance_score"`
	MatchedSections string  `json:"matched_sections"` // comma-separated slugs
	IsUsed          bool    `json:"is_used"`
}

// EditorialInput is human steering for one section of one issue.
type EditorialInput struct {
	ID            int64  `json:"id"`
	IssueID       int64  `json:"issue_id"`
	SectionSlug   string `json:"section_slug"`
	Topic         string `json:"topic"`
	Notes         string `json:"notes"`
	ReferenceURLs string `json:"reference_urls"`
	CreatedAt     string `json:"created_at"`
}

// Draft is one version of one section's content for one issue.
type Draft struct {
	ID            int64  `json:"id"`
	IssueID       int64  `json:"issue_id"`
	SectionSlug   string `json:"section_slug"`
	Version       int    `json:"version"`
	Content       string `json:"content"`
	AIModel       string `json:"ai_model"`
	PromptUsed    string `json:"prompt_used"`
	Status        string `json:"status"` // pending, approved, rejected
	ReviewerNotes string `json:"reviewer_notes"`
	CreatedAt     string `json:"created_at"`
}

// Draft statuses.
const (
	DraftPending  = "pending"
	DraftApproved = "approved"
	DraftRejected = "rejected"
	DraftRevised  = "revised"
)

// AssembledIssue is a rendered HTML/plain-text snapshot of an issue.
type AssembledIssue struct {
	ID            int64  `json:"id"`
	IssueID       int64  `json:"issue_id"`
	HTMLContent   string `json:"html_content"`
	PlainText     string `json:"plain_text"`
	BeehiivPostID string `json:"beehiiv_post_id"`
	AssembledAt   string `json:"assembled_at"`
	PublishedAt   string `json:"published_at"`
}

// Subscriber is one mailing-list member synced from the delivery platform.
type Subscriber struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	BeehiivID    string `json:"beehiiv_id"`
	Status       string `json:"status"` // active, unsubscribed
	SubscribedAt string `json:"subscribed_at"`
	SyncedAt     string `json:"synced_at"`
}

// EngagementMetrics is per-issue engagement pulled from the platform.
type EngagementMetrics struct {
	ID            int64   `json:"id"`
	IssueID       int64   `json:"issue_id"`
	BeehiivPostID string  `json:"beehiiv_post_id"`
	Sends         int     `json:"sends"`
	Opens         int     `json:"opens"`
	Clicks        int     `json:"clicks"`
	OpenRate      float64 `json:"open_rate"`
	ClickRate     float64 `json:"click_rate"`
	FetchedAt     string  `json:"fetched_at"`
}

// GrowthMetrics is one daily audience rollup.
type GrowthMetrics struct {
	ID                 int64   `json:"id"`
	MetricDate         string  `json:"metric_date"`
	TotalSubscribers   int     `json:"total_subscribers"`
	NewSubscribers     int     `json:"new_subscribers"`
	ChurnedSubscribers int     `json:"churned_subscribers"`
	OpenRateAvg        float64 `json:"open_rate_avg"`
	ClickRateAvg       float64 `json:"click_rate_avg"`
	ReferralCount      int     `json:"referral_count"`
	SocialImpressions  int     `json:"social_impressions"`
}

// SendSlot is one day's planned section mix.
type SendSlot struct {
	ID           int64  `json:"id"`
	DayOfWeek    string `json:"day_of_week"`
	Label        string `json:"label"`
	SectionSlugs string `json:"section_slugs"` // comma-separated
	IsActive     bool   `json:"is_active"`
}

// SponsorBlock is an ad placement spliced into an assembled issue.
type SponsorBlock struct {
	ID          int64  `json:"id"`
	IssueID     int64  `json:"issue_id"`
	Position    string `json:"position"` // top, mid, bottom
	SponsorName string `json:"sponsor_name"`
	Headline    string `json:"headline"`
	BodyHTML    string `json:"body_html"`
	CTAURL      string `json:"cta_url"`
	CTAText     string `json:"cta_text"`
	ImageURL    string `json:"image_url"`
	IsActive    bool   `json:"is_active"`
}

// Sponsor block positions.
const (
	PositionTop    = "top"
	PositionMid    = "mid"
	PositionBottom = "bottom"
)

// Sponsor is one CRM record for a sponsor relationship.
type Sponsor struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	Website      string `json:"website"`
	Notes        string `json:"notes"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    string `json:"created_at"`
}

// SponsorBooking tracks one sponsor's slot through the sales pipeline.
type SponsorBooking struct {
	ID        int64  `json:"id"`
	SponsorID int64  `json:"sponsor_id"`
	IssueID   int64  `json:"issue_id"`
	Position  string `json:"position"`
	Status    string `json:"status"` // inquiry, negotiating, booked, delivered, paid
	RateCents int64  `json:"rate_cents"`
	Notes     string `json:"notes"`
	BookedAt  string `json:"booked_at"`
}

// Agent is one persisted AI staff record.
type Agent struct {
	ID            int64  `json:"id"`
	AgentType     string `json:"agent_type"`
	Name          string `json:"name"`
	Persona       string `json:"persona"`
	SystemPrompt  string `json:"system_prompt"`
	AutonomyLevel string `json:"autonomy_level"` // manual, supervised, autonomous
	ConfigJSON    string `json:"config_json"`
	IsActive      bool   `json:"is_active"`
	CreatedAt     string `json:"created_at"`
}

// AgentTask is one unit of work assigned to an agent.
type AgentTask struct {
	ID            int64  `json:"id"`
	AgentID       int64  `json:"agent_id"`
	TaskType      string `json:"task_type"`
	State         string `json:"state"`
	Priority      int    `json:"priority"` // lower runs first
	InputJSON     string `json:"input_json"`
	OutputJSON    string `json:"output_json"`
	IssueID       int64  `json:"issue_id"`
	SectionSlug   string `json:"section_slug"`
	HumanOverride bool   `json:"human_override"`
	HumanNotes    string `json:"human_notes"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// OutputLogEntry is one append-only audit record of agent output.
type OutputLogEntry struct {
	ID           int64  `json:"id"`
	TaskID       int64  `json:"task_id"`
	AgentID      int64  `json:"agent_id"`
	OutputType   string `json:"output_type"`
	Content      string `json:"content"`
	MetadataJSON string `json:"metadata_json"`
	TokensUsed   int    `json:"tokens_used"`
	CreatedAt    string `json:"created_at"`
}

// GuestContact is one person in the guest contributor rolodex.
type GuestContact struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Organization string `json:"organization"`
	Role         string `json:"role"`
	Website      string `json:"website"`
	Notes        string `json:"notes"`
	CreatedAt    string `json:"created_at"`
}

// GuestArticle is one guest piece moving through the permission lifecycle.
type GuestArticle struct {
	ID                int64  `json:"id"`
	ContactID         int64  `json:"contact_id"`
	Title             string `json:"title"`
	AuthorName        string `json:"author_name"`
	AuthorBio         string `json:"author_bio"`
	OriginalURL       string `json:"original_url"`
	ContentFull       string `json:"content_full"`
	ContentSummary    string `json:"content_summary"`
	DisplayMode       string `json:"display_mode"` // full, summary_link
	PermissionState   string `json:"permission_state"`
	TargetIssueID     int64  `json:"target_issue_id"`
	TargetSectionSlug string `json:"target_section_slug"`
	DraftID           int64  `json:"draft_id"`
	CreatedAt         string `json:"created_at"`
}

// Guest permission states.
const (
	GuestRequested = "requested"
	GuestReceived  = "received"
	GuestApproved  = "approved"
	GuestDeclined  = "declined"
	GuestPublished = "published"
)

// Submission is one artist submission moving through review.
type Submission struct {
	ID                int64  `json:"id"`
	Reference         string `json:"reference"`
	ArtistName        string `json:"artist_name"`
	ArtistEmail       string `json:"artist_email"`
	ArtistWebsite     string `json:"artist_website"`
	ArtistSocial      string `json:"artist_social"`
	SubmissionType    string `json:"submission_type"` // new_release, story, tip, event
	IntakeMethod      string `json:"intake_method"`   // web_form, email, api
	Title             string `json:"title"`
	Description       string `json:"description"`
	ReleaseDate       string `json:"release_date"`
	Genre             string `json:"genre"`
	LinksJSON         string `json:"links_json"`
	AttachmentsJSON   string `json:"attachments_json"`
	ReviewState       string `json:"review_state"`
	TargetIssueID     int64  `json:"target_issue_id"`
	TargetSectionSlug string `json:"target_section_slug"`
	DraftID           int64  `json:"draft_id"`
	APISource         string `json:"api_source"`
	CreatedAt         string `json:"created_at"`
}

// Submission review states.
const (
	SubmissionSubmitted = "submitted"
	SubmissionReviewed  = "reviewed"
	SubmissionApproved  = "approved"
	SubmissionRejected  = "rejected"
	SubmissionScheduled = "scheduled"
	SubmissionPublished = "published"
)

// SocialPost is one platform-specific promotional post.
type SocialPost struct {
	ID          int64  `json:"id"`
	Platform    string `json:"platform"`
	Content     string `json:"content"`
	IssueID     int64  `json:"issue_id"`
	Status      string `json:"status"` // draft, scheduled, posted
	ScheduledAt string `json:"scheduled_at"`
	PostedAt    string `json:"posted_at"`
	AgentTaskID int64  `json:"agent_task_id"`
	CreatedAt   string `json:"created_at"`
}

// CalendarEntry is one editorial-calendar plan row.
type CalendarEntry struct {
	ID                 int64  `json:"id"`
	IssueID            int64  `json:"issue_id"`
	PlannedDate        string `json:"planned_date"`
	Theme              string `json:"theme"`
	Notes              string `json:"notes"`
	SectionAssignments string `json:"section_assignments"` // JSON: slug -> note
	AgentAssignments   string `json:"agent_assignments"`   // JSON: slug -> agent type
	Status             string `json:"status"`              // draft, confirmed, done
	CreatedAt          string `json:"created_at"`
}
