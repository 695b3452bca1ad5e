// Package config – config.go loads the app configuration from YAML with
// environment overrides. Priority: env vars > .env file > YAML defaults.
// The .env file itself is loaded by the CLI root via godotenv before this
// package reads the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Provider identifies the text-generation backend.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// NewsletterConfig describes the publication identity used in prompts and
// the assembled document.
type NewsletterConfig struct {
	Name           string `yaml:"name"`
	Tagline        string `yaml:"tagline"`
	FromName       string `yaml:"from_name"`
	ReplyTo        string `yaml:"reply_to"`
	HeaderImageURL string `yaml:"header_image_url"`
	IntroCopy      string `yaml:"intro_copy"`
	FooterHTML     string `yaml:"footer_html"`
}

// AIConfig selects the generation provider and its limits.
type AIConfig struct {
	Provider    Provider `yaml:"provider"`
	Model       string   `yaml:"model"`
	MaxTokens   int      `yaml:"max_tokens"`
	Temperature float64  `yaml:"temperature"`
	APIKey      string   `yaml:"-"` // env only, never persisted
}

// BeehiivConfig holds delivery-platform credentials.
type BeehiivConfig struct {
	APIKey        string `yaml:"api_key"`
	PublicationID string `yaml:"publication_id"`
	BaseURL       string `yaml:"base_url"`
}

// ScheduleConfig controls issue frequency and send days.
type ScheduleConfig struct {
	Frequency int      `yaml:"frequency"`
	SendDays  []string `yaml:"send_days"`
}

// SponsorSlotsConfig limits sponsor placements per issue.
type SponsorSlotsConfig struct {
	MaxPerIssue        int      `yaml:"max_per_issue"`
	AvailablePositions []string `yaml:"available_positions"`
}

// AgentsConfig governs the task lifecycle policy.
type AgentsConfig struct {
	// DefaultAutonomy is stamped on lazily created agent records.
	DefaultAutonomy string `yaml:"default_autonomy"`
	// ReviewRequired routes successful executions to the review checkpoint
	// instead of straight to complete.
	ReviewRequired bool `yaml:"review_required"`
	// MaxConcurrentTasks is advisory; the core runs tasks sequentially.
	MaxConcurrentTasks int `yaml:"max_concurrent_tasks"`
}

// SubmissionsConfig governs the artist submission intake.
type SubmissionsConfig struct {
	APIKey          string `yaml:"api_key"`
	AutoAcknowledge bool   `yaml:"auto_acknowledge"`
	RequireEmail    bool   `yaml:"require_email"`
}

// RotationConfig tunes the rotating-section selector.
type RotationConfig struct {
	MaxRotating    int `yaml:"max_rotating"`
	Lookback       int `yaml:"lookback"`
	MaxPerCategory int `yaml:"max_per_category"`
}

// SecurityConfig holds the admin credential hash and login throttling knobs.
type SecurityConfig struct {
	AdminHash     string `yaml:"-"` // env only
	MaxAttempts   int    `yaml:"max_attempts"`
	WindowSeconds int    `yaml:"window_seconds"`
}

// AppConfig is the root configuration object.
type AppConfig struct {
	Newsletter   NewsletterConfig  `yaml:"newsletter"`
	AI           AIConfig          `yaml:"ai"`
	Beehiiv      BeehiivConfig     `yaml:"beehiiv"`
	Schedule     ScheduleConfig    `yaml:"schedule"`
	SponsorSlots SponsorSlotsConfig `yaml:"sponsor_slots"`
	Agents       AgentsConfig      `yaml:"agents"`
	Submissions  SubmissionsConfig `yaml:"submissions"`
	Rotation     RotationConfig    `yaml:"rotation"`
	Security     SecurityConfig    `yaml:"security"`
	DBPath       string            `yaml:"db_path"`
	PromptDir    string            `yaml:"prompt_dir"`
}

// Default returns the built-in configuration used when no YAML file exists.
func Default() *AppConfig {
	return &AppConfig{
		Newsletter: NewsletterConfig{
			Name:     "TrueFans AMP",
			Tagline:  "Amplifying Independent Artists & Songwriters",
			FromName: "PS",
		},
		AI: AIConfig{
			Provider:    ProviderAnthropic,
			Model:       "claude-sonnet-4-5-20250929",
			MaxTokens:   2000,
			Temperature: 0.7,
		},
		Beehiiv: BeehiivConfig{
			BaseURL: "https://api.beehiiv.com/v2",
		},
		Schedule: ScheduleConfig{
			Frequency: 1,
			SendDays:  []string{"tuesday"},
		},
		SponsorSlots: SponsorSlotsConfig{
			MaxPerIssue:        2,
			AvailablePositions: []string{"top", "mid", "bottom"},
		},
		Agents: AgentsConfig{
			DefaultAutonomy:    "supervised",
			ReviewRequired:     true,
			MaxConcurrentTasks: 3,
		},
		Submissions: SubmissionsConfig{
			AutoAcknowledge: true,
			RequireEmail:    true,
		},
		Rotation: RotationConfig{
			MaxRotating:    3,
			Lookback:       4,
			MaxPerCategory: 2,
		},
		Security: SecurityConfig{
			MaxAttempts:   5,
			WindowSeconds: 300,
		},
		DBPath:    "data/amp.db",
		PromptDir: "config/prompts",
	}
}

// Load reads path (or config/default.yaml if path is empty), merges it over
// the defaults, then applies environment overrides.
func Load(path string) (*AppConfig, error) {
	cfg := Default()

	if path == "" {
		path = filepath.Join("config", "default.yaml")
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Defaults only.
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv applies environment variable overrides on top of file values.
func applyEnv(cfg *AppConfig) {
	if v := os.Getenv("AMP_AI_PROVIDER"); v != "" {
		cfg.AI.Provider = Provider(strings.ToLower(v))
	}
	if v := os.Getenv("AMP_AI_MODEL"); v != "" {
		cfg.AI.Model = v
	}
	switch cfg.AI.Provider {
	case ProviderOpenAI:
		cfg.AI.APIKey = os.Getenv("OPENAI_API_KEY")
	default:
		cfg.AI.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if v := os.Getenv("BEEHIIV_API_KEY"); v != "" {
		cfg.Beehiiv.APIKey = v
	}
	if v := os.Getenv("BEEHIIV_PUBLICATION_ID"); v != "" {
		cfg.Beehiiv.PublicationID = v
	}
	if v := os.Getenv("TRUEFANS_SUBMISSIONS_API_KEY"); v != "" {
		cfg.Submissions.APIKey = v
	}
	if v := os.Getenv("AMP_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("AMP_ADMIN_HASH"); v != "" {
		cfg.Security.AdminHash = v
	}
}

// SourceEntry is one configured content source from sources.yaml.
type SourceEntry struct {
	Name           string `yaml:"name"`
	Type           string `yaml:"type"`
	URL            string `yaml:"url"`
	TargetSections string `yaml:"target_sections"`
}

// LoadSources reads the content source registry from config/sources.yaml.
// A missing file yields an empty list, not an error.
func LoadSources(path string) ([]SourceEntry, error) {
	if path == "" {
		path = filepath.Join("config", "sources.yaml")
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var doc struct {
		Sources []SourceEntry `yaml:"sources"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc.Sources, nil
}
