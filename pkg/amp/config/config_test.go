package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "amp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"newsletter:\n  name: Test Letter\nrotation:\n  max_rotating: 5\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Test Letter", cfg.Newsletter.Name)
	assert.Equal(t, 5, cfg.Rotation.MaxRotating)
	// Untouched keys keep their defaults.
	assert.Equal(t, 4, cfg.Rotation.Lookback)
	assert.True(t, cfg.Agents.ReviewRequired)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "TrueFans AMP", cfg.Newsletter.Name)
	assert.Equal(t, []string{"tuesday"}, cfg.Schedule.SendDays)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("AMP_AI_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("AMP_DB_PATH", "/tmp/amp-test.db")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.AI.Provider)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
	assert.Equal(t, "/tmp/amp-test.db", cfg.DBPath)
}

func TestLoadSources(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"sources:\n  - name: MBW\n    type: rss\n    url: https://example.com/feed\n    target_sections: industry_pulse,deal_or_no_deal\n"), 0o644))

	entries, err := LoadSources(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "MBW", entries[0].Name)
	assert.Equal(t, "rss", entries[0].Type)

	entries, err = LoadSources(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPromptTemplate_FileAndFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "coaching.md"),
		[]byte("Custom coaching prompt for {{topic}}."), 0o644))

	cfg := Default()
	cfg.PromptDir = dir
	assert.Equal(t, "Custom coaching prompt for {{topic}}.", cfg.PromptTemplate("coaching"))
	assert.Contains(t, cfg.PromptTemplate("tech_talk"), "TECH TALK section")
}

func TestFillPrompt(t *testing.T) {
	out := FillPrompt("Write about {{topic}} for {{newsletter_name}}.", map[string]string{
		"topic":           "royalties",
		"newsletter_name": "AMP",
	}, 400, "medium")
	assert.Contains(t, out, "Write about royalties for AMP.")
	assert.Contains(t, out, "Target length is 400 words (medium)")

	out = FillPrompt("No target here.", nil, 0, "")
	assert.Equal(t, "No target here.", out)
}
