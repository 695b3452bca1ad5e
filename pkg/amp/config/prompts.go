// Package config – prompts.go loads per-section prompt templates from
// PromptDir ({slug}.md) with a generic fallback when no template exists.
// Templates use {{placeholder}} markers filled in by the writer agent.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PromptTemplate returns the prompt template for a section slug, or the
// generic fallback when no template file exists.
func (c *AppConfig) PromptTemplate(slug string) string {
	path := filepath.Join(c.PromptDir, slug+".md")
	data, err := os.ReadFile(path)
	if err != nil {
		return FallbackPrompt(slug)
	}
	return string(data)
}

// FallbackPrompt builds a generic section prompt for slugs without a
// template file.
func FallbackPrompt(slug string) string {
	display := strings.ToUpper(strings.ReplaceAll(slug, "_", " "))
	return fmt.Sprintf(`You are writing the %s section of the {{newsletter_name}} newsletter,
a weekly newsletter for independent artists and songwriters.

Topic: {{topic}}

Notes: {{notes}}

Reference material:
{{reference_content}}

Write an engaging, concise section (200-400 words) that provides value to independent musicians.
Use a warm, encouraging tone. Include specific, actionable insights where appropriate.
Format in Markdown.`, display)
}

// FillPrompt replaces the {{placeholder}} markers in a template and appends
// the word-count instruction when a target is known.
func FillPrompt(template string, vars map[string]string, targetWords int, label string) string {
	prompt := template
	for key, val := range vars {
		prompt = strings.ReplaceAll(prompt, "{{"+key+"}}", val)
	}
	if targetWords > 0 && label != "" {
		prompt += fmt.Sprintf("\n\nIMPORTANT: Target length is %d words (%s). Stay within this range.", targetWords, label)
	}
	return strings.TrimSpace(prompt)
}
