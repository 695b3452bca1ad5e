package generate

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// MaxTokensForLabel maps a section's word-count label to a generation
// budget. Labels leave headroom above the word target so the model is cut
// off by instruction, not truncation.
func MaxTokensForLabel(label string) int {
	switch strings.ToLower(label) {
	case "short":
		return 600
	case "long":
		return 3000
	default: // medium and anything unlabeled
		return 1500
	}
}

var (
	encOnce sync.Once
	encoder *tiktoken.Tiktoken
)

// CountTokens estimates the token length of text using the cl100k_base
// encoding. Falls back to a words*4/3 heuristic when the encoding cannot
// be loaded (offline environments).
func CountTokens(text string) int {
	encOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			encoder = enc
		}
	})
	if encoder == nil {
		return len(strings.Fields(text)) * 4 / 3
	}
	return len(encoder.Encode(text, nil, nil))
}

// CountWords counts whitespace-separated words.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
