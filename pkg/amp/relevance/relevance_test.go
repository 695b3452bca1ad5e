package relevance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_UnknownSectionIsZero(t *testing.T) {
	assert.Zero(t, Score("anything", "at all", "no_such_section"))
}

func TestScore_NoMatches(t *testing.T) {
	assert.Zero(t, Score("quarterly tax filing", "accounting deadlines", "vocal_booth"))
}

func TestScore_SaturatesAtOne(t *testing.T) {
	// Hit well over 30% of the ps_from_ps vocabulary (5 keywords, denom
	// clamps to 1.5).
	score := Score("takeaway action summary", "reflection personal", "ps_from_ps")
	assert.Equal(t, 1.0, score)
}

func TestScore_PartialMatch(t *testing.T) {
	// Two hits against songcraft's 12 keywords: 2 / 3.6.
	score := Score("writing a better melody", "strengthening your chorus", "songcraft")
	assert.InDelta(t, 2.0/3.6, score, 1e-9)
}

func TestScore_CaseInsensitive(t *testing.T) {
	assert.Greater(t, Score("SPOTIFY Playlist Tips", "", "streaming_dashboard"), 0.0)
}

func TestMatchSections_ThresholdAndOrder(t *testing.T) {
	matches := MatchSections(
		"Songwriting advice: melody, chorus and hook construction",
		"A creative process deep dive with chord progression examples",
		DefaultThreshold)
	require.NotEmpty(t, matches)
	assert.Equal(t, "songcraft", matches[0].Slug, "strongest match first")
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
	}
	for _, m := range matches {
		assert.GreaterOrEqual(t, m.Score, DefaultThreshold)
	}
}

func TestMatchSections_NothingBelowThreshold(t *testing.T) {
	matches := MatchSections("weather report", "sunny with light winds", DefaultThreshold)
	assert.Empty(t, matches)
}
