package rotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/config"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/store"
)

func testSelector(t *testing.T, cfg config.RotationConfig) (*store.Store, *Selector) {
	t.Helper()
	s, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	_, err = s.SeedSections()
	require.NoError(t, err)

	sel := NewSelector(s, cfg)
	sel.Seed(42)
	return s, sel
}

func TestSelectRotating_CountAndUniqueness(t *testing.T) {
	_, sel := testSelector(t, config.RotationConfig{MaxRotating: 3, Lookback: 4, MaxPerCategory: 2})

	for i := 0; i < 20; i++ {
		chosen, err := sel.SelectRotating()
		require.NoError(t, err)
		require.Len(t, chosen, 3)

		seen := map[string]bool{}
		for _, slug := range chosen {
			assert.False(t, seen[slug], "no slug may repeat within a draw")
			seen[slug] = true
		}
	}
}

func TestSelectRotating_CategoryCap(t *testing.T) {
	s, sel := testSelector(t, config.RotationConfig{MaxRotating: 5, Lookback: 4, MaxPerCategory: 2})

	for i := 0; i < 20; i++ {
		chosen, err := sel.SelectRotating()
		require.NoError(t, err)

		byCategory := map[string]int{}
		for _, slug := range chosen {
			sec, err := s.GetSection(slug)
			require.NoError(t, err)
			byCategory[sec.Category]++
		}
		for cat, n := range byCategory {
			assert.LessOrEqual(t, n, 2, "category %s over cap", cat)
		}
	}
}

func TestSelectRotating_CapRelaxesWhenExhausted(t *testing.T) {
	// With a cap of 1 and more picks than categories available, the cap
	// must relax rather than starve the draw.
	s, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	for _, slug := range []string{"alpha", "beta", "gamma"} {
		_, err := s.SuggestSection(slug, slug, "one_category", "")
		require.NoError(t, err)
		require.NoError(t, s.AcceptSuggestedSection(slug))
	}

	sel := NewSelector(s, config.RotationConfig{MaxRotating: 3, Lookback: 4, MaxPerCategory: 1})
	sel.Seed(7)

	chosen, err := sel.SelectRotating()
	require.NoError(t, err)
	assert.Len(t, chosen, 3, "cap must relax when every category is full")
}

func TestSelectRotating_RecentUseLowersOdds(t *testing.T) {
	s, sel := testSelector(t, config.RotationConfig{MaxRotating: 1, Lookback: 4, MaxPerCategory: 2})

	rotating, err := s.ActiveSectionsByType(store.SectionRotating)
	require.NoError(t, err)
	overused := rotating[0].Slug

	// The overused slug ran in every recent issue; everyone else sat out.
	for i := 1; i <= 4; i++ {
		issue, err := s.CreateIssue(i, "", "", "", "")
		require.NoError(t, err)
		require.NoError(t, s.LogRotation(issue.ID, []string{overused}))
	}

	picks := map[string]int{}
	for i := 0; i < 300; i++ {
		chosen, err := sel.SelectRotating()
		require.NoError(t, err)
		require.Len(t, chosen, 1)
		picks[chosen[0]]++
	}

	// Weight 1 vs weight 5 across ~22 rivals: the overused slug should land
	// well under an equal share.
	equalShare := 300 / len(rotating)
	assert.Less(t, picks[overused], equalShare,
		"recently overused section should be picked less than an equal share")
}

func TestSectionsForIssue_DynamicDrawLogsAllRotating(t *testing.T) {
	s, sel := testSelector(t, config.RotationConfig{MaxRotating: 3, Lookback: 4, MaxPerCategory: 2})
	issue, err := s.CreateIssue(1, "", "", "", "")
	require.NoError(t, err)

	sections, err := sel.SectionsForIssue(issue.ID, nil)
	require.NoError(t, err)

	core, err := s.ActiveSectionsByType(store.SectionCore)
	require.NoError(t, err)
	assert.Len(t, sections, len(core)+3)

	for i := 1; i < len(sections); i++ {
		assert.LessOrEqual(t, sections[i-1].SortOrder, sections[i].SortOrder, "lineup must be in sort order")
	}

	included, err := s.RotationForIssue(issue.ID)
	require.NoError(t, err)
	assert.Len(t, included, 3, "exactly the winners are logged as included")
}

func TestSectionsForIssue_ScheduleOverridesDraw(t *testing.T) {
	s, sel := testSelector(t, config.RotationConfig{MaxRotating: 3, Lookback: 4, MaxPerCategory: 2})
	issue, err := s.CreateIssue(1, "", "", "", "")
	require.NoError(t, err)

	sections, err := sel.SectionsForIssue(issue.ID, []string{"songcraft", "coaching", "no_such_slug"})
	require.NoError(t, err)

	slugs := map[string]bool{}
	for _, sec := range sections {
		slugs[sec.Slug] = true
	}
	assert.True(t, slugs["songcraft"], "schedule slug included")
	assert.True(t, slugs["coaching"], "core sections always included, not duplicated")
	assert.False(t, slugs["no_such_slug"])

	core, err := s.ActiveSectionsByType(store.SectionCore)
	require.NoError(t, err)
	assert.Len(t, sections, len(core)+1)

	included, err := s.RotationForIssue(issue.ID)
	require.NoError(t, err)
	assert.Empty(t, included, "schedule-pinned lineups do not touch the rotation log")
}
