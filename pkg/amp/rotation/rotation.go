// Package rotation selects which rotating sections run in each issue.
// Selection is weighted random: sections that appeared less often in the
// recent lookback window draw higher weights, and a per-category cap keeps
// any one topic area from dominating an issue.
package rotation

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/config"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/store"
)

// Selector draws rotating sections for issues.
type Selector struct {
	store *store.Store
	cfg   config.RotationConfig
	rng   *rand.Rand
}

// NewSelector builds a selector over the store with the given tuning.
func NewSelector(s *store.Store, cfg config.RotationConfig) *Selector {
	return &Selector{
		store: s,
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Seed makes selections reproducible. Test use.
func (sel *Selector) Seed(seed int64) {
	sel.rng = rand.New(rand.NewSource(seed))
}

// candidate is one rotating section still in the running.
type candidate struct {
	slug     string
	category string
	weight   int
}

// SelectRotating draws up to MaxRotating rotating sections. A section's
// weight is max(1, lookback+1-recentAppearances), so a section shut out for
// the whole window is lookback+1 times more likely per draw than one that
// ran every issue. The category cap relaxes only when every remaining
// candidate's category is already full.
func (sel *Selector) SelectRotating() ([]string, error) {
	rotating, err := sel.store.ActiveSectionsByType(store.SectionRotating)
	if err != nil {
		return nil, fmt.Errorf("loading rotating sections: %w", err)
	}
	if len(rotating) == 0 {
		return nil, nil
	}

	counts, err := sel.store.RotationCounts(sel.cfg.Lookback)
	if err != nil {
		return nil, fmt.Errorf("loading rotation history: %w", err)
	}

	available := make([]candidate, 0, len(rotating))
	for _, sec := range rotating {
		weight := sel.cfg.Lookback + 1 - counts[sec.Slug]
		if weight < 1 {
			weight = 1
		}
		available = append(available, candidate{slug: sec.Slug, category: sec.Category, weight: weight})
	}

	var selected []string
	categoryCounts := map[string]int{}
	for len(selected) < sel.cfg.MaxRotating && len(available) > 0 {
		pool := available
		if filtered := sel.underCap(available, categoryCounts); len(filtered) > 0 {
			pool = filtered
		}

		pick := sel.weightedPick(pool)
		selected = append(selected, pick.slug)
		categoryCounts[pick.category]++

		kept := available[:0]
		for _, c := range available {
			if c.slug != pick.slug {
				kept = append(kept, c)
			}
		}
		available = kept
	}
	return selected, nil
}

func (sel *Selector) underCap(cands []candidate, categoryCounts map[string]int) []candidate {
	var out []candidate
	for _, c := range cands {
		if categoryCounts[c.category] < sel.cfg.MaxPerCategory {
			out = append(out, c)
		}
	}
	return out
}

func (sel *Selector) weightedPick(cands []candidate) candidate {
	total := 0
	for _, c := range cands {
		total += c.weight
	}
	r := sel.rng.Intn(total)
	for _, c := range cands {
		r -= c.weight
		if r < 0 {
			return c
		}
	}
	return cands[len(cands)-1]
}

// SectionsForIssue resolves the full section lineup for an issue: every core
// section plus either the schedule-pinned slugs or a fresh rotating draw.
// Dynamic draws are logged (winners and losers) so future weights see them.
func (sel *Selector) SectionsForIssue(issueID int64, scheduleSlugs []string) ([]*store.SectionDef, error) {
	core, err := sel.store.ActiveSectionsByType(store.SectionCore)
	if err != nil {
		return nil, fmt.Errorf("loading core sections: %w", err)
	}
	coreSlugs := map[string]bool{}
	for _, sec := range core {
		coreSlugs[sec.Slug] = true
	}

	sections := append([]*store.SectionDef{}, core...)
	if len(scheduleSlugs) > 0 {
		for _, slug := range scheduleSlugs {
			if coreSlugs[slug] {
				continue
			}
			sec, err := sel.store.GetSection(slug)
			if err != nil {
				continue // schedule may name a retired section
			}
			sections = append(sections, sec)
		}
	} else {
		chosen, err := sel.SelectRotating()
		if err != nil {
			return nil, err
		}
		chosenSet := map[string]bool{}
		for _, slug := range chosen {
			chosenSet[slug] = true
			sec, err := sel.store.GetSection(slug)
			if err != nil {
				return nil, err
			}
			sections = append(sections, sec)
		}

		rotating, err := sel.store.ActiveSectionsByType(store.SectionRotating)
		if err != nil {
			return nil, err
		}
		for _, sec := range rotating {
			if err := sel.store.LogRotationDecision(issueID, sec.Slug, chosenSet[sec.Slug]); err != nil {
				return nil, fmt.Errorf("logging rotation: %w", err)
			}
		}
	}

	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].SortOrder < sections[j].SortOrder
	})
	return sections, nil
}
