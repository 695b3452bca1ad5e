// Package relevance scores discovered content against section keyword sets.
// The scorer is deliberately cheap: substring matching over a curated keyword
// table, no model calls. It only has to rank candidates for the research
// briefs, not classify them perfectly.
package relevance

import (
	"sort"
	"strings"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/store"
)

// DefaultThreshold is the minimum score for a section match to count.
const DefaultThreshold = 0.2

// sectionKeywords maps each section slug to its match vocabulary.
var sectionKeywords = map[string][]string{
	// Music Industry
	"backstage_pass": {
		"story", "interview", "behind the scenes", "making of", "recording",
		"studio", "biography", "career", "journey", "legend", "iconic",
	},
	"industry_pulse": {
		"music industry", "record label", "music business", "streaming",
		"billboard", "chart", "trend", "market", "revenue", "acquisition",
		"merger", "lawsuit", "regulation", "policy",
	},
	"deal_or_no_deal": {
		"record deal", "contract", "negotiate", "advance", "signing",
		"360 deal", "distribution deal", "publishing deal", "terms",
		"independent", "major label", "deal structure",
	},
	"streaming_dashboard": {
		"spotify", "apple music", "streaming numbers", "playlist",
		"streams", "listeners", "algorithm", "discovery", "analytics",
		"tidal", "youtube music", "deezer",
	},
	// Artist Development
	"coaching": {
		"inspiration", "motivation", "lesson", "advice", "mindset",
		"success", "practice", "discipline", "creative", "growth",
	},
	"greatest_songwriters": {
		"songwriter", "songwriting", "lyricist", "compose", "classic",
		"greatest", "legendary", "hall of fame", "singer-songwriter",
	},
	"stage_ready": {
		"live performance", "stage presence", "concert", "tour",
		"setlist", "soundcheck", "venue", "audience", "performer",
		"stage fright", "showmanship", "live show",
	},
	"songcraft": {
		"songwriting", "melody", "chord progression", "verse", "chorus",
		"bridge", "hook", "co-writing", "creative process", "writer's block",
		"composition", "arrangement",
	},
	"vocal_booth": {
		"vocal", "singing", "voice", "pitch", "range", "technique",
		"warm up", "breathing", "falsetto", "belt", "harmony",
		"vocal health", "vocal coach",
	},
	"artist_spotlight": {
		"independent artist", "emerging", "debut", "breakout", "unsigned",
		"indie artist", "rising star", "new release", "feature",
		"spotlight", "profile", "interview",
	},
	// Technology
	"tech_talk": {
		"technology", "tech", "software", "digital", "streaming",
		"social media", "marketing", "distribution", "platform", "ai",
		"production", "daw", "plugin", "audio",
	},
	"ai_music_lab": {
		"artificial intelligence", "ai music", "machine learning",
		"generative", "synthesizer", "neural", "algorithm", "automation",
		"ai tools", "music ai", "stem separation", "mastering ai",
	},
	"gear_garage": {
		"guitar", "keyboard", "microphone", "interface", "monitors",
		"headphones", "pedal", "amp", "instrument", "gear review",
		"equipment", "budget gear", "home studio",
	},
	"social_playbook": {
		"social media", "instagram", "tiktok", "youtube", "content strategy",
		"followers", "engagement", "viral", "reels", "shorts",
		"social algorithm", "posting schedule",
	},
	"production_notes": {
		"recording", "mixing", "mastering", "production", "daw",
		"eq", "compression", "reverb", "arrangement", "session",
		"producer", "beat", "sample",
	},
	// Business
	"recommends": {
		"book", "course", "tool", "resource", "recommend", "review",
		"guide", "tutorial", "software", "app", "plugin", "gear",
	},
	"money_moves": {
		"revenue", "income", "monetize", "money", "financial",
		"budget", "investing", "merch", "sync", "licensing",
		"royalties", "passive income", "diversify",
	},
	"brand_building": {
		"brand", "identity", "logo", "aesthetic", "visual",
		"image", "persona", "niche", "positioning", "story",
		"branding", "artist brand",
	},
	"rights_and_royalties": {
		"copyright", "royalty", "publishing", "licensing", "sync",
		"mechanical", "performance rights", "ascap", "bmi", "sesac",
		"intellectual property", "rights",
	},
	"diy_marketing": {
		"marketing", "promotion", "email list", "newsletter",
		"press release", "playlist pitching", "pr", "campaign",
		"launch strategy", "indie marketing", "grassroots",
	},
	// Inspiration
	"mondegreen": {
		"lyric", "misheard", "meaning", "analysis", "interpretation",
		"words", "verse", "chorus", "mondegreen", "song meaning",
	},
	"ps_from_ps": {
		"takeaway", "action", "summary", "reflection", "personal",
	},
	"creative_fuel": {
		"inspiration", "creative prompt", "idea", "spark", "exercise",
		"challenge", "creativity", "muse", "journal", "brainstorm",
	},
	"vinyl_vault": {
		"classic album", "vinyl", "retrospective", "reissue", "hidden gem",
		"underrated", "anniversary", "catalog", "deep cut", "music history",
	},
	"the_muse": {
		"breakthrough", "eureka", "inspiration story", "creative moment",
		"turning point", "discovery", "epiphany", "creative journey",
	},
	"lyrics_unpacked": {
		"lyrics", "lyric analysis", "meaning", "metaphor", "symbolism",
		"poetry", "wordplay", "storytelling", "verse", "interpretation",
	},
	// Community
	"fan_mail": {
		"reader", "question", "feedback", "letter", "fan",
		"community", "response", "ask", "shout out",
	},
	"truefans_connect": {
		"community", "truefans", "connect", "network", "collaboration",
		"platform", "member", "feature", "highlight",
	},
	"community_wins": {
		"achievement", "win", "milestone", "success", "celebration",
		"congratulations", "progress", "accomplishment",
	},
	// Guest Content
	"guest_column": {
		"guest", "expert", "opinion", "perspective", "industry",
		"thought leadership", "contributor", "editorial",
	},
}

// Score rates how relevant (title, summary) is to one section, 0.0-1.0.
// Matching roughly 30% of the section's vocabulary saturates the score.
func Score(title, summary, slug string) float64 {
	keywords := sectionKeywords[slug]
	if len(keywords) == 0 {
		return 0
	}
	text := strings.ToLower(title + " " + summary)
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			matches++
		}
	}
	denom := float64(len(keywords)) * 0.3
	if denom < 1 {
		denom = 1
	}
	score := float64(matches) / denom
	if score > 1 {
		return 1
	}
	return score
}

// Match is one section hit for a content item.
type Match struct {
	Slug  string
	Score float64
}

// MatchSections returns every section scoring at or above threshold, best
// first. Ties break alphabetically so results are deterministic.
func MatchSections(title, summary string, threshold float64) []Match {
	var out []Match
	for slug := range sectionKeywords {
		if sc := Score(title, summary, slug); sc >= threshold {
			out = append(out, Match{Slug: slug, Score: sc})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Slug < out[j].Slug
	})
	return out
}

// ScoreAndTag computes the section matches for a stored item and writes the
// best score plus the matched slug list back onto the row. Items matching
// nothing are left untouched.
func ScoreAndTag(s *store.Store, contentID int64, title, summary string) error {
	matches := MatchSections(title, summary, DefaultThreshold)
	if len(matches) == 0 {
		return nil
	}
	slugs := make([]string, len(matches))
	for i, m := range matches {
		slugs[i] = m.Slug
	}
	return s.SetContentScore(contentID, matches[0].Score, store.JoinSlugs(slugs))
}
