// Package scoring assigns credibility scores and orders the merged result
// set. Formulas here are deliberately simple and deterministic; the engine
// only depends on them being monotonic in each input.
package scoring

import (
	"strings"

	"mention-radar/models"
)

// Tier classifies how much trust a post's source carries.
type Tier string

const (
	TierOfficial   Tier = "official"
	TierNews       Tier = "news"
	TierJournalist Tier = "journalist"
	TierExpert     Tier = "expert"
	TierVerified   Tier = "verified"
	TierSourced    Tier = "sourced"
	TierContext    Tier = "context"
)

const (
	// DefaultCredibility is assigned to posts nothing else applies to.
	DefaultCredibility = 0.3

	// Tier1Threshold 이상이면 요약 통계에서 tier-1 로 집계한다.
	Tier1Threshold = 0.80

	// VerifiedThreshold is the credibility cut-off of the "verified" sort
	// mode for posts whose author is not platform-verified.
	VerifiedThreshold = 0.70
)

// tierScores maps each tier to its credibility score.
var tierScores = map[Tier]float64{
	TierOfficial:   0.95,
	TierNews:       0.85,
	TierJournalist: 0.80,
	TierExpert:     0.75,
	TierVerified:   0.70,
	TierSourced:    0.50,
	TierContext:    DefaultCredibility,
}

// newsOutlets 는 플랫폼과 무관하게 뉴스 계정으로 간주하는 핸들 목록이다.
var newsOutlets = map[string]bool{
	"reuters":        true,
	"ap":             true,
	"apnews":         true,
	"bbcnews":        true,
	"bbcworld":       true,
	"cnn":            true,
	"cnnbrk":         true,
	"nytimes":        true,
	"washingtonpost": true,
	"guardian":       true,
	"guardiannews":   true,
	"aljazeera":      true,
	"dwnews":         true,
	"france24":       true,
	"skynews":        true,
	"axios":          true,
	"politico":       true,
	"bloomberg":      true,
	"business":       true,
	"ft":             true,
	"wsj":            true,
	"economist":      true,
	"npr":            true,
	"pbs":            true,
	"abcnews":        true,
	"cbsnews":        true,
	"nbcnews":        true,
}

// Classify returns the credibility tier of a post's author.
//
// The rules are ordered from strongest to weakest signal: an official flag
// from the platform wins, then known news outlets (or an explicit news
// handle), then verified accounts bucketed by reach, then raw follower
// count. Every input only ever moves the tier up, never down.
func Classify(platform models.Platform, handle string, meta *models.AuthorMetadata) Tier {
	h := normalizeHandle(handle)

	if meta != nil && meta.Official {
		return TierOfficial
	}
	if newsOutlets[h] || strings.HasSuffix(h, "news") {
		return TierNews
	}

	verified := meta != nil && meta.Verified
	followers := 0
	if meta != nil {
		followers = meta.Followers
	}

	switch {
	case verified && followers >= 500_000:
		return TierJournalist
	case verified && followers >= 100_000:
		return TierExpert
	case verified:
		return TierVerified
	case followers >= 10_000:
		return TierSourced
	default:
		return TierContext
	}
}

// Score returns the credibility score of a tier.
func Score(t Tier) float64 {
	if s, ok := tierScores[t]; ok {
		return s
	}
	return DefaultCredibility
}

// ApplyCredibility runs the one-shot scoring pass over the flat merged set,
// filling CredibilityScore on every post that does not already carry one.
func ApplyCredibility(posts []models.Post) {
	for i := range posts {
		if posts[i].CredibilityScore != nil {
			continue
		}
		tier := Classify(posts[i].Platform, posts[i].AuthorHandle, posts[i].AuthorMetadata)
		score := Score(tier)
		posts[i].CredibilityScore = &score
	}
}

func normalizeHandle(handle string) string {
	h := strings.ToLower(strings.TrimSpace(handle))
	h = strings.TrimPrefix(h, "@")
	// Bluesky 핸들은 도메인 형태(user.bsky.social)이므로 첫 레이블만 본다.
	if i := strings.IndexByte(h, '.'); i > 0 {
		h = h[:i]
	}
	return h
}
