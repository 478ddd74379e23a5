package scoring

import (
	"math"
	"sort"
	"time"

	"mention-radar/models"
)

// Mode selects the ordering strategy of the final result set.
type Mode string

const (
	ModeRelevance Mode = "relevance"
	ModeRecent    Mode = "recent"
	ModeEngaged   Mode = "engaged"
	ModeVerified  Mode = "verified"
)

// ParseMode maps a request string onto a Mode. Empty input gets the default
// (relevance); unknown input is rejected.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case "":
		return ModeRelevance, true
	case ModeRelevance, ModeRecent, ModeEngaged, ModeVerified:
		return Mode(s), true
	}
	return "", false
}

// Weights 는 relevance 점수의 항목별 가중치다. 합이 1 일 필요는 없다.
type Weights struct {
	Recency     float64
	Engagement  float64
	Credibility float64
}

// DefaultWeights is used when the config does not override the weighting.
var DefaultWeights = Weights{Recency: 0.35, Engagement: 0.35, Credibility: 0.30}

// Sort orders posts under the given mode and returns a new slice; the input
// is never reordered in place. Ordering is fully deterministic: every
// strategy ends its tie-break chain at the (platform, id) composite key.
//
// Relevance scores are computed into a transient parallel slice and die
// here — they are not part of the Post contract and can never leak into a
// response.
func Sort(posts []models.Post, mode Mode, w Weights, now time.Time) []models.Post {
	out := make([]models.Post, len(posts))
	copy(out, posts)

	switch mode {
	case ModeRecent:
		sort.SliceStable(out, func(i, j int) bool {
			if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].Key() < out[j].Key()
		})
		return out

	case ModeEngaged:
		sort.SliceStable(out, func(i, j int) bool {
			ti, tj := out[i].Engagement.Total(), out[j].Engagement.Total()
			if ti != tj {
				return ti > tj
			}
			if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].Key() < out[j].Key()
		})
		return out

	case ModeVerified:
		filtered := out[:0]
		for _, p := range out {
			if isVerified(p) {
				filtered = append(filtered, p)
			}
		}
		return sortByRelevance(filtered, w, now)

	default: // relevance
		return sortByRelevance(out, w, now)
	}
}

// isVerified admits platform-verified authors and anyone scored at or above
// the fixed credibility threshold.
func isVerified(p models.Post) bool {
	if p.AuthorMetadata != nil && p.AuthorMetadata.Verified {
		return true
	}
	return p.CredibilityScore != nil && *p.CredibilityScore >= VerifiedThreshold
}

func sortByRelevance(posts []models.Post, w Weights, now time.Time) []models.Post {
	if w == (Weights{}) {
		w = DefaultWeights
	}

	scores := make([]float64, len(posts))
	for i := range posts {
		scores[i] = relevanceScore(posts[i], w, now)
	}

	idx := make([]int, len(posts))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		i, j := idx[a], idx[b]
		if scores[i] != scores[j] {
			return scores[i] > scores[j]
		}
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].Key() < posts[j].Key()
	})

	out := make([]models.Post, len(posts))
	for a, i := range idx {
		out[a] = posts[i]
	}
	return out
}

// relevanceScore combines recency, engagement, and credibility. Each factor
// is normalized to [0,1] and strictly monotonic: newer, more engaged, more
// credible posts always score at least as high.
func relevanceScore(p models.Post, w Weights, now time.Time) float64 {
	ageHours := now.Sub(p.CreatedAt).Hours()
	if ageHours < 0 {
		ageHours = 0
	}
	// 반감기 3일짜리 지수 감쇠
	recency := math.Exp(-ageHours / 72)

	// views 는 제외한다. 플랫폼별 스케일 차이가 너무 커서 합산에 넣으면
	// 조회수 기반 플랫폼이 항상 이긴다.
	engagement := math.Log10(1+float64(p.Engagement.Total())) / 6
	if engagement > 1 {
		engagement = 1
	}

	credibility := DefaultCredibility
	if p.CredibilityScore != nil {
		credibility = *p.CredibilityScore
	}

	return w.Recency*recency + w.Engagement*engagement + w.Credibility*credibility
}
