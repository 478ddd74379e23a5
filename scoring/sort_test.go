package scoring

import (
	"testing"
	"time"

	"mention-radar/models"
)

func scoredPost(id string, createdAt time.Time, engagement int, cred float64, verified bool) models.Post {
	p := models.Post{
		ID:               id,
		Platform:         models.PlatformX,
		CreatedAt:        createdAt,
		Engagement:       models.Engagement{Likes: engagement},
		CredibilityScore: &cred,
	}
	if verified {
		p.AuthorMetadata = &models.AuthorMetadata{Verified: true}
	}
	return p
}

func ids(posts []models.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func TestParseMode(t *testing.T) {
	if m, ok := ParseMode(""); !ok || m != ModeRelevance {
		t.Fatalf("empty input must default to relevance, got %s ok=%v", m, ok)
	}
	if m, ok := ParseMode("engaged"); !ok || m != ModeEngaged {
		t.Fatalf("expected engaged, got %s ok=%v", m, ok)
	}
	if _, ok := ParseMode("trending"); ok {
		t.Fatalf("unknown mode must be rejected")
	}
}

func TestSortRecentOrdersNewestFirst(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	posts := []models.Post{
		scoredPost("old", now.Add(-48*time.Hour), 0, 0.3, false),
		scoredPost("new", now.Add(-time.Hour), 0, 0.3, false),
		scoredPost("mid", now.Add(-24*time.Hour), 0, 0.3, false),
	}

	got := ids(Sort(posts, ModeRecent, DefaultWeights, now))
	want := []string{"new", "mid", "old"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if posts[0].ID != "old" {
		t.Fatalf("input slice must not be reordered in place")
	}
}

func TestSortEngagedOrdersByTotalInteractions(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	posts := []models.Post{
		scoredPost("quiet", now.Add(-time.Hour), 2, 0.3, false),
		scoredPost("loud", now.Add(-time.Hour), 500, 0.3, false),
		scoredPost("mid", now.Add(-time.Hour), 40, 0.3, false),
	}

	got := ids(Sort(posts, ModeEngaged, DefaultWeights, now))
	want := []string{"loud", "mid", "quiet"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestSortEngagedExcludesViews(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	views := 1_000_000
	withViews := scoredPost("views", now.Add(-time.Hour), 1, 0.3, false)
	withViews.Engagement.Views = &views
	withLikes := scoredPost("likes", now.Add(-time.Hour), 10, 0.3, false)

	got := ids(Sort([]models.Post{withViews, withLikes}, ModeEngaged, DefaultWeights, now))
	if got[0] != "likes" {
		t.Fatalf("views must not count toward engagement, got %v", got)
	}
}

func TestSortVerifiedFiltersTheResultSet(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	posts := []models.Post{
		scoredPost("plain1", now.Add(-time.Hour), 5, 0.3, false),
		scoredPost("flagged", now.Add(-time.Hour), 5, 0.3, true),
		scoredPost("plain2", now.Add(-2*time.Hour), 5, 0.5, false),
		scoredPost("credible", now.Add(-time.Hour), 5, VerifiedThreshold, false),
	}

	got := Sort(posts, ModeVerified, DefaultWeights, now)
	if len(got) != 2 {
		t.Fatalf("expected only the verified/credible posts, got %v", ids(got))
	}
	for _, p := range got {
		if p.ID == "plain1" || p.ID == "plain2" {
			t.Fatalf("unverified low-credibility post leaked through the filter: %s", p.ID)
		}
	}
}

func TestSortRelevanceIsMonotonicInEachFactor(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// 다른 조건이 같을 때 더 최신/더 많은 반응/더 높은 신뢰도가 항상 이긴다.
	newer := scoredPost("newer", now.Add(-time.Hour), 10, 0.5, false)
	older := scoredPost("older", now.Add(-72*time.Hour), 10, 0.5, false)
	if got := ids(Sort([]models.Post{older, newer}, ModeRelevance, DefaultWeights, now)); got[0] != "newer" {
		t.Fatalf("recency: expected newer first, got %v", got)
	}

	loud := scoredPost("loud", now.Add(-time.Hour), 1000, 0.5, false)
	quiet := scoredPost("quiet", now.Add(-time.Hour), 1, 0.5, false)
	if got := ids(Sort([]models.Post{quiet, loud}, ModeRelevance, DefaultWeights, now)); got[0] != "loud" {
		t.Fatalf("engagement: expected loud first, got %v", got)
	}

	credible := scoredPost("credible", now.Add(-time.Hour), 10, 0.95, false)
	generic := scoredPost("generic", now.Add(-time.Hour), 10, 0.3, false)
	if got := ids(Sort([]models.Post{generic, credible}, ModeRelevance, DefaultWeights, now)); got[0] != "credible" {
		t.Fatalf("credibility: expected credible first, got %v", got)
	}
}

func TestSortIsDeterministic(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// 완전히 동일한 점수의 포스트들은 (platform, id) 키 순서로 정렬된다.
	posts := []models.Post{
		scoredPost("c", now.Add(-time.Hour), 10, 0.5, false),
		scoredPost("a", now.Add(-time.Hour), 10, 0.5, false),
		scoredPost("b", now.Add(-time.Hour), 10, 0.5, false),
	}

	first := ids(Sort(posts, ModeRelevance, DefaultWeights, now))
	second := ids(Sort(posts, ModeRelevance, DefaultWeights, now))
	want := []string{"a", "b", "c"}
	for i := range want {
		if first[i] != want[i] || second[i] != want[i] {
			t.Fatalf("expected the key-ordered tie-break %v, got %v then %v", want, first, second)
		}
	}
}

func TestSortDoesNotLeakScoresIntoPosts(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	posts := []models.Post{scoredPost("a", now.Add(-time.Hour), 10, 0.5, false)}

	got := Sort(posts, ModeRelevance, DefaultWeights, now)
	if got[0].CredibilityScore == nil || *got[0].CredibilityScore != 0.5 {
		t.Fatalf("sorting must not mutate the credibility score, got %v", got[0].CredibilityScore)
	}
}
