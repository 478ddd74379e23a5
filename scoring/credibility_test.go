package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mention-radar/models"
)

func TestClassifyTiers(t *testing.T) {
	cases := []struct {
		name   string
		handle string
		meta   *models.AuthorMetadata
		want   Tier
	}{
		{"official flag wins", "whitehouse", &models.AuthorMetadata{Official: true, Followers: 10}, TierOfficial},
		{"known news outlet", "Reuters", &models.AuthorMetadata{}, TierNews},
		{"news suffix", "localnews", nil, TierNews},
		{"verified with big reach", "anchor", &models.AuthorMetadata{Verified: true, Followers: 600_000}, TierJournalist},
		{"verified with medium reach", "analyst", &models.AuthorMetadata{Verified: true, Followers: 150_000}, TierExpert},
		{"verified only", "someone", &models.AuthorMetadata{Verified: true}, TierVerified},
		{"unverified with reach", "popular", &models.AuthorMetadata{Followers: 50_000}, TierSourced},
		{"nobody", "random", &models.AuthorMetadata{Followers: 12}, TierContext},
		{"no metadata at all", "random", nil, TierContext},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(models.PlatformX, tc.handle, tc.meta), tc.name)
	}
}

func TestClassifyNormalizesHandles(t *testing.T) {
	if got := Classify(models.PlatformX, "@Reuters", nil); got != TierNews {
		t.Fatalf("@-prefix must be stripped, got %s", got)
	}
	// Bluesky 핸들은 도메인 형태다.
	if got := Classify(models.PlatformBluesky, "reuters.bsky.social", nil); got != TierNews {
		t.Fatalf("bluesky domain handle must match on its first label, got %s", got)
	}
}

func TestScoreMapsTiers(t *testing.T) {
	if Score(TierOfficial) <= Score(TierNews) || Score(TierNews) <= Score(TierVerified) {
		t.Fatalf("tier scores must decrease with trust: official=%v news=%v verified=%v",
			Score(TierOfficial), Score(TierNews), Score(TierVerified))
	}
	if Score(Tier("bogus")) != DefaultCredibility {
		t.Fatalf("unknown tier must get the default score")
	}
	if Score(TierJournalist) < Tier1Threshold {
		t.Fatalf("journalist tier must count as tier-1")
	}
}

func TestApplyCredibilityFillsMissingScores(t *testing.T) {
	pre := 0.99
	posts := []models.Post{
		{ID: "a", Platform: models.PlatformX, AuthorHandle: "random"},
		{ID: "b", Platform: models.PlatformX, AuthorHandle: "reuters"},
		{ID: "c", Platform: models.PlatformX, CredibilityScore: &pre},
	}

	ApplyCredibility(posts)

	if posts[0].CredibilityScore == nil || *posts[0].CredibilityScore != DefaultCredibility {
		t.Fatalf("generic post should get the default score, got %v", posts[0].CredibilityScore)
	}
	if posts[1].CredibilityScore == nil || *posts[1].CredibilityScore != Score(TierNews) {
		t.Fatalf("news post should get the news score, got %v", posts[1].CredibilityScore)
	}
	if *posts[2].CredibilityScore != 0.99 {
		t.Fatalf("a pre-scored post must not be overwritten, got %v", *posts[2].CredibilityScore)
	}
}
