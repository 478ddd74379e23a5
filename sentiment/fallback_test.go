package sentiment

import (
	"fmt"
	"testing"
	"time"

	"mention-radar/models"
)

func lexiconPosts(n int, text string) []models.Post {
	posts := make([]models.Post, n)
	for i := range posts {
		posts[i] = models.Post{
			ID:        fmt.Sprintf("p%02d", i),
			Text:      text,
			Platform:  models.PlatformX,
			CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		}
	}
	return posts
}

func countLabels(res Result) map[models.Sentiment]int {
	out := map[models.Sentiment]int{}
	for _, s := range res.PerPost {
		out[s]++
	}
	return out
}

func TestFallbackSplitsSixtyThirtyTen(t *testing.T) {
	res := Fallback(lexiconPosts(10, "this product is great, love it"))

	if res.Majority != models.SentimentPositive {
		t.Fatalf("expected positive majority, got %s", res.Majority)
	}
	got := countLabels(res)
	if got[models.SentimentPositive] != 6 || got[models.SentimentNeutral] != 3 || got[models.SentimentNegative] != 1 {
		t.Fatalf("expected a 6/3/1 split, got %v", got)
	}
}

func TestFallbackNegativeMajorityFlipsTheSplit(t *testing.T) {
	res := Fallback(lexiconPosts(10, "this is terrible, total scam"))

	if res.Majority != models.SentimentNegative {
		t.Fatalf("expected negative majority, got %s", res.Majority)
	}
	got := countLabels(res)
	if got[models.SentimentNegative] != 6 || got[models.SentimentNeutral] != 3 || got[models.SentimentPositive] != 1 {
		t.Fatalf("expected a 6/3/1 split toward negative, got %v", got)
	}
}

func TestFallbackNeutralWhenLexiconIsSilent(t *testing.T) {
	res := Fallback(lexiconPosts(4, "the quarterly report was published on schedule"))

	if res.Majority != models.SentimentNeutral {
		t.Fatalf("expected neutral majority, got %s", res.Majority)
	}
}

func TestFallbackIsDeterministic(t *testing.T) {
	posts := lexiconPosts(7, "mixed feelings about the launch, mostly good")

	first := Fallback(posts)
	second := Fallback(posts)
	for k, v := range first.PerPost {
		if second.PerPost[k] != v {
			t.Fatalf("label for %s changed between runs: %s vs %s", k, v, second.PerPost[k])
		}
	}
}

func TestFallbackEmptyInput(t *testing.T) {
	res := Fallback(nil)
	if len(res.PerPost) != 0 {
		t.Fatalf("expected no labels for an empty set, got %v", res.PerPost)
	}
	if res.Majority != models.SentimentNeutral {
		t.Fatalf("empty set should default to neutral, got %s", res.Majority)
	}
}
