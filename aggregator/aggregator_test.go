package aggregator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"mention-radar/models"
	"mention-radar/scoring"
)

type fakeSource struct {
	platform models.Platform
	search   func(ctx context.Context, q Query) ([]models.Post, error)
}

func (f *fakeSource) Platform() models.Platform { return f.platform }

func (f *fakeSource) Search(ctx context.Context, q Query) ([]models.Post, error) {
	return f.search(ctx, q)
}

func fixedPost(platform models.Platform, id string, createdAt time.Time) models.Post {
	return models.Post{
		ID:           id,
		Text:         "post " + id,
		Author:       "Author " + id,
		AuthorHandle: "author_" + id,
		Platform:     platform,
		CreatedAt:    createdAt,
		Engagement:   models.Engagement{Likes: 1},
		URL:          "https://example.com/" + id,
	}
}

func TestSearchRejectsInvalidRequests(t *testing.T) {
	e := New(Config{})

	cases := []struct {
		name string
		req  Request
	}{
		{"empty query", Request{Query: "   ", Sources: []models.Platform{models.PlatformX}}},
		{"no sources", Request{Query: "golang"}},
		{"unknown platform", Request{Query: "golang", Sources: []models.Platform{"myspace"}}},
	}
	for _, tc := range cases {
		_, err := e.Search(context.Background(), tc.req)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected *ValidationError, got %v", tc.name, err)
		}
	}
}

func TestSearchIsolatesPlatformFailure(t *testing.T) {
	now := time.Now()
	// bluesky 는 bare timeout 정책이라 non-retryable 에러가 즉시 실패로 떨어진다.
	broken := &fakeSource{platform: models.PlatformBluesky, search: func(ctx context.Context, q Query) ([]models.Post, error) {
		return nil, &StatusError{Platform: "bluesky", StatusCode: 401, Message: "bad token"}
	}}
	healthy := &fakeSource{platform: models.PlatformTruthSocial, search: func(ctx context.Context, q Query) ([]models.Post, error) {
		return []models.Post{
			fixedPost(models.PlatformTruthSocial, "t1", now.Add(-time.Hour)),
			fixedPost(models.PlatformTruthSocial, "t2", now.Add(-2*time.Hour)),
		}, nil
	}}
	e := New(Config{Sources: []Source{broken, healthy}})

	res, err := e.Search(context.Background(), Request{
		Query:      "golang",
		Sources:    []models.Platform{models.PlatformBluesky, models.PlatformTruthSocial},
		TimeFilter: TimeFilter7d,
	})
	if err != nil {
		t.Fatalf("a platform failure must never fail the request: %v", err)
	}
	if len(res.Posts) != 2 {
		t.Fatalf("expected the healthy platform's 2 posts, got %d", len(res.Posts))
	}
	if len(res.Warnings) != 1 || !strings.HasPrefix(res.Warnings[0], "bluesky:") {
		t.Fatalf("expected exactly one bluesky warning, got %v", res.Warnings)
	}
	if got := res.Summary.Platforms[models.PlatformBluesky]; got != 0 {
		t.Fatalf("failed platform must still appear with a zero count, got %d", got)
	}
	if got := res.Summary.Platforms[models.PlatformTruthSocial]; got != 2 {
		t.Fatalf("expected truthsocial count 2, got %d", got)
	}
}

func TestSearchPanicInAdapterBecomesWarning(t *testing.T) {
	panicky := &fakeSource{platform: models.PlatformBluesky, search: func(ctx context.Context, q Query) ([]models.Post, error) {
		panic("adapter bug")
	}}
	e := New(Config{Sources: []Source{panicky}})

	res, err := e.Search(context.Background(), Request{
		Query:   "golang",
		Sources: []models.Platform{models.PlatformBluesky},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "paniced") {
		t.Fatalf("expected a panic warning, got %v", res.Warnings)
	}
}

func TestSearchUnregisteredPlatformIsSilentlyEmpty(t *testing.T) {
	e := New(Config{})

	res, err := e.Search(context.Background(), Request{
		Query:   "golang",
		Sources: []models.Platform{models.PlatformYouTube},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Posts) != 0 || len(res.Warnings) != 0 {
		t.Fatalf("unregistered platforms contribute nothing silently, got posts=%d warnings=%v", len(res.Posts), res.Warnings)
	}
	if got, ok := res.Summary.Platforms[models.PlatformYouTube]; !ok || got != 0 {
		t.Fatalf("requested platform must appear in the summary with count 0, got %d (present=%v)", got, ok)
	}
}

func TestSearchDedupsByPlatformAndID(t *testing.T) {
	now := time.Now()
	first := fixedPost(models.PlatformTruthSocial, "dup", now.Add(-time.Hour))
	first.Text = "kept"
	second := fixedPost(models.PlatformTruthSocial, "dup", now.Add(-2*time.Hour))
	second.Text = "dropped"

	src := &fakeSource{platform: models.PlatformTruthSocial, search: func(ctx context.Context, q Query) ([]models.Post, error) {
		return []models.Post{first, second}, nil
	}}
	e := New(Config{Sources: []Source{src}})

	res, err := e.Search(context.Background(), Request{
		Query:   "golang",
		Sources: []models.Platform{models.PlatformTruthSocial},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Posts) != 1 {
		t.Fatalf("expected 1 post after dedup, got %d", len(res.Posts))
	}
	if res.Posts[0].Text != "kept" {
		t.Fatalf("dedup must keep the first occurrence, got %q", res.Posts[0].Text)
	}
}

func TestSearchAppliesCredibilityAndSentiment(t *testing.T) {
	now := time.Now()
	src := &fakeSource{platform: models.PlatformTruthSocial, search: func(ctx context.Context, q Query) ([]models.Post, error) {
		return []models.Post{fixedPost(models.PlatformTruthSocial, "p1", now.Add(-time.Hour))}, nil
	}}
	e := New(Config{Sources: []Source{src}})

	res, err := e.Search(context.Background(), Request{
		Query:   "golang",
		Sources: []models.Platform{models.PlatformTruthSocial},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := res.Posts[0]
	if p.CredibilityScore == nil {
		t.Fatalf("expected a credibility score on every post")
	}
	if *p.CredibilityScore != scoring.DefaultCredibility {
		t.Fatalf("generic account should get the default score, got %v", *p.CredibilityScore)
	}
	if p.Sentiment == "" {
		t.Fatalf("expected a sentiment label even without an analyzer")
	}
}

func TestSearchDuplicateRequestedPlatformsRunOnce(t *testing.T) {
	calls := 0
	src := &fakeSource{platform: models.PlatformTruthSocial, search: func(ctx context.Context, q Query) ([]models.Post, error) {
		calls++
		return nil, nil
	}}
	e := New(Config{Sources: []Source{src}})

	_, err := e.Search(context.Background(), Request{
		Query:   "golang",
		Sources: []models.Platform{models.PlatformTruthSocial, models.PlatformTruthSocial},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("duplicate platform ids in the request must collapse, got %d calls", calls)
	}
}

func TestSearchNormalizesQueryAndWindow(t *testing.T) {
	var got Query
	src := &fakeSource{platform: models.PlatformBluesky, search: func(ctx context.Context, q Query) ([]models.Post, error) {
		got = q
		return nil, nil
	}}
	e := New(Config{Sources: []Source{src}})

	_, err := e.Search(context.Background(), Request{
		Query:      "  golang  ",
		Sources:    []models.Platform{models.PlatformBluesky},
		TimeFilter: TimeFilter24h,
		Language:   "en",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Text != "golang" {
		t.Fatalf("query must reach adapters trimmed, got %q", got.Text)
	}
	if got.Language != "en" {
		t.Fatalf("language must be forwarded, got %q", got.Language)
	}
	if got.Until.Sub(got.Since) != 24*time.Hour {
		t.Fatalf("expected a 24h window, got %s", got.Until.Sub(got.Since))
	}
}

func TestSearchRetriesEmptyPlatformUntilResults(t *testing.T) {
	now := time.Now()
	calls := 0
	// x 는 retry-on-empty 정책이 적용되는 플랫폼이다.
	flaky := &fakeSource{platform: models.PlatformX, search: func(ctx context.Context, q Query) ([]models.Post, error) {
		calls++
		if calls < 3 {
			return nil, nil
		}
		return []models.Post{fixedPost(models.PlatformX, "x1", now.Add(-time.Hour))}, nil
	}}
	e := New(Config{Sources: []Source{flaky}, RetryBaseDelay: time.Millisecond, EmptyRetryDelay: time.Millisecond})

	res, err := e.Search(context.Background(), Request{
		Query:      "golang",
		Sources:    []models.Platform{models.PlatformX},
		TimeFilter: TimeFilter7d,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 2 empty reads and 1 success, got %d calls", calls)
	}
	if len(res.Posts) != 1 {
		t.Fatalf("expected the late success's post, got %d", len(res.Posts))
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("a late success must not leave a warning, got %v", res.Warnings)
	}
}

func TestSearchWarnsWhenEmptyRetriesExhaust(t *testing.T) {
	calls := 0
	quiet := &fakeSource{platform: models.PlatformX, search: func(ctx context.Context, q Query) ([]models.Post, error) {
		calls++
		return nil, nil
	}}
	e := New(Config{Sources: []Source{quiet}, RetryBaseDelay: time.Millisecond, EmptyRetryDelay: time.Millisecond})

	res, err := e.Search(context.Background(), Request{
		Query:      "golang",
		Sources:    []models.Platform{models.PlatformX},
		TimeFilter: TimeFilter7d,
	})
	if err != nil {
		t.Fatalf("exhausted empty retries must not fail the request: %v", err)
	}
	if calls != 4 {
		t.Fatalf("expected the initial read plus 3 empty retries, got %d calls", calls)
	}
	if len(res.Posts) != 0 {
		t.Fatalf("expected no posts, got %d", len(res.Posts))
	}
	want := "x: no results after multiple attempts (the provider may be under-returning)"
	if len(res.Warnings) != 1 || res.Warnings[0] != want {
		t.Fatalf("expected the informational warning %q, got %v", want, res.Warnings)
	}
}
