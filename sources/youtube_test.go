package sources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mention-radar/aggregator"
	"mention-radar/models"
)

func TestYouTubeSearchParsesResponse(t *testing.T) {
	var gotPart, gotOrder, gotAfter, gotMax string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPart = r.URL.Query().Get("part")
		gotOrder = r.URL.Query().Get("order")
		gotAfter = r.URL.Query().Get("publishedAfter")
		gotMax = r.URL.Query().Get("maxResults")
		w.Write([]byte(`{
			"items": [
				{
					"id": {"videoId": "abc123"},
					"snippet": {
						"title": "Go generics deep dive",
						"description": "everything about type parameters",
						"channelTitle": "Go Channel",
						"publishedAt": "2026-02-27T14:00:00Z",
						"thumbnails": {"high": {"url": "https://i.ytimg.com/vi/abc123/hq.jpg"}}
					}
				},
				{
					"id": {},
					"snippet": {"title": "channel result without videoId"}
				}
			]
		}`))
	}))
	defer srv.Close()

	y := NewYouTube("yt-key", srv.URL)
	posts, err := y.Search(context.Background(), tiktokQueryWindow())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPart != "snippet" || gotOrder != "date" {
		t.Fatalf("unexpected request params part=%q order=%q", gotPart, gotOrder)
	}
	if gotAfter != "2026-02-20T00:00:00Z" {
		t.Fatalf("unexpected publishedAfter %q", gotAfter)
	}
	if gotMax != "50" {
		t.Fatalf("unexpected maxResults %q", gotMax)
	}

	// videoId 가 없는 항목은 건너뛴다.
	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}
	p := posts[0]
	if p.ID != "abc123" || p.Platform != models.PlatformYouTube {
		t.Fatalf("unexpected identity: %s %s", p.Platform, p.ID)
	}
	if p.URL != "https://www.youtube.com/watch?v=abc123" {
		t.Fatalf("unexpected url %q", p.URL)
	}
	if p.Text != "Go generics deep dive\n\neverything about type parameters" {
		t.Fatalf("unexpected text %q", p.Text)
	}
	// search.list 는 시청/좋아요 수를 주지 않는다. 0 으로 남는다.
	if p.Engagement.Total() != 0 {
		t.Fatalf("expected zero engagement, got %+v", p.Engagement)
	}
}

func TestYouTubeSearchRequiresAPIKey(t *testing.T) {
	y := NewYouTube("", "")
	_, err := y.Search(context.Background(), tiktokQueryWindow())
	if !errors.Is(err, aggregator.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
