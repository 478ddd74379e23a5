package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mention-radar/aggregator"
	"mention-radar/models"
)

const redditArrayBody = `{
	"data": {
		"children": [
			{"data": {"id": "r1", "title": "Go 1.25 released", "selftext": "notes inside", "author": "gopher", "subreddit": "golang", "score": 321, "num_comments": 57, "created_utc": 1772200800, "permalink": "/r/golang/comments/r1/", "thumbnail": "https://a.thumbs.redditmedia.com/r1.jpg"}},
			{"data": {"id": "r2", "title": "Weekly thread", "author": "automod", "stickied": true, "created_utc": 1772200800, "permalink": "/r/golang/comments/r2/"}},
			{"data": {"id": "r3", "title": "No thumbnail here", "author": "casual", "created_utc": 1772204400, "permalink": "/r/golang/comments/r3/", "thumbnail": "self"}}
		]
	}
}`

func redditQueryWindow() aggregator.Query {
	return aggregator.Query{
		Text:  "golang",
		Since: time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC),
		Until: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Limit: 50,
	}
}

func TestRedditSearchParsesArrayChildren(t *testing.T) {
	var gotUA, gotT string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotT = r.URL.Query().Get("t")
		w.Write([]byte(redditArrayBody))
	}))
	defer srv.Close()

	reddit := NewReddit(srv.URL)
	posts, err := reddit.Search(context.Background(), redditQueryWindow())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotUA == "" {
		t.Fatalf("reddit requires a User-Agent header")
	}
	if gotT != "month" {
		t.Fatalf("a 9-day window should map onto t=month, got %q", gotT)
	}

	// stickied 포스트는 제외된다.
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	p := posts[0]
	if p.ID != "r1" || p.Platform != models.PlatformReddit {
		t.Fatalf("unexpected identity: %s %s", p.Platform, p.ID)
	}
	if p.Text != "Go 1.25 released\n\nnotes inside" {
		t.Fatalf("selftext should append to title, got %q", p.Text)
	}
	if p.Engagement.Likes != 321 || p.Engagement.Comments != 57 {
		t.Fatalf("unexpected engagement: %+v", p.Engagement)
	}
	if p.URL != "https://www.reddit.com/r/golang/comments/r1/" {
		t.Fatalf("unexpected url %q", p.URL)
	}
	// "self"/"default" 플레이스홀더 썸네일은 비워진다.
	if posts[1].Thumbnail != "" {
		t.Fatalf("placeholder thumbnail must be dropped, got %q", posts[1].Thumbnail)
	}
}

func TestRedditSearchParsesNumericKeyedChildren(t *testing.T) {
	// 관측된 변종: children 이 배열이 아니라 "0", "1" 키의 오브젝트로 내려온다.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"data": {
				"children": {
					"1": {"data": {"id": "second", "title": "second post", "author": "b", "created_utc": 1772200800, "permalink": "/r/golang/comments/second/"}},
					"0": {"data": {"id": "first", "title": "first post", "author": "a", "created_utc": 1772200800, "permalink": "/r/golang/comments/first/"}}
				}
			}
		}`))
	}))
	defer srv.Close()

	reddit := NewReddit(srv.URL)
	posts, err := reddit.Search(context.Background(), redditQueryWindow())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	// 숫자 키 순서대로 재정렬된다.
	if posts[0].ID != "first" || posts[1].ID != "second" {
		t.Fatalf("expected key-ordered posts, got %s then %s", posts[0].ID, posts[1].ID)
	}
}

func TestRedditSearchFiltersOutsideWindow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"data": {
				"children": [
					{"data": {"id": "recent", "title": "in window", "author": "a", "created_utc": 1772200800, "permalink": "/p/recent/"}},
					{"data": {"id": "ancient", "title": "out of window", "author": "b", "created_utc": 1000000000, "permalink": "/p/ancient/"}}
				]
			}
		}`))
	}))
	defer srv.Close()

	reddit := NewReddit(srv.URL)
	posts, err := reddit.Search(context.Background(), redditQueryWindow())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != "recent" {
		t.Fatalf("expected only the in-window post, got %v", posts)
	}
}

func TestDecodeRedditChildrenEmpty(t *testing.T) {
	children, err := decodeRedditChildren(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(children) != 0 {
		t.Fatalf("expected no children, got %d", len(children))
	}
}
