package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"mention-radar/models"
)

func TestTruthSocialSearchParsesAndStripsHTML(t *testing.T) {
	var gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.URL.Query().Get("type")
		w.Write([]byte(`{
			"statuses": [
				{
					"id": "998877",
					"content": "<p>First line &amp; more</p><p>Second line</p>",
					"created_at": "2026-02-27T14:00:00Z",
					"url": "https://truthsocial.com/@user/998877",
					"account": {"username": "user", "display_name": "User Name", "followers_count": 1234, "verified": true},
					"replies_count": 3,
					"reblogs_count": 4,
					"favourites_count": 5
				}
			]
		}`))
	}))
	defer srv.Close()

	ts := NewTruthSocial(srv.URL)
	posts, err := ts.Search(context.Background(), tiktokQueryWindow())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotType != "statuses" {
		t.Fatalf("expected type=statuses, got %q", gotType)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}
	p := posts[0]
	if p.Platform != models.PlatformTruthSocial || p.ID != "998877" {
		t.Fatalf("unexpected identity: %s %s", p.Platform, p.ID)
	}
	if p.Text != "First line & more\nSecond line" {
		t.Fatalf("unexpected stripped text %q", p.Text)
	}
	if p.AuthorMetadata == nil || !p.AuthorMetadata.Verified {
		t.Fatalf("expected verified author metadata, got %+v", p.AuthorMetadata)
	}
	if p.Engagement.Likes != 5 || p.Engagement.Comments != 3 || p.Engagement.Shares != 4 {
		t.Fatalf("unexpected engagement: %+v", p.Engagement)
	}
}

func TestStripHTML(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"<p>hello</p>", "hello"},
		{"<p>a</p><p>b</p>", "a\nb"},
		{"line1<br>line2", "line1\nline2"},
		{"&lt;tag&gt; &quot;quoted&quot; it&#39;s", `<tag> "quoted" it's`},
		{`<a href="https://x.y">link text</a>`, "link text"},
		{"plain", "plain"},
		// 숫자 엔티티와 &nbsp; 도 디코딩되어야 한다.
		{"<p>It&#8217;s fine</p>", "It’s fine"},
		{"a&nbsp;b", "a b"},
		// '>' 가 attribute 값 안에 있어도 본문으로 새면 안 된다.
		{`<a href="https://x.y/?q=1>2">link</a>`, "link"},
		// 이중 이스케이프는 한 번만 풀린다.
		{"&amp;lt;tag&amp;gt;", "&lt;tag&gt;"},
	}
	for _, tc := range cases {
		if got := stripHTML(tc.in); got != tc.want {
			t.Fatalf("stripHTML(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
