package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"mention-radar/aggregator"
	"mention-radar/internal/httpclient"
	"mention-radar/models"
)

const defaultBlueskyBaseURL = "https://public.api.bsky.app"

// blueskySearchResponse 는 app.bsky.feed.searchPosts 의 raw 응답 형태다.
type blueskySearchResponse struct {
	Posts []blueskyPost `json:"posts"`
}

type blueskyPost struct {
	URI    string `json:"uri"` // at://did:plc:.../app.bsky.feed.post/<rkey>
	Author struct {
		Handle      string `json:"handle"`
		DisplayName string `json:"displayName"`
		Avatar      string `json:"avatar"`
	} `json:"author"`
	Record struct {
		Text      string    `json:"text"`
		CreatedAt time.Time `json:"createdAt"`
	} `json:"record"`
	ReplyCount  int `json:"replyCount"`
	RepostCount int `json:"repostCount"`
	LikeCount   int `json:"likeCount"`
}

// Bluesky searches the public AppView. No credentials required.
type Bluesky struct {
	client *httpclient.BaseClient
}

func NewBluesky(baseURL string) *Bluesky {
	if baseURL == "" {
		baseURL = defaultBlueskyBaseURL
	}
	return &Bluesky{client: httpclient.NewBaseClient(baseURL)}
}

func (b *Bluesky) Platform() models.Platform { return models.PlatformBluesky }

func (b *Bluesky) Search(ctx context.Context, q aggregator.Query) ([]models.Post, error) {
	query := url.Values{}
	query.Set("q", q.Text)
	query.Set("sort", "latest")
	if !q.Since.IsZero() {
		query.Set("since", q.Since.UTC().Format(time.RFC3339))
	}
	if !q.Until.IsZero() {
		query.Set("until", q.Until.UTC().Format(time.RFC3339))
	}
	if q.Language != "" {
		query.Set("lang", q.Language)
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(min(q.Limit, 100)))
	}

	req, err := b.client.NewRequest(ctx, http.MethodGet, "/xrpc/app.bsky.feed.searchPosts", query, nil)
	if err != nil {
		return nil, err
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &aggregator.StatusError{Platform: "bluesky", StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var raw blueskySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("bluesky: decode response: %w", err)
	}

	posts := make([]models.Post, 0, len(raw.Posts))
	for _, p := range raw.Posts {
		author := p.Author.DisplayName
		if author == "" {
			author = p.Author.Handle
		}
		posts = append(posts, models.Post{
			ID:           p.URI,
			Text:         p.Record.Text,
			Author:       author,
			AuthorHandle: p.Author.Handle,
			AuthorAvatar: p.Author.Avatar,
			Platform:     models.PlatformBluesky,
			CreatedAt:    p.Record.CreatedAt,
			Engagement: models.Engagement{
				Likes:    p.LikeCount,
				Comments: p.ReplyCount,
				Shares:   p.RepostCount,
			},
			URL: blueskyWebURL(p.URI, p.Author.Handle),
		})
	}
	return posts, nil
}

// blueskyWebURL converts an AT-URI into the public web permalink.
func blueskyWebURL(uri, handle string) string {
	// at://did:plc:abc/app.bsky.feed.post/3l3qo2vuowo2b → 마지막 세그먼트가 rkey
	i := strings.LastIndexByte(uri, '/')
	if i < 0 {
		return ""
	}
	return "https://bsky.app/profile/" + handle + "/post/" + uri[i+1:]
}
