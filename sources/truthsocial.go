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

	"golang.org/x/net/html"

	"mention-radar/aggregator"
	"mention-radar/internal/httpclient"
	"mention-radar/models"
)

const defaultTruthSocialBaseURL = "https://truthsocial.com"

// truthSearchResponse 는 Mastodon 계열 v2 search 의 raw 응답 형태다.
type truthSearchResponse struct {
	Statuses []truthStatus `json:"statuses"`
}

type truthStatus struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"` // HTML
	CreatedAt time.Time `json:"created_at"`
	URL       string    `json:"url"`
	Account   struct {
		Username       string `json:"username"`
		DisplayName    string `json:"display_name"`
		Avatar         string `json:"avatar"`
		FollowersCount int    `json:"followers_count"`
		Verified       bool   `json:"verified"`
	} `json:"account"`
	RepliesCount    int `json:"replies_count"`
	ReblogsCount    int `json:"reblogs_count"`
	FavouritesCount int `json:"favourites_count"`
}

// TruthSocial searches the Mastodon-compatible v2 search endpoint.
type TruthSocial struct {
	client *httpclient.BaseClient
}

func NewTruthSocial(baseURL string) *TruthSocial {
	if baseURL == "" {
		baseURL = defaultTruthSocialBaseURL
	}
	return &TruthSocial{client: httpclient.NewBaseClient(baseURL)}
}

func (t *TruthSocial) Platform() models.Platform { return models.PlatformTruthSocial }

func (t *TruthSocial) Search(ctx context.Context, q aggregator.Query) ([]models.Post, error) {
	query := url.Values{}
	query.Set("q", q.Text)
	query.Set("type", "statuses")
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(min(q.Limit, 40)))
	}

	req, err := t.client.NewRequest(ctx, http.MethodGet, "/api/v2/search", query, nil)
	if err != nil {
		return nil, err
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &aggregator.StatusError{Platform: "truthsocial", StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var raw truthSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("truthsocial: decode response: %w", err)
	}

	posts := make([]models.Post, 0, len(raw.Statuses))
	for _, s := range raw.Statuses {
		if outsideWindow(s.CreatedAt, q) {
			continue
		}
		author := s.Account.DisplayName
		if author == "" {
			author = s.Account.Username
		}
		posts = append(posts, models.Post{
			ID:           s.ID,
			Text:         stripHTML(s.Content),
			Author:       author,
			AuthorHandle: s.Account.Username,
			AuthorAvatar: s.Account.Avatar,
			AuthorMetadata: &models.AuthorMetadata{
				Followers: s.Account.FollowersCount,
				Verified:  s.Account.Verified,
			},
			Platform:  models.PlatformTruthSocial,
			CreatedAt: s.CreatedAt,
			Engagement: models.Engagement{
				Likes:    s.FavouritesCount,
				Comments: s.RepliesCount,
				Shares:   s.ReblogsCount,
			},
			URL: s.URL,
		})
	}
	return posts, nil
}

// stripHTML flattens Mastodon status HTML into plain text. The parser decodes
// entities; <br> and closing <p> become newlines, all other tags are dropped.
func stripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			if n.Data == "br" {
				b.WriteByte('\n')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && n.Data == "p" {
			b.WriteByte('\n')
		}
	}
	walk(doc)

	return strings.TrimSpace(b.String())
}
