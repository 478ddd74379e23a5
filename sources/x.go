package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mention-radar/aggregator"
	"mention-radar/internal/httpclient"
	"mention-radar/models"
)

const defaultXBaseURL = "https://api.twitterapi.io"

// xTimeLayout 은 X API가 createdAt 에 쓰는 레거시 트위터 포맷이다.
const xTimeLayout = "Mon Jan 02 15:04:05 -0700 2006"

// xSearchResponse 는 advanced search 엔드포인트의 raw 응답 형태다.
type xSearchResponse struct {
	Tweets []xTweet `json:"tweets"`
}

type xTweet struct {
	ID           string  `json:"id"`
	Text         string  `json:"text"`
	URL          string  `json:"url"`
	CreatedAt    string  `json:"createdAt"`
	LikeCount    int     `json:"likeCount"`
	ReplyCount   int     `json:"replyCount"`
	RetweetCount int     `json:"retweetCount"`
	ViewCount    *int    `json:"viewCount"`
	Author       xAuthor `json:"author"`
}

type xAuthor struct {
	UserName       string `json:"userName"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profilePicture"`
	Followers      int    `json:"followers"`
	IsBlueVerified bool   `json:"isBlueVerified"`
}

// X searches X/Twitter through a third-party search API.
type X struct {
	client *httpclient.BaseClient
	apiKey string
}

// NewX creates the X adapter. baseURL is overridable for tests; empty means
// the production endpoint.
func NewX(apiKey, baseURL string) *X {
	if baseURL == "" {
		baseURL = defaultXBaseURL
	}
	return &X{
		client: httpclient.NewBaseClient(baseURL),
		apiKey: apiKey,
	}
}

func (x *X) Platform() models.Platform { return models.PlatformX }

func (x *X) Search(ctx context.Context, q aggregator.Query) ([]models.Post, error) {
	if x.apiKey == "" {
		return nil, aggregator.ErrNotConfigured
	}

	query := url.Values{}
	query.Set("query", buildXQuery(q))
	query.Set("queryType", "Latest")

	req, err := x.client.NewRequest(ctx, http.MethodGet, "/twitter/tweet/advanced_search", query, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Key", x.apiKey)

	resp, err := x.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &aggregator.StatusError{Platform: "x", StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var raw xSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("x: decode response: %w", err)
	}

	posts := make([]models.Post, 0, len(raw.Tweets))
	for _, t := range raw.Tweets {
		createdAt, err := time.Parse(xTimeLayout, t.CreatedAt)
		if err != nil {
			// 타임스탬프가 깨진 트윗은 건너뛴다.
			continue
		}
		posts = append(posts, models.Post{
			ID:           t.ID,
			Text:         t.Text,
			Author:       t.Author.Name,
			AuthorHandle: t.Author.UserName,
			AuthorAvatar: t.Author.ProfilePicture,
			AuthorMetadata: &models.AuthorMetadata{
				Followers: t.Author.Followers,
				Verified:  t.Author.IsBlueVerified,
			},
			Platform:  models.PlatformX,
			CreatedAt: createdAt,
			Engagement: models.Engagement{
				Likes:    t.LikeCount,
				Comments: t.ReplyCount,
				Shares:   t.RetweetCount,
				Views:    t.ViewCount,
			},
			URL: t.URL,
		})
		if q.Limit > 0 && len(posts) >= q.Limit {
			break
		}
	}
	return posts, nil
}

// buildXQuery composes the advanced-search operator string: the user query
// plus since:/until:/lang: operators derived from the normalized query.
func buildXQuery(q aggregator.Query) string {
	const opLayout = "2006-01-02_15:04:05_UTC"
	parts := []string{q.Text}
	if !q.Since.IsZero() {
		parts = append(parts, "since:"+q.Since.UTC().Format(opLayout))
	}
	if !q.Until.IsZero() {
		parts = append(parts, "until:"+q.Until.UTC().Format(opLayout))
	}
	if q.Language != "" {
		parts = append(parts, "lang:"+q.Language)
	}
	return strings.Join(parts, " ")
}
