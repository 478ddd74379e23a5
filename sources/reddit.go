package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"mention-radar/aggregator"
	"mention-radar/internal/httpclient"
	"mention-radar/models"
)

const defaultRedditBaseURL = "https://www.reddit.com"

// redditListing 은 Reddit 검색 API의 raw 응답 형태다. children 이 배열인
// 정상 리스팅과, 숫자 키 오브젝트("0", "1", ...)로 내려오는 변종이 둘 다
// 관측되어 있어서 children 을 두 단계로 디코딩한다.
type redditListing struct {
	Data struct {
		Children json.RawMessage `json:"children"`
	} `json:"data"`
}

type redditChild struct {
	Data redditPost `json:"data"`
}

type redditPost struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	SelfText    string  `json:"selftext"`
	Author      string  `json:"author"`
	Subreddit   string  `json:"subreddit"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	Permalink   string  `json:"permalink"`
	Thumbnail   string  `json:"thumbnail"`
	Stickied    bool    `json:"stickied"`
}

// Reddit searches Reddit's public JSON search endpoint. No API key needed.
type Reddit struct {
	client *httpclient.BaseClient
}

func NewReddit(baseURL string) *Reddit {
	if baseURL == "" {
		baseURL = defaultRedditBaseURL
	}
	return &Reddit{client: httpclient.NewBaseClient(baseURL)}
}

func (r *Reddit) Platform() models.Platform { return models.PlatformReddit }

func (r *Reddit) Search(ctx context.Context, q aggregator.Query) ([]models.Post, error) {
	query := url.Values{}
	query.Set("q", q.Text)
	query.Set("sort", "new")
	query.Set("t", redditTimeParam(q))
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}

	req, err := r.client.NewRequest(ctx, http.MethodGet, "/search.json", query, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "mention-radar/1.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &aggregator.StatusError{Platform: "reddit", StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var raw redditListing
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("reddit: decode response: %w", err)
	}

	children, err := decodeRedditChildren(raw.Data.Children)
	if err != nil {
		return nil, err
	}

	posts := make([]models.Post, 0, len(children))
	for _, c := range children {
		p := c.Data
		if p.Stickied {
			continue
		}
		createdAt := time.Unix(int64(p.CreatedUTC), 0).UTC()
		if outsideWindow(createdAt, q) {
			continue
		}
		text := p.Title
		if p.SelfText != "" {
			text = p.Title + "\n\n" + p.SelfText
		}
		thumbnail := p.Thumbnail
		// Reddit 은 썸네일이 없을 때 "self"/"default" 같은 플레이스홀더 문자열을 내려준다.
		if !strings.HasPrefix(thumbnail, "http") {
			thumbnail = ""
		}
		posts = append(posts, models.Post{
			ID:           p.ID,
			Text:         text,
			Author:       p.Author,
			AuthorHandle: p.Author,
			Platform:     models.PlatformReddit,
			CreatedAt:    createdAt,
			Engagement: models.Engagement{
				Likes:    p.Score,
				Comments: p.NumComments,
			},
			URL:       "https://www.reddit.com" + p.Permalink,
			Thumbnail: thumbnail,
		})
	}
	return posts, nil
}

// decodeRedditChildren handles both observed children encodings: a plain
// array, and an object keyed by stringified indexes. The numeric-key variant
// is re-ordered by key so the mapping stays deterministic.
func decodeRedditChildren(raw json.RawMessage) ([]redditChild, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var asArray []redditChild
	if err := json.Unmarshal(raw, &asArray); err == nil {
		return asArray, nil
	}

	var asMap map[string]redditChild
	if err := json.Unmarshal(raw, &asMap); err != nil {
		return nil, fmt.Errorf("reddit: children is neither array nor object: %w", err)
	}

	keys := make([]int, 0, len(asMap))
	byIndex := make(map[int]redditChild, len(asMap))
	for k, v := range asMap {
		i, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		keys = append(keys, i)
		byIndex[i] = v
	}
	sort.Ints(keys)

	out := make([]redditChild, 0, len(keys))
	for _, i := range keys {
		out = append(out, byIndex[i])
	}
	return out, nil
}

// redditTimeParam maps the lookback window onto Reddit's "t" parameter.
func redditTimeParam(q aggregator.Query) string {
	if q.Since.IsZero() {
		return "week"
	}
	span := q.Until.Sub(q.Since)
	switch {
	case span <= 24*time.Hour:
		return "day"
	case span <= 7*24*time.Hour:
		return "week"
	case span <= 31*24*time.Hour:
		return "month"
	default:
		return "year"
	}
}
