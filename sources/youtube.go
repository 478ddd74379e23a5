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

const defaultYouTubeBaseURL = "https://www.googleapis.com"

// youtubeSearchResponse 는 Data API v3 search.list 의 raw 응답 형태다.
type youtubeSearchResponse struct {
	Items []youtubeItem `json:"items"`
}

type youtubeItem struct {
	ID struct {
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		Title        string    `json:"title"`
		Description  string    `json:"description"`
		ChannelTitle string    `json:"channelTitle"`
		PublishedAt  time.Time `json:"publishedAt"`
		Thumbnails   struct {
			High struct {
				URL string `json:"url"`
			} `json:"high"`
		} `json:"thumbnails"`
	} `json:"snippet"`
}

// YouTube searches via the Data API v3. Engagement counters come from a
// separate videos.list endpoint and are not fetched here; the scorer treats
// missing engagement as zero.
type YouTube struct {
	client *httpclient.BaseClient
	apiKey string
}

func NewYouTube(apiKey, baseURL string) *YouTube {
	if baseURL == "" {
		baseURL = defaultYouTubeBaseURL
	}
	return &YouTube{client: httpclient.NewBaseClient(baseURL), apiKey: apiKey}
}

func (y *YouTube) Platform() models.Platform { return models.PlatformYouTube }

func (y *YouTube) Search(ctx context.Context, q aggregator.Query) ([]models.Post, error) {
	if y.apiKey == "" {
		return nil, aggregator.ErrNotConfigured
	}

	query := url.Values{}
	query.Set("part", "snippet")
	query.Set("type", "video")
	query.Set("order", "date")
	query.Set("q", q.Text)
	query.Set("key", y.apiKey)
	if !q.Since.IsZero() {
		query.Set("publishedAfter", q.Since.UTC().Format(time.RFC3339))
	}
	if q.Language != "" {
		query.Set("relevanceLanguage", q.Language)
	}
	if q.Limit > 0 {
		query.Set("maxResults", strconv.Itoa(min(q.Limit, 50)))
	}

	req, err := y.client.NewRequest(ctx, http.MethodGet, "/youtube/v3/search", query, nil)
	if err != nil {
		return nil, err
	}

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &aggregator.StatusError{Platform: "youtube", StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var raw youtubeSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("youtube: decode response: %w", err)
	}

	posts := make([]models.Post, 0, len(raw.Items))
	for _, item := range raw.Items {
		if item.ID.VideoID == "" {
			continue
		}
		text := item.Snippet.Title
		if item.Snippet.Description != "" {
			text = item.Snippet.Title + "\n\n" + item.Snippet.Description
		}
		posts = append(posts, models.Post{
			ID:           item.ID.VideoID,
			Text:         text,
			Author:       item.Snippet.ChannelTitle,
			AuthorHandle: item.Snippet.ChannelTitle,
			Platform:     models.PlatformYouTube,
			CreatedAt:    item.Snippet.PublishedAt,
			URL:          "https://www.youtube.com/watch?v=" + item.ID.VideoID,
			Thumbnail:    item.Snippet.Thumbnails.High.URL,
		})
	}
	return posts, nil
}
