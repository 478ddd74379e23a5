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

// TikTok은 경쟁 관계의 서드파티 프로바이더 두 곳을 통해 검색한다. 응답 형태가
// 서로 다르므로 프로바이더별 raw 타입을 분리해 두고 공통 Post 로만 합류시킨다.
// 두 어댑터를 모두 등록하면 엔진의 병합 스테이지가 동시에 돌리고 중복을 제거한다.

const (
	defaultTikTokPrimaryBaseURL = "https://api.tikapi.io"
	defaultTikTokBackupBaseURL  = "https://api.tokscrape.com"
)

// ---- provider A (primary) ----

// tiktokPrimaryResponse: 평평한 videos 배열. 비어 있거나 아예 없으면 빈 결과다.
type tiktokPrimaryResponse struct {
	Videos []tiktokPrimaryVideo `json:"videos"`
}

type tiktokPrimaryVideo struct {
	ID           string `json:"id"`
	Description  string `json:"description"`
	CreateTime   int64  `json:"create_time"`
	ShareURL     string `json:"share_url"`
	CoverURL     string `json:"cover_url"`
	LikeCount    int    `json:"like_count"`
	CommentCount int    `json:"comment_count"`
	ShareCount   int    `json:"share_count"`
	PlayCount    int    `json:"play_count"`
	Author       struct {
		UniqueID      string `json:"unique_id"`
		Nickname      string `json:"nickname"`
		AvatarURL     string `json:"avatar_url"`
		FollowerCount int    `json:"follower_count"`
		Verified      bool   `json:"verified"`
	} `json:"author"`
}

// TikTokPrimary is provider A. Its version of a video wins when both
// providers return the same id.
type TikTokPrimary struct {
	client *httpclient.BaseClient
	apiKey string
}

func NewTikTokPrimary(apiKey, baseURL string) *TikTokPrimary {
	if baseURL == "" {
		baseURL = defaultTikTokPrimaryBaseURL
	}
	return &TikTokPrimary{client: httpclient.NewBaseClient(baseURL), apiKey: apiKey}
}

func (t *TikTokPrimary) Platform() models.Platform { return models.PlatformTikTok }

func (t *TikTokPrimary) Search(ctx context.Context, q aggregator.Query) ([]models.Post, error) {
	if t.apiKey == "" {
		return nil, aggregator.ErrNotConfigured
	}

	query := url.Values{}
	query.Set("query", q.Text)
	if q.Limit > 0 {
		query.Set("count", fmt.Sprintf("%d", q.Limit))
	}

	req, err := t.client.NewRequest(ctx, http.MethodGet, "/public/search/videos", query, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Key", t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &aggregator.StatusError{Platform: "tiktok", StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var raw tiktokPrimaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("tiktok: decode primary response: %w", err)
	}

	posts := make([]models.Post, 0, len(raw.Videos))
	for _, v := range raw.Videos {
		createdAt := time.Unix(v.CreateTime, 0).UTC()
		if outsideWindow(createdAt, q) {
			continue
		}
		views := v.PlayCount
		posts = append(posts, models.Post{
			ID:           v.ID,
			Text:         v.Description,
			Author:       v.Author.Nickname,
			AuthorHandle: v.Author.UniqueID,
			AuthorAvatar: v.Author.AvatarURL,
			AuthorMetadata: &models.AuthorMetadata{
				Followers: v.Author.FollowerCount,
				Verified:  v.Author.Verified,
			},
			Platform:  models.PlatformTikTok,
			CreatedAt: createdAt,
			Engagement: models.Engagement{
				Likes:    v.LikeCount,
				Comments: v.CommentCount,
				Shares:   v.ShareCount,
				Views:    &views,
			},
			URL:       v.ShareURL,
			Thumbnail: v.CoverURL,
		})
	}
	return posts, nil
}

// ---- provider B (backup) ----

// tiktokBackupResponse: videos 배열이 data 아래에 중첩되어 있고 필드 이름도 다르다.
type tiktokBackupResponse struct {
	Data struct {
		Videos []tiktokBackupVideo `json:"videos"`
	} `json:"data"`
}

type tiktokBackupVideo struct {
	VideoID    string `json:"video_id"`
	Title      string `json:"title"`
	CreatedAt  string `json:"created_at"` // RFC 3339
	Link       string `json:"link"`
	Thumb      string `json:"thumb"`
	Statistics struct {
		DiggCount    int `json:"digg_count"`
		CommentCount int `json:"comment_count"`
		ShareCount   int `json:"share_count"`
		PlayCount    int `json:"play_count"`
	} `json:"statistics"`
	Creator struct {
		Handle    string `json:"handle"`
		Name      string `json:"name"`
		Avatar    string `json:"avatar"`
		Followers int    `json:"followers"`
	} `json:"creator"`
}

// TikTokBackup is provider B, merged after provider A.
type TikTokBackup struct {
	client *httpclient.BaseClient
	apiKey string
}

func NewTikTokBackup(apiKey, baseURL string) *TikTokBackup {
	if baseURL == "" {
		baseURL = defaultTikTokBackupBaseURL
	}
	return &TikTokBackup{client: httpclient.NewBaseClient(baseURL), apiKey: apiKey}
}

func (t *TikTokBackup) Platform() models.Platform { return models.PlatformTikTok }

func (t *TikTokBackup) Search(ctx context.Context, q aggregator.Query) ([]models.Post, error) {
	if t.apiKey == "" {
		return nil, aggregator.ErrNotConfigured
	}

	query := url.Values{}
	query.Set("keyword", q.Text)
	query.Set("token", t.apiKey)

	req, err := t.client.NewRequest(ctx, http.MethodGet, "/v1/video/search", query, nil)
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
		return nil, &aggregator.StatusError{Platform: "tiktok", StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var raw tiktokBackupResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("tiktok: decode backup response: %w", err)
	}

	posts := make([]models.Post, 0, len(raw.Data.Videos))
	for _, v := range raw.Data.Videos {
		createdAt, err := time.Parse(time.RFC3339, v.CreatedAt)
		if err != nil {
			continue
		}
		if outsideWindow(createdAt, q) {
			continue
		}
		views := v.Statistics.PlayCount
		posts = append(posts, models.Post{
			ID:           v.VideoID,
			Text:         v.Title,
			Author:       v.Creator.Name,
			AuthorHandle: v.Creator.Handle,
			AuthorAvatar: v.Creator.Avatar,
			AuthorMetadata: &models.AuthorMetadata{
				Followers: v.Creator.Followers,
			},
			Platform:  models.PlatformTikTok,
			CreatedAt: createdAt,
			Engagement: models.Engagement{
				Likes:    v.Statistics.DiggCount,
				Comments: v.Statistics.CommentCount,
				Shares:   v.Statistics.ShareCount,
				Views:    &views,
			},
			URL:       v.Link,
			Thumbnail: v.Thumb,
		})
		if q.Limit > 0 && len(posts) >= q.Limit {
			break
		}
	}
	return posts, nil
}

// outsideWindow reports whether createdAt falls outside the requested
// lookback window. Providers without server-side time filters are filtered
// here after mapping.
func outsideWindow(createdAt time.Time, q aggregator.Query) bool {
	if !q.Since.IsZero() && createdAt.Before(q.Since) {
		return true
	}
	if !q.Until.IsZero() && createdAt.After(q.Until) {
		return true
	}
	return false
}
