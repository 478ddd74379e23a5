package dto

import (
	"mention-radar/aggregator"
	"mention-radar/models"
)

// SearchRequestDTO is the inbound body of POST /search.
// sources 는 플랫폼 id 목록이고, timeFilter/sort 는 문자열 enum 으로 받은 뒤
// 서비스 레이어에서 파싱한다.
type SearchRequestDTO struct {
	Query      string   `json:"query" example:"climate change"`
	Sources    []string `json:"sources" example:"x,tiktok,reddit"`
	TimeFilter string   `json:"timeFilter" example:"7d"`
	Language   string   `json:"language,omitempty" example:"en"`
	Sort       string   `json:"sort,omitempty" example:"relevance"`
}

// SearchResponseDTO is the assembled aggregation response.
type SearchResponseDTO struct {
	Posts      []models.Post      `json:"posts"`
	Summary    aggregator.Summary `json:"summary"`
	Query      string             `json:"query"`
	Sort       string             `json:"sort"`
	Warnings   []string           `json:"warnings,omitempty"`
	DurationMs int64              `json:"durationMs"`
}

// MapSearchResponse flattens an engine result into the transport shape.
func MapSearchResponse(r *aggregator.Result) SearchResponseDTO {
	return SearchResponseDTO{
		Posts:      r.Posts,
		Summary:    r.Summary,
		Query:      r.Query,
		Sort:       string(r.Sort),
		Warnings:   r.Warnings,
		DurationMs: r.Duration.Milliseconds(),
	}
}
