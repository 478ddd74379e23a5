package aggregator

import (
	"time"

	"mention-radar/models"
	"mention-radar/scoring"
)

// SentimentCounts 는 응답 요약에 들어가는 감성 분포다.
type SentimentCounts struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// TimeRange 는 결과가 걸쳐 있는 시간 구간이다.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// CredibilityStats 는 응답 요약에 들어가는 신뢰도 통계다.
type CredibilityStats struct {
	AverageScore  float64 `json:"averageScore"`
	Tier1Count    int     `json:"tier1Count"`
	VerifiedCount int     `json:"verifiedCount"`
}

// Summary aggregates the response statistics. Platforms always contains an
// entry for every requested platform, including zero counts, so callers can
// tell "asked but empty" apart from "never asked".
type Summary struct {
	TotalPosts  int                     `json:"totalPosts"`
	Platforms   map[models.Platform]int `json:"platforms"`
	Sentiment   SentimentCounts         `json:"sentiment"`
	TimeRange   TimeRange               `json:"timeRange"`
	Credibility CredibilityStats        `json:"credibility"`
}

// buildSummary computes the summary over the final sorted post set. The time
// range is the span of the returned posts; with no posts it falls back to
// the requested window.
func buildSummary(requested []models.Platform, posts []models.Post, since, until time.Time) Summary {
	s := Summary{
		TotalPosts: len(posts),
		Platforms:  make(map[models.Platform]int, len(requested)),
		TimeRange:  TimeRange{Start: since, End: until},
	}
	for _, p := range requested {
		s.Platforms[p] = 0
	}

	var start, end time.Time
	var scoreSum float64
	for _, p := range posts {
		s.Platforms[p.Platform]++

		switch p.Sentiment {
		case models.SentimentPositive:
			s.Sentiment.Positive++
		case models.SentimentNegative:
			s.Sentiment.Negative++
		default:
			s.Sentiment.Neutral++
		}

		if start.IsZero() || p.CreatedAt.Before(start) {
			start = p.CreatedAt
		}
		if end.IsZero() || p.CreatedAt.After(end) {
			end = p.CreatedAt
		}

		score := scoring.DefaultCredibility
		if p.CredibilityScore != nil {
			score = *p.CredibilityScore
		}
		scoreSum += score
		if score >= scoring.Tier1Threshold {
			s.Credibility.Tier1Count++
		}
		if p.AuthorMetadata != nil && p.AuthorMetadata.Verified {
			s.Credibility.VerifiedCount++
		}
	}

	if len(posts) > 0 {
		s.TimeRange = TimeRange{Start: start, End: end}
		s.Credibility.AverageScore = scoreSum / float64(len(posts))
	}
	return s
}
