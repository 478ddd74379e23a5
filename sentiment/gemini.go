package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"google.golang.org/genai"

	"mention-radar/models"
)

const SYSTEM_INSTRUCTION = `
You are a sentiment classification assistant for social media monitoring. You receive a search query and a numbered list of social media posts mentioning it. Classify the sentiment of each post toward the query subject.
The response MUST be a valid JSON object with two keys:
1.  overall: the majority sentiment of the whole set, one of "positive", "neutral", "negative".
2.  sentiments: an array of objects {"index": <number>, "sentiment": "positive"|"neutral"|"negative"}, one per post, using the post's number from the input.
You MUST NOT wrap the JSON output in a markdown code block (e.g. ` + "```json ... ```" + `). The response should contain ONLY the raw JSON string.
`

// ErrQuotaExhausted 는 분당/일일 호출 한도를 소진해 이번 요청에서 LLM 을 호출하지 않았음을 뜻한다.
var ErrQuotaExhausted = errors.New("sentiment quota exhausted")

// 프롬프트 비대화를 막기 위한 상한. 초과분은 폴백 라벨(neutral)을 받는다.
const (
	maxPostsPerCall = 100
	maxTextLen      = 280
)

type classification struct {
	Overall    string `json:"overall"`
	Sentiments []struct {
		Index     int    `json:"index"`
		Sentiment string `json:"sentiment"`
	} `json:"sentiments"`
}

// GeminiAnalyzer classifies sentiment through the Gemini API.
type GeminiAnalyzer struct {
	apiKey string
	model  string
	quota  *QuotaLimiter
}

// NewGeminiAnalyzer returns nil when no API key is configured; a nil
// analyzer makes the engine use the fallback distribution directly.
func NewGeminiAnalyzer(apiKey, model string, quota *QuotaLimiter) *GeminiAnalyzer {
	if apiKey == "" {
		return nil
	}
	return &GeminiAnalyzer{apiKey: apiKey, model: model, quota: quota}
}

func (a *GeminiAnalyzer) Analyze(ctx context.Context, query string, posts []models.Post) (Result, error) {
	if a.quota != nil {
		ok, err := a.quota.WaitAndReserve(ctx)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			return Result{}, ErrQuotaExhausted
		}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: a.apiKey,
	})
	if err != nil {
		return Result{}, err
	}

	batch := posts
	if len(batch) > maxPostsPerCall {
		batch = batch[:maxPostsPerCall]
	}

	result, err := client.Models.GenerateContent(
		ctx,
		a.model,
		genai.Text(buildPrompt(query, batch)),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: SYSTEM_INSTRUCTION}}},
		},
	)
	if err != nil {
		return Result{}, err
	}

	var parsed classification
	if err := json.Unmarshal([]byte(result.Text()), &parsed); err != nil {
		return Result{}, fmt.Errorf("sentiment: unparseable model response: %w", err)
	}

	res := Result{
		PerPost:  make(map[string]models.Sentiment, len(batch)),
		Majority: parseLabel(parsed.Overall),
	}
	for _, s := range parsed.Sentiments {
		if s.Index < 0 || s.Index >= len(batch) {
			continue
		}
		res.PerPost[batch[s.Index].Key()] = parseLabel(s.Sentiment)
	}
	return res, nil
}

func buildPrompt(query string, posts []models.Post) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n\nPosts:\n", query)
	for i, p := range posts {
		text := truncateRunes(p.Text, maxTextLen)
		fmt.Fprintf(&b, "%d. [%s] %s\n", i, p.Platform, text)
	}
	return b.String()
}

// truncateRunes cuts s to at most max bytes without splitting a UTF-8 rune.
func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

func parseLabel(s string) models.Sentiment {
	switch models.Sentiment(strings.ToLower(strings.TrimSpace(s))) {
	case models.SentimentPositive:
		return models.SentimentPositive
	case models.SentimentNegative:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}
