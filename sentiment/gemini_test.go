package sentiment

import (
	"strings"
	"testing"
	"unicode/utf8"

	"mention-radar/models"
)

func TestNewGeminiAnalyzerWithoutKeyIsNil(t *testing.T) {
	if a := NewGeminiAnalyzer("", "gemini-2.0-flash", nil); a != nil {
		t.Fatalf("expected nil analyzer without an api key")
	}
	if a := NewGeminiAnalyzer("key", "gemini-2.0-flash", nil); a == nil {
		t.Fatalf("expected an analyzer with an api key")
	}
}

func TestBuildPromptNumbersAndTruncates(t *testing.T) {
	long := strings.Repeat("x", maxTextLen+50)
	posts := []models.Post{
		{ID: "a", Platform: models.PlatformX, Text: "short one"},
		{ID: "b", Platform: models.PlatformReddit, Text: long},
	}

	prompt := buildPrompt("climate change", posts)
	if !strings.Contains(prompt, "Query: climate change") {
		t.Fatalf("prompt must carry the query, got %q", prompt)
	}
	if !strings.Contains(prompt, "0. [x] short one") {
		t.Fatalf("posts must be numbered from 0 with their platform, got %q", prompt)
	}
	if strings.Contains(prompt, long) {
		t.Fatalf("post text must be truncated to %d chars", maxTextLen)
	}
	if !strings.Contains(prompt, "1. [reddit] "+long[:maxTextLen]) {
		t.Fatalf("expected the truncated reddit text in the prompt")
	}
}

func TestTruncateRunesKeepsValidUTF8(t *testing.T) {
	// "한" 은 3바이트라 280바이트 경계가 룬 중간에 걸린다.
	long := strings.Repeat("한", maxTextLen)
	got := truncateRunes(long, maxTextLen)
	if !utf8.ValidString(got) {
		t.Fatalf("truncation must not split a rune, got %q", got)
	}
	if len(got) > maxTextLen {
		t.Fatalf("expected at most %d bytes, got %d", maxTextLen, len(got))
	}
	if got != strings.Repeat("한", maxTextLen/3) {
		t.Fatalf("expected a whole-rune prefix, got %q", got)
	}
	if s := truncateRunes("short", maxTextLen); s != "short" {
		t.Fatalf("short strings must pass through, got %q", s)
	}
}

func TestParseLabel(t *testing.T) {
	cases := map[string]models.Sentiment{
		"positive":  models.SentimentPositive,
		" Positive": models.SentimentPositive,
		"NEGATIVE":  models.SentimentNegative,
		"neutral":   models.SentimentNeutral,
		"mixed":     models.SentimentNeutral,
		"":          models.SentimentNeutral,
	}
	for in, want := range cases {
		if got := parseLabel(in); got != want {
			t.Fatalf("parseLabel(%q) = %s, want %s", in, got, want)
		}
	}
}
