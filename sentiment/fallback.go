package sentiment

import (
	"sort"
	"strings"

	"mention-radar/models"
)

// 아주 단순한 감성 사전. AI 폴백 경로에서 다수 라벨을 정하는 용도로만 쓴다.
var positiveWords = []string{
	"love", "great", "amazing", "awesome", "excellent", "good", "best",
	"fantastic", "happy", "win", "success", "beautiful", "recommend",
}

var negativeWords = []string{
	"hate", "terrible", "awful", "worst", "bad", "fail", "scam",
	"broken", "angry", "disappointed", "horrible", "avoid", "crisis",
}

// Fallback builds a deterministic sentiment distribution without calling
// the AI collaborator: a tiny lexicon scan picks the majority label, then
// posts are split 60/30/10 in favor of that label.
//
// The split is applied over posts ordered by their (platform, id) key, so
// repeated invocations over the same set always yield the same labels.
func Fallback(posts []models.Post) Result {
	res := Result{
		PerPost:  make(map[string]models.Sentiment, len(posts)),
		Majority: majorityLabel(posts),
	}
	if len(posts) == 0 {
		return res
	}

	keys := make([]string, len(posts))
	for i, p := range posts {
		keys[i] = p.Key()
	}
	sort.Strings(keys)

	first, second, third := splitLabels(res.Majority)
	n := len(keys)
	firstEnd := n * 6 / 10
	secondEnd := n * 9 / 10
	for i, k := range keys {
		switch {
		case i < firstEnd:
			res.PerPost[k] = first
		case i < secondEnd:
			res.PerPost[k] = second
		default:
			res.PerPost[k] = third
		}
	}
	return res
}

func majorityLabel(posts []models.Post) models.Sentiment {
	pos, neg := 0, 0
	for _, p := range posts {
		text := strings.ToLower(p.Text)
		for _, w := range positiveWords {
			if strings.Contains(text, w) {
				pos++
				break
			}
		}
		for _, w := range negativeWords {
			if strings.Contains(text, w) {
				neg++
				break
			}
		}
	}
	switch {
	case pos > neg:
		return models.SentimentPositive
	case neg > pos:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// splitLabels returns the 60/30/10 label order for a majority label.
func splitLabels(majority models.Sentiment) (models.Sentiment, models.Sentiment, models.Sentiment) {
	switch majority {
	case models.SentimentPositive:
		return models.SentimentPositive, models.SentimentNeutral, models.SentimentNegative
	case models.SentimentNegative:
		return models.SentimentNegative, models.SentimentNeutral, models.SentimentPositive
	default:
		return models.SentimentNeutral, models.SentimentPositive, models.SentimentNegative
	}
}
