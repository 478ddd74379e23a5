// Package sentiment classifies the merged mention set with Gemini and
// degrades to a deterministic heuristic when the AI collaborator is missing,
// over quota, or failing. The engine calls it exactly once per request, over
// the whole deduplicated set, to bound cost and give the classifier
// cross-platform context.
package sentiment

import (
	"context"

	"mention-radar/models"
)

// Result is one classification run over a post set. PerPost is keyed by
// Post.Key(); Majority is the overall label of the set.
type Result struct {
	PerPost  map[string]models.Sentiment
	Majority models.Sentiment
}

// Analyzer classifies sentiment for a set of posts.
type Analyzer interface {
	Analyze(ctx context.Context, query string, posts []models.Post) (Result, error)
}
