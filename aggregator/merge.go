package aggregator

import (
	"context"
	"fmt"
	"strings"

	"mention-radar/models"
)

// runTikTok is the merge stage for the two competing TikTok providers. Both
// run concurrently, each wrapped in its own timeout/retry/retry-on-empty
// chain; one failing never cancels the other (all-settled join). Duplicate
// video ids keep the first provider's version.
//
// With no provider configured the platform contributes zero posts silently,
// same as any other unregistered source. Provider errors are surfaced as one
// combined warning only when the merge produced nothing at all.
func (e *Engine) runTikTok(ctx context.Context, q Query) PlatformOutcome {
	out := PlatformOutcome{Platform: models.PlatformTikTok}
	if len(e.tiktok) == 0 {
		return out
	}

	type settled struct {
		posts          []models.Post
		emptyExhausted bool
		err            error
	}

	results := make([]settled, len(e.tiktok))
	done := make(chan int, len(e.tiktok))
	for i, src := range e.tiktok {
		go func(i int, src Source) {
			label := fmt.Sprintf("tiktok provider %d", i+1)
			posts, exhausted, err := e.runSource(ctx, src, q, e.tiktokPolicy(label), label)
			results[i] = settled{posts: posts, emptyExhausted: exhausted, err: err}
			done <- i
		}(i, src)
	}
	for range e.tiktok {
		<-done
	}

	// 프로바이더 등록 순서대로 병합한다. 중복 id 는 먼저 본 쪽(프로바이더 A)이 이긴다.
	seen := make(map[string]bool)
	var merged []models.Post
	var errMsgs []string
	emptyExhausted := false
	for i, r := range results {
		if r.err != nil {
			errMsgs = append(errMsgs, fmt.Sprintf("tiktok provider %d: %v", i+1, r.err))
			continue
		}
		if r.emptyExhausted {
			emptyExhausted = true
		}
		for _, p := range r.posts {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			merged = append(merged, p)
		}
	}

	out.Posts = merged
	if len(merged) == 0 {
		// 다른 프로바이더가 결과를 냈다면 개별 실패는 묻어둔다.
		if len(errMsgs) > 0 {
			out.Warning = "tiktok: " + strings.Join(errMsgs, "; ")
		} else if emptyExhausted {
			out.Warning = "tiktok: no results after multiple attempts (the provider may be under-returning)"
		}
	}
	return out
}
