// Package aggregator implements the multi-source mention aggregation engine:
// per-platform fan-out with independent timeout/retry policies, an
// all-settled join that tolerates any subset of platforms failing, and the
// post-aggregation credibility/sentiment/sort pipeline.
package aggregator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"mention-radar/internal/logger"
	"mention-radar/models"
	"mention-radar/scoring"
	"mention-radar/sentiment"
)

// Query 는 정규화된 검색 조건이다. 각 소스 어댑터는 이것을 플랫폼별 API 호출로 변환한다.
type Query struct {
	Text     string
	Since    time.Time
	Until    time.Time
	Language string
	Limit    int
}

// Source searches a single platform. One adapter per platform; TikTok has
// two competing adapters that both report models.PlatformTikTok.
type Source interface {
	Platform() models.Platform
	Search(ctx context.Context, q Query) ([]models.Post, error)
}

// TimeFilter selects the lookback window of a search request.
type TimeFilter string

const (
	TimeFilter24h TimeFilter = "24h"
	TimeFilter7d  TimeFilter = "7d"
	TimeFilter30d TimeFilter = "30d"
	TimeFilter3m  TimeFilter = "3m"
	TimeFilter12m TimeFilter = "12m"
)

// Window returns the [since, until) interval the filter covers, ending at now.
// Unknown filters fall back to 7 days.
func (f TimeFilter) Window(now time.Time) (time.Time, time.Time) {
	var d time.Duration
	switch f {
	case TimeFilter24h:
		d = 24 * time.Hour
	case TimeFilter7d:
		d = 7 * 24 * time.Hour
	case TimeFilter30d:
		d = 30 * 24 * time.Hour
	case TimeFilter3m:
		d = 90 * 24 * time.Hour
	case TimeFilter12m:
		d = 365 * 24 * time.Hour
	default:
		d = 7 * 24 * time.Hour
	}
	return now.Add(-d), now
}

// Request is one aggregation request. All fields are per-request; the engine
// keeps no state between requests.
type Request struct {
	Query      string
	Sources    []models.Platform
	TimeFilter TimeFilter
	Language   string
	Sort       scoring.Mode
}

// ValidationError marks a client error detected before any platform call.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// PlatformOutcome 는 플랫폼 하나의 임시 집계 결과다. 요청 범위 밖으로 나가지 않는다.
type PlatformOutcome struct {
	Platform models.Platform
	Posts    []models.Post
	Warning  string
}

// Result is the fully assembled response of one aggregation run.
type Result struct {
	Posts    []models.Post
	Summary  Summary
	Query    string
	Sort     scoring.Mode
	Warnings []string
	Duration time.Duration
}

// Config wires an Engine. Sources may contain up to two TikTok adapters;
// their order decides which provider wins on duplicate ids.
//
// RetryBaseDelay 와 EmptyRetryDelay 는 모든 플랫폼 policy 의 대기 시간을
// 덮어쓴다. 0 이면 기본값(1s / 2s)을 쓴다.
type Config struct {
	Sources         []Source
	Analyzer        sentiment.Analyzer
	Weights         scoring.Weights
	Logger          logger.Logger
	RetryBaseDelay  time.Duration
	EmptyRetryDelay time.Duration
}

// Engine runs aggregation requests. Safe for concurrent use; all mutable
// state lives in the request scope.
type Engine struct {
	sources    map[models.Platform]Source
	tiktok     []Source
	analyzer   sentiment.Analyzer
	weights    scoring.Weights
	log        logger.Logger
	now        func() time.Time
	retryDelay time.Duration
	emptyDelay time.Duration
}

func New(cfg Config) *Engine {
	e := &Engine{
		sources:    make(map[models.Platform]Source),
		analyzer:   cfg.Analyzer,
		weights:    cfg.Weights,
		log:        cfg.Logger,
		now:        time.Now,
		retryDelay: cfg.RetryBaseDelay,
		emptyDelay: cfg.EmptyRetryDelay,
	}
	if e.log == nil {
		e.log = logger.Log
	}
	if e.weights == (scoring.Weights{}) {
		e.weights = scoring.DefaultWeights
	}
	for _, s := range cfg.Sources {
		if s.Platform() == models.PlatformTikTok {
			e.tiktok = append(e.tiktok, s)
			continue
		}
		e.sources[s.Platform()] = s
	}
	return e
}

const (
	platformCallTimeout = 30 * time.Second
	sentimentTimeout    = 45 * time.Second
)

// policy 는 플랫폼별 타임아웃/재시도 구성을 묶는다. retry 혹은 emptyRetry 가 nil 이면
// 해당 래퍼를 적용하지 않는다.
type policy struct {
	timeout    time.Duration
	retry      *RetryPolicy
	emptyRetry *EmptyRetryPolicy
}

// platformPolicy returns the wrapper composition for one platform.
// X and Reddit are known to intermittently under-return, so they get the
// retry-on-empty wrapper. YouTube and Bluesky adapters have been reliable,
// so they run with a bare timeout. Truth Social gets failure retries only.
func (e *Engine) platformPolicy(p models.Platform) policy {
	switch p {
	case models.PlatformX, models.PlatformReddit:
		return policy{
			timeout:    platformCallTimeout,
			retry:      &RetryPolicy{BaseDelay: e.retryDelay},
			emptyRetry: &EmptyRetryPolicy{Label: string(p), Delay: e.emptyDelay},
		}
	case models.PlatformYouTube, models.PlatformBluesky:
		return policy{timeout: platformCallTimeout}
	default:
		return policy{
			timeout: platformCallTimeout,
			retry:   &RetryPolicy{BaseDelay: e.retryDelay},
		}
	}
}

// tiktokPolicy is applied to each TikTok provider independently inside the
// merge stage.
func (e *Engine) tiktokPolicy(label string) policy {
	return policy{
		timeout:    platformCallTimeout,
		retry:      &RetryPolicy{BaseDelay: e.retryDelay},
		emptyRetry: &EmptyRetryPolicy{Label: label, Delay: e.emptyDelay},
	}
}

// Validate checks the request the way the web layer promises clients:
// empty query or empty source set is rejected before any network call.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return &ValidationError{Msg: "query must not be empty"}
	}
	if len(r.Sources) == 0 {
		return &ValidationError{Msg: "at least one source is required"}
	}
	for _, p := range r.Sources {
		if !models.IsKnownPlatform(p) {
			return &ValidationError{Msg: fmt.Sprintf("unknown source %q", p)}
		}
	}
	return nil
}

// Search runs the full pipeline: fan-out to every requested platform, join
// all outcomes, dedup, score, classify sentiment once over the whole set,
// sort, and assemble the summary. Platform failures never surface as errors;
// they become warnings. Only validation can fail here.
func (e *Engine) Search(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start := e.now()

	req.Query = strings.TrimSpace(req.Query)
	since, until := req.TimeFilter.Window(start)
	q := Query{
		Text:     req.Query,
		Since:    since,
		Until:    until,
		Language: req.Language,
		Limit:    50,
	}

	platforms := dedupPlatforms(req.Sources)

	// 플랫폼마다 고루틴 하나. 각 태스크는 자기 슬롯에만 쓰고, 조인은 전부
	// 정착(all settled)한 뒤에 단일 고루틴에서 수행한다.
	outcomes := make([]PlatformOutcome, len(platforms))
	var wg sync.WaitGroup
	for i, p := range platforms {
		wg.Add(1)
		go func(i int, p models.Platform) {
			defer wg.Done()
			outcomes[i] = e.runPlatform(ctx, p, q)
		}(i, p)
	}
	wg.Wait()

	var posts []models.Post
	var warnings []string
	for _, out := range outcomes {
		posts = append(posts, out.Posts...)
		if out.Warning != "" {
			warnings = append(warnings, out.Warning)
		}
	}

	// 응답 전체에 대해 (platform, id) 기준으로 한 번 더 dedup 한다.
	posts = dedupByKey(posts)

	scoring.ApplyCredibility(posts)
	e.applySentiment(ctx, req.Query, posts)

	sorted := scoring.Sort(posts, req.Sort, e.weights, start)
	summary := buildSummary(platforms, sorted, since, until)

	elapsed := e.now().Sub(start)
	e.log.Infof("aggregation done query=%q platforms=%d posts=%d warnings=%d duration=%s",
		req.Query, len(platforms), len(sorted), len(warnings), elapsed)

	return &Result{
		Posts:    sorted,
		Summary:  summary,
		Query:    req.Query,
		Sort:     req.Sort,
		Warnings: warnings,
		Duration: elapsed,
	}, nil
}

// runPlatform executes one platform task. It never lets an error escape:
// every failure mode collapses into a PlatformOutcome, so a broken platform
// cannot abort the aggregate request.
func (e *Engine) runPlatform(ctx context.Context, p models.Platform, q Query) (out PlatformOutcome) {
	out.Platform = p

	defer func() {
		if r := recover(); r != nil {
			out.Posts = nil
			out.Warning = fmt.Sprintf("%s: internal error: %v", p, r)
			e.log.Errorf("platform task paniced platform=%s: %v", p, r)
		}
	}()

	if p == models.PlatformTikTok {
		return e.runTikTok(ctx, q)
	}

	src, ok := e.sources[p]
	if !ok {
		// 등록되지 않은 플랫폼은 조용히 0건으로 처리한다. (warning 아님)
		return out
	}

	posts, emptyExhausted, err := e.runSource(ctx, src, q, e.platformPolicy(p), string(p))
	if err != nil {
		out.Warning = fmt.Sprintf("%s: %v", p, err)
		e.log.Warnf("platform search failed platform=%s: %v", p, err)
		return out
	}
	out.Posts = posts
	if emptyExhausted {
		out.Warning = fmt.Sprintf("%s: no results after multiple attempts (the provider may be under-returning)", p)
	}
	return out
}

// runSource composes the per-platform wrappers in the fixed order
// timeout → retry → retry-on-empty and invokes the adapter.
func (e *Engine) runSource(ctx context.Context, src Source, q Query, pol policy, label string) ([]models.Post, bool, error) {
	attempt := func(ctx context.Context) ([]models.Post, error) {
		return WithTimeout(ctx, pol.timeout, label, func(ctx context.Context) ([]models.Post, error) {
			return src.Search(ctx, q)
		})
	}

	call := attempt
	if pol.retry != nil {
		retry := *pol.retry
		call = func(ctx context.Context) ([]models.Post, error) {
			return WithRetry(ctx, retry, attempt)
		}
	}

	if pol.emptyRetry != nil {
		return WithRetryOnEmpty(ctx, *pol.emptyRetry, func(posts []models.Post) bool {
			return len(posts) == 0
		}, call)
	}

	posts, err := call(ctx)
	return posts, false, err
}

// applySentiment invokes the AI collaborator exactly once over the whole
// deduplicated set, bounded by its own timeout. On failure (or when no
// analyzer is configured) it degrades to the deterministic fallback
// distribution; sentiment problems never fail the request.
func (e *Engine) applySentiment(ctx context.Context, query string, posts []models.Post) {
	if len(posts) == 0 {
		return
	}

	var res sentiment.Result
	if e.analyzer == nil {
		res = sentiment.Fallback(posts)
	} else {
		var err error
		res, err = WithTimeout(ctx, sentimentTimeout, "sentiment analysis", func(ctx context.Context) (sentiment.Result, error) {
			return e.analyzer.Analyze(ctx, query, posts)
		})
		if err != nil {
			e.log.Warnf("sentiment analysis degraded to fallback: %v", err)
			res = sentiment.Fallback(posts)
		}
	}

	for i := range posts {
		if s, ok := res.PerPost[posts[i].Key()]; ok {
			posts[i].Sentiment = s
		} else {
			posts[i].Sentiment = models.SentimentNeutral
		}
	}
}

func dedupPlatforms(in []models.Platform) []models.Platform {
	seen := make(map[models.Platform]bool, len(in))
	out := make([]models.Platform, 0, len(in))
	for _, p := range in {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// dedupByKey drops later posts sharing a (platform, id) identity. First seen
// wins, matching the TikTok merge policy.
func dedupByKey(posts []models.Post) []models.Post {
	seen := make(map[string]bool, len(posts))
	out := posts[:0]
	for _, p := range posts {
		if seen[p.Key()] {
			continue
		}
		seen[p.Key()] = true
		out = append(out, p)
	}
	return out
}
