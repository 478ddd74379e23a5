package aggregator

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// TimeoutError 는 플랫폼 호출이 데드라인을 넘겼을 때 타임아웃 래퍼가 만들어내는 에러다.
// 느린 호출 자체는 백그라운드에서 계속 실행될 수 있지만, 결과는 버려진다.
type TimeoutError struct {
	Label string
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Label, e.After)
}

// StatusError 는 플랫폼 API가 2xx 이외의 상태 코드를 반환했을 때 어댑터가 만들어내는 에러다.
type StatusError struct {
	Platform   string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s API returned status %d: %s", e.Platform, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s API returned status %d", e.Platform, e.StatusCode)
}

// ErrNotConfigured 는 어댑터가 API 키 등 필수 설정 없이 호출되었을 때 반환한다.
// 같은 플랫폼이라도 "아예 등록되지 않은" 경우와 달리, 이 에러는 설정 오류이므로 warning 으로 노출된다.
var ErrNotConfigured = errors.New("source is not configured")

// WithTimeout races fn against the deadline d. If the timer fires first the
// call is abandoned (the goroutine keeps running but its result is discarded)
// and a *TimeoutError carrying label is returned. The caller never blocks on
// the abandoned call.
func WithTimeout[T any](ctx context.Context, d time.Duration, label string, fn func(context.Context) (T, error)) (T, error) {
	type outcome struct {
		val T
		err error
	}

	// 버퍼 1: 타임아웃 이후 뒤늦게 도착한 결과가 고루틴을 영원히 블록시키지 않게 한다.
	ch := make(chan outcome, 1)
	go func() {
		// fn 은 호출자와 다른 고루틴에서 돌기 때문에, 여기서 panic 을 잡지
		// 않으면 호출자 쪽 recover 로는 절대 전달되지 않는다.
		defer func() {
			if r := recover(); r != nil {
				var zero T
				ch <- outcome{val: zero, err: fmt.Errorf("%s paniced: %v", label, r)}
			}
		}()
		v, err := fn(ctx)
		ch <- outcome{val: v, err: err}
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case out := <-ch:
		return out.val, out.err
	case <-timer.C:
		var zero T
		return zero, &TimeoutError{Label: label, After: d}
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// RetryPolicy controls WithRetry. Zero values fall back to the defaults
// (2 retries, 1s base delay, factor 2, DefaultIsRetryable).
type RetryPolicy struct {
	MaxAttempts   int
	BaseDelay     time.Duration
	BackoffFactor float64
	IsRetryable   func(error) bool
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 2
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = time.Second
	}
	if p.BackoffFactor <= 0 {
		p.BackoffFactor = 2
	}
	if p.IsRetryable == nil {
		p.IsRetryable = DefaultIsRetryable
	}
	return p
}

// DefaultIsRetryable classifies transient platform failures: timeouts,
// generic network errors, and the status codes the providers are known to
// throw under load (400 included — several of them return 400 on internal
// hiccups). Everything else fails fast without consuming attempts.
func DefaultIsRetryable(err error) bool {
	var te *TimeoutError
	if errors.As(err, &te) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		switch se.StatusCode {
		case 400, 429, 500, 502, 503, 504:
			return true
		}
		return false
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	var ue *url.Error
	return errors.As(err, &ue)
}

// WithRetry attempts fn up to MaxAttempts+1 times, sleeping
// BaseDelay * BackoffFactor^n between attempts. Non-retryable failures are
// returned immediately. The last failure is returned when attempts run out.
func WithRetry[T any](ctx context.Context, p RetryPolicy, fn func(context.Context) (T, error)) (T, error) {
	p = p.withDefaults()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.BaseDelay
	b.Multiplier = p.BackoffFactor
	b.RandomizationFactor = 0
	b.MaxInterval = 5 * time.Minute
	b.MaxElapsedTime = 0

	op := func() (T, error) {
		v, err := fn(ctx)
		if err != nil && !p.IsRetryable(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}
	return backoff.RetryWithData(op, backoff.WithContext(backoff.WithMaxRetries(b, uint64(p.MaxAttempts)), ctx))
}

// EmptyRetryPolicy controls WithRetryOnEmpty. Zero values fall back to the
// defaults (3 empty retries, 2s fixed delay).
type EmptyRetryPolicy struct {
	MaxEmptyRetries int
	Delay           time.Duration
	Label           string
}

func (p EmptyRetryPolicy) withDefaults() EmptyRetryPolicy {
	if p.MaxEmptyRetries <= 0 {
		p.MaxEmptyRetries = 3
	}
	if p.Delay <= 0 {
		p.Delay = 2 * time.Second
	}
	return p
}

// errEmptyResult 는 WithRetryOnEmpty 내부에서만 쓰이는 sentinel 이다.
var errEmptyResult = errors.New("empty result")

// WithRetryOnEmpty handles providers that intermittently return zero results
// for perfectly valid queries: a call that *succeeds* but is empty per
// isEmpty is re-read up to MaxEmptyRetries more times with a fixed delay.
//
// Emptiness is never an error. When every attempt comes back empty, the final
// empty value is returned with exhausted=true so the caller can synthesize an
// informational warning. A failing call is returned as-is without consuming
// empty retries; failure retries are WithRetry's job, which this wrapper
// composes around, not inside.
func WithRetryOnEmpty[T any](ctx context.Context, p EmptyRetryPolicy, isEmpty func(T) bool, fn func(context.Context) (T, error)) (result T, exhausted bool, err error) {
	p = p.withDefaults()

	var last T
	op := func() (T, error) {
		v, ferr := fn(ctx)
		if ferr != nil {
			return v, backoff.Permanent(ferr)
		}
		if isEmpty(v) {
			last = v
			return v, errEmptyResult
		}
		return v, nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Delay), uint64(p.MaxEmptyRetries)), ctx)
	v, err := backoff.RetryWithData(op, b)
	if errors.Is(err, errEmptyResult) {
		return last, true, nil
	}
	return v, false, err
}
