package sentiment

import (
	"context"
	"sync"
	"time"

	"mention-radar/config"
)

// QuotaLimiter 는 감성 분석용 LLM 호출에 대한 분당/일일 한도를 관리한다.
// API 인스턴스가 하나라는 전제를 두고 인메모리로 동작하며,
// 애플리케이션이 재시작되면 카운터가 초기화된다.
type QuotaLimiter struct {
	mu sync.Mutex

	dailyLimit int
	usedToday  int
	dayKey     string

	interval time.Duration
	lastCall time.Time
}

// NewQuotaLimiterFromConfig 는 config.yaml 의 sentiment_quota 설정을 기반으로
// QuotaLimiter 를 생성한다. 설정 값이 0 이하인 경우에는 해당 방향의 제한을 두지 않는다.
func NewQuotaLimiterFromConfig(cfg config.AppConfig) *QuotaLimiter {
	q := cfg.SentimentQuota

	requestsPerDay := q.RequestsPerDay
	if requestsPerDay < 0 {
		requestsPerDay = 0
	}

	requestsPerMinute := q.RequestsPerMinute
	if requestsPerMinute < 0 {
		requestsPerMinute = 0
	}

	var interval time.Duration
	if requestsPerMinute > 0 {
		interval = time.Minute / time.Duration(requestsPerMinute)
	}

	return &QuotaLimiter{
		dailyLimit: requestsPerDay,
		interval:   interval,
	}
}

// WaitAndReserve 는 LLM 호출 전에 분당/일일 한도를 적용한다.
// - 일일 한도를 초과한 경우: (false, nil) 을 반환하고 호출자는 LLM 호출을 스킵해야 한다.
// - 컨텍스트 취소 등 시스템 예외 발생 시: (false, error)를 반환하여 상위에서 폴백을 판단하게 한다.
func (l *QuotaLimiter) WaitAndReserve(ctx context.Context) (bool, error) {
	for {
		l.mu.Lock()

		now := time.Now().UTC()
		todayKey := now.Format("2006-01-02")
		if l.dayKey != todayKey {
			l.dayKey = todayKey
			l.usedToday = 0
		}

		if l.dailyLimit > 0 && l.usedToday >= l.dailyLimit {
			// 일일 한도 소진: 이번 요청은 폴백 분포를 사용한다.
			l.mu.Unlock()
			return false, nil
		}

		var delay time.Duration
		if l.interval > 0 && !l.lastCall.IsZero() {
			nextAllowed := l.lastCall.Add(l.interval)
			delay = time.Until(nextAllowed)
		}

		if delay <= 0 {
			// 즉시 호출 가능
			l.usedToday++
			l.lastCall = now
			l.mu.Unlock()
			return true, nil
		}

		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(delay):
		}
	}
}
