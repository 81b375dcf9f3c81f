package summarizer

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ErrQuotaExceeded 는 오늘 호출 한도를 다 쓴 경우다. 자정(UTC)에 초기화된다.
var ErrQuotaExceeded = errors.New("summarizer_quota_exceeded")

// Quota 는 Gemini 호출의 분당/일일 한도다. 프로세스 안에서만 세며 재시작하면 초기화된다.
type Quota struct {
	mu         sync.Mutex
	dailyLimit int
	usedToday  int
	dayKey     string

	// nil 이면 분당 제한 없음
	limiter *rate.Limiter
	now     func() time.Time
}

// NewQuota 는 0 이하인 한도를 "제한 없음" 으로 본다.
func NewQuota(perDay, perMinute int) *Quota {
	q := &Quota{now: time.Now}
	if perDay > 0 {
		q.dailyLimit = perDay
	}
	if perMinute > 0 {
		q.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
	}
	return q
}

// Reserve 는 호출 한 번을 예약한다. 일일 한도를 넘으면 ErrQuotaExceeded, 분당 한도에 걸리면
// 자리가 날 때까지 기다린다 (ctx 가 끝나면 ctx 에러).
func (q *Quota) Reserve(ctx context.Context) error {
	q.mu.Lock()
	today := q.now().UTC().Format("2006-01-02")
	if q.dayKey != today {
		q.dayKey = today
		q.usedToday = 0
	}
	if q.dailyLimit > 0 && q.usedToday >= q.dailyLimit {
		q.mu.Unlock()
		return ErrQuotaExceeded
	}
	q.usedToday++
	q.mu.Unlock()

	if q.limiter == nil {
		return nil
	}
	if err := q.limiter.Wait(ctx); err != nil {
		q.release()
		return err
	}
	return nil
}

// release 는 대기 중 취소된 예약을 되돌린다.
func (q *Quota) release() {
	q.mu.Lock()
	if q.usedToday > 0 {
		q.usedToday--
	}
	q.mu.Unlock()
}

// Remaining 은 오늘 남은 호출 수다. 일일 한도가 없으면 -1.
func (q *Quota) Remaining() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.dailyLimit <= 0 {
		return -1
	}
	if q.dayKey != q.now().UTC().Format("2006-01-02") {
		return q.dailyLimit
	}
	return q.dailyLimit - q.usedToday
}
