package resilience

import (
	"time"

	"github.com/sony/gobreaker/v2"

	"portfolio/internal/logger"
	"portfolio/internal/metrics"
)

// BreakerConfig 는 외부 의존성(오브젝트 스토리지, 분석 API) 호출에 쓰는 서킷 브레이커 설정이다.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
	// IsSuccessful 이 nil 이 아니면 err 가 실패로 집계될지 결정한다.
	// 예: 객체 없음(404)은 상대 서버가 정상이라는 뜻이므로 실패로 세지 않는다.
	IsSuccessful func(err error) bool
}

func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// NewBreaker creates a circuit breaker that logs and exports its state transitions.
func NewBreaker[T any](cfg BreakerConfig) *gobreaker.CircuitBreaker[T] {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WarnWithFields("circuit breaker state changed", logger.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
			metrics.RecordBreakerState(name, to)
		},
		IsSuccessful: cfg.IsSuccessful,
	}
	metrics.RecordBreakerState(cfg.Name, gobreaker.StateClosed)
	return gobreaker.NewCircuitBreaker[T](settings)
}
