package eventbus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// RetryDelays 는 재시도 횟수(1-based)별 고정 지연 시간이다.
var RetryDelays = []time.Duration{
	10 * time.Second, // 1차
	30 * time.Second, // 2차
	1 * time.Minute,  // 3차
	5 * time.Minute,  // 4차
	10 * time.Minute, // 5차
}

// Topic 은 기본 토픽 이름과 그에 딸린 재시도/DLQ 토픽 이름을 관리한다.
type Topic struct {
	base string
}

func NewTopic(base string) Topic {
	return Topic{base: base}
}

func (t Topic) Base() string {
	return t.base
}

// DLQ 예: portfolio.import.events.dlq
func (t Topic) DLQ() string {
	return t.base + ".dlq"
}

// RetryTopics 는 모든 재시도 토픽 이름을 반환한다. 형식은 "<base>.retry.<n>" (n 은 1부터).
func (t Topic) RetryTopics() []string {
	topics := make([]string, len(RetryDelays))
	for i := range RetryDelays {
		topics[i] = fmt.Sprintf("%s.retry.%d", t.base, i+1)
	}
	return topics
}

// RetryTopic 은 다음 재시도 횟수(1-based)에 해당하는 재시도 토픽 이름을 반환한다.
func (t Topic) RetryTopic(retryCount int) (string, error) {
	if retryCount <= 0 || retryCount > len(RetryDelays) {
		return "", ErrMaxRetryExceeded
	}
	return fmt.Sprintf("%s.retry.%d", t.base, retryCount), nil
}

// Event 는 Kafka 메시지 값으로 쓰는 봉투다.
type Event struct {
	ID        string          `json:"id"`
	Payload   json.RawMessage `json:"payload"`
	Retry     int             `json:"retry"` // 현재 재시도 횟수 (0부터)
	MaxRetry  int             `json:"max_retry"`
	LastError string          `json:"last_error,omitempty"`
}

type EventHandler func(ctx context.Context, event Event) error

// EventBus 는 이벤트 발행/구독 추상화다.
type EventBus interface {
	Publish(ctx context.Context, topic string, event Event) error
	// Subscribe 는 기본 토픽을 구독해 handler 를 실행한다. 실패하면 재시도 토픽이나 DLQ 로 보낸다.
	Subscribe(ctx context.Context, groupID string, topic Topic, handler EventHandler) error
	// StartRetryReinjector 는 재시도 토픽을 구독하고 지연이 끝난 이벤트를 기본 토픽으로 되돌린다.
	StartRetryReinjector(ctx context.Context, groupID string, topic Topic) error
	Close()
}

var (
	ErrMaxRetryExceeded    = errors.New("최대 재시도 횟수 초과")
	ErrRetryScheduleFailed = errors.New("재시도 또는 DLQ 발행 실패")
	ErrBusDisabled         = errors.New("event bus is not configured")
)

// nextDestination 은 handler 실패 후 이벤트를 보낼 토픽을 정한다. dlq 가 true 면 DLQ 다.
func nextDestination(topic Topic, evt Event) (string, bool) {
	maxRetry := evt.MaxRetry
	if maxRetry <= 0 || maxRetry > len(RetryDelays) {
		maxRetry = len(RetryDelays)
	}
	next := evt.Retry + 1
	if next > maxRetry {
		return topic.DLQ(), true
	}
	name, err := topic.RetryTopic(next)
	if err != nil {
		return topic.DLQ(), true
	}
	return name, false
}

// retryWait 는 재시도 토픽 메시지가 다시 처리될 수 있을 때까지 남은 시간이다. 0 이면 바로 처리한다.
func retryWait(producedAt time.Time, delay time.Duration, now time.Time) time.Duration {
	readyAt := producedAt.Add(delay)
	if !now.Before(readyAt) {
		return 0
	}
	return readyAt.Sub(now)
}
