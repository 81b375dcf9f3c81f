package eventbus

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// NewJSONEvent 는 payload 를 JSON 으로 인코딩해 Event 를 만든다. id 가 비어 있으면 UUID 를 쓴다.
func NewJSONEvent(id string, payload any, maxRetry int) (Event, error) {
	if maxRetry <= 0 || maxRetry > len(RetryDelays) {
		maxRetry = len(RetryDelays)
	}
	if id == "" {
		id = uuid.NewString()
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("payload marshal 실패: %w", err)
	}
	return Event{
		ID:       id,
		Payload:  b,
		MaxRetry: maxRetry,
	}, nil
}

// DecodeJSON 은 Event.Payload 를 T 로 언마샬한다.
func DecodeJSON[T any](evt Event) (T, error) {
	var out T
	if err := json.Unmarshal(evt.Payload, &out); err != nil {
		var zero T
		return zero, fmt.Errorf("payload unmarshal 실패: %w", err)
	}
	return out, nil
}

// SubscribeJSON 은 payload 를 T 로 디코딩해서 handler 에 넘기는 Subscribe 헬퍼다.
func SubscribeJSON[T any](ctx context.Context, bus EventBus, groupID string, topic Topic, handler func(ctx context.Context, payload T, meta Event) error) error {
	return bus.Subscribe(ctx, groupID, topic, func(ctx context.Context, evt Event) error {
		v, err := DecodeJSON[T](evt)
		if err != nil {
			return err
		}
		return handler(ctx, v, evt)
	})
}

// PublishJSON 은 payload 를 감싸 topic 의 기본 토픽으로 발행한다.
func PublishJSON(ctx context.Context, bus EventBus, topic Topic, id string, payload any) error {
	evt, err := NewJSONEvent(id, payload, 0)
	if err != nil {
		return err
	}
	return bus.Publish(ctx, topic.Base(), evt)
}
