package eventbus

import "context"

// NopEventBus 는 Kafka 설정이 없을 때 쓴다. 발행은 ErrBusDisabled 를 돌려주고
// 구독은 ctx 가 끝날 때까지 아무것도 하지 않는다.
type NopEventBus struct{}

var _ EventBus = NopEventBus{}

func (NopEventBus) Publish(context.Context, string, Event) error { return ErrBusDisabled }

func (NopEventBus) Subscribe(ctx context.Context, _ string, _ Topic, _ EventHandler) error {
	<-ctx.Done()
	return ctx.Err()
}

func (NopEventBus) StartRetryReinjector(ctx context.Context, _ string, _ Topic) error {
	<-ctx.Done()
	return ctx.Err()
}

func (NopEventBus) Close() {}

// New 는 cfg 가 유효하면 Kafka 구현을, 아니면 NopEventBus 를 돌려준다.
func New(cfg Config) (EventBus, error) {
	if !cfg.Enabled() {
		return NopEventBus{}, nil
	}
	return NewKafkaEventBus(cfg)
}
