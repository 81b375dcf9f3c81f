package eventbus

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/goccy/go-json"

	"portfolio/internal/logger"
)

// KafkaEventBus 는 confluent-kafka-go 기반 EventBus 구현이다.
type KafkaEventBus struct {
	Producer *kafka.Producer
	Brokers  string
}

var _ EventBus = (*KafkaEventBus)(nil)

func NewKafkaEventBus(cfg Config) (*KafkaEventBus, error) {
	producerCfg := &kafka.ConfigMap{
		"bootstrap.servers": cfg.Brokers,
		"acks":              "all",
		"retries":           5,
	}
	if cfg.MessageMaxBytes > 0 {
		(*producerCfg)["message.max.bytes"] = cfg.MessageMaxBytes
	}

	p, err := kafka.NewProducer(producerCfg)
	if err != nil {
		return nil, fmt.Errorf("kafka Producer 생성 실패: %w", err)
	}

	// 전달 보고서/클라이언트 오류 로깅
	go func() {
		for e := range p.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					logger.ErrorWithFields("kafka delivery failed", logger.Fields{
						"topic": ev.TopicPartition.String(),
						"error": ev.TopicPartition.Error.Error(),
					})
				}
			case kafka.Error:
				logger.ErrorWithFields("kafka error", logger.Fields{"error": ev.Error()})
			}
		}
	}()

	return &KafkaEventBus{Producer: p, Brokers: cfg.Brokers}, nil
}

// Close 는 남은 메시지를 최대 5초 동안 플러시하고 Producer 를 닫는다.
func (k *KafkaEventBus) Close() {
	if k.Producer == nil {
		return
	}
	if remaining := k.Producer.Flush(5000); remaining > 0 {
		logger.WarnWithFields("messages left after flush", logger.Fields{"remaining": remaining})
	}
	k.Producer.Close()
	logger.Log.Info("kafka producer closed")
}

func (k *KafkaEventBus) Publish(ctx context.Context, topic string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("이벤트 마샬링 실패: %w", err)
	}

	deliveryChan := make(chan kafka.Event, 1)
	err = k.Producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          data,
		Key:            []byte(event.ID),
	}, deliveryChan)
	if err != nil {
		return fmt.Errorf("메시지 발행 실패: %w", err)
	}

	select {
	case ev := <-deliveryChan:
		m, ok := ev.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected delivery event %T", ev)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("메시지 전달 실패: %w", m.TopicPartition.Error)
		}
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (k *KafkaEventBus) newConsumer(groupID string) (*kafka.Consumer, error) {
	return kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":             k.Brokers,
		"group.id":                      groupID,
		"auto.offset.reset":             "earliest",
		"enable.auto.commit":            false, // 재시도 로직 때문에 수동 커밋
		"partition.assignment.strategy": "range",
	})
}

// readMessage 는 타임아웃이면 (nil, nil) 을, 복구 불가능한 오류면 error 를 돌려준다.
func readMessage(c *kafka.Consumer) (*kafka.Message, error) {
	msg, err := c.ReadMessage(100 * time.Millisecond)
	if err == nil {
		return msg, nil
	}
	var kerr kafka.Error
	if errors.As(err, &kerr) {
		if kerr.Code() == kafka.ErrTimedOut {
			return nil, nil
		}
		if kerr.IsFatal() {
			return nil, fmt.Errorf("kafka consumer fatal error: %w", err)
		}
	}
	logger.WarnWithFields("kafka read failed", logger.Fields{"error": err.Error()})
	time.Sleep(500 * time.Millisecond)
	return nil, nil
}

// offsetController 는 *kafka.Consumer 중 오프셋을 다루는 부분이다.
type offsetController interface {
	CommitMessage(m *kafka.Message) ([]kafka.TopicPartition, error)
	SeekPartitions(partitions []kafka.TopicPartition) ([]kafka.TopicPartition, error)
}

// publishFailureBackoff 는 발행 실패 후 같은 메시지를 다시 읽기 전 대기 시간이다.
var publishFailureBackoff = time.Second

func commit(c offsetController, msg *kafka.Message) {
	if _, err := c.CommitMessage(msg); err != nil {
		logger.ErrorWithFields("offset commit failed", logger.Fields{"error": err.Error()})
	}
}

// rewind 는 커밋하지 않은 msg 의 오프셋으로 되감는다. 되감지 않으면 같은 파티션의
// 다음 메시지 커밋이 이 메시지를 건너뛴 것으로 만든다.
func rewind(c offsetController, msg *kafka.Message) {
	if _, err := c.SeekPartitions([]kafka.TopicPartition{msg.TopicPartition}); err != nil {
		logger.WarnWithFields("seek failed", logger.Fields{"topic": *msg.TopicPartition.Topic, "error": err.Error()})
	}
}

// forward 는 publish 가 성공하면 msg 를 커밋하고, 실패하면 되감은 뒤 잠시 쉰다.
func forward(ctx context.Context, c offsetController, msg *kafka.Message, fields logger.Fields, failMsg string, publish func(context.Context) error) bool {
	if err := publish(ctx); err != nil {
		fields["publish_error"] = err.Error()
		logger.ErrorWithFields(failMsg, fields)
		rewind(c, msg)
		select {
		case <-ctx.Done():
		case <-time.After(publishFailureBackoff):
		}
		return false
	}
	commit(c, msg)
	return true
}

// Subscribe 는 기본 토픽을 구독하고 handler 를 실행한다. ctx 가 끝나면 반환한다.
func (k *KafkaEventBus) Subscribe(ctx context.Context, groupID string, topic Topic, handler EventHandler) error {
	c, err := k.newConsumer(groupID)
	if err != nil {
		return fmt.Errorf("kafka Consumer 생성 실패: %w", err)
	}
	defer c.Close()

	if err := c.SubscribeTopics([]string{topic.Base()}, nil); err != nil {
		return fmt.Errorf("토픽 구독 실패 %s: %w", topic.Base(), err)
	}
	logger.InfoWithFields("consumer started", logger.Fields{"group_id": groupID, "topic": topic.Base()})

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("consumer stopping")
			return ctx.Err()
		default:
		}

		msg, err := readMessage(c)
		if err != nil {
			return err
		}
		if msg == nil {
			continue
		}

		var evt Event
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			logger.ErrorWithFields("invalid event payload, skipping", logger.Fields{
				"topic": *msg.TopicPartition.Topic,
				"error": err.Error(),
			})
			commit(c, msg)
			continue
		}

		fields := logger.Fields{
			"event_id":  evt.ID,
			"retry":     evt.Retry,
			"max_retry": evt.MaxRetry,
			"topic":     *msg.TopicPartition.Topic,
		}
		if evt.Retry > 0 {
			logger.InfoWithFields("event retry started", fields)
		} else {
			logger.DebugWithFields("event started", fields)
		}

		if handlerErr := handler(ctx, evt); handlerErr != nil {
			if ctx.Err() != nil {
				// 종료 중이면 커밋하지 않고 다음 기동 때 다시 받는다
				return ctx.Err()
			}
			evt.LastError = handlerErr.Error()
			dest, dlq := nextDestination(topic, evt)
			fields["error"] = handlerErr.Error()
			fields["destination"] = dest
			if dlq {
				logger.ErrorWithFields("max retry exceeded, sending to DLQ", fields)
			} else {
				evt.Retry++
				logger.WarnWithFields("event failed, retry scheduled", fields)
			}
			forward(ctx, c, msg, fields, "retry/DLQ publish failed, offset rewound", func(ctx context.Context) error {
				return k.Publish(ctx, dest, evt)
			})
			continue
		}

		commit(c, msg)
	}
}

// StartRetryReinjector 는 재시도 토픽을 구독하고, 지연이 지난 메시지를 기본 토픽으로 재발행한다.
func (k *KafkaEventBus) StartRetryReinjector(ctx context.Context, groupID string, topic Topic) error {
	c, err := k.newConsumer(groupID)
	if err != nil {
		return fmt.Errorf("kafka 재시도 재주입기 생성 실패: %w", err)
	}
	defer c.Close()

	retryTopics := topic.RetryTopics()
	if err := c.SubscribeTopics(retryTopics, nil); err != nil {
		return fmt.Errorf("재시도 토픽 구독 실패 %v: %w", retryTopics, err)
	}
	logger.InfoWithFields("retry reinjector started", logger.Fields{
		"group_id": groupID,
		"topics":   strings.Join(retryTopics, ","),
	})

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("retry reinjector stopping")
			return ctx.Err()
		default:
		}

		msg, err := readMessage(c)
		if err != nil {
			return err
		}
		if msg == nil {
			continue
		}

		topicName := *msg.TopicPartition.Topic
		delay, ok := ParseRetryDelayFromTopicName(topicName)
		if !ok {
			logger.ErrorWithFields("cannot parse retry topic, skipping", logger.Fields{"topic": topicName})
			commit(c, msg)
			continue
		}

		if wait := retryWait(msg.Timestamp, delay, time.Now()); wait > 0 {
			// 파티션을 오래 막지 않도록 짧게 쉬고, 커밋 없이 같은 오프셋으로 되감는다
			time.Sleep(min(max(wait, 50*time.Millisecond), 500*time.Millisecond))
			rewind(c, msg)
			continue
		}

		var evt Event
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			logger.ErrorWithFields("invalid retry payload, skipping", logger.Fields{"topic": topicName, "error": err.Error()})
			commit(c, msg)
			continue
		}

		fields := logger.Fields{"event_id": evt.ID, "from": topicName, "to": topic.Base(), "retry": evt.Retry}
		if forward(ctx, c, msg, fields, "reinject failed, offset rewound", func(ctx context.Context) error {
			return k.Publish(ctx, topic.Base(), evt)
		}) {
			logger.InfoWithFields("event reinjected", fields)
		}
	}
}
