package eventbus

import (
	"context"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// topicSpecs 는 기본 토픽, DLQ(1 파티션), 재시도 토픽 사양을 만든다.
func topicSpecs(topic Topic, partitions int) []kafka.TopicSpecification {
	specs := make([]kafka.TopicSpecification, 0, 2+len(RetryDelays))
	specs = append(specs,
		kafka.TopicSpecification{Topic: topic.Base(), NumPartitions: partitions, ReplicationFactor: 1},
		kafka.TopicSpecification{Topic: topic.DLQ(), NumPartitions: 1, ReplicationFactor: 1},
	)
	for _, retryTopic := range topic.RetryTopics() {
		specs = append(specs, kafka.TopicSpecification{
			Topic:             retryTopic,
			NumPartitions:     partitions,
			ReplicationFactor: 1,
		})
	}
	return specs
}

// EnsureTopics 는 topic 에 필요한 모든 토픽을 만든다. 이미 있으면 성공으로 본다.
func EnsureTopics(ctx context.Context, cfg Config, topic Topic) error {
	if !cfg.Enabled() {
		return ErrBusDisabled
	}
	admin, err := kafka.NewAdminClient(&kafka.ConfigMap{"bootstrap.servers": cfg.Brokers})
	if err != nil {
		return fmt.Errorf("AdminClient 생성 실패: %w", err)
	}
	defer admin.Close()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	results, err := admin.CreateTopics(ctx, topicSpecs(topic, cfg.partitions()))
	if err != nil {
		return fmt.Errorf("토픽 생성 요청 실패: %w", err)
	}
	for _, r := range results {
		code := r.Error.Code()
		if code != kafka.ErrNoError && code != kafka.ErrTopicAlreadyExists {
			return fmt.Errorf("토픽 %s 생성 실패: %v", r.Topic, r.Error)
		}
	}
	return nil
}
