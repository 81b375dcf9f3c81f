package eventbus

import "strings"

type Config struct {
	Brokers string
	GroupID string
	// MessageMaxBytes 가 0 이면 librdkafka 기본값을 쓴다.
	MessageMaxBytes int
	Partitions      int
}

// Enabled 는 브로커 주소가 있을 때만 true 다. Kafka 없이도 API 는 동작한다.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Brokers) != ""
}

func (c Config) partitions() int {
	if c.Partitions <= 0 {
		return 1
	}
	return c.Partitions
}
