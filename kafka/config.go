package kafka

import (
	"errors"
	"os"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// Config Kafka 설정 구조체
type Config struct {
	BootstrapServers string
}

// 기본값 상수 정의
const (
	// Producer 기본값
	DefaultProducerAcks      = "all"
	DefaultProducerRetries   = 3
	DefaultProducerBatchSize = 16384
	DefaultProducerLingerMs  = 10
)

// ErrNotConfigured 는 KAFKA_BOOTSTRAP_SERVERS 가 설정되지 않았음을 뜻한다.
// 이벤트 발행은 선택 기능이므로 호출자는 이 경우 no-op 프로듀서로 대체한다.
var ErrNotConfigured = errors.New("kafka is not configured")

// NewConfig 환경변수에서 Kafka 설정을 생성
func NewConfig() (*Config, error) {
	bootstrapServers := os.Getenv("KAFKA_BOOTSTRAP_SERVERS")
	if bootstrapServers == "" {
		return nil, ErrNotConfigured
	}
	return &Config{BootstrapServers: bootstrapServers}, nil
}

// ProducerConfig Producer 설정을 반환
func (c *Config) ProducerConfig() kafka.ConfigMap {
	return kafka.ConfigMap{
		"bootstrap.servers": c.BootstrapServers,
		"acks":              DefaultProducerAcks,
		"retries":           DefaultProducerRetries,
		"batch.size":        DefaultProducerBatchSize,
		"linger.ms":         DefaultProducerLingerMs,
	}
}
