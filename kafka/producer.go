package kafka

import (
	"encoding/json"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"mention-radar/internal/logger"
)

// 토픽 이름 정의
const (
	TopicSearchEvents = "mention_radar.search_events"
	TopicAlertEvents  = "mention_radar.alert_events"
)

// Producer Kafka 프로듀서 인터페이스
type Producer interface {
	PublishEvent(topic string, event interface{}) error
	Close() error
}

// kafkaProducer confluent-kafka-go 기반 Producer 구현체
type kafkaProducer struct {
	producer *kafka.Producer
}

// NewProducer 는 설정으로 Kafka 프로듀서를 생성한다.
func NewProducer(cfg *Config) (Producer, error) {
	configMap := cfg.ProducerConfig()
	p, err := kafka.NewProducer(&configMap)
	if err != nil {
		return nil, err
	}

	// 전송 결과는 로깅만 한다. 이벤트 발행 실패가 검색 응답에 영향을 줘서는 안 된다.
	go func() {
		for e := range p.Events() {
			if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
				logger.ErrorWithFields("kafka delivery failed", logger.Fields{
					"topic": *m.TopicPartition.Topic,
					"error": m.TopicPartition.Error.Error(),
				})
			}
		}
	}()

	return &kafkaProducer{producer: p}, nil
}

func (p *kafkaProducer) PublishEvent(topic string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          payload,
	}, nil)
}

func (p *kafkaProducer) Close() error {
	p.producer.Flush(3000)
	p.producer.Close()
	return nil
}

// noopProducer 는 Kafka 미설정 환경에서 쓰는 no-op 구현체다.
type noopProducer struct{}

// NewNoopProducer returns a producer that silently drops every event.
func NewNoopProducer() Producer { return noopProducer{} }

func (noopProducer) PublishEvent(string, interface{}) error { return nil }
func (noopProducer) Close() error                           { return nil }

// NewProducerFromEnv 는 환경변수 기반으로 프로듀서를 생성하되,
// Kafka 가 설정되지 않았으면 no-op 프로듀서를 반환한다.
func NewProducerFromEnv() Producer {
	cfg, err := NewConfig()
	if err != nil {
		logger.Log.Infof("kafka not configured, event publishing disabled")
		return NewNoopProducer()
	}
	p, err := NewProducer(cfg)
	if err != nil {
		logger.Log.Errorf("failed to create kafka producer, event publishing disabled: %v", err)
		return NewNoopProducer()
	}
	return p
}
