package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dipanshukale/CraftCrazy/metrics"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher mirrors notifier events onto a Kafka topic, keyed by event name.
type KafkaPublisher struct {
	writer  messageWriter
	logger  zerolog.Logger
	nowFunc func() time.Time
}

type kafkaEnvelope struct {
	Event     string    `json:"event"`
	Data      any       `json:"data,omitempty"`
	EmittedAt time.Time `json:"emittedAt"`
}

// NewKafkaPublisher builds an async writer; write failures are logged, never returned.
func NewKafkaPublisher(brokers []string, topic string, logger zerolog.Logger) *KafkaPublisher {
	logger = logger.With().Str("component", "kafka-publisher").Str("topic", topic).Logger()
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error().Err(err).Int("messages", len(messages)).Msg("kafka write failed")
			}
		},
	}
	return newKafkaPublisher(writer, logger)
}

func newKafkaPublisher(w messageWriter, logger zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, logger: logger, nowFunc: time.Now}
}

func (p *KafkaPublisher) Emit(event string, payload any) {
	data, err := json.Marshal(kafkaEnvelope{Event: event, Data: payload, EmittedAt: p.nowFunc().UTC()})
	if err != nil {
		p.logger.Error().Err(err).Str("event", event).Msg("marshal kafka event")
		return
	}

	err = p.writer.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(event),
		Value: data,
		Time:  p.nowFunc(),
	})
	if err != nil {
		p.logger.Error().Err(err).Str("event", event).Msg("kafka publish failed")
		return
	}
	metrics.EventsEmitted.WithLabelValues(event, "kafka").Inc()
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
