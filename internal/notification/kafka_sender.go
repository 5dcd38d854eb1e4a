package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer used by KafkaSender.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSender publishes messages to a topic for an external mailer to consume.
type KafkaSender struct {
	writer MessageWriter
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
}

func NewKafkaSender(writer MessageWriter) *KafkaSender {
	return &KafkaSender{writer: writer}
}

type envelope struct {
	ID        string    `json:"id"`
	Message   Message   `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *KafkaSender) Send(ctx context.Context, msg Message) (string, error) {
	env := envelope{ID: uuid.NewString(), Message: msg, CreatedAt: time.Now().UTC()}
	value, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("encoding notification envelope: %w", err)
	}

	err = s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.To),
		Value: value,
		Time:  env.CreatedAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("email")},
		},
	})
	if err != nil {
		return "", fmt.Errorf("publishing notification: %w", err)
	}
	return env.ID, nil
}

func (s *KafkaSender) Close() error {
	return s.writer.Close()
}
