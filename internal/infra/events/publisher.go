package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher публикует доменные события записей в Kafka.
// Ключ сообщения - tenant ID: события одного тенанта попадают в одну
// партицию и читаются консюмерами по порядку.
type Publisher struct {
	writer *kafka.Writer
	log    Logger
}

// NewPublisher создает публикатор поверх kafka.Writer
func NewPublisher(brokers []string, topic string, log Logger) *Publisher {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.Hash{},
	})

	return &Publisher{
		writer: writer,
		log:    log,
	}
}

// Publish отправляет событие. Блокируется до подтверждения брокером
// либо до отмены контекста.
func (p *Publisher) Publish(ctx context.Context, event domain.AppointmentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMarshalEvent, err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.TenantID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.ID)},
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPublish, event.Type, err)
	}

	p.log.Info("Published event %s (id=%s, tenant=%d, appointment=%d)",
		event.Type, event.ID, event.TenantID, event.AppointmentID)

	return nil
}

// Close закрывает writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// NopPublisher заглушка для окружений без брокера (events.enabled = false)
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event domain.AppointmentEvent) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
