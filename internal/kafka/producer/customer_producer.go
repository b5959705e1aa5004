package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Dhoini/Customer-microservice/internal/domain"
	"github.com/Dhoini/Customer-microservice/internal/kafka"
	"github.com/Dhoini/Customer-microservice/pkg/logger"
	"github.com/IBM/sarama"
)

// CustomerEvent представляет событие клиента для Kafka.
// Поля клиента заданы в событиях создания и обновления (в том числе пустые значения)
// и отсутствуют в событии удаления.
type CustomerEvent struct {
	EventType  string    `json:"event_type"`
	CustomerID int64     `json:"customer_id"`
	Name       *string   `json:"name,omitempty"`
	Email      *string   `json:"email,omitempty"`
	Age        *int      `json:"age,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// CustomerProducer интерфейс для отправки событий клиентов
type CustomerProducer interface {
	PublishCustomerCreated(ctx context.Context, customer domain.Customer) error
	PublishCustomerUpdated(ctx context.Context, customer domain.Customer) error
	PublishCustomerDeleted(ctx context.Context, id int64) error
	Close() error
}

type kafkaCustomerProducer struct {
	producer sarama.SyncProducer
	now      func() time.Time
	log      *logger.Logger
}

// NewKafkaCustomerProducer создает новый продюсер событий клиентов
func NewKafkaCustomerProducer(producer sarama.SyncProducer, log *logger.Logger) CustomerProducer {
	return &kafkaCustomerProducer{
		producer: producer,
		now:      time.Now,
		log:      log,
	}
}

// PublishCustomerCreated публикует событие о создании клиента
func (p *kafkaCustomerProducer) PublishCustomerCreated(ctx context.Context, customer domain.Customer) error {
	return p.publishEvent(ctx, kafka.TopicCustomerCreated, p.customerEvent(kafka.TopicCustomerCreated, customer))
}

// PublishCustomerUpdated публикует событие об обновлении клиента
func (p *kafkaCustomerProducer) PublishCustomerUpdated(ctx context.Context, customer domain.Customer) error {
	return p.publishEvent(ctx, kafka.TopicCustomerUpdated, p.customerEvent(kafka.TopicCustomerUpdated, customer))
}

// PublishCustomerDeleted публикует событие об удалении клиента
func (p *kafkaCustomerProducer) PublishCustomerDeleted(ctx context.Context, id int64) error {
	return p.publishEvent(ctx, kafka.TopicCustomerDeleted, CustomerEvent{
		EventType:  kafka.TopicCustomerDeleted,
		CustomerID: id,
		Timestamp:  p.now(),
	})
}

func (p *kafkaCustomerProducer) customerEvent(eventType string, customer domain.Customer) CustomerEvent {
	return CustomerEvent{
		EventType:  eventType,
		CustomerID: customer.ID,
		Name:       &customer.Name,
		Email:      &customer.Email,
		Age:        &customer.Age,
		Timestamp:  p.now(),
	}
}

// publishEvent публикует событие клиента в Kafka
func (p *kafkaCustomerProducer) publishEvent(ctx context.Context, topic string, event CustomerEvent) error {
	messageValue, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal customer event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(event.CustomerID, 10)),
		Value: sarama.ByteEncoder(messageValue),
		Headers: []sarama.RecordHeader{
			{
				Key:   []byte("event_type"),
				Value: []byte(event.EventType),
			},
		},
		Timestamp: event.Timestamp,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to publish customer event: %w", err)
	}

	p.log.Debug("Published customer event to topic %s: partition=%d offset=%d", topic, partition, offset)

	return nil
}

// Close закрывает продюсер
func (p *kafkaCustomerProducer) Close() error {
	return p.producer.Close()
}

// NoopProducer используется, когда публикация событий выключена
type NoopProducer struct{}

// PublishCustomerCreated ничего не делает
func (NoopProducer) PublishCustomerCreated(context.Context, domain.Customer) error { return nil }

// PublishCustomerUpdated ничего не делает
func (NoopProducer) PublishCustomerUpdated(context.Context, domain.Customer) error { return nil }

// PublishCustomerDeleted ничего не делает
func (NoopProducer) PublishCustomerDeleted(context.Context, int64) error { return nil }

// Close ничего не делает
func (NoopProducer) Close() error { return nil }
