package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

const (
	defaultQueueSize = 1000
	writeTimeout     = 10 * time.Second
)

type EventType string

const (
	Created  EventType = "created"
	Updated  EventType = "updated"
	Deleted  EventType = "deleted"
	Linked   EventType = "linked"
	Unlinked EventType = "unlinked"
)

// Event describes one change to a stored resource. Key is the affected row's
// primary key; Payload is the row state after the change and is empty for
// deletions.
type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       EventType `json:"type"`
	Resource   string    `json:"resource"`
	Key        string    `json:"key"`
	Payload    any       `json:"payload,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes events to Kafka from a single background loop. Produce
// never blocks; events are dropped when the queue is full.
type Producer struct {
	writer    KafkaWriter
	events    chan Event
	logger    *zap.Logger
	closeChan chan struct{}
	done      chan struct{}
}

func NewProducer(brokers []string, logger *zap.Logger, topic string) (*Producer, error) {
	// Create topic if it doesn't exist
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     3,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.Error(err))
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		Topic:        topic,
		WriteTimeout: writeTimeout,
	}
	return newProducer(writer, logger, defaultQueueSize), nil
}

func newProducer(writer KafkaWriter, logger *zap.Logger, queueSize int) *Producer {
	p := &Producer{
		writer:    writer,
		events:    make(chan Event, queueSize),
		logger:    logger.Named("kafka_producer"),
		closeChan: make(chan struct{}),
		done:      make(chan struct{}),
	}
	go p.eventLoop()
	return p
}

func (p *Producer) Produce(eventType EventType, resource, key string, payload any) {
	event := Event{
		ID:         uuid.New(),
		Type:       eventType,
		Resource:   resource,
		Key:        key,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
	select {
	case p.events <- event:
	default:
		p.logger.Warn("Kafka producer queue full, dropping event",
			zap.String("event_type", string(eventType)),
			zap.String("resource", resource),
			zap.String("key", key),
		)
	}
}

func (p *Producer) eventLoop() {
	defer close(p.done)
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		case <-p.closeChan:
			p.drain()
			return
		}
	}
}

// drain flushes events queued before Close.
func (p *Producer) drain() {
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		default:
			return
		}
	}
}

func (p *Producer) sendEvent(ctx context.Context, event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("Failed to serialize event",
			zap.Error(err),
			zap.String("resource", event.Resource),
			zap.String("key", event.Key),
		)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Resource + "/" + event.Key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
			{Key: "resource", Value: []byte(event.Resource)},
		},
	})
	if err != nil {
		p.logger.Error("Failed to produce event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.String("resource", event.Resource),
			zap.String("key", event.Key),
		)
	}
}

// Close stops the loop after flushing queued events and closes the writer.
func (p *Producer) Close() {
	close(p.closeChan)
	<-p.done
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer", zap.Error(err))
	}
}

// NopProducer discards every event. It is used when no brokers are configured.
type NopProducer struct{}

func (NopProducer) Produce(EventType, string, string, any) {}

func (NopProducer) Close() {}
