package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	sharedEvents "github.com/davicafu/carexplorer/shared/events"
	sharedBus "github.com/davicafu/carexplorer/shared/platform/bus"
)

// MessageWriter lo cumple *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher elige el topic de cada mensaje según el registro de eventos.
// El writer no debe tener Topic fijo.
type KafkaPublisher struct {
	writer       MessageWriter
	registry     map[string]sharedEvents.EventMetadata
	defaultTopic string
	log          *zap.Logger
}

func NewKafkaPublisher(writer MessageWriter, registry map[string]sharedEvents.EventMetadata, defaultTopic string, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, registry: registry, defaultTopic: defaultTopic, log: log}
}

// topicFor tipos no registrados van al topic por defecto.
func (p *KafkaPublisher) topicFor(event interface{}) string {
	if evt, ok := event.(sharedEvents.IntegrationEvent); ok {
		if meta, ok := p.registry[evt.Type]; ok && meta.Topic != "" {
			return meta.Topic
		}
	}
	return p.defaultTopic
}

func (p *KafkaPublisher) Publish(ctx context.Context, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	var key []byte
	if keyer, ok := event.(sharedBus.Keyer); ok {
		key = []byte(keyer.PartitionKey())
	}

	msg := kafka.Message{
		Topic: p.topicFor(event),
		Key:   key,
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("Error publishing to Kafka", zap.Error(err))
		return err
	}

	p.log.Debug("Event published successfully", zap.String("topic", msg.Topic), zap.ByteString("key", key))
	return nil
}

// Verificación estática
var _ sharedBus.EventPublisher = (*KafkaPublisher)(nil)
