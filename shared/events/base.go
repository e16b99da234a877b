package events

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Base de todos los eventos de integración
type IntegrationEvent struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"` // contenido específico del evento
}

// NewIntegrationEvent serializa el payload y lo envuelve con id y timestamp.
func NewIntegrationEvent(eventType string, payload interface{}) (IntegrationEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return IntegrationEvent{}, err
	}
	return IntegrationEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}, nil
}

// PartitionKey agrupa los eventos del mismo tipo en la misma partición.
func (e IntegrationEvent) PartitionKey() string {
	return e.Type
}

// EventMetadata asocia un tipo de evento con su payload y el topic donde se publica.
type EventMetadata struct {
	Type  reflect.Type
	Topic string
}
