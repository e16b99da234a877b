package mocks

import (
	"context"
	"sync"

	sharedEvents "github.com/davicafu/carexplorer/shared/events"
	sharedBus "github.com/davicafu/carexplorer/shared/platform/bus"
	"github.com/stretchr/testify/mock"
)

// DummyPublisher guarda los eventos publicados como evidencia.
type DummyPublisher struct {
	Published []sharedEvents.IntegrationEvent
	mu        sync.Mutex
}

var _ sharedBus.EventPublisher = (*DummyPublisher)(nil)

func (p *DummyPublisher) Publish(ctx context.Context, event interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if evt, ok := event.(sharedEvents.IntegrationEvent); ok {
		p.Published = append(p.Published, evt)
	}
	return nil
}

// Types tipos publicados en orden.
func (p *DummyPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]string, len(p.Published))
	for i, evt := range p.Published {
		out[i] = evt.Type
	}
	return out
}

// MockPublisher simula un publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event interface{}) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
