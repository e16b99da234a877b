package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	carDomain "github.com/davicafu/carexplorer/internal/car/domain"
	infraEvents "github.com/davicafu/carexplorer/internal/infra/events"
	settingsDomain "github.com/davicafu/carexplorer/internal/settings/domain"
	sharedEvents "github.com/davicafu/carexplorer/shared/events"
	"github.com/davicafu/carexplorer/tests/mocks"
)

func encode(t *testing.T, eventType string, payload interface{}) []byte {
	t.Helper()
	evt, err := sharedEvents.NewIntegrationEvent(eventType, payload)
	require.NoError(t, err)
	data, err := json.Marshal(evt)
	require.NoError(t, err)
	return data
}

func TestNotificationConsumer_HandleMessage(t *testing.T) {
	tests := []struct {
		name        string
		eventType   string
		payload     interface{}
		title       string
		description string
		variant     string
	}{
		{
			name: "dataset cargado", eventType: carDomain.DatasetLoaded,
			payload: sharedEvents.DatasetLoaded{Records: 1000},
			title:   "Dataset Loaded", description: "Loaded 1,000 records for exploration.", variant: "default",
		},
		{
			name: "fallo de carga", eventType: carDomain.DatasetLoadFailed,
			payload: sharedEvents.DatasetLoadFailed{Reason: "timeout"},
			title:   "Error", description: "Failed to load dataset. Please try again.", variant: "destructive",
		},
		{
			name: "export", eventType: carDomain.DatasetExported,
			payload: sharedEvents.DatasetExported{Records: 2, Format: "csv"},
			title:   "Export Complete", description: "Exported 2 records to CSV file.", variant: "default",
		},
		{
			name: "predicción", eventType: carDomain.PredictionCompleted,
			payload: sharedEvents.PredictionCompleted{PredictedPrice: 21500.4},
			title:   "Prediction Complete", description: "Estimated price: $21,500", variant: "default",
		},
		{
			name: "ajustes guardados", eventType: settingsDomain.SettingsSaved,
			payload: sharedEvents.SettingsChanged{},
			title:   "Settings Saved", description: "Your preferences have been saved successfully.", variant: "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feed := NewNotificationFeed(10)
			c := NewNotificationConsumer(feed, nil, zap.NewNop())

			c.HandleMessage(context.Background(), "", encode(t, tt.eventType, tt.payload))

			items := feed.List(0)
			require.Len(t, items, 1)
			assert.Equal(t, tt.title, items[0].Title)
			assert.Equal(t, tt.description, items[0].Description)
			assert.Equal(t, tt.variant, items[0].Variant)
			assert.Equal(t, tt.eventType, items[0].Type)
		})
	}
}

func TestNotificationConsumer_IgnoraDesconocidosYBasura(t *testing.T) {
	feed := NewNotificationFeed(10)
	c := NewNotificationConsumer(feed, nil, zap.NewNop())

	c.HandleMessage(context.Background(), "", []byte("no-json"))
	c.HandleMessage(context.Background(), "", encode(t, "otro.evento", map[string]string{}))

	assert.Empty(t, feed.List(0))
}

func TestNotificationConsumer_NotificacionesDesactivadas(t *testing.T) {
	feed := NewNotificationFeed(10)
	prefs := mocks.StaticPreferences{Prefs: carDomain.Preferences{Notifications: false}}
	c := NewNotificationConsumer(feed, prefs, zap.NewNop())

	c.HandleMessage(context.Background(), "", encode(t, carDomain.DatasetLoadFailed, sharedEvents.DatasetLoadFailed{}))

	assert.Empty(t, feed.List(0))
}

func TestNotificationFeed_GuardaLasUltimas(t *testing.T) {
	feed := NewNotificationFeed(3)
	for i := 0; i < 5; i++ {
		feed.Add(Notification{Title: string(rune('a' + i))})
	}

	items := feed.List(0)

	require.Len(t, items, 3)
	assert.Equal(t, "e", items[0].Title, "la más reciente primero")
	assert.Equal(t, "c", items[2].Title)
	assert.Len(t, feed.List(2), 2)
}

func TestBackgroundConsumerChan_ConsumeDelBus(t *testing.T) {
	bus := infraEvents.NewInMemoryEventBus(carDomain.NotificationTopic)
	feed := NewNotificationFeed(10)
	c := NewNotificationConsumer(feed, nil, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	BackgroundConsumerChan(ctx, bus.Subscribe(10), c)
	evt, err := sharedEvents.NewIntegrationEvent(carDomain.PredictionFailed, sharedEvents.PredictionFailed{Reason: "x"})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(ctx, evt))

	require.Eventually(t, func() bool { return len(feed.List(0)) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "Prediction Failed", feed.List(0)[0].Title)
}
