package events

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	carDomain "github.com/davicafu/carexplorer/internal/car/domain"
	settingsDomain "github.com/davicafu/carexplorer/internal/settings/domain"
	sharedEvents "github.com/davicafu/carexplorer/shared/events"
	sharedUtils "github.com/davicafu/carexplorer/shared/utils"
)

const DefaultFeedSize = 50

// Notification un toast listo para mostrar.
type Notification struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Variant     string    `json:"variant"` // "default" | "destructive"
	Timestamp   time.Time `json:"timestamp"`
}

// NotificationFeed guarda las últimas N notificaciones, la más reciente primero.
type NotificationFeed struct {
	items []Notification
	size  int
	mu    sync.RWMutex
}

func NewNotificationFeed(size int) *NotificationFeed {
	if size <= 0 {
		size = DefaultFeedSize
	}
	return &NotificationFeed{size: size}
}

func (f *NotificationFeed) Add(n Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append([]Notification{n}, f.items...)
	if len(f.items) > f.size {
		f.items = f.items[:f.size]
	}
}

// List copia de las notificaciones, como mucho 'limit' (0 = todas).
func (f *NotificationFeed) List(limit int) []Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n := len(f.items)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Notification, n)
	copy(out, f.items[:n])
	return out
}

// NotificationConsumer convierte eventos de integración en toasts.
type NotificationConsumer struct {
	feed  *NotificationFeed
	prefs carDomain.PreferencesReader
	log   *zap.Logger
	money *message.Printer
}

// NewNotificationConsumer prefs puede ser nil (notificaciones siempre activas).
func NewNotificationConsumer(feed *NotificationFeed, prefs carDomain.PreferencesReader, logger *zap.Logger) *NotificationConsumer {
	return &NotificationConsumer{
		feed:  feed,
		prefs: prefs,
		log:   logger,
		money: message.NewPrinter(language.English),
	}
}

func (c *NotificationConsumer) HandleMessage(ctx context.Context, key string, payload []byte) {
	var base sharedEvents.IntegrationEvent
	if err := json.Unmarshal(payload, &base); err != nil {
		c.log.Warn("Failed to unmarshal integration event", zap.String("key", key), zap.Error(err))
		return
	}

	switch base.Type {
	case carDomain.DatasetLoaded:
		sharedUtils.UnmarshalAndHandle[sharedEvents.DatasetLoaded](c.log, base.Data, func(evt sharedEvents.DatasetLoaded) {
			c.notify(ctx, base, "Dataset Loaded", c.money.Sprintf("Loaded %d records for exploration.", evt.Records), false)
		})

	case carDomain.DatasetLoadFailed:
		c.notify(ctx, base, "Error", "Failed to load dataset. Please try again.", true)

	case carDomain.DatasetExported:
		sharedUtils.UnmarshalAndHandle[sharedEvents.DatasetExported](c.log, base.Data, func(evt sharedEvents.DatasetExported) {
			c.notify(ctx, base, "Export Complete",
				c.money.Sprintf("Exported %d records to %s file.", evt.Records, strings.ToUpper(evt.Format)), false)
		})

	case carDomain.PredictionCompleted:
		sharedUtils.UnmarshalAndHandle[sharedEvents.PredictionCompleted](c.log, base.Data, func(evt sharedEvents.PredictionCompleted) {
			c.notify(ctx, base, "Prediction Complete", c.money.Sprintf("Estimated price: $%.0f", evt.PredictedPrice), false)
		})

	case carDomain.PredictionFailed:
		c.notify(ctx, base, "Prediction Failed", "Unable to get price prediction. Please check your inputs and try again.", true)

	case settingsDomain.SettingsSaved:
		c.notify(ctx, base, "Settings Saved", "Your preferences have been saved successfully.", false)

	case settingsDomain.SettingsReset:
		c.notify(ctx, base, "Settings Reset", "All settings have been reset to defaults.", false)

	default:
		c.log.Warn("Unknown event type", zap.String("type", base.Type))
	}
}

func (c *NotificationConsumer) notify(ctx context.Context, evt sharedEvents.IntegrationEvent, title, description string, destructive bool) {
	c.log.Info("🔔 "+title,
		zap.String("type", evt.Type),
		zap.String("description", description))

	if c.prefs != nil {
		p, err := c.prefs.Preferences(ctx)
		if err == nil && !p.Notifications {
			return
		}
	}

	ts := evt.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	id := evt.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	c.feed.Add(Notification{
		ID:          id,
		Type:        evt.Type,
		Title:       title,
		Description: description,
		Variant:     sharedUtils.Ternary(destructive, "destructive", "default"),
		Timestamp:   ts,
	})
}

// BackgroundConsumerChan consume el bus en memoria hasta que se cancele el contexto o se cierre el canal.
func BackgroundConsumerChan(ctx context.Context, ch <-chan interface{}, consumer *NotificationConsumer) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				consumer.log.Info("NotificationConsumer stopped")
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				// el bus envía []byte
				if payload, ok := msg.([]byte); ok {
					consumer.HandleMessage(ctx, "", payload)
				}
			}
		}
	}()
}
