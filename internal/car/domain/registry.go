package domain

import (
	"reflect"

	sharedEvents "github.com/davicafu/carexplorer/shared/events"
)

// Las constantes de los tipos de evento se definen aquí, como valores string.
const (
	DatasetLoaded       = "dataset.loaded"
	DatasetLoadFailed   = "dataset.load_failed"
	DatasetExported     = "dataset.exported"
	PredictionCompleted = "prediction.completed"
	PredictionFailed    = "prediction.failed"
)

const NotificationTopic = "notifications"

func NewEventRegistry() map[string]sharedEvents.EventMetadata {
	return map[string]sharedEvents.EventMetadata{
		DatasetLoaded: {
			Type:  reflect.TypeOf(sharedEvents.DatasetLoaded{}),
			Topic: NotificationTopic,
		},
		DatasetLoadFailed: {
			Type:  reflect.TypeOf(sharedEvents.DatasetLoadFailed{}),
			Topic: NotificationTopic,
		},
		DatasetExported: {
			Type:  reflect.TypeOf(sharedEvents.DatasetExported{}),
			Topic: NotificationTopic,
		},
		PredictionCompleted: {
			Type:  reflect.TypeOf(sharedEvents.PredictionCompleted{}),
			Topic: NotificationTopic,
		},
		PredictionFailed: {
			Type:  reflect.TypeOf(sharedEvents.PredictionFailed{}),
			Topic: NotificationTopic,
		},
	}
}
