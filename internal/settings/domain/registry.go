package domain

import (
	"reflect"

	sharedEvents "github.com/davicafu/carexplorer/shared/events"
)

const SettingsTopic = "notifications"

func NewEventRegistry() map[string]sharedEvents.EventMetadata {
	return map[string]sharedEvents.EventMetadata{
		SettingsSaved: {
			Type:  reflect.TypeOf(sharedEvents.SettingsChanged{}),
			Topic: SettingsTopic,
		},
		SettingsReset: {
			Type:  reflect.TypeOf(sharedEvents.SettingsChanged{}),
			Topic: SettingsTopic,
		},
	}
}
