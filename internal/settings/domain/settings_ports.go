package domain

import (
	"context"
	"errors"
)

// ---------- Errores de dominio ----------
var (
	ErrSettingsNotFound = errors.New("settings not found")
	ErrInvalidSettings  = errors.New("invalid settings")
)

// ---------- Eventos ----------
const (
	SettingsSaved = "settings.saved"
	SettingsReset = "settings.reset"
)

// ---------- Interfaces (Ports) ----------

// SettingsRepository persiste el documento de ajustes.
type SettingsRepository interface {
	// Load decodifica el documento guardado sobre dest. Los campos ausentes
	// conservan el valor que ya tenía dest. Debe devolver ErrSettingsNotFound si no existe.
	Load(ctx context.Context, key string, dest *Settings) error

	// Save crea o reemplaza el documento.
	Save(ctx context.Context, key string, s Settings) error

	// Delete no falla si el documento no existe.
	Delete(ctx context.Context, key string) error
}
