package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ---------- Errores de dominio ----------
var (
	ErrSessionNotFound  = errors.New("explorer session not found")
	ErrDatasetNotReady  = errors.New("dataset not loaded")
	ErrEmptyExport      = errors.New("no records to export")
	ErrUpstream         = errors.New("pricing api unavailable")
	ErrInvalidFeatures  = errors.New("invalid car features")
	ErrUnknownField     = errors.New("unknown field")
	ErrInvalidExportFmt = errors.New("invalid export format")
)

// ---------- Interfaces (Ports) ----------

// DatasetSource entrega la muestra del dataset y el vocabulario de opciones.
type DatasetSource interface {
	// FetchDatasetSample devuelve como mucho 'limit' registros.
	FetchDatasetSample(ctx context.Context, limit int) (*DatasetSample, error)
	FetchFeatureOptions(ctx context.Context) (FeatureOptions, error)
}

// StatsSource estadísticas agregadas del dataset completo.
type StatsSource interface {
	FetchDatasetStats(ctx context.Context) (*DatasetStats, error)
}

// MetricsSource métricas del modelo publicado.
type MetricsSource interface {
	FetchModelMetrics(ctx context.Context) (*ModelMetrics, error)
}

// PricePredictor pide una predicción a la API remota.
type PricePredictor interface {
	PredictPrice(ctx context.Context, features CarFeatures) (*Prediction, error)
}

// ExportStorage guarda un export y devuelve su ubicación.
type ExportStorage interface {
	Save(ctx context.Context, fileName string, data []byte) (string, error)
}

// Preferences subconjunto de los ajustes de la app que usa el explorador.
type Preferences struct {
	AutoRefresh     bool
	RefreshInterval time.Duration
	ExportFormat    ExportFormat
	Notifications   bool
}

// PreferencesReader lo implementa el servicio de settings.
type PreferencesReader interface {
	Preferences(ctx context.Context) (Preferences, error)
}

// ---------- Export ----------

type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportJSON ExportFormat = "json"
)

// ParseExportFormat "" devuelve el formato por defecto (csv).
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", ExportCSV:
		return ExportCSV, nil
	case ExportJSON:
		return ExportJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidExportFmt, s)
}

func (f ExportFormat) ContentType() string {
	if f == ExportJSON {
		return "application/json"
	}
	return "text/csv"
}

// ExportFileName nombre con timestamp en milisegundos: car-dataset-<ms>.<ext>
func ExportFileName(format ExportFormat, now time.Time) string {
	return fmt.Sprintf("car-dataset-%d.%s", now.UnixMilli(), format)
}

// ---------- Helpers comunes (cache keys, etc.) ----------

func CacheKeyDataset(limit int) string {
	return fmt.Sprintf("car:dataset:limit:%d", limit)
}

func CacheKeyFeatures() string {
	return "car:features"
}

func CacheKeySession(id uuid.UUID) string {
	return fmt.Sprintf("car:session:%s", id.String())
}
