package events

import "time"

// Contratos de integración del explorador; planos, sin entidades de dominio.

type DatasetLoaded struct {
	Records      int       `json:"records"`
	TotalRecords int       `json:"total_records"`
	FromCache    bool      `json:"from_cache"`
	LoadedAt     time.Time `json:"loaded_at"`
}

type DatasetLoadFailed struct {
	Reason string `json:"reason"`
}

type DatasetExported struct {
	SessionID string `json:"session_id"`
	Format    string `json:"format"`
	FileName  string `json:"file_name"`
	Records   int    `json:"records"`
}

type PredictionCompleted struct {
	Brand          string  `json:"brand"`
	Model          string  `json:"model"`
	PredictedPrice float64 `json:"predicted_price"`
}

type PredictionFailed struct {
	Reason string `json:"reason"`
}

type SettingsChanged struct {
	Reset bool `json:"reset"`
}
