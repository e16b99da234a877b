package domain

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Key documento único donde se guardan los ajustes de la app.
const Key = "app-settings"

const DefaultAPIURL = "http://localhost:8000"

// Valores aceptados por los selectores de la pantalla de ajustes.
var (
	RefreshIntervals = []int{15, 30, 60, 300, 600}
	ExportFormats    = []string{"csv", "json"}
	Languages        = []string{"en", "es", "fr", "de"}
)

// Seconds intervalo en segundos. Acepta número o string ("30") en JSON.
type Seconds int

func (s *Seconds) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*s = Seconds(n)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("%w: refresh_interval must be a number", ErrInvalidSettings)
	}
	n, err := strconv.Atoi(strings.TrimSpace(str))
	if err != nil {
		return fmt.Errorf("%w: refresh_interval %q is not a number", ErrInvalidSettings, str)
	}
	*s = Seconds(n)
	return nil
}

func (s Seconds) Duration() time.Duration {
	return time.Duration(s) * time.Second
}

// Settings preferencias de la app.
type Settings struct {
	APIURL          string  `json:"api_url" bson:"api_url"`
	AutoRefresh     bool    `json:"auto_refresh" bson:"auto_refresh"`
	RefreshInterval Seconds `json:"refresh_interval" bson:"refresh_interval"`
	ExportFormat    string  `json:"export_format" bson:"export_format"`
	Notifications   bool    `json:"notifications" bson:"notifications"`
	CompactView     bool    `json:"compact_view" bson:"compact_view"`
	ShowTooltips    bool    `json:"show_tooltips" bson:"show_tooltips"`
	Language        string  `json:"language" bson:"language"`
}

// Defaults valores de fábrica. apiURL vacío usa DefaultAPIURL.
func Defaults(apiURL string) Settings {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return Settings{
		APIURL:          apiURL,
		AutoRefresh:     true,
		RefreshInterval: 30,
		ExportFormat:    "csv",
		Notifications:   true,
		CompactView:     false,
		ShowTooltips:    true,
		Language:        "en",
	}
}

// Validate comprueba que cada valor pertenece a su selector.
func (s Settings) Validate() error {
	u, err := url.Parse(s.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: api_url must be an absolute http(s) url", ErrInvalidSettings)
	}
	if !contains(RefreshIntervals, int(s.RefreshInterval)) {
		return fmt.Errorf("%w: refresh_interval must be one of %v", ErrInvalidSettings, RefreshIntervals)
	}
	if !contains(ExportFormats, s.ExportFormat) {
		return fmt.Errorf("%w: export_format must be one of %v", ErrInvalidSettings, ExportFormats)
	}
	if !contains(Languages, s.Language) {
		return fmt.Errorf("%w: language must be one of %v", ErrInvalidSettings, Languages)
	}
	return nil
}

func contains[T comparable](values []T, v T) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
