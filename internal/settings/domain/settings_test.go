package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	s := Defaults("")

	assert.Equal(t, DefaultAPIURL, s.APIURL)
	assert.True(t, s.AutoRefresh)
	assert.Equal(t, 30*time.Second, s.RefreshInterval.Duration())
	assert.Equal(t, "csv", s.ExportFormat)
	assert.True(t, s.Notifications)
	assert.False(t, s.CompactView)
	assert.True(t, s.ShowTooltips)
	assert.Equal(t, "en", s.Language)
	assert.NoError(t, s.Validate())

	assert.Equal(t, "http://api:8000", Defaults("http://api:8000").APIURL)
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Settings)
	}{
		{name: "URL sin esquema", mutate: func(s *Settings) { s.APIURL = "localhost:8000" }},
		{name: "URL vacía", mutate: func(s *Settings) { s.APIURL = "" }},
		{name: "Intervalo no permitido", mutate: func(s *Settings) { s.RefreshInterval = 7 }},
		{name: "Formato xlsx", mutate: func(s *Settings) { s.ExportFormat = "xlsx" }},
		{name: "Idioma desconocido", mutate: func(s *Settings) { s.Language = "it" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults("")
			tt.mutate(&s)

			assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)
		})
	}
}

func TestSeconds_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input    string
		expected Seconds
		wantErr  bool
	}{
		{input: `{"refresh_interval": 60}`, expected: 60},
		{input: `{"refresh_interval": "300"}`, expected: 300},
		{input: `{"refresh_interval": " 15 "}`, expected: 15},
		{input: `{"refresh_interval": "pronto"}`, wantErr: true},
		{input: `{"refresh_interval": true}`, wantErr: true},
	}

	for _, tt := range tests {
		var s Settings
		err := json.Unmarshal([]byte(tt.input), &s)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, s.RefreshInterval, tt.input)
	}
}

func TestSettings_MergeSobreDefaults(t *testing.T) {
	// Los campos ausentes conservan el valor por defecto
	s := Defaults("")

	require.NoError(t, json.Unmarshal([]byte(`{"language":"es","notifications":false}`), &s))

	assert.Equal(t, "es", s.Language)
	assert.False(t, s.Notifications)
	assert.True(t, s.AutoRefresh)
	assert.Equal(t, Seconds(30), s.RefreshInterval)
}
