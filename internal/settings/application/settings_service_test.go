package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	carDomain "github.com/davicafu/carexplorer/internal/car/domain"
	"github.com/davicafu/carexplorer/internal/settings/domain"
	"github.com/davicafu/carexplorer/tests/mocks"
)

const apiURL = "http://pricing:8000"

func newTestService() (*SettingsService, *mocks.MemorySettingsRepo, *mocks.DummyCache, *mocks.DummyPublisher) {
	repo := mocks.NewMemorySettingsRepo()
	cache := mocks.NewDummyCache()
	pub := &mocks.DummyPublisher{}
	return NewSettingsService(repo, cache, pub, apiURL, time.Minute, zap.NewNop()), repo, cache, pub
}

func TestSettingsService_GetSinDocumentoDevuelveDefaults(t *testing.T) {
	svc, _, cache, _ := newTestService()

	s, err := svc.Get(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.Defaults(apiURL), s)
	assert.True(t, cache.Has(cacheKey), "La lectura debe quedar cacheada")
}

func TestSettingsService_GetMezclaDocumentoParcial(t *testing.T) {
	svc, repo, _, _ := newTestService()
	repo.SetRaw(domain.Key, `{"language":"es","refresh_interval":"60"}`)

	s, err := svc.Get(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "es", s.Language)
	assert.Equal(t, domain.Seconds(60), s.RefreshInterval)
	assert.Equal(t, apiURL, s.APIURL)
	assert.True(t, s.Notifications)
}

func TestSettingsService_GetErrorDeRepositorio(t *testing.T) {
	svc, repo, _, _ := newTestService()
	repo.LoadErr = errors.New("disk full")

	_, err := svc.Get(context.Background())

	assert.Error(t, err)
}

func TestSettingsService_SaveYReset(t *testing.T) {
	svc, repo, _, pub := newTestService()
	ctx := context.Background()

	// Arrange: primera lectura cachea los defaults
	_, err := svc.Get(ctx)
	require.NoError(t, err)

	// Act: guardar
	s := svc.Defaults()
	s.ExportFormat = "json"
	s.AutoRefresh = false
	saved, err := svc.Save(ctx, s)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, s, saved)
	assert.Equal(t, 1, repo.SaveCalls)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "json", got.ExportFormat, "La caché no debe servir el valor anterior")

	// Act: reset
	reset, err := svc.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, svc.Defaults(), reset)

	got, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "csv", got.ExportFormat)

	assert.Equal(t, []string{domain.SettingsSaved, domain.SettingsReset}, pub.Types())
}

func TestSettingsService_SaveInvalido(t *testing.T) {
	svc, repo, _, pub := newTestService()
	s := svc.Defaults()
	s.RefreshInterval = 5

	_, err := svc.Save(context.Background(), s)

	assert.ErrorIs(t, err, domain.ErrInvalidSettings)
	assert.Equal(t, 0, repo.SaveCalls)
	assert.Empty(t, pub.Types())
}

func TestSettingsService_Preferences(t *testing.T) {
	svc, _, _, _ := newTestService()
	s := svc.Defaults()
	s.RefreshInterval = 300
	s.ExportFormat = "json"
	s.Notifications = false
	_, err := svc.Save(context.Background(), s)
	require.NoError(t, err)

	prefs, err := svc.Preferences(context.Background())

	require.NoError(t, err)
	assert.Equal(t, carDomain.Preferences{
		AutoRefresh:     true,
		RefreshInterval: 5 * time.Minute,
		ExportFormat:    carDomain.ExportJSON,
		Notifications:   false,
	}, prefs)
}

func TestSettingsService_SinCache(t *testing.T) {
	repo := mocks.NewMemorySettingsRepo()
	svc := NewSettingsService(repo, nil, nil, "", time.Minute, zap.NewNop())

	s, err := svc.Get(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAPIURL, s.APIURL)
}
