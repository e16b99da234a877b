package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	carDomain "github.com/davicafu/carexplorer/internal/car/domain"
	"github.com/davicafu/carexplorer/internal/settings/domain"
	sharedEvents "github.com/davicafu/carexplorer/shared/events"
	sharedBus "github.com/davicafu/carexplorer/shared/platform/bus"
	sharedCache "github.com/davicafu/carexplorer/shared/platform/cache"
)

const cacheKey = "settings:" + domain.Key

// SettingsService casos de uso de los ajustes de la app.
type SettingsService struct {
	repo          domain.SettingsRepository
	cache         sharedCache.Cache
	publisher     sharedBus.EventPublisher
	defaultAPIURL string
	cacheTTL      int // segundos
	log           *zap.Logger
}

// NewSettingsService cache y publisher pueden ser nil.
func NewSettingsService(repo domain.SettingsRepository, cache sharedCache.Cache, publisher sharedBus.EventPublisher, defaultAPIURL string, cacheTTL time.Duration, log *zap.Logger) *SettingsService {
	return &SettingsService{
		repo:          repo,
		cache:         cache,
		publisher:     publisher,
		defaultAPIURL: defaultAPIURL,
		cacheTTL:      int(cacheTTL.Seconds()),
		log:           log,
	}
}

// Defaults valores de fábrica con la URL de la API configurada.
func (s *SettingsService) Defaults() domain.Settings {
	return domain.Defaults(s.defaultAPIURL)
}

// Get devuelve los ajustes guardados mezclados con los valores por defecto.
func (s *SettingsService) Get(ctx context.Context) (domain.Settings, error) {
	// 1. Intentar cache
	if s.cache != nil {
		var cached domain.Settings
		if ok, _ := s.cache.Get(ctx, cacheKey, &cached); ok {
			return cached, nil
		}
	}

	// 2. Repositorio sobre los defaults
	settings := s.Defaults()
	if err := s.repo.Load(ctx, domain.Key, &settings); err != nil {
		if !errors.Is(err, domain.ErrSettingsNotFound) {
			return domain.Settings{}, fmt.Errorf("load settings: %w", err)
		}
		settings = s.Defaults()
	}

	// 3. Actualizar cache. Síncrono: un Set tardío podría pisar un Save posterior.
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, settings, s.cacheTTL); err != nil {
			s.log.Warn("Cache update failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return settings, nil
}

// Save valida y guarda el documento completo.
func (s *SettingsService) Save(ctx context.Context, settings domain.Settings) (domain.Settings, error) {
	if err := settings.Validate(); err != nil {
		return domain.Settings{}, err
	}
	if err := s.repo.Save(ctx, domain.Key, settings); err != nil {
		s.log.Error("❌ Error guardando ajustes", zap.Error(err))
		return domain.Settings{}, fmt.Errorf("save settings: %w", err)
	}

	// Write-through: la siguiente lectura no puede ver el valor anterior.
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, settings, s.cacheTTL); err != nil {
			s.log.Warn("Cache update failed", zap.String("key", cacheKey), zap.Error(err))
			_ = s.cache.Delete(ctx, cacheKey)
		}
	}

	s.log.Info("⚙️ Ajustes guardados",
		zap.Bool("auto_refresh", settings.AutoRefresh),
		zap.Int("refresh_interval", int(settings.RefreshInterval)),
		zap.String("export_format", settings.ExportFormat))
	s.publish(ctx, domain.SettingsSaved, sharedEvents.SettingsChanged{Reset: false})
	return settings, nil
}

// Reset borra el documento guardado y devuelve los valores por defecto.
func (s *SettingsService) Reset(ctx context.Context) (domain.Settings, error) {
	if err := s.repo.Delete(ctx, domain.Key); err != nil {
		return domain.Settings{}, fmt.Errorf("reset settings: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, cacheKey); err != nil {
			s.log.Warn("Cache deletion failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	s.log.Info("⚙️ Ajustes restablecidos")
	s.publish(ctx, domain.SettingsReset, sharedEvents.SettingsChanged{Reset: true})
	return s.Defaults(), nil
}

// Preferences subconjunto que consume el explorador (auto refresh, export, notificaciones).
func (s *SettingsService) Preferences(ctx context.Context) (carDomain.Preferences, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return carDomain.Preferences{}, err
	}
	format, err := carDomain.ParseExportFormat(settings.ExportFormat)
	if err != nil {
		format = carDomain.ExportCSV
	}
	return carDomain.Preferences{
		AutoRefresh:     settings.AutoRefresh,
		RefreshInterval: settings.RefreshInterval.Duration(),
		ExportFormat:    format,
		Notifications:   settings.Notifications,
	}, nil
}

func (s *SettingsService) publish(ctx context.Context, eventType string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	evt, err := sharedEvents.NewIntegrationEvent(eventType, payload)
	if err != nil {
		s.log.Warn("⚠️ No se pudo serializar el evento", zap.String("type", eventType), zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.log.Warn("⚠️ No se pudo publicar el evento", zap.String("type", eventType), zap.Error(err))
	}
}

var _ carDomain.PreferencesReader = (*SettingsService)(nil)
