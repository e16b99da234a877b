package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/davicafu/carexplorer/internal/car/domain"
	sharedEvents "github.com/davicafu/carexplorer/shared/events"
	sharedBus "github.com/davicafu/carexplorer/shared/platform/bus"
	sharedCache "github.com/davicafu/carexplorer/shared/platform/cache"
)

// LoadState estado del ciclo de carga del snapshot.
type LoadState string

const (
	StateIdle    LoadState = "idle"
	StateLoading LoadState = "loading"
	StateReady   LoadState = "ready"
	StateError   LoadState = "error"
)

// Snapshot colección inmutable descargada una vez por carga.
type Snapshot struct {
	Records      []domain.CarRecord
	Options      domain.FeatureOptions
	TotalRecords int
	LoadedAt     time.Time
}

// Status resumen para GET /dataset/status.
type Status struct {
	State        LoadState  `json:"state"`
	Records      int        `json:"records"`
	TotalRecords int        `json:"total_records"`
	LoadedAt     *time.Time `json:"loaded_at,omitempty"`
	Error        string     `json:"error,omitempty"`
}

// ExplorerService mantiene el snapshot del dataset y su máquina de estados.
type ExplorerService struct {
	source    domain.DatasetSource
	cache     sharedCache.Cache
	publisher sharedBus.EventPublisher
	log       *zap.Logger

	limit    int
	cacheTTL int // segundos

	loadMu   sync.Mutex // serializa cargas
	mu       sync.RWMutex
	state    LoadState
	snapshot *Snapshot
	lastErr  error

	now func() time.Time
}

// NewExplorerService constructor. cache y publisher pueden ser nil.
func NewExplorerService(source domain.DatasetSource, cache sharedCache.Cache, publisher sharedBus.EventPublisher, limit int, cacheTTL time.Duration, log *zap.Logger) *ExplorerService {
	if limit <= 0 {
		limit = 1000
	}
	return &ExplorerService{
		source:    source,
		cache:     cache,
		publisher: publisher,
		log:       log,
		limit:     limit,
		cacheTTL:  int(cacheTTL.Seconds()),
		state:     StateIdle,
		now:       time.Now,
	}
}

// Load carga el snapshot si aún no está listo. Usa la caché compartida si hay hit.
func (s *ExplorerService) Load(ctx context.Context) error {
	s.mu.RLock()
	ready := s.state == StateReady
	s.mu.RUnlock()
	if ready {
		return nil
	}
	return s.load(ctx, true)
}

// Refresh recarga desde la fuente ignorando la caché.
func (s *ExplorerService) Refresh(ctx context.Context) error {
	return s.load(ctx, false)
}

func (s *ExplorerService) load(ctx context.Context, useCache bool) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	// otra carga terminó mientras esperábamos
	if useCache && s.State() == StateReady {
		return nil
	}

	s.setState(StateLoading)
	s.log.Info("🔄 Cargando dataset", zap.Int("limit", s.limit), zap.Bool("use_cache", useCache))

	sample, options, fromCache, err := s.fetch(ctx, useCache)
	if err != nil {
		s.mu.Lock()
		s.state = StateError
		s.snapshot = nil // sin fallback a datos parciales
		s.lastErr = err
		s.mu.Unlock()

		s.log.Error("❌ Fallo al cargar el dataset", zap.Error(err))
		s.publish(ctx, domain.DatasetLoadFailed, sharedEvents.DatasetLoadFailed{Reason: err.Error()})
		return err
	}

	snap := &Snapshot{
		Records:      sample.Data,
		Options:      options,
		TotalRecords: sample.TotalRecords,
		LoadedAt:     s.now().UTC(),
	}
	if snap.Records == nil {
		snap.Records = []domain.CarRecord{}
	}

	s.mu.Lock()
	s.state = StateReady
	s.snapshot = snap
	s.lastErr = nil
	s.mu.Unlock()

	s.log.Info("✅ Dataset cargado",
		zap.Int("records", len(snap.Records)),
		zap.Int("total_records", snap.TotalRecords),
		zap.Bool("from_cache", fromCache))
	s.publish(ctx, domain.DatasetLoaded, sharedEvents.DatasetLoaded{
		Records:      len(snap.Records),
		TotalRecords: snap.TotalRecords,
		FromCache:    fromCache,
		LoadedAt:     snap.LoadedAt,
	})
	return nil
}

// fetch pide muestra y opciones en paralelo; ambas deben completarse.
func (s *ExplorerService) fetch(ctx context.Context, useCache bool) (*domain.DatasetSample, domain.FeatureOptions, bool, error) {
	if useCache && s.cache != nil {
		var sample domain.DatasetSample
		var options domain.FeatureOptions
		okSample, _ := s.cache.Get(ctx, domain.CacheKeyDataset(s.limit), &sample)
		okOptions, _ := s.cache.Get(ctx, domain.CacheKeyFeatures(), &options)
		if okSample && okOptions {
			return &sample, options, true, nil
		}
	}

	var (
		sample  *domain.DatasetSample
		options domain.FeatureOptions
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sample, err = s.source.FetchDatasetSample(gctx, s.limit)
		if err != nil {
			return fmt.Errorf("fetch dataset sample: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		options, err = s.source.FetchFeatureOptions(gctx)
		if err != nil {
			return fmt.Errorf("fetch feature options: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, false, err
	}
	if sample == nil {
		return nil, nil, false, errors.New("fetch dataset sample: empty response")
	}

	sharedCache.AsyncCacheSet(ctx, s.cache, domain.CacheKeyDataset(s.limit), sample, s.cacheTTL, s.log)
	sharedCache.AsyncCacheSet(ctx, s.cache, domain.CacheKeyFeatures(), options, s.cacheTTL, s.log)

	return sample, options, false, nil
}

func (s *ExplorerService) setState(st LoadState) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// State estado actual de la máquina.
func (s *ExplorerService) State() LoadState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Snapshot devuelve el snapshot vigente. Durante una recarga sigue sirviendo el anterior.
func (s *ExplorerService) Snapshot() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil, domain.ErrDatasetNotReady
	}
	return s.snapshot, nil
}

// FeatureOptions vocabulario del snapshot vigente.
func (s *ExplorerService) FeatureOptions() (domain.FeatureOptions, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Options, nil
}

// LastLoadedAt cero si nunca se ha cargado.
func (s *ExplorerService) LastLoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return time.Time{}
	}
	return s.snapshot.LoadedAt
}

func (s *ExplorerService) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{State: s.state}
	if s.snapshot != nil {
		loadedAt := s.snapshot.LoadedAt
		st.Records = len(s.snapshot.Records)
		st.TotalRecords = s.snapshot.TotalRecords
		st.LoadedAt = &loadedAt
	}
	if s.lastErr != nil {
		st.Error = s.lastErr.Error()
	}
	return st
}

func (s *ExplorerService) publish(ctx context.Context, eventType string, payload interface{}) {
	publish(ctx, s.publisher, eventType, payload, s.log)
}

// publish envuelve el payload en un IntegrationEvent; un fallo del bus solo se registra.
func publish(ctx context.Context, publisher sharedBus.EventPublisher, eventType string, payload interface{}, log *zap.Logger) {
	if publisher == nil {
		return
	}
	evt, err := sharedEvents.NewIntegrationEvent(eventType, payload)
	if err != nil {
		log.Warn("⚠️ No se pudo serializar el evento", zap.String("type", eventType), zap.Error(err))
		return
	}
	if err := publisher.Publish(ctx, evt); err != nil {
		log.Warn("⚠️ No se pudo publicar el evento", zap.String("type", eventType), zap.Error(err))
	}
}
