package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davicafu/carexplorer/internal/car/domain"
	sharedEvents "github.com/davicafu/carexplorer/shared/events"
	sharedBus "github.com/davicafu/carexplorer/shared/platform/bus"
	sharedCache "github.com/davicafu/carexplorer/shared/platform/cache"
	"github.com/davicafu/carexplorer/shared/platform/query"
)

// SnapshotProvider lo implementa ExplorerService.
type SnapshotProvider interface {
	Load(ctx context.Context) error
	Snapshot() (*Snapshot, error)
}

// SessionState estado de UI de una sesión del explorador.
type SessionState struct {
	Filters domain.RawFilters `json:"filters"`
	Sort    domain.SortSpec   `json:"sort"`
	Page    int               `json:"page"`
}

func defaultSessionState() SessionState {
	return SessionState{Sort: domain.DefaultSort(), Page: 1}
}

// SessionView vista derivada más el estado que la produjo.
type SessionView struct {
	SessionID uuid.UUID         `json:"session_id"`
	Filters   domain.RawFilters `json:"filters"`
	View
}

// ExportResult contenido listo para descargar.
type ExportResult struct {
	FileName    string
	ContentType string
	Data        []byte
	Records     int
}

// SessionService casos de uso del explorador por sesión. El estado vive en la caché.
type SessionService struct {
	snapshots SnapshotProvider
	cache     sharedCache.Cache
	prefs     domain.PreferencesReader
	storage   domain.ExportStorage
	publisher sharedBus.EventPublisher
	ttl       int // segundos
	log       *zap.Logger

	now func() time.Time
}

// NewSessionService prefs, storage y publisher pueden ser nil.
func NewSessionService(snapshots SnapshotProvider, cache sharedCache.Cache, prefs domain.PreferencesReader, storage domain.ExportStorage, publisher sharedBus.EventPublisher, ttl time.Duration, log *zap.Logger) *SessionService {
	return &SessionService{
		snapshots: snapshots,
		cache:     cache,
		prefs:     prefs,
		storage:   storage,
		publisher: publisher,
		ttl:       int(ttl.Seconds()),
		log:       log,
		now:       time.Now,
	}
}

// OpenSession carga el dataset si hace falta y crea una sesión con los valores por defecto.
func (s *SessionService) OpenSession(ctx context.Context) (*SessionView, error) {
	if err := s.snapshots.Load(ctx); err != nil {
		return nil, err
	}

	id := uuid.New()
	state := defaultSessionState()
	if err := s.save(ctx, id, state); err != nil {
		return nil, err
	}
	s.log.Debug("Sesión de explorador creada", zap.String("session_id", id.String()))
	return s.derive(id, state)
}

// View vista actual de la sesión.
func (s *SessionService) View(ctx context.Context, id uuid.UUID) (*SessionView, error) {
	state, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.derive(id, state)
}

// SetFilters reemplaza todos los filtros y vuelve a la página 1.
func (s *SessionService) SetFilters(ctx context.Context, id uuid.UUID, raw domain.RawFilters) (*SessionView, error) {
	return s.update(ctx, id, func(st *SessionState) error {
		st.Filters = raw.Normalize()
		st.Page = 1
		return nil
	})
}

// SetFilter cambia una sola clave y vuelve a la página 1.
func (s *SessionService) SetFilter(ctx context.Context, id uuid.UUID, key, value string) (*SessionView, error) {
	return s.update(ctx, id, func(st *SessionState) error {
		f, err := st.Filters.With(key, value)
		if err != nil {
			return err
		}
		st.Filters = f
		st.Page = 1
		return nil
	})
}

// ClearFilters limpia los filtros y vuelve a la página 1.
func (s *SessionService) ClearFilters(ctx context.Context, id uuid.UUID) (*SessionView, error) {
	return s.update(ctx, id, func(st *SessionState) error {
		st.Filters = domain.RawFilters{}
		st.Page = 1
		return nil
	})
}

// SortBy alterna la dirección en el mismo campo o empieza en desc en uno nuevo.
func (s *SessionService) SortBy(ctx context.Context, id uuid.UUID, fieldName string) (*SessionView, error) {
	field, err := domain.ParseField(fieldName)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, id, func(st *SessionState) error {
		st.Sort = st.Sort.Normalize().Toggle(field)
		return nil
	})
}

// GoToPage mueve la sesión a una página, ajustada al rango válido.
func (s *SessionService) GoToPage(ctx context.Context, id uuid.UUID, page int) (*SessionView, error) {
	return s.update(ctx, id, func(st *SessionState) error {
		st.Page = page
		return nil
	})
}

// Export serializa el conjunto filtrado y ordenado completo. format vacío usa la preferencia guardada.
func (s *SessionService) Export(ctx context.Context, id uuid.UUID, format string) (*ExportResult, error) {
	state, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	snap, err := s.snapshots.Snapshot()
	if err != nil {
		return nil, err
	}

	exportFmt, err := s.exportFormat(ctx, format)
	if err != nil {
		return nil, err
	}

	records := ApplySort(ApplyFilters(snap.Records, domain.ParseFilterCriteria(state.Filters)), state.Sort)
	if len(records) == 0 {
		return nil, domain.ErrEmptyExport
	}

	data, err := Export(records, exportFmt)
	if err != nil {
		return nil, err
	}

	res := &ExportResult{
		FileName:    domain.ExportFileName(exportFmt, s.now()),
		ContentType: exportFmt.ContentType(),
		Data:        data,
		Records:     len(records),
	}

	s.log.Info("📤 Export generado",
		zap.String("session_id", id.String()),
		zap.String("file", res.FileName),
		zap.Int("records", res.Records))
	publish(ctx, s.publisher, domain.DatasetExported, sharedEvents.DatasetExported{
		SessionID: id.String(),
		Format:    string(exportFmt),
		FileName:  res.FileName,
		Records:   res.Records,
	}, s.log)

	return res, nil
}

// SaveExport genera el export y lo guarda en el almacenamiento configurado.
func (s *SessionService) SaveExport(ctx context.Context, id uuid.UUID, format string) (string, *ExportResult, error) {
	if s.storage == nil {
		return "", nil, fmt.Errorf("export storage not configured")
	}
	res, err := s.Export(ctx, id, format)
	if err != nil {
		return "", nil, err
	}
	location, err := s.storage.Save(ctx, res.FileName, res.Data)
	if err != nil {
		return "", nil, fmt.Errorf("save export: %w", err)
	}
	return location, res, nil
}

func (s *SessionService) exportFormat(ctx context.Context, format string) (domain.ExportFormat, error) {
	if format == "" && s.prefs != nil {
		if p, err := s.prefs.Preferences(ctx); err == nil && p.ExportFormat != "" {
			return p.ExportFormat, nil
		}
	}
	return domain.ParseExportFormat(format)
}

// ---------------- Estado en caché ----------------

func (s *SessionService) update(ctx context.Context, id uuid.UUID, mutate func(st *SessionState) error) (*SessionView, error) {
	state, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := mutate(&state); err != nil {
		return nil, err
	}

	view, err := s.derive(id, state)
	if err != nil {
		return nil, err
	}
	// se guarda la página ya ajustada
	state.Page = view.Page
	if err := s.save(ctx, id, state); err != nil {
		return nil, err
	}
	return view, nil
}

func (s *SessionService) get(ctx context.Context, id uuid.UUID) (SessionState, error) {
	var state SessionState
	ok, err := s.cache.Get(ctx, domain.CacheKeySession(id), &state)
	if err != nil {
		return state, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return state, domain.ErrSessionNotFound
	}
	state.Sort = state.Sort.Normalize()
	return state, nil
}

func (s *SessionService) save(ctx context.Context, id uuid.UUID, state SessionState) error {
	if err := s.cache.Set(ctx, domain.CacheKeySession(id), state, s.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionService) derive(id uuid.UUID, state SessionState) (*SessionView, error) {
	snap, err := s.snapshots.Snapshot()
	if err != nil {
		return nil, err
	}
	view := Derive(snap.Records, domain.ParseFilterCriteria(state.Filters), state.Sort, query.NewPageState(state.Page, query.DefaultPageSize))
	return &SessionView{SessionID: id, Filters: state.Filters, View: view}, nil
}
