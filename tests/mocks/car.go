package mocks

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stretchr/testify/mock"

	carDomain "github.com/davicafu/carexplorer/internal/car/domain"
)

// FakeDatasetSource devuelve un dataset fijo y cuenta las llamadas.
type FakeDatasetSource struct {
	Records    []carDomain.CarRecord
	Options    carDomain.FeatureOptions
	SampleErr  error
	OptionsErr error
	Delay      time.Duration

	SampleCalls  int32
	OptionsCalls int32
	mu           sync.Mutex
}

var _ carDomain.DatasetSource = (*FakeDatasetSource)(nil)

func (f *FakeDatasetSource) FetchDatasetSample(ctx context.Context, limit int) (*carDomain.DatasetSample, error) {
	atomic.AddInt32(&f.SampleCalls, 1)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SampleErr != nil {
		return nil, f.SampleErr
	}
	data := f.Records
	if limit > 0 && len(data) > limit {
		data = data[:limit]
	}
	return &carDomain.DatasetSample{Data: data, TotalRecords: len(f.Records), SampleSize: len(data)}, nil
}

func (f *FakeDatasetSource) FetchFeatureOptions(ctx context.Context) (carDomain.FeatureOptions, error) {
	atomic.AddInt32(&f.OptionsCalls, 1)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.OptionsErr != nil {
		return nil, f.OptionsErr
	}
	return f.Options, nil
}

// SetRecords reemplaza el dataset entre cargas.
func (f *FakeDatasetSource) SetRecords(records []carDomain.CarRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Records = records
}

// SetSampleErr fuerza (o quita) el fallo de la muestra.
func (f *FakeDatasetSource) SetSampleErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SampleErr = err
}

func (f *FakeDatasetSource) wait(ctx context.Context) error {
	if f.Delay <= 0 {
		return nil
	}
	select {
	case <-time.After(f.Delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// MockStatsSource simula la fuente de estadísticas
type MockStatsSource struct {
	mock.Mock
}

func (m *MockStatsSource) FetchDatasetStats(ctx context.Context) (*carDomain.DatasetStats, error) {
	args := m.Called(ctx)
	if s, ok := args.Get(0).(*carDomain.DatasetStats); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockMetricsSource simula GET /metrics
type MockMetricsSource struct {
	mock.Mock
}

func (m *MockMetricsSource) FetchModelMetrics(ctx context.Context) (*carDomain.ModelMetrics, error) {
	args := m.Called(ctx)
	if s, ok := args.Get(0).(*carDomain.ModelMetrics); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockPredictor simula POST /predict
type MockPredictor struct {
	mock.Mock
}

func (m *MockPredictor) PredictPrice(ctx context.Context, features carDomain.CarFeatures) (*carDomain.Prediction, error) {
	args := m.Called(ctx, features)
	if p, ok := args.Get(0).(*carDomain.Prediction); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// StaticPreferences devuelve siempre las mismas preferencias.
type StaticPreferences struct {
	Prefs carDomain.Preferences
	Err   error
}

func (p StaticPreferences) Preferences(ctx context.Context) (carDomain.Preferences, error) {
	return p.Prefs, p.Err
}

// MemoryExportStorage guarda los exports en un mapa.
type MemoryExportStorage struct {
	Files map[string][]byte
	mu    sync.Mutex
}

func (s *MemoryExportStorage) Save(ctx context.Context, fileName string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Files == nil {
		s.Files = map[string][]byte{}
	}
	s.Files[fileName] = data
	return "memory://" + fileName, nil
}
