package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/davicafu/carexplorer/internal/car/domain"
)

// Dashboard métricas del modelo y estadísticas del dataset.
type Dashboard struct {
	Metrics *domain.ModelMetrics `json:"metrics"`
	Stats   *domain.DatasetStats `json:"stats"`
	// StatsFromSnapshot true si la fuente de estadísticas falló y se calcularon localmente.
	StatsFromSnapshot bool `json:"stats_from_snapshot"`
}

type DashboardService struct {
	metrics   domain.MetricsSource
	stats     domain.StatsSource
	snapshots SnapshotProvider
	log       *zap.Logger
}

// NewDashboardService snapshots puede ser nil (sin fallback).
func NewDashboardService(metrics domain.MetricsSource, stats domain.StatsSource, snapshots SnapshotProvider, log *zap.Logger) *DashboardService {
	return &DashboardService{metrics: metrics, stats: stats, snapshots: snapshots, log: log}
}

// Overview pide métricas y estadísticas en paralelo.
func (s *DashboardService) Overview(ctx context.Context) (*Dashboard, error) {
	var out Dashboard

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := s.metrics.FetchModelMetrics(gctx)
		if err != nil {
			return fmt.Errorf("fetch model metrics: %w", err)
		}
		out.Metrics = m
		return nil
	})
	g.Go(func() error {
		st, err := s.stats.FetchDatasetStats(gctx)
		if err == nil {
			out.Stats = st
			return nil
		}

		local, ok := s.snapshotStats()
		if !ok {
			return fmt.Errorf("fetch dataset stats: %w", err)
		}
		s.log.Warn("⚠️ Fuente de estadísticas no disponible, usando el snapshot", zap.Error(err))
		out.Stats = local
		out.StatsFromSnapshot = true
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

// Insights series de gráficos sobre el snapshot; lo carga si hace falta.
func (s *DashboardService) Insights(ctx context.Context) (*Insights, error) {
	if s.snapshots == nil {
		return nil, domain.ErrDatasetNotReady
	}
	if err := s.snapshots.Load(ctx); err != nil {
		return nil, err
	}
	snap, err := s.snapshots.Snapshot()
	if err != nil {
		return nil, err
	}
	insights := ComputeInsights(snap.Records)
	return &insights, nil
}

func (s *DashboardService) snapshotStats() (*domain.DatasetStats, bool) {
	if s.snapshots == nil {
		return nil, false
	}
	snap, err := s.snapshots.Snapshot()
	if err != nil || len(snap.Records) == 0 {
		return nil, false
	}
	st := ComputeStats(snap.Records)
	return &st, true
}
