package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/davicafu/carexplorer/internal/car/domain"
)

const defaultRefreshInterval = 30 * time.Second

// Reloader lo implementa ExplorerService.
type Reloader interface {
	Refresh(ctx context.Context) error
	LastLoadedAt() time.Time
}

// AutoRefresher recarga el dataset cuando los ajustes lo piden.
type AutoRefresher struct {
	explorer Reloader
	prefs    domain.PreferencesReader
	tick     time.Duration
	log      *zap.Logger
	now      func() time.Time

	lastAttempt time.Time
}

func NewAutoRefresher(explorer Reloader, prefs domain.PreferencesReader, tick time.Duration, log *zap.Logger) *AutoRefresher {
	if tick <= 0 {
		tick = 5 * time.Second
	}
	return &AutoRefresher{explorer: explorer, prefs: prefs, tick: tick, log: log, now: time.Now}
}

func (r *AutoRefresher) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(r.tick)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				r.log.Info("🛑 Auto refresh detenido")
				return
			case <-ticker.C:
				r.Tick(ctx)
			}
		}
	}()
}

// Tick recarga si auto_refresh está activo y ha pasado el intervalo. Devuelve true si recargó.
func (r *AutoRefresher) Tick(ctx context.Context) bool {
	p, err := r.prefs.Preferences(ctx)
	if err != nil {
		r.log.Warn("⚠️ No se pudieron leer los ajustes", zap.Error(err))
		return false
	}
	if !p.AutoRefresh {
		return false
	}

	interval := p.RefreshInterval
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	last := r.explorer.LastLoadedAt()
	if r.lastAttempt.After(last) {
		last = r.lastAttempt
	}
	if !last.IsZero() && r.now().Sub(last) < interval {
		return false
	}
	r.lastAttempt = r.now()

	r.log.Info("🔄 Auto refresh del dataset", zap.Duration("interval", interval))
	if err := r.explorer.Refresh(ctx); err != nil {
		// el fallo ya lo notifica ExplorerService
		return false
	}
	return true
}
