package mocks

import (
	"context"
	"encoding/json"
	"sync"

	settingsDomain "github.com/davicafu/carexplorer/internal/settings/domain"
)

// MemorySettingsRepo guarda los documentos como JSON, igual que el repo SQLite.
type MemorySettingsRepo struct {
	docs map[string][]byte
	mu   sync.Mutex

	// LoadErr fuerza un error en Load (simula la base de datos caída).
	LoadErr   error
	SaveCalls int
}

var _ settingsDomain.SettingsRepository = (*MemorySettingsRepo)(nil)

func NewMemorySettingsRepo() *MemorySettingsRepo {
	return &MemorySettingsRepo{docs: map[string][]byte{}}
}

// SetRaw guarda un documento tal cual, p. ej. uno parcial de una versión anterior.
func (r *MemorySettingsRepo) SetRaw(key, raw string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[key] = []byte(raw)
}

func (r *MemorySettingsRepo) Load(ctx context.Context, key string, dest *settingsDomain.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.LoadErr != nil {
		return r.LoadErr
	}
	data, ok := r.docs[key]
	if !ok {
		return settingsDomain.ErrSettingsNotFound
	}
	return json.Unmarshal(data, dest)
}

func (r *MemorySettingsRepo) Save(ctx context.Context, key string, s settingsDomain.Settings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[key] = data
	r.SaveCalls++
	return nil
}

func (r *MemorySettingsRepo) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, key)
	return nil
}
