package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	carDomain "github.com/davicafu/carexplorer/internal/car/domain"
)

// ExportStorage es un adaptador outbound que guarda los exports en un directorio local.
type ExportStorage struct {
	dir string
	mu  sync.Mutex
}

// NewExportStorage es el constructor.
func NewExportStorage(dir string) *ExportStorage {
	return &ExportStorage{dir: dir}
}

// Save escribe el fichero y devuelve su ruta.
// Si el directorio no existe, lo crea.
func (s *ExportStorage) Save(ctx context.Context, fileName string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	// Solo nombres planos: nada de rutas relativas fuera del directorio.
	if fileName == "" || filepath.Base(fileName) != fileName {
		return "", fmt.Errorf("invalid export file name %q", fileName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(s.dir, fileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

var _ carDomain.ExportStorage = (*ExportStorage)(nil)
