package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportStorage_Save(t *testing.T) {
	// Arrange
	dir := filepath.Join(t.TempDir(), "exports")
	storage := NewExportStorage(dir)
	data := []byte("brand,model\nBMW,X5\n")

	// Act
	path, err := storage.Save(context.Background(), "car-dataset-1.csv", data)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "car-dataset-1.csv"), path)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, written, "El contenido escrito debe ser el mismo")
}

func TestExportStorage_RejectsPaths(t *testing.T) {
	storage := NewExportStorage(t.TempDir())

	for _, name := range []string{"", "../fuera.csv", "sub/dir.csv"} {
		_, err := storage.Save(context.Background(), name, []byte("x"))
		assert.Error(t, err, "nombre %q", name)
	}
}

func TestExportStorage_CancelledContext(t *testing.T) {
	storage := NewExportStorage(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := storage.Save(ctx, "car-dataset-1.csv", []byte("x"))

	assert.ErrorIs(t, err, context.Canceled)
}
