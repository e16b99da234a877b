package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	// _ "github.com/mattn/go-sqlite3" // better performance but requires gcc
	_ "modernc.org/sqlite"

	"github.com/davicafu/carexplorer/internal/settings/domain"
)

// SettingsRepoSQLite guarda cada documento como JSON en una fila clave/valor.
type SettingsRepoSQLite struct {
	db *sql.DB
}

func NewSettingsRepoSQLite(db *sql.DB) *SettingsRepoSQLite {
	return &SettingsRepoSQLite{db: db}
}

// ------------------ Métodos ------------------

func (r *SettingsRepoSQLite) Load(ctx context.Context, key string, dest *domain.Settings) error {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrSettingsNotFound
		}
		return err
	}

	if err := json.Unmarshal([]byte(value), dest); err != nil {
		return fmt.Errorf("failed to decode settings %q: %w", key, err)
	}
	return nil
}

// Save upsert del documento completo
func (r *SettingsRepoSQLite) Save(ctx context.Context, key string, s domain.Settings) error {
	value, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), time.Now().UTC(),
	)
	return err
}

func (r *SettingsRepoSQLite) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key)
	return err
}

// ------------------ Schema ------------------

func InitSQLite(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS settings (
            key TEXT PRIMARY KEY,
            value TEXT NOT NULL,
            updated_at DATETIME NOT NULL
        )
    `)
	return err
}

var _ domain.SettingsRepository = (*SettingsRepoSQLite)(nil)
