package repository

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/JustinTDCT/SkipVault/internal/models"
)

type LibraryRepository struct {
	db *sql.DB
}

func NewLibraryRepository(db *sql.DB) *LibraryRepository {
	return &LibraryRepository{db: db}
}

// List returns all registered libraries.
func (r *LibraryRepository) List() ([]*models.Library, error) {
	rows, err := r.db.Query(`
		SELECT id, name, path, watch_enabled, last_scan_at, created_at
		FROM libraries ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var libs []*models.Library
	for rows.Next() {
		lib := &models.Library{}
		if err := rows.Scan(&lib.ID, &lib.Name, &lib.Path, &lib.WatchEnabled,
			&lib.LastScanAt, &lib.CreatedAt); err != nil {
			return nil, err
		}
		libs = append(libs, lib)
	}
	return libs, rows.Err()
}

// GetWatchEnabled returns libraries whose folders should be watched.
func (r *LibraryRepository) GetWatchEnabled() ([]*models.Library, error) {
	rows, err := r.db.Query(`
		SELECT id, name, path, watch_enabled, last_scan_at, created_at
		FROM libraries WHERE watch_enabled = TRUE ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var libs []*models.Library
	for rows.Next() {
		lib := &models.Library{}
		if err := rows.Scan(&lib.ID, &lib.Name, &lib.Path, &lib.WatchEnabled,
			&lib.LastScanAt, &lib.CreatedAt); err != nil {
			return nil, err
		}
		libs = append(libs, lib)
	}
	return libs, rows.Err()
}

// UpdateLastScan stamps a library's last sync time.
func (r *LibraryRepository) UpdateLastScan(id uuid.UUID) error {
	_, err := r.db.Exec(`UPDATE libraries SET last_scan_at = CURRENT_TIMESTAMP WHERE id = $1`, id)
	return err
}
