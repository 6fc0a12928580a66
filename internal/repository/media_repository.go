package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/JustinTDCT/SkipVault/internal/models"
)

type MediaRepository struct {
	db *sql.DB
}

func NewMediaRepository(db *sql.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// ListEpisodes returns every TV episode in the catalog, ordered so episodes
// of the same season stay together.
func (r *MediaRepository) ListEpisodes(ctx context.Context) ([]*models.MediaItem, error) {
	query := `
		SELECT id, library_id, file_path, file_name, title,
		       series_id, series_title, season_number, episode_number, duration_seconds
		FROM media_items
		ORDER BY series_title, season_number, episode_number`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.MediaItem
	for rows.Next() {
		item := &models.MediaItem{}
		if err := rows.Scan(&item.ID, &item.LibraryID, &item.FilePath, &item.FileName,
			&item.Title, &item.SeriesID, &item.SeriesTitle, &item.SeasonNumber,
			&item.EpisodeNumber, &item.DurationSeconds); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ResolvePath returns the storage path for an episode. Fails when the
// episode is no longer in the catalog.
func (r *MediaRepository) ResolvePath(id uuid.UUID) (string, error) {
	var path string
	err := r.db.QueryRow(`SELECT file_path FROM media_items WHERE id = $1`, id).Scan(&path)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("episode %s not in catalog", id)
	}
	return path, err
}

// GetByID returns a single episode.
func (r *MediaRepository) GetByID(id uuid.UUID) (*models.MediaItem, error) {
	item := &models.MediaItem{}
	err := r.db.QueryRow(`
		SELECT id, library_id, file_path, file_name, title,
		       series_id, series_title, season_number, episode_number, duration_seconds
		FROM media_items WHERE id = $1`, id).
		Scan(&item.ID, &item.LibraryID, &item.FilePath, &item.FileName,
			&item.Title, &item.SeriesID, &item.SeriesTitle, &item.SeasonNumber,
			&item.EpisodeNumber, &item.DurationSeconds)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// CountEpisodes returns the catalog size, used by the status endpoint.
func (r *MediaRepository) CountEpisodes() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM media_items`).Scan(&n)
	return n, err
}
