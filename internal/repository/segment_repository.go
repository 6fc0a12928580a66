package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/JustinTDCT/SkipVault/internal/models"
)

type SegmentRepository struct {
	db *sql.DB
}

func NewSegmentRepository(db *sql.DB) *SegmentRepository {
	return &SegmentRepository{db: db}
}

// Contains reports whether an episode already has an auto-detected intro
// segment, i.e. a prior successful analysis result.
func (r *SegmentRepository) Contains(mediaItemID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM media_segments
			WHERE media_item_id = $1 AND segment_type = $2 AND source = $3
		)`, mediaItemID, models.SegmentIntro, models.SegmentSourceAuto).Scan(&exists)
	return exists, err
}

// GetByMediaID returns all segments for an episode ordered by start time.
func (r *SegmentRepository) GetByMediaID(mediaItemID uuid.UUID) ([]*models.MediaSegment, error) {
	query := `
		SELECT id, media_item_id, segment_type, start_seconds, end_seconds,
		       confidence, source, created_at, updated_at
		FROM media_segments
		WHERE media_item_id = $1
		ORDER BY start_seconds`
	rows, err := r.db.Query(query, mediaItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var segments []*models.MediaSegment
	for rows.Next() {
		seg := &models.MediaSegment{}
		if err := rows.Scan(&seg.ID, &seg.MediaItemID, &seg.SegmentType,
			&seg.StartSeconds, &seg.EndSeconds, &seg.Confidence,
			&seg.Source, &seg.CreatedAt, &seg.UpdatedAt); err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	return segments, rows.Err()
}

// Upsert inserts or updates a segment (unique on media_item_id + segment_type).
func (r *SegmentRepository) Upsert(seg *models.MediaSegment) error {
	if seg.ID == uuid.Nil {
		seg.ID = uuid.New()
	}
	query := `
		INSERT INTO media_segments (id, media_item_id, segment_type, start_seconds, end_seconds,
		                            confidence, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (media_item_id, segment_type) DO UPDATE SET
		    start_seconds = EXCLUDED.start_seconds,
		    end_seconds = EXCLUDED.end_seconds,
		    confidence = EXCLUDED.confidence,
		    source = EXCLUDED.source,
		    updated_at = CURRENT_TIMESTAMP`
	_, err := r.db.Exec(query, seg.ID, seg.MediaItemID, seg.SegmentType,
		seg.StartSeconds, seg.EndSeconds, seg.Confidence, seg.Source)
	return err
}

// BulkUpsert inserts or updates a batch of segments in one transaction.
func (r *SegmentRepository) BulkUpsert(segments []*models.MediaSegment) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO media_segments (id, media_item_id, segment_type, start_seconds, end_seconds,
		                            confidence, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (media_item_id, segment_type) DO UPDATE SET
		    start_seconds = EXCLUDED.start_seconds,
		    end_seconds = EXCLUDED.end_seconds,
		    confidence = EXCLUDED.confidence,
		    source = EXCLUDED.source,
		    updated_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, seg := range segments {
		if seg.ID == uuid.Nil {
			seg.ID = uuid.New()
		}
		if _, err := stmt.Exec(seg.ID, seg.MediaItemID, seg.SegmentType,
			seg.StartSeconds, seg.EndSeconds, seg.Confidence, seg.Source); err != nil {
			return fmt.Errorf("upsert segment %s: %w", seg.MediaItemID, err)
		}
	}
	return tx.Commit()
}

// DeleteAllForMedia removes all segments for an episode.
func (r *SegmentRepository) DeleteAllForMedia(mediaItemID uuid.UUID) error {
	_, err := r.db.Exec(`DELETE FROM media_segments WHERE media_item_id = $1`, mediaItemID)
	return err
}

// CountAnalyzed returns how many episodes have an auto-detected intro.
func (r *SegmentRepository) CountAnalyzed() (int, error) {
	var n int
	err := r.db.QueryRow(`
		SELECT COUNT(DISTINCT media_item_id) FROM media_segments
		WHERE segment_type = $1 AND source = $2`,
		models.SegmentIntro, models.SegmentSourceAuto).Scan(&n)
	return n, err
}
