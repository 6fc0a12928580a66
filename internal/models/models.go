package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ──────────────────── Library ────────────────────

type Library struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Path         string     `json:"path" db:"path"`
	WatchEnabled bool       `json:"watch_enabled" db:"watch_enabled"`
	LastScanAt   *time.Time `json:"last_scan_at,omitempty" db:"last_scan_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// ──────────────────── MediaItem ────────────────────

// MediaItem is one episode known to the catalog. The catalog itself is
// synced from the upstream media manager; SkipVault only reads it.
type MediaItem struct {
	ID              uuid.UUID `json:"id" db:"id"`
	LibraryID       uuid.UUID `json:"library_id" db:"library_id"`
	FilePath        string    `json:"file_path" db:"file_path"`
	FileName        string    `json:"file_name" db:"file_name"`
	Title           string    `json:"title" db:"title"`
	SeriesID        uuid.UUID `json:"series_id" db:"series_id"`
	SeriesTitle     string    `json:"series_title" db:"series_title"`
	SeasonNumber    int       `json:"season_number" db:"season_number"`
	EpisodeNumber   *int      `json:"episode_number,omitempty" db:"episode_number"`
	DurationSeconds *int      `json:"duration_seconds,omitempty" db:"duration_seconds"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

func (m *MediaItem) SeasonLabel() string {
	return fmt.Sprintf("%s S%02d", m.SeriesTitle, m.SeasonNumber)
}

// ──────────────────── Media Segments (Skip Detection) ────────────────────

type SegmentType string

const (
	SegmentIntro   SegmentType = "intro"
	SegmentCredits SegmentType = "credits"
)

type SegmentSource string

const (
	SegmentSourceAuto   SegmentSource = "auto"
	SegmentSourceManual SegmentSource = "manual"
)

type MediaSegment struct {
	ID           uuid.UUID     `json:"id" db:"id"`
	MediaItemID  uuid.UUID     `json:"media_item_id" db:"media_item_id"`
	SegmentType  SegmentType   `json:"segment_type" db:"segment_type"`
	StartSeconds float64       `json:"start_seconds" db:"start_seconds"`
	EndSeconds   float64       `json:"end_seconds" db:"end_seconds"`
	Confidence   float64       `json:"confidence" db:"confidence"`
	Source       SegmentSource `json:"source" db:"source"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}
