package markers

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/JustinTDCT/SkipVault/internal/analysis"
	"github.com/JustinTDCT/SkipVault/internal/models"
)

// Mode controls when marker files are written.
type Mode string

const (
	ModeNone     Mode = "none"
	ModeOnChange Mode = "onChange"
	ModeAlways   Mode = "always"
)

// edlCommercialBreak is the EDL action players auto-skip.
const edlCommercialBreak = 3

// SegmentSource supplies the stored segments for an episode.
type SegmentSource interface {
	GetByMediaID(mediaItemID uuid.UUID) ([]*models.MediaSegment, error)
}

// ModeFunc supplies the current output mode; settings can change between
// runs, so the mode is read per write.
type ModeFunc func() Mode

// Writer emits Kodi/Jellyfin-compatible .edl sidecar files next to each
// episode from its stored segments.
type Writer struct {
	segments SegmentSource
	mode     ModeFunc
}

func NewWriter(segments SegmentSource, mode ModeFunc) *Writer {
	return &Writer{segments: segments, mode: mode}
}

// WriteMarkers refreshes the marker file for each verified episode. In
// onChange mode an existing marker file is left alone; always mode rewrites
// it. Per-episode failures are logged and skipped.
func (w *Writer) WriteMarkers(episodes []analysis.Candidate) error {
	mode := w.mode()
	if mode == ModeNone {
		return nil
	}

	written := 0
	for _, ep := range episodes {
		markerPath := MarkerPath(ep.Path)
		if mode == ModeOnChange {
			if _, err := os.Stat(markerPath); err == nil {
				continue
			}
		}

		segs, err := w.segments.GetByMediaID(ep.ID)
		if err != nil {
			log.Printf("Markers: could not load segments for %s: %v", ep.Title, err)
			continue
		}
		if len(segs) == 0 {
			continue
		}

		if err := os.WriteFile(markerPath, []byte(renderEDL(segs)), 0o644); err != nil {
			log.Printf("Markers: could not write %s: %v", markerPath, err)
			continue
		}
		written++
	}
	if written > 0 {
		log.Printf("Markers: wrote %d marker file(s)", written)
	}
	return nil
}

// MarkerPath returns the sidecar path for a media file: same base name,
// .edl extension.
func MarkerPath(mediaPath string) string {
	ext := filepath.Ext(mediaPath)
	return strings.TrimSuffix(mediaPath, ext) + ".edl"
}

func renderEDL(segs []*models.MediaSegment) string {
	var b strings.Builder
	for _, s := range segs {
		fmt.Fprintf(&b, "%.2f\t%.2f\t%d\n", s.StartSeconds, s.EndSeconds, edlCommercialBreak)
	}
	return b.String()
}
