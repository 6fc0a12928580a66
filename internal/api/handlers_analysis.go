package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/JustinTDCT/SkipVault/internal/config"
	"github.com/JustinTDCT/SkipVault/internal/httputil"
	"github.com/JustinTDCT/SkipVault/internal/jobs"
	"github.com/JustinTDCT/SkipVault/internal/models"
)

// handleTriggerAnalysis queues an on-demand analysis run. Deduplicated: if
// a run is already pending or active this is a no-op.
func (s *Server) handleTriggerAnalysis(w http.ResponseWriter, r *http.Request) {
	if err := jobs.EnqueueAnalyze(s.jobQueue, "manual"); err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to queue analysis run")
		return
	}
	s.respondJSON(w, http.StatusAccepted, Response{Success: true, Data: "analysis queued"})
}

// handleAnalysisStatus reports catalog and analysis coverage counters.
func (s *Server) handleAnalysisStatus(w http.ResponseWriter, r *http.Request) {
	total, err := s.mediaRepo.CountEpisodes()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to count episodes")
		return
	}
	analyzed, err := s.segmentRepo.CountAnalyzed()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to count analyzed episodes")
		return
	}
	lastRun, _ := s.settingsRepo.Get("last_analysis_run")

	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: map[string]interface{}{
		"episodes_total":    total,
		"episodes_analyzed": analyzed,
		"last_run":          lastRun,
		"ws_clients":        s.wsHub.ClientCount(),
	}})
}

// handleGetSegments returns all skip segments for an episode.
func (s *Server) handleGetSegments(w http.ResponseWriter, r *http.Request) {
	mediaID, err := uuid.Parse(r.PathValue("mediaId"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid media ID")
		return
	}

	segments, err := s.segmentRepo.GetByMediaID(mediaID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to get segments")
		return
	}
	if segments == nil {
		segments = []*models.MediaSegment{}
	}
	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: segments})
}

// handleDeleteSegments drops all segments for an episode so the next run
// re-analyzes its season.
func (s *Server) handleDeleteSegments(w http.ResponseWriter, r *http.Request) {
	mediaID, err := uuid.Parse(r.PathValue("mediaId"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid media ID")
		return
	}
	if err := s.segmentRepo.DeleteAllForMedia(mediaID); err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to delete segments")
		return
	}
	s.respondJSON(w, http.StatusOK, Response{Success: true})
}

// handleGetSettings returns all settings.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settingsRepo.GetAll()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: settings})
}

// handlePutSetting updates one analysis setting.
func (s *Server) handlePutSetting(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	switch key {
	case config.KeyMaxParallelism, config.KeyIncludeSpecials, config.KeyRegenerate,
		config.KeyOutputMode, config.KeySchedule:
	default:
		s.respondError(w, http.StatusBadRequest, "unknown setting key")
		return
	}

	var req struct {
		Value string `json:"value"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.settingsRepo.Set(key, req.Value); err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to save setting")
		return
	}
	s.respondJSON(w, http.StatusOK, Response{Success: true})
}
