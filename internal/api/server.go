package api

import (
	"encoding/json"
	"net/http"

	"github.com/JustinTDCT/SkipVault/internal/config"
	"github.com/JustinTDCT/SkipVault/internal/db"
	"github.com/JustinTDCT/SkipVault/internal/jobs"
	"github.com/JustinTDCT/SkipVault/internal/repository"
)

type Server struct {
	config       *config.Config
	db           *db.DB
	mediaRepo    *repository.MediaRepository
	segmentRepo  *repository.SegmentRepository
	settingsRepo *repository.SettingsRepository
	libRepo      *repository.LibraryRepository
	jobQueue     *jobs.Queue
	wsHub        *WSHub
	router       *http.ServeMux
}

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func NewServer(cfg *config.Config, database *db.DB, jobQueue *jobs.Queue, wsHub *WSHub) *Server {
	s := &Server{
		config:       cfg,
		db:           database,
		mediaRepo:    repository.NewMediaRepository(database.DB),
		segmentRepo:  repository.NewSegmentRepository(database.DB),
		settingsRepo: repository.NewSettingsRepository(database.DB),
		libRepo:      repository.NewLibraryRepository(database.DB),
		jobQueue:     jobQueue,
		wsHub:        wsHub,
		router:       http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

// Hub exposes the event hub so job handlers can broadcast through it.
func (s *Server) Hub() *WSHub {
	return s.wsHub
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /api/health", s.handleHealth)
	s.router.HandleFunc("GET /api/ws", s.handleWebSocket)

	s.router.HandleFunc("POST /api/analysis/run", s.handleTriggerAnalysis)
	s.router.HandleFunc("GET /api/analysis/status", s.handleAnalysisStatus)

	s.router.HandleFunc("GET /api/media/{mediaId}/segments", s.handleGetSegments)
	s.router.HandleFunc("DELETE /api/media/{mediaId}/segments", s.handleDeleteSegments)

	s.router.HandleFunc("GET /api/settings", s.handleGetSettings)
	s.router.HandleFunc("PUT /api/settings/{key}", s.handlePutSetting)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, Response{Success: false, Error: message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: "ok"})
}
