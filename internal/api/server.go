package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"videosnap/internal/cache"
	"videosnap/pkg/models"
)

var (
	ErrServerAlreadyRunning = errors.New("server is already running")
	ErrServerNotRunning     = errors.New("server is not running")
)

// MetadataProber probes a resolved file path for normalized video metadata.
type MetadataProber interface {
	Probe(ctx context.Context, path string) (models.VideoMetadata, error)
}

// SnapshotExtractor produces a single PNG frame at a bounds-checked
// timestamp.
type SnapshotExtractor interface {
	Extract(ctx context.Context, path string, timestamp, duration float64) ([]byte, error)
}

// VideoDownloader acquires a video by URL and returns its cache identifier.
type VideoDownloader interface {
	Download(ctx context.Context, videoURL string) (string, error)
}

// Server represents the HTTP server
type Server struct {
	config     *models.Config
	locator    *cache.Locator
	prober     MetadataProber
	extractor  SnapshotExtractor
	downloader VideoDownloader
	logger     *slog.Logger
	router     *chi.Mux
	server     *http.Server
	listener   net.Listener
	running    bool
	mu         sync.RWMutex
}

// NewServer creates a new HTTP server wired to the given pipeline
// components.
func NewServer(config *models.Config, locator *cache.Locator, prober MetadataProber, extractor SnapshotExtractor, downloader VideoDownloader, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:     config,
		locator:    locator,
		prober:     prober,
		extractor:  extractor,
		downloader: downloader,
		logger:     logger,
		router:     chi.NewRouter(),
	}

	s.setupRoutes()

	return s
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/metadata", s.handleMetadata)
	s.router.Get("/thumbnail", s.handleThumbnail)
	s.router.Get("/video", s.handleVideo)
	s.router.Post("/set_video", s.handleSetVideo)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrServerAlreadyRunning
	}

	addr := s.GetAddr()

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.listener = listener
	httpServer := &http.Server{
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
	s.server = httpServer

	s.running = true

	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrServerNotRunning
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.running = false
	s.server = nil
	s.listener = nil

	return nil
}

// IsRunning returns whether the server is currently running
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// GetAddr returns the server address
func (s *Server) GetAddr() string {
	return fmt.Sprintf(":%d", s.config.WebServerPort)
}

// GetActualAddr returns the actual listening address (useful when port is 0)
func (s *Server) GetActualAddr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}

	return s.GetAddr()
}

// handleHealth handles health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
