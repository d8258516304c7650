package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LinukPerera/IoT-Buoy-2025/internal/domain"
	"github.com/LinukPerera/IoT-Buoy-2025/internal/metrics"
	"github.com/LinukPerera/IoT-Buoy-2025/internal/mirror"
	"github.com/LinukPerera/IoT-Buoy-2025/internal/worker"
)

const (
	apiName    = "IoT Buoy Dashboard API"
	apiVersion = "1.0.0"

	storeTimeout = 10 * time.Second
)

type Server struct {
	config *ServerConfig
	syncer *mirror.Syncer
	worker *worker.Worker
	logger *slog.Logger
	router *gin.Engine
}

func NewServer(options ...ConfigOption) (*Server, error) {
	config := &ServerConfig{
		Mirror:      mirror.Disabled{},
		WorkerCount: 4,
		BatchSize:   100,
		Port:        "8080",
	}

	for _, option := range options {
		if err := option(config); err != nil {
			return nil, err
		}
	}

	if config.Store == nil {
		return nil, errors.New("server requires a reading store")
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}

	syncer := mirror.NewSyncer(config.Mirror, config.Logger)

	server := &Server{
		config: config,
		syncer: syncer,
		logger: config.Logger,
		router: gin.New(),
	}
	server.router.Use(requestMiddleware(config.Logger), gin.Recovery())

	if config.UplinkQueue != nil {
		server.worker = worker.NewWorker(config.Store, syncer, config.Logger, config.WorkerCount, config.BatchSize)
	}

	server.setupRoutes()
	return server, nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.router.Group("/api/v1")
	{
		api.GET("", s.handleInfo)
		api.GET("/status", s.handleStatus)
		api.POST("/readings", s.handleCreateReading)
		api.GET("/readings", s.handleHistory)
		api.GET("/readings/latest", s.handleLatestReading)
		api.GET("/readings/summary", s.handleSummary)
		api.DELETE("/readings", s.handleDeleteAll)
	}
}

func (s *Server) handleInfo(c *gin.Context) {
	mirrorStatus := "not_configured"
	if s.syncer.Enabled() {
		mirrorStatus = "configured"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       apiName,
		"version":       apiVersion,
		"mirror_status": mirrorStatus,
	})
}

func (s *Server) handleStatus(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()

	total, err := s.config.Store.Count(ctx, domain.HistoryQuery{})
	if err != nil {
		s.respondError(c, err)
		return
	}

	var latest *domain.Reading
	r, err := s.config.Store.Latest(ctx)
	switch {
	case err == nil:
		latest = &r
	case errors.Is(err, domain.ErrNoReadings):
		// empty store, reported as offline
	default:
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, domain.EvaluateStatus(time.Now().UTC(), latest, total))
}

func (s *Server) handleCreateReading(c *gin.Context) {
	var payload domain.CreateReading
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	reading, err := domain.NewReading(payload)
	if err != nil {
		s.respondError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()

	if err := s.config.Store.Insert(ctx, reading); err != nil {
		s.respondError(c, err)
		return
	}

	metrics.ReadingsIngested.Inc()
	metrics.LastReadingTimestamp.Set(float64(time.Now().Unix()))

	// The reading is committed; the mirror write happens off the request path
	// and its outcome never changes this response.
	s.syncer.Dispatch(reading)

	c.JSON(http.StatusOK, reading)
}

func (s *Server) handleLatestReading(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()

	reading, err := s.config.Store.Latest(ctx)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reading)
}

func (s *Server) handleHistory(c *gin.Context) {
	limit, ok := s.intQuery(c, "limit", domain.DefaultHistoryLimit)
	if !ok {
		return
	}
	skip, ok := s.intQuery(c, "skip", 0)
	if !ok {
		return
	}

	query, err := domain.NewHistoryQuery(c.Query("start_date"), c.Query("end_date"), limit, skip)
	if err != nil {
		s.respondError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()

	readings, err := s.config.Store.Find(ctx, query)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if readings == nil {
		readings = []domain.Reading{}
	}
	c.JSON(http.StatusOK, readings)
}

func (s *Server) handleSummary(c *gin.Context) {
	hours, ok := s.intQuery(c, "hours", domain.DefaultSummaryHours)
	if !ok {
		return
	}
	if hours <= 0 {
		s.respondError(c, &domain.ValidationError{Field: "hours", Reason: "must be a positive integer"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()

	readings, err := s.config.Store.Find(ctx, domain.NewWindowQuery(time.Now().UTC(), hours))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, domain.Summarize(hours, readings))
}

func (s *Server) handleDeleteAll(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()

	deleted, err := s.config.Store.DeleteAll(ctx)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted_count": deleted})
}

// intQuery parses an optional integer query parameter, replying 422 and
// returning ok=false when it is malformed.
func (s *Server) intQuery(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		s.respondError(c, &domain.ValidationError{Field: name, Reason: "must be an integer"})
		return 0, false
	}
	return n, true
}

// respondError maps domain errors to HTTP replies: validation → 422,
// no readings → 404, anything else → 500 (logged as a fault).
func (s *Server) respondError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		metrics.ValidationFailures.Inc()
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": verr.Error(), "field": verr.Field})
	case errors.Is(err, domain.ErrNoReadings):
		c.JSON(http.StatusNotFound, gin.H{"error": "no readings found"})
	default:
		metrics.StoreFailures.Inc()
		s.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func (s *Server) Start(ctx context.Context) error {
	if s.worker != nil {
		go func() {
			if err := s.worker.Start(ctx, s.config.UplinkQueue); err != nil {
				s.logger.Error("uplink worker error", "error", err)
			}
		}()
	}

	server := &http.Server{
		Addr:    ":" + s.config.Port,
		Handler: s.router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("server starting", "port", s.config.Port, "mirror", s.syncer.Enabled())
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}

	return nil
}

// Close tears down the injected handles. In-flight mirror publishes are
// drained first so none are abandoned mid-write.
func (s *Server) Close() error {
	s.syncer.Wait()

	if s.config.UplinkQueue != nil {
		s.config.UplinkQueue.Close()
	}
	if s.config.Store != nil {
		s.config.Store.Close()
	}
	if s.config.Mirror != nil {
		s.config.Mirror.Close()
	}
	return nil
}

// Router exposes the configured handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
