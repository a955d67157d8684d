// Package server provides the thin HTTP transport over the extraction
// pipeline: one extraction endpoint plus health reporting. All
// algorithmic work lives in the extract/validate/rules packages.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/juliosaraiva/a3data-sub001/internal/cache"
	"github.com/juliosaraiva/a3data-sub001/internal/llm"
	"github.com/juliosaraiva/a3data-sub001/internal/model"
	"github.com/juliosaraiva/a3data-sub001/internal/rules"
	"github.com/juliosaraiva/a3data-sub001/internal/worker"
)

const version = "1.0.0"

// Server exposes the extraction pipeline over HTTP.
type Server struct {
	echo      *echo.Echo
	extractor worker.Extractor
	provider  llm.Provider
	cache     cache.Cache
	quality   rules.Specification
	config    *model.Config
	logger    *zap.Logger
}

// NewServer creates the HTTP server and registers routes/middleware.
func NewServer(cfg *model.Config, extractor worker.Extractor, provider llm.Provider, c cache.Cache, logger *zap.Logger) (*Server, error) {
	if extractor == nil {
		return nil, fmt.Errorf("extractor is required")
	}
	if provider == nil {
		return nil, fmt.Errorf("llm provider is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	})

	if cfg.RateLimit.Enabled {
		e.Use(rateLimitMiddleware(newIPLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)))
	}

	s := &Server{
		echo:      e,
		extractor: extractor,
		provider:  provider,
		cache:     c,
		quality:   rules.NewHighQuality(),
		config:    cfg,
		logger:    logger,
	}

	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)

	v1 := s.echo.Group("/api/v1")
	v1.POST("/extract", s.handleExtract)
}

// Start begins serving on the configured address, blocking until
// shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.logger.Info("http server listening", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// ExtractRequest is the body for POST /api/v1/extract.
type ExtractRequest struct {
	Description string `json:"description"`

	// IncludeQuality adds the high-quality classification to the
	// response
	IncludeQuality bool `json:"include_quality,omitempty"`
}

// ExtractResponse wraps the extracted record.
type ExtractResponse struct {
	*model.IncidentRecord
	Quality *QualityVerdict `json:"quality,omitempty"`
}

// QualityVerdict reports the composite high-quality rule outcome.
type QualityVerdict struct {
	HighQuality bool   `json:"high_quality"`
	Reason      string `json:"reason,omitempty"`
}

// ErrorResponse is the error body shape.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthResponse reports service and gateway status.
type HealthResponse struct {
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
	Version      string    `json:"version"`
	LLMProvider  string    `json:"llm_provider"`
	LLMAvailable bool      `json:"llm_available"`
}

func (s *Server) handleExtract(c echo.Context) error {
	var req ExtractRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "invalid request body",
			Detail:    err.Error(),
			Timestamp: time.Now(),
		})
	}

	ctx := c.Request().Context()

	if record, ok := s.cachedRecord(req.Description); ok {
		return c.JSON(http.StatusOK, s.respond(record, req.IncludeQuality))
	}

	record, err := s.extractor.Extract(ctx, req.Description)
	if err != nil {
		return s.errorResponse(c, err)
	}

	if s.cache != nil && s.config.Cache.Enabled {
		s.cache.Set(cache.DescriptionKey(req.Description), record, s.config.Cache.ResultTTL)
	}

	return c.JSON(http.StatusOK, s.respond(record, req.IncludeQuality))
}

func (s *Server) cachedRecord(description string) (*model.IncidentRecord, bool) {
	if s.cache == nil || !s.config.Cache.Enabled {
		return nil, false
	}
	value, found := s.cache.Get(cache.DescriptionKey(description))
	if !found {
		return nil, false
	}
	record, ok := value.(*model.IncidentRecord)
	return record, ok
}

func (s *Server) respond(record *model.IncidentRecord, includeQuality bool) ExtractResponse {
	resp := ExtractResponse{IncidentRecord: record}
	if includeQuality {
		resp.Quality = &QualityVerdict{
			HighQuality: s.quality.IsSatisfiedBy(record),
			Reason:      s.quality.WhyNotSatisfied(record),
		}
	}
	return resp
}

func (s *Server) errorResponse(c echo.Context, err error) error {
	var validationErr *model.ValidationError

	switch {
	case errors.As(err, &validationErr):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "validation failed",
			Detail:    validationErr.Error(),
			Timestamp: time.Now(),
		})
	case errors.Is(err, model.ErrTimeout) || errors.Is(err, context.DeadlineExceeded):
		return c.JSON(http.StatusGatewayTimeout, ErrorResponse{
			Error:     "llm request timed out",
			Detail:    err.Error(),
			Timestamp: time.Now(),
		})
	case errors.Is(err, model.ErrServiceUnavailable):
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:     "llm service unavailable",
			Detail:    err.Error(),
			Timestamp: time.Now(),
		})
	default:
		s.logger.Error("extraction failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:     "processing failed",
			Detail:    err.Error(),
			Timestamp: time.Now(),
		})
	}
}

func (s *Server) handleHealth(c echo.Context) error {
	available := s.probeAvailability(c.Request().Context())

	status := "healthy"
	if !available {
		status = "degraded"
	}

	return c.JSON(http.StatusOK, HealthResponse{
		Status:       status,
		Timestamp:    time.Now(),
		Version:      version,
		LLMProvider:  s.provider.Name(),
		LLMAvailable: available,
	})
}

// probeAvailability checks the gateway, caching the verdict briefly so
// health polling does not hammer the backend.
func (s *Server) probeAvailability(ctx context.Context) bool {
	key := cache.ProbeKey(s.provider.Name())

	if s.cache != nil && s.config.Cache.Enabled {
		if value, found := s.cache.Get(key); found {
			if available, ok := value.(bool); ok {
				return available
			}
		}
	}

	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	available := s.provider.IsAvailable(probeCtx)

	if s.cache != nil && s.config.Cache.Enabled {
		s.cache.Set(key, available, s.config.Cache.ProbeTTL)
	}
	return available
}
