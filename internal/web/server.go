package web

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/coe-onsite/onsite-manager/pkg/core/workspace"
)

// Server serves the application form and record list
type Server struct {
	echo      *echo.Echo
	workspace *workspace.Workspace
	logger    *zap.Logger
	config    *Config
}

// Config holds HTTP server configuration
type Config struct {
	Host string
	Port int
	// MaxUploadBytes caps the size of an uploaded PDF
	MaxUploadBytes int64
}

const defaultMaxUploadBytes = 20 << 20

// NewServer creates a new HTTP server
func NewServer(ws *workspace.Workspace, logger *zap.Logger, cfg *Config) (*Server, error) {
	if ws == nil {
		return nil, fmt.Errorf("workspace cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "localhost",
			Port: 8080,
		}
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}

	renderer, err := newRenderer(ws.Location())
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return nil
		}
	})

	s := &Server{
		echo:      e,
		workspace: ws,
		logger:    logger,
		config:    cfg,
	}

	s.registerRoutes()

	return s, nil
}

// Echo returns the underlying echo instance
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	s.echo.GET("/", s.handleIndex)

	form := s.echo.Group("/form")
	form.GET("", s.handleShowForm)
	form.POST("", s.handleUpdateForm)
	form.POST("/pdf", s.handleUploadPDF)
	form.POST("/date/:choice", s.handleSelectDate)
	form.POST("/staff/toggle", s.handleToggleStaff)
	form.POST("/staff/add", s.handleAddStaff)
	form.POST("/save", s.handleSave)
	form.POST("/reset", s.handleReset)
	form.GET("/calendar", s.handleFormCalendar)

	records := s.echo.Group("/records")
	records.GET("", s.handleShowList)
	records.POST("/refresh", s.handleRefresh)
	records.POST("/:id/toggle", s.handleToggleRecord)
	records.GET("/:id/edit", s.handleEdit)
	records.POST("/:id/status", s.handleSetStatus)
	records.POST("/:id/delete/request", s.handleRequestDelete)
	records.POST("/:id/delete/cancel", s.handleCancelDelete)
	records.POST("/:id/delete", s.handleConfirmDelete)
	records.GET("/:id/calendar", s.handleRecordCalendar)

	s.echo.GET("/api/records", s.handleAPIRecords)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
