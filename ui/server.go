package ui

import (
	"context"
	stderrors "errors"
	"fmt"
	"html/template"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ndtdash/app"
	"ndtdash/internal"
	"ndtdash/internal/api"
)

// Server serves the three dashboard views over gin
type Server struct {
	router    *gin.Engine
	service   *app.ReportService
	hub       *api.EventHub
	files     fs.FS
	templates *template.Template
	logger    *internal.Logger
}

// Options carries the optional collaborators of the server
type Options struct {
	// API is mounted under /api/v1 when set
	API http.Handler
	// Hub streams load events at /events when set
	Hub *api.EventHub
	// RequestLog enables gin's request logger
	RequestLog bool
}

// NewServer builds the dashboard server. files must hold ui/templates and
// ui/static.
func NewServer(service *app.ReportService, files fs.FS, opts Options, logger *internal.Logger) (*Server, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}

	templates, err := parseTemplates(files)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if opts.RequestLog {
		router.Use(gin.Logger())
	}
	router.SetHTMLTemplate(templates)

	s := &Server{
		router:    router,
		service:   service,
		hub:       opts.Hub,
		files:     files,
		templates: templates,
		logger:    logger,
	}

	if err := s.setupMiddleware(); err != nil {
		return nil, err
	}
	s.setupRoutes(opts.API)
	return s, nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes(apiHandler http.Handler) {
	s.router.GET("/", s.handleIndex)

	// Views
	s.router.GET("/resumo", s.handleSummary)
	s.router.GET("/detalhamento", s.handleDetail)
	s.router.GET("/condicoes", s.handleConditions)
	s.router.POST("/refresh", s.handleRefresh)

	// Charts and exports follow the selection in the query string
	s.router.GET("/charts/summary.svg", s.handleSummaryChart)
	s.router.GET("/charts/kind/:index", s.handleKindChart)
	s.router.GET("/export/matrix.xlsx", s.handleExportXLSX)
	s.router.GET("/export/matrix.csv", s.handleExportCSV)
	s.router.GET("/print", s.handlePrint)

	if s.hub != nil {
		s.router.GET("/events", s.hub.HandleEvents)
	}
	if apiHandler != nil {
		s.router.Any(api.Prefix+"/*path", gin.WrapH(apiHandler))
	}
}

// Handler exposes the router for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		// open event streams end with ctx
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[Server] dashboard listening on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("[Server] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
