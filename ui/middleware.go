package ui

import (
	"fmt"
	"io/fs"
	"net/http"
)

// setupMiddleware serves the embedded static assets
func (s *Server) setupMiddleware() error {
	staticFS, err := fs.Sub(s.files, "ui/static")
	if err != nil {
		return fmt.Errorf("failed to open static files: %w", err)
	}
	s.logger.Debug("[Static] serving static files from embedded FS at /static")
	s.router.StaticFS("/static", http.FS(staticFS))
	return nil
}
