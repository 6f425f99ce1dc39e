package httpserver

import (
	"context"

	"fxchart-service/internal/application"
	"fxchart-service/internal/graph"
)

type Server struct {
	records     *application.RecordService
	views       *application.ViewManager
	renderer    *graph.Renderer
	ping        func(ctx context.Context) error
	corsOrigins []string
}

func NewServer(records *application.RecordService, views *application.ViewManager, renderer *graph.Renderer) *Server {
	return &Server{records: records, views: views, renderer: renderer}
}

// SetReadyCheck installs the dependency check behind /readyz.
func (s *Server) SetReadyCheck(fn func(ctx context.Context) error) { s.ping = fn }

func (s *Server) SetCORSOrigins(origins []string) { s.corsOrigins = origins }

// Views exposes the manager so the janitor and shutdown can reach it.
func (s *Server) Views() *application.ViewManager { return s.views }
