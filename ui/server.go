package ui

import (
	"log"
	"net/http"

	"datagraph/app"

	"github.com/gin-gonic/gin"
)

// Server exposes plot sessions and one-shot analyses over HTTP
type Server struct {
	router   *gin.Engine
	sessions *app.SessionStore
	analysis *app.AnalysisService
	registry app.RegistryProvider
}

// NewServer creates a new web server instance
func NewServer(sessions *app.SessionStore, analysis *app.AnalysisService, registry app.RegistryProvider) *Server {
	s := &Server{
		router:   gin.New(),
		sessions: sessions,
		analysis: analysis,
		registry: registry,
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler serving all routes
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the server on addr until it fails
func (s *Server) Start(addr string) error {
	log.Printf("[Server] Listening on %s", addr)
	return s.router.Run(addr)
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")

	api.GET("/variables", s.handleVariables)

	api.GET("/sessions", s.handleListSessions)
	api.POST("/sessions/pairwise", s.handleCreateSession(app.PlotPairwise))
	api.POST("/sessions/grouped", s.handleCreateSession(app.PlotGrouped))
	api.GET("/sessions/:id", s.handleGetSession)
	api.DELETE("/sessions/:id", s.handleDeleteSession)
	api.PUT("/sessions/:id/axes/:axis", s.handleDropAxis)
	api.DELETE("/sessions/:id/axes/:axis", s.handleClearAxis)
	api.GET("/sessions/:id/chart", s.handleChart)
	api.POST("/sessions/:id/chart-type/toggle", s.handleToggleChartType)

	api.POST("/correlate", s.handleCorrelate)
	api.POST("/aggregate", s.handleAggregate)
}
