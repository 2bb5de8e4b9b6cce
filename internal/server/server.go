package server

import (
	"log/slog"
	"net/http"
	"sync"

	glog "github.com/gin-contrib/slog"
	"github.com/gin-gonic/gin"

	"github.com/kestrelops/liaison/internal/events"
	"github.com/kestrelops/liaison/internal/history"
	"github.com/kestrelops/liaison/internal/workflow"
)

// Server implements the HTTP API server for the orchestrator
type Server struct {
	orch    *workflow.Orchestrator
	history *history.Store
	hub     *events.Hub
	sockets map[*client]struct{}
	mu      sync.Mutex
}

// NewServer creates a new HTTP API server. The history store and event
// hub are optional; their endpoints degrade gracefully when absent
func NewServer(
	orch *workflow.Orchestrator, hist *history.Store, hub *events.Hub,
) *Server {
	return &Server{
		orch:    orch,
		history: hist,
		hub:     hub,
		sockets: map[*client]struct{}{},
	}
}

// SetupRoutes configures and returns the HTTP router with all API
// endpoints
func (s *Server) SetupRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(glog.SetLogger(
		glog.WithLogger(func(c *gin.Context, l *slog.Logger) *slog.Logger {
			return slog.Default()
		}),
	))

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set(
			"Access-Control-Allow-Methods",
			"GET, POST, OPTIONS",
		)
		c.Writer.Header().Set(
			"Access-Control-Allow-Headers",
			"Content-Type, Authorization, X-Correlation-ID, "+
				"X-Source-Token, X-Chat-Token, X-Docs-Token, "+
				"X-Calendar-Token",
		)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", s.handleHealth)

	// Workflow endpoints
	wf := router.Group("/workflow")
	{
		wf.POST("/review", s.startReview)
		wf.POST("/kickoff", s.startKickoff)
		wf.POST("/incident", s.startIncident)
	}

	// Run history
	router.GET("/runs", s.listRuns)
	router.GET("/runs/:corr", s.getRun)

	// WebSocket
	router.GET("/ws", s.handleWebSocket)

	return router
}

func (s *Server) registerWebSocket(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sockets[c] = struct{}{}
}

func (s *Server) unregisterWebSocket(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sockets, c)
}

// CloseWebSockets closes all active WebSocket connections
func (s *Server) CloseWebSockets() {
	s.mu.Lock()
	conns := make([]*client, 0, len(s.sockets))
	for c := range s.sockets {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		c.close()
	}
}
