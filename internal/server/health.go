package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kestrelops/liaison"
	"github.com/kestrelops/liaison/pkg/api"
)

func (s *Server) handleHealth(c *gin.Context) {
	status := "ok"
	if !s.orch.Initialized() {
		status = "starting"
	}
	c.JSON(http.StatusOK, api.HealthResponse{
		Status:      status,
		Name:        liaison.Name,
		Version:     liaison.Version,
		Initialized: s.orch.Initialized(),
	})
}
