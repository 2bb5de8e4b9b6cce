package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kestrelops/liaison/pkg/api"
)

var ErrInvalidJSON = errors.New("invalid JSON payload")

const (
	headerCorrelation   = "X-Correlation-ID"
	headerSourceToken   = "X-Source-Token"
	headerChatToken     = "X-Chat-Token"
	headerDocsToken     = "X-Docs-Token"
	headerCalendarToken = "X-Calendar-Token"
)

func (s *Server) startReview(c *gin.Context) {
	var req api.ReviewRequest
	if !bindRequest(c, &req) {
		return
	}
	res := s.orch.ScheduleReview(
		c.Request.Context(), req, userContext(c), correlationID(c),
	)
	c.JSON(statusFor(res), res)
}

func (s *Server) startKickoff(c *gin.Context) {
	var req api.KickoffRequest
	if !bindRequest(c, &req) {
		return
	}
	res := s.orch.LaunchProject(
		c.Request.Context(), req, userContext(c), correlationID(c),
	)
	c.JSON(statusFor(res), res)
}

func (s *Server) startIncident(c *gin.Context) {
	var req api.IncidentRequest
	if !bindRequest(c, &req) {
		return
	}
	res := s.orch.RespondToIncident(
		c.Request.Context(), req, userContext(c), correlationID(c),
	)
	c.JSON(statusFor(res), res)
}

func bindRequest(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:  fmt.Sprintf("%s: %v", ErrInvalidJSON, err),
			Status: http.StatusBadRequest,
		})
		return false
	}
	return true
}

// userContext collects the per-request platform tokens from headers.
// Tokens are never logged or persisted; they ride the request only
func userContext(c *gin.Context) api.UserContext {
	return api.UserContext{
		SourceToken:   api.Token(c.GetHeader(headerSourceToken)),
		ChatToken:     api.Token(c.GetHeader(headerChatToken)),
		DocsToken:     api.Token(c.GetHeader(headerDocsToken)),
		CalendarToken: api.Token(c.GetHeader(headerCalendarToken)),
	}
}

// correlationID honors a caller-supplied correlation header, minting one
// otherwise
func correlationID(c *gin.Context) api.CorrelationID {
	if corr := c.GetHeader(headerCorrelation); corr != "" {
		return api.CorrelationID(corr)
	}
	return api.CorrelationID(uuid.NewString())
}

// statusFor maps the uniform envelope onto an HTTP status. The envelope
// itself is always the response body
func statusFor(res api.Result) int {
	if res.Success {
		return http.StatusOK
	}
	switch res.ErrorKind {
	case api.ErrorKindValidation:
		return http.StatusBadRequest
	case api.ErrorKindLifecycle:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
