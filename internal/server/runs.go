package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kestrelops/liaison/internal/history"
	"github.com/kestrelops/liaison/pkg/api"
)

type runsListResponse struct {
	Runs  []history.Record `json:"runs"`
	Count int              `json:"count"`
}

var (
	ErrHistoryDisabled = errors.New("run history is not enabled")
	ErrListRuns        = errors.New("failed to list runs")
)

func (s *Server) listRuns(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{
			Error:  ErrHistoryDisabled.Error(),
			Status: http.StatusServiceUnavailable,
		})
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	filter := history.Filter{
		Workflow: c.Query("workflow"),
		Failed:   c.Query("failed") == "true",
	}

	runs, err := s.history.List(c.Request.Context(), filter, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Error:  fmt.Sprintf("%s: %v", ErrListRuns, err),
			Status: http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, runsListResponse{
		Runs:  runs,
		Count: len(runs),
	})
}

func (s *Server) getRun(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{
			Error:  ErrHistoryDisabled.Error(),
			Status: http.StatusServiceUnavailable,
		})
		return
	}

	corr := api.CorrelationID(c.Param("corr"))
	rec, err := s.history.Get(c.Request.Context(), corr)
	if err == nil {
		c.JSON(http.StatusOK, rec)
		return
	}

	if errors.Is(err, history.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Error:  err.Error(),
			Status: http.StatusNotFound,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, api.ErrorResponse{
		Error:  err.Error(),
		Status: http.StatusInternalServerError,
	})
}
