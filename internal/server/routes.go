package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/missionctl/internal/apperr"
	"github.com/zulandar/missionctl/internal/board"
	"github.com/zulandar/missionctl/internal/task"
	"github.com/zulandar/missionctl/internal/workspace"
)

// registerRoutes sets up all API routes on the Gin router.
func registerRoutes(router *gin.Engine, d *deps) {
	router.GET("/tasks", handleTaskList(d))
	router.POST("/tasks", handleTaskCreate(d))
	router.PATCH("/tasks", handleTaskPatch(d))
	router.DELETE("/tasks", handleTaskDelete(d))

	router.GET("/task_steps", handleStepList(d))
	router.POST("/task_steps", handleStepCreate(d))

	router.GET("/task_reviews", handleReviewList(d))
	router.POST("/task_reviews", handleReviewCreate(d))
	router.PATCH("/task_reviews", handleReviewResolve(d))

	router.GET("/requirements", handleRequirementList(d))
	router.POST("/requirements", handleRequirementCreate(d))
	router.PATCH("/requirements", handleRequirementPatch(d))
	router.DELETE("/requirements", handleRequirementDelete(d))

	router.GET("/board", handleBoard(d))
	router.GET("/reports", handleReports(d))
	router.GET("/api/events", handleSSE(d))
}

// eqFilter parses a PostgREST-style "eq.<n>" query value into an id.
func eqFilter(value string) (uint, error) {
	raw, ok := strings.CutPrefix(value, "eq.")
	if !ok {
		return 0, fmt.Errorf("filter must be eq.<id>, got %q", value)
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("filter id %q is not a number", raw)
	}
	return uint(id), nil
}

// requireID extracts a required eq filter from a query parameter.
func requireID(c *gin.Context, param string) (uint, bool) {
	value := c.Query(param)
	if value == "" {
		writeError(c, apperr.Validation("query parameter %q is required", param))
		return 0, false
	}
	id, err := eqFilter(value)
	if err != nil {
		writeError(c, apperr.Validation("%v", err))
		return 0, false
	}
	return id, true
}

// writeError maps the error taxonomy onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	status := http.StatusBadGateway
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindConflict:
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{
		"error": err.Error(),
		"kind":  apperr.KindOf(err).String(),
	})
}

func handleBoard(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := board.ReviewFilter(c.DefaultQuery("review_filter", string(board.ReviewAll)))
		tasks, err := task.List(d.db)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, board.BuildView(tasks, filter))
	}
}

func handleReports(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		reports, err := workspace.ScanReports(d.reportsDir)
		if err != nil {
			writeError(c, apperr.Transport(err, "server: scan reports"))
			return
		}
		c.JSON(http.StatusOK, reports)
	}
}
