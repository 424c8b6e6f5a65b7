package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/missionctl/internal/apperr"
	"github.com/zulandar/missionctl/internal/models"
	"github.com/zulandar/missionctl/internal/task"
)

// createTaskRequest is the POST /tasks body.
type createTaskRequest struct {
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Status        string         `json:"status"`
	Priority      string         `json:"priority"`
	AgentID       string         `json:"agent_id"`
	SessionKey    string         `json:"session_key"`
	RequirementID *uint          `json:"requirement_id"`
	DueAt         *time.Time     `json:"due_at"`
	Tags          []string       `json:"tags"`
	Metadata      map[string]any `json:"metadata"`
}

func handleTaskList(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		tasks, err := task.List(d.db)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, tasks)
	}
}

func handleTaskCreate(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, apperr.Validation("invalid task body: %v", err))
			return
		}

		t, err := task.Create(d.db, task.CreateOpts{
			Title:         req.Title,
			Description:   req.Description,
			Status:        models.TaskStatus(req.Status),
			Priority:      models.TaskPriority(req.Priority),
			AgentID:       req.AgentID,
			SessionKey:    req.SessionKey,
			RequirementID: req.RequirementID,
			DueAt:         req.DueAt,
			Tags:          req.Tags,
			Metadata:      req.Metadata,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, t)
	}
}

func handleTaskPatch(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := requireID(c, "id")
		if !ok {
			return
		}

		var fields map[string]any
		if err := c.ShouldBindJSON(&fields); err != nil {
			writeError(c, apperr.Validation("invalid patch body: %v", err))
			return
		}

		t, err := task.Patch(d.db, id, fields)
		if err != nil {
			writeError(c, err)
			return
		}

		// Escalate when a task lands in review with a stated reason.
		if status, _ := fields["status"].(string); status == string(models.StatusReview) {
			if reason, ok := t.Metadata.ReviewReason(); ok {
				if err := d.notifier.NotifyReview(c.Request.Context(), t, reason); err != nil {
					d.log.Warn().Err(err).Uint("task", t.ID).Msg("server: review notification failed")
				}
			}
		}

		c.JSON(http.StatusOK, t)
	}
}

func handleTaskDelete(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := requireID(c, "id")
		if !ok {
			return
		}
		if err := task.Delete(d.db, id); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// createStepRequest is the POST /task_steps body.
type createStepRequest struct {
	TaskID      uint   `json:"task_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	AgentNote   string `json:"agent_note"`
	DurationMS  *int64 `json:"duration_ms"`
	SortOrder   *int   `json:"sort_order"`
}

func handleStepList(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, ok := requireID(c, "task_id")
		if !ok {
			return
		}
		steps, err := task.ListSteps(d.db, taskID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, steps)
	}
}

func handleStepCreate(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createStepRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, apperr.Validation("invalid step body: %v", err))
			return
		}
		step, err := task.AppendStep(d.db, req.TaskID, task.StepOpts{
			Title:       req.Title,
			Description: req.Description,
			Status:      models.StepStatus(req.Status),
			AgentNote:   req.AgentNote,
			DurationMS:  req.DurationMS,
			SortOrder:   req.SortOrder,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, step)
	}
}

// createReviewRequest is the POST /task_reviews body.
type createReviewRequest struct {
	TaskID     uint   `json:"task_id"`
	Reason     string `json:"reason"`
	Confidence *int   `json:"confidence"`
}

// resolveReviewRequest is the PATCH /task_reviews body.
type resolveReviewRequest struct {
	Status          string `json:"status"`
	ReviewerComment string `json:"reviewer_comment"`
}

func handleReviewList(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, ok := requireID(c, "task_id")
		if !ok {
			return
		}
		reviews, err := task.ListReviews(d.db, taskID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, reviews)
	}
}

func handleReviewCreate(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, apperr.Validation("invalid review body: %v", err))
			return
		}
		review, err := task.AppendReview(d.db, req.TaskID, task.ReviewOpts{
			Reason:     req.Reason,
			Confidence: req.Confidence,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, review)
	}
}

func handleReviewResolve(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := requireID(c, "id")
		if !ok {
			return
		}
		var req resolveReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, apperr.Validation("invalid review body: %v", err))
			return
		}
		review, err := task.ResolveReview(d.db, id, models.ReviewStatus(req.Status), req.ReviewerComment)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, review)
	}
}
