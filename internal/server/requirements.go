package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/missionctl/internal/apperr"
	"github.com/zulandar/missionctl/internal/requirement"
)

// createRequirementRequest is the POST /requirements body.
type createRequirementRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CronJobID   string   `json:"cron_job_id"`
	CronExpr    string   `json:"cron_expr"`
	AgentID     string   `json:"agent_id"`
	Tags        []string `json:"tags"`
}

// patchRequirementRequest is the PATCH /requirements body. Only the active
// flag is mutable; recurring work is redefined by replacing the requirement.
type patchRequirementRequest struct {
	IsActive *bool `json:"is_active"`
}

func handleRequirementList(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		active, err := activeFilter(c.Query("is_active"))
		if err != nil {
			writeError(c, err)
			return
		}
		reqs, err := requirement.List(d.db, active)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, reqs)
	}
}

// activeFilter parses the optional is_active query filter. Both directions
// are valid; anything else is rejected rather than silently ignored.
func activeFilter(value string) (*bool, error) {
	switch value {
	case "":
		return nil, nil
	case "eq.true":
		active := true
		return &active, nil
	case "eq.false":
		active := false
		return &active, nil
	default:
		return nil, apperr.Validation("is_active filter must be eq.true or eq.false, got %q", value)
	}
}

func handleRequirementCreate(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createRequirementRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, apperr.Validation("invalid requirement body: %v", err))
			return
		}
		r, err := requirement.Create(d.db, requirement.CreateOpts{
			Title:       req.Title,
			Description: req.Description,
			CronJobID:   req.CronJobID,
			CronExpr:    req.CronExpr,
			AgentID:     req.AgentID,
			Tags:        req.Tags,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, r)
	}
}

func handleRequirementPatch(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := requireID(c, "id")
		if !ok {
			return
		}
		var req patchRequirementRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, apperr.Validation("invalid requirement body: %v", err))
			return
		}
		if req.IsActive == nil {
			writeError(c, apperr.Validation("is_active is the only patchable requirement field"))
			return
		}
		if err := requirement.SetActive(d.db, id, *req.IsActive); err != nil {
			writeError(c, err)
			return
		}
		r, err := requirement.Get(d.db, id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

func handleRequirementDelete(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := requireID(c, "id")
		if !ok {
			return
		}
		if err := requirement.Delete(d.db, id); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
