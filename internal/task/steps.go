package task

import (
	"database/sql"
	"strings"

	"github.com/zulandar/missionctl/internal/apperr"
	"github.com/zulandar/missionctl/internal/models"
	"gorm.io/gorm"
)

// StepOpts holds parameters for appending a progress-log entry.
type StepOpts struct {
	Title       string
	Description string
	Status      models.StepStatus // defaults to pending
	AgentNote   string
	DurationMS  *int64
	SortOrder   *int // defaults to one past the current maximum
}

// ListSteps returns a task's steps in display order: sort_order, then
// creation order for ties.
func ListSteps(db *gorm.DB, taskID uint) ([]models.TaskStep, error) {
	var steps []models.TaskStep
	if err := db.Where("task_id = ?", taskID).
		Order("sort_order ASC, created_at ASC, id ASC").
		Find(&steps).Error; err != nil {
		return nil, apperr.Transport(err, "task: list steps of %d", taskID)
	}
	return steps, nil
}

// AppendStep adds a step to an existing task. Steps are append-only: there is
// no update or bulk-mutate operation.
func AppendStep(db *gorm.DB, taskID uint, opts StepOpts) (*models.TaskStep, error) {
	if strings.TrimSpace(opts.Title) == "" {
		return nil, apperr.Validation("step title is required")
	}
	if opts.Status == "" {
		opts.Status = models.StepPending
	}
	if !opts.Status.Valid() {
		return nil, apperr.Validation("unknown step status %q", opts.Status)
	}

	if _, err := Get(db, taskID); err != nil {
		return nil, err
	}

	sortOrder := 0
	if opts.SortOrder != nil {
		sortOrder = *opts.SortOrder
	} else {
		var max sql.NullInt64
		if err := db.Model(&models.TaskStep{}).Where("task_id = ?", taskID).
			Select("MAX(sort_order)").Scan(&max).Error; err != nil {
			return nil, apperr.Transport(err, "task: next sort_order for %d", taskID)
		}
		if max.Valid {
			sortOrder = int(max.Int64) + 1
		}
	}

	step := models.TaskStep{
		TaskID:      taskID,
		Title:       opts.Title,
		Description: opts.Description,
		Status:      opts.Status,
		AgentNote:   opts.AgentNote,
		DurationMS:  opts.DurationMS,
		SortOrder:   sortOrder,
	}
	if err := db.Create(&step).Error; err != nil {
		return nil, apperr.Transport(err, "task: append step to %d", taskID)
	}
	return &step, nil
}
