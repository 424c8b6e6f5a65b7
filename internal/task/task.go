// Package task provides task lifecycle and repository operations.
package task

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zulandar/missionctl/internal/apperr"
	"github.com/zulandar/missionctl/internal/models"
	"gorm.io/gorm"
)

// listOrder ranks priority (critical first), then newest first, then id for
// a deterministic order on equal keys.
const listOrder = "CASE priority WHEN 'critical' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 WHEN 'low' THEN 3 ELSE 4 END ASC, created_at DESC, id ASC"

// CreateOpts holds parameters for creating a new task.
type CreateOpts struct {
	Title         string
	Description   string
	Status        models.TaskStatus   // defaults to inbox
	Priority      models.TaskPriority // defaults to medium
	AgentID       string
	SessionKey    string
	RequirementID *uint
	DueAt         *time.Time
	Tags          models.StringList
	Metadata      models.Metadata
}

// Create inserts a new task. The title must contain at least one
// non-whitespace character.
func Create(db *gorm.DB, opts CreateOpts) (*models.Task, error) {
	if strings.TrimSpace(opts.Title) == "" {
		return nil, apperr.Validation("task title is required")
	}
	if opts.Status == "" {
		opts.Status = models.StatusInbox
	}
	if !opts.Status.Valid() {
		return nil, apperr.Validation("unknown task status %q", opts.Status)
	}
	if opts.Priority == "" {
		opts.Priority = models.PriorityMedium
	}
	if !opts.Priority.Valid() {
		return nil, apperr.Validation("unknown task priority %q", opts.Priority)
	}

	if opts.RequirementID != nil {
		var count int64
		if err := db.Model(&models.Requirement{}).Where("id = ?", *opts.RequirementID).Count(&count).Error; err != nil {
			return nil, apperr.Transport(err, "task: check requirement %d", *opts.RequirementID)
		}
		if count == 0 {
			return nil, apperr.NotFound("requirement %d", *opts.RequirementID)
		}
	}

	t := models.Task{
		Title:         opts.Title,
		Description:   opts.Description,
		Status:        opts.Status,
		Priority:      opts.Priority,
		AgentID:       opts.AgentID,
		SessionKey:    opts.SessionKey,
		RequirementID: opts.RequirementID,
		DueAt:         opts.DueAt,
		Tags:          opts.Tags,
		Metadata:      opts.Metadata,
	}
	if err := db.Create(&t).Error; err != nil {
		return nil, apperr.Transport(err, "task: create")
	}
	return &t, nil
}

// Get retrieves a task by id.
func Get(db *gorm.DB, id uint) (*models.Task, error) {
	var t models.Task
	if err := db.Where("id = ?", id).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("task %d", id)
		}
		return nil, apperr.Transport(err, "task: get %d", id)
	}
	return &t, nil
}

// List returns all tasks ordered by priority (critical first), then creation
// time (newest first), then id.
func List(db *gorm.DB) ([]models.Task, error) {
	var tasks []models.Task
	if err := db.Order(listOrder).Find(&tasks).Error; err != nil {
		return nil, apperr.Transport(err, "task: list")
	}
	return tasks, nil
}

// Patch applies a partial update and returns the updated task. Fields pass
// through verbatim: status changes do not populate started_at/completed_at
// here; callers apply EntryActions alongside the status field.
func Patch(db *gorm.DB, id uint, fields map[string]any) (*models.Task, error) {
	if len(fields) == 0 {
		return Get(db, id)
	}

	updates, err := normalizePatch(fields)
	if err != nil {
		return nil, err
	}

	res := db.Model(&models.Task{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, apperr.Transport(res.Error, "task: patch %d", id)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("task %d", id)
	}
	return Get(db, id)
}

// Delete removes a task and all its steps and reviews in one transaction.
// Deleting an unknown id is an error, never a silent success.
func Delete(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Task{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return apperr.Transport(err, "task: check %d", id)
		}
		if count == 0 {
			return apperr.NotFound("task %d", id)
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskStep{}).Error; err != nil {
			return apperr.Transport(err, "task: delete steps of %d", id)
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskReview{}).Error; err != nil {
			return apperr.Transport(err, "task: delete reviews of %d", id)
		}
		if err := tx.Where("id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return apperr.Transport(err, "task: delete %d", id)
		}
		return nil
	})
}

// mutableFields lists the columns a patch may touch.
var mutableFields = map[string]bool{
	"title":          true,
	"description":    true,
	"status":         true,
	"priority":       true,
	"agent_id":       true,
	"session_key":    true,
	"requirement_id": true,
	"due_at":         true,
	"started_at":     true,
	"completed_at":   true,
	"tags":           true,
	"metadata":       true,
}

// normalizePatch validates field names and values and converts JSON-decoded
// values into column-ready ones.
func normalizePatch(fields map[string]any) (map[string]any, error) {
	updates := make(map[string]any, len(fields))
	for name, value := range fields {
		if !mutableFields[name] {
			return nil, apperr.Validation("field %q is not patchable", name)
		}
		switch name {
		case "title":
			s, ok := value.(string)
			if !ok || strings.TrimSpace(s) == "" {
				return nil, apperr.Validation("task title is required")
			}
			updates[name] = s
		case "status":
			s, _ := value.(string)
			if !models.TaskStatus(s).Valid() {
				return nil, apperr.Validation("unknown task status %q", s)
			}
			updates[name] = s
		case "priority":
			s, _ := value.(string)
			if !models.TaskPriority(s).Valid() {
				return nil, apperr.Validation("unknown task priority %q", s)
			}
			updates[name] = s
		case "due_at", "started_at", "completed_at":
			ts, err := toTime(value)
			if err != nil {
				return nil, apperr.Validation("field %q: %v", name, err)
			}
			updates[name] = ts
		case "tags":
			tags, err := toStringList(value)
			if err != nil {
				return nil, apperr.Validation("field tags: %v", err)
			}
			updates[name] = tags
		case "metadata":
			meta, err := toMetadata(value)
			if err != nil {
				return nil, apperr.Validation("field metadata: %v", err)
			}
			updates[name] = meta
		default:
			updates[name] = value
		}
	}
	return updates, nil
}

// toTime accepts nil, time.Time, *time.Time, or an RFC 3339 string.
func toTime(value any) (*time.Time, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return &v, nil
	case *time.Time:
		return v, nil
	case string:
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("not an RFC 3339 timestamp: %q", v)
		}
		return &ts, nil
	default:
		return nil, fmt.Errorf("unsupported timestamp type %T", value)
	}
}

// toStringList accepts a []string, models.StringList, or JSON-decoded []any
// of strings. Anything else fails validation: tags must be an array of strings.
func toStringList(value any) (models.StringList, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case models.StringList:
		return v, nil
	case []string:
		return models.StringList(v), nil
	case []any:
		out := make(models.StringList, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("element %v is not a string", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("not an array of strings: %T", value)
	}
}

// toMetadata accepts a map[string]any or models.Metadata.
func toMetadata(value any) (models.Metadata, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case models.Metadata:
		return v, nil
	case map[string]any:
		return models.Metadata(v), nil
	default:
		return nil, fmt.Errorf("not an object: %T", value)
	}
}
