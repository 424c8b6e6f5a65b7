// Package requirement manages recurring task requirements and their cron
// schedule.
package requirement

import (
	"errors"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/zulandar/missionctl/internal/apperr"
	"github.com/zulandar/missionctl/internal/models"
	"gorm.io/gorm"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// CreateOpts holds parameters for creating a requirement.
type CreateOpts struct {
	Title       string
	Description string
	CronJobID   string
	CronExpr    string
	AgentID     string
	Tags        models.StringList
}

// Create inserts a requirement. A cron expression, when present, must parse;
// cron_job_id must be unique across requirements.
func Create(db *gorm.DB, opts CreateOpts) (*models.Requirement, error) {
	if strings.TrimSpace(opts.Title) == "" {
		return nil, apperr.Validation("requirement title is required")
	}
	if opts.CronExpr != "" {
		if _, err := cronParser.Parse(opts.CronExpr); err != nil {
			return nil, apperr.Validation("invalid cron expression %q: %v", opts.CronExpr, err)
		}
	}
	if opts.CronJobID != "" {
		var count int64
		if err := db.Model(&models.Requirement{}).Where("cron_job_id = ?", opts.CronJobID).Count(&count).Error; err != nil {
			return nil, apperr.Transport(err, "requirement: check cron_job_id")
		}
		if count > 0 {
			return nil, apperr.Conflict("cron_job_id %q already exists", opts.CronJobID)
		}
	}

	r := models.Requirement{
		Title:       opts.Title,
		Description: opts.Description,
		CronExpr:    opts.CronExpr,
		AgentID:     opts.AgentID,
		IsActive:    true,
		Tags:        opts.Tags,
	}
	if opts.CronJobID != "" {
		r.CronJobID = &opts.CronJobID
	}
	if err := db.Create(&r).Error; err != nil {
		return nil, apperr.Transport(err, "requirement: create")
	}
	return &r, nil
}

// Get retrieves a requirement by id.
func Get(db *gorm.DB, id uint) (*models.Requirement, error) {
	var r models.Requirement
	if err := db.Where("id = ?", id).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("requirement %d", id)
		}
		return nil, apperr.Transport(err, "requirement: get %d", id)
	}
	return &r, nil
}

// List returns requirements newest first. A non-nil active filters on the
// is_active flag in either direction.
func List(db *gorm.DB, active *bool) ([]models.Requirement, error) {
	q := db.Model(&models.Requirement{})
	if active != nil {
		q = q.Where("is_active = ?", *active)
	}
	var reqs []models.Requirement
	if err := q.Order("created_at DESC, id DESC").Find(&reqs).Error; err != nil {
		return nil, apperr.Transport(err, "requirement: list")
	}
	return reqs, nil
}

// SetActive flips the is_active flag. Deactivating never touches the
// requirement's tasks.
func SetActive(db *gorm.DB, id uint, active bool) error {
	res := db.Model(&models.Requirement{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return apperr.Transport(res.Error, "requirement: set active %d", id)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("requirement %d", id)
	}
	return nil
}

// Delete removes a requirement. Its tasks survive with requirement_id
// cleared, since a requirement is only a weak grouping parent.
func Delete(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Requirement{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return apperr.Transport(err, "requirement: check %d", id)
		}
		if count == 0 {
			return apperr.NotFound("requirement %d", id)
		}
		if err := tx.Model(&models.Task{}).Where("requirement_id = ?", id).
			Update("requirement_id", nil).Error; err != nil {
			return apperr.Transport(err, "requirement: detach tasks of %d", id)
		}
		if err := tx.Where("id = ?", id).Delete(&models.Requirement{}).Error; err != nil {
			return apperr.Transport(err, "requirement: delete %d", id)
		}
		return nil
	})
}
