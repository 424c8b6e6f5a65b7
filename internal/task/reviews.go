package task

import (
	"errors"
	"strings"
	"time"

	"github.com/zulandar/missionctl/internal/apperr"
	"github.com/zulandar/missionctl/internal/models"
	"gorm.io/gorm"
)

// ReviewOpts holds parameters for filing a review request.
type ReviewOpts struct {
	Reason     string
	Confidence *int // 0-100
}

// ListReviews returns a task's reviews, most recent first.
func ListReviews(db *gorm.DB, taskID uint) ([]models.TaskReview, error) {
	var reviews []models.TaskReview
	if err := db.Where("task_id = ?", taskID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error; err != nil {
		return nil, apperr.Transport(err, "task: list reviews of %d", taskID)
	}
	return reviews, nil
}

// AppendReview files a pending review request against an existing task.
func AppendReview(db *gorm.DB, taskID uint, opts ReviewOpts) (*models.TaskReview, error) {
	if strings.TrimSpace(opts.Reason) == "" {
		return nil, apperr.Validation("review reason is required")
	}
	if opts.Confidence != nil && (*opts.Confidence < 0 || *opts.Confidence > 100) {
		return nil, apperr.Validation("review confidence %d out of range 0-100", *opts.Confidence)
	}

	if _, err := Get(db, taskID); err != nil {
		return nil, err
	}

	review := models.TaskReview{
		TaskID:     taskID,
		Reason:     opts.Reason,
		Confidence: opts.Confidence,
		Status:     models.ReviewPending,
	}
	if err := db.Create(&review).Error; err != nil {
		return nil, apperr.Transport(err, "task: append review to %d", taskID)
	}
	return &review, nil
}

// ResolveReview moves a pending review to approved or rejected and stamps
// resolved_at. Resolving an already-resolved review is a conflict.
func ResolveReview(db *gorm.DB, reviewID uint, status models.ReviewStatus, comment string) (*models.TaskReview, error) {
	if status != models.ReviewApproved && status != models.ReviewRejected {
		return nil, apperr.Validation("review resolution must be approved or rejected, got %q", status)
	}

	var review models.TaskReview
	if err := db.Where("id = ?", reviewID).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("review %d", reviewID)
		}
		return nil, apperr.Transport(err, "task: get review %d", reviewID)
	}
	if review.Status != models.ReviewPending {
		return nil, apperr.Conflict("review %d already resolved as %s", reviewID, review.Status)
	}

	now := time.Now()
	updates := map[string]any{
		"status":           string(status),
		"reviewer_comment": comment,
		"resolved_at":      now,
	}
	if err := db.Model(&models.TaskReview{}).Where("id = ?", reviewID).Updates(updates).Error; err != nil {
		return nil, apperr.Transport(err, "task: resolve review %d", reviewID)
	}

	review.Status = status
	review.ReviewerComment = comment
	review.ResolvedAt = &now
	return &review, nil
}
