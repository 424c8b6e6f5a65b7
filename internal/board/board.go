// Package board holds the pure Kanban reducer and the in-memory board state
// the dashboard views own. All functions here are side-effect free except
// Store, which is the single writer of one view's task list.
package board

import "github.com/zulandar/missionctl/internal/models"

// GroupByStatus partitions tasks into the four status columns. The partition
// is stable: each column keeps the input's relative order, so the repository
// ordering decides display order inside a column. Every input task lands in
// exactly one bucket; a task with an unrecognized status is shown in inbox
// rather than dropped. All four keys are always present.
func GroupByStatus(tasks []models.Task) map[models.TaskStatus][]models.Task {
	grouped := make(map[models.TaskStatus][]models.Task, 4)
	for _, s := range models.TaskStatuses() {
		grouped[s] = []models.Task{}
	}
	for _, t := range tasks {
		s := t.Status
		if !s.Valid() {
			s = models.StatusInbox
		}
		grouped[s] = append(grouped[s], t)
	}
	return grouped
}

// ReviewFilter selects a sub-bucket of the review column.
type ReviewFilter string

const (
	// ReviewAll is the full, unfiltered review bucket.
	ReviewAll ReviewFilter = "all"
	// ReviewApprovalNeeded holds review tasks whose metadata carries a
	// truthy review_reason.
	ReviewApprovalNeeded ReviewFilter = "approval_needed"
	// ReviewBlocked holds review tasks without a review_reason.
	ReviewBlocked ReviewFilter = "blocked"
)

// ReviewBuckets is the sub-partition of the review column. ApprovalNeeded and
// Blocked are disjoint and together equal All. Recomputed from current
// metadata on every call; nothing here mutates task data.
type ReviewBuckets struct {
	All            []models.Task
	ApprovalNeeded []models.Task
	Blocked        []models.Task
}

// SplitReview partitions the review column on the presence of a truthy
// metadata review_reason.
func SplitReview(reviewTasks []models.Task) ReviewBuckets {
	b := ReviewBuckets{
		All:            reviewTasks,
		ApprovalNeeded: []models.Task{},
		Blocked:        []models.Task{},
	}
	for _, t := range reviewTasks {
		if _, ok := t.Metadata.ReviewReason(); ok {
			b.ApprovalNeeded = append(b.ApprovalNeeded, t)
		} else {
			b.Blocked = append(b.Blocked, t)
		}
	}
	return b
}

// Select returns the bucket for a filter. Unknown filters fall back to All.
func (b ReviewBuckets) Select(f ReviewFilter) []models.Task {
	switch f {
	case ReviewApprovalNeeded:
		return b.ApprovalNeeded
	case ReviewBlocked:
		return b.Blocked
	default:
		return b.All
	}
}
