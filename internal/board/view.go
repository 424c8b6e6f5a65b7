package board

import (
	"time"

	"github.com/zulandar/missionctl/internal/models"
)

// Card is the rendering contract for one task on the board.
type Card struct {
	ID           uint                `json:"id"`
	Title        string              `json:"title"`
	Priority     models.TaskPriority `json:"priority"`
	AgentID      string              `json:"agent_id,omitempty"`
	DueAt        *time.Time          `json:"due_at,omitempty"`
	Tags         []string            `json:"tags,omitempty"`
	ReviewReason string              `json:"review_reason,omitempty"`
}

// Column is one status column of the board.
type Column struct {
	Status models.TaskStatus `json:"status"`
	Title  string            `json:"title"`
	Count  int               `json:"count"`
	Cards  []Card            `json:"cards"`
}

// View is the full rendering contract any UI layer consumes. The review
// column's cards honor the active sub-filter; the counts always describe all
// three buckets so a UI can render filter tabs.
type View struct {
	Columns      []Column     `json:"columns"`
	ReviewFilter ReviewFilter `json:"review_filter"`
	ReviewCounts ReviewCounts `json:"review_counts"`
}

// ReviewCounts holds the size of each review sub-bucket.
type ReviewCounts struct {
	All            int `json:"all"`
	ApprovalNeeded int `json:"approval_needed"`
	Blocked        int `json:"blocked"`
}

// columnTitles maps statuses to display names in column order.
var columnTitles = map[models.TaskStatus]string{
	models.StatusInbox:      "Inbox",
	models.StatusInProgress: "In Progress",
	models.StatusReview:     "Review",
	models.StatusDone:       "Done",
}

// BuildView groups tasks into columns and applies the review sub-filter. The
// Count on every column is the unfiltered size, so filtering the review
// column never changes its badge.
func BuildView(tasks []models.Task, filter ReviewFilter) View {
	grouped := GroupByStatus(tasks)
	buckets := SplitReview(grouped[models.StatusReview])

	v := View{
		ReviewFilter: filter,
		ReviewCounts: ReviewCounts{
			All:            len(buckets.All),
			ApprovalNeeded: len(buckets.ApprovalNeeded),
			Blocked:        len(buckets.Blocked),
		},
	}

	for _, status := range models.TaskStatuses() {
		colTasks := grouped[status]
		if status == models.StatusReview {
			colTasks = buckets.Select(filter)
		}
		v.Columns = append(v.Columns, Column{
			Status: status,
			Title:  columnTitles[status],
			Count:  len(grouped[status]),
			Cards:  toCards(colTasks),
		})
	}
	return v
}

func toCards(tasks []models.Task) []Card {
	cards := make([]Card, len(tasks))
	for i, t := range tasks {
		reason, _ := t.Metadata.ReviewReason()
		cards[i] = Card{
			ID:           t.ID,
			Title:        t.Title,
			Priority:     t.Priority,
			AgentID:      t.AgentID,
			DueAt:        t.DueAt,
			Tags:         t.Tags,
			ReviewReason: reason,
		}
	}
	return cards
}
