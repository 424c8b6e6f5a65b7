package models

import "time"

// Requirement is an optional recurring/grouping parent for tasks. Deleting a
// requirement leaves its tasks in place with requirement_id cleared;
// deactivating it only stops the scheduler from materializing new tasks.
// CronJobID is NULL when absent so requirements without one never collide on
// the unique index.
type Requirement struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	CronJobID   *string    `gorm:"size:64;uniqueIndex" json:"cron_job_id,omitempty"`
	CronExpr    string     `gorm:"size:64" json:"cron_expr"`
	AgentID     string     `gorm:"size:64" json:"agent_id"`
	IsActive    bool       `gorm:"default:true;index" json:"is_active"`
	Tags        StringList `gorm:"type:text" json:"tags"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
