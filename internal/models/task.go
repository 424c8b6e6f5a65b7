// Package models defines the GORM models for the Mission Control schema.
package models

import "time"

// Task is the unit of trackable work on the board.
type Task struct {
	ID            uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	RequirementID *uint        `gorm:"index" json:"requirement_id"`
	Title         string       `gorm:"not null" json:"title"`
	Description   string       `gorm:"type:text" json:"description"`
	Status        TaskStatus   `gorm:"size:16;default:inbox;index" json:"status"`
	Priority      TaskPriority `gorm:"size:16;default:medium;index" json:"priority"`
	AgentID       string       `gorm:"size:64" json:"agent_id"`
	SessionKey    string       `gorm:"size:64" json:"session_key"`
	DueAt         *time.Time   `json:"due_at"`
	StartedAt     *time.Time   `json:"started_at"`
	CompletedAt   *time.Time   `json:"completed_at"`
	Tags          StringList   `gorm:"type:text" json:"tags"`
	Metadata      Metadata     `gorm:"type:text" json:"metadata"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`

	Requirement *Requirement `gorm:"foreignKey:RequirementID;constraint:OnDelete:SET NULL" json:"-"`
	Steps       []TaskStep   `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
	Reviews     []TaskReview `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
}

// TaskStep is an append-only progress-log entry owned by one task. Steps are
// deleted with their task and never mutated in bulk.
type TaskStep struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	TaskID      uint       `gorm:"not null;index" json:"task_id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      StepStatus `gorm:"size:16;default:pending" json:"status"`
	AgentNote   string     `gorm:"type:text" json:"agent_note"`
	DurationMS  *int64     `json:"duration_ms"`
	SortOrder   int        `gorm:"default:0;index" json:"sort_order"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TaskReview is a human-approval request owned by one task.
type TaskReview struct {
	ID              uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	TaskID          uint         `gorm:"not null;index" json:"task_id"`
	Reason          string       `gorm:"type:text" json:"reason"`
	Confidence      *int         `json:"confidence"`
	Status          ReviewStatus `gorm:"size:16;default:pending;index" json:"status"`
	ReviewerComment string       `gorm:"type:text" json:"reviewer_comment"`
	CreatedAt       time.Time    `json:"created_at"`
	ResolvedAt      *time.Time   `json:"resolved_at"`
}
