package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCanceled   TaskStatus = "canceled"
)

// TaskStatuses lists every task status in display order.
var TaskStatuses = []TaskStatus{
	TaskStatusInProgress,
	TaskStatusCompleted,
	TaskStatusCanceled,
}

var taskStatusLabels = map[TaskStatus]string{
	TaskStatusInProgress: "Em andamento",
	TaskStatusCompleted:  "Concluído",
	TaskStatusCanceled:   "Cancelado",
}

// Label returns the human-readable label for the status.
func (s TaskStatus) Label() string {
	return taskStatusLabels[s]
}

// Valid reports whether the status is one of the known values.
func (s TaskStatus) Valid() bool {
	_, ok := taskStatusLabels[s]
	return ok
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// TaskPriorities lists every task priority in display order.
var TaskPriorities = []TaskPriority{
	TaskPriorityLow,
	TaskPriorityMedium,
	TaskPriorityHigh,
}

var taskPriorityLabels = map[TaskPriority]string{
	TaskPriorityLow:    "Low",
	TaskPriorityMedium: "Medium",
	TaskPriorityHigh:   "High",
}

// Label returns the human-readable label for the priority.
func (p TaskPriority) Label() string {
	return taskPriorityLabels[p]
}

// Valid reports whether the priority is one of the known values.
func (p TaskPriority) Valid() bool {
	_, ok := taskPriorityLabels[p]
	return ok
}

// Task belongs to exactly one project and is deleted with it. CompletedAt is
// set if and only if Status is completed.
type Task struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	ProjectID    uint64         `gorm:"not null" json:"project_id"`
	OwnerID      uint64         `gorm:"not null" json:"owner_id"`
	AssignedToID *uint64        `json:"assigned_to_id"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	StartDate    time.Time      `gorm:"not null" json:"start_date"`
	EndDate      *time.Time     `json:"end_date"`
	Priority     TaskPriority   `gorm:"type:varchar(20);not null;default:'low'" json:"priority"`
	Status       TaskStatus     `gorm:"type:varchar(20);not null;default:'in_progress'" json:"status"`
	CompletedAt  *time.Time     `json:"completed_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Project    Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Owner      User    `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	AssignedTo *User   `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
}
