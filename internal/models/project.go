package models

import (
	"time"

	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusCanceled   ProjectStatus = "canceled"
	ProjectStatusPendent    ProjectStatus = "pendent"
)

// ProjectStatuses lists every project status in display order.
var ProjectStatuses = []ProjectStatus{
	ProjectStatusInProgress,
	ProjectStatusCompleted,
	ProjectStatusCanceled,
	ProjectStatusPendent,
}

var projectStatusLabels = map[ProjectStatus]string{
	ProjectStatusInProgress: "Em andamento",
	ProjectStatusCompleted:  "Concluído",
	ProjectStatusCanceled:   "Cancelado",
	ProjectStatusPendent:    "Pendente",
}

// Label returns the human-readable label for the status.
func (s ProjectStatus) Label() string {
	return projectStatusLabels[s]
}

// Valid reports whether the status is one of the known values.
func (s ProjectStatus) Valid() bool {
	_, ok := projectStatusLabels[s]
	return ok
}

type Project struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	OwnerID     uint64         `gorm:"not null" json:"owner_id"`
	Description string         `gorm:"type:text" json:"description"`
	StartDate   time.Time      `gorm:"not null" json:"start_date"`
	EndDate     *time.Time     `json:"end_date"`
	Status      ProjectStatus  `gorm:"type:varchar(20);not null;default:'in_progress'" json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Owner        User   `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Participants []User `gorm:"many2many:project_participants" json:"participants,omitempty"`
	Tasks        []Task `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}

// HasParticipant reports whether the user appears in the preloaded
// participant set. The owner is always a participant, but the check covers
// both in case participants were not preloaded with the owner row.
func (p *Project) HasParticipant(userID uint64) bool {
	if p.OwnerID == userID {
		return true
	}
	for _, u := range p.Participants {
		if u.ID == userID {
			return true
		}
	}
	return false
}
