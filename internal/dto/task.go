package dto

import (
	"time"

	"github.com/tasktrack/todo-list-api/internal/models"
)

// DateFormat is the wire format for date-only fields.
const DateFormat = "2006-01-02"

// UserRefDTO is a denormalized user reference for display.
type UserRefDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ProjectRefDTO is a denormalized project reference for display.
type ProjectRefDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// UserDTO represents a user in API responses.
type UserDTO struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	IsStaff     bool    `json:"is_staff"`
	IsSuperuser bool    `json:"is_superuser"`
	BirthDate   *string `json:"birth_date"`
	Country     string  `json:"country"`
	Gender      string  `json:"gender"`
}

// ProjectDTO represents a project in API responses.
type ProjectDTO struct {
	ID            uint64           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Owner         UserRefDTO       `json:"owner"`
	Participants  []UserRefDTO     `json:"participants,omitempty"`
	StartDate     string           `json:"start_date"`
	EndDate       *string          `json:"end_date"`
	Status        string           `json:"status"`
	StatusDisplay string           `json:"status_display"`
	Tasks         []TaskSummaryDTO `json:"tasks,omitempty"`
}

// TaskSummaryDTO represents a task in list responses with denormalized
// project/owner/assignee names and date-only strings.
type TaskSummaryDTO struct {
	ID              uint64        `json:"id"`
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	Project         ProjectRefDTO `json:"project"`
	Owner           UserRefDTO    `json:"owner"`
	AssignedTo      *UserRefDTO   `json:"assigned_to"`
	StartDate       string        `json:"start_date"`
	EndDate         *string       `json:"end_date"`
	Priority        string        `json:"priority"`
	PriorityDisplay string        `json:"priority_display"`
	Status          string        `json:"status"`
	StatusDisplay   string        `json:"status_display"`
	CompletedAt     *time.Time    `json:"completed_at"`
}

// FormatDate renders a date-only wire string, nil in nil out.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateFormat)
	return &s
}

// ToUserRefDTO converts a User model to a reference DTO.
func ToUserRefDTO(user models.User) UserRefDTO {
	return UserRefDTO{
		ID:   user.ID,
		Name: user.Name,
	}
}

// ToUserDTO converts a User model to UserDTO.
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
		BirthDate:   FormatDate(user.BirthDate),
		Country:     user.Country,
		Gender:      string(user.Gender),
	}
}

// ToProjectDTO converts a Project model to ProjectDTO. Participants and
// tasks are included when preloaded.
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:            project.ID,
		Name:          project.Name,
		Description:   project.Description,
		StartDate:     project.StartDate.Format(DateFormat),
		EndDate:       FormatDate(project.EndDate),
		Status:        string(project.Status),
		StatusDisplay: project.Status.Label(),
	}

	if project.Owner.ID != 0 {
		dto.Owner = ToUserRefDTO(project.Owner)
	} else {
		dto.Owner = UserRefDTO{ID: project.OwnerID}
	}

	if len(project.Participants) > 0 {
		dto.Participants = make([]UserRefDTO, len(project.Participants))
		for i, p := range project.Participants {
			dto.Participants[i] = ToUserRefDTO(p)
		}
	}

	if len(project.Tasks) > 0 {
		dto.Tasks = make([]TaskSummaryDTO, len(project.Tasks))
		for i, t := range project.Tasks {
			dto.Tasks[i] = ToTaskSummaryDTO(t)
		}
	}

	return dto
}

// ToTaskSummaryDTO converts a Task model to TaskSummaryDTO.
func ToTaskSummaryDTO(task models.Task) TaskSummaryDTO {
	dto := TaskSummaryDTO{
		ID:              task.ID,
		Name:            task.Name,
		Description:     task.Description,
		Project:         ProjectRefDTO{ID: task.ProjectID, Name: task.Project.Name},
		Owner:           UserRefDTO{ID: task.OwnerID, Name: task.Owner.Name},
		StartDate:       task.StartDate.Format(DateFormat),
		EndDate:         FormatDate(task.EndDate),
		Priority:        string(task.Priority),
		PriorityDisplay: task.Priority.Label(),
		Status:          string(task.Status),
		StatusDisplay:   task.Status.Label(),
		CompletedAt:     task.CompletedAt,
	}

	if task.AssignedTo != nil {
		ref := ToUserRefDTO(*task.AssignedTo)
		dto.AssignedTo = &ref
	}

	return dto
}

// ToTaskSummaryDTOs converts a slice of tasks.
func ToTaskSummaryDTOs(tasks []models.Task) []TaskSummaryDTO {
	items := make([]TaskSummaryDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskSummaryDTO(task)
	}
	return items
}
