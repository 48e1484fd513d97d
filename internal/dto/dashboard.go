package dto

import (
	"github.com/tasktrack/todo-list-api/internal/models"
)

// StatusCountDTO is one bucket of the status breakdown. Every status value
// is always present, including zero counts.
type StatusCountDTO struct {
	Status string `json:"status"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
}

// PriorityCountDTO is one bucket of the priority breakdown.
type PriorityCountDTO struct {
	Priority string `json:"priority"`
	Label    string `json:"label"`
	Count    int    `json:"count"`
}

// DateCountDTO is one day of the completed-tasks series.
type DateCountDTO struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// RiskTaskDTO is a denormalized at-risk task for display.
type RiskTaskDTO struct {
	ID            uint64        `json:"id"`
	Name          string        `json:"name"`
	Project       ProjectRefDTO `json:"project"`
	Owner         UserRefDTO    `json:"owner"`
	AssignedTo    *UserRefDTO   `json:"assigned_to"`
	EndDate       *string       `json:"end_date"`
	Status        string        `json:"status"`
	StatusDisplay string        `json:"status_display"`
}

// DashboardResponse is the wire contract of the metrics endpoint.
type DashboardResponse struct {
	TotalTasks            int                `json:"total_tasks"`
	CompletedThisMonth    int                `json:"completed_this_month"`
	OverdueTasks          int                `json:"overdue_tasks"`
	TasksInRiskCount      int                `json:"tasks_in_risk_count"`
	TasksInRisk           []RiskTaskDTO      `json:"tasks_in_risk"`
	StatusCounts          []StatusCountDTO   `json:"status_counts"`
	PriorityCounts        []PriorityCountDTO `json:"priority_counts"`
	AvgCompletionTimeDays *float64           `json:"avg_completion_time_days"`
	CompletedTasksByDate  []DateCountDTO     `json:"completed_tasks_by_date"`
	RiskDays              int                `json:"risk_days"`
}

// ToRiskTaskDTO converts a task to its at-risk display form.
func ToRiskTaskDTO(task models.Task) RiskTaskDTO {
	dto := RiskTaskDTO{
		ID:            task.ID,
		Name:          task.Name,
		Project:       ProjectRefDTO{ID: task.ProjectID, Name: task.Project.Name},
		Owner:         UserRefDTO{ID: task.OwnerID, Name: task.Owner.Name},
		EndDate:       FormatDate(task.EndDate),
		Status:        string(task.Status),
		StatusDisplay: task.Status.Label(),
	}

	if task.AssignedTo != nil {
		ref := ToUserRefDTO(*task.AssignedTo)
		dto.AssignedTo = &ref
	}

	return dto
}
