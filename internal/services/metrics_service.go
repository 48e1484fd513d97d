package services

import (
	"fmt"
	"math"
	"time"

	"github.com/tasktrack/todo-list-api/internal/constants"
	"github.com/tasktrack/todo-list-api/internal/dto"
	"github.com/tasktrack/todo-list-api/internal/models"
	"github.com/tasktrack/todo-list-api/internal/repository"
)

// MetricsService computes dashboard aggregates over the caller's scoped task
// set. Everything is recomputed from one repository read per call; there is
// no cached state.
type MetricsService struct {
	taskRepo repository.TaskRepository
}

// NewMetricsService creates a new MetricsService
func NewMetricsService(taskRepo repository.TaskRepository) *MetricsService {
	return &MetricsService{
		taskRepo: taskRepo,
	}
}

// Dashboard returns the metrics for the user's scoped task set: all tasks
// for superusers, owned-or-assigned tasks otherwise.
func (s *MetricsService) Dashboard(user *models.User) (*dto.DashboardResponse, error) {
	tasks, err := s.taskRepo.ListScoped(user.ID, user.IsSuperuser)
	if err != nil {
		return nil, fmt.Errorf("failed to load scoped tasks: %w", err)
	}

	resp := BuildDashboard(tasks, time.Now())
	return &resp, nil
}

// BuildDashboard folds a task collection into the dashboard structure in a
// single pass. The status/priority breakdowns and the daily series are
// dense: every enum value and every one of the last 30 days appears, with
// zero counts where nothing matched.
func BuildDashboard(tasks []models.Task, now time.Time) dto.DashboardResponse {
	today := dateOf(now)
	riskEnd := today.AddDate(0, 0, constants.RiskWindowDays)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	seriesStart := today.AddDate(0, 0, -(constants.CompletedSeriesDays - 1))

	statusCounts := make(map[models.TaskStatus]int, len(models.TaskStatuses))
	priorityCounts := make(map[models.TaskPriority]int, len(models.TaskPriorities))
	completedByDay := make(map[string]int)

	completedThisMonth := 0
	overdue := 0
	riskCount := 0
	riskSample := make([]dto.RiskTaskDTO, 0, constants.RiskSampleLimit)

	var completionDaysSum float64
	completionSamples := 0

	for _, task := range tasks {
		statusCounts[task.Status]++
		priorityCounts[task.Priority]++

		if task.Status == models.TaskStatusCompleted && task.CompletedAt != nil {
			completedAt := *task.CompletedAt

			if !completedAt.Before(monthStart) && completedAt.Before(now) {
				completedThisMonth++
			}

			day := dateOf(completedAt)
			if !day.Before(seriesStart) && !day.After(today) {
				completedByDay[day.Format(dto.DateFormat)]++
			}

			if !task.StartDate.IsZero() {
				delta := day.Sub(dateOf(task.StartDate)).Hours() / 24
				completionDaysSum += delta
				completionSamples++
			}
		}

		if task.EndDate != nil && task.Status != models.TaskStatusCompleted {
			end := dateOf(*task.EndDate)
			switch {
			case end.Before(today):
				overdue++
			case !end.After(riskEnd):
				// end_date in [today, today+RiskWindowDays], both ends
				// inclusive
				riskCount++
				if len(riskSample) < constants.RiskSampleLimit {
					riskSample = append(riskSample, dto.ToRiskTaskDTO(task))
				}
			}
		}
	}

	statuses := make([]dto.StatusCountDTO, len(models.TaskStatuses))
	for i, status := range models.TaskStatuses {
		statuses[i] = dto.StatusCountDTO{
			Status: string(status),
			Label:  status.Label(),
			Count:  statusCounts[status],
		}
	}

	priorities := make([]dto.PriorityCountDTO, len(models.TaskPriorities))
	for i, priority := range models.TaskPriorities {
		priorities[i] = dto.PriorityCountDTO{
			Priority: string(priority),
			Label:    priority.Label(),
			Count:    priorityCounts[priority],
		}
	}

	series := make([]dto.DateCountDTO, constants.CompletedSeriesDays)
	for i := range series {
		day := seriesStart.AddDate(0, 0, i).Format(dto.DateFormat)
		series[i] = dto.DateCountDTO{
			Date:  day,
			Count: completedByDay[day],
		}
	}

	var avgCompletion *float64
	if completionSamples > 0 {
		avg := math.Round(completionDaysSum/float64(completionSamples)*100) / 100
		avgCompletion = &avg
	}

	return dto.DashboardResponse{
		TotalTasks:            len(tasks),
		CompletedThisMonth:    completedThisMonth,
		OverdueTasks:          overdue,
		TasksInRiskCount:      riskCount,
		TasksInRisk:           riskSample,
		StatusCounts:          statuses,
		PriorityCounts:        priorities,
		AvgCompletionTimeDays: avgCompletion,
		CompletedTasksByDate:  series,
		RiskDays:              constants.RiskWindowDays,
	}
}

// dateOf truncates a timestamp to its calendar date in its own location.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
