package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tasktrack/todo-list-api/internal/constants"
	"github.com/tasktrack/todo-list-api/internal/models"
	"github.com/tasktrack/todo-list-api/internal/policy"
	"github.com/tasktrack/todo-list-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrNotTaskOwner        = errors.New("only the task owner can perform this action")
	ErrTaskAccessDenied    = errors.New("user does not have access to this task")
	ErrTaskNameRequired    = errors.New("task name is required")
	ErrInvalidTaskPriority = errors.New("invalid task priority")
	ErrInvalidAssignee     = errors.New("assignee must be a participant of the project")
)

// TaskService handles task business logic, including the status lifecycle.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	ProjectID    uint64
	OwnerID      uint64
	AssignedToID *uint64
	Name         string
	Description  string
	StartDate    time.Time
	EndDate      *time.Time
	Priority     models.TaskPriority
}

// CreateTask creates a task under a project. The creator must be a
// participant of the project; the assignee, if given, must be too.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrTaskNameRequired
	}

	if err := s.ensureParticipant(input.ProjectID, input.OwnerID, ErrNotProjectParticipant); err != nil {
		return nil, err
	}

	if input.AssignedToID != nil {
		if err := s.ensureParticipant(input.ProjectID, *input.AssignedToID, ErrInvalidAssignee); err != nil {
			return nil, err
		}
	}

	if input.Priority == "" {
		input.Priority = models.TaskPriorityLow
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidTaskPriority
	}

	if input.StartDate.IsZero() {
		now := time.Now()
		input.StartDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}

	task := &models.Task{
		ProjectID:    input.ProjectID,
		OwnerID:      input.OwnerID,
		AssignedToID: input.AssignedToID,
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		Priority:     input.Priority,
		Status:       models.TaskStatusInProgress,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Project", "Owner", "AssignedTo")
}

// GetTask returns a task with related data
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Project", "Owner", "AssignedTo")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	ProjectID  *uint64
	OwnerID    *uint64
	AssignedTo *uint64
	Status     *models.TaskStatus
	Limit      int
}

// ListTasks returns tasks matching the filters, bounded by the list limit.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	limit := input.Limit
	if limit <= 0 || limit > constants.TaskListLimit {
		limit = constants.TaskListLimit
	}

	filter := repository.TaskFilter{
		ProjectID:    input.ProjectID,
		OwnerID:      input.OwnerID,
		AssignedToID: input.AssignedTo,
		Status:       input.Status,
		Limit:        limit,
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// UpdateTaskInput holds editable task fields. Status is deliberately absent:
// status only moves through Complete/Reopen/Cancel.
type UpdateTaskInput struct {
	Name          *string
	Description   *string
	StartDate     *time.Time
	EndDate       *time.Time
	ClearEndDate  bool
	Priority      *models.TaskPriority
	AssignedToID  *uint64
	ClearAssignee bool
}

// UpdateTask updates an existing task's fields
func (s *TaskService) UpdateTask(taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrTaskNameRequired
		}
		task.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.StartDate != nil {
		task.StartDate = *input.StartDate
	}
	if input.ClearEndDate {
		task.EndDate = nil
	} else if input.EndDate != nil {
		task.EndDate = input.EndDate
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidTaskPriority
		}
		task.Priority = *input.Priority
	}
	if input.ClearAssignee {
		task.AssignedToID = nil
	} else if input.AssignedToID != nil {
		if err := s.ensureParticipant(task.ProjectID, *input.AssignedToID, ErrInvalidAssignee); err != nil {
			return nil, err
		}
		task.AssignedToID = input.AssignedToID
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Project", "Owner", "AssignedTo")
}

// DeleteTask deletes a task if the actor is the owner
func (s *TaskService) DeleteTask(taskID uint64, actor *models.User) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if !policy.CanTransitionTask(actor, task) {
		return ErrNotTaskOwner
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// AssignTask assigns a participant of the task's project to the task.
// Participant membership is checked at assignment time.
func (s *TaskService) AssignTask(taskID uint64, userID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.ensureParticipant(task.ProjectID, userID, ErrInvalidAssignee); err != nil {
		return nil, err
	}

	task.AssignedToID = &userID
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to assign task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Project", "Owner", "AssignedTo")
}

// UnassignTask clears the task's assignee
func (s *TaskService) UnassignTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	task.AssignedToID = nil
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to unassign task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Project", "Owner", "AssignedTo")
}

// Complete moves a task to completed and stamps completed_at. Completing an
// already-completed task is a no-op that performs no write and keeps the
// original timestamp.
func (s *TaskService) Complete(taskID uint64, actor *models.User) (*models.Task, bool, error) {
	return s.transition(taskID, actor, models.TaskStatusCompleted)
}

// Reopen moves a task back to in_progress and clears completed_at.
func (s *TaskService) Reopen(taskID uint64, actor *models.User) (*models.Task, bool, error) {
	return s.transition(taskID, actor, models.TaskStatusInProgress)
}

// Cancel moves a task to canceled and clears completed_at.
func (s *TaskService) Cancel(taskID uint64, actor *models.User) (*models.Task, bool, error) {
	return s.transition(taskID, actor, models.TaskStatusCanceled)
}

// transition applies a lifecycle command. All three states are reachable
// from any other; the only asymmetry is the completed_at side effect. The
// returned bool reports whether a write happened.
func (s *TaskService) transition(taskID uint64, actor *models.User, target models.TaskStatus) (*models.Task, bool, error) {
	task, err := s.taskRepo.FindByID(taskID, "Project", "Owner", "AssignedTo")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrTaskNotFound
		}
		return nil, false, fmt.Errorf("failed to find task: %w", err)
	}

	if !policy.CanTransitionTask(actor, task) {
		return nil, false, ErrNotTaskOwner
	}

	if task.Status == target {
		return task, false, nil
	}

	var completedAt *time.Time
	if target == models.TaskStatusCompleted {
		now := time.Now()
		completedAt = &now
	}

	if err := s.taskRepo.SetStatus(task.ID, target, completedAt); err != nil {
		return nil, false, fmt.Errorf("failed to apply transition: %w", err)
	}

	task.Status = target
	task.CompletedAt = completedAt

	return task, true, nil
}

// ensureParticipant verifies that a user belongs to a project's participant
// set, returning denied when the relation is missing.
func (s *TaskService) ensureParticipant(projectID, userID uint64, denied error) error {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if project.OwnerID == userID {
		return nil
	}

	isParticipant, err := s.projectRepo.IsParticipant(projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to verify project participant: %w", err)
	}
	if !isParticipant {
		return denied
	}

	return nil
}
