package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tasktrack/todo-list-api/internal/dto"
	apierrors "github.com/tasktrack/todo-list-api/internal/errors"
	"github.com/tasktrack/todo-list-api/internal/middleware"
	"github.com/tasktrack/todo-list-api/internal/models"
	"github.com/tasktrack/todo-list-api/internal/services"
)

// TaskHandler serves task endpoints, including the lifecycle commands.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns at most 50 task summaries. The default view is the
// caller's personal one: tasks assigned to them. `owned=true` switches to
// tasks they created; `project_id` and `status` narrow either view.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	input := services.ListTasksInput{}

	if c.Query("owned") == "true" {
		input.OwnerID = &user.ID
	} else {
		input.AssignedTo = &user.ID
	}

	if projectIDStr := c.Query("project_id"); projectIDStr != "" {
		projectID, err := strconv.ParseUint(projectIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project_id")
			return
		}
		input.ProjectID = &projectID
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.TaskStatus(statusStr)
		if !status.Valid() {
			apierrors.BadRequest(c, "Invalid status")
			return
		}
		input.Status = &status
	}

	tasks, total, err := h.taskService.ListTasks(input)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTaskSummaryDTOs(tasks),
		"total": total,
	})
}

// CreateTask creates a task under a project the caller participates in.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		ProjectID    uint64  `json:"project_id" binding:"required"`
		Name         string  `json:"name" binding:"required"`
		Description  string  `json:"description"`
		StartDate    *string `json:"start_date"`
		EndDate      *string `json:"end_date"`
		Priority     string  `json:"priority"`
		AssignedToID *uint64 `json:"assigned_to_id"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.CreateTaskInput{
		ProjectID:    req.ProjectID,
		OwnerID:      user.ID,
		AssignedToID: req.AssignedToID,
		Name:         req.Name,
		Description:  req.Description,
		Priority:     models.TaskPriority(req.Priority),
	}

	if req.StartDate != nil {
		startDate, err := time.Parse(dto.DateFormat, *req.StartDate)
		if err != nil {
			apierrors.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
			return
		}
		input.StartDate = startDate
	}
	if req.EndDate != nil {
		endDate, err := time.Parse(dto.DateFormat, *req.EndDate)
		if err != nil {
			apierrors.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
			return
		}
		input.EndDate = &endDate
	}

	task, err := h.taskService.CreateTask(input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskSummaryDTO(*task))
}

// GetTask returns a task. Access is enforced by RequireTaskAccess, which
// stashes the preloaded task in the context.
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := taskFromContext(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskSummaryDTO(task))
}

// UpdateTask updates task fields. Status is not editable here; it only
// moves through the lifecycle commands.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, ok := taskFromContext(c)
	if !ok {
		return
	}

	// Parse raw JSON to detect which fields were sent
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{}
	if name, ok := stringField(raw, "name"); ok {
		input.Name = name
	}
	if description, ok := stringField(raw, "description"); ok {
		input.Description = description
	}
	if startDate, ok, bad := dateField(raw, "start_date"); bad {
		apierrors.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
		return
	} else if ok {
		input.StartDate = startDate
	}
	if _, present := raw["end_date"]; present {
		if raw["end_date"] == nil {
			input.ClearEndDate = true
		} else if endDate, ok, bad := dateField(raw, "end_date"); bad {
			apierrors.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
			return
		} else if ok {
			input.EndDate = endDate
		}
	}
	if priority, ok := stringField(raw, "priority"); ok {
		taskPriority := models.TaskPriority(*priority)
		input.Priority = &taskPriority
	}
	if _, present := raw["assigned_to_id"]; present {
		if raw["assigned_to_id"] == nil {
			input.ClearAssignee = true
		} else if id, ok := raw["assigned_to_id"].(float64); ok && id >= 0 {
			assigneeID := uint64(id)
			input.AssignedToID = &assigneeID
		}
	}

	updated, err := h.taskService.UpdateTask(task.ID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskSummaryDTO(*updated))
}

// DeleteTask deletes a task. Owner only.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	task, ok := taskFromContext(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(task.ID, user); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// AssignTask sets the task's assignee. The assignee must be a participant
// of the task's project.
func (h *TaskHandler) AssignTask(c *gin.Context) {
	task, ok := taskFromContext(c)
	if !ok {
		return
	}

	type AssignTaskRequest struct {
		UserID uint64 `json:"user_id" binding:"required"`
	}

	var req AssignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.taskService.AssignTask(task.ID, req.UserID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskSummaryDTO(*updated))
}

// UnassignTask clears the task's assignee.
func (h *TaskHandler) UnassignTask(c *gin.Context) {
	task, ok := taskFromContext(c)
	if !ok {
		return
	}

	updated, err := h.taskService.UnassignTask(task.ID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskSummaryDTO(*updated))
}

// CompleteTask marks the task completed. Idempotent: completing a completed
// task acknowledges without rewriting the timestamp.
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	h.runTransition(c, h.taskService.Complete)
}

// ReopenTask moves the task back to in progress and clears completed_at.
func (h *TaskHandler) ReopenTask(c *gin.Context) {
	h.runTransition(c, h.taskService.Reopen)
}

// CancelTask cancels the task and clears completed_at.
func (h *TaskHandler) CancelTask(c *gin.Context) {
	h.runTransition(c, h.taskService.Cancel)
}

func (h *TaskHandler) runTransition(c *gin.Context, transition func(uint64, *models.User) (*models.Task, bool, error)) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	task, changed, err := transition(taskID, user)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"changed": changed,
		"task":    dto.ToTaskSummaryDTO(*task),
	})
}

func taskFromContext(c *gin.Context) (models.Task, bool) {
	taskInterface, exists := c.Get("task")
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return models.Task{}, false
	}

	task, ok := taskInterface.(models.Task)
	if !ok {
		apierrors.InternalError(c, "Invalid task data")
		return models.Task{}, false
	}

	return task, true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotTaskOwner),
		errors.Is(err, services.ErrTaskAccessDenied),
		errors.Is(err, services.ErrNotProjectParticipant):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTaskNameRequired),
		errors.Is(err, services.ErrInvalidTaskPriority),
		errors.Is(err, services.ErrInvalidAssignee):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
