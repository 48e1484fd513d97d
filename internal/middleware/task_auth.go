package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tasktrack/todo-list-api/internal/database"
	apierrors "github.com/tasktrack/todo-list-api/internal/errors"
	"github.com/tasktrack/todo-list-api/internal/models"
	"github.com/tasktrack/todo-list-api/internal/policy"
)

// RequireTaskAccess loads the task and checks the visibility relation: task
// owner, assignee or project owner. Unknown ids yield 404; an existing task
// the caller has no relation to yields 403 — the two are never conflated.
func RequireTaskAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		taskIDStr := c.Param("id")
		taskID, err := strconv.ParseUint(taskIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			c.Abort()
			return
		}

		user, exists := CurrentUser(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var task models.Task
		if err := database.GetDB().
			Preload("Project").
			Preload("Owner").
			Preload("AssignedTo").
			First(&task, taskID).Error; err != nil {
			apierrors.NotFound(c, "Task not found")
			c.Abort()
			return
		}

		if !policy.CanAccessTask(user, &task) {
			apierrors.Forbidden(c, "You do not have access to this task")
			c.Abort()
			return
		}

		c.Set("task", task)
		c.Next()
	}
}
