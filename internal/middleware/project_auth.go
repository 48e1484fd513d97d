package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tasktrack/todo-list-api/internal/database"
	apierrors "github.com/tasktrack/todo-list-api/internal/errors"
	"github.com/tasktrack/todo-list-api/internal/models"
	"github.com/tasktrack/todo-list-api/internal/policy"
)

// RequireProjectAccess loads the project and checks that the caller is the
// owner or a participant. 404 for unknown ids, 403 for missing relations.
func RequireProjectAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectIDStr := c.Param("id")
		projectID, err := strconv.ParseUint(projectIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project ID")
			c.Abort()
			return
		}

		user, exists := CurrentUser(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var project models.Project
		if err := database.GetDB().
			Preload("Owner").
			Preload("Participants").
			First(&project, projectID).Error; err != nil {
			apierrors.NotFound(c, "Project not found")
			c.Abort()
			return
		}

		if !policy.CanViewProject(user, &project) {
			apierrors.Forbidden(c, "You do not have access to this project")
			c.Abort()
			return
		}

		c.Set("project", project)
		c.Next()
	}
}
