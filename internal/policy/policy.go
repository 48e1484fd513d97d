// Package policy centralizes every access decision in the API. Handlers and
// middleware never re-derive relations themselves; they ask one of these
// predicates with the caller and the (preloaded) resource.
package policy

import (
	"github.com/tasktrack/todo-list-api/internal/models"
)

// CanViewProject reports whether the user may see a project: its owner or any
// participant. Superusers see everything.
func CanViewProject(user *models.User, project *models.Project) bool {
	if user.IsSuperuser {
		return true
	}
	return project.HasParticipant(user.ID)
}

// CanManageProject reports whether the user may update or delete a project,
// or change its participant set. Only the owner (or a superuser) may.
func CanManageProject(user *models.User, project *models.Project) bool {
	if user.IsSuperuser {
		return true
	}
	return project.OwnerID == user.ID
}

// CanAccessTask reports whether the user may view or edit a task: the task
// owner, the assignee, or the owner of the parent project. The task's Project
// must be preloaded.
func CanAccessTask(user *models.User, task *models.Task) bool {
	if user.IsSuperuser {
		return true
	}
	if task.OwnerID == user.ID {
		return true
	}
	if task.AssignedToID != nil && *task.AssignedToID == user.ID {
		return true
	}
	return task.Project.OwnerID == user.ID
}

// CanTransitionTask reports whether the user may complete, reopen or cancel a
// task. Stricter than CanAccessTask: only the task owner may transition.
func CanTransitionTask(user *models.User, task *models.Task) bool {
	if user.IsSuperuser {
		return true
	}
	return task.OwnerID == user.ID
}

// CanListUsers reports whether the user may list all accounts.
func CanListUsers(user *models.User) bool {
	return user.IsStaff || user.IsSuperuser
}

// CanEditUser reports whether the user may edit another user's profile.
func CanEditUser(user *models.User, targetID uint64) bool {
	return user.ID == targetID || user.IsStaff || user.IsSuperuser
}
