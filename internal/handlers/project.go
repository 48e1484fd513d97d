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

// ProjectHandler serves project endpoints.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// CreateProject creates a project owned by the caller.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateProjectRequest struct {
		Name           string   `json:"name" binding:"required"`
		Description    string   `json:"description"`
		StartDate      *string  `json:"start_date"`
		EndDate        *string  `json:"end_date"`
		Status         string   `json:"status"`
		ParticipantIDs []uint64 `json:"participant_ids"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.CreateProjectInput{
		Name:           req.Name,
		Description:    req.Description,
		Status:         models.ProjectStatus(req.Status),
		OwnerID:        user.ID,
		ParticipantIDs: req.ParticipantIDs,
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

	project, err := h.projectService.CreateProject(input)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// ListProjects returns the projects visible to the caller.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projects, err := h.projectService.ListProjects(user)
	if err != nil {
		apierrors.InternalError(c, "Failed to list projects")
		return
	}

	items := make([]dto.ProjectDTO, len(projects))
	for i, p := range projects {
		items[i] = dto.ToProjectDTO(p)
	}

	c.JSON(http.StatusOK, gin.H{"projects": items})
}

// GetProject returns a project with participants and tasks. Access is
// enforced by RequireProjectAccess.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	project, err := h.projectService.GetProject(projectID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// UpdateProject updates a project. Owner only.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	// Parse raw JSON to detect which fields were sent
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateProjectInput{}
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
	if status, ok := stringField(raw, "status"); ok {
		projectStatus := models.ProjectStatus(*status)
		input.Status = &projectStatus
	}

	project, err := h.projectService.UpdateProject(projectID, user, input)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject deletes a project and all its tasks. Owner only.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	if err := h.projectService.DeleteProject(projectID, user); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted successfully",
	})
}

// AddParticipant adds a user to the project. Owner only.
func (h *ProjectHandler) AddParticipant(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	type AddParticipantRequest struct {
		UserID uint64 `json:"user_id" binding:"required"`
	}

	var req AddParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.projectService.AddParticipant(projectID, user, req.UserID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Participant added successfully",
	})
}

// RemoveParticipant removes a user from the project and unassigns their
// tasks. Owner only; the owner cannot be removed.
func (h *ProjectHandler) RemoveParticipant(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.projectService.RemoveParticipant(projectID, user, userID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Participant removed successfully",
	})
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotProjectOwner),
		errors.Is(err, services.ErrProjectAccessDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrProjectNameRequired),
		errors.Is(err, services.ErrInvalidProjectStatus),
		errors.Is(err, services.ErrParticipantNotFound),
		errors.Is(err, services.ErrCannotRemoveOwner),
		errors.Is(err, services.ErrNotProjectParticipant):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}

// stringField extracts an optional string field from a partial-update body.
func stringField(raw map[string]any, key string) (*string, bool) {
	value, present := raw[key]
	if !present {
		return nil, false
	}
	s, ok := value.(string)
	if !ok {
		return nil, false
	}
	return &s, true
}

// dateField extracts an optional YYYY-MM-DD field. The last return flags a
// present but unparsable value.
func dateField(raw map[string]any, key string) (*time.Time, bool, bool) {
	s, ok := stringField(raw, key)
	if !ok {
		return nil, false, false
	}
	parsed, err := time.Parse(dto.DateFormat, *s)
	if err != nil {
		return nil, false, true
	}
	return &parsed, true, false
}
