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
	"github.com/tasktrack/todo-list-api/internal/utils"
)

// UserHandler serves user account endpoints.
type UserHandler struct {
	authService *services.AuthService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService) *UserHandler {
	return &UserHandler{
		authService: authService,
	}
}

// ListUsers returns every account. Staff only.
func (h *UserHandler) ListUsers(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	users, total, err := h.authService.ListUsers(user, params)
	if err != nil {
		if errors.Is(err, services.ErrUserListForbidden) {
			apierrors.Forbidden(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to list users")
		return
	}

	items := make([]dto.UserDTO, len(users))
	for i, u := range users {
		items[i] = dto.ToUserDTO(u)
	}

	c.JSON(http.StatusOK, gin.H{
		"users": items,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetUser returns a single account.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.authService.GetUser(id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to load user")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateUser edits a profile. Users may edit themselves; staff may edit
// anyone.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	actor, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	type UpdateUserRequest struct {
		Name      *string `json:"name"`
		BirthDate *string `json:"birth_date"`
		Country   *string `json:"country"`
		Gender    *string `json:"gender"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateProfileInput{
		Name:    req.Name,
		Country: req.Country,
	}
	if req.BirthDate != nil {
		birthDate, err := time.Parse(dto.DateFormat, *req.BirthDate)
		if err != nil {
			apierrors.BadRequest(c, "Invalid birth_date, expected YYYY-MM-DD")
			return
		}
		input.BirthDate = &birthDate
	}
	if req.Gender != nil {
		gender := models.Gender(*req.Gender)
		input.Gender = &gender
	}

	user, err := h.authService.UpdateProfile(actor, id, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProfileForbidden):
			apierrors.Forbidden(c, err.Error())
		case errors.Is(err, services.ErrUserNotFound):
			apierrors.NotFound(c, err.Error())
		case errors.Is(err, services.ErrNameRequired):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "Failed to update user")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
