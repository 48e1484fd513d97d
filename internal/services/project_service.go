package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tasktrack/todo-list-api/internal/models"
	"github.com/tasktrack/todo-list-api/internal/policy"
	"github.com/tasktrack/todo-list-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound       = errors.New("project not found")
	ErrProjectNameRequired   = errors.New("project name is required")
	ErrInvalidProjectStatus  = errors.New("invalid project status")
	ErrNotProjectOwner       = errors.New("only the project owner can perform this action")
	ErrProjectAccessDenied   = errors.New("user does not have access to this project")
	ErrParticipantNotFound   = errors.New("user does not exist")
	ErrCannotRemoveOwner     = errors.New("the project owner cannot be removed from the participants")
	ErrNotProjectParticipant = errors.New("user is not a participant of the project")
)

// ProjectService provides business logic for project operations.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name           string
	Description    string
	StartDate      time.Time
	EndDate        *time.Time
	Status         models.ProjectStatus
	OwnerID        uint64
	ParticipantIDs []uint64
}

// CreateProject creates a project. The owner is always added to the
// participant set, so the owner-in-participants invariant holds from the
// first row.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrProjectNameRequired
	}

	if input.Status == "" {
		input.Status = models.ProjectStatusInProgress
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidProjectStatus
	}

	if input.StartDate.IsZero() {
		now := time.Now()
		input.StartDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}

	project := &models.Project{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Status:      input.Status,
		OwnerID:     input.OwnerID,
	}

	if err := s.projectRepo.Create(project, input.ParticipantIDs); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.projectRepo.FindByID(project.ID, "Owner", "Participants")
}

// ListProjects returns the projects visible to the user.
func (s *ProjectService) ListProjects(user *models.User) ([]models.Project, error) {
	projects, err := s.projectRepo.ListVisible(user.ID, user.IsSuperuser)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, nil
}

// GetProject returns a project with its participants and tasks.
func (s *ProjectService) GetProject(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID,
		"Owner", "Participants", "Tasks", "Tasks.Owner", "Tasks.AssignedTo")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	return project, nil
}

// UpdateProjectInput holds editable project fields. Nil pointers leave the
// field untouched.
type UpdateProjectInput struct {
	Name         *string
	Description  *string
	StartDate    *time.Time
	EndDate      *time.Time
	ClearEndDate bool
	Status       *models.ProjectStatus
}

// UpdateProject updates a project. Only the owner may update.
func (s *ProjectService) UpdateProject(projectID uint64, actor *models.User, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if !policy.CanManageProject(actor, project) {
		return nil, ErrNotProjectOwner
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrProjectNameRequired
		}
		project.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.StartDate != nil {
		project.StartDate = *input.StartDate
	}
	if input.ClearEndDate {
		project.EndDate = nil
	} else if input.EndDate != nil {
		project.EndDate = input.EndDate
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidProjectStatus
		}
		project.Status = *input.Status
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.projectRepo.FindByID(project.ID, "Owner", "Participants")
}

// DeleteProject deletes a project and all its tasks. Only the owner may
// delete.
func (s *ProjectService) DeleteProject(projectID uint64, actor *models.User) error {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if !policy.CanManageProject(actor, project) {
		return ErrNotProjectOwner
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

// AddParticipant adds a user to the project's participant set. Only the
// owner may manage participants.
func (s *ProjectService) AddParticipant(projectID uint64, actor *models.User, userID uint64) error {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if !policy.CanManageProject(actor, project) {
		return ErrNotProjectOwner
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrParticipantNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.projectRepo.AddParticipant(projectID, userID); err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}

	return nil
}

// RemoveParticipant removes a user from the participant set and unassigns
// their tasks in the project. The owner cannot be removed.
func (s *ProjectService) RemoveParticipant(projectID uint64, actor *models.User, userID uint64) error {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if !policy.CanManageProject(actor, project) {
		return ErrNotProjectOwner
	}

	if project.OwnerID == userID {
		return ErrCannotRemoveOwner
	}

	isParticipant, err := s.projectRepo.IsParticipant(projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to verify participant: %w", err)
	}
	if !isParticipant {
		return ErrNotProjectParticipant
	}

	if err := s.projectRepo.RemoveParticipant(projectID, userID); err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}

	return nil
}
