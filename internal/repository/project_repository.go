package repository

import (
	"github.com/tasktrack/todo-list-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a project and its participant set in one transaction. The
// owner is always part of the participants.
func (r *GormProjectRepository) Create(project *models.Project, participantIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		ids := append([]uint64{project.OwnerID}, participantIDs...)
		participants := make([]models.User, 0, len(ids))
		seen := make(map[uint64]struct{}, len(ids))
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			participants = append(participants, models.User{ID: id})
		}

		return tx.Model(project).Association("Participants").Append(participants)
	})
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// ListVisible lists projects the user owns or participates in
func (r *GormProjectRepository) ListVisible(userID uint64, superuser bool) ([]models.Project, error) {
	var projects []models.Project

	query := r.db.Model(&models.Project{}).
		Preload("Owner").
		Order("projects.id ASC")

	if !superuser {
		participantSubQuery := r.db.Table("project_participants").
			Select("1").
			Where("project_participants.project_id = projects.id").
			Where("project_participants.user_id = ?", userID)
		query = query.Where("projects.owner_id = ? OR EXISTS (?)", userID, participantSubQuery)
	}

	if err := query.Find(&projects).Error; err != nil {
		return nil, err
	}

	return projects, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete deletes a project, its tasks and its participant rows in a
// transaction
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Exec("DELETE FROM project_participants WHERE project_id = ?", id).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}

// AddParticipant adds a user to the project's participant set
func (r *GormProjectRepository) AddParticipant(projectID, userID uint64) error {
	project := models.Project{ID: projectID}
	return r.db.Model(&project).Association("Participants").Append(&models.User{ID: userID})
}

// RemoveParticipant removes a participant and unassigns their tasks in the
// project within one transaction
func (r *GormProjectRepository) RemoveParticipant(projectID, userID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"DELETE FROM project_participants WHERE project_id = ? AND user_id = ?",
			projectID, userID,
		).Error; err != nil {
			return err
		}

		return tx.Model(&models.Task{}).
			Where("project_id = ? AND assigned_to_id = ?", projectID, userID).
			Update("assigned_to_id", nil).Error
	})
}

// IsParticipant reports whether the user belongs to the project's participant
// set
func (r *GormProjectRepository) IsParticipant(projectID, userID uint64) (bool, error) {
	var count int64
	err := r.db.Table("project_participants").
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
