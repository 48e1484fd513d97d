package repository

import (
	"time"

	"github.com/tasktrack/todo-list-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks matching the filter in insertion order, bounded by
// filter.Limit
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})

	if filter.ProjectID != nil {
		query = query.Where("tasks.project_id = ?", *filter.ProjectID)
	}
	if filter.OwnerID != nil {
		query = query.Where("tasks.owner_id = ?", *filter.OwnerID)
	}
	if filter.AssignedToID != nil {
		query = query.Where("tasks.assigned_to_id = ?", *filter.AssignedToID)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.EndDateFrom != nil {
		query = query.Where("tasks.end_date >= ?", *filter.EndDateFrom)
	}
	if filter.EndDateTo != nil {
		query = query.Where("tasks.end_date < ?", *filter.EndDateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("tasks.id ASC")
	if filter.Limit > 0 {
		listQuery = listQuery.Limit(filter.Limit)
	}

	if err := listQuery.
		Preload("Project").
		Preload("Owner").
		Preload("AssignedTo").
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// ListScoped returns the caller's scoped task set in one consistent read.
// The dashboard derives every aggregate from this single result so counts,
// samples and series cannot disagree.
func (r *GormTaskRepository) ListScoped(userID uint64, superuser bool) ([]models.Task, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).
		Preload("Project").
		Preload("Owner").
		Preload("AssignedTo").
		Order("tasks.id ASC")

	if !superuser {
		query = query.Where("tasks.owner_id = ? OR tasks.assigned_to_id = ?", userID, userID)
	}

	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// SetStatus persists a status transition. Status and completed_at always
// change together so a crash cannot leave a completed task without its
// timestamp or vice versa.
func (r *GormTaskRepository) SetStatus(id uint64, status models.TaskStatus, completedAt *time.Time) error {
	return r.db.Model(&models.Task{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"completed_at": completedAt,
		}).Error
}

// Delete soft deletes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}
