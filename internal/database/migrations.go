package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Task indexes for scoped metrics queries and list filtering
		{"tasks", "idx_tasks_project_id", "project_id"},
		{"tasks", "idx_tasks_owner_id", "owner_id"},
		{"tasks", "idx_tasks_assigned_to_id", "assigned_to_id"},
		{"tasks", "idx_tasks_status", "status"},
		{"tasks", "idx_tasks_end_date", "end_date"},
		{"tasks", "idx_tasks_completed_at", "completed_at"},

		// Project indexes
		{"projects", "idx_projects_owner_id", "owner_id"},
		{"projects", "idx_projects_status", "status"},

		// Participant join table
		{"project_participants", "idx_project_participants_project_id", "project_id"},
		{"project_participants", "idx_project_participants_user_id", "user_id"},
	}

	for _, idx := range indexes {
		exists, err := indexExists(db, idx.table, idx.name)
		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}
		if exists {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}

func indexExists(db *gorm.DB, table, name string) (bool, error) {
	var count int64
	var err error

	switch db.Dialector.Name() {
	case "mysql":
		err = db.Raw(`
			SELECT COUNT(*)
			FROM information_schema.statistics
			WHERE table_name = ? AND index_name = ?
		`, table, name).Count(&count).Error
	case "postgres":
		err = db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, table, name).Count(&count).Error
	default:
		// sqlite, only reached from tests
		err = db.Raw(`
			SELECT COUNT(*)
			FROM sqlite_master
			WHERE type = 'index' AND tbl_name = ? AND name = ?
		`, table, name).Count(&count).Error
	}

	if err != nil {
		return false, err
	}
	return count > 0, nil
}
