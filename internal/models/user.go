package models

import (
	"time"

	"gorm.io/gorm"
)

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

var genderLabels = map[Gender]string{
	GenderMale:   "Masculino",
	GenderFemale: "Feminino",
	GenderOther:  "Outro",
}

// Label returns the human-readable label for the gender.
func (g Gender) Label() string {
	return genderLabels[g]
}

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	IsStaff      bool           `gorm:"not null;default:false" json:"is_staff"`
	IsSuperuser  bool           `gorm:"not null;default:false" json:"is_superuser"`
	BirthDate    *time.Time     `json:"birth_date"`
	Country      string         `gorm:"type:varchar(100)" json:"country"`
	Gender       Gender         `gorm:"type:varchar(1)" json:"gender"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	OwnedProjects []Project `gorm:"foreignKey:OwnerID" json:"-"`
	OwnedTasks    []Task    `gorm:"foreignKey:OwnerID" json:"-"`
}
