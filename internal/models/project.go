// internal/models/project.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	BaseModel
	Name          string        `json:"name" gorm:"size:255;not null"`
	ProjectNumber string        `json:"project_number" gorm:"size:50;uniqueIndex"`
	Description   string        `json:"description" gorm:"type:text"`
	Client        string        `json:"client" gorm:"size:255"`
	Location      string        `json:"location" gorm:"size:255"`
	Status        ProjectStatus `json:"status" gorm:"type:varchar(20);default:'active';index"`
	StartDate     *time.Time    `json:"start_date"`
	EndDate       *time.Time    `json:"end_date"`
	CreatedBy     *uuid.UUID    `json:"created_by" gorm:"type:uuid"`

	Lots []Lot `json:"lots,omitempty" gorm:"foreignKey:ProjectID"`
}

// Lot is the unit of construction work being quality-checked. ITP
// templates are assigned to lots and inspected via per-lot instances.
type Lot struct {
	BaseModel
	ProjectID   uuid.UUID  `json:"project_id" gorm:"type:uuid;not null;index"`
	LotNumber   string     `json:"lot_number" gorm:"size:50;not null"`
	Description string     `json:"description" gorm:"type:text"`
	Location    string     `json:"location" gorm:"size:255"`
	Status      LotStatus  `json:"status" gorm:"type:varchar(20);default:'open';index"`
	StartDate   *time.Time `json:"start_date"`
	CreatedBy   *uuid.UUID `json:"created_by" gorm:"type:uuid"`

	Project     *Project        `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	Assignments []LotAssignment `json:"assignments,omitempty" gorm:"foreignKey:LotID"`
}
