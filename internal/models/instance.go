// internal/models/instance.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// ITP is a concrete, per-lot/per-project instance of an ITPTemplate.
// TemplateID is a historical back-reference kept for provenance; it is not
// required to resolve after the template is deleted, and template edits
// never propagate into existing instances.
type ITP struct {
	BaseModel
	TemplateID  *uuid.UUID     `json:"template_id" gorm:"type:uuid;index"`
	ProjectID   *uuid.UUID     `json:"project_id" gorm:"type:uuid;index"`
	LotID       *uuid.UUID     `json:"lot_id" gorm:"type:uuid;index"`
	Name        string         `json:"name" gorm:"size:255;not null"`
	Description string         `json:"description" gorm:"type:text"`
	Category    string         `json:"category" gorm:"size:100"`
	Status      InstanceStatus `json:"status" gorm:"type:varchar(20);default:'draft';index"`
	Complexity  string         `json:"complexity" gorm:"size:20;default:'moderate'"`
	CreatedBy   *uuid.UUID     `json:"created_by" gorm:"type:uuid"`

	Items []ITPItem `json:"items,omitempty" gorm:"foreignKey:ITPID"`
}

type ITPItem struct {
	BaseModel
	ITPID              uuid.UUID  `json:"itp_id" gorm:"type:uuid;not null;index"`
	TemplateItemID     *uuid.UUID `json:"template_item_id" gorm:"type:uuid"`
	ItemNumber         string     `json:"item_number" gorm:"size:20"`
	Description        string     `json:"description" gorm:"type:text;not null"`
	AcceptanceCriteria string     `json:"acceptance_criteria" gorm:"type:text"`
	InspectionMethod   string     `json:"inspection_method" gorm:"size:100"`
	IsMandatory        bool       `json:"is_mandatory" gorm:"default:true"`
	SortOrder          int        `json:"sort_order" gorm:"default:0"`
	Status             ItemStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	InspectedBy        *uuid.UUID `json:"inspected_by" gorm:"type:uuid"`
	InspectedDate      *time.Time `json:"inspected_date"`
	InspectionNotes    string     `json:"inspection_notes" gorm:"type:text"`
}
