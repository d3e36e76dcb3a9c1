// internal/models/template.go
package models

import (
	"github.com/google/uuid"
)

// ITPTemplate is a reusable inspection checklist definition. Templates are
// maintained by administrators and are never mutated by inspection
// activity; instances copy them at creation time.
type ITPTemplate struct {
	BaseModel
	Name           string     `json:"name" gorm:"size:255;not null"`
	Description    string     `json:"description" gorm:"type:text"`
	Category       string     `json:"category" gorm:"size:100;index"`
	Version        int        `json:"version" gorm:"default:1"`
	IsActive       bool       `json:"is_active" gorm:"default:true;index"`
	OrganizationID *uuid.UUID `json:"organization_id" gorm:"type:uuid;index"`
	CreatedBy      *uuid.UUID `json:"created_by" gorm:"type:uuid"`

	Items []ITPTemplateItem `json:"items,omitempty" gorm:"foreignKey:TemplateID"`
}

type ITPTemplateItem struct {
	BaseModel
	TemplateID         uuid.UUID `json:"template_id" gorm:"type:uuid;not null;index"`
	ItemNumber         string    `json:"item_number" gorm:"size:20"`
	Description        string    `json:"description" gorm:"type:text;not null"`
	AcceptanceCriteria string    `json:"acceptance_criteria" gorm:"type:text"`
	InspectionMethod   string    `json:"inspection_method" gorm:"size:100"`
	IsMandatory        bool      `json:"is_mandatory" gorm:"default:true"`
	SortOrder          int       `json:"sort_order" gorm:"default:0"`
}
