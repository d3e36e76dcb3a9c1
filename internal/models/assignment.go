// internal/models/assignment.go
package models

import (
	"github.com/google/uuid"
)

// LotAssignment links an ITP template to a lot. A lot may carry any number
// of assignments, but at most one row exists per (lot, template) pair;
// removal deactivates the row and re-assignment reactivates it.
type LotAssignment struct {
	BaseModel
	LotID      uuid.UUID        `json:"lot_id" gorm:"type:uuid;not null;uniqueIndex:idx_lot_template"`
	TemplateID uuid.UUID        `json:"template_id" gorm:"type:uuid;not null;uniqueIndex:idx_lot_template"`
	InstanceID *uuid.UUID       `json:"instance_id" gorm:"type:uuid;index"`
	Status     AssignmentStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	AssignedBy *uuid.UUID       `json:"assigned_by" gorm:"type:uuid"`

	Template *ITPTemplate `json:"template,omitempty" gorm:"foreignKey:TemplateID"`
}
