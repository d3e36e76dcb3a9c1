// internal/models/conformance.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// ConformanceRecord is the recorded inspection result for one instance
// item on one lot. Exactly one record exists per (lot, item) pair; repeat
// submissions update the existing record.
type ConformanceRecord struct {
	BaseModel
	LotID            uuid.UUID         `json:"lot_id" gorm:"type:uuid;not null;uniqueIndex:idx_conformance_lot_item"`
	ITPItemID        uuid.UUID         `json:"itp_item_id" gorm:"type:uuid;not null;uniqueIndex:idx_conformance_lot_item"`
	Result           ConformanceResult `json:"result" gorm:"type:varchar(10);not null"`
	Comments         string            `json:"comments" gorm:"type:text"`
	IsNonConformance bool              `json:"is_non_conformance" gorm:"default:false;index"`
	InspectorID      *uuid.UUID        `json:"inspector_id" gorm:"type:uuid"`
	InspectionDate   time.Time         `json:"inspection_date"`
}

// Notification is an internal alert row, currently raised for
// non-conformances. Email delivery is best-effort on top of the row.
type Notification struct {
	BaseModel
	ProjectID           *uuid.UUID `json:"project_id" gorm:"type:uuid;index"`
	LotID               *uuid.UUID `json:"lot_id" gorm:"type:uuid;index"`
	Type                string     `json:"type" gorm:"size:50;not null"`
	Title               string     `json:"title" gorm:"size:255;not null"`
	Message             string     `json:"message" gorm:"type:text"`
	Priority            string     `json:"priority" gorm:"size:20;default:'medium'"`
	RelatedResourceType string     `json:"related_resource_type" gorm:"size:50"`
	RelatedResourceID   *uuid.UUID `json:"related_resource_id" gorm:"type:uuid"`
	ReadAt              *time.Time `json:"read_at"`
}
