// internal/models/docket.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Docket records labour, plant or material usage against a lot.
type Docket struct {
	BaseModel
	LotID        uuid.UUID      `json:"lot_id" gorm:"type:uuid;not null;index"`
	DocketType   DocketType     `json:"docket_type" gorm:"type:varchar(20);not null;index"`
	DocketNumber string         `json:"docket_number" gorm:"size:50"`
	DocketDate   time.Time      `json:"docket_date" gorm:"not null;index"`
	Description  string         `json:"description" gorm:"type:text;not null"`
	Supplier     string         `json:"supplier" gorm:"size:255"`
	Quantity     float64        `json:"quantity" gorm:"type:decimal(12,2);default:0"`
	Unit         string         `json:"unit" gorm:"size:20"`
	Hours        float64        `json:"hours" gorm:"type:decimal(8,2);default:0"`
	PhotoURLs    pq.StringArray `json:"photo_urls" gorm:"type:text[]"`
	RecordedBy   *uuid.UUID     `json:"recorded_by" gorm:"type:uuid"`
}
