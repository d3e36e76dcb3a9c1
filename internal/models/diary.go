// internal/models/diary.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// SiteDiary is a daily record of site conditions and activity for a lot.
type SiteDiary struct {
	BaseModel
	LotID             uuid.UUID      `json:"lot_id" gorm:"type:uuid;not null;index"`
	DiaryDate         time.Time      `json:"diary_date" gorm:"not null;index"`
	Weather           string         `json:"weather" gorm:"size:100"`
	TemperatureMin    *float64       `json:"temperature_min"`
	TemperatureMax    *float64       `json:"temperature_max"`
	WorkPerformed     string         `json:"work_performed" gorm:"type:text"`
	Delays            string         `json:"delays" gorm:"type:text"`
	Visitors          string         `json:"visitors" gorm:"type:text"`
	SafetyObservation string         `json:"safety_observation" gorm:"type:text"`
	PhotoURLs         pq.StringArray `json:"photo_urls" gorm:"type:text[]"`
	RecordedBy        *uuid.UUID     `json:"recorded_by" gorm:"type:uuid"`
}
