// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums. These are the single source of truth for every status value the
// application persists; raw strings never reach the store layer.

type UserRole string

const (
	UserRoleAdmin      UserRole = "admin"
	UserRoleSupervisor UserRole = "supervisor"
	UserRoleInspector  UserRole = "inspector"
	UserRoleViewer     UserRole = "viewer"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleSupervisor, UserRoleInspector, UserRoleViewer:
		return true
	}
	return false
}

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusArchived  ProjectStatus = "archived"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusOnHold, ProjectStatusCompleted, ProjectStatusArchived:
		return true
	}
	return false
}

type LotStatus string

const (
	LotStatusOpen       LotStatus = "open"
	LotStatusInProgress LotStatus = "in_progress"
	LotStatusConformed  LotStatus = "conformed"
	LotStatusClosed     LotStatus = "closed"
)

func (s LotStatus) Valid() bool {
	switch s {
	case LotStatusOpen, LotStatusInProgress, LotStatusConformed, LotStatusClosed:
		return true
	}
	return false
}

// InstanceStatus is the lifecycle of an ITP instance. It is derived from
// item results, never set directly by callers.
type InstanceStatus string

const (
	InstanceStatusDraft      InstanceStatus = "draft"
	InstanceStatusInProgress InstanceStatus = "in_progress"
	InstanceStatusCompleted  InstanceStatus = "completed"
)

// ItemStatus is the inspection state of a single ITP instance item.
type ItemStatus string

const (
	ItemStatusPending ItemStatus = "pending"
	ItemStatusPass    ItemStatus = "pass"
	ItemStatusFail    ItemStatus = "fail"
	ItemStatusNA      ItemStatus = "na"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case ItemStatusPending, ItemStatusPass, ItemStatusFail, ItemStatusNA:
		return true
	}
	return false
}

// Terminal reports whether the item no longer counts as pending.
func (s ItemStatus) Terminal() bool {
	return s == ItemStatusPass || s == ItemStatusFail || s == ItemStatusNA
}

type AssignmentStatus string

const (
	AssignmentStatusPending     AssignmentStatus = "pending"
	AssignmentStatusInProgress  AssignmentStatus = "in_progress"
	AssignmentStatusCompleted   AssignmentStatus = "completed"
	AssignmentStatusApproved    AssignmentStatus = "approved"
	AssignmentStatusDeactivated AssignmentStatus = "deactivated"
)

// LiveAssignmentStatuses is the canonical "live" filter for assignment
// queries. Every listing call site goes through this set; deactivated rows
// are only reachable via the reactivation path.
var LiveAssignmentStatuses = []AssignmentStatus{
	AssignmentStatusPending,
	AssignmentStatusInProgress,
	AssignmentStatusCompleted,
	AssignmentStatusApproved,
}

func (s AssignmentStatus) Live() bool {
	for _, live := range LiveAssignmentStatuses {
		if s == live {
			return true
		}
	}
	return false
}

func (s AssignmentStatus) rank() int {
	switch s {
	case AssignmentStatusPending:
		return 0
	case AssignmentStatusInProgress:
		return 1
	case AssignmentStatusCompleted:
		return 2
	case AssignmentStatusApproved:
		return 3
	}
	return -1
}

// CanTransitionTo reports whether moving from s to next is a legal forward
// transition. Back-transitions between live statuses are rejected.
func (s AssignmentStatus) CanTransitionTo(next AssignmentStatus) bool {
	if !s.Live() || !next.Live() {
		return false
	}
	return next.rank() > s.rank()
}

// ConformanceResult is the recorded outcome of one inspection point.
type ConformanceResult string

const (
	ConformanceResultPass ConformanceResult = "PASS"
	ConformanceResultFail ConformanceResult = "FAIL"
	ConformanceResultNA   ConformanceResult = "N/A"
)

func (r ConformanceResult) Valid() bool {
	switch r {
	case ConformanceResultPass, ConformanceResultFail, ConformanceResultNA:
		return true
	}
	return false
}

// ItemStatus maps a conformance result onto the instance item lifecycle.
func (r ConformanceResult) ItemStatus() ItemStatus {
	switch r {
	case ConformanceResultPass:
		return ItemStatusPass
	case ConformanceResultFail:
		return ItemStatusFail
	case ConformanceResultNA:
		return ItemStatusNA
	}
	return ItemStatusPending
}

type DocketType string

const (
	DocketTypeLabour   DocketType = "labour"
	DocketTypePlant    DocketType = "plant"
	DocketTypeMaterial DocketType = "material"
)

func (t DocketType) Valid() bool {
	switch t {
	case DocketTypeLabour, DocketTypePlant, DocketTypeMaterial:
		return true
	}
	return false
}
