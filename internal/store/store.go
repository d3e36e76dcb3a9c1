// internal/store/store.go

// Package store defines the persistence contract the services are written
// against. Two implementations exist: gormstore (Postgres) and memstore
// (in-memory), selected at startup via configuration. Services never
// receive a raw database handle.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/sitewise/siteqa-backend/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// ListParams carries pagination and sorting through the store boundary.
type ListParams struct {
	Page   int
	Limit  int
	Sort   string
	Order  string
	Search string
}

func (p ListParams) Offset() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	limit := p.PageSize()
	return (page - 1) * limit
}

func (p ListParams) PageSize() int {
	if p.Limit < 1 || p.Limit > 100 {
		return 20
	}
	return p.Limit
}

type TemplateFilter struct {
	ActiveOnly     bool
	Category       string
	OrganizationID *uuid.UUID
}

type InstanceFilter struct {
	ProjectID *uuid.UUID
	LotID     *uuid.UUID
	Status    *models.InstanceStatus
}

// Store is the capability set required by the services. Implementations
// must return ErrNotFound/ErrDuplicate for the matching conditions and
// wrap any other failure.
type Store interface {
	// WithTransaction runs fn against a transactional view of the store.
	// All writes made through tx commit together or roll back together.
	WithTransaction(ctx context.Context, fn func(tx Store) error) error

	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByResetToken(ctx context.Context, token string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	ListUsersByRole(ctx context.Context, roles []models.UserRole) ([]models.User, error)

	// Projects
	CreateProject(ctx context.Context, project *models.Project) error
	GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error)
	ListProjects(ctx context.Context, params ListParams) ([]models.Project, int64, error)
	UpdateProject(ctx context.Context, project *models.Project) error
	DeleteProject(ctx context.Context, id uuid.UUID) error

	// Lots
	CreateLot(ctx context.Context, lot *models.Lot) error
	GetLot(ctx context.Context, id uuid.UUID) (*models.Lot, error)
	ListLots(ctx context.Context, projectID *uuid.UUID, params ListParams) ([]models.Lot, int64, error)
	UpdateLot(ctx context.Context, lot *models.Lot) error
	DeleteLot(ctx context.Context, id uuid.UUID) error

	// ITP templates. GetTemplate returns items ordered by sort_order.
	CreateTemplate(ctx context.Context, template *models.ITPTemplate) error
	GetTemplate(ctx context.Context, id uuid.UUID) (*models.ITPTemplate, error)
	ListTemplates(ctx context.Context, filter TemplateFilter, params ListParams) ([]models.ITPTemplate, int64, error)
	UpdateTemplate(ctx context.Context, template *models.ITPTemplate) error
	CreateTemplateItem(ctx context.Context, item *models.ITPTemplateItem) error
	GetTemplateItem(ctx context.Context, id uuid.UUID) (*models.ITPTemplateItem, error)
	UpdateTemplateItem(ctx context.Context, item *models.ITPTemplateItem) error

	// ITP instances. GetInstance returns items ordered by sort_order.
	CreateInstance(ctx context.Context, instance *models.ITP) error
	CreateInstanceItems(ctx context.Context, items []models.ITPItem) error
	GetInstance(ctx context.Context, id uuid.UUID) (*models.ITP, error)
	ListInstances(ctx context.Context, filter InstanceFilter, params ListParams) ([]models.ITP, int64, error)
	UpdateInstance(ctx context.Context, instance *models.ITP) error
	GetInstanceItem(ctx context.Context, id uuid.UUID) (*models.ITPItem, error)
	UpdateInstanceItem(ctx context.Context, item *models.ITPItem) error
	CountInstanceItems(ctx context.Context, instanceID uuid.UUID) (int64, error)
	CountInstanceItemStatuses(ctx context.Context, instanceID uuid.UUID) (map[models.ItemStatus]int64, error)

	// Assignments. GetAssignmentByPair returns the row regardless of
	// status so callers can reactivate; ListAssignments filters by the
	// supplied status set.
	CreateAssignment(ctx context.Context, assignment *models.LotAssignment) error
	GetAssignment(ctx context.Context, id uuid.UUID) (*models.LotAssignment, error)
	GetAssignmentByPair(ctx context.Context, lotID, templateID uuid.UUID) (*models.LotAssignment, error)
	ListAssignments(ctx context.Context, lotID uuid.UUID, statuses []models.AssignmentStatus, params ListParams) ([]models.LotAssignment, int64, error)
	UpdateAssignment(ctx context.Context, assignment *models.LotAssignment) error

	// Conformance records. Upsert is keyed on (lot_id, itp_item_id);
	// concurrent writers resolve last-writer-wins at the store.
	UpsertConformanceRecord(ctx context.Context, record *models.ConformanceRecord) error
	GetConformanceRecord(ctx context.Context, lotID, itemID uuid.UUID) (*models.ConformanceRecord, error)
	ListConformanceRecords(ctx context.Context, lotID uuid.UUID, params ListParams) ([]models.ConformanceRecord, int64, error)
	CountConformanceResults(ctx context.Context, lotID, instanceID uuid.UUID) (map[models.ConformanceResult]int64, error)

	// Site diaries
	CreateDiary(ctx context.Context, diary *models.SiteDiary) error
	GetDiary(ctx context.Context, id uuid.UUID) (*models.SiteDiary, error)
	ListDiaries(ctx context.Context, lotID uuid.UUID, params ListParams) ([]models.SiteDiary, int64, error)
	UpdateDiary(ctx context.Context, diary *models.SiteDiary) error
	DeleteDiary(ctx context.Context, id uuid.UUID) error

	// Dockets
	CreateDocket(ctx context.Context, docket *models.Docket) error
	GetDocket(ctx context.Context, id uuid.UUID) (*models.Docket, error)
	ListDockets(ctx context.Context, lotID uuid.UUID, docketType *models.DocketType, params ListParams) ([]models.Docket, int64, error)
	UpdateDocket(ctx context.Context, docket *models.Docket) error
	DeleteDocket(ctx context.Context, id uuid.UUID) error

	// Notifications and audit
	CreateNotification(ctx context.Context, notification *models.Notification) error
	ListNotifications(ctx context.Context, projectID *uuid.UUID, params ListParams) ([]models.Notification, int64, error)
	CreateAuditLog(ctx context.Context, entry *models.AuditLog) error
}
