// internal/store/gormstore/gormstore.go

// Package gormstore implements store.Store on Postgres via GORM.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sitewise/siteqa-backend/internal/models"
	"github.com/sitewise/siteqa-backend/internal/store"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) WithTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// wrap translates driver errors into the store's sentinel errors so raw
// constraint names never leave this package.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return store.ErrDuplicate
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return store.ErrDuplicate
	}
	return fmt.Errorf("store: %w", err)
}

func applyList(db *gorm.DB, params store.ListParams, allowedSortFields []string) *gorm.DB {
	sortField := "created_at"
	for _, field := range allowedSortFields {
		if field == params.Sort {
			sortField = params.Sort
			break
		}
	}
	order := "desc"
	if strings.EqualFold(params.Order, "asc") {
		order = "asc"
	}
	return db.Order(sortField + " " + order).Offset(params.Offset()).Limit(params.PageSize())
}

type statusCount struct {
	Status string
	Count  int64
}

// Users

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	return wrap(s.db.WithContext(ctx).Create(user).Error)
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, wrap(err)
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("lower(email) = lower(?)", email).First(&user).Error; err != nil {
		return nil, wrap(err)
	}
	return &user, nil
}

func (s *Store) GetUserByResetToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("reset_token = ?", token).First(&user).Error; err != nil {
		return nil, wrap(err)
	}
	return &user, nil
}

func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	return wrap(s.db.WithContext(ctx).Save(user).Error)
}

func (s *Store) ListUsersByRole(ctx context.Context, roles []models.UserRole) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Where("role IN ?", roles).Order("created_at").Find(&users).Error; err != nil {
		return nil, wrap(err)
	}
	return users, nil
}

// Projects

func (s *Store) CreateProject(ctx context.Context, project *models.Project) error {
	return wrap(s.db.WithContext(ctx).Create(project).Error)
}

func (s *Store) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := s.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		return nil, wrap(err)
	}
	return &project, nil
}

func (s *Store) ListProjects(ctx context.Context, params store.ListParams) ([]models.Project, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Project{})
	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("name ILIKE ? OR project_number ILIKE ?", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrap(err)
	}

	var projects []models.Project
	if err := applyList(query, params, []string{"created_at", "name", "project_number"}).Find(&projects).Error; err != nil {
		return nil, 0, wrap(err)
	}
	return projects, total, nil
}

func (s *Store) UpdateProject(ctx context.Context, project *models.Project) error {
	return wrap(s.db.WithContext(ctx).Save(project).Error)
}

func (s *Store) DeleteProject(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Project{}, "id = ?", id)
	if result.Error != nil {
		return wrap(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Lots

func (s *Store) CreateLot(ctx context.Context, lot *models.Lot) error {
	return wrap(s.db.WithContext(ctx).Create(lot).Error)
}

func (s *Store) GetLot(ctx context.Context, id uuid.UUID) (*models.Lot, error) {
	var lot models.Lot
	if err := s.db.WithContext(ctx).First(&lot, "id = ?", id).Error; err != nil {
		return nil, wrap(err)
	}
	return &lot, nil
}

func (s *Store) ListLots(ctx context.Context, projectID *uuid.UUID, params store.ListParams) ([]models.Lot, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Lot{})
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}
	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("lot_number ILIKE ? OR description ILIKE ?", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrap(err)
	}

	var lots []models.Lot
	if err := applyList(query, params, []string{"created_at", "lot_number", "status"}).Find(&lots).Error; err != nil {
		return nil, 0, wrap(err)
	}
	return lots, total, nil
}

func (s *Store) UpdateLot(ctx context.Context, lot *models.Lot) error {
	return wrap(s.db.WithContext(ctx).Save(lot).Error)
}

func (s *Store) DeleteLot(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Lot{}, "id = ?", id)
	if result.Error != nil {
		return wrap(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Templates

func (s *Store) CreateTemplate(ctx context.Context, template *models.ITPTemplate) error {
	return wrap(s.db.WithContext(ctx).Create(template).Error)
}

func (s *Store) GetTemplate(ctx context.Context, id uuid.UUID) (*models.ITPTemplate, error) {
	var template models.ITPTemplate
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		First(&template, "id = ?", id).Error
	if err != nil {
		return nil, wrap(err)
	}
	return &template, nil
}

func (s *Store) ListTemplates(ctx context.Context, filter store.TemplateFilter, params store.ListParams) ([]models.ITPTemplate, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.ITPTemplate{})
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.OrganizationID != nil {
		query = query.Where("organization_id = ?", *filter.OrganizationID)
	}
	if params.Search != "" {
		query = query.Where("name ILIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrap(err)
	}

	var templates []models.ITPTemplate
	if err := applyList(query, params, []string{"created_at", "name", "category"}).Find(&templates).Error; err != nil {
		return nil, 0, wrap(err)
	}
	return templates, total, nil
}

func (s *Store) UpdateTemplate(ctx context.Context, template *models.ITPTemplate) error {
	return wrap(s.db.WithContext(ctx).Omit("Items").Save(template).Error)
}

func (s *Store) CreateTemplateItem(ctx context.Context, item *models.ITPTemplateItem) error {
	return wrap(s.db.WithContext(ctx).Create(item).Error)
}

func (s *Store) GetTemplateItem(ctx context.Context, id uuid.UUID) (*models.ITPTemplateItem, error) {
	var item models.ITPTemplateItem
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, wrap(err)
	}
	return &item, nil
}

func (s *Store) UpdateTemplateItem(ctx context.Context, item *models.ITPTemplateItem) error {
	return wrap(s.db.WithContext(ctx).Save(item).Error)
}

// Instances

func (s *Store) CreateInstance(ctx context.Context, instance *models.ITP) error {
	return wrap(s.db.WithContext(ctx).Omit("Items").Create(instance).Error)
}

func (s *Store) CreateInstanceItems(ctx context.Context, items []models.ITPItem) error {
	if len(items) == 0 {
		return nil
	}
	return wrap(s.db.WithContext(ctx).Create(&items).Error)
}

func (s *Store) GetInstance(ctx context.Context, id uuid.UUID) (*models.ITP, error) {
	var instance models.ITP
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		First(&instance, "id = ?", id).Error
	if err != nil {
		return nil, wrap(err)
	}
	return &instance, nil
}

func (s *Store) ListInstances(ctx context.Context, filter store.InstanceFilter, params store.ListParams) ([]models.ITP, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.ITP{})
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.LotID != nil {
		query = query.Where("lot_id = ?", *filter.LotID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrap(err)
	}

	var instances []models.ITP
	if err := applyList(query, params, []string{"created_at", "name", "status"}).Find(&instances).Error; err != nil {
		return nil, 0, wrap(err)
	}
	return instances, total, nil
}

func (s *Store) UpdateInstance(ctx context.Context, instance *models.ITP) error {
	return wrap(s.db.WithContext(ctx).Omit("Items").Save(instance).Error)
}

func (s *Store) GetInstanceItem(ctx context.Context, id uuid.UUID) (*models.ITPItem, error) {
	var item models.ITPItem
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, wrap(err)
	}
	return &item, nil
}

func (s *Store) UpdateInstanceItem(ctx context.Context, item *models.ITPItem) error {
	return wrap(s.db.WithContext(ctx).Save(item).Error)
}

func (s *Store) CountInstanceItems(ctx context.Context, instanceID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.ITPItem{}).Where("itp_id = ?", instanceID).Count(&count).Error
	if err != nil {
		return 0, wrap(err)
	}
	return count, nil
}

func (s *Store) CountInstanceItemStatuses(ctx context.Context, instanceID uuid.UUID) (map[models.ItemStatus]int64, error) {
	var rows []statusCount
	err := s.db.WithContext(ctx).Model(&models.ITPItem{}).
		Select("status, count(*) as count").
		Where("itp_id = ?", instanceID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, wrap(err)
	}

	counts := make(map[models.ItemStatus]int64, len(rows))
	for _, row := range rows {
		counts[models.ItemStatus(row.Status)] = row.Count
	}
	return counts, nil
}

// Assignments

func (s *Store) CreateAssignment(ctx context.Context, assignment *models.LotAssignment) error {
	return wrap(s.db.WithContext(ctx).Omit("Template").Create(assignment).Error)
}

func (s *Store) GetAssignment(ctx context.Context, id uuid.UUID) (*models.LotAssignment, error) {
	var assignment models.LotAssignment
	if err := s.db.WithContext(ctx).First(&assignment, "id = ?", id).Error; err != nil {
		return nil, wrap(err)
	}
	return &assignment, nil
}

func (s *Store) GetAssignmentByPair(ctx context.Context, lotID, templateID uuid.UUID) (*models.LotAssignment, error) {
	var assignment models.LotAssignment
	err := s.db.WithContext(ctx).
		Where("lot_id = ? AND template_id = ?", lotID, templateID).
		First(&assignment).Error
	if err != nil {
		return nil, wrap(err)
	}
	return &assignment, nil
}

func (s *Store) ListAssignments(ctx context.Context, lotID uuid.UUID, statuses []models.AssignmentStatus, params store.ListParams) ([]models.LotAssignment, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.LotAssignment{}).
		Where("lot_id = ? AND status IN ?", lotID, statuses)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrap(err)
	}

	var assignments []models.LotAssignment
	err := applyList(query.Preload("Template"), params, []string{"created_at", "status"}).
		Find(&assignments).Error
	if err != nil {
		return nil, 0, wrap(err)
	}
	return assignments, total, nil
}

func (s *Store) UpdateAssignment(ctx context.Context, assignment *models.LotAssignment) error {
	return wrap(s.db.WithContext(ctx).Omit("Template").Save(assignment).Error)
}

// Conformance records

func (s *Store) UpsertConformanceRecord(ctx context.Context, record *models.ConformanceRecord) error {
	// Concurrent writers for the same (lot, item) pair resolve
	// last-writer-wins through the unique index.
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "lot_id"}, {Name: "itp_item_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"result", "comments", "is_non_conformance",
			"inspector_id", "inspection_date", "updated_at",
		}),
	}).Create(record).Error
	return wrap(err)
}

func (s *Store) GetConformanceRecord(ctx context.Context, lotID, itemID uuid.UUID) (*models.ConformanceRecord, error) {
	var record models.ConformanceRecord
	err := s.db.WithContext(ctx).
		Where("lot_id = ? AND itp_item_id = ?", lotID, itemID).
		First(&record).Error
	if err != nil {
		return nil, wrap(err)
	}
	return &record, nil
}

func (s *Store) ListConformanceRecords(ctx context.Context, lotID uuid.UUID, params store.ListParams) ([]models.ConformanceRecord, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.ConformanceRecord{}).Where("lot_id = ?", lotID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrap(err)
	}

	var records []models.ConformanceRecord
	if err := applyList(query, params, []string{"created_at", "inspection_date"}).Find(&records).Error; err != nil {
		return nil, 0, wrap(err)
	}
	return records, total, nil
}

func (s *Store) CountConformanceResults(ctx context.Context, lotID, instanceID uuid.UUID) (map[models.ConformanceResult]int64, error) {
	// Single grouped join rather than per-item round trips.
	var rows []statusCount
	err := s.db.WithContext(ctx).Model(&models.ConformanceRecord{}).
		Select("conformance_records.result as status, count(*) as count").
		Joins("JOIN itp_items ON itp_items.id = conformance_records.itp_item_id").
		Where("conformance_records.lot_id = ? AND itp_items.itp_id = ?", lotID, instanceID).
		Group("conformance_records.result").
		Scan(&rows).Error
	if err != nil {
		return nil, wrap(err)
	}

	counts := make(map[models.ConformanceResult]int64, len(rows))
	for _, row := range rows {
		counts[models.ConformanceResult(row.Status)] = row.Count
	}
	return counts, nil
}

// Site diaries

func (s *Store) CreateDiary(ctx context.Context, diary *models.SiteDiary) error {
	return wrap(s.db.WithContext(ctx).Create(diary).Error)
}

func (s *Store) GetDiary(ctx context.Context, id uuid.UUID) (*models.SiteDiary, error) {
	var diary models.SiteDiary
	if err := s.db.WithContext(ctx).First(&diary, "id = ?", id).Error; err != nil {
		return nil, wrap(err)
	}
	return &diary, nil
}

func (s *Store) ListDiaries(ctx context.Context, lotID uuid.UUID, params store.ListParams) ([]models.SiteDiary, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.SiteDiary{}).Where("lot_id = ?", lotID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrap(err)
	}

	var diaries []models.SiteDiary
	if err := applyList(query, params, []string{"created_at", "diary_date"}).Find(&diaries).Error; err != nil {
		return nil, 0, wrap(err)
	}
	return diaries, total, nil
}

func (s *Store) UpdateDiary(ctx context.Context, diary *models.SiteDiary) error {
	return wrap(s.db.WithContext(ctx).Save(diary).Error)
}

func (s *Store) DeleteDiary(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.SiteDiary{}, "id = ?", id)
	if result.Error != nil {
		return wrap(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Dockets

func (s *Store) CreateDocket(ctx context.Context, docket *models.Docket) error {
	return wrap(s.db.WithContext(ctx).Create(docket).Error)
}

func (s *Store) GetDocket(ctx context.Context, id uuid.UUID) (*models.Docket, error) {
	var docket models.Docket
	if err := s.db.WithContext(ctx).First(&docket, "id = ?", id).Error; err != nil {
		return nil, wrap(err)
	}
	return &docket, nil
}

func (s *Store) ListDockets(ctx context.Context, lotID uuid.UUID, docketType *models.DocketType, params store.ListParams) ([]models.Docket, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Docket{}).Where("lot_id = ?", lotID)
	if docketType != nil {
		query = query.Where("docket_type = ?", *docketType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrap(err)
	}

	var dockets []models.Docket
	if err := applyList(query, params, []string{"created_at", "docket_date"}).Find(&dockets).Error; err != nil {
		return nil, 0, wrap(err)
	}
	return dockets, total, nil
}

func (s *Store) UpdateDocket(ctx context.Context, docket *models.Docket) error {
	return wrap(s.db.WithContext(ctx).Save(docket).Error)
}

func (s *Store) DeleteDocket(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Docket{}, "id = ?", id)
	if result.Error != nil {
		return wrap(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Notifications and audit

func (s *Store) CreateNotification(ctx context.Context, notification *models.Notification) error {
	return wrap(s.db.WithContext(ctx).Create(notification).Error)
}

func (s *Store) ListNotifications(ctx context.Context, projectID *uuid.UUID, params store.ListParams) ([]models.Notification, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Notification{})
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrap(err)
	}

	var notifications []models.Notification
	if err := applyList(query, params, []string{"created_at", "priority"}).Find(&notifications).Error; err != nil {
		return nil, 0, wrap(err)
	}
	return notifications, total, nil
}

func (s *Store) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	return wrap(s.db.WithContext(ctx).Create(entry).Error)
}
