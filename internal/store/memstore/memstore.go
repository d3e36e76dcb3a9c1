// internal/store/memstore/memstore.go

// Package memstore provides the in-memory implementation of store.Store,
// used when no database is configured and by the service test suites.
// Transactions snapshot the whole state and restore it on error.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sitewise/siteqa-backend/internal/models"
	"github.com/sitewise/siteqa-backend/internal/store"
)

var _ store.Store = (*Store)(nil)

type state struct {
	users         map[uuid.UUID]models.User
	projects      map[uuid.UUID]models.Project
	lots          map[uuid.UUID]models.Lot
	templates     map[uuid.UUID]models.ITPTemplate
	templateItems map[uuid.UUID]models.ITPTemplateItem
	instances     map[uuid.UUID]models.ITP
	instanceItems map[uuid.UUID]models.ITPItem
	assignments   map[uuid.UUID]models.LotAssignment
	conformance   map[string]models.ConformanceRecord // keyed on lotID/itemID
	diaries       map[uuid.UUID]models.SiteDiary
	dockets       map[uuid.UUID]models.Docket
	notifications map[uuid.UUID]models.Notification
	auditLogs     map[uuid.UUID]models.AuditLog
}

func newState() *state {
	return &state{
		users:         map[uuid.UUID]models.User{},
		projects:      map[uuid.UUID]models.Project{},
		lots:          map[uuid.UUID]models.Lot{},
		templates:     map[uuid.UUID]models.ITPTemplate{},
		templateItems: map[uuid.UUID]models.ITPTemplateItem{},
		instances:     map[uuid.UUID]models.ITP{},
		instanceItems: map[uuid.UUID]models.ITPItem{},
		assignments:   map[uuid.UUID]models.LotAssignment{},
		conformance:   map[string]models.ConformanceRecord{},
		diaries:       map[uuid.UUID]models.SiteDiary{},
		dockets:       map[uuid.UUID]models.Docket{},
		notifications: map[uuid.UUID]models.Notification{},
		auditLogs:     map[uuid.UUID]models.AuditLog{},
	}
}

// clone copies every map. Entries are stored and replaced wholesale, never
// mutated in place, so a per-entry shallow copy is a correct snapshot.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.projects {
		c.projects[k] = v
	}
	for k, v := range s.lots {
		c.lots[k] = v
	}
	for k, v := range s.templates {
		c.templates[k] = v
	}
	for k, v := range s.templateItems {
		c.templateItems[k] = v
	}
	for k, v := range s.instances {
		c.instances[k] = v
	}
	for k, v := range s.instanceItems {
		c.instanceItems[k] = v
	}
	for k, v := range s.assignments {
		c.assignments[k] = v
	}
	for k, v := range s.conformance {
		c.conformance[k] = v
	}
	for k, v := range s.diaries {
		c.diaries[k] = v
	}
	for k, v := range s.dockets {
		c.dockets[k] = v
	}
	for k, v := range s.notifications {
		c.notifications[k] = v
	}
	for k, v := range s.auditLogs {
		c.auditLogs[k] = v
	}
	return c
}

type Store struct {
	mu    sync.RWMutex
	state *state
	inTx  bool
}

func New() *Store {
	return &Store{state: newState()}
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) rlock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) WithTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	if s.inTx {
		// Nested call joins the enclosing transaction.
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	backup := s.state.clone()
	tx := &Store{state: s.state, inTx: true}
	if err := fn(tx); err != nil {
		s.state = backup
		return err
	}
	return nil
}

func stamp(base *models.BaseModel) {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	now := time.Now()
	if base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	base.UpdatedAt = now
}

func conformanceKey(lotID, itemID uuid.UUID) string {
	return lotID.String() + "/" + itemID.String()
}

// paginate applies offset/limit to an already sorted slice.
func paginate[T any](items []T, params store.ListParams) ([]T, int64) {
	total := int64(len(items))
	offset := params.Offset()
	if offset >= len(items) {
		return []T{}, total
	}
	end := offset + params.PageSize()
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end], total
}

func sortByCreated[T any](items []T, created func(T) time.Time, order string) {
	asc := strings.EqualFold(order, "asc")
	sort.SliceStable(items, func(i, j int) bool {
		if asc {
			return created(items[i]).Before(created(items[j]))
		}
		return created(items[i]).After(created(items[j]))
	})
}

// Users

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	defer s.lock()()
	for _, existing := range s.state.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return store.ErrDuplicate
		}
	}
	stamp(&user.BaseModel)
	s.state.users[user.ID] = *user
	return nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	defer s.rlock()()
	user, ok := s.state.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	defer s.rlock()()
	for _, user := range s.state.users {
		if strings.EqualFold(user.Email, email) {
			u := user
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) GetUserByResetToken(ctx context.Context, token string) (*models.User, error) {
	defer s.rlock()()
	for _, user := range s.state.users {
		if user.ResetToken != nil && *user.ResetToken == token {
			u := user
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	defer s.lock()()
	if _, ok := s.state.users[user.ID]; !ok {
		return store.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	s.state.users[user.ID] = *user
	return nil
}

func (s *Store) ListUsersByRole(ctx context.Context, roles []models.UserRole) ([]models.User, error) {
	defer s.rlock()()
	var users []models.User
	for _, user := range s.state.users {
		for _, role := range roles {
			if user.Role == role {
				users = append(users, user)
				break
			}
		}
	}
	sortByCreated(users, func(u models.User) time.Time { return u.CreatedAt }, "asc")
	return users, nil
}

// Projects

func (s *Store) CreateProject(ctx context.Context, project *models.Project) error {
	defer s.lock()()
	if project.ProjectNumber != "" {
		for _, existing := range s.state.projects {
			if existing.ProjectNumber == project.ProjectNumber {
				return store.ErrDuplicate
			}
		}
	}
	stamp(&project.BaseModel)
	s.state.projects[project.ID] = *project
	return nil
}

func (s *Store) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	defer s.rlock()()
	project, ok := s.state.projects[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &project, nil
}

func (s *Store) ListProjects(ctx context.Context, params store.ListParams) ([]models.Project, int64, error) {
	defer s.rlock()()
	var projects []models.Project
	for _, project := range s.state.projects {
		if params.Search != "" &&
			!strings.Contains(strings.ToLower(project.Name), strings.ToLower(params.Search)) &&
			!strings.Contains(strings.ToLower(project.ProjectNumber), strings.ToLower(params.Search)) {
			continue
		}
		projects = append(projects, project)
	}
	sortByCreated(projects, func(p models.Project) time.Time { return p.CreatedAt }, params.Order)
	page, total := paginate(projects, params)
	return page, total, nil
}

func (s *Store) UpdateProject(ctx context.Context, project *models.Project) error {
	defer s.lock()()
	if _, ok := s.state.projects[project.ID]; !ok {
		return store.ErrNotFound
	}
	project.UpdatedAt = time.Now()
	s.state.projects[project.ID] = *project
	return nil
}

func (s *Store) DeleteProject(ctx context.Context, id uuid.UUID) error {
	defer s.lock()()
	if _, ok := s.state.projects[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.state.projects, id)
	return nil
}

// Lots

func (s *Store) CreateLot(ctx context.Context, lot *models.Lot) error {
	defer s.lock()()
	stamp(&lot.BaseModel)
	s.state.lots[lot.ID] = *lot
	return nil
}

func (s *Store) GetLot(ctx context.Context, id uuid.UUID) (*models.Lot, error) {
	defer s.rlock()()
	lot, ok := s.state.lots[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &lot, nil
}

func (s *Store) ListLots(ctx context.Context, projectID *uuid.UUID, params store.ListParams) ([]models.Lot, int64, error) {
	defer s.rlock()()
	var lots []models.Lot
	for _, lot := range s.state.lots {
		if projectID != nil && lot.ProjectID != *projectID {
			continue
		}
		if params.Search != "" &&
			!strings.Contains(strings.ToLower(lot.LotNumber), strings.ToLower(params.Search)) &&
			!strings.Contains(strings.ToLower(lot.Description), strings.ToLower(params.Search)) {
			continue
		}
		lots = append(lots, lot)
	}
	sortByCreated(lots, func(l models.Lot) time.Time { return l.CreatedAt }, params.Order)
	page, total := paginate(lots, params)
	return page, total, nil
}

func (s *Store) UpdateLot(ctx context.Context, lot *models.Lot) error {
	defer s.lock()()
	if _, ok := s.state.lots[lot.ID]; !ok {
		return store.ErrNotFound
	}
	lot.UpdatedAt = time.Now()
	s.state.lots[lot.ID] = *lot
	return nil
}

func (s *Store) DeleteLot(ctx context.Context, id uuid.UUID) error {
	defer s.lock()()
	if _, ok := s.state.lots[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.state.lots, id)
	return nil
}

// Templates

func (s *Store) CreateTemplate(ctx context.Context, template *models.ITPTemplate) error {
	defer s.lock()()
	stamp(&template.BaseModel)
	items := template.Items
	template.Items = nil
	s.state.templates[template.ID] = *template
	for i := range items {
		items[i].TemplateID = template.ID
		stamp(&items[i].BaseModel)
		s.state.templateItems[items[i].ID] = items[i]
	}
	template.Items = items
	return nil
}

func (s *Store) templateItemsFor(templateID uuid.UUID) []models.ITPTemplateItem {
	var items []models.ITPTemplateItem
	for _, item := range s.state.templateItems {
		if item.TemplateID == templateID {
			items = append(items, item)
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].SortOrder < items[j].SortOrder })
	return items
}

func (s *Store) GetTemplate(ctx context.Context, id uuid.UUID) (*models.ITPTemplate, error) {
	defer s.rlock()()
	template, ok := s.state.templates[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	template.Items = s.templateItemsFor(id)
	return &template, nil
}

func (s *Store) ListTemplates(ctx context.Context, filter store.TemplateFilter, params store.ListParams) ([]models.ITPTemplate, int64, error) {
	defer s.rlock()()
	var templates []models.ITPTemplate
	for _, template := range s.state.templates {
		if filter.ActiveOnly && !template.IsActive {
			continue
		}
		if filter.Category != "" && template.Category != filter.Category {
			continue
		}
		if filter.OrganizationID != nil {
			if template.OrganizationID == nil || *template.OrganizationID != *filter.OrganizationID {
				continue
			}
		}
		if params.Search != "" &&
			!strings.Contains(strings.ToLower(template.Name), strings.ToLower(params.Search)) {
			continue
		}
		templates = append(templates, template)
	}
	sortByCreated(templates, func(t models.ITPTemplate) time.Time { return t.CreatedAt }, params.Order)
	page, total := paginate(templates, params)
	return page, total, nil
}

func (s *Store) UpdateTemplate(ctx context.Context, template *models.ITPTemplate) error {
	defer s.lock()()
	if _, ok := s.state.templates[template.ID]; !ok {
		return store.ErrNotFound
	}
	template.UpdatedAt = time.Now()
	stored := *template
	stored.Items = nil
	s.state.templates[template.ID] = stored
	return nil
}

func (s *Store) CreateTemplateItem(ctx context.Context, item *models.ITPTemplateItem) error {
	defer s.lock()()
	if _, ok := s.state.templates[item.TemplateID]; !ok {
		return store.ErrNotFound
	}
	stamp(&item.BaseModel)
	s.state.templateItems[item.ID] = *item
	return nil
}

func (s *Store) GetTemplateItem(ctx context.Context, id uuid.UUID) (*models.ITPTemplateItem, error) {
	defer s.rlock()()
	item, ok := s.state.templateItems[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &item, nil
}

func (s *Store) UpdateTemplateItem(ctx context.Context, item *models.ITPTemplateItem) error {
	defer s.lock()()
	if _, ok := s.state.templateItems[item.ID]; !ok {
		return store.ErrNotFound
	}
	item.UpdatedAt = time.Now()
	s.state.templateItems[item.ID] = *item
	return nil
}

// Instances

func (s *Store) CreateInstance(ctx context.Context, instance *models.ITP) error {
	defer s.lock()()
	stamp(&instance.BaseModel)
	stored := *instance
	stored.Items = nil
	s.state.instances[instance.ID] = stored
	return nil
}

func (s *Store) CreateInstanceItems(ctx context.Context, items []models.ITPItem) error {
	defer s.lock()()
	for i := range items {
		if _, ok := s.state.instances[items[i].ITPID]; !ok {
			return store.ErrNotFound
		}
		stamp(&items[i].BaseModel)
		s.state.instanceItems[items[i].ID] = items[i]
	}
	return nil
}

func (s *Store) instanceItemsFor(instanceID uuid.UUID) []models.ITPItem {
	var items []models.ITPItem
	for _, item := range s.state.instanceItems {
		if item.ITPID == instanceID {
			items = append(items, item)
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].SortOrder < items[j].SortOrder })
	return items
}

func (s *Store) GetInstance(ctx context.Context, id uuid.UUID) (*models.ITP, error) {
	defer s.rlock()()
	instance, ok := s.state.instances[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	instance.Items = s.instanceItemsFor(id)
	return &instance, nil
}

func (s *Store) ListInstances(ctx context.Context, filter store.InstanceFilter, params store.ListParams) ([]models.ITP, int64, error) {
	defer s.rlock()()
	var instances []models.ITP
	for _, instance := range s.state.instances {
		if filter.ProjectID != nil {
			if instance.ProjectID == nil || *instance.ProjectID != *filter.ProjectID {
				continue
			}
		}
		if filter.LotID != nil {
			if instance.LotID == nil || *instance.LotID != *filter.LotID {
				continue
			}
		}
		if filter.Status != nil && instance.Status != *filter.Status {
			continue
		}
		instances = append(instances, instance)
	}
	sortByCreated(instances, func(i models.ITP) time.Time { return i.CreatedAt }, params.Order)
	page, total := paginate(instances, params)
	return page, total, nil
}

func (s *Store) UpdateInstance(ctx context.Context, instance *models.ITP) error {
	defer s.lock()()
	if _, ok := s.state.instances[instance.ID]; !ok {
		return store.ErrNotFound
	}
	instance.UpdatedAt = time.Now()
	stored := *instance
	stored.Items = nil
	s.state.instances[instance.ID] = stored
	return nil
}

func (s *Store) GetInstanceItem(ctx context.Context, id uuid.UUID) (*models.ITPItem, error) {
	defer s.rlock()()
	item, ok := s.state.instanceItems[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &item, nil
}

func (s *Store) UpdateInstanceItem(ctx context.Context, item *models.ITPItem) error {
	defer s.lock()()
	if _, ok := s.state.instanceItems[item.ID]; !ok {
		return store.ErrNotFound
	}
	item.UpdatedAt = time.Now()
	s.state.instanceItems[item.ID] = *item
	return nil
}

func (s *Store) CountInstanceItems(ctx context.Context, instanceID uuid.UUID) (int64, error) {
	defer s.rlock()()
	var count int64
	for _, item := range s.state.instanceItems {
		if item.ITPID == instanceID {
			count++
		}
	}
	return count, nil
}

func (s *Store) CountInstanceItemStatuses(ctx context.Context, instanceID uuid.UUID) (map[models.ItemStatus]int64, error) {
	defer s.rlock()()
	counts := map[models.ItemStatus]int64{}
	for _, item := range s.state.instanceItems {
		if item.ITPID == instanceID {
			counts[item.Status]++
		}
	}
	return counts, nil
}

// Assignments

func (s *Store) CreateAssignment(ctx context.Context, assignment *models.LotAssignment) error {
	defer s.lock()()
	for _, existing := range s.state.assignments {
		if existing.LotID == assignment.LotID && existing.TemplateID == assignment.TemplateID {
			return store.ErrDuplicate
		}
	}
	stamp(&assignment.BaseModel)
	stored := *assignment
	stored.Template = nil
	s.state.assignments[assignment.ID] = stored
	return nil
}

func (s *Store) GetAssignment(ctx context.Context, id uuid.UUID) (*models.LotAssignment, error) {
	defer s.rlock()()
	assignment, ok := s.state.assignments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &assignment, nil
}

func (s *Store) GetAssignmentByPair(ctx context.Context, lotID, templateID uuid.UUID) (*models.LotAssignment, error) {
	defer s.rlock()()
	for _, assignment := range s.state.assignments {
		if assignment.LotID == lotID && assignment.TemplateID == templateID {
			a := assignment
			return &a, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListAssignments(ctx context.Context, lotID uuid.UUID, statuses []models.AssignmentStatus, params store.ListParams) ([]models.LotAssignment, int64, error) {
	defer s.rlock()()
	var assignments []models.LotAssignment
	for _, assignment := range s.state.assignments {
		if assignment.LotID != lotID {
			continue
		}
		match := false
		for _, status := range statuses {
			if assignment.Status == status {
				match = true
				break
			}
		}
		if !match {
			continue
		}
		if template, ok := s.state.templates[assignment.TemplateID]; ok {
			t := template
			assignment.Template = &t
		}
		assignments = append(assignments, assignment)
	}
	sortByCreated(assignments, func(a models.LotAssignment) time.Time { return a.CreatedAt }, params.Order)
	page, total := paginate(assignments, params)
	return page, total, nil
}

func (s *Store) UpdateAssignment(ctx context.Context, assignment *models.LotAssignment) error {
	defer s.lock()()
	if _, ok := s.state.assignments[assignment.ID]; !ok {
		return store.ErrNotFound
	}
	assignment.UpdatedAt = time.Now()
	stored := *assignment
	stored.Template = nil
	s.state.assignments[assignment.ID] = stored
	return nil
}

// Conformance records

func (s *Store) UpsertConformanceRecord(ctx context.Context, record *models.ConformanceRecord) error {
	defer s.lock()()
	key := conformanceKey(record.LotID, record.ITPItemID)
	if existing, ok := s.state.conformance[key]; ok {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
	} else {
		stamp(&record.BaseModel)
	}
	record.UpdatedAt = time.Now()
	s.state.conformance[key] = *record
	return nil
}

func (s *Store) GetConformanceRecord(ctx context.Context, lotID, itemID uuid.UUID) (*models.ConformanceRecord, error) {
	defer s.rlock()()
	record, ok := s.state.conformance[conformanceKey(lotID, itemID)]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &record, nil
}

func (s *Store) ListConformanceRecords(ctx context.Context, lotID uuid.UUID, params store.ListParams) ([]models.ConformanceRecord, int64, error) {
	defer s.rlock()()
	var records []models.ConformanceRecord
	for _, record := range s.state.conformance {
		if record.LotID == lotID {
			records = append(records, record)
		}
	}
	sortByCreated(records, func(r models.ConformanceRecord) time.Time { return r.CreatedAt }, params.Order)
	page, total := paginate(records, params)
	return page, total, nil
}

func (s *Store) CountConformanceResults(ctx context.Context, lotID, instanceID uuid.UUID) (map[models.ConformanceResult]int64, error) {
	defer s.rlock()()
	counts := map[models.ConformanceResult]int64{}
	for _, record := range s.state.conformance {
		if record.LotID != lotID {
			continue
		}
		item, ok := s.state.instanceItems[record.ITPItemID]
		if !ok || item.ITPID != instanceID {
			continue
		}
		counts[record.Result]++
	}
	return counts, nil
}

// Site diaries

func (s *Store) CreateDiary(ctx context.Context, diary *models.SiteDiary) error {
	defer s.lock()()
	stamp(&diary.BaseModel)
	s.state.diaries[diary.ID] = *diary
	return nil
}

func (s *Store) GetDiary(ctx context.Context, id uuid.UUID) (*models.SiteDiary, error) {
	defer s.rlock()()
	diary, ok := s.state.diaries[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &diary, nil
}

func (s *Store) ListDiaries(ctx context.Context, lotID uuid.UUID, params store.ListParams) ([]models.SiteDiary, int64, error) {
	defer s.rlock()()
	var diaries []models.SiteDiary
	for _, diary := range s.state.diaries {
		if diary.LotID == lotID {
			diaries = append(diaries, diary)
		}
	}
	sortByCreated(diaries, func(d models.SiteDiary) time.Time { return d.DiaryDate }, params.Order)
	page, total := paginate(diaries, params)
	return page, total, nil
}

func (s *Store) UpdateDiary(ctx context.Context, diary *models.SiteDiary) error {
	defer s.lock()()
	if _, ok := s.state.diaries[diary.ID]; !ok {
		return store.ErrNotFound
	}
	diary.UpdatedAt = time.Now()
	s.state.diaries[diary.ID] = *diary
	return nil
}

func (s *Store) DeleteDiary(ctx context.Context, id uuid.UUID) error {
	defer s.lock()()
	if _, ok := s.state.diaries[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.state.diaries, id)
	return nil
}

// Dockets

func (s *Store) CreateDocket(ctx context.Context, docket *models.Docket) error {
	defer s.lock()()
	stamp(&docket.BaseModel)
	s.state.dockets[docket.ID] = *docket
	return nil
}

func (s *Store) GetDocket(ctx context.Context, id uuid.UUID) (*models.Docket, error) {
	defer s.rlock()()
	docket, ok := s.state.dockets[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &docket, nil
}

func (s *Store) ListDockets(ctx context.Context, lotID uuid.UUID, docketType *models.DocketType, params store.ListParams) ([]models.Docket, int64, error) {
	defer s.rlock()()
	var dockets []models.Docket
	for _, docket := range s.state.dockets {
		if docket.LotID != lotID {
			continue
		}
		if docketType != nil && docket.DocketType != *docketType {
			continue
		}
		dockets = append(dockets, docket)
	}
	sortByCreated(dockets, func(d models.Docket) time.Time { return d.DocketDate }, params.Order)
	page, total := paginate(dockets, params)
	return page, total, nil
}

func (s *Store) UpdateDocket(ctx context.Context, docket *models.Docket) error {
	defer s.lock()()
	if _, ok := s.state.dockets[docket.ID]; !ok {
		return store.ErrNotFound
	}
	docket.UpdatedAt = time.Now()
	s.state.dockets[docket.ID] = *docket
	return nil
}

func (s *Store) DeleteDocket(ctx context.Context, id uuid.UUID) error {
	defer s.lock()()
	if _, ok := s.state.dockets[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.state.dockets, id)
	return nil
}

// Notifications and audit

func (s *Store) CreateNotification(ctx context.Context, notification *models.Notification) error {
	defer s.lock()()
	stamp(&notification.BaseModel)
	s.state.notifications[notification.ID] = *notification
	return nil
}

func (s *Store) ListNotifications(ctx context.Context, projectID *uuid.UUID, params store.ListParams) ([]models.Notification, int64, error) {
	defer s.rlock()()
	var notifications []models.Notification
	for _, notification := range s.state.notifications {
		if projectID != nil {
			if notification.ProjectID == nil || *notification.ProjectID != *projectID {
				continue
			}
		}
		notifications = append(notifications, notification)
	}
	sortByCreated(notifications, func(n models.Notification) time.Time { return n.CreatedAt }, params.Order)
	page, total := paginate(notifications, params)
	return page, total, nil
}

func (s *Store) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	defer s.lock()()
	stamp(&entry.BaseModel)
	s.state.auditLogs[entry.ID] = *entry
	return nil
}
