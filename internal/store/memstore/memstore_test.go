// internal/store/memstore/memstore_test.go
package memstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitewise/siteqa-backend/internal/models"
	"github.com/sitewise/siteqa-backend/internal/store"
)

func seedProject(t *testing.T, s *Store, number string) *models.Project {
	t.Helper()
	project := &models.Project{Name: "Highway Upgrade", ProjectNumber: number}
	require.NoError(t, s.CreateProject(context.Background(), project))
	return project
}

func seedLot(t *testing.T, s *Store, projectID uuid.UUID, number string) *models.Lot {
	t.Helper()
	lot := &models.Lot{ProjectID: projectID, LotNumber: number, Status: models.LotStatusOpen}
	require.NoError(t, s.CreateLot(context.Background(), lot))
	return lot
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := New()
	ctx := context.Background()

	first := &models.User{Name: "Ann", Email: "ann@example.com", Role: models.UserRoleInspector}
	require.NoError(t, s.CreateUser(ctx, first))

	second := &models.User{Name: "Other Ann", Email: "ANN@example.com", Role: models.UserRoleViewer}
	err := s.CreateUser(ctx, second)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestCreateProjectDuplicateNumber(t *testing.T) {
	s := New()
	seedProject(t, s, "PRJ-100")

	err := s.CreateProject(context.Background(), &models.Project{Name: "Copy", ProjectNumber: "PRJ-100"})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestCreateAssignmentDuplicatePair(t *testing.T) {
	s := New()
	ctx := context.Background()
	project := seedProject(t, s, "PRJ-100")
	lot := seedLot(t, s, project.ID, "LOT-100")

	template := &models.ITPTemplate{Name: "Earthworks", IsActive: true, Version: 1}
	require.NoError(t, s.CreateTemplate(ctx, template))

	require.NoError(t, s.CreateAssignment(ctx, &models.LotAssignment{
		LotID: lot.ID, TemplateID: template.ID, Status: models.AssignmentStatusPending,
	}))

	err := s.CreateAssignment(ctx, &models.LotAssignment{
		LotID: lot.ID, TemplateID: template.ID, Status: models.AssignmentStatusPending,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrDuplicate)

	// Other pairs are unaffected.
	otherLot := seedLot(t, s, project.ID, "LOT-101")
	require.NoError(t, s.CreateAssignment(ctx, &models.LotAssignment{
		LotID: otherLot.ID, TemplateID: template.ID, Status: models.AssignmentStatusPending,
	}))
}

func TestGetAssignmentByPairMissing(t *testing.T) {
	s := New()
	assignment, err := s.GetAssignmentByPair(context.Background(), uuid.New(), uuid.New())
	assert.Nil(t, assignment)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	s := New()
	ctx := context.Background()
	project := seedProject(t, s, "PRJ-100")

	boom := errors.New("boom")
	err := s.WithTransaction(ctx, func(tx store.Store) error {
		if err := tx.CreateLot(ctx, &models.Lot{ProjectID: project.ID, LotNumber: "LOT-1"}); err != nil {
			return err
		}
		project.Name = "Renamed"
		if err := tx.UpdateProject(ctx, project); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// Everything written inside the failed transaction is gone.
	lots, total, err := s.ListLots(ctx, &project.ID, store.ListParams{})
	require.NoError(t, err)
	assert.Empty(t, lots)
	assert.Zero(t, total)

	reloaded, err := s.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Highway Upgrade", reloaded.Name)
}

func TestWithTransactionCommits(t *testing.T) {
	s := New()
	ctx := context.Background()
	project := seedProject(t, s, "PRJ-100")

	err := s.WithTransaction(ctx, func(tx store.Store) error {
		return tx.CreateLot(ctx, &models.Lot{ProjectID: project.ID, LotNumber: "LOT-1"})
	})
	require.NoError(t, err)

	lots, total, err := s.ListLots(ctx, &project.ID, store.ListParams{})
	require.NoError(t, err)
	assert.Len(t, lots, 1)
	assert.EqualValues(t, 1, total)
}

func TestNestedTransactionJoinsOuter(t *testing.T) {
	s := New()
	ctx := context.Background()
	project := seedProject(t, s, "PRJ-100")

	boom := errors.New("boom")
	err := s.WithTransaction(ctx, func(tx store.Store) error {
		if err := tx.CreateLot(ctx, &models.Lot{ProjectID: project.ID, LotNumber: "LOT-1"}); err != nil {
			return err
		}
		// The inner transaction joins the outer one rather than
		// committing independently.
		if err := tx.WithTransaction(ctx, func(inner store.Store) error {
			return inner.CreateLot(ctx, &models.Lot{ProjectID: project.ID, LotNumber: "LOT-2"})
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	lots, _, err := s.ListLots(ctx, &project.ID, store.ListParams{})
	require.NoError(t, err)
	assert.Empty(t, lots)
}

func TestUpsertConformanceRecordKeepsIdentity(t *testing.T) {
	s := New()
	ctx := context.Background()
	lotID := uuid.New()
	itemID := uuid.New()

	first := &models.ConformanceRecord{
		LotID:     lotID,
		ITPItemID: itemID,
		Result:    models.ConformanceResultPass,
	}
	require.NoError(t, s.UpsertConformanceRecord(ctx, first))
	require.NotEqual(t, uuid.Nil, first.ID)

	time.Sleep(5 * time.Millisecond)

	second := &models.ConformanceRecord{
		LotID:            lotID,
		ITPItemID:        itemID,
		Result:           models.ConformanceResultFail,
		IsNonConformance: true,
	}
	require.NoError(t, s.UpsertConformanceRecord(ctx, second))

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))

	stored, err := s.GetConformanceRecord(ctx, lotID, itemID)
	require.NoError(t, err)
	assert.Equal(t, models.ConformanceResultFail, stored.Result)
	assert.True(t, stored.IsNonConformance)

	records, total, err := s.ListConformanceRecords(ctx, lotID, store.ListParams{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.EqualValues(t, 1, total)
}

func TestCountInstanceItemStatuses(t *testing.T) {
	s := New()
	ctx := context.Background()

	instance := &models.ITP{Name: "Concrete Pour", Status: models.InstanceStatusDraft}
	require.NoError(t, s.CreateInstance(ctx, instance))

	items := []models.ITPItem{
		{ITPID: instance.ID, Description: "a", Status: models.ItemStatusPass},
		{ITPID: instance.ID, Description: "b", Status: models.ItemStatusPass},
		{ITPID: instance.ID, Description: "c", Status: models.ItemStatusFail},
		{ITPID: instance.ID, Description: "d", Status: models.ItemStatusPending},
	}
	require.NoError(t, s.CreateInstanceItems(ctx, items))

	counts, err := s.CountInstanceItemStatuses(ctx, instance.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[models.ItemStatusPass])
	assert.EqualValues(t, 1, counts[models.ItemStatusFail])
	assert.EqualValues(t, 1, counts[models.ItemStatusPending])

	total, err := s.CountInstanceItems(ctx, instance.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
}

func TestGetInstanceReturnsItemsInSortOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	instance := &models.ITP{Name: "Drainage", Status: models.InstanceStatusDraft}
	require.NoError(t, s.CreateInstance(ctx, instance))
	require.NoError(t, s.CreateInstanceItems(ctx, []models.ITPItem{
		{ITPID: instance.ID, Description: "third", SortOrder: 3, Status: models.ItemStatusPending},
		{ITPID: instance.ID, Description: "first", SortOrder: 1, Status: models.ItemStatusPending},
		{ITPID: instance.ID, Description: "second", SortOrder: 2, Status: models.ItemStatusPending},
	}))

	loaded, err := s.GetInstance(ctx, instance.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 3)
	assert.Equal(t, "first", loaded.Items[0].Description)
	assert.Equal(t, "second", loaded.Items[1].Description)
	assert.Equal(t, "third", loaded.Items[2].Description)
}

func TestPaginationDefaultsAndBounds(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		seedProject(t, s, fmt.Sprintf("PRJ-%03d", i))
	}

	// Zero-valued params fall back to page 1, limit 20.
	page, total, err := s.ListProjects(ctx, store.ListParams{})
	require.NoError(t, err)
	assert.Len(t, page, 20)
	assert.EqualValues(t, 25, total)

	page, total, err = s.ListProjects(ctx, store.ListParams{Page: 2})
	require.NoError(t, err)
	assert.Len(t, page, 5)
	assert.EqualValues(t, 25, total)

	// Past the end yields an empty page, not an error.
	page, _, err = s.ListProjects(ctx, store.ListParams{Page: 9})
	require.NoError(t, err)
	assert.Empty(t, page)

	// Limits above the cap collapse to the default.
	page, _, err = s.ListProjects(ctx, store.ListParams{Limit: 500})
	require.NoError(t, err)
	assert.Len(t, page, 20)
}

func TestGetUserByEmailCaseInsensitive(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, &models.User{Name: "Ann", Email: "ann@example.com", Role: models.UserRoleInspector}))

	user, err := s.GetUserByEmail(ctx, "Ann@Example.COM")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", user.Email)

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
