// internal/services/setup_test.go
package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/sitewise/siteqa-backend/internal/config"
	"github.com/sitewise/siteqa-backend/internal/models"
	"github.com/sitewise/siteqa-backend/internal/store"
	"github.com/sitewise/siteqa-backend/internal/store/memstore"
)

// Polling bounds for assertions on work done off the request path.
const (
	waitFor   = 2 * time.Second
	pollEvery = 10 * time.Millisecond
)

// emptyEmailConfig disables SMTP delivery in tests.
func emptyEmailConfig() config.EmailConfig {
	return config.EmailConfig{}
}

// testEnv bundles an in-memory store with pre-seeded records that most
// service tests need: a user, a project, a lot and a five-item template.
type testEnv struct {
	store    store.Store
	ctx      context.Context
	user     *models.User
	project  *models.Project
	lot      *models.Lot
	template *models.ITPTemplate
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	st := memstore.New()

	user := &models.User{
		Name:   "Test Inspector",
		Email:  "inspector@example.com",
		Role:   models.UserRoleInspector,
		Status: models.UserStatusActive,
	}
	require.NoError(t, user.SetPassword("Passw0rd123"))
	require.NoError(t, st.CreateUser(ctx, user))

	project := &models.Project{
		Name:          "Highway Upgrade",
		ProjectNumber: "PRJ-001",
		Status:        models.ProjectStatusActive,
	}
	require.NoError(t, st.CreateProject(ctx, project))

	lot := &models.Lot{
		ProjectID: project.ID,
		LotNumber: "LOT-001",
		Status:    models.LotStatusOpen,
	}
	require.NoError(t, st.CreateLot(ctx, lot))

	template := &models.ITPTemplate{
		Name:     "Concrete Works",
		Category: "structural",
		Version:  1,
		IsActive: true,
	}
	for i := 1; i <= 5; i++ {
		template.Items = append(template.Items, models.ITPTemplateItem{
			ItemNumber:  itemNumber(i),
			Description: "Checkpoint " + itemNumber(i),
			IsMandatory: true,
			SortOrder:   i,
		})
	}
	require.NoError(t, st.CreateTemplate(ctx, template))

	return &testEnv{
		store:    st,
		ctx:      ctx,
		user:     user,
		project:  project,
		lot:      lot,
		template: template,
	}
}

func itemNumber(i int) string {
	return string(rune('0'+i)) + ".0"
}

// newLot adds an extra lot to the environment's project.
func (e *testEnv) newLot(t *testing.T, number string) *models.Lot {
	t.Helper()
	lot := &models.Lot{
		ProjectID: e.project.ID,
		LotNumber: number,
		Status:    models.LotStatusOpen,
	}
	require.NoError(t, e.store.CreateLot(e.ctx, lot))
	return lot
}

// instantiate creates an instance of the default template on the given
// lot and returns it with items loaded.
func (e *testEnv) instantiate(t *testing.T, lotID uuid.UUID) *models.ITP {
	t.Helper()
	svc := NewITPService(e.store)
	instance, err := svc.CreateFromTemplate(e.ctx, e.user.ID, &CreateFromTemplateRequest{
		TemplateID: e.template.ID,
		LotID:      &lotID,
	})
	require.NoError(t, err)
	require.Len(t, instance.Items, len(e.template.Items))
	return instance
}
