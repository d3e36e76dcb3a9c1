// internal/services/itp_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitewise/siteqa-backend/internal/apperr"
	"github.com/sitewise/siteqa-backend/internal/models"
)

func TestCreateFromTemplateCopiesAllItems(t *testing.T) {
	env := newTestEnv(t)
	svc := NewITPService(env.store)

	instance, err := svc.CreateFromTemplate(env.ctx, env.user.ID, &CreateFromTemplateRequest{
		TemplateID: env.template.ID,
		LotID:      &env.lot.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, env.template.Name, instance.Name)
	assert.Equal(t, env.template.Category, instance.Category)
	assert.Equal(t, models.InstanceStatusDraft, instance.Status)
	require.NotNil(t, instance.TemplateID)
	assert.Equal(t, env.template.ID, *instance.TemplateID)
	require.NotNil(t, instance.ProjectID)
	assert.Equal(t, env.project.ID, *instance.ProjectID)

	require.Len(t, instance.Items, 5)
	for i, item := range instance.Items {
		source := env.template.Items[i]
		assert.Equal(t, source.Description, item.Description)
		assert.Equal(t, source.SortOrder, item.SortOrder)
		assert.Equal(t, models.ItemStatusPending, item.Status)
		require.NotNil(t, item.TemplateItemID)
		assert.Equal(t, source.ID, *item.TemplateItemID)
	}
}

func TestCreateFromTemplateMissingTemplate(t *testing.T) {
	env := newTestEnv(t)
	svc := NewITPService(env.store)

	_, err := svc.CreateFromTemplate(env.ctx, env.user.ID, &CreateFromTemplateRequest{
		TemplateID: uuid.New(),
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestCreateFromTemplateMissingLot(t *testing.T) {
	env := newTestEnv(t)
	svc := NewITPService(env.store)

	missing := uuid.New()
	_, err := svc.CreateFromTemplate(env.ctx, env.user.ID, &CreateFromTemplateRequest{
		TemplateID: env.template.ID,
		LotID:      &missing,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestCreateFromTemplateLinksAssignment(t *testing.T) {
	env := newTestEnv(t)
	instance := env.instantiate(t, env.lot.ID)

	assignment, err := env.store.GetAssignmentByPair(env.ctx, env.lot.ID, env.template.ID)
	require.NoError(t, err)
	require.NotNil(t, assignment.InstanceID)
	assert.Equal(t, instance.ID, *assignment.InstanceID)
	assert.Equal(t, models.AssignmentStatusPending, assignment.Status)
}

func TestTemplateEditsDoNotReachInstance(t *testing.T) {
	env := newTestEnv(t)
	instance := env.instantiate(t, env.lot.ID)

	templateSvc := NewTemplateService(env.store)
	newName := "Concrete Works (revised)"
	_, err := templateSvc.UpdateTemplate(env.ctx, env.template.ID, &UpdateTemplateRequest{Name: &newName})
	require.NoError(t, err)

	firstItem := env.template.Items[0]
	_, err = templateSvc.UpdateTemplateItem(env.ctx, env.template.ID, firstItem.ID, &CreateTemplateItemRequest{
		ItemNumber:  firstItem.ItemNumber,
		Description: "Changed after instantiation",
	})
	require.NoError(t, err)

	itpSvc := NewITPService(env.store)
	reloaded, err := itpSvc.GetInstance(env.ctx, instance.ID)
	require.NoError(t, err)
	assert.Equal(t, "Concrete Works", reloaded.Name)
	assert.Equal(t, firstItem.Description, reloaded.Items[0].Description)
}

func TestUpdateItemWrongInstanceRejected(t *testing.T) {
	env := newTestEnv(t)
	instance := env.instantiate(t, env.lot.ID)

	otherLot := env.newLot(t, "LOT-002")
	other := env.instantiate(t, otherLot.ID)

	svc := NewITPService(env.store)
	_, err := svc.UpdateItem(env.ctx, instance.ID, other.Items[0].ID, env.user.ID, &UpdateItemRequest{Status: "pass"})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeIntegrity, apperr.CodeOf(err))
}

func TestUpdateItemDerivesInstanceStatus(t *testing.T) {
	env := newTestEnv(t)
	instance := env.instantiate(t, env.lot.ID)
	svc := NewITPService(env.store)

	// First result moves the instance out of draft.
	_, err := svc.UpdateItem(env.ctx, instance.ID, instance.Items[0].ID, env.user.ID, &UpdateItemRequest{Status: "pass"})
	require.NoError(t, err)

	reloaded, err := svc.GetInstance(env.ctx, instance.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InstanceStatusInProgress, reloaded.Status)

	// All items terminal completes the instance.
	for _, item := range instance.Items[1:] {
		_, err := svc.UpdateItem(env.ctx, instance.ID, item.ID, env.user.ID, &UpdateItemRequest{Status: "na"})
		require.NoError(t, err)
	}

	reloaded, err = svc.GetInstance(env.ctx, instance.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InstanceStatusCompleted, reloaded.Status)

	// Reverting an item to pending drops it back to in_progress.
	_, err = svc.UpdateItem(env.ctx, instance.ID, instance.Items[0].ID, env.user.ID, &UpdateItemRequest{Status: "pending"})
	require.NoError(t, err)

	reloaded, err = svc.GetInstance(env.ctx, instance.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InstanceStatusInProgress, reloaded.Status)
}
