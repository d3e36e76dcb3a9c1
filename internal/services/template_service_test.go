// internal/services/template_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitewise/siteqa-backend/internal/apperr"
	"github.com/sitewise/siteqa-backend/internal/store"
)

func TestCreateTemplateWithItems(t *testing.T) {
	env := newTestEnv(t)
	svc := NewTemplateService(env.store)

	template, err := svc.CreateTemplate(env.ctx, env.user.ID, &CreateTemplateRequest{
		Name:     "Asphalt Paving",
		Category: "pavement",
		Items: []CreateTemplateItemRequest{
			{Description: "Check tack coat coverage"},
			{Description: "Verify mat temperature", ItemNumber: "2.0"},
		},
	})
	require.NoError(t, err)
	assert.True(t, template.IsActive)
	assert.Equal(t, 1, template.Version)
	require.Len(t, template.Items, 2)
	// Sort order defaults to list position.
	assert.Equal(t, 1, template.Items[0].SortOrder)
	assert.Equal(t, 2, template.Items[1].SortOrder)
	assert.True(t, template.Items[0].IsMandatory)
}

func TestCreateTemplateEmptyNameRejected(t *testing.T) {
	env := newTestEnv(t)
	svc := NewTemplateService(env.store)

	_, err := svc.CreateTemplate(env.ctx, env.user.ID, &CreateTemplateRequest{Name: ""})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
}

func TestDeactivateTemplateHidesFromActiveListing(t *testing.T) {
	env := newTestEnv(t)
	svc := NewTemplateService(env.store)

	require.NoError(t, svc.DeactivateTemplate(env.ctx, env.template.ID))
	// Idempotent.
	require.NoError(t, svc.DeactivateTemplate(env.ctx, env.template.ID))

	active, _, err := svc.ListTemplates(env.ctx, &ListTemplatesRequest{ActiveOnly: true}, store.ListParams{})
	require.NoError(t, err)
	assert.Empty(t, active)

	all, _, err := svc.ListTemplates(env.ctx, &ListTemplatesRequest{}, store.ListParams{})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	// A deactivated template can no longer be assigned or instantiated.
	assignmentSvc := NewAssignmentService(env.store)
	_, err = assignmentSvc.AssignTemplateToLot(env.ctx, env.user.ID, &AssignTemplateRequest{
		LotID:      env.lot.ID,
		TemplateID: env.template.ID,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
}

func TestUpdateTemplateBumpsVersion(t *testing.T) {
	env := newTestEnv(t)
	svc := NewTemplateService(env.store)

	description := "Updated scope"
	updated, err := svc.UpdateTemplate(env.ctx, env.template.ID, &UpdateTemplateRequest{Description: &description})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, description, updated.Description)
}

func TestAddTemplateItemAppends(t *testing.T) {
	env := newTestEnv(t)
	svc := NewTemplateService(env.store)

	item, err := svc.AddTemplateItem(env.ctx, env.template.ID, &CreateTemplateItemRequest{
		Description: "Final surface tolerance check",
	})
	require.NoError(t, err)
	assert.Equal(t, 6, item.SortOrder)

	template, err := svc.GetTemplate(env.ctx, env.template.ID)
	require.NoError(t, err)
	assert.Len(t, template.Items, 6)
}

func TestUpdateTemplateItemWrongTemplateRejected(t *testing.T) {
	env := newTestEnv(t)
	svc := NewTemplateService(env.store)

	other, err := svc.CreateTemplate(env.ctx, env.user.ID, &CreateTemplateRequest{
		Name:  "Other Checklist",
		Items: []CreateTemplateItemRequest{{Description: "Only item"}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateTemplateItem(env.ctx, env.template.ID, other.Items[0].ID, &CreateTemplateItemRequest{
		Description: "Hijacked",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeIntegrity, apperr.CodeOf(err))
}
