// internal/services/assignment_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitewise/siteqa-backend/internal/apperr"
	"github.com/sitewise/siteqa-backend/internal/models"
	"github.com/sitewise/siteqa-backend/internal/store"
)

func TestAssignTemplateToLot(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAssignmentService(env.store)

	assignment, err := svc.AssignTemplateToLot(env.ctx, env.user.ID, &AssignTemplateRequest{
		LotID:      env.lot.ID,
		TemplateID: env.template.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusPending, assignment.Status)
	assert.Equal(t, env.lot.ID, assignment.LotID)
	assert.Equal(t, env.template.ID, assignment.TemplateID)
}

func TestAssignTemplateToLotIdempotent(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAssignmentService(env.store)
	req := &AssignTemplateRequest{LotID: env.lot.ID, TemplateID: env.template.ID}

	first, err := svc.AssignTemplateToLot(env.ctx, env.user.ID, req)
	require.NoError(t, err)

	second, err := svc.AssignTemplateToLot(env.ctx, env.user.ID, req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Status, second.Status)

	_, total, err := svc.ListAssignments(env.ctx, env.lot.ID, nil, store.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestRemoveAndReassignReactivatesSameRow(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAssignmentService(env.store)
	req := &AssignTemplateRequest{LotID: env.lot.ID, TemplateID: env.template.ID}

	original, err := svc.AssignTemplateToLot(env.ctx, env.user.ID, req)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveAssignment(env.ctx, original.ID))

	// Deactivated rows never show up in listings.
	_, total, err := svc.ListAssignments(env.ctx, env.lot.ID, nil, store.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	// Removal is idempotent.
	require.NoError(t, svc.RemoveAssignment(env.ctx, original.ID))

	reassigned, err := svc.AssignTemplateToLot(env.ctx, env.user.ID, req)
	require.NoError(t, err)
	assert.Equal(t, original.ID, reassigned.ID)
	assert.Equal(t, models.AssignmentStatusPending, reassigned.Status)
}

func TestListAssignmentsDefaultsToLiveStatuses(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAssignmentService(env.store)

	assignment, err := svc.AssignTemplateToLot(env.ctx, env.user.ID, &AssignTemplateRequest{
		LotID:      env.lot.ID,
		TemplateID: env.template.ID,
	})
	require.NoError(t, err)

	listed, total, err := svc.ListAssignments(env.ctx, env.lot.ID, nil, store.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, listed, 1)
	assert.Equal(t, assignment.ID, listed[0].ID)

	// Explicit live filter works.
	listed, _, err = svc.ListAssignments(env.ctx, env.lot.ID, []string{"pending", "approved"}, store.ListParams{})
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	// Filtering on a non-live status is rejected outright.
	_, _, err = svc.ListAssignments(env.ctx, env.lot.ID, []string{"deactivated"}, store.ListParams{})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

	_, _, err = svc.ListAssignments(env.ctx, env.lot.ID, []string{"bogus"}, store.ListParams{})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
}

func TestUpdateAssignmentStatusForwardOnly(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAssignmentService(env.store)

	assignment, err := svc.AssignTemplateToLot(env.ctx, env.user.ID, &AssignTemplateRequest{
		LotID:      env.lot.ID,
		TemplateID: env.template.ID,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateAssignmentStatus(env.ctx, assignment.ID, &UpdateAssignmentStatusRequest{Status: "in_progress"})
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusInProgress, updated.Status)

	updated, err = svc.UpdateAssignmentStatus(env.ctx, assignment.ID, &UpdateAssignmentStatusRequest{Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusApproved, updated.Status)

	// Backward transition is an integrity violation.
	_, err = svc.UpdateAssignmentStatus(env.ctx, assignment.ID, &UpdateAssignmentStatusRequest{Status: "pending"})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeIntegrity, apperr.CodeOf(err))
}

func TestUpdateAssignmentStatusOnDeactivatedRejected(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAssignmentService(env.store)

	assignment, err := svc.AssignTemplateToLot(env.ctx, env.user.ID, &AssignTemplateRequest{
		LotID:      env.lot.ID,
		TemplateID: env.template.ID,
	})
	require.NoError(t, err)
	require.NoError(t, svc.RemoveAssignment(env.ctx, assignment.ID))

	_, err = svc.UpdateAssignmentStatus(env.ctx, assignment.ID, &UpdateAssignmentStatusRequest{Status: "in_progress"})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeIntegrity, apperr.CodeOf(err))
}

func TestAssignUnknownLotOrTemplate(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAssignmentService(env.store)

	_, err := svc.AssignTemplateToLot(env.ctx, env.user.ID, &AssignTemplateRequest{
		LotID:      uuid.New(),
		TemplateID: env.template.ID,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	_, err = svc.AssignTemplateToLot(env.ctx, env.user.ID, &AssignTemplateRequest{
		LotID:      env.lot.ID,
		TemplateID: uuid.New(),
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}
