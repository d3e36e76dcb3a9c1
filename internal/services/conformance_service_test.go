// internal/services/conformance_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitewise/siteqa-backend/internal/apperr"
	"github.com/sitewise/siteqa-backend/internal/models"
	"github.com/sitewise/siteqa-backend/internal/store"
)

func TestRecordResultCreatesRecordAndMirrorsItem(t *testing.T) {
	env := newTestEnv(t)
	instance := env.instantiate(t, env.lot.ID)
	svc := NewConformanceService(env.store, nil)

	record, err := svc.RecordResult(env.ctx, env.user.ID, &RecordResultRequest{
		LotID:     env.lot.ID,
		ITPItemID: instance.Items[0].ID,
		Result:    "PASS",
		Comments:  "compacted to spec",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ConformanceResultPass, record.Result)
	assert.False(t, record.IsNonConformance)

	item, err := env.store.GetInstanceItem(env.ctx, instance.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusPass, item.Status)
	require.NotNil(t, item.InspectedBy)
	assert.Equal(t, env.user.ID, *item.InspectedBy)
	assert.Equal(t, "compacted to spec", item.InspectionNotes)
}

func TestRecordResultUpsertsLastWriteWins(t *testing.T) {
	env := newTestEnv(t)
	instance := env.instantiate(t, env.lot.ID)
	svc := NewConformanceService(env.store, nil)

	first, err := svc.RecordResult(env.ctx, env.user.ID, &RecordResultRequest{
		LotID:     env.lot.ID,
		ITPItemID: instance.Items[0].ID,
		Result:    "PASS",
	})
	require.NoError(t, err)

	second, err := svc.RecordResult(env.ctx, env.user.ID, &RecordResultRequest{
		LotID:     env.lot.ID,
		ITPItemID: instance.Items[0].ID,
		Result:    "FAIL",
		Comments:  "crack observed on re-inspection",
	})
	require.NoError(t, err)

	// Same row, updated in place.
	assert.Equal(t, first.ID, second.ID)

	stored, err := svc.GetRecord(env.ctx, env.lot.ID, instance.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConformanceResultFail, stored.Result)
	assert.True(t, stored.IsNonConformance)

	_, total, err := svc.ListRecords(env.ctx, env.lot.ID, store.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	item, err := env.store.GetInstanceItem(env.ctx, instance.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusFail, item.Status)
}

func TestRecordResultNonConformanceDerivation(t *testing.T) {
	env := newTestEnv(t)
	instance := env.instantiate(t, env.lot.ID)
	svc := NewConformanceService(env.store, nil)

	// FAIL defaults to a non-conformance.
	record, err := svc.RecordResult(env.ctx, env.user.ID, &RecordResultRequest{
		LotID:     env.lot.ID,
		ITPItemID: instance.Items[0].ID,
		Result:    "FAIL",
	})
	require.NoError(t, err)
	assert.True(t, record.IsNonConformance)

	// Explicit override suppresses the flag.
	suppress := false
	record, err = svc.RecordResult(env.ctx, env.user.ID, &RecordResultRequest{
		LotID:            env.lot.ID,
		ITPItemID:        instance.Items[1].ID,
		Result:           "FAIL",
		IsNonConformance: &suppress,
	})
	require.NoError(t, err)
	assert.False(t, record.IsNonConformance)

	// And can flag a PASS when the inspector insists.
	raise := true
	record, err = svc.RecordResult(env.ctx, env.user.ID, &RecordResultRequest{
		LotID:            env.lot.ID,
		ITPItemID:        instance.Items[2].ID,
		Result:           "PASS",
		IsNonConformance: &raise,
	})
	require.NoError(t, err)
	assert.True(t, record.IsNonConformance)
}

func TestRecordResultCrossLotRejected(t *testing.T) {
	env := newTestEnv(t)
	instance := env.instantiate(t, env.lot.ID)
	otherLot := env.newLot(t, "LOT-002")
	svc := NewConformanceService(env.store, nil)

	_, err := svc.RecordResult(env.ctx, env.user.ID, &RecordResultRequest{
		LotID:     otherLot.ID,
		ITPItemID: instance.Items[0].ID,
		Result:    "PASS",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeIntegrity, apperr.CodeOf(err))

	// Nothing was written anywhere.
	_, recErr := svc.GetRecord(env.ctx, otherLot.ID, instance.Items[0].ID)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(recErr))

	item, err := env.store.GetInstanceItem(env.ctx, instance.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusPending, item.Status)
}

func TestRecordResultUnknownLotAndItem(t *testing.T) {
	env := newTestEnv(t)
	instance := env.instantiate(t, env.lot.ID)
	svc := NewConformanceService(env.store, nil)

	_, err := svc.RecordResult(env.ctx, env.user.ID, &RecordResultRequest{
		LotID:     env.lot.ID,
		ITPItemID: env.lot.ID, // not an item
		Result:    "PASS",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	_, err = svc.RecordResult(env.ctx, env.user.ID, &RecordResultRequest{
		LotID:     instance.ID, // not a lot
		ITPItemID: instance.Items[0].ID,
		Result:    "PASS",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestRecordResultInvalidResultValue(t *testing.T) {
	env := newTestEnv(t)
	instance := env.instantiate(t, env.lot.ID)
	svc := NewConformanceService(env.store, nil)

	_, err := svc.RecordResult(env.ctx, env.user.ID, &RecordResultRequest{
		LotID:     env.lot.ID,
		ITPItemID: instance.Items[0].ID,
		Result:    "MAYBE",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
}

func TestRecordResultAdvancesAssignment(t *testing.T) {
	env := newTestEnv(t)
	instance := env.instantiate(t, env.lot.ID)
	svc := NewConformanceService(env.store, nil)

	results := []string{"PASS", "PASS", "FAIL", "N/A", "PASS"}
	for i, result := range results {
		_, err := svc.RecordResult(env.ctx, env.user.ID, &RecordResultRequest{
			LotID:     env.lot.ID,
			ITPItemID: instance.Items[i].ID,
			Result:    result,
		})
		require.NoError(t, err)

		assignment, err := env.store.GetAssignmentByPair(env.ctx, env.lot.ID, env.template.ID)
		require.NoError(t, err)
		if i < len(results)-1 {
			assert.Equal(t, models.AssignmentStatusInProgress, assignment.Status)
		} else {
			assert.Equal(t, models.AssignmentStatusCompleted, assignment.Status)
		}
	}

	// The instance itself completed too.
	reloaded, err := env.store.GetInstance(env.ctx, instance.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InstanceStatusCompleted, reloaded.Status)
}

func TestRecordResultDoesNotDowngradeApproval(t *testing.T) {
	env := newTestEnv(t)
	instance := env.instantiate(t, env.lot.ID)

	conformanceSvc := NewConformanceService(env.store, nil)
	assignmentSvc := NewAssignmentService(env.store)

	for i := range instance.Items {
		_, err := conformanceSvc.RecordResult(env.ctx, env.user.ID, &RecordResultRequest{
			LotID:     env.lot.ID,
			ITPItemID: instance.Items[i].ID,
			Result:    "PASS",
		})
		require.NoError(t, err)
	}

	assignment, err := env.store.GetAssignmentByPair(env.ctx, env.lot.ID, env.template.ID)
	require.NoError(t, err)
	_, err = assignmentSvc.UpdateAssignmentStatus(env.ctx, assignment.ID, &UpdateAssignmentStatusRequest{Status: "approved"})
	require.NoError(t, err)

	// A late re-inspection keeps the approval in place.
	_, err = conformanceSvc.RecordResult(env.ctx, env.user.ID, &RecordResultRequest{
		LotID:     env.lot.ID,
		ITPItemID: instance.Items[0].ID,
		Result:    "FAIL",
	})
	require.NoError(t, err)

	assignment, err = env.store.GetAssignmentByPair(env.ctx, env.lot.ID, env.template.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusApproved, assignment.Status)
}

func TestNonConformanceRaisesNotification(t *testing.T) {
	env := newTestEnv(t)
	instance := env.instantiate(t, env.lot.ID)

	notificationSvc := NewNotificationService(env.store, emptyEmailConfig())
	svc := NewConformanceService(env.store, notificationSvc)

	// Call the notifier synchronously through the service path by
	// recording and then polling the store.
	_, err := svc.RecordResult(env.ctx, env.user.ID, &RecordResultRequest{
		LotID:     env.lot.ID,
		ITPItemID: instance.Items[0].ID,
		Result:    "FAIL",
		Comments:  "honeycombing in pour",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		notifications, _, err := notificationSvc.ListNotifications(env.ctx, &env.project.ID, store.ListParams{})
		return err == nil && len(notifications) == 1
	}, waitFor, pollEvery)

	notifications, _, err := notificationSvc.ListNotifications(env.ctx, &env.project.ID, store.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, NotificationTypeNonConformance, notifications[0].Type)
	assert.Equal(t, PriorityHigh, notifications[0].Priority)
	assert.Contains(t, notifications[0].Message, "honeycombing")
}
