// internal/services/progress_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitewise/siteqa-backend/internal/apperr"
	"github.com/sitewise/siteqa-backend/internal/models"
)

func TestGetProgressCounts(t *testing.T) {
	env := newTestEnv(t)

	// Build a ten-item template so the percentages are easy to reason
	// about: 4 PASS, 2 FAIL, 1 N/A, 3 pending = 70%.
	template := &models.ITPTemplate{Name: "Earthworks", IsActive: true}
	for i := 1; i <= 10; i++ {
		template.Items = append(template.Items, models.ITPTemplateItem{
			Description: "Checkpoint",
			SortOrder:   i,
		})
	}
	require.NoError(t, env.store.CreateTemplate(env.ctx, template))

	itpSvc := NewITPService(env.store)
	instance, err := itpSvc.CreateFromTemplate(env.ctx, env.user.ID, &CreateFromTemplateRequest{
		TemplateID: template.ID,
		LotID:      &env.lot.ID,
	})
	require.NoError(t, err)
	require.Len(t, instance.Items, 10)

	conformanceSvc := NewConformanceService(env.store, nil)
	results := []string{"PASS", "PASS", "PASS", "PASS", "FAIL", "FAIL", "N/A"}
	for i, result := range results {
		_, err := conformanceSvc.RecordResult(env.ctx, env.user.ID, &RecordResultRequest{
			LotID:     env.lot.ID,
			ITPItemID: instance.Items[i].ID,
			Result:    result,
		})
		require.NoError(t, err)
	}

	progressSvc := NewProgressService(env.store)
	progress, err := progressSvc.GetProgress(env.ctx, env.lot.ID, instance.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(10), progress.TotalItems)
	assert.Equal(t, int64(4), progress.PassedItems)
	assert.Equal(t, int64(2), progress.FailedItems)
	assert.Equal(t, int64(1), progress.NAItems)
	assert.Equal(t, int64(7), progress.CompletedItems)
	assert.Equal(t, int64(3), progress.PendingItems)
	assert.Equal(t, 70, progress.Percentage)
}

func TestGetProgressEmptyInstanceIsZero(t *testing.T) {
	env := newTestEnv(t)

	template := &models.ITPTemplate{Name: "Empty Checklist", IsActive: true}
	require.NoError(t, env.store.CreateTemplate(env.ctx, template))

	itpSvc := NewITPService(env.store)
	instance, err := itpSvc.CreateFromTemplate(env.ctx, env.user.ID, &CreateFromTemplateRequest{
		TemplateID: template.ID,
		LotID:      &env.lot.ID,
	})
	require.NoError(t, err)

	progressSvc := NewProgressService(env.store)
	progress, err := progressSvc.GetProgress(env.ctx, env.lot.ID, instance.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(0), progress.TotalItems)
	assert.Equal(t, 0, progress.Percentage)
	assert.Equal(t, int64(0), progress.PendingItems)
}

func TestGetProgressRoundsToNearest(t *testing.T) {
	env := newTestEnv(t)

	// 1 of 3 completed rounds to 33, 2 of 3 to 67.
	template := &models.ITPTemplate{Name: "Three Points", IsActive: true}
	for i := 1; i <= 3; i++ {
		template.Items = append(template.Items, models.ITPTemplateItem{Description: "Checkpoint", SortOrder: i})
	}
	require.NoError(t, env.store.CreateTemplate(env.ctx, template))

	itpSvc := NewITPService(env.store)
	instance, err := itpSvc.CreateFromTemplate(env.ctx, env.user.ID, &CreateFromTemplateRequest{
		TemplateID: template.ID,
		LotID:      &env.lot.ID,
	})
	require.NoError(t, err)

	conformanceSvc := NewConformanceService(env.store, nil)
	progressSvc := NewProgressService(env.store)

	_, err = conformanceSvc.RecordResult(env.ctx, env.user.ID, &RecordResultRequest{
		LotID: env.lot.ID, ITPItemID: instance.Items[0].ID, Result: "PASS",
	})
	require.NoError(t, err)

	progress, err := progressSvc.GetProgress(env.ctx, env.lot.ID, instance.ID)
	require.NoError(t, err)
	assert.Equal(t, 33, progress.Percentage)

	_, err = conformanceSvc.RecordResult(env.ctx, env.user.ID, &RecordResultRequest{
		LotID: env.lot.ID, ITPItemID: instance.Items[1].ID, Result: "N/A",
	})
	require.NoError(t, err)

	progress, err = progressSvc.GetProgress(env.ctx, env.lot.ID, instance.ID)
	require.NoError(t, err)
	assert.Equal(t, 67, progress.Percentage)
}

func TestGetProgressWrongLot(t *testing.T) {
	env := newTestEnv(t)
	instance := env.instantiate(t, env.lot.ID)
	otherLot := env.newLot(t, "LOT-002")

	progressSvc := NewProgressService(env.store)
	_, err := progressSvc.GetProgress(env.ctx, otherLot.ID, instance.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeIntegrity, apperr.CodeOf(err))
}
