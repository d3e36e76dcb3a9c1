// internal/services/progress_service.go
package services

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"

	"github.com/sitewise/siteqa-backend/internal/apperr"
	"github.com/sitewise/siteqa-backend/internal/models"
	"github.com/sitewise/siteqa-backend/internal/store"
)

// ProgressService computes inspection progress for a lot/instance pair
// from the conformance records. Nothing is stored; progress is always
// derived fresh.
type ProgressService struct {
	store store.Store
}

func NewProgressService(store store.Store) *ProgressService {
	return &ProgressService{store: store}
}

// InstanceProgress is the per-instance inspection summary. Percentage is
// completed items over total items, rounded to the nearest integer; an
// instance with no items reports zero.
type InstanceProgress struct {
	InstanceID     uuid.UUID `json:"instance_id"`
	LotID          uuid.UUID `json:"lot_id"`
	TotalItems     int64     `json:"total_items"`
	PassedItems    int64     `json:"passed_items"`
	FailedItems    int64     `json:"failed_items"`
	NAItems        int64     `json:"na_items"`
	PendingItems   int64     `json:"pending_items"`
	CompletedItems int64     `json:"completed_items"`
	Percentage     int       `json:"percentage"`
}

func (s *ProgressService) GetProgress(ctx context.Context, lotID, instanceID uuid.UUID) (*InstanceProgress, error) {
	instance, err := s.store.GetInstance(ctx, instanceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("instance")
		}
		return nil, storeErr(err, "instance")
	}
	if instance.LotID == nil || *instance.LotID != lotID {
		return nil, apperr.Integrity("instance does not belong to this lot")
	}

	total, err := s.store.CountInstanceItems(ctx, instanceID)
	if err != nil {
		return nil, storeErr(err, "instance items")
	}

	counts, err := s.store.CountConformanceResults(ctx, lotID, instanceID)
	if err != nil {
		return nil, storeErr(err, "conformance records")
	}

	progress := &InstanceProgress{
		InstanceID:  instanceID,
		LotID:       lotID,
		TotalItems:  total,
		PassedItems: counts[models.ConformanceResultPass],
		FailedItems: counts[models.ConformanceResultFail],
		NAItems:     counts[models.ConformanceResultNA],
	}
	progress.CompletedItems = progress.PassedItems + progress.FailedItems + progress.NAItems
	progress.PendingItems = total - progress.CompletedItems
	if progress.PendingItems < 0 {
		progress.PendingItems = 0
	}

	if total > 0 {
		progress.Percentage = int(math.Round(float64(progress.CompletedItems) / float64(total) * 100))
	}

	return progress, nil
}
