// internal/services/conformance_service.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sitewise/siteqa-backend/internal/apperr"
	"github.com/sitewise/siteqa-backend/internal/models"
	"github.com/sitewise/siteqa-backend/internal/store"
)

// ConformanceService records inspection outcomes against lot/item pairs.
// One record exists per pair; re-submitting replaces the previous result
// and the latest write wins.
type ConformanceService struct {
	store         store.Store
	notifications *NotificationService
}

func NewConformanceService(store store.Store, notifications *NotificationService) *ConformanceService {
	return &ConformanceService{store: store, notifications: notifications}
}

type RecordResultRequest struct {
	LotID            uuid.UUID `json:"lot_id" validate:"required"`
	ITPItemID        uuid.UUID `json:"itp_item_id" validate:"required"`
	Result           string    `json:"result" validate:"required,oneof=PASS FAIL N/A"`
	Comments         string    `json:"comments" validate:"omitempty,max=2000"`
	IsNonConformance *bool     `json:"is_non_conformance"`
}

// RecordResult upserts the conformance record for (lot, item), mirrors the
// result onto the instance item and re-derives the instance and assignment
// statuses, all in one transaction. A FAIL is flagged as a non-conformance
// unless the caller explicitly overrides the flag.
func (s *ConformanceService) RecordResult(ctx context.Context, inspectorID uuid.UUID, req *RecordResultRequest) (*models.ConformanceRecord, error) {
	if err := validateReq(req); err != nil {
		return nil, err
	}
	result := models.ConformanceResult(req.Result)

	lot, err := s.store.GetLot(ctx, req.LotID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("lot")
		}
		return nil, storeErr(err, "lot")
	}

	item, err := s.store.GetInstanceItem(ctx, req.ITPItemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("inspection item")
		}
		return nil, storeErr(err, "inspection item")
	}

	instance, err := s.store.GetInstance(ctx, item.ITPID)
	if err != nil {
		return nil, storeErr(err, "instance")
	}
	if instance.LotID == nil || *instance.LotID != lot.ID {
		return nil, apperr.Integrity("inspection item does not belong to this lot")
	}

	isNonConformance := result == models.ConformanceResultFail
	if req.IsNonConformance != nil {
		isNonConformance = *req.IsNonConformance
	}

	now := time.Now()
	record := &models.ConformanceRecord{
		LotID:            lot.ID,
		ITPItemID:        item.ID,
		Result:           result,
		Comments:         req.Comments,
		IsNonConformance: isNonConformance,
		InspectorID:      &inspectorID,
		InspectionDate:   now,
	}

	err = s.store.WithTransaction(ctx, func(tx store.Store) error {
		if err := tx.UpsertConformanceRecord(ctx, record); err != nil {
			return err
		}

		item.Status = result.ItemStatus()
		item.InspectedBy = &inspectorID
		item.InspectedDate = &now
		item.InspectionNotes = req.Comments
		if err := tx.UpdateInstanceItem(ctx, item); err != nil {
			return err
		}

		if err := refreshInstanceStatus(ctx, tx, instance.ID); err != nil {
			return err
		}
		return s.refreshAssignmentStatus(ctx, tx, lot.ID, instance)
	})
	if err != nil {
		return nil, storeErr(err, "conformance record")
	}

	logrus.WithFields(logrus.Fields{
		"lot_id":          lot.ID,
		"itp_item_id":     item.ID,
		"result":          result,
		"non_conformance": isNonConformance,
	}).Info("Conformance result recorded")

	if isNonConformance && s.notifications != nil {
		// Off the request path; the record is already committed.
		go s.notifications.NotifyNonConformance(context.Background(), lot, item, record)
	}

	return record, nil
}

// refreshAssignmentStatus moves the lot assignment forward to match the
// inspection state of its instance. Derivation only ever advances the
// status, so a manual approval is never undone by a late write.
func (s *ConformanceService) refreshAssignmentStatus(ctx context.Context, tx store.Store, lotID uuid.UUID, instance *models.ITP) error {
	if instance.TemplateID == nil {
		return nil
	}

	assignment, err := tx.GetAssignmentByPair(ctx, lotID, *instance.TemplateID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}

	counts, err := tx.CountInstanceItemStatuses(ctx, instance.ID)
	if err != nil {
		return err
	}
	var total, pending int64
	for status, n := range counts {
		total += n
		if status == models.ItemStatusPending {
			pending += n
		}
	}

	derived := models.AssignmentStatusInProgress
	if total > 0 && pending == 0 {
		derived = models.AssignmentStatusCompleted
	}

	if !assignment.Status.CanTransitionTo(derived) {
		return nil
	}
	assignment.Status = derived
	return tx.UpdateAssignment(ctx, assignment)
}

func (s *ConformanceService) GetRecord(ctx context.Context, lotID, itemID uuid.UUID) (*models.ConformanceRecord, error) {
	record, err := s.store.GetConformanceRecord(ctx, lotID, itemID)
	if err != nil {
		return nil, storeErr(err, "conformance record")
	}
	return record, nil
}

func (s *ConformanceService) ListRecords(ctx context.Context, lotID uuid.UUID, params store.ListParams) ([]models.ConformanceRecord, int64, error) {
	if _, err := s.store.GetLot(ctx, lotID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, 0, apperr.NotFound("lot")
		}
		return nil, 0, storeErr(err, "lot")
	}

	records, total, err := s.store.ListConformanceRecords(ctx, lotID, params)
	if err != nil {
		return nil, 0, storeErr(err, "conformance records")
	}
	return records, total, nil
}
