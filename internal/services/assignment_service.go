// internal/services/assignment_service.go
package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sitewise/siteqa-backend/internal/apperr"
	"github.com/sitewise/siteqa-backend/internal/models"
	"github.com/sitewise/siteqa-backend/internal/store"
)

// AssignmentService is the ledger of which ITP templates apply to which
// lots. At most one assignment row exists per (lot, template) pair for the
// life of the pair: removal deactivates it, re-assignment brings the same
// row back.
type AssignmentService struct {
	store store.Store
}

func NewAssignmentService(store store.Store) *AssignmentService {
	return &AssignmentService{store: store}
}

type AssignTemplateRequest struct {
	LotID      uuid.UUID `json:"lot_id" validate:"required"`
	TemplateID uuid.UUID `json:"template_id" validate:"required"`
}

type UpdateAssignmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress completed approved"`
}

// AssignTemplateToLot records that a template applies to a lot. The call
// is idempotent: an existing live assignment is returned unchanged, and a
// deactivated one is reactivated to pending.
func (s *AssignmentService) AssignTemplateToLot(ctx context.Context, userID uuid.UUID, req *AssignTemplateRequest) (*models.LotAssignment, error) {
	if err := validateReq(req); err != nil {
		return nil, err
	}

	if _, err := s.store.GetLot(ctx, req.LotID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("lot")
		}
		return nil, storeErr(err, "lot")
	}
	if _, err := resolveActiveTemplate(ctx, s.store, req.TemplateID); err != nil {
		return nil, err
	}

	existing, err := s.store.GetAssignmentByPair(ctx, req.LotID, req.TemplateID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, storeErr(err, "assignment")
	}

	if existing != nil {
		if existing.Status.Live() {
			return existing, nil
		}

		existing.Status = models.AssignmentStatusPending
		existing.AssignedBy = &userID
		if err := s.store.UpdateAssignment(ctx, existing); err != nil {
			return nil, storeErr(err, "assignment")
		}

		logrus.WithFields(logrus.Fields{
			"assignment_id": existing.ID,
			"lot_id":        req.LotID,
			"template_id":   req.TemplateID,
		}).Info("Lot assignment reactivated")
		return existing, nil
	}

	assignment := &models.LotAssignment{
		LotID:      req.LotID,
		TemplateID: req.TemplateID,
		Status:     models.AssignmentStatusPending,
		AssignedBy: &userID,
	}
	if err := s.store.CreateAssignment(ctx, assignment); err != nil {
		// A concurrent assign won the race; the unique index makes the
		// pair single-rowed, so return the winner.
		if errors.Is(err, store.ErrDuplicate) {
			winner, getErr := s.store.GetAssignmentByPair(ctx, req.LotID, req.TemplateID)
			if getErr != nil {
				return nil, storeErr(getErr, "assignment")
			}
			return winner, nil
		}
		return nil, storeErr(err, "assignment")
	}

	logrus.WithFields(logrus.Fields{
		"assignment_id": assignment.ID,
		"lot_id":        req.LotID,
		"template_id":   req.TemplateID,
	}).Info("Template assigned to lot")

	return assignment, nil
}

// RemoveAssignment deactivates the assignment. The row survives so that
// inspection history stays attached and re-assignment can restore it.
func (s *AssignmentService) RemoveAssignment(ctx context.Context, id uuid.UUID) error {
	assignment, err := s.store.GetAssignment(ctx, id)
	if err != nil {
		return storeErr(err, "assignment")
	}
	if assignment.Status == models.AssignmentStatusDeactivated {
		return nil
	}

	assignment.Status = models.AssignmentStatusDeactivated
	if err := s.store.UpdateAssignment(ctx, assignment); err != nil {
		return storeErr(err, "assignment")
	}

	logrus.WithField("assignment_id", id).Info("Lot assignment deactivated")
	return nil
}

func (s *AssignmentService) GetAssignment(ctx context.Context, id uuid.UUID) (*models.LotAssignment, error) {
	assignment, err := s.store.GetAssignment(ctx, id)
	if err != nil {
		return nil, storeErr(err, "assignment")
	}
	return assignment, nil
}

// ListAssignments returns a lot's assignments. With no explicit filter it
// returns every live assignment; deactivated rows are never listed, and a
// filter naming a non-live status is rejected.
func (s *AssignmentService) ListAssignments(ctx context.Context, lotID uuid.UUID, statusFilter []string, params store.ListParams) ([]models.LotAssignment, int64, error) {
	statuses := models.LiveAssignmentStatuses
	if len(statusFilter) > 0 {
		statuses = make([]models.AssignmentStatus, 0, len(statusFilter))
		for _, raw := range statusFilter {
			status := models.AssignmentStatus(raw)
			if !status.Live() {
				return nil, 0, apperr.Validation("invalid status filter: "+raw, nil)
			}
			statuses = append(statuses, status)
		}
	}

	assignments, total, err := s.store.ListAssignments(ctx, lotID, statuses, params)
	if err != nil {
		return nil, 0, storeErr(err, "assignments")
	}
	return assignments, total, nil
}

// UpdateAssignmentStatus applies a manual forward transition, used for the
// approval step. Backward moves and moves on deactivated rows are
// integrity violations.
func (s *AssignmentService) UpdateAssignmentStatus(ctx context.Context, id uuid.UUID, req *UpdateAssignmentStatusRequest) (*models.LotAssignment, error) {
	if err := validateReq(req); err != nil {
		return nil, err
	}

	assignment, err := s.store.GetAssignment(ctx, id)
	if err != nil {
		return nil, storeErr(err, "assignment")
	}

	next := models.AssignmentStatus(req.Status)
	if !assignment.Status.CanTransitionTo(next) {
		return nil, apperr.Integrity("cannot transition assignment from " + string(assignment.Status) + " to " + string(next))
	}

	assignment.Status = next
	if err := s.store.UpdateAssignment(ctx, assignment); err != nil {
		return nil, storeErr(err, "assignment")
	}

	logrus.WithFields(logrus.Fields{
		"assignment_id": id,
		"status":        next,
	}).Info("Assignment status updated")

	return assignment, nil
}
