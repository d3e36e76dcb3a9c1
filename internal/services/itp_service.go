// internal/services/itp_service.go
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

// ITPService creates and manages ITP instances. Instantiation copies the
// template wholesale inside one transaction; later template edits never
// reach the copy.
type ITPService struct {
	store store.Store
}

func NewITPService(store store.Store) *ITPService {
	return &ITPService{store: store}
}

type CreateFromTemplateRequest struct {
	TemplateID uuid.UUID  `json:"template_id" validate:"required"`
	ProjectID  *uuid.UUID `json:"project_id"`
	LotID      *uuid.UUID `json:"lot_id"`
	Name       string     `json:"name" validate:"omitempty,max=255"`
}

type UpdateItemRequest struct {
	Status          string `json:"status" validate:"required,oneof=pending pass fail na"`
	InspectionNotes string `json:"inspection_notes" validate:"omitempty,max=2000"`
}

// CreateFromTemplate builds a new instance as a point-in-time copy of the
// template: header fields and every item, all in one transaction. When a
// lot is given, the matching lot assignment is created or updated in the
// same transaction so the pair stays consistent.
func (s *ITPService) CreateFromTemplate(ctx context.Context, userID uuid.UUID, req *CreateFromTemplateRequest) (*models.ITP, error) {
	if err := validateReq(req); err != nil {
		return nil, err
	}

	template, err := resolveActiveTemplate(ctx, s.store, req.TemplateID)
	if err != nil {
		return nil, err
	}

	projectID := req.ProjectID
	if req.LotID != nil {
		lot, err := s.store.GetLot(ctx, *req.LotID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, apperr.NotFound("lot")
			}
			return nil, storeErr(err, "lot")
		}
		// The lot's project wins over any caller-supplied project.
		projectID = &lot.ProjectID
	}

	name := req.Name
	if name == "" {
		name = template.Name
	}

	instance := &models.ITP{
		TemplateID:  &template.ID,
		ProjectID:   projectID,
		LotID:       req.LotID,
		Name:        name,
		Description: template.Description,
		Category:    template.Category,
		Status:      models.InstanceStatusDraft,
		Complexity:  "moderate",
		CreatedBy:   &userID,
	}

	err = s.store.WithTransaction(ctx, func(tx store.Store) error {
		if err := tx.CreateInstance(ctx, instance); err != nil {
			return err
		}

		items := make([]models.ITPItem, 0, len(template.Items))
		for _, ti := range template.Items {
			templateItemID := ti.ID
			items = append(items, models.ITPItem{
				ITPID:              instance.ID,
				TemplateItemID:     &templateItemID,
				ItemNumber:         ti.ItemNumber,
				Description:        ti.Description,
				AcceptanceCriteria: ti.AcceptanceCriteria,
				InspectionMethod:   ti.InspectionMethod,
				IsMandatory:        ti.IsMandatory,
				SortOrder:          ti.SortOrder,
				Status:             models.ItemStatusPending,
			})
		}
		if len(items) > 0 {
			if err := tx.CreateInstanceItems(ctx, items); err != nil {
				return err
			}
		}

		if req.LotID != nil {
			if err := s.linkAssignment(ctx, tx, *req.LotID, template.ID, instance.ID, userID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, storeErr(err, "instance")
	}

	logrus.WithFields(logrus.Fields{
		"instance_id": instance.ID,
		"template_id": template.ID,
		"items":       len(template.Items),
	}).Info("ITP instance created from template")

	return s.GetInstance(ctx, instance.ID)
}

// linkAssignment ensures the (lot, template) assignment exists and points
// at the new instance, reactivating a deactivated row if one is present.
func (s *ITPService) linkAssignment(ctx context.Context, tx store.Store, lotID, templateID, instanceID uuid.UUID, userID uuid.UUID) error {
	existing, err := tx.GetAssignmentByPair(ctx, lotID, templateID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	if existing == nil {
		return tx.CreateAssignment(ctx, &models.LotAssignment{
			LotID:      lotID,
			TemplateID: templateID,
			InstanceID: &instanceID,
			Status:     models.AssignmentStatusPending,
			AssignedBy: &userID,
		})
	}

	existing.InstanceID = &instanceID
	if !existing.Status.Live() {
		existing.Status = models.AssignmentStatusPending
	}
	return tx.UpdateAssignment(ctx, existing)
}

func (s *ITPService) GetInstance(ctx context.Context, id uuid.UUID) (*models.ITP, error) {
	instance, err := s.store.GetInstance(ctx, id)
	if err != nil {
		return nil, storeErr(err, "instance")
	}
	return instance, nil
}

func (s *ITPService) ListInstances(ctx context.Context, filter store.InstanceFilter, params store.ListParams) ([]models.ITP, int64, error) {
	instances, total, err := s.store.ListInstances(ctx, filter, params)
	if err != nil {
		return nil, 0, storeErr(err, "instances")
	}
	return instances, total, nil
}

// UpdateItem records an inspection outcome directly on an instance item
// and re-derives the instance status.
func (s *ITPService) UpdateItem(ctx context.Context, instanceID, itemID uuid.UUID, userID uuid.UUID, req *UpdateItemRequest) (*models.ITPItem, error) {
	if err := validateReq(req); err != nil {
		return nil, err
	}

	item, err := s.store.GetInstanceItem(ctx, itemID)
	if err != nil {
		return nil, storeErr(err, "instance item")
	}
	if item.ITPID != instanceID {
		return nil, apperr.Integrity("item does not belong to this instance")
	}

	status := models.ItemStatus(req.Status)
	item.Status = status
	item.InspectionNotes = req.InspectionNotes
	if status.Terminal() {
		now := time.Now()
		item.InspectedBy = &userID
		item.InspectedDate = &now
	} else {
		item.InspectedBy = nil
		item.InspectedDate = nil
	}

	err = s.store.WithTransaction(ctx, func(tx store.Store) error {
		if err := tx.UpdateInstanceItem(ctx, item); err != nil {
			return err
		}
		return refreshInstanceStatus(ctx, tx, instanceID)
	})
	if err != nil {
		return nil, storeErr(err, "instance item")
	}

	return item, nil
}

// refreshInstanceStatus re-derives the instance lifecycle from its item
// statuses: draft while untouched, in_progress once any item has a result,
// completed when nothing is left pending.
func refreshInstanceStatus(ctx context.Context, tx store.Store, instanceID uuid.UUID) error {
	counts, err := tx.CountInstanceItemStatuses(ctx, instanceID)
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

	status := models.InstanceStatusDraft
	switch {
	case total > 0 && pending == 0:
		status = models.InstanceStatusCompleted
	case pending < total:
		status = models.InstanceStatusInProgress
	}

	instance, err := tx.GetInstance(ctx, instanceID)
	if err != nil {
		return err
	}
	if instance.Status == status {
		return nil
	}
	instance.Status = status
	return tx.UpdateInstance(ctx, instance)
}
