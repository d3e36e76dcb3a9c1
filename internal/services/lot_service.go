// internal/services/lot_service.go
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

type LotService struct {
	store store.Store
}

func NewLotService(store store.Store) *LotService {
	return &LotService{store: store}
}

type CreateLotRequest struct {
	ProjectID   uuid.UUID  `json:"project_id" validate:"required"`
	LotNumber   string     `json:"lot_number" validate:"required,max=50"`
	Description string     `json:"description" validate:"omitempty,max=2000"`
	Location    string     `json:"location" validate:"omitempty,max=255"`
	StartDate   *time.Time `json:"start_date"`
}

type UpdateLotRequest struct {
	LotNumber   *string    `json:"lot_number" validate:"omitempty,max=50"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Location    *string    `json:"location" validate:"omitempty,max=255"`
	Status      *string    `json:"status" validate:"omitempty,oneof=open in_progress conformed closed"`
	StartDate   *time.Time `json:"start_date"`
}

func (s *LotService) CreateLot(ctx context.Context, userID uuid.UUID, req *CreateLotRequest) (*models.Lot, error) {
	if err := validateReq(req); err != nil {
		return nil, err
	}

	if _, err := s.store.GetProject(ctx, req.ProjectID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("project")
		}
		return nil, storeErr(err, "project")
	}

	lot := &models.Lot{
		ProjectID:   req.ProjectID,
		LotNumber:   req.LotNumber,
		Description: req.Description,
		Location:    req.Location,
		Status:      models.LotStatusOpen,
		StartDate:   req.StartDate,
		CreatedBy:   &userID,
	}

	if err := s.store.CreateLot(ctx, lot); err != nil {
		return nil, storeErr(err, "lot")
	}

	logrus.WithFields(logrus.Fields{
		"lot_id":     lot.ID,
		"project_id": lot.ProjectID,
		"lot_number": lot.LotNumber,
	}).Info("Lot created")

	return lot, nil
}

func (s *LotService) GetLot(ctx context.Context, id uuid.UUID) (*models.Lot, error) {
	lot, err := s.store.GetLot(ctx, id)
	if err != nil {
		return nil, storeErr(err, "lot")
	}
	return lot, nil
}

func (s *LotService) ListLots(ctx context.Context, projectID *uuid.UUID, params store.ListParams) ([]models.Lot, int64, error) {
	lots, total, err := s.store.ListLots(ctx, projectID, params)
	if err != nil {
		return nil, 0, storeErr(err, "lots")
	}
	return lots, total, nil
}

func (s *LotService) UpdateLot(ctx context.Context, id uuid.UUID, req *UpdateLotRequest) (*models.Lot, error) {
	if err := validateReq(req); err != nil {
		return nil, err
	}

	lot, err := s.store.GetLot(ctx, id)
	if err != nil {
		return nil, storeErr(err, "lot")
	}

	if req.LotNumber != nil {
		lot.LotNumber = *req.LotNumber
	}
	if req.Description != nil {
		lot.Description = *req.Description
	}
	if req.Location != nil {
		lot.Location = *req.Location
	}
	if req.Status != nil {
		lot.Status = models.LotStatus(*req.Status)
	}
	if req.StartDate != nil {
		lot.StartDate = req.StartDate
	}

	if err := s.store.UpdateLot(ctx, lot); err != nil {
		return nil, storeErr(err, "lot")
	}
	return lot, nil
}

func (s *LotService) DeleteLot(ctx context.Context, id uuid.UUID) error {
	if _, err := s.store.GetLot(ctx, id); err != nil {
		return storeErr(err, "lot")
	}
	if err := s.store.DeleteLot(ctx, id); err != nil {
		return storeErr(err, "lot")
	}
	logrus.WithField("lot_id", id).Info("Lot deleted")
	return nil
}
