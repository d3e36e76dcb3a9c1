// internal/services/docket_service.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/sitewise/siteqa-backend/internal/apperr"
	"github.com/sitewise/siteqa-backend/internal/models"
	"github.com/sitewise/siteqa-backend/internal/store"
)

// DocketService records labour, plant and material dockets against lots.
type DocketService struct {
	store store.Store
}

func NewDocketService(store store.Store) *DocketService {
	return &DocketService{store: store}
}

type CreateDocketRequest struct {
	LotID        uuid.UUID `json:"lot_id" validate:"required"`
	DocketType   string    `json:"docket_type" validate:"required,oneof=labour plant material"`
	DocketNumber string    `json:"docket_number" validate:"required,max=50"`
	DocketDate   time.Time `json:"docket_date" validate:"required"`
	Description  string    `json:"description" validate:"omitempty,max=2000"`
	Supplier     string    `json:"supplier" validate:"omitempty,max=255"`
	Quantity     *float64  `json:"quantity"`
	Unit         string    `json:"unit" validate:"omitempty,max=20"`
	Hours        *float64  `json:"hours"`
	PhotoURLs    []string  `json:"photo_urls" validate:"omitempty,dive,url"`
}

type UpdateDocketRequest struct {
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	Supplier    *string  `json:"supplier" validate:"omitempty,max=255"`
	Quantity    *float64 `json:"quantity"`
	Unit        *string  `json:"unit" validate:"omitempty,max=20"`
	Hours       *float64 `json:"hours"`
	PhotoURLs   []string `json:"photo_urls" validate:"omitempty,dive,url"`
}

func (s *DocketService) CreateDocket(ctx context.Context, userID uuid.UUID, req *CreateDocketRequest) (*models.Docket, error) {
	if err := validateReq(req); err != nil {
		return nil, err
	}
	if req.Quantity != nil && *req.Quantity < 0 {
		return nil, apperr.Validation("quantity cannot be negative", nil)
	}
	if req.Hours != nil && *req.Hours < 0 {
		return nil, apperr.Validation("hours cannot be negative", nil)
	}

	if _, err := s.store.GetLot(ctx, req.LotID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("lot")
		}
		return nil, storeErr(err, "lot")
	}

	docket := &models.Docket{
		LotID:        req.LotID,
		DocketType:   models.DocketType(req.DocketType),
		DocketNumber: req.DocketNumber,
		DocketDate:   req.DocketDate,
		Description:  req.Description,
		Supplier:     req.Supplier,
		Unit:         req.Unit,
		PhotoURLs:    pq.StringArray(req.PhotoURLs),
		RecordedBy:   &userID,
	}
	if req.Quantity != nil {
		docket.Quantity = *req.Quantity
	}
	if req.Hours != nil {
		docket.Hours = *req.Hours
	}

	if err := s.store.CreateDocket(ctx, docket); err != nil {
		return nil, storeErr(err, "docket")
	}
	return docket, nil
}

func (s *DocketService) GetDocket(ctx context.Context, id uuid.UUID) (*models.Docket, error) {
	docket, err := s.store.GetDocket(ctx, id)
	if err != nil {
		return nil, storeErr(err, "docket")
	}
	return docket, nil
}

func (s *DocketService) ListDockets(ctx context.Context, lotID uuid.UUID, docketType string, params store.ListParams) ([]models.Docket, int64, error) {
	var typeFilter *models.DocketType
	if docketType != "" {
		dt := models.DocketType(docketType)
		if !dt.Valid() {
			return nil, 0, apperr.Validation("invalid docket_type filter: "+docketType, nil)
		}
		typeFilter = &dt
	}

	dockets, total, err := s.store.ListDockets(ctx, lotID, typeFilter, params)
	if err != nil {
		return nil, 0, storeErr(err, "dockets")
	}
	return dockets, total, nil
}

func (s *DocketService) UpdateDocket(ctx context.Context, id uuid.UUID, req *UpdateDocketRequest) (*models.Docket, error) {
	if err := validateReq(req); err != nil {
		return nil, err
	}

	docket, err := s.store.GetDocket(ctx, id)
	if err != nil {
		return nil, storeErr(err, "docket")
	}

	if req.Description != nil {
		docket.Description = *req.Description
	}
	if req.Supplier != nil {
		docket.Supplier = *req.Supplier
	}
	if req.Quantity != nil {
		docket.Quantity = *req.Quantity
	}
	if req.Unit != nil {
		docket.Unit = *req.Unit
	}
	if req.Hours != nil {
		docket.Hours = *req.Hours
	}
	if req.PhotoURLs != nil {
		docket.PhotoURLs = pq.StringArray(req.PhotoURLs)
	}

	if err := s.store.UpdateDocket(ctx, docket); err != nil {
		return nil, storeErr(err, "docket")
	}
	return docket, nil
}

func (s *DocketService) DeleteDocket(ctx context.Context, id uuid.UUID) error {
	if _, err := s.store.GetDocket(ctx, id); err != nil {
		return storeErr(err, "docket")
	}
	if err := s.store.DeleteDocket(ctx, id); err != nil {
		return storeErr(err, "docket")
	}
	return nil
}
