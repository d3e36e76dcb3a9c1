// internal/services/diary_service.go
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

// DiaryService manages daily site diary entries against lots.
type DiaryService struct {
	store store.Store
}

func NewDiaryService(store store.Store) *DiaryService {
	return &DiaryService{store: store}
}

type CreateDiaryRequest struct {
	LotID             uuid.UUID `json:"lot_id" validate:"required"`
	DiaryDate         time.Time `json:"diary_date" validate:"required"`
	Weather           string    `json:"weather" validate:"omitempty,max=100"`
	TemperatureMin    *float64  `json:"temperature_min"`
	TemperatureMax    *float64  `json:"temperature_max"`
	WorkPerformed     string    `json:"work_performed" validate:"required,max=5000"`
	Delays            string    `json:"delays" validate:"omitempty,max=2000"`
	Visitors          string    `json:"visitors" validate:"omitempty,max=2000"`
	SafetyObservation string    `json:"safety_observation" validate:"omitempty,max=2000"`
	PhotoURLs         []string  `json:"photo_urls" validate:"omitempty,dive,url"`
}

type UpdateDiaryRequest struct {
	Weather           *string  `json:"weather" validate:"omitempty,max=100"`
	TemperatureMin    *float64 `json:"temperature_min"`
	TemperatureMax    *float64 `json:"temperature_max"`
	WorkPerformed     *string  `json:"work_performed" validate:"omitempty,max=5000"`
	Delays            *string  `json:"delays" validate:"omitempty,max=2000"`
	Visitors          *string  `json:"visitors" validate:"omitempty,max=2000"`
	SafetyObservation *string  `json:"safety_observation" validate:"omitempty,max=2000"`
	PhotoURLs         []string `json:"photo_urls" validate:"omitempty,dive,url"`
}

func (s *DiaryService) CreateDiary(ctx context.Context, userID uuid.UUID, req *CreateDiaryRequest) (*models.SiteDiary, error) {
	if err := validateReq(req); err != nil {
		return nil, err
	}
	if req.TemperatureMin != nil && req.TemperatureMax != nil && *req.TemperatureMin > *req.TemperatureMax {
		return nil, apperr.Validation("temperature_min cannot exceed temperature_max", nil)
	}

	if _, err := s.store.GetLot(ctx, req.LotID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("lot")
		}
		return nil, storeErr(err, "lot")
	}

	diary := &models.SiteDiary{
		LotID:             req.LotID,
		DiaryDate:         req.DiaryDate,
		Weather:           req.Weather,
		TemperatureMin:    req.TemperatureMin,
		TemperatureMax:    req.TemperatureMax,
		WorkPerformed:     req.WorkPerformed,
		Delays:            req.Delays,
		Visitors:          req.Visitors,
		SafetyObservation: req.SafetyObservation,
		PhotoURLs:         pq.StringArray(req.PhotoURLs),
		RecordedBy:        &userID,
	}

	if err := s.store.CreateDiary(ctx, diary); err != nil {
		return nil, storeErr(err, "site diary")
	}
	return diary, nil
}

func (s *DiaryService) GetDiary(ctx context.Context, id uuid.UUID) (*models.SiteDiary, error) {
	diary, err := s.store.GetDiary(ctx, id)
	if err != nil {
		return nil, storeErr(err, "site diary")
	}
	return diary, nil
}

func (s *DiaryService) ListDiaries(ctx context.Context, lotID uuid.UUID, params store.ListParams) ([]models.SiteDiary, int64, error) {
	diaries, total, err := s.store.ListDiaries(ctx, lotID, params)
	if err != nil {
		return nil, 0, storeErr(err, "site diaries")
	}
	return diaries, total, nil
}

func (s *DiaryService) UpdateDiary(ctx context.Context, id uuid.UUID, req *UpdateDiaryRequest) (*models.SiteDiary, error) {
	if err := validateReq(req); err != nil {
		return nil, err
	}

	diary, err := s.store.GetDiary(ctx, id)
	if err != nil {
		return nil, storeErr(err, "site diary")
	}

	if req.Weather != nil {
		diary.Weather = *req.Weather
	}
	if req.TemperatureMin != nil {
		diary.TemperatureMin = req.TemperatureMin
	}
	if req.TemperatureMax != nil {
		diary.TemperatureMax = req.TemperatureMax
	}
	if req.WorkPerformed != nil {
		diary.WorkPerformed = *req.WorkPerformed
	}
	if req.Delays != nil {
		diary.Delays = *req.Delays
	}
	if req.Visitors != nil {
		diary.Visitors = *req.Visitors
	}
	if req.SafetyObservation != nil {
		diary.SafetyObservation = *req.SafetyObservation
	}
	if req.PhotoURLs != nil {
		diary.PhotoURLs = pq.StringArray(req.PhotoURLs)
	}

	if err := s.store.UpdateDiary(ctx, diary); err != nil {
		return nil, storeErr(err, "site diary")
	}
	return diary, nil
}

func (s *DiaryService) DeleteDiary(ctx context.Context, id uuid.UUID) error {
	if _, err := s.store.GetDiary(ctx, id); err != nil {
		return storeErr(err, "site diary")
	}
	if err := s.store.DeleteDiary(ctx, id); err != nil {
		return storeErr(err, "site diary")
	}
	return nil
}
