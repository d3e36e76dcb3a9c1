// internal/services/project_service.go
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

type ProjectService struct {
	store store.Store
}

func NewProjectService(store store.Store) *ProjectService {
	return &ProjectService{store: store}
}

type CreateProjectRequest struct {
	Name          string     `json:"name" validate:"required,min=2,max=255"`
	ProjectNumber string     `json:"project_number" validate:"required,max=50"`
	Description   string     `json:"description" validate:"omitempty,max=2000"`
	Client        string     `json:"client" validate:"omitempty,max=255"`
	Location      string     `json:"location" validate:"omitempty,max=255"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
}

type UpdateProjectRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=2,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Client      *string    `json:"client" validate:"omitempty,max=255"`
	Location    *string    `json:"location" validate:"omitempty,max=255"`
	Status      *string    `json:"status" validate:"omitempty,oneof=active on_hold completed archived"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

func (s *ProjectService) CreateProject(ctx context.Context, userID uuid.UUID, req *CreateProjectRequest) (*models.Project, error) {
	if err := validateReq(req); err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:          req.Name,
		ProjectNumber: req.ProjectNumber,
		Description:   req.Description,
		Client:        req.Client,
		Location:      req.Location,
		Status:        models.ProjectStatusActive,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		CreatedBy:     &userID,
	}

	if err := s.store.CreateProject(ctx, project); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Integrity("a project with this number already exists")
		}
		return nil, storeErr(err, "project")
	}

	logrus.WithFields(logrus.Fields{
		"project_id":     project.ID,
		"project_number": project.ProjectNumber,
	}).Info("Project created")

	return project, nil
}

func (s *ProjectService) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := s.store.GetProject(ctx, id)
	if err != nil {
		return nil, storeErr(err, "project")
	}
	return project, nil
}

func (s *ProjectService) ListProjects(ctx context.Context, params store.ListParams) ([]models.Project, int64, error) {
	projects, total, err := s.store.ListProjects(ctx, params)
	if err != nil {
		return nil, 0, storeErr(err, "projects")
	}
	return projects, total, nil
}

func (s *ProjectService) UpdateProject(ctx context.Context, id uuid.UUID, req *UpdateProjectRequest) (*models.Project, error) {
	if err := validateReq(req); err != nil {
		return nil, err
	}

	project, err := s.store.GetProject(ctx, id)
	if err != nil {
		return nil, storeErr(err, "project")
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Client != nil {
		project.Client = *req.Client
	}
	if req.Location != nil {
		project.Location = *req.Location
	}
	if req.Status != nil {
		project.Status = models.ProjectStatus(*req.Status)
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		project.EndDate = req.EndDate
	}

	if err := s.store.UpdateProject(ctx, project); err != nil {
		return nil, storeErr(err, "project")
	}
	return project, nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if _, err := s.store.GetProject(ctx, id); err != nil {
		return storeErr(err, "project")
	}
	if err := s.store.DeleteProject(ctx, id); err != nil {
		return storeErr(err, "project")
	}
	logrus.WithField("project_id", id).Info("Project deleted")
	return nil
}
