// internal/services/template_service.go
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

// TemplateService manages the ITP template registry. Templates are the
// master checklist definitions; inspection activity never mutates them.
type TemplateService struct {
	store store.Store
}

func NewTemplateService(store store.Store) *TemplateService {
	return &TemplateService{store: store}
}

type CreateTemplateRequest struct {
	Name           string                      `json:"name" validate:"required,min=2,max=255"`
	Description    string                      `json:"description" validate:"omitempty,max=2000"`
	Category       string                      `json:"category" validate:"omitempty,max=100"`
	OrganizationID *uuid.UUID                  `json:"organization_id"`
	Items          []CreateTemplateItemRequest `json:"items" validate:"omitempty,dive"`
}

type CreateTemplateItemRequest struct {
	ItemNumber         string `json:"item_number" validate:"omitempty,max=20"`
	Description        string `json:"description" validate:"required,max=2000"`
	AcceptanceCriteria string `json:"acceptance_criteria" validate:"omitempty,max=2000"`
	InspectionMethod   string `json:"inspection_method" validate:"omitempty,max=100"`
	IsMandatory        *bool  `json:"is_mandatory"`
	SortOrder          int    `json:"sort_order"`
}

type UpdateTemplateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Category    *string `json:"category" validate:"omitempty,max=100"`
	IsActive    *bool   `json:"is_active"`
}

type ListTemplatesRequest struct {
	ActiveOnly     bool
	Category       string
	OrganizationID *uuid.UUID
}

func (s *TemplateService) CreateTemplate(ctx context.Context, userID uuid.UUID, req *CreateTemplateRequest) (*models.ITPTemplate, error) {
	if err := validateReq(req); err != nil {
		return nil, err
	}

	template := &models.ITPTemplate{
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		Version:        1,
		IsActive:       true,
		OrganizationID: req.OrganizationID,
		CreatedBy:      &userID,
	}

	for i, item := range req.Items {
		mandatory := true
		if item.IsMandatory != nil {
			mandatory = *item.IsMandatory
		}
		sortOrder := item.SortOrder
		if sortOrder == 0 {
			sortOrder = i + 1
		}
		template.Items = append(template.Items, models.ITPTemplateItem{
			ItemNumber:         item.ItemNumber,
			Description:        item.Description,
			AcceptanceCriteria: item.AcceptanceCriteria,
			InspectionMethod:   item.InspectionMethod,
			IsMandatory:        mandatory,
			SortOrder:          sortOrder,
		})
	}

	if err := s.store.CreateTemplate(ctx, template); err != nil {
		return nil, storeErr(err, "template")
	}

	logrus.WithFields(logrus.Fields{
		"template_id": template.ID,
		"name":        template.Name,
		"items":       len(template.Items),
	}).Info("ITP template created")

	return template, nil
}

// GetTemplate returns the template with its items ordered by sort_order.
func (s *TemplateService) GetTemplate(ctx context.Context, id uuid.UUID) (*models.ITPTemplate, error) {
	template, err := s.store.GetTemplate(ctx, id)
	if err != nil {
		return nil, storeErr(err, "template")
	}
	return template, nil
}

func (s *TemplateService) ListTemplates(ctx context.Context, req *ListTemplatesRequest, params store.ListParams) ([]models.ITPTemplate, int64, error) {
	filter := store.TemplateFilter{
		ActiveOnly:     req.ActiveOnly,
		Category:       req.Category,
		OrganizationID: req.OrganizationID,
	}
	templates, total, err := s.store.ListTemplates(ctx, filter, params)
	if err != nil {
		return nil, 0, storeErr(err, "templates")
	}
	return templates, total, nil
}

// UpdateTemplate edits template metadata. Existing instances are copies
// and are unaffected; the version counter increments on every edit.
func (s *TemplateService) UpdateTemplate(ctx context.Context, id uuid.UUID, req *UpdateTemplateRequest) (*models.ITPTemplate, error) {
	if err := validateReq(req); err != nil {
		return nil, err
	}

	template, err := s.store.GetTemplate(ctx, id)
	if err != nil {
		return nil, storeErr(err, "template")
	}

	if req.Name != nil {
		template.Name = *req.Name
	}
	if req.Description != nil {
		template.Description = *req.Description
	}
	if req.Category != nil {
		template.Category = *req.Category
	}
	if req.IsActive != nil {
		template.IsActive = *req.IsActive
	}
	template.Version++

	if err := s.store.UpdateTemplate(ctx, template); err != nil {
		return nil, storeErr(err, "template")
	}
	return template, nil
}

// DeactivateTemplate hides the template from assignment pickers. Existing
// assignments and instances keep working.
func (s *TemplateService) DeactivateTemplate(ctx context.Context, id uuid.UUID) error {
	template, err := s.store.GetTemplate(ctx, id)
	if err != nil {
		return storeErr(err, "template")
	}
	if !template.IsActive {
		return nil
	}

	template.IsActive = false
	if err := s.store.UpdateTemplate(ctx, template); err != nil {
		return storeErr(err, "template")
	}

	logrus.WithField("template_id", id).Info("ITP template deactivated")
	return nil
}

func (s *TemplateService) AddTemplateItem(ctx context.Context, templateID uuid.UUID, req *CreateTemplateItemRequest) (*models.ITPTemplateItem, error) {
	if err := validateReq(req); err != nil {
		return nil, err
	}

	template, err := s.store.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, storeErr(err, "template")
	}

	mandatory := true
	if req.IsMandatory != nil {
		mandatory = *req.IsMandatory
	}
	sortOrder := req.SortOrder
	if sortOrder == 0 {
		sortOrder = len(template.Items) + 1
	}

	item := &models.ITPTemplateItem{
		TemplateID:         template.ID,
		ItemNumber:         req.ItemNumber,
		Description:        req.Description,
		AcceptanceCriteria: req.AcceptanceCriteria,
		InspectionMethod:   req.InspectionMethod,
		IsMandatory:        mandatory,
		SortOrder:          sortOrder,
	}
	if err := s.store.CreateTemplateItem(ctx, item); err != nil {
		return nil, storeErr(err, "template item")
	}

	template.Version++
	if err := s.store.UpdateTemplate(ctx, template); err != nil {
		logrus.WithError(err).WithField("template_id", templateID).Warn("Failed to bump template version")
	}

	return item, nil
}

func (s *TemplateService) UpdateTemplateItem(ctx context.Context, templateID, itemID uuid.UUID, req *CreateTemplateItemRequest) (*models.ITPTemplateItem, error) {
	if err := validateReq(req); err != nil {
		return nil, err
	}

	item, err := s.store.GetTemplateItem(ctx, itemID)
	if err != nil {
		return nil, storeErr(err, "template item")
	}
	if item.TemplateID != templateID {
		return nil, apperr.Integrity("item does not belong to this template")
	}

	item.ItemNumber = req.ItemNumber
	item.Description = req.Description
	item.AcceptanceCriteria = req.AcceptanceCriteria
	item.InspectionMethod = req.InspectionMethod
	if req.IsMandatory != nil {
		item.IsMandatory = *req.IsMandatory
	}
	if req.SortOrder != 0 {
		item.SortOrder = req.SortOrder
	}

	if err := s.store.UpdateTemplateItem(ctx, item); err != nil {
		return nil, storeErr(err, "template item")
	}
	return item, nil
}

// resolveActiveTemplate is shared by assignment and instantiation paths.
func resolveActiveTemplate(ctx context.Context, st store.Store, templateID uuid.UUID) (*models.ITPTemplate, error) {
	template, err := st.GetTemplate(ctx, templateID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("template")
		}
		return nil, storeErr(err, "template")
	}
	if !template.IsActive {
		return nil, apperr.Validation("template is not active", nil)
	}
	return template, nil
}
