// internal/handlers/itp.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sitewise/siteqa-backend/internal/models"
	"github.com/sitewise/siteqa-backend/internal/services"
	"github.com/sitewise/siteqa-backend/internal/store"
	"github.com/sitewise/siteqa-backend/internal/utils"
)

type ITPHandler struct {
	itpService *services.ITPService
}

func NewITPHandler(itpService *services.ITPService) *ITPHandler {
	return &ITPHandler{itpService: itpService}
}

// POST /itps/from-template
func (h *ITPHandler) CreateFromTemplate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateFromTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body", nil)
		return
	}

	instance, err := h.itpService.CreateFromTemplate(c.Request.Context(), userID, &req)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.CreatedResponse(c, instance)
}

// GET /itps
func (h *ITPHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var filter store.InstanceFilter
	if project := c.Query("project_id"); project != "" {
		if projectID, err := uuid.Parse(project); err == nil {
			filter.ProjectID = &projectID
		}
	}
	if lot := c.Query("lot_id"); lot != "" {
		if lotID, err := uuid.Parse(lot); err == nil {
			filter.LotID = &lotID
		}
	}
	if status := c.Query("status"); status != "" {
		instanceStatus := models.InstanceStatus(status)
		filter.Status = &instanceStatus
	}

	instances, total, err := h.itpService.ListInstances(c.Request.Context(), filter, params.ListParams())
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(instances, total, params))
}

// GET /itps/:id
func (h *ITPHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	instance, err := h.itpService.GetInstance(c.Request.Context(), id)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.SuccessResponse(c, instance)
}

// PUT /itps/:id/items/:itemId
func (h *ITPHandler) UpdateItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseUUIDParam(c, "itemId")
	if !ok {
		return
	}

	var req services.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body", nil)
		return
	}

	item, err := h.itpService.UpdateItem(c.Request.Context(), id, itemID, userID, &req)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.SuccessResponse(c, item)
}
