// internal/handlers/lot.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sitewise/siteqa-backend/internal/services"
	"github.com/sitewise/siteqa-backend/internal/utils"
)

type LotHandler struct {
	lotService *services.LotService
}

func NewLotHandler(lotService *services.LotService) *LotHandler {
	return &LotHandler{lotService: lotService}
}

// POST /lots
func (h *LotHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body", nil)
		return
	}

	lot, err := h.lotService.CreateLot(c.Request.Context(), userID, &req)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.CreatedResponse(c, lot)
}

// GET /lots
func (h *LotHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var projectID *uuid.UUID
	if raw := c.Query("project_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.BadRequestResponse(c, "invalid project_id", nil)
			return
		}
		projectID = &id
	}

	lots, total, err := h.lotService.ListLots(c.Request.Context(), projectID, params.ListParams())
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(lots, total, params))
}

// GET /lots/:id
func (h *LotHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	lot, err := h.lotService.GetLot(c.Request.Context(), id)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.SuccessResponse(c, lot)
}

// PUT /lots/:id
func (h *LotHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body", nil)
		return
	}

	lot, err := h.lotService.UpdateLot(c.Request.Context(), id, &req)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.SuccessResponse(c, lot)
}

// DELETE /lots/:id
func (h *LotHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.lotService.DeleteLot(c.Request.Context(), id); err != nil {
		utils.FromError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "lot deleted"})
}
