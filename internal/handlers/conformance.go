// internal/handlers/conformance.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/sitewise/siteqa-backend/internal/services"
	"github.com/sitewise/siteqa-backend/internal/utils"
)

type ConformanceHandler struct {
	conformanceService *services.ConformanceService
	progressService    *services.ProgressService
}

func NewConformanceHandler(conformanceService *services.ConformanceService, progressService *services.ProgressService) *ConformanceHandler {
	return &ConformanceHandler{
		conformanceService: conformanceService,
		progressService:    progressService,
	}
}

// POST /lots/:id/conformance
func (h *ConformanceHandler) RecordResult(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	lotID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.RecordResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body", nil)
		return
	}
	req.LotID = lotID

	record, err := h.conformanceService.RecordResult(c.Request.Context(), userID, &req)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.CreatedResponse(c, record)
}

// GET /lots/:id/conformance
func (h *ConformanceHandler) ListRecords(c *gin.Context) {
	lotID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	records, total, err := h.conformanceService.ListRecords(c.Request.Context(), lotID, params.ListParams())
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(records, total, params))
}

// GET /lots/:id/conformance/:itemId
func (h *ConformanceHandler) GetRecord(c *gin.Context) {
	lotID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseUUIDParam(c, "itemId")
	if !ok {
		return
	}

	record, err := h.conformanceService.GetRecord(c.Request.Context(), lotID, itemID)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.SuccessResponse(c, record)
}

// GET /lots/:id/itps/:itpId/progress
func (h *ConformanceHandler) GetProgress(c *gin.Context) {
	lotID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	instanceID, ok := parseUUIDParam(c, "itpId")
	if !ok {
		return
	}

	progress, err := h.progressService.GetProgress(c.Request.Context(), lotID, instanceID)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.SuccessResponse(c, progress)
}
