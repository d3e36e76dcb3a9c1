// internal/handlers/docket.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/sitewise/siteqa-backend/internal/services"
	"github.com/sitewise/siteqa-backend/internal/utils"
)

type DocketHandler struct {
	docketService *services.DocketService
}

func NewDocketHandler(docketService *services.DocketService) *DocketHandler {
	return &DocketHandler{docketService: docketService}
}

// POST /lots/:id/dockets
func (h *DocketHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	lotID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CreateDocketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body", nil)
		return
	}
	req.LotID = lotID

	docket, err := h.docketService.CreateDocket(c.Request.Context(), userID, &req)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.CreatedResponse(c, docket)
}

// GET /lots/:id/dockets
func (h *DocketHandler) List(c *gin.Context) {
	lotID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	dockets, total, err := h.docketService.ListDockets(c.Request.Context(), lotID, c.Query("type"), params.ListParams())
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(dockets, total, params))
}

// GET /dockets/:id
func (h *DocketHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	docket, err := h.docketService.GetDocket(c.Request.Context(), id)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.SuccessResponse(c, docket)
}

// PUT /dockets/:id
func (h *DocketHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateDocketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body", nil)
		return
	}

	docket, err := h.docketService.UpdateDocket(c.Request.Context(), id, &req)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.SuccessResponse(c, docket)
}

// DELETE /dockets/:id
func (h *DocketHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.docketService.DeleteDocket(c.Request.Context(), id); err != nil {
		utils.FromError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "docket deleted"})
}
