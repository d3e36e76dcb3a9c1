// internal/handlers/assignment.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sitewise/siteqa-backend/internal/services"
	"github.com/sitewise/siteqa-backend/internal/utils"
)

type AssignmentHandler struct {
	assignmentService *services.AssignmentService
}

func NewAssignmentHandler(assignmentService *services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

// POST /lots/:id/assignments
func (h *AssignmentHandler) Assign(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	lotID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var body struct {
		TemplateID string `json:"template_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequestResponse(c, "template_id is required", nil)
		return
	}
	templateID, ok := parseUUID(c, body.TemplateID, "template_id")
	if !ok {
		return
	}

	req := services.AssignTemplateRequest{LotID: lotID, TemplateID: templateID}
	assignment, err := h.assignmentService.AssignTemplateToLot(c.Request.Context(), userID, &req)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.CreatedResponse(c, assignment)
}

// GET /lots/:id/assignments
func (h *AssignmentHandler) List(c *gin.Context) {
	lotID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	var statusFilter []string
	if raw := c.Query("status"); raw != "" {
		statusFilter = strings.Split(raw, ",")
	}

	assignments, total, err := h.assignmentService.ListAssignments(c.Request.Context(), lotID, statusFilter, params.ListParams())
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(assignments, total, params))
}

// GET /assignments/:id
func (h *AssignmentHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	assignment, err := h.assignmentService.GetAssignment(c.Request.Context(), id)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.SuccessResponse(c, assignment)
}

// DELETE /assignments/:id
func (h *AssignmentHandler) Remove(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.assignmentService.RemoveAssignment(c.Request.Context(), id); err != nil {
		utils.FromError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "assignment removed"})
}

// PUT /assignments/:id/status
func (h *AssignmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateAssignmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body", nil)
		return
	}

	assignment, err := h.assignmentService.UpdateAssignmentStatus(c.Request.Context(), id, &req)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.SuccessResponse(c, assignment)
}
