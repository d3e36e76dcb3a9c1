// internal/handlers/project.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sitewise/siteqa-backend/internal/services"
	"github.com/sitewise/siteqa-backend/internal/utils"
)

type ProjectHandler struct {
	projectService      *services.ProjectService
	notificationService *services.NotificationService
}

func NewProjectHandler(projectService *services.ProjectService, notificationService *services.NotificationService) *ProjectHandler {
	return &ProjectHandler{
		projectService:      projectService,
		notificationService: notificationService,
	}
}

// POST /projects
func (h *ProjectHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body", nil)
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), userID, &req)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.CreatedResponse(c, project)
}

// GET /projects
func (h *ProjectHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	projects, total, err := h.projectService.ListProjects(c.Request.Context(), params.ListParams())
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(projects, total, params))
}

// GET /projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(c.Request.Context(), id)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.SuccessResponse(c, project)
}

// PUT /projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body", nil)
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), id, &req)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.SuccessResponse(c, project)
}

// DELETE /projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), id); err != nil {
		utils.FromError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "project deleted"})
}

// GET /notifications
func (h *ProjectHandler) ListNotifications(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var projectID *uuid.UUID
	if raw := c.Query("project_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			projectID = &id
		}
	}

	notifications, total, err := h.notificationService.ListNotifications(c.Request.Context(), projectID, params.ListParams())
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(notifications, total, params))
}
