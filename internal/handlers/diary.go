// internal/handlers/diary.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/sitewise/siteqa-backend/internal/services"
	"github.com/sitewise/siteqa-backend/internal/utils"
)

type DiaryHandler struct {
	diaryService *services.DiaryService
}

func NewDiaryHandler(diaryService *services.DiaryService) *DiaryHandler {
	return &DiaryHandler{diaryService: diaryService}
}

// POST /lots/:id/diaries
func (h *DiaryHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	lotID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CreateDiaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body", nil)
		return
	}
	req.LotID = lotID

	diary, err := h.diaryService.CreateDiary(c.Request.Context(), userID, &req)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.CreatedResponse(c, diary)
}

// GET /lots/:id/diaries
func (h *DiaryHandler) List(c *gin.Context) {
	lotID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	diaries, total, err := h.diaryService.ListDiaries(c.Request.Context(), lotID, params.ListParams())
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(diaries, total, params))
}

// GET /diaries/:id
func (h *DiaryHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	diary, err := h.diaryService.GetDiary(c.Request.Context(), id)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.SuccessResponse(c, diary)
}

// PUT /diaries/:id
func (h *DiaryHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateDiaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body", nil)
		return
	}

	diary, err := h.diaryService.UpdateDiary(c.Request.Context(), id, &req)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.SuccessResponse(c, diary)
}

// DELETE /diaries/:id
func (h *DiaryHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.diaryService.DeleteDiary(c.Request.Context(), id); err != nil {
		utils.FromError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "diary entry deleted"})
}
