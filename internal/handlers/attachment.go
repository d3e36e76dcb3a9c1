// internal/handlers/attachment.go
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sitewise/siteqa-backend/internal/services"
	"github.com/sitewise/siteqa-backend/internal/utils"
)

type AttachmentHandler struct {
	storageService *services.StorageService
}

func NewAttachmentHandler(storageService *services.StorageService) *AttachmentHandler {
	return &AttachmentHandler{storageService: storageService}
}

// POST /attachments
//
// Multipart upload with a "file" part and an optional "category" field
// (inspection_photos, dockets, diary_photos).
func (h *AttachmentHandler) Upload(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "a file is required", nil)
		return
	}
	defer file.Close()

	options := h.storageService.GetDefaultUploadOptions(c.PostForm("category"))

	result, err := h.storageService.UploadFile(file, header, options)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.CreatedResponse(c, result)
}

// GET /attachments/url?key=...
func (h *AttachmentHandler) PresignedURL(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		utils.BadRequestResponse(c, "key is required", nil)
		return
	}

	url, err := h.storageService.GeneratePresignedURL(key, 15*time.Minute)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"url": url})
}

// DELETE /attachments?key=...
func (h *AttachmentHandler) Delete(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		utils.BadRequestResponse(c, "key is required", nil)
		return
	}

	if err := h.storageService.DeleteFile(key); err != nil {
		utils.FromError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "attachment deleted"})
}
