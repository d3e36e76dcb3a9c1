// internal/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sitewise/siteqa-backend/internal/apperr"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

func SuccessResponseWithMeta(c *gin.Context, data interface{}, meta interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func BadRequestResponse(c *gin.Context, message string, details interface{}) {
	if message == "" {
		message = "invalid request"
	}
	ErrorResponse(c, http.StatusBadRequest, string(apperr.CodeValidation), message, details)
}

func UnauthorizedResponse(c *gin.Context, message string) {
	if message == "" {
		message = "authentication required"
	}
	ErrorResponse(c, http.StatusUnauthorized, string(apperr.CodeUnauthorized), message, nil)
}

func ForbiddenResponse(c *gin.Context, message string) {
	if message == "" {
		message = "insufficient permissions"
	}
	ErrorResponse(c, http.StatusForbidden, string(apperr.CodeForbidden), message, nil)
}

func NotFoundResponse(c *gin.Context, resource string) {
	ErrorResponse(c, http.StatusNotFound, string(apperr.CodeNotFound), resource+" not found", nil)
}

func ConflictResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusConflict, string(apperr.CodeIntegrity), message, nil)
}

func InternalErrorResponse(c *gin.Context, message string) {
	if message == "" {
		message = "internal server error"
	}
	ErrorResponse(c, http.StatusInternalServerError, string(apperr.CodePersistence), message, nil)
}

func ValidationErrorResponse(c *gin.Context, errors []ValidationError) {
	ErrorResponse(c, http.StatusBadRequest, string(apperr.CodeValidation), "invalid input", errors)
}

// FromError maps a service error onto the HTTP surface. Persistence
// failures are logged with the wrapped cause and surfaced generically.
func FromError(c *gin.Context, err error) {
	appErr := apperr.As(err)
	if appErr == nil {
		logrus.WithError(err).Error("unclassified service error")
		InternalErrorResponse(c, "")
		return
	}

	switch appErr.Code {
	case apperr.CodeValidation:
		ErrorResponse(c, http.StatusBadRequest, string(appErr.Code), appErr.Message, appErr.Details)
	case apperr.CodeUnauthorized:
		ErrorResponse(c, http.StatusUnauthorized, string(appErr.Code), appErr.Message, nil)
	case apperr.CodeForbidden:
		ErrorResponse(c, http.StatusForbidden, string(appErr.Code), appErr.Message, nil)
	case apperr.CodeNotFound:
		ErrorResponse(c, http.StatusNotFound, string(appErr.Code), appErr.Message, nil)
	case apperr.CodeIntegrity:
		ErrorResponse(c, http.StatusConflict, string(appErr.Code), appErr.Message, nil)
	default:
		logrus.WithError(appErr).Error("persistence error")
		ErrorResponse(c, http.StatusInternalServerError, string(apperr.CodePersistence), appErr.Message, nil)
	}
}

func PaginatedResponse(c *gin.Context, result PaginationResult) {
	SetPaginationHeaders(c, result)
	SuccessResponseWithMeta(c, result.Data, gin.H{
		"pagination": gin.H{
			"page":        result.Page,
			"limit":       result.Limit,
			"total":       result.Total,
			"total_pages": result.TotalPages,
		},
	})
}

func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userID, exists := c.Get("user_id"); exists {
		if userIDStr, ok := userID.(string); ok {
			return userIDStr, true
		}
	}
	return "", false
}

func GetUserRoleFromContext(c *gin.Context) (string, bool) {
	if role, exists := c.Get("user_role"); exists {
		if roleStr, ok := role.(string); ok {
			return roleStr, true
		}
	}
	return "", false
}
