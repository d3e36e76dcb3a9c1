// internal/handlers/common.go

// Package handlers is the HTTP layer: bind, validate, delegate to a
// service, translate the outcome through the response envelope.
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sitewise/siteqa-backend/internal/utils"
)

// parseUUIDParam reads a path parameter as a UUID, writing the 400
// response itself on failure.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

// parseUUID reads a UUID from an arbitrary string field, writing the 400
// response itself on failure.
func parseUUID(c *gin.Context, raw, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.BadRequestResponse(c, "invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

// currentUserID resolves the authenticated user from the request context.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "authentication required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.UnauthorizedResponse(c, "invalid session")
		return uuid.Nil, false
	}
	return id, true
}
