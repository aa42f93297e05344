package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// workspaceID extracts the authenticated workspace from the request
// context set by the auth middleware.
func workspaceID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get("workspaceId")
	if !exists {
		return uuid.Nil, errors.New("workspace ID not found in context")
	}
	s, ok := raw.(string)
	if !ok {
		return uuid.Nil, errors.New("invalid workspace ID in context")
	}
	return uuid.Parse(s)
}

func currentUserID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get("userId")
	if !exists {
		return uuid.Nil, errors.New("user ID not found in context")
	}
	s, ok := raw.(string)
	if !ok {
		return uuid.Nil, errors.New("invalid user ID in context")
	}
	return uuid.Parse(s)
}
