package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fhemview/internal/projection"
)

// Context keys set by the permissions middleware.
const (
	ctxUserID      = "userId"
	ctxPermissions = "permissions"
)

// permissionsMiddleware validates the bearer token and stores the caller's
// id and granted permission set in the gin context.
func (h *Handler) permissionsMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	userID, perms, err := h.services.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	c.Set(ctxUserID, userID)
	c.Set(ctxPermissions, projection.NewPermissionSet(perms...))
	c.Next()
}

// callerPermissions returns the permission set stored by the middleware.
// A request that somehow lacks one gets the empty (fully restricted) set.
func callerPermissions(c *gin.Context) projection.PermissionSet {
	v, ok := c.Get(ctxPermissions)
	if !ok {
		return projection.NewPermissionSet()
	}
	perms, ok := v.(projection.PermissionSet)
	if !ok {
		return projection.NewPermissionSet()
	}
	return perms
}
