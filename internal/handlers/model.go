package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fhemview/internal/service"
)

const (
	statusOK        = "ok"
	statusRefreshed = "refreshed"

	errGetModel     = "failed to project model"
	errRefresh      = "failed to refresh snapshot"
	errCheckRules   = "failed to evaluate rules"
	errNoSnapshot   = "no snapshot ingested yet"
	errRoomNotFound = "room not found"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// noSnapshot writes the 503 shared by every projection endpoint.
func (h *Handler) noSnapshot(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": errNoSnapshot})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Projected model
// @Description  The full snapshot filtered by the caller's granted permission tags. Hidden rooms and sensors appear as explicit nulls under their name keys.
// @Tags         model
// @Produce      json
// @Success      200  {object}  projection.View
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/model [get]
// @Security     BearerAuth
func (h *Handler) getModel(c *gin.Context) {
	v, err := h.services.View(callerPermissions(c))
	if err != nil {
		if errors.Is(err, service.ErrNoSnapshot) {
			h.noSnapshot(c)
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errGetModel, "model_projection_failed", err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// @Summary      Projected room
// @Description  One room filtered by the caller's permissions. An existing but fully hidden room yields a null body; an unknown name yields 404.
// @Tags         model
// @Produce      json
// @Param        name  path  string  true  "Room name"
// @Success      200  {object}  projection.RoomView
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/rooms/{name} [get]
// @Security     BearerAuth
func (h *Handler) getRoom(c *gin.Context) {
	rv, ok, err := h.services.Room(c.Param("name"), callerPermissions(c))
	if err != nil {
		if errors.Is(err, service.ErrNoSnapshot) {
			h.noSnapshot(c)
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errGetModel, "room_projection_failed", err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": errRoomNotFound})
		return
	}
	// rv is nil for a fully elided room and marshals as an explicit null
	c.JSON(http.StatusOK, rv)
}

// @Summary      Refresh snapshot
// @Description  Re-ingests the raw device snapshot and publishes a fresh model.
// @Tags         model
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/snapshot/refresh [post]
// @Security     BearerAuth
func (h *Handler) refreshSnapshot(c *gin.Context) {
	if err := h.services.Refresh(c.Request.Context()); err != nil {
		h.logAndJSONError(c, http.StatusBadGateway, errRefresh, "snapshot_refresh_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusRefreshed})
}

// @Summary      Evaluate rules
// @Description  Runs every registered automation rule against the current snapshot. A failing rule is part of the report, not an error.
// @Tags         rules
// @Produce      json
// @Success      200  {object}  rules.Report
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/rules/check [get]
// @Security     BearerAuth
func (h *Handler) checkRules(c *gin.Context) {
	rep, err := h.services.Check(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoSnapshot) {
			h.noSnapshot(c)
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errCheckRules, "rules_check_failed", err)
		return
	}
	c.JSON(http.StatusOK, rep)
}
