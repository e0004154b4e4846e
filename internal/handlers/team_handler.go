package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gestor/internal/livecache"
)

// TeamHandler serves the performance projection straight from the cache; the
// projection is derived data and has no mutation endpoints.
type TeamHandler struct {
	caches *livecache.Caches
}

func NewTeamHandler(caches *livecache.Caches) *TeamHandler {
	return &TeamHandler{caches: caches}
}

// GET /team
func (h *TeamHandler) GetAll(c *gin.Context) {
	items, loading, errMsg := h.caches.Team.Snapshot()
	c.JSON(http.StatusOK, snapshotResponse(items, loading, errMsg))
}
