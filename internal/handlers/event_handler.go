package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gestor/internal/livecache"
	"gestor/internal/models"
	"gestor/internal/repositories"
	"gestor/internal/services"
)

type EventHandler struct {
	service services.EventService
	caches  *livecache.Caches
}

func NewEventHandler(service services.EventService, caches *livecache.Caches) *EventHandler {
	return &EventHandler{service: service, caches: caches}
}

type eventRequest struct {
	Title       string           `json:"title" binding:"required"`
	Date        string           `json:"date" binding:"required"` // RFC3339
	Type        models.EventType `json:"type"`
	Description *string          `json:"description"`
}

// POST /events
func (h *EventHandler) Create(c *gin.Context) {
	userID, _ := getUserAndRole(c)

	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[event][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date (RFC3339)"})
		return
	}

	event := &models.CalendarEvent{
		Title:       req.Title,
		Date:        date,
		Type:        req.Type,
		Description: req.Description,
		CreatedBy:   &userID,
	}
	created, err := h.service.Create(c.Request.Context(), event)
	if err != nil {
		log.Printf("[event][create][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create event"})
		return
	}
	h.refreshCache(c)
	log.Printf("[event][create][ok] id=%s title=%q", created.ID, created.Title)
	c.JSON(http.StatusCreated, created)
}

// GET /events
func (h *EventHandler) GetAll(c *gin.Context) {
	items, loading, errMsg := h.caches.Events.Snapshot()
	c.JSON(http.StatusOK, snapshotResponse(items, loading, errMsg))
}

// PUT /events/:id
func (h *EventHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date (RFC3339)"})
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, &models.CalendarEvent{
		Title:       req.Title,
		Date:        date,
		Type:        req.Type,
		Description: req.Description,
	})
	if err != nil {
		if repositories.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}
		log.Printf("[event][update][err] id=%s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update event"})
		return
	}
	h.refreshCache(c)
	c.JSON(http.StatusOK, updated)
}

// DELETE /events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		log.Printf("[event][delete][err] id=%s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete event"})
		return
	}
	h.refreshCache(c)
	c.Status(http.StatusNoContent)
}

func (h *EventHandler) refreshCache(c *gin.Context) {
	if err := h.caches.Events.Refresh(c.Request.Context()); err != nil {
		log.Printf("[event][cache][warn] refresh: %v", err)
	}
}
