package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"gestor/internal/services"
)

type NotificationHandler struct {
	service services.NotificationService
}

func NewNotificationHandler(service services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// GET /notifications — newest first, with the unread count.
func (h *NotificationHandler) List(c *gin.Context) {
	userID, _ := getUserAndRole(c)

	items, unread, err := h.service.ListForUser(c.Request.Context(), userID)
	if err != nil {
		log.Printf("[notif][list][err] user=%s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "unread": unread})
}

// POST /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	id := c.Param("id")

	if err := h.service.MarkRead(c.Request.Context(), userID, id); err != nil {
		log.Printf("[notif][read][err] id=%s user=%s: %v", id, userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notification read"})
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, _ := getUserAndRole(c)

	n, err := h.service.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		log.Printf("[notif][readAll][err] user=%s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notifications read"})
		return
	}
	log.Printf("[notif][readAll][ok] user=%s marked=%d", userID, n)
	c.JSON(http.StatusOK, gin.H{"marked": n})
}

// DELETE /notifications/:id
func (h *NotificationHandler) Delete(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	id := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), userID, id); err != nil {
		log.Printf("[notif][delete][err] id=%s user=%s: %v", id, userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete notification"})
		return
	}
	c.Status(http.StatusNoContent)
}
