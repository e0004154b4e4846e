package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"gestor/internal/livecache"
	"gestor/internal/models"
	"gestor/internal/repositories"
	"gestor/internal/services"
)

type ClientHandler struct {
	service services.ClientService
	caches  *livecache.Caches
}

func NewClientHandler(service services.ClientService, caches *livecache.Caches) *ClientHandler {
	return &ClientHandler{service: service, caches: caches}
}

// @Summary      Criar lead
// @Tags         Clients
// @Accept       json
// @Produce      json
// @Router       /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	log.Printf("[client][create] call by userID=%s", userID)

	var req models.Client
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[client][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		log.Printf("[client][create][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create client"})
		return
	}
	h.refreshCache(c)
	log.Printf("[client][create][ok] id=%s name=%q", created.ID, created.Name)
	c.JSON(http.StatusCreated, created)
}

// GET /clients
func (h *ClientHandler) GetAll(c *gin.Context) {
	items, loading, errMsg := h.caches.Clients.Snapshot()
	c.JSON(http.StatusOK, snapshotResponse(items, loading, errMsg))
}

// GET /clients/:id
func (h *ClientHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	client, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if repositories.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
			return
		}
		log.Printf("[client][getByID][err] id=%s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get client"})
		return
	}
	c.JSON(http.StatusOK, client)
}

// PUT /clients/:id
func (h *ClientHandler) Update(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	id := c.Param("id")
	log.Printf("[client][update] call by userID=%s id=%s", userID, id)

	var req models.Client
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[client][update][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		if repositories.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
			return
		}
		log.Printf("[client][update][err] id=%s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update client"})
		return
	}
	h.refreshCache(c)
	log.Printf("[client][update][ok] id=%s", id)
	c.JSON(http.StatusOK, updated)
}

// POST /clients/:id/status { "to": "Em Contacto" }
func (h *ClientHandler) ChangeStatus(c *gin.Context) {
	id := c.Param("id")

	var body struct {
		To models.ClientStatus `json:"to" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.UpdateStatus(c.Request.Context(), id, body.To)
	if err != nil {
		if repositories.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
			return
		}
		log.Printf("[client][status][err] id=%s to=%q: %v", id, body.To, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.refreshCache(c)
	log.Printf("[client][status][ok] id=%s new=%q", id, body.To)
	c.JSON(http.StatusOK, updated)
}

// POST /clients/:id/claim — first caller wins an unclaimed lead; everybody
// else gets 409.
func (h *ClientHandler) Claim(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	id := c.Param("id")
	log.Printf("[client][claim] call by userID=%s id=%s", userID, id)

	claimed, err := h.service.Claim(c.Request.Context(), id, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrAlreadyClaimed) {
			log.Printf("[client][claim][conflict] id=%s by=%s", id, userID)
			c.JSON(http.StatusConflict, gin.H{"error": "lead already claimed"})
			return
		}
		if repositories.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
			return
		}
		log.Printf("[client][claim][err] id=%s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to claim lead"})
		return
	}
	h.refreshCache(c)
	log.Printf("[client][claim][ok] id=%s responsible=%s", id, userID)
	c.JSON(http.StatusOK, claimed)
}

// DELETE /clients/:id
func (h *ClientHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		log.Printf("[client][delete][err] id=%s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete client"})
		return
	}
	h.refreshCache(c)
	log.Printf("[client][delete][ok] id=%s", id)
	c.Status(http.StatusNoContent)
}

func (h *ClientHandler) refreshCache(c *gin.Context) {
	if err := h.caches.Clients.Refresh(c.Request.Context()); err != nil {
		log.Printf("[client][cache][warn] refresh: %v", err)
	}
}
