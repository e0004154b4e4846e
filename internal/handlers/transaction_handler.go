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

type TransactionHandler struct {
	service services.TransactionService
	caches  *livecache.Caches
}

func NewTransactionHandler(service services.TransactionService, caches *livecache.Caches) *TransactionHandler {
	return &TransactionHandler{service: service, caches: caches}
}

type transactionRequest struct {
	Description string                   `json:"desc" binding:"required"`
	Date        string                   `json:"date" binding:"required"` // RFC3339
	Category    string                   `json:"cat"`
	Value       float64                  `json:"val" binding:"required"`
	Type        models.TransactionType   `json:"type" binding:"required"`
	Status      models.TransactionStatus `json:"status"` // defaulted by type when empty
}

func (r *transactionRequest) toModel(c *gin.Context, tag string) (*models.Transaction, bool) {
	date, err := time.Parse(time.RFC3339, r.Date)
	if err != nil {
		log.Printf("[ledger][%s][err] invalid date=%q: %v", tag, r.Date, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date (RFC3339)"})
		return nil, false
	}
	switch r.Type {
	case models.TransactionIncome, models.TransactionExpense, models.TransactionInvestment:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid type"})
		return nil, false
	}
	return &models.Transaction{
		Description: r.Description,
		Date:        date,
		Category:    r.Category,
		Value:       r.Value,
		Type:        r.Type,
		Status:      r.Status,
	}, true
}

// POST /transactions
func (h *TransactionHandler) Create(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	log.Printf("[ledger][create] call by userID=%s", userID)

	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[ledger][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, ok := req.toModel(c, "create")
	if !ok {
		return
	}

	created, err := h.service.Create(c.Request.Context(), t)
	if err != nil {
		log.Printf("[ledger][create][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create transaction"})
		return
	}
	h.refreshCache(c)
	log.Printf("[ledger][create][ok] id=%s type=%s status=%s", created.ID, created.Type, created.Status)
	c.JSON(http.StatusCreated, created)
}

// GET /transactions
func (h *TransactionHandler) GetAll(c *gin.Context) {
	items, loading, errMsg := h.caches.Transactions.Snapshot()
	c.JSON(http.StatusOK, snapshotResponse(items, loading, errMsg))
}

// PUT /transactions/:id
func (h *TransactionHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, ok := req.toModel(c, "update")
	if !ok {
		return
	}
	if t.Status == "" {
		t.Status = services.DefaultTransactionStatus(t.Type)
	}

	updated, err := h.service.Update(c.Request.Context(), id, t)
	if err != nil {
		if repositories.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
			return
		}
		log.Printf("[ledger][update][err] id=%s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update transaction"})
		return
	}
	h.refreshCache(c)
	c.JSON(http.StatusOK, updated)
}

// DELETE /transactions/:id
func (h *TransactionHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		log.Printf("[ledger][delete][err] id=%s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete transaction"})
		return
	}
	h.refreshCache(c)
	c.Status(http.StatusNoContent)
}

func (h *TransactionHandler) refreshCache(c *gin.Context) {
	if err := h.caches.Transactions.Refresh(c.Request.Context()); err != nil {
		log.Printf("[ledger][cache][warn] refresh: %v", err)
	}
}
